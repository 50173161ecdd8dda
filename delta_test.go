package smalltable

import (
	"testing"

	"github.com/fortytw2/leaktest"
)

func TestDeltaConflictsWith(t *testing.T) {
	defer leaktest.Check(t)()

	a := emptyRevision()
	b := rev(map[string]Reference{"root": 1}, map[Reference]EntityId{1: 10})
	d := a.Diff(b)

	testCases := []struct {
		name        string
		bindingKeys StringSet
		entityKeys  ReferenceSet
		expected    bool
	}{
		{"no overlap", NewStringSet("other"), NewReferenceSet(99), false},
		{"binding overlap", NewStringSet("root"), nil, true},
		{"entity overlap", nil, NewReferenceSet(1), true},
		{"both empty", NewStringSet(), NewReferenceSet(), false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if out := d.ConflictsWith(tc.bindingKeys, tc.entityKeys); out != tc.expected {
				t.Errorf("ConflictsWith(%v, %v) = %v; expected %v", tc.bindingKeys, tc.entityKeys, out, tc.expected)
			}
		})
	}
}

// TestMergeDisjointApplyComposition is the property of spec.md §8: if
// d1.Merge(d2) is ok, then for every revision r, r.Apply(merged) equals
// r.Apply(d1).Apply(d2) equals r.Apply(d2).Apply(d1).
func TestMergeDisjointApplyComposition(t *testing.T) {
	defer leaktest.Check(t)()

	base := emptyRevision()
	d1 := base.Diff(rev(map[string]Reference{"a": 1}, map[Reference]EntityId{1: 10}))
	d2 := base.Diff(rev(map[string]Reference{"b": 2}, map[Reference]EntityId{2: 20}))

	merged, ok := d1.Merge(d2)
	if !ok {
		t.Fatalf("d1.Merge(d2) ok = false; expected true for disjoint deltas")
	}

	viaMerged := base.Apply(merged)
	viaD1ThenD2 := base.Apply(d1).Apply(d2)
	viaD2ThenD1 := base.Apply(d2).Apply(d1)

	if !viaMerged.Equal(viaD1ThenD2) {
		t.Errorf("base.Apply(merged) = %+v; expected %+v", viaMerged, viaD1ThenD2)
	}
	if !viaMerged.Equal(viaD2ThenD1) {
		t.Errorf("base.Apply(merged) = %+v; expected %+v", viaMerged, viaD2ThenD1)
	}
}

// TestMergeConflictSymmetry is the property of spec.md §8: d1.Merge(d2) is
// None iff d2.Merge(d1) is None.
func TestMergeConflictSymmetry(t *testing.T) {
	defer leaktest.Check(t)()

	base := emptyRevision()
	target1 := rev(map[string]Reference{"root": 1}, nil)
	target2 := rev(map[string]Reference{"root": 2}, nil)
	d1 := base.Diff(target1)
	d2 := base.Diff(target2)

	_, ok1 := d1.Merge(d2)
	_, ok2 := d2.Merge(d1)
	if ok1 != ok2 {
		t.Errorf("d1.Merge(d2) ok = %v but d2.Merge(d1) ok = %v; expected equal", ok1, ok2)
	}
	if ok1 {
		t.Errorf("d1.Merge(d2) ok = true; expected false (both bind \"root\")")
	}
}

func TestMergeKeyOverlapConflictsEvenIfValuesAgree(t *testing.T) {
	defer leaktest.Check(t)()

	base := emptyRevision()
	target := rev(map[string]Reference{"root": 1}, nil)
	d1 := base.Diff(target)
	d2 := base.Diff(target)

	if _, ok := d1.Merge(d2); ok {
		t.Errorf("d1.Merge(d2) ok = true; expected false even though both deltas agree on \"root\"'s value")
	}
}

func TestMergeDisjointEntityKeys(t *testing.T) {
	defer leaktest.Check(t)()

	base := emptyRevision()
	d1 := base.Diff(rev(nil, map[Reference]EntityId{1: 10}))
	d2 := base.Diff(rev(nil, map[Reference]EntityId{2: 20}))

	merged, ok := d1.Merge(d2)
	if !ok {
		t.Fatalf("d1.Merge(d2) ok = false; expected true")
	}
	got := base.Apply(merged)
	want := rev(nil, map[Reference]EntityId{1: 10, 2: 20})
	if !got.Equal(want) {
		t.Errorf("base.Apply(merged) = %+v; expected %+v", got, want)
	}
}
