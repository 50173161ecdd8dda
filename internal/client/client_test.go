package client

import (
	"testing"

	"github.com/fortytw2/leaktest"

	"github.com/smalltable/smalltable"
)

func newTestRepository(t *testing.T) *smalltable.Repository {
	t.Helper()
	repo, err := smalltable.NewRepository(nil)
	if err != nil {
		t.Fatal(err)
	}
	return repo
}

func TestTableNewBindSave(t *testing.T) {
	defer leaktest.Check(t)()

	repo := newTestRepository(t)
	table := NewTable(repo)

	obj := table.New()
	obj.SetString("value", "hello")
	if err := table.Bind("greeting", obj); err != nil {
		t.Fatalf("Bind failed: %v", err)
	}

	head, err := table.Save()
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if ref, ok := head.Binding("greeting"); !ok || ref != obj.Reference() {
		t.Errorf(`head.Binding("greeting") = %d, %v; expected %d, true`, ref, ok, obj.Reference())
	}
}

func TestTableResolveCachesByReference(t *testing.T) {
	defer leaktest.Check(t)()

	repo := newTestRepository(t)
	writer := NewTable(repo)
	obj := writer.New()
	obj.SetInt64("n", 42)
	if err := writer.Bind("root", obj); err != nil {
		t.Fatal(err)
	}
	if _, err := writer.Save(); err != nil {
		t.Fatal(err)
	}

	reader := NewTable(repo)
	a, ok := reader.Resolve(obj.Reference())
	if !ok {
		t.Fatalf("Resolve failed to find object")
	}
	b, ok := reader.Resolve(obj.Reference())
	if !ok || a != b {
		t.Errorf("Resolve did not return the cached *Object on the second call")
	}
	if v, _ := a.Get("n"); v.Equal(smalltable.Int64Value(42)) == false {
		t.Errorf(`resolved object Get("n") = %+v; expected 42`, v)
	}
}

func TestTableBindRejectsForeignObject(t *testing.T) {
	defer leaktest.Check(t)()

	repo := newTestRepository(t)
	t1 := NewTable(repo)
	t2 := NewTable(repo)

	obj := t2.New()
	if err := t1.Bind("root", obj); err == nil {
		t.Errorf("Bind accepted an object from a different table")
	}
}

func TestObjectSetReferenceRejectsForeignObject(t *testing.T) {
	defer leaktest.Check(t)()

	repo := newTestRepository(t)
	t1 := NewTable(repo)
	t2 := NewTable(repo)

	a := t1.New()
	b := t2.New()
	if err := a.SetReference("link", b); err == nil {
		t.Errorf("SetReference accepted an object from a different table")
	}
}

func TestObjectSetReferenceSameTable(t *testing.T) {
	defer leaktest.Check(t)()

	repo := newTestRepository(t)
	table := NewTable(repo)

	a := table.New()
	b := table.New()
	if err := a.SetReference("link", b); err != nil {
		t.Fatalf("SetReference within the same table failed: %v", err)
	}
	v, ok := a.Get("link")
	if !ok {
		t.Fatal("Get(link) missing")
	}
	if ref, ok := v.Reference(); !ok || ref != b.Reference() {
		t.Errorf("a.Get(link) reference = %d, %v; expected %d, true", ref, ok, b.Reference())
	}
}
