package smalltable

// Delta represents the change from one Revision to another: two partial
// maps with tombstones. Keys present in a Delta are exactly the keys whose
// value differs between the source and target revisions; tombstones are
// represented by a None value, never by key absence.
type Delta struct {
	bindings map[string]Option[Reference]
	entities map[Reference]Option[EntityId]
}

func newDelta() Delta {
	return Delta{
		bindings: map[string]Option[Reference]{},
		entities: map[Reference]Option[EntityId]{},
	}
}

// Empty reports whether the delta changes nothing.
func (d Delta) Empty() bool {
	return len(d.bindings) == 0 && len(d.entities) == 0
}

// BindingKeys returns the set of binding names this delta touches.
func (d Delta) BindingKeys() StringSet {
	s := make(StringSet, len(d.bindings))
	for k := range d.bindings {
		s[k] = struct{}{}
	}
	return s
}

// EntityKeys returns the set of references this delta touches.
func (d Delta) EntityKeys() ReferenceSet {
	s := make(ReferenceSet, len(d.entities))
	for k := range d.entities {
		s[k] = struct{}{}
	}
	return s
}

// StringSet is a set of binding names.
type StringSet map[string]struct{}

// NewStringSet builds a StringSet from the given names.
func NewStringSet(names ...string) StringSet {
	s := make(StringSet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// ReferenceSet is a set of References.
type ReferenceSet map[Reference]struct{}

// NewReferenceSet builds a ReferenceSet from the given references.
func NewReferenceSet(refs ...Reference) ReferenceSet {
	s := make(ReferenceSet, len(refs))
	for _, r := range refs {
		s[r] = struct{}{}
	}
	return s
}

// intersectsStrings and intersectsReferences report whether a and b share
// any element, iterating the
// smaller of the two against membership in the larger so the check is
// deterministically time-proportional to min(len(a), len(b)).
func intersectsStrings(a, b StringSet) bool {
	if len(a) > len(b) {
		a, b = b, a
	}
	for k := range a {
		if _, ok := b[k]; ok {
			return true
		}
	}
	return false
}

func intersectsReferences(a, b ReferenceSet) bool {
	if len(a) > len(b) {
		a, b = b, a
	}
	for k := range a {
		if _, ok := b[k]; ok {
			return true
		}
	}
	return false
}

// ConflictsWith reports whether either of bindingKeys or entityKeys
// intersects the corresponding key-set of d.
func (d Delta) ConflictsWith(bindingKeys StringSet, entityKeys ReferenceSet) bool {
	if intersectsStrings(bindingKeys, d.BindingKeys()) {
		return true
	}
	return intersectsReferences(entityKeys, d.EntityKeys())
}

// Merge combines d and other into a single Delta whose maps are the
// key-wise union, provided the two deltas share no binding key and no
// entity key. If any key overlaps — regardless of whether the colliding
// values happen to agree — Merge reports ok=false. This conservative
// policy is part of the contract (spec.md §4.2/§9): no per-key value
// reconciliation is ever attempted.
func (d Delta) Merge(other Delta) (merged Delta, ok bool) {
	for k := range d.bindings {
		if _, dup := other.bindings[k]; dup {
			return Delta{}, false
		}
	}
	for k := range d.entities {
		if _, dup := other.entities[k]; dup {
			return Delta{}, false
		}
	}

	out := newDelta()
	for k, v := range d.bindings {
		out.bindings[k] = v
	}
	for k, v := range other.bindings {
		out.bindings[k] = v
	}
	for k, v := range d.entities {
		out.entities[k] = v
	}
	for k, v := range other.entities {
		out.entities[k] = v
	}
	return out, true
}
