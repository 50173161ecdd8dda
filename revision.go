package smalltable

// Revision is an immutable snapshot of the whole repository's named roots
// and live reference table: a pair of maps, bindings (name → Reference)
// and entities (Reference → EntityId). Both maps are internally consistent
// — no tombstones, those live only in Delta. The empty Revision has both
// maps empty.
type Revision struct {
	bindings map[string]Reference
	entities map[Reference]EntityId
}

// RevisionFromParts builds a Revision directly from its two maps. Intended
// for hosts reconstructing a Revision from persisted state (spec.md §6);
// the maps are copied defensively.
func RevisionFromParts(bindings map[string]Reference, entities map[Reference]EntityId) Revision {
	b := make(map[string]Reference, len(bindings))
	for k, v := range bindings {
		b[k] = v
	}
	e := make(map[Reference]EntityId, len(entities))
	for k, v := range entities {
		e[k] = v
	}
	return Revision{bindings: b, entities: e}
}

// emptyRevision is the initial revision installed by a fresh Repository.
func emptyRevision() Revision {
	return Revision{
		bindings: map[string]Reference{},
		entities: map[Reference]EntityId{},
	}
}

// Binding looks up a named root. It returns (0, false) if the name is
// unbound.
func (r Revision) Binding(name string) (Reference, bool) {
	ref, ok := r.bindings[name]
	return ref, ok
}

// IDOf looks up which EntityId is the current snapshot of ref. It returns
// (0, false) if ref is not live at this revision.
func (r Revision) IDOf(ref Reference) (EntityId, bool) {
	id, ok := r.entities[ref]
	return id, ok
}

// Diff computes the Delta required to turn r into target: for every key in
// target whose value differs from (or is absent in) r, a Some entry; for
// every key in r absent from target, a None (tombstone) entry. Keys whose
// value is unchanged between r and target are absent from the result.
func (r Revision) Diff(target Revision) Delta {
	d := newDelta()
	for name, ref := range target.bindings {
		if cur, ok := r.bindings[name]; !ok || cur != ref {
			d.bindings[name] = Some(ref)
		}
	}
	for name := range r.bindings {
		if _, ok := target.bindings[name]; !ok {
			d.bindings[name] = None[Reference]()
		}
	}
	for ref, id := range target.entities {
		if cur, ok := r.entities[ref]; !ok || cur != id {
			d.entities[ref] = Some(id)
		}
	}
	for ref := range r.entities {
		if _, ok := target.entities[ref]; !ok {
			d.entities[ref] = None[EntityId]()
		}
	}
	return d
}

// Apply produces the Revision that results from applying delta to r: keys
// with a None value are removed, keys with a Some value are set, and keys
// absent from the delta are copied through unchanged. If delta is empty,
// the result equals r.
func (r Revision) Apply(delta Delta) Revision {
	if delta.Empty() {
		return r
	}
	out := Revision{
		bindings: make(map[string]Reference, len(r.bindings)+len(delta.bindings)),
		entities: make(map[Reference]EntityId, len(r.entities)+len(delta.entities)),
	}
	for name, ref := range r.bindings {
		out.bindings[name] = ref
	}
	for name, opt := range delta.bindings {
		if ref, ok := opt.Get(); ok {
			out.bindings[name] = ref
		} else {
			delete(out.bindings, name)
		}
	}
	for ref, id := range r.entities {
		out.entities[ref] = id
	}
	for ref, opt := range delta.entities {
		if id, ok := opt.Get(); ok {
			out.entities[ref] = id
		} else {
			delete(out.entities, ref)
		}
	}
	return out
}

// Equal reports whether r and other have identical bindings and entities.
func (r Revision) Equal(other Revision) bool {
	if len(r.bindings) != len(other.bindings) || len(r.entities) != len(other.entities) {
		return false
	}
	for name, ref := range r.bindings {
		if oref, ok := other.bindings[name]; !ok || oref != ref {
			return false
		}
	}
	for ref, id := range r.entities {
		if oid, ok := other.entities[ref]; !ok || oid != id {
			return false
		}
	}
	return true
}

// Bindings returns a defensive copy of the revision's name→Reference map.
func (r Revision) Bindings() map[string]Reference {
	out := make(map[string]Reference, len(r.bindings))
	for k, v := range r.bindings {
		out[k] = v
	}
	return out
}

// Entities returns a defensive copy of the revision's Reference→EntityId
// map.
func (r Revision) Entities() map[Reference]EntityId {
	out := make(map[Reference]EntityId, len(r.entities))
	for k, v := range r.entities {
		out[k] = v
	}
	return out
}
