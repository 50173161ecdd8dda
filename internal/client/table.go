package client

import (
	"sync"
	"sync/atomic"

	"github.com/smalltable/smalltable"
)

// tableHandleSeq allocates the opaque per-process handles Tables use to
// identify themselves to the Objects they own (spec.md §9: "client objects
// identify their owning table by value").
var tableHandleSeq uint64

// Table is a client's workspace over a smalltable.Repository: it owns a
// Session, lazily resolves references into cached *Object instances, and
// validates that a property value pointing at another object was built by
// this same Table before accepting it.
type Table struct {
	handle uint64

	mu      sync.Mutex
	repo    *smalltable.Repository
	session *smalltable.Session
	objects map[smalltable.Reference]*Object
}

// NewTable opens a Table against repo's current head.
func NewTable(repo *smalltable.Repository) *Table {
	return &Table{
		handle:  atomic.AddUint64(&tableHandleSeq, 1),
		repo:    repo,
		session: smalltable.NewSession(repo),
		objects: make(map[smalltable.Reference]*Object),
	}
}

// Handle returns the table's opaque ownership handle.
func (t *Table) Handle() uint64 { return t.handle }

// Repository returns the underlying repository, for callers (such as
// internal/host) that need to persist it directly.
func (t *Table) Repository() *smalltable.Repository { return t.repo }

// New allocates a fresh Reference and returns a new, empty, dirty Object
// owned by t.
func (t *Table) New() *Object {
	t.mu.Lock()
	defer t.mu.Unlock()

	ref := t.session.AllocateReference()
	obj := &Object{
		table:       t,
		tableHandle: t.handle,
		ref:         ref,
		properties:  make(map[string]smalltable.Value),
		dirty:       true,
	}
	t.objects[ref] = obj
	return obj
}

// Resolve returns the cached *Object for ref, building and caching one
// from the session's start-revision snapshot if this is the first lookup.
func (t *Table) Resolve(ref smalltable.Reference) (*Object, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if obj, ok := t.objects[ref]; ok {
		return obj, true
	}
	entity, ok := t.session.Resolve(ref)
	if !ok {
		return nil, false
	}
	obj := &Object{
		table:       t,
		tableHandle: t.handle,
		ref:         ref,
		properties:  entity.Properties(),
	}
	t.objects[ref] = obj
	return obj, true
}

// Bind sets root name to obj, rejecting an obj owned by a different Table.
func (t *Table) Bind(name string, obj *Object) error {
	if obj == nil {
		return newNilObjectError(name)
	}
	if obj.tableHandle != t.handle {
		return newForeignTableError(name)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.session.Bind(name, smalltable.Some(obj.ref))
	return nil
}

// Unbind removes root name.
func (t *Table) Unbind(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.session.Bind(name, smalltable.None[smalltable.Reference]())
}

// Bound resolves the object currently bound to name, preferring pending
// changes over the session's start revision (smalltable.Session.Bound).
func (t *Table) Bound(name string) (*Object, bool) {
	t.mu.Lock()
	ref, ok := t.session.Bound(name)
	t.mu.Unlock()
	if !ok {
		return nil, false
	}
	return t.Resolve(ref)
}

// Save collects every dirty object cached by this Table, converts each to
// an immutable smalltable.Entity, and drives them through the session's
// optimistic commit. On success every saved object's dirty flag is
// cleared and the Table opens a fresh Session pinned to the new head; on
// conflict the Table's pending state is left untouched so the caller may
// retry.
func (t *Table) Save() (smalltable.Revision, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var dirty []*Object
	var entities []smalltable.Entity
	for _, obj := range t.objects {
		if !obj.dirty {
			continue
		}
		e, err := obj.entity()
		if err != nil {
			return smalltable.Revision{}, err
		}
		dirty = append(dirty, obj)
		entities = append(entities, e)
	}

	head, err := t.session.Save(entities)
	if err != nil {
		return smalltable.Revision{}, err
	}

	for _, obj := range dirty {
		obj.dirty = false
	}
	t.session = smalltable.NewSession(t.repo)
	return head, nil
}
