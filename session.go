package smalltable

import "github.com/sirupsen/logrus"

// Session is a per-client workspace pinned to a start revision. It is
// created from a Repository's head, used to read and stage binding
// changes, and consumed by exactly one Save. Operating on a Session after
// it has been saved is undefined; this implementation does not guard
// against it.
type Session struct {
	repo  *Repository
	start Revision
	log   *logrus.Entry

	modifiedBindings map[string]Option[Reference]
}

// NewSession opens a Session pinned to repo's current head.
func NewSession(repo *Repository) *Session {
	return &Session{
		repo:             repo,
		start:            repo.Head(),
		log:              repo.log.WithField("component", "session"),
		modifiedBindings: make(map[string]Option[Reference]),
	}
}

// Start returns the revision this session was opened against. All reads
// through Resolve are snapshot-consistent against this revision for the
// session's lifetime.
func (s *Session) Start() Revision { return s.start }

// AllocateReference delegates to the repository.
func (s *Session) AllocateReference() Reference {
	return s.repo.AllocateReference()
}

// Bind records the intent to set (Some) or unbind (None) name. It does not
// touch the repository until Save.
func (s *Session) Bind(name string, ref Option[Reference]) {
	s.modifiedBindings[name] = ref
}

// Bound looks up name, preferring a pending change over the start
// revision: a pending None means "unbound in this session" and shadows
// whatever the start revision says.
func (s *Session) Bound(name string) (Reference, bool) {
	if opt, ok := s.modifiedBindings[name]; ok {
		return opt.Get()
	}
	return s.start.Binding(name)
}

// Resolve looks up ref in the session's start revision (never head) and
// asks the repository for that id's entity body. Reads are therefore
// snapshot-consistent against the start revision for the session's
// lifetime, regardless of concurrent commits by other sessions.
func (s *Session) Resolve(ref Reference) (Entity, bool) {
	id, ok := s.start.IDOf(ref)
	if !ok {
		return Entity{}, false
	}
	return s.repo.Entity(id)
}

// bindingDelta builds the canonical binding-delta for this session: the
// subset of modifiedBindings that actually differs from the start
// revision (step 1 of spec.md §4.4 save).
func (s *Session) bindingDelta() Delta {
	d := newDelta()
	for name, opt := range s.modifiedBindings {
		ref, isSome := opt.Get()
		startRef, startOk := s.start.Binding(name)
		switch {
		case !isSome && !startOk:
			// Unbinding a name that was already unbound: no-op.
			continue
		case isSome && startOk && startRef == ref:
			// Binding to the value it already had: no-op.
			continue
		default:
			d.bindings[name] = opt
		}
	}
	return d
}

// Save computes this session's Delta from its pending binding changes plus
// the given dirty entities, and drives it through the repository's
// optimistic commit loop (spec.md §4.4):
//
//  1. Build the canonical binding-delta.
//  2. Pre-verify against changes landed on head since Start (an
//     optimization only — the commit loop is authoritative even if this
//     step is skipped).
//  3. Allocate EntityIds and store the dirty entity bodies.
//  4. Assemble the full Delta (binding-delta ∪ entity-delta).
//  5. Commit it.
//
// EntityIds allocated in step 3 remain in the repository's entity table
// even if the subsequent commit fails; such bodies become unreachable from
// any revision. This is an accepted cost of the design (spec.md §4.4).
func (s *Session) Save(dirty []Entity) (Revision, error) {
	bindingDelta := s.bindingDelta()

	// Pre-verify: fail fast without allocating EntityIds if we can already
	// tell the commit will conflict.
	head := s.repo.Head()
	headDelta := s.start.Diff(head)
	dirtyRefs := make([]Reference, len(dirty))
	for i, e := range dirty {
		dirtyRefs[i] = e.Self()
	}
	if headDelta.ConflictsWith(bindingDelta.BindingKeys(), NewReferenceSet(dirtyRefs...)) {
		s.log.Debug("save: pre-verify detected a conflict, failing fast")
		return Revision{}, ErrConflict
	}

	entityMap := s.repo.Prepare(dirty)

	delta := newDelta()
	for name, opt := range bindingDelta.bindings {
		delta.bindings[name] = opt
	}
	for ref, id := range entityMap {
		delta.entities[ref] = Some(id)
	}

	return s.repo.Commit(s.start, delta)
}
