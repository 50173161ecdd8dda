package smalltable

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Repository owns the append-only revision list, the entity table, and the
// two monotonic identifier sequences. It is shared by many Sessions; the
// sequences are lock-free, and the revision list and entity table are
// mutated only under a single repository-level critical section.
type Repository struct {
	config Config
	log    *logrus.Entry

	refSeq sequence
	idSeq  sequence

	mu        sync.Mutex
	revisions []Revision // newest first; revisions[0] is head
	entities  map[EntityId]Entity
}

// NewRepository creates a Repository with an empty initial revision. A nil
// config uses DefaultConfig.
func NewRepository(c *Config) (*Repository, error) {
	if c == nil {
		c = &DefaultConfig
	}
	if err := c.Verify(); err != nil {
		return nil, err
	}
	logger := c.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Repository{
		config:    *c,
		log:       logger.WithField("component", "repository"),
		revisions: []Revision{emptyRevision()},
		entities:  make(map[EntityId]Entity),
	}, nil
}

// RestoreRepository rebuilds a Repository from previously persisted state
// (spec.md §6): a revision list (newest first, must be non-empty), the
// entity table, and the highest Reference/EntityId seen anywhere in the
// dump. Both sequences resume strictly above the supplied high-water
// marks. Used by internal/host when loading a dump.
func RestoreRepository(c *Config, revisions []Revision, entities map[EntityId]Entity, lastReference, lastEntityId uint64) (*Repository, error) {
	if len(revisions) == 0 {
		return nil, newInvalidArgument("revisions must contain at least the empty revision")
	}
	repo, err := NewRepository(c)
	if err != nil {
		return nil, err
	}
	repo.revisions = append([]Revision{}, revisions...)
	if entities == nil {
		entities = make(map[EntityId]Entity)
	}
	repo.entities = entities
	repo.refSeq.bumpTo(lastReference)
	repo.idSeq.bumpTo(lastEntityId)
	return repo, nil
}

// AllocateReference returns a fresh, globally unique Reference.
func (r *Repository) AllocateReference() Reference {
	return Reference(r.refSeq.next())
}

// AllocateEntityIDs returns n fresh, globally unique EntityIds. The core
// guarantees uniqueness only, not contiguity or ordering across concurrent
// callers.
func (r *Repository) AllocateEntityIDs(n int) []EntityId {
	if n <= 0 {
		return nil
	}
	first := r.idSeq.reserve(uint64(n))
	ids := make([]EntityId, n)
	for i := 0; i < n; i++ {
		ids[i] = EntityId(first + uint64(i))
	}
	return ids
}

// Entity is a read-only lookup of an entity body by id.
func (r *Repository) Entity(id EntityId) (Entity, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entities[id]
	return e, ok
}

// Prepare allocates one EntityId per input entity, inserts each (id,
// entity) pair into the entity table, and returns the mapping from each
// entity's self-reference to its freshly assigned EntityId. If the same
// self-reference appears more than once in entities, the mapping for that
// reference reflects whichever EntityId was inserted last; avoiding that
// is the caller's responsibility (spec.md §4.3).
func (r *Repository) Prepare(entities []Entity) map[Reference]EntityId {
	if len(entities) == 0 {
		return map[Reference]EntityId{}
	}
	ids := r.AllocateEntityIDs(len(entities))

	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[Reference]EntityId, len(entities))
	for i, e := range entities {
		id := ids[i]
		r.entities[id] = e
		out[e.Self()] = id
	}
	return out
}

// Head returns the current head revision.
func (r *Repository) Head() Revision {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.revisions[0]
}

// headVersion returns the current head along with an opaque version token
// identifying exactly this installation of it, for installIfHeadUnchanged.
func (r *Repository) headVersion() (Revision, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.revisions[0], len(r.revisions)
}

// installIfHeadUnchanged installs next as the new head iff the repository's
// head is still the one identified by version (i.e. no other commit
// installed in between). It returns whether the install happened.
func (r *Repository) installIfHeadUnchanged(version int, next Revision) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.revisions) != version {
		return false
	}
	r.revisions = append([]Revision{next}, r.revisions...)
	return true
}

// Commit runs the optimistic install loop of spec.md §4.3: it repeatedly
// rebases delta against whatever has landed on head since source, and
// tries to install the result, up to Config.MaxCommitRetries attempts.
//
// State machine per attempt: START → REBASE → {CONFLICT | INSTALL_TRY} →
// {SUCCESS | RETRY → REBASE | GAVE_UP}. Both a semantic conflict (Merge
// returning false) and exhausting all attempts surface identically as
// ErrConflict; the core does not distinguish them (spec.md §7, §9).
func (r *Repository) Commit(source Revision, delta Delta) (Revision, error) {
	log := r.log.WithField("op", "commit")
	for attempt := 1; attempt <= r.config.MaxCommitRetries; attempt++ {
		head, version := r.headVersion()
		headDelta := source.Diff(head)

		rebased, ok := delta.Merge(headDelta)
		if !ok {
			log.WithFields(logrus.Fields{"attempt": attempt}).Debug("commit conflict: overlapping keys since source")
			return Revision{}, ErrConflict
		}

		next := source.Apply(rebased)
		if r.installIfHeadUnchanged(version, next) {
			log.WithFields(logrus.Fields{"attempt": attempt}).Debug("commit installed")
			return next, nil
		}
		log.WithFields(logrus.Fields{"attempt": attempt}).Debug("commit CAS failed, retrying")
	}
	return Revision{}, errors.Wrapf(ErrConflict, "gave up after %d attempts", r.config.MaxCommitRetries)
}

// Revisions returns the full append-only revision list, newest first. The
// slice is a defensive copy; mutating it does not affect the repository.
func (r *Repository) Revisions() []Revision {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Revision, len(r.revisions))
	copy(out, r.revisions)
	return out
}

// At returns the nth revision (0 = head), newest first.
func (r *Repository) At(n int) (Revision, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n < 0 || n >= len(r.revisions) {
		return Revision{}, false
	}
	return r.revisions[n], true
}

// AllEntities returns a defensive copy of the repository's full entity
// table. Used by internal/host to serialize the repository as the
// self-contained graph required by spec.md §6.
func (r *Repository) AllEntities() map[EntityId]Entity {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[EntityId]Entity, len(r.entities))
	for k, v := range r.entities {
		out[k] = v
	}
	return out
}

// Stats reports counters useful for diagnostics and for the host/CLI
// layers: revision count, entity table size, and the current sequence
// values (the last Reference and EntityId allocated, 0 if none yet).
type Stats struct {
	RevisionCount int
	EntityCount   int
	LastReference uint64
	LastEntityId  uint64
}

// Stats returns a snapshot of the repository's size and sequence state.
func (r *Repository) Stats() Stats {
	r.mu.Lock()
	revCount := len(r.revisions)
	entCount := len(r.entities)
	r.mu.Unlock()
	return Stats{
		RevisionCount: revCount,
		EntityCount:   entCount,
		LastReference: r.refSeq.peek(),
		LastEntityId:  r.idSeq.peek(),
	}
}
