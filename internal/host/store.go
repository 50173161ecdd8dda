// Package host implements the repository host layer named by spec.md §2/§6:
// entity storage, identifier sequence bookkeeping, and the serialization of
// a Repository to and from a byte stream. It is grounded on
// hyperengineering-engram's internal/store (a pure-Go SQLite store via
// modernc.org/sqlite) rather than a bespoke binary codec.
package host

import (
	"database/sql"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/smalltable/smalltable"
)

// schema is created in full at Open time. There is exactly one schema
// version and nothing to migrate across releases, so this intentionally
// does not reach for pressly/goose (see DESIGN.md).
const schema = `
CREATE TABLE IF NOT EXISTS sequences (
	name  TEXT PRIMARY KEY,
	value INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS entities (
	id   INTEGER PRIMARY KEY,
	body TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS revisions (
	seq  INTEGER PRIMARY KEY,
	body TEXT NOT NULL
);
`

// Store persists a smalltable.Repository to a SQLite file.
type Store struct {
	db  *sql.DB
	log *logrus.Entry
}

// Open opens (creating if necessary) the SQLite file at path and ensures
// its schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "host: open")
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "host: create schema")
	}
	return &Store{
		db:  db,
		log: logrus.StandardLogger().WithField("component", "host"),
	}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Dump serializes repo's full state — entity table, revision list, and
// both sequence counters — into the store inside a single transaction.
// Entities are written before the revision list that references them, and
// the revision list before the sequence counters, mirroring spec.md
// §4.3/§9's "entity insert happens-before install" ordering requirement.
func (s *Store) Dump(repo *smalltable.Repository) error {
	tx, err := s.db.Begin()
	if err != nil {
		return errors.Wrap(err, "host: begin dump")
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.Exec(`DELETE FROM entities`); err != nil {
		return errors.Wrap(err, "host: clear entities")
	}
	if _, err := tx.Exec(`DELETE FROM revisions`); err != nil {
		return errors.Wrap(err, "host: clear revisions")
	}
	if _, err := tx.Exec(`DELETE FROM sequences`); err != nil {
		return errors.Wrap(err, "host: clear sequences")
	}

	for id, entity := range repo.AllEntities() {
		body, err := json.Marshal(encodeEntity(entity))
		if err != nil {
			return errors.Wrap(err, "host: encode entity")
		}
		if _, err := tx.Exec(`INSERT INTO entities (id, body) VALUES (?, ?)`, uint64(id), string(body)); err != nil {
			return errors.Wrap(err, "host: insert entity")
		}
	}

	for i, rev := range repo.Revisions() {
		body, err := json.Marshal(encodeRevision(rev))
		if err != nil {
			return errors.Wrap(err, "host: encode revision")
		}
		if _, err := tx.Exec(`INSERT INTO revisions (seq, body) VALUES (?, ?)`, i, string(body)); err != nil {
			return errors.Wrap(err, "host: insert revision")
		}
	}

	stats := repo.Stats()
	if _, err := tx.Exec(`INSERT INTO sequences (name, value) VALUES (?, ?)`, "reference", stats.LastReference); err != nil {
		return errors.Wrap(err, "host: insert reference sequence")
	}
	if _, err := tx.Exec(`INSERT INTO sequences (name, value) VALUES (?, ?)`, "entity_id", stats.LastEntityId); err != nil {
		return errors.Wrap(err, "host: insert entity_id sequence")
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "host: commit dump")
	}
	s.log.WithFields(logrus.Fields{
		"revisions": stats.RevisionCount,
		"entities":  stats.EntityCount,
	}).Debug("dumped repository")
	return nil
}

// Load reconstructs a Repository from the store's persisted state. The
// returned repository's Head() equals the head at the time of the last
// Dump, and both sequences resume strictly above every identifier present
// in the dump, satisfying spec.md §6.
func (s *Store) Load() (*smalltable.Repository, error) {
	entities := make(map[smalltable.EntityId]smalltable.Entity)
	entityRows, err := s.db.Query(`SELECT id, body FROM entities`)
	if err != nil {
		return nil, errors.Wrap(err, "host: query entities")
	}
	defer entityRows.Close()
	for entityRows.Next() {
		var id uint64
		var body string
		if err := entityRows.Scan(&id, &body); err != nil {
			return nil, errors.Wrap(err, "host: scan entity")
		}
		var we wireEntity
		if err := json.Unmarshal([]byte(body), &we); err != nil {
			return nil, errors.Wrap(err, "host: decode entity")
		}
		entity, err := decodeEntity(we)
		if err != nil {
			return nil, err
		}
		entities[smalltable.EntityId(id)] = entity
	}
	if err := entityRows.Err(); err != nil {
		return nil, errors.Wrap(err, "host: read entities")
	}

	var revisions []smalltable.Revision
	revRows, err := s.db.Query(`SELECT body FROM revisions ORDER BY seq ASC`)
	if err != nil {
		return nil, errors.Wrap(err, "host: query revisions")
	}
	defer revRows.Close()
	for revRows.Next() {
		var body string
		if err := revRows.Scan(&body); err != nil {
			return nil, errors.Wrap(err, "host: scan revision")
		}
		var wr wireRevision
		if err := json.Unmarshal([]byte(body), &wr); err != nil {
			return nil, errors.Wrap(err, "host: decode revision")
		}
		rev, err := decodeRevision(wr)
		if err != nil {
			return nil, err
		}
		revisions = append(revisions, rev)
	}
	if err := revRows.Err(); err != nil {
		return nil, errors.Wrap(err, "host: read revisions")
	}
	if len(revisions) == 0 {
		revisions = append(revisions, smalltable.RevisionFromParts(nil, nil))
	}

	var lastReference, lastEntityId uint64
	if err := s.db.QueryRow(`SELECT value FROM sequences WHERE name = ?`, "reference").Scan(&lastReference); err != nil && err != sql.ErrNoRows {
		return nil, errors.Wrap(err, "host: query reference sequence")
	}
	if err := s.db.QueryRow(`SELECT value FROM sequences WHERE name = ?`, "entity_id").Scan(&lastEntityId); err != nil && err != sql.ErrNoRows {
		return nil, errors.Wrap(err, "host: query entity_id sequence")
	}

	return smalltable.RestoreRepository(nil, revisions, entities, lastReference, lastEntityId)
}
