// Package storage provides a durable, SQLite-backed implementation of
// facts.Source and facts.Sink, plus a content-addressed blob directory.
// Writes are serialized through a single goroutine so concurrent callers
// never contend over SQLite's own locking; reads see a consistent snapshot
// taken at the start of each solve.
package storage

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	_ "github.com/mattn/go-sqlite3"
	"github.com/remexre/g1/internal/facts"
)

type writeCmd struct {
	run  func(*sql.DB) error
	done chan error
}

// Store is a durable facts.Sink and (via Snapshot) facts.Source.
type Store struct {
	db     *sql.DB
	writes chan writeCmd
	closed chan struct{}
	log    hclog.Logger
}

// Open opens (creating and migrating if necessary) the SQLite database at
// path and starts its single writer goroutine.
func Open(path string, log hclog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errf("OpenFailed", "opening %s: %v", path, err)
	}
	if _, err := db.Exec(schemaDDL); err != nil {
		db.Close()
		return nil, errf("MigrationFailed", "applying schema: %v", err)
	}
	if log == nil {
		log = hclog.NewNullLogger()
	}
	s := &Store{db: db, writes: make(chan writeCmd), closed: make(chan struct{}), log: log.Named("storage")}
	go s.runWriter()
	return s, nil
}

func (s *Store) runWriter() {
	for {
		select {
		case cmd := <-s.writes:
			cmd.done <- cmd.run(s.db)
		case <-s.closed:
			return
		}
	}
}

func (s *Store) enqueue(run func(*sql.DB) error) error {
	done := make(chan error, 1)
	select {
	case s.writes <- writeCmd{run: run, done: done}:
	case <-s.closed:
		return errf("Closed", "store is closed")
	}
	return <-done
}

// Close stops the writer goroutine and closes the underlying database.
func (s *Store) Close() error {
	close(s.closed)
	return s.db.Close()
}

func (s *Store) PutAtom(ctx context.Context, a facts.Atom) error {
	return s.enqueue(func(db *sql.DB) error {
		_, err := db.ExecContext(ctx, `INSERT OR IGNORE INTO atoms(id) VALUES (?)`, a.ID)
		if err != nil {
			return errf("WriteFailed", "put atom: %v", err)
		}
		return nil
	})
}

func (s *Store) PutName(ctx context.Context, n facts.Name) error {
	return s.enqueue(func(db *sql.DB) error {
		_, err := db.ExecContext(ctx,
			`INSERT OR IGNORE INTO names(atom, key, value) VALUES (?, ?, ?)`, n.Atom, n.Key, n.Value)
		if err != nil {
			return errf("WriteFailed", "put name: %v", err)
		}
		return nil
	})
}

func (s *Store) PutEdge(ctx context.Context, e facts.Edge) error {
	return s.enqueue(func(db *sql.DB) error {
		_, err := db.ExecContext(ctx,
			`INSERT OR IGNORE INTO edges(from_atom, to_atom, label) VALUES (?, ?, ?)`, e.From, e.To, e.Label)
		if err != nil {
			return errf("WriteFailed", "put edge: %v", err)
		}
		return nil
	})
}

func (s *Store) PutTag(ctx context.Context, t facts.Tag) error {
	return s.enqueue(func(db *sql.DB) error {
		_, err := db.ExecContext(ctx,
			`INSERT OR IGNORE INTO tags(atom, key, value) VALUES (?, ?, ?)`, t.Atom, t.Key, t.Value)
		if err != nil {
			return errf("WriteFailed", "put tag: %v", err)
		}
		return nil
	})
}

func (s *Store) PutBlob(ctx context.Context, b facts.Blob) error {
	return s.enqueue(func(db *sql.DB) error {
		_, err := db.ExecContext(ctx,
			`INSERT OR REPLACE INTO blobs(atom, kind, mime, digest) VALUES (?, ?, ?, ?)`,
			b.Atom, b.Kind, b.Mime, b.Digest)
		if err != nil {
			return errf("WriteFailed", "put blob: %v", err)
		}
		return nil
	})
}

// CreateAtom generates a fresh UUID atom identifier, persists it, and
// returns it.
func (s *Store) CreateAtom(ctx context.Context) (string, error) {
	id := uuid.NewString()
	if err := s.PutAtom(ctx, facts.Atom{ID: id}); err != nil {
		return "", err
	}
	return id, nil
}
