package storage

import (
	"context"
	"database/sql"

	"github.com/remexre/g1/internal/facts"
)

// snapshot is a facts.Source backed by one read-only transaction (a bare
// SQLite BEGIN, which defaults to deferred), so every relation it serves
// reflects the same instant even if writes land on the store mid-solve.
type snapshot struct {
	tx *sql.Tx
}

// Snapshot opens a consistent read-only view of the store for the
// duration of one solve. The caller must invoke the returned close func
// once done with it.
func (s *Store) Snapshot(ctx context.Context) (facts.Source, func() error, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, nil, errf("SnapshotFailed", "opening snapshot: %v", err)
	}
	return &snapshot{tx: tx}, tx.Rollback, nil
}

func (sn *snapshot) Atoms(ctx context.Context) ([]facts.Atom, error) {
	rows, err := sn.tx.QueryContext(ctx, `SELECT id FROM atoms`)
	if err != nil {
		return nil, errf("QueryFailed", "atoms: %v", err)
	}
	defer rows.Close()
	var out []facts.Atom
	for rows.Next() {
		var a facts.Atom
		if err := rows.Scan(&a.ID); err != nil {
			return nil, errf("ScanFailed", "atoms: %v", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (sn *snapshot) Names(ctx context.Context) ([]facts.Name, error) {
	rows, err := sn.tx.QueryContext(ctx, `SELECT atom, key, value FROM names`)
	if err != nil {
		return nil, errf("QueryFailed", "names: %v", err)
	}
	defer rows.Close()
	var out []facts.Name
	for rows.Next() {
		var n facts.Name
		if err := rows.Scan(&n.Atom, &n.Key, &n.Value); err != nil {
			return nil, errf("ScanFailed", "names: %v", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (sn *snapshot) Edges(ctx context.Context) ([]facts.Edge, error) {
	rows, err := sn.tx.QueryContext(ctx, `SELECT from_atom, to_atom, label FROM edges`)
	if err != nil {
		return nil, errf("QueryFailed", "edges: %v", err)
	}
	defer rows.Close()
	var out []facts.Edge
	for rows.Next() {
		var e facts.Edge
		if err := rows.Scan(&e.From, &e.To, &e.Label); err != nil {
			return nil, errf("ScanFailed", "edges: %v", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (sn *snapshot) Tags(ctx context.Context) ([]facts.Tag, error) {
	rows, err := sn.tx.QueryContext(ctx, `SELECT atom, key, value FROM tags`)
	if err != nil {
		return nil, errf("QueryFailed", "tags: %v", err)
	}
	defer rows.Close()
	var out []facts.Tag
	for rows.Next() {
		var t facts.Tag
		if err := rows.Scan(&t.Atom, &t.Key, &t.Value); err != nil {
			return nil, errf("ScanFailed", "tags: %v", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (sn *snapshot) Blobs(ctx context.Context) ([]facts.Blob, error) {
	rows, err := sn.tx.QueryContext(ctx, `SELECT atom, kind, mime, digest FROM blobs`)
	if err != nil {
		return nil, errf("QueryFailed", "blobs: %v", err)
	}
	defer rows.Close()
	var out []facts.Blob
	for rows.Next() {
		var b facts.Blob
		if err := rows.Scan(&b.Atom, &b.Kind, &b.Mime, &b.Digest); err != nil {
			return nil, errf("ScanFailed", "blobs: %v", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
