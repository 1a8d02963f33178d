package facts

import (
	"context"

	"github.com/hashicorp/go-memdb"
)

var memSchema = &memdb.DBSchema{
	Tables: map[string]*memdb.TableSchema{
		"atoms": {
			Name: "atoms",
			Indexes: map[string]*memdb.IndexSchema{
				"id": {Name: "id", Unique: true, Indexer: &memdb.StringFieldIndex{Field: "ID"}},
			},
		},
		"names": {
			Name: "names",
			Indexes: map[string]*memdb.IndexSchema{
				"id": {
					Name:   "id",
					Unique: true,
					Indexer: &memdb.CompoundIndex{Indexes: []memdb.Indexer{
						&memdb.StringFieldIndex{Field: "Atom"},
						&memdb.StringFieldIndex{Field: "Key"},
						&memdb.StringFieldIndex{Field: "Value"},
					}},
				},
			},
		},
		"edges": {
			Name: "edges",
			Indexes: map[string]*memdb.IndexSchema{
				"id": {
					Name:   "id",
					Unique: true,
					Indexer: &memdb.CompoundIndex{Indexes: []memdb.Indexer{
						&memdb.StringFieldIndex{Field: "From"},
						&memdb.StringFieldIndex{Field: "Label"},
						&memdb.StringFieldIndex{Field: "To"},
					}},
				},
			},
		},
		"tags": {
			Name: "tags",
			Indexes: map[string]*memdb.IndexSchema{
				"id": {
					Name:   "id",
					Unique: true,
					Indexer: &memdb.CompoundIndex{Indexes: []memdb.Indexer{
						&memdb.StringFieldIndex{Field: "Atom"},
						&memdb.StringFieldIndex{Field: "Key"},
						&memdb.StringFieldIndex{Field: "Value"},
					}},
				},
			},
		},
		"blobs": {
			Name: "blobs",
			Indexes: map[string]*memdb.IndexSchema{
				"id": {
					Name:   "id",
					Unique: true,
					Indexer: &memdb.CompoundIndex{Indexes: []memdb.Indexer{
						&memdb.StringFieldIndex{Field: "Atom"},
						&memdb.StringFieldIndex{Field: "Kind"},
					}},
				},
			},
		},
	},
}

// MemorySource is an in-memory facts.Source and facts.Sink backed by
// go-memdb. Each read method takes its own snapshot transaction, so one
// call observes a consistent view even if writes race it; two calls (say
// Atoms then Edges) see different states if a write lands between them.
type MemorySource struct {
	db *memdb.MemDB
}

// NewMemorySource builds an empty in-memory fact store.
func NewMemorySource() (*MemorySource, error) {
	db, err := memdb.NewMemDB(memSchema)
	if err != nil {
		return nil, err
	}
	return &MemorySource{db: db}, nil
}

func (m *MemorySource) PutAtom(_ context.Context, a Atom) error {
	txn := m.db.Txn(true)
	defer txn.Abort()
	if err := txn.Insert("atoms", a); err != nil {
		return err
	}
	txn.Commit()
	return nil
}

func (m *MemorySource) PutName(_ context.Context, n Name) error {
	txn := m.db.Txn(true)
	defer txn.Abort()
	if err := txn.Insert("names", n); err != nil {
		return err
	}
	txn.Commit()
	return nil
}

func (m *MemorySource) PutEdge(_ context.Context, e Edge) error {
	txn := m.db.Txn(true)
	defer txn.Abort()
	if err := txn.Insert("edges", e); err != nil {
		return err
	}
	txn.Commit()
	return nil
}

func (m *MemorySource) PutTag(_ context.Context, t Tag) error {
	txn := m.db.Txn(true)
	defer txn.Abort()
	if err := txn.Insert("tags", t); err != nil {
		return err
	}
	txn.Commit()
	return nil
}

func (m *MemorySource) PutBlob(_ context.Context, b Blob) error {
	txn := m.db.Txn(true)
	defer txn.Abort()
	if err := txn.Insert("blobs", b); err != nil {
		return err
	}
	txn.Commit()
	return nil
}

func (m *MemorySource) Atoms(_ context.Context) ([]Atom, error) {
	txn := m.db.Txn(false)
	defer txn.Abort()
	it, err := txn.Get("atoms", "id")
	if err != nil {
		return nil, err
	}
	var out []Atom
	for raw := it.Next(); raw != nil; raw = it.Next() {
		out = append(out, raw.(Atom))
	}
	return out, nil
}

func (m *MemorySource) Names(_ context.Context) ([]Name, error) {
	txn := m.db.Txn(false)
	defer txn.Abort()
	it, err := txn.Get("names", "id")
	if err != nil {
		return nil, err
	}
	var out []Name
	for raw := it.Next(); raw != nil; raw = it.Next() {
		out = append(out, raw.(Name))
	}
	return out, nil
}

func (m *MemorySource) Edges(_ context.Context) ([]Edge, error) {
	txn := m.db.Txn(false)
	defer txn.Abort()
	it, err := txn.Get("edges", "id")
	if err != nil {
		return nil, err
	}
	var out []Edge
	for raw := it.Next(); raw != nil; raw = it.Next() {
		out = append(out, raw.(Edge))
	}
	return out, nil
}

func (m *MemorySource) Tags(_ context.Context) ([]Tag, error) {
	txn := m.db.Txn(false)
	defer txn.Abort()
	it, err := txn.Get("tags", "id")
	if err != nil {
		return nil, err
	}
	var out []Tag
	for raw := it.Next(); raw != nil; raw = it.Next() {
		out = append(out, raw.(Tag))
	}
	return out, nil
}

func (m *MemorySource) Blobs(_ context.Context) ([]Blob, error) {
	txn := m.db.Txn(false)
	defer txn.Abort()
	it, err := txn.Get("blobs", "id")
	if err != nil {
		return nil, err
	}
	var out []Blob
	for raw := it.Next(); raw != nil; raw = it.Next() {
		out = append(out, raw.(Blob))
	}
	return out, nil
}
