package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/remexre/g1/internal/facts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "g1.db")
	s, err := Open(path, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_WriteAndSnapshot(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	id, err := s.CreateAtom(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	require.NoError(t, s.PutEdge(ctx, facts.Edge{From: id, Label: "knows", To: id}))
	require.NoError(t, s.PutName(ctx, facts.Name{Atom: id, Key: "label", Value: "self"}))

	src, closeFn, err := s.Snapshot(ctx)
	require.NoError(t, err)
	defer closeFn()

	atoms, err := src.Atoms(ctx)
	require.NoError(t, err)
	assert.Len(t, atoms, 1)

	edges, err := src.Edges(ctx)
	require.NoError(t, err)
	require.Len(t, edges, 1)
	assert.Equal(t, "knows", edges[0].Label)
}

func TestStore_DuplicateEdgeIsIgnored(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	e := facts.Edge{From: "a", Label: "x", To: "b"}
	require.NoError(t, s.PutEdge(ctx, e))
	require.NoError(t, s.PutEdge(ctx, e))

	src, closeFn, err := s.Snapshot(ctx)
	require.NoError(t, err)
	defer closeFn()

	edges, err := src.Edges(ctx)
	require.NoError(t, err)
	assert.Len(t, edges, 1)
}

func TestStore_PutBlobOverwritesByAtomAndKind(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	require.NoError(t, s.PutBlob(ctx, facts.Blob{Atom: "a", Kind: "avatar", Mime: "image/png", Digest: "d1"}))
	require.NoError(t, s.PutBlob(ctx, facts.Blob{Atom: "a", Kind: "avatar", Mime: "image/png", Digest: "d2"}))

	src, closeFn, err := s.Snapshot(ctx)
	require.NoError(t, err)
	defer closeFn()

	blobs, err := src.Blobs(ctx)
	require.NoError(t, err)
	require.Len(t, blobs, 1)
	assert.Equal(t, "d2", blobs[0].Digest)
}
