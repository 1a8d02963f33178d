package facts

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySource_RoundTrip(t *testing.T) {
	ctx := context.Background()
	src, err := NewMemorySource()
	require.NoError(t, err)

	require.NoError(t, src.PutAtom(ctx, Atom{ID: "a1"}))
	require.NoError(t, src.PutEdge(ctx, Edge{From: "a1", Label: "knows", To: "a2"}))
	require.NoError(t, src.PutName(ctx, Name{Atom: "a1", Key: "label", Value: "Alice"}))
	require.NoError(t, src.PutTag(ctx, Tag{Atom: "a1", Key: "kind", Value: "person"}))
	require.NoError(t, src.PutBlob(ctx, Blob{Atom: "a1", Kind: "avatar", Mime: "image/png", Digest: "deadbeef"}))

	atoms, err := src.Atoms(ctx)
	require.NoError(t, err)
	assert.Len(t, atoms, 1)

	edges, err := src.Edges(ctx)
	require.NoError(t, err)
	require.Len(t, edges, 1)
	assert.Equal(t, "knows", edges[0].Label)

	names, err := src.Names(ctx)
	require.NoError(t, err)
	require.Len(t, names, 1)

	tags, err := src.Tags(ctx)
	require.NoError(t, err)
	require.Len(t, tags, 1)

	blobs, err := src.Blobs(ctx)
	require.NoError(t, err)
	require.Len(t, blobs, 1)
	assert.Equal(t, "deadbeef", blobs[0].Digest)
}

func TestMemorySource_DuplicateInsertDedupes(t *testing.T) {
	ctx := context.Background()
	src, err := NewMemorySource()
	require.NoError(t, err)

	edge := Edge{From: "a1", Label: "knows", To: "a2"}
	require.NoError(t, src.PutEdge(ctx, edge))
	require.NoError(t, src.PutEdge(ctx, edge))

	edges, err := src.Edges(ctx)
	require.NoError(t, err)
	assert.Len(t, edges, 1)
}
