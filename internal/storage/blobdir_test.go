package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlobDir_PutGetRoundTrip(t *testing.T) {
	dir, err := NewBlobDir(t.TempDir())
	require.NoError(t, err)

	digest, size, err := dir.Put([]byte("hello world"))
	require.NoError(t, err)
	assert.Equal(t, "11", size)

	got, err := dir.Get(digest)
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(got))
}

func TestBlobDir_PutIsIdempotent(t *testing.T) {
	dir, err := NewBlobDir(t.TempDir())
	require.NoError(t, err)

	d1, _, err := dir.Put([]byte("same"))
	require.NoError(t, err)
	d2, _, err := dir.Put([]byte("same"))
	require.NoError(t, err)
	assert.Equal(t, d1, d2)
}

func TestBlobDir_GetMissingDigestErrors(t *testing.T) {
	dir, err := NewBlobDir(t.TempDir())
	require.NoError(t, err)

	_, err = dir.Get("0000000000000000000000000000000000000000000000000000000000000000")
	require.Error(t, err)
	var serr StorageError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "BlobNotFound", serr.Kind)
}
