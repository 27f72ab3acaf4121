package blobstore

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStoreLifecycle(t *testing.T) {
	store := NewLocalStore(t.TempDir())
	ctx := context.Background()

	data := []byte("hello world, this is a test blob")

	w, err := store.Create(ctx, "data-001.bin")
	require.NoError(t, err)

	n, err := w.Write(data)
	require.NoError(t, err)
	require.Equal(t, len(data), n)
	require.NoError(t, w.Close())

	blob, err := store.Open(ctx, "data-001.bin")
	require.NoError(t, err)
	defer blob.Close()

	require.Equal(t, int64(len(data)), blob.Size())

	buf := make([]byte, 5)
	n, err = blob.ReadAt(ctx, buf, 6)
	require.NoError(t, err)
	require.Equal(t, 5, n)
	require.Equal(t, "world", string(buf))

	// Zero-copy access.
	mappable, ok := blob.(Mappable)
	require.True(t, ok)
	raw, err := mappable.Bytes()
	require.NoError(t, err)
	require.Equal(t, data, raw)

	require.NoError(t, store.Put(ctx, "data-002.bin", []byte("more")))

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	sort.Strings(names)
	require.Equal(t, []string{"data-001.bin", "data-002.bin"}, names)

	require.NoError(t, store.Delete(ctx, "data-001.bin"))

	names, err = store.List(ctx, "")
	require.NoError(t, err)
	require.Equal(t, []string{"data-002.bin"}, names)

	_, err = store.Open(ctx, "data-001.bin")
	require.Error(t, err)
}

func TestLocalStoreAtomicCreate(t *testing.T) {
	root := t.TempDir()
	store := NewLocalStore(root)
	ctx := context.Background()

	w, err := store.Create(ctx, "pending.bin")
	require.NoError(t, err)

	_, err = w.Write([]byte("partial"))
	require.NoError(t, err)

	// Not visible until Close commits the rename.
	_, statErr := os.Stat(filepath.Join(root, "pending.bin"))
	assert.True(t, os.IsNotExist(statErr))

	require.NoError(t, w.Close())

	_, statErr = os.Stat(filepath.Join(root, "pending.bin"))
	assert.NoError(t, statErr)
}

func TestLocalStoreNestedNames(t *testing.T) {
	store := NewLocalStore(t.TempDir())
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "datasets/2026/q1.bin", []byte("a")))
	require.NoError(t, store.Put(ctx, "datasets/2026/q2.bin", []byte("b")))
	require.NoError(t, store.Put(ctx, "other/misc.bin", []byte("c")))

	names, err := store.List(ctx, "datasets/")
	require.NoError(t, err)
	sort.Strings(names)
	assert.Equal(t, []string{"datasets/2026/q1.bin", "datasets/2026/q2.bin"}, names)
}

func TestLocalStoreDeleteMissing(t *testing.T) {
	store := NewLocalStore(t.TempDir())
	assert.NoError(t, store.Delete(context.Background(), "nope.bin"))
}
