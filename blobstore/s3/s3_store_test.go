package s3

import (
	"context"
	"crypto/rand"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/statkit/statkit/blobstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntegrationS3Store(t *testing.T) {
	bucket := os.Getenv("S3_BUCKET")
	if bucket == "" {
		t.Skip("Skipping S3 integration test: S3_BUCKET not set")
	}

	ctx := context.Background()

	prefix := fmt.Sprintf("test-statkit-%d/", time.Now().UnixNano())
	store, err := New(ctx, bucket, WithPrefix(prefix))
	require.NoError(t, err)

	t.Run("CreateAndRead", func(t *testing.T) {
		name := "test.blob"
		data := make([]byte, 1024*1024)
		_, _ = rand.Read(data)

		w, err := store.Create(ctx, name)
		require.NoError(t, err)
		n, err := w.Write(data)
		require.NoError(t, err)
		assert.Equal(t, len(data), n)
		require.NoError(t, w.Close())

		blobs, err := store.List(ctx, "")
		require.NoError(t, err)
		assert.Contains(t, blobs, name)

		r, err := store.Open(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, int64(len(data)), r.Size())

		buf := make([]byte, 100)
		n2, err := r.ReadAt(ctx, buf, 0)
		require.NoError(t, err)
		assert.Equal(t, 100, n2)
		assert.Equal(t, data[:100], buf)

		n3, err := r.ReadAt(ctx, buf, 1024)
		require.NoError(t, err)
		assert.Equal(t, 100, n3)
		assert.Equal(t, data[1024:1124], buf)

		require.NoError(t, store.Delete(ctx, name))
		require.NoError(t, r.Close())
	})

	t.Run("NotFound", func(t *testing.T) {
		_, err := store.Open(ctx, "nonexistent")
		assert.ErrorIs(t, err, blobstore.ErrNotFound)
	})
}
