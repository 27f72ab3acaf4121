package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/statkit/statkit/internal/cache"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

// CachingStore wraps a BlobStore and adds block-level read caching.
// Concurrent fetches of the same block are coalesced, and backend
// reads can be rate limited for remote stores with request quotas.
type CachingStore struct {
	inner     BlobStore
	cache     cache.BlockCache
	blockSize int64
	limiter   *rate.Limiter
}

// CachingStoreOption configures a CachingStore.
type CachingStoreOption func(*CachingStore)

// WithBlockSize sets the cache block size in bytes. Defaults to 64KB.
func WithBlockSize(size int64) CachingStoreOption {
	return func(s *CachingStore) {
		if size > 0 {
			s.blockSize = size
		}
	}
}

// WithFetchRateLimit limits backend block fetches to r requests per
// second with the given burst.
func WithFetchRateLimit(r rate.Limit, burst int) CachingStoreOption {
	return func(s *CachingStore) {
		s.limiter = rate.NewLimiter(r, burst)
	}
}

// NewCachingStore creates a new CachingStore around inner.
func NewCachingStore(inner BlobStore, blockCache cache.BlockCache, optFns ...CachingStoreOption) *CachingStore {
	s := &CachingStore{
		inner:     inner,
		cache:     blockCache,
		blockSize: 64 * 1024,
	}

	for _, fn := range optFns {
		fn(s)
	}

	return s
}

// Open opens a blob for cached reading.
func (s *CachingStore) Open(ctx context.Context, name string) (Blob, error) {
	b, err := s.inner.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	return &cachingBlob{
		inner:     b,
		cache:     s.cache,
		name:      name,
		blockSize: s.blockSize,
		limiter:   s.limiter,
	}, nil
}

// Create passes through to the inner store. Blobs are immutable once
// written, so nothing needs invalidating on create.
func (s *CachingStore) Create(ctx context.Context, name string) (WritableBlob, error) {
	return s.inner.Create(ctx, name)
}

// Put writes through and drops any cached blocks for the blob.
func (s *CachingStore) Put(ctx context.Context, name string, data []byte) error {
	s.cache.Invalidate(func(key cache.CacheKey) bool {
		return key.Name == name
	})
	return s.inner.Put(ctx, name, data)
}

// Delete removes the blob and drops its cached blocks.
func (s *CachingStore) Delete(ctx context.Context, name string) error {
	s.cache.Invalidate(func(key cache.CacheKey) bool {
		return key.Name == name
	})
	return s.inner.Delete(ctx, name)
}

// List passes through to the inner store.
func (s *CachingStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.inner.List(ctx, prefix)
}

type cachingBlob struct {
	inner     Blob
	cache     cache.BlockCache
	name      string
	blockSize int64
	limiter   *rate.Limiter
	group     singleflight.Group
}

func (b *cachingBlob) Close() error {
	return b.inner.Close()
}

func (b *cachingBlob) Size() int64 {
	return b.inner.Size()
}

func (b *cachingBlob) ReadAt(ctx context.Context, p []byte, off int64) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if off >= b.Size() {
		return 0, io.EOF
	}

	totalRead := 0
	startBlock := off / b.blockSize
	endBlock := (off + int64(len(p)) - 1) / b.blockSize

	for blk := startBlock; blk <= endBlock; blk++ {
		blockData, err := b.fetchBlock(ctx, blk)
		if err != nil {
			return totalRead, err
		}

		blkStart := blk * b.blockSize
		readStart := max(blkStart, off)
		readEnd := min(blkStart+b.blockSize, off+int64(len(p)))

		srcOffset := readStart - blkStart
		if srcOffset >= int64(len(blockData)) {
			break
		}
		if readEnd-blkStart > int64(len(blockData)) {
			readEnd = blkStart + int64(len(blockData))
		}

		dstOffset := readStart - off
		totalRead += copy(p[dstOffset:dstOffset+(readEnd-readStart)], blockData[srcOffset:])
	}

	if totalRead < len(p) {
		return totalRead, io.EOF
	}
	return totalRead, nil
}

// fetchBlock returns one block, from cache if possible. Concurrent
// requests for the same block share a single backend read.
func (b *cachingBlob) fetchBlock(ctx context.Context, blkIdx int64) ([]byte, error) {
	key := cache.CacheKey{Name: b.name, Block: uint64(blkIdx)}

	if data, ok := b.cache.Get(ctx, key); ok {
		return data, nil
	}

	v, err, _ := b.group.Do(fmt.Sprintf("%d", blkIdx), func() (any, error) {
		// Re-check: another flight may have populated the cache.
		if data, ok := b.cache.Get(ctx, key); ok {
			return data, nil
		}

		if b.limiter != nil {
			if err := b.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		buf := make([]byte, b.blockSize)
		n, err := b.inner.ReadAt(ctx, buf, blkIdx*b.blockSize)
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}

		data := buf[:n]
		if n > 0 {
			b.cache.Set(ctx, key, data)
		}
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}
