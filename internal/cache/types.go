package cache

import "context"

// CacheKey identifies a cached block of an immutable blob.
type CacheKey struct {
	// Name identifies the source blob.
	Name string
	// Block is the block index within the blob.
	Block uint64
}

// BlockCache is a byte-oriented cache for immutable blob blocks.
// Returned slices must be treated as read-only.
type BlockCache interface {
	// Get returns a cached block. ok=false if missing.
	Get(ctx context.Context, key CacheKey) (b []byte, ok bool)
	// Set caches a block. Implementations may copy or retain; caller must treat b as immutable.
	Set(ctx context.Context, key CacheKey, b []byte)
	// Invalidate removes entries matching the predicate.
	Invalidate(predicate func(key CacheKey) bool)
	// Close releases any resources.
	Close() error
	// Stats returns cache hit and miss counters.
	Stats() (hits, misses int64)
}
