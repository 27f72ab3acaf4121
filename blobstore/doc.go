// Package blobstore provides storage abstraction for immutable data blobs,
// such as serialized datasets.
//
// BlobStore is the interface for reading and writing blobs. Implementations
// must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - MemoryStore: In-memory store for testing
//   - LocalStore: Local filesystem with mmap-backed reads
//   - CachingStore: Block-level read cache around any other store
//   - s3.Store: Amazon S3 with range reads and parallel uploads
//   - minio.Store: Any S3-compatible object store via the MinIO client
//
// # Custom Implementations
//
// Implement the BlobStore interface to support custom storage backends:
//
//	type BlobStore interface {
//	    Open(ctx, name) (Blob, error)            // Open for reading
//	    Create(ctx, name) (WritableBlob, error)  // Create for writing
//	    Put(ctx, name, data) error               // Atomic write
//	    Delete(ctx, name) error
//	    List(ctx, prefix) ([]string, error)
//	}
package blobstore
