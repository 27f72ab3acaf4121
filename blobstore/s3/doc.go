// Package s3 provides an Amazon S3 implementation of the
// blobstore.BlobStore interface.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket", s3.WithPrefix("datasets/"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Features
//
//   - Range reads for efficient partial fetches
//   - Multipart uploads for large datasets
//   - CRC32C integrity validation on writes
//   - Automatic pagination for listing
//   - Configurable prefix for multi-tenant isolation
package s3
