// Package dataset persists case data as compact binary blobs.
//
// A dataset blob holds a header, the variable dictionary (names, user
// missing values, the optional weight variable), and the case data in
// independently compressed row blocks. Blocks can be stored raw or
// compressed with LZ4 (fast) or zstd (better ratio).
//
// Datasets are written through any blobstore.BlobStore, so the same
// format works on the local filesystem, S3, or MinIO:
//
//	err := dataset.Write(ctx, store, "survey.skd", schema, reader,
//	    dataset.WithCompression(dataset.CompressionZSTD))
//
//	ds, err := dataset.Open(ctx, store, "survey.skd")
//	result, err := statkit.QuickCluster(ctx, ds.Reader(), cfg, ds.Schema.Vars)
package dataset
