// Package statkit provides a streaming statistical computation engine for
// large, possibly-split datasets.
//
// Data arrives as a sequential stream of fixed-width numeric cases (see
// package casestream) with configurable missing-value handling and optional
// case weighting. Procedures never consume their input: they clone the
// stream for every pass, so any reader whose clones are independent cursors
// works, from in-memory stores to blob-backed datasets.
//
// # Quick Clustering
//
// The core procedure is k-means cluster analysis with deterministic,
// data-order-dependent seeding (see package cluster):
//
//	x := casestream.Variable{Name: "x", Index: 0}
//	store, _ := casestream.FromRows(rows)
//
//	results, err := statkit.QuickCluster(ctx, store.Reader(),
//	    cluster.DefaultConfig(), []casestream.Variable{x},
//	    statkit.WithSplits(region),
//	    statkit.WithWeight(casestream.VariableWeight(w)),
//	)
//
// Each split-file group is clustered independently; results carry final and
// initial cluster centers, weighted per-cluster counts, and a per-case
// classifier for membership reporting.
//
// # Datasets
//
// Package dataset persists case collections as compressed blobs, and package
// blobstore reads them from local disk (memory-mapped), memory, S3 or MinIO,
// optionally through a caching layer for remote stores.
package statkit
