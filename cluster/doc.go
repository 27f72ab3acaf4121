// Package cluster implements k-means cluster analysis over a sequential
// case stream.
//
// The engine follows the classic quick-clustering procedure: a deterministic,
// data-order-dependent initial center selection (no randomized seeding, so
// results are reproducible for identical inputs), followed by iterative
// refinement. Each iteration makes two passes over the stream: a smoothed
// assignment pass that folds the previous center in as a pseudo-observation,
// and an independent verification pass that recomputes pure means from the
// just-updated centers. Convergence is declared when the largest per-cluster
// squared center movement between the two falls below a threshold fixed once
// from the spread of the initial centers.
//
// The input reader is never mutated; every pass works on a clone, so the
// underlying data must support multiple independent traversals (see
// casestream.Store).
package cluster
