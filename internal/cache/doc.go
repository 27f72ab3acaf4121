// Package cache provides LRU caching for immutable blob blocks.
//
// The LRUBlockCache keeps recently read dataset blocks in memory so that
// repeated passes over the same data avoid refetching from the backing
// store. Entries are bounded by total byte size with LRU eviction.
package cache
