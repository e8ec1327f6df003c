// Package cache memoizes pipeline stages.
//
// # Overview
//
// Forest building, reduction and rendering are pure functions of their
// inputs, so repeated requests for the same records and options can reuse
// earlier results. The [Cache] interface stores opaque bytes under keys
// produced by a [Keyer]; callers serialize with package graph.
//
// Three implementations are provided:
//
//   - [NullCache] stores nothing. It is the default when caching is off.
//   - [MemoryCache] keeps entries in a mutex-guarded map with per-entry
//     expiry. It is safe for concurrent use by the preview server.
//   - [FileCache] writes entries as JSON files so results survive between
//     CLI runs.
//
// # Keys
//
// Keys are derived by hashing the input content together with every
// option that affects the output:
//
//	k := cache.NewDefaultKeyer()
//	fk := k.ForestKey(cache.Hash(input), cache.ForestKeyOpts{Grouping: "stage"})
//	vk := k.ViewKey(forestHash, cache.ViewKeyOpts{Cap: 8, Collapsed: []string{"solution:s1"}})
package cache

import (
	"context"
	"time"
)

// Cache stores byte values by key.
type Cache interface {
	// Get returns the value for key. hit is false on a miss or expiry.
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)
	// Set stores data under key. A ttl <= 0 never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases resources.
	Close() error
}

// Default lifetimes per stage.
const (
	TTLForest   = 10 * time.Minute
	TTLView     = 10 * time.Minute
	TTLArtifact = 30 * time.Minute
)
