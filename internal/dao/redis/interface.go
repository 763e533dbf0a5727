// Package redis defines the cache service interfaces.
// The service layer depends on these rather than on a concrete client, so
// tests can substitute an in-memory stub.
package redis

import (
	"context"
	"time"
)

// CacheService is the synchronous cache surface.
type CacheService interface {
	// Set stores a value with a ttl.
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	// Get returns the value, or "" with a nil error when the key is absent.
	Get(ctx context.Context, key string) (string, error)
	// GetOrError returns the value, or CodeNotFound when the key is absent.
	GetOrError(ctx context.Context, key string) (string, error)
	// Delete removes a key if it exists.
	Delete(ctx context.Context, key string) error
	// DeleteByPattern removes every key matching the pattern.
	DeleteByPattern(ctx context.Context, pattern string) error
}

// AsyncCacheService adds non-blocking task submission for cache maintenance
// that must not sit on the request path (e.g. invalidating history pages
// after a turn).
type AsyncCacheService interface {
	CacheService
	// SubmitTask queues work for the background worker pool; falls back to
	// synchronous execution when the queue is full.
	SubmitTask(action func())
}
