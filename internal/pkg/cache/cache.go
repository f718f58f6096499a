package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by Get when the key is absent or expired.
var ErrCacheMiss = errors.New("cache miss")

// Cache is an explicit cache-aside dependency. Read endpoints take it via
// injection; the write paths that must invalidate declare the prefixes they
// touch next to the write itself.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPrefix(ctx context.Context, prefix string) error
}

// Noop satisfies Cache without storing anything. Used in tests and when no
// Redis address is configured.
type Noop struct{}

func (Noop) Get(ctx context.Context, key string, dest interface{}) error {
	return ErrCacheMiss
}

func (Noop) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return nil
}

func (Noop) DeleteByPrefix(ctx context.Context, prefix string) error {
	return nil
}
