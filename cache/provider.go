package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by Get when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

// Provider is the cache abstraction. Backends are selected by config.
type Provider interface {
	// Set stores value under key for expiration.
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error

	// Get loads the value for key into dest.
	Get(ctx context.Context, key string, dest interface{}) error

	// Delete removes key.
	Delete(ctx context.Context, key string) error

	// Exists checks whether key is present.
	Exists(ctx context.Context, key string) (bool, error)

	// Close releases backend resources.
	Close() error

	// Name returns the provider name.
	Name() string
}
