package memory

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/dgraph-io/ristretto"
)

// ErrCacheMiss mirrors cache.ErrCacheMiss without importing the parent package.
var ErrCacheMiss = errors.New("cache miss")

// Memory is an in-process cache backed by ristretto.
type Memory struct {
	client *ristretto.Cache
}

// Config tunes the ristretto cache.
type Config struct {
	NumCounters int64
	MaxCost     int64
	BufferItems int64
	Metrics     bool
}

// DefaultConfig is sized for metadata records, not image bytes.
func DefaultConfig() Config {
	return Config{
		NumCounters: 100000,
		MaxCost:     64 << 20, // 64MB
		BufferItems: 64,
		Metrics:     false,
	}
}

// NewMemory creates a new in-memory cache provider.
func NewMemory(config Config) (*Memory, error) {
	client, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: config.NumCounters,
		MaxCost:     config.MaxCost,
		BufferItems: config.BufferItems,
		Metrics:     config.Metrics,
	})
	if err != nil {
		return nil, err
	}

	return &Memory{client: client}, nil
}

// Set stores value under key. Values are stored as JSON so that Get behaves
// identically across backends.
func (m *Memory) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	if set := m.client.SetWithTTL(key, data, int64(len(data)), expiration); set {
		// Wait for the value to pass through the buffers.
		m.client.Wait()
	}
	return nil
}

// Get loads the value for key into dest.
func (m *Memory) Get(ctx context.Context, key string, dest interface{}) error {
	value, found := m.client.Get(key)
	if !found {
		return ErrCacheMiss
	}

	data, ok := value.([]byte)
	if !ok {
		return ErrCacheMiss
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return ErrCacheMiss
	}
	return nil
}

// Delete removes key.
func (m *Memory) Delete(ctx context.Context, key string) error {
	m.client.Del(key)
	return nil
}

// Exists checks whether key is present.
func (m *Memory) Exists(ctx context.Context, key string) (bool, error) {
	_, found := m.client.Get(key)
	return found, nil
}

// Close releases the cache.
func (m *Memory) Close() error {
	m.client.Close()
	return nil
}

// Name returns the provider name.
func (m *Memory) Name() string {
	return "memory"
}
