package cache

import (
	"fmt"
	"log"

	"github.com/avrelian/photohost/cache/memory"
	"github.com/avrelian/photohost/cache/redis"
	"github.com/avrelian/photohost/config"
)

// NewProvider builds the cache provider selected by configuration.
// Unknown types fall back to the in-memory cache.
func NewProvider(cfg *config.Config) (Provider, error) {
	switch cfg.CacheType {
	case "redis":
		provider, err := redis.NewRedis(&redis.Config{
			Address:  cfg.CacheRedisAddr,
			Password: cfg.CacheRedisPassword,
			DB:       cfg.CacheRedisDB,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis cache at %s: %w", cfg.CacheRedisAddr, err)
		}
		return provider, nil

	case "memory", "":
		return memory.NewMemory(memory.DefaultConfig())

	default:
		log.Printf("[Cache] Unknown cache type %q, using memory cache", cfg.CacheType)
		return memory.NewMemory(memory.DefaultConfig())
	}
}
