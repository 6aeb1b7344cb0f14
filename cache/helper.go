package cache

import (
	"context"
	"time"

	"github.com/avrelian/photohost/database/models"
)

const imageMetaKeyPrefix = "image:meta:"

// Helper provides typed cache operations for image metadata records.
// A nil Helper is valid and turns every operation into a no-op or miss.
type Helper struct {
	provider Provider
	ttl      time.Duration
}

// NewHelper wraps a provider with the metadata key scheme.
func NewHelper(provider Provider, ttl time.Duration) *Helper {
	if provider == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Helper{provider: provider, ttl: ttl}
}

func imageMetaKey(identifier string) string {
	return imageMetaKeyPrefix + identifier
}

// CacheImage stores a metadata record.
func (h *Helper) CacheImage(ctx context.Context, image *models.Image) error {
	if h == nil || image == nil {
		return nil
	}
	return h.provider.Set(ctx, imageMetaKey(image.Identifier), image, h.ttl)
}

// GetCachedImage loads a metadata record into dest. Any backend failure is
// reported as a miss; the caller falls through to the metadata store.
func (h *Helper) GetCachedImage(ctx context.Context, identifier string, dest *models.Image) error {
	if h == nil {
		return ErrCacheMiss
	}
	if err := h.provider.Get(ctx, imageMetaKey(identifier), dest); err != nil {
		return ErrCacheMiss
	}
	return nil
}

// DeleteCachedImage drops a metadata record, for delete invalidation.
func (h *Helper) DeleteCachedImage(ctx context.Context, identifier string) error {
	if h == nil {
		return nil
	}
	return h.provider.Delete(ctx, imageMetaKey(identifier))
}
