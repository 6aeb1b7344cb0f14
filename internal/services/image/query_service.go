package image

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/avrelian/photohost/cache"
	"github.com/avrelian/photohost/database/models"
	"github.com/avrelian/photohost/database/repo/images"
	"github.com/avrelian/photohost/storage"
	"github.com/avrelian/photohost/utils"
	"gorm.io/gorm"
)

// QueryService reads metadata records and resolves variant files.
type QueryService struct {
	repo        *images.Repository
	layout      *storage.Layout
	cacheHelper *cache.Helper
}

// NewQueryService creates a query service.
func NewQueryService(repo *images.Repository, layout *storage.Layout, cacheHelper *cache.Helper) *QueryService {
	return &QueryService{
		repo:        repo,
		layout:      layout,
		cacheHelper: cacheHelper,
	}
}

// Get fetches the metadata record for identifier, consulting the cache first.
func (s *QueryService) Get(ctx context.Context, identifier string) (*models.Image, error) {
	var cached models.Image
	if err := s.cacheHelper.GetCachedImage(ctx, identifier, &cached); err == nil {
		return &cached, nil
	}

	record, err := s.repo.WithContext(ctx).GetByIdentifier(identifier)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch image metadata: %w", err)
	}

	if err := s.cacheHelper.CacheImage(ctx, record); err != nil {
		log.Printf("[Query] Failed to cache metadata for %s: %v", identifier, err)
	}

	return record, nil
}

// List returns records ordered by creation time descending.
func (s *QueryService) List(ctx context.Context, limit, offset int) ([]*models.Image, error) {
	return s.repo.WithContext(ctx).List(limit, offset)
}

// ResolveFile opens the backing file for (identifier, variant) and returns
// it with the content type to serve. A present record whose file is missing
// is reported as ErrNotFound exactly like a missing record, but logged as an
// inconsistency.
func (s *QueryService) ResolveFile(ctx context.Context, identifier string, variant models.Variant) (*os.File, string, *models.Image, error) {
	record, err := s.Get(ctx, identifier)
	if err != nil {
		return nil, "", nil, err
	}

	ext := record.ThumbExt
	contentType := models.ThumbContentType
	if variant == models.VariantOriginal {
		ext = record.OriginalExt
		contentType = record.ContentType
	}

	file, err := s.layout.Open(ctx, identifier, variant, ext)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Printf("[Query] WARN: record exists but file missing for %s/%s (%s)",
				variant.Dir(), utils.SanitizeLogMessage(identifier), ext)
			return nil, "", nil, ErrNotFound
		}
		return nil, "", nil, fmt.Errorf("%w: %v", ErrStorageIO, err)
	}

	return file, contentType, record, nil
}
