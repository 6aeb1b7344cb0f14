package image

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/avrelian/photohost/cache"
	"github.com/avrelian/photohost/database/repo/images"
	"github.com/avrelian/photohost/storage"
	"github.com/avrelian/photohost/utils"
	"gorm.io/gorm"
)

// DeleteService removes a record and its backing files as one logical
// operation.
type DeleteService struct {
	repo        *images.Repository
	layout      *storage.Layout
	cacheHelper *cache.Helper
}

// NewDeleteService creates a delete service.
func NewDeleteService(repo *images.Repository, layout *storage.Layout, cacheHelper *cache.Helper) *DeleteService {
	return &DeleteService{
		repo:        repo,
		layout:      layout,
		cacheHelper: cacheHelper,
	}
}

// Delete removes all four files and then the record. Missing files are
// ignored; other file I/O errors are logged but the record is removed
// regardless, favoring metadata accuracy over guaranteed file cleanup.
// Returns ErrNotFound when no record exists for identifier.
func (s *DeleteService) Delete(ctx context.Context, identifier string) error {
	record, err := s.repo.WithContext(ctx).GetByIdentifier(identifier)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to fetch image metadata: %w", err)
	}

	if err := s.layout.DeleteAll(ctx, identifier, record.OriginalExt, record.ThumbExt); err != nil {
		log.Printf("[Delete] File cleanup incomplete for %s: %v", utils.SanitizeLogMessage(identifier), err)
	}

	if err := s.repo.WithContext(ctx).DeleteByIdentifier(identifier); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete image metadata: %w", err)
	}

	if err := s.cacheHelper.DeleteCachedImage(ctx, identifier); err != nil {
		log.Printf("[Delete] Failed to invalidate cache for %s: %v", utils.SanitizeLogMessage(identifier), err)
	}

	return nil
}
