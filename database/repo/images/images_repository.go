package images

import (
	"context"

	"github.com/avrelian/photohost/database/models"
	"gorm.io/gorm"
)

// List bounds. Callers may ask for anything; the repository clamps.
const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

// Repository persists image metadata records.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new image repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new image record and fills in the assigned ID.
func (r *Repository) Create(image *models.Image) error {
	return r.db.Create(image).Error
}

// GetByIdentifier returns the record for identifier, or gorm.ErrRecordNotFound.
func (r *Repository) GetByIdentifier(identifier string) (*models.Image, error) {
	var image models.Image
	err := r.db.Where("identifier = ?", identifier).First(&image).Error
	if err != nil {
		return nil, err
	}
	return &image, nil
}

// List returns records ordered by creation time descending. The limit is
// clamped to [1, MaxListLimit], with DefaultListLimit for limit <= 0.
// Negative offsets are treated as zero.
func (r *Repository) List(limit, offset int) ([]*models.Image, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	var images []*models.Image
	err := r.db.Model(&models.Image{}).
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&images).Error
	return images, err
}

// DeleteByIdentifier removes the record for identifier.
// Returns gorm.ErrRecordNotFound when no row was affected.
func (r *Repository) DeleteByIdentifier(identifier string) error {
	if identifier == "" {
		return gorm.ErrRecordNotFound
	}

	result := r.db.Where("identifier = ?", identifier).Delete(&models.Image{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Exists checks whether a record exists for identifier.
func (r *Repository) Exists(identifier string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Image{}).Where("identifier = ?", identifier).Count(&count).Error
	return count > 0, err
}

// Count returns the total number of records.
func (r *Repository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Image{}).Count(&count).Error
	return count, err
}

// ForEachBatch walks every record in batches, for offline sweeps.
func (r *Repository) ForEachBatch(batchSize int, fn func(batch []*models.Image) error) error {
	if batchSize <= 0 {
		batchSize = 500
	}

	var batch []*models.Image
	return r.db.Model(&models.Image{}).FindInBatches(&batch, batchSize, func(tx *gorm.DB, _ int) error {
		return fn(batch)
	}).Error
}

// WithContext returns a repository bound to ctx.
func (r *Repository) WithContext(ctx context.Context) *Repository {
	return &Repository{db: r.db.WithContext(ctx)}
}
