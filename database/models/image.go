package models

import "time"

// Image is the metadata record for one uploaded image. One row exists per
// identifier, and for every row exactly four files exist on disk: the
// original plus the sm/md/lg variants.
type Image struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	Identifier string `gorm:"uniqueIndex:idx_identifier;size:32;not null" json:"identifier"`

	OriginalName string `gorm:"size:255;not null" json:"original_name"`
	OriginalExt  string `gorm:"size:8;not null" json:"original_ext"`
	ContentType  string `gorm:"size:64;not null" json:"content_type"`

	Width     int   `gorm:"not null" json:"width"`
	Height    int   `gorm:"not null" json:"height"`
	SizeBytes int64 `gorm:"not null" json:"size_bytes"`

	// Extension shared by all derived variants, fixed to jpg.
	ThumbExt string `gorm:"size:8;default:jpg;not null" json:"thumb_ext"`

	IsPublic bool `gorm:"default:true;not null" json:"is_public"`
}

// TableName overrides the gorm default.
func (Image) TableName() string {
	return "images"
}
