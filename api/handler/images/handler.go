package images

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/avrelian/photohost/api/common"
	"github.com/avrelian/photohost/cache"
	"github.com/avrelian/photohost/config"
	"github.com/avrelian/photohost/database/models"
	"github.com/avrelian/photohost/database/repo/images"
	imageSvc "github.com/avrelian/photohost/internal/services/image"
	"github.com/avrelian/photohost/storage"
	"github.com/gin-gonic/gin"
)

// Handler serves the image API: upload, list, delete and variant retrieval.
type Handler struct {
	uploadService *imageSvc.UploadService
	queryService  *imageSvc.QueryService
	deleteService *imageSvc.DeleteService

	maxFiles int
}

// NewHandler wires the image services for the HTTP layer.
func NewHandler(repo *images.Repository, layout *storage.Layout, cacheProvider cache.Provider, cfg *config.Config) *Handler {
	cacheHelper := cache.NewHelper(cacheProvider, cfg.CacheMetadataTTL)
	maxBytes := int64(cfg.UploadMaxSizeMB) << 20

	return &Handler{
		uploadService: imageSvc.NewUploadService(repo, layout, cacheHelper, nil, cfg.GetWorkerCount(), maxBytes),
		queryService:  imageSvc.NewQueryService(repo, layout, cacheHelper),
		deleteService: imageSvc.NewDeleteService(repo, layout, cacheHelper),
		maxFiles:      cfg.UploadMaxFiles,
	}
}

// ImageDTO is the public shape of a stored image.
type ImageDTO struct {
	ID               uint        `json:"id"`
	UUID             string      `json:"uuid"`
	OriginalFilename string      `json:"original_filename"`
	ContentType      string      `json:"content_type"`
	Width            int         `json:"width"`
	Height           int         `json:"height"`
	SizeBytes        int64       `json:"size_bytes"`
	CreatedAt        string      `json:"created_at"`
	URLs             VariantURLs `json:"urls"`
}

// VariantURLs holds the retrieval paths of the four artifacts.
type VariantURLs struct {
	Orig string `json:"orig"`
	Sm   string `json:"sm"`
	Md   string `json:"md"`
	Lg   string `json:"lg"`
}

func toImageDTO(img *models.Image) *ImageDTO {
	if img == nil {
		return nil
	}
	return &ImageDTO{
		ID:               img.ID,
		UUID:             img.Identifier,
		OriginalFilename: img.OriginalName,
		ContentType:      img.ContentType,
		Width:            img.Width,
		Height:           img.Height,
		SizeBytes:        img.SizeBytes,
		CreatedAt:        img.CreatedAt.UTC().Format(time.RFC3339),
		URLs: VariantURLs{
			Orig: variantURL(img.Identifier, models.VariantOriginal),
			Sm:   variantURL(img.Identifier, models.VariantSmall),
			Md:   variantURL(img.Identifier, models.VariantMedium),
			Lg:   variantURL(img.Identifier, models.VariantLarge),
		},
	}
}

func variantURL(identifier string, variant models.Variant) string {
	return fmt.Sprintf("/i/%s/%s", identifier, variant)
}

// respondPipelineError maps pipeline errors to HTTP statuses.
func respondPipelineError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, imageSvc.ErrUnsupportedMediaType):
		common.RespondError(c, http.StatusUnsupportedMediaType, err.Error())
	case errors.Is(err, imageSvc.ErrInvalidImageData):
		common.RespondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, imageSvc.ErrNotFound):
		common.RespondError(c, http.StatusNotFound, "Image not found")
	default:
		common.RespondError(c, http.StatusInternalServerError, "Failed to process image")
	}
}
