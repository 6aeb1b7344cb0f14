package images

import (
	"fmt"
	"net/http"

	"github.com/avrelian/photohost/api/common"
	"github.com/gin-gonic/gin"
)

// UploadImages handles POST /api/upload with one or more multipart files.
// Files are processed independently and results are reported per item, so
// one bad file does not discard the rest of the batch. Items committed
// before a later failure are not rolled back.
func (h *Handler) UploadImages(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, "Invalid form data")
		return
	}

	files := form.File["files"]
	if len(files) == 0 {
		files = form.File["file"]
	}
	if len(files) == 0 {
		common.RespondError(c, http.StatusBadRequest, "At least one file is required under the 'files' key")
		return
	}

	if h.maxFiles > 0 && len(files) > h.maxFiles {
		common.RespondError(c, http.StatusBadRequest, fmt.Sprintf("Maximum %d files allowed per upload", h.maxFiles))
		return
	}

	results := h.uploadService.UploadBatch(c.Request.Context(), files)

	// Each item is either a full DTO or {original_filename, error},
	// in upload order.
	items := make([]interface{}, 0, len(results))
	errorCount := 0
	for _, result := range results {
		if result.Err != nil {
			errorCount++
			items = append(items, gin.H{
				"original_filename": result.FileName,
				"error":             result.Err.Error(),
			})
			continue
		}
		items = append(items, toImageDTO(result.Image))
	}

	common.RespondSuccess(c, gin.H{
		"items":         items,
		"total_files":   len(results),
		"success_count": len(results) - errorCount,
		"error_count":   errorCount,
	})
}
