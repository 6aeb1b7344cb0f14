package images

import (
	"errors"
	"net/http"

	"github.com/avrelian/photohost/api/common"
	imageSvc "github.com/avrelian/photohost/internal/services/image"
	"github.com/gin-gonic/gin"
)

// DeleteImage handles DELETE /api/images/:identifier. The record and its
// four files are removed together.
func (h *Handler) DeleteImage(c *gin.Context) {
	identifier := c.Param("identifier")
	if identifier == "" {
		common.RespondError(c, http.StatusBadRequest, "Image identifier is required")
		return
	}

	if err := h.deleteService.Delete(c.Request.Context(), identifier); err != nil {
		if errors.Is(err, imageSvc.ErrNotFound) {
			common.RespondError(c, http.StatusNotFound, "Image not found")
			return
		}
		common.RespondError(c, http.StatusInternalServerError, "Failed to delete the image")
		return
	}

	common.RespondSuccessMessage(c, "Image deleted successfully", nil)
}
