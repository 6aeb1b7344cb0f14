package images

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/avrelian/photohost/api/common"
	"github.com/avrelian/photohost/database/models"
	"github.com/gin-gonic/gin"
)

// GetVariant handles GET /i/:identifier/:variant and streams the file bytes
// with the resolved content type. An unknown identifier, an unknown variant
// name and a missing backing file all read as 404.
func (h *Handler) GetVariant(c *gin.Context) {
	identifier := c.Param("identifier")
	if identifier == "" {
		common.RespondError(c, http.StatusBadRequest, "Image identifier is required")
		return
	}

	variant, ok := models.ParseVariant(c.Param("variant"))
	if !ok {
		common.RespondError(c, http.StatusNotFound, "Image not found")
		return
	}

	file, contentType, record, err := h.queryService.ResolveFile(c.Request.Context(), identifier, variant)
	if err != nil {
		respondPipelineError(c, err)
		return
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		common.RespondError(c, http.StatusInternalServerError, "Failed to read image file")
		return
	}

	c.Header("Content-Type", contentType)
	c.Header("Cache-Control", "public, max-age=2592000, immutable")
	if variant == models.VariantOriginal && record.OriginalName != "" {
		c.Header("Content-Disposition", fmt.Sprintf(`inline; filename*=UTF-8''%s`, url.QueryEscape(record.OriginalName)))
	}

	http.ServeContent(c.Writer, c.Request, "", stat.ModTime(), file)
}
