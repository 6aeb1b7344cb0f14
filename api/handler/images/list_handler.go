package images

import (
	"net/http"
	"strconv"

	"github.com/avrelian/photohost/api/common"
	"github.com/avrelian/photohost/database/repo/images"
	"github.com/gin-gonic/gin"
)

// ListImages handles GET /api/images?limit=&offset=.
func (h *Handler) ListImages(c *gin.Context) {
	limit := parseQueryInt(c, "limit", images.DefaultListLimit)
	offset := parseQueryInt(c, "offset", 0)

	records, err := h.queryService.List(c.Request.Context(), limit, offset)
	if err != nil {
		common.RespondError(c, http.StatusInternalServerError, "Failed to get image list")
		return
	}

	items := make([]*ImageDTO, 0, len(records))
	for _, record := range records {
		items = append(items, toImageDTO(record))
	}

	common.RespondSuccess(c, gin.H{"items": items})
}

func parseQueryInt(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
