package core

import (
	"net/http"
	"time"

	"github.com/avrelian/photohost/cache"
	"github.com/avrelian/photohost/config"
	"github.com/avrelian/photohost/database"
	"github.com/avrelian/photohost/storage"
	"github.com/gin-gonic/gin"
)

var startTime = time.Now()

// HealthHandler reports readiness of the metadata store, storage root and
// cache backend.
type HealthHandler struct {
	provider database.Provider
	layout   *storage.Layout
	cacheP   cache.Provider
}

func NewHealthHandler(provider database.Provider, layout *storage.Layout, cacheP cache.Provider) *HealthHandler {
	return &HealthHandler{
		provider: provider,
		layout:   layout,
		cacheP:   cacheP,
	}
}

func (h *HealthHandler) Handle(c *gin.Context) {
	checks := gin.H{
		"database": h.checkDatabase(),
		"storage":  h.checkStorage(c),
		"cache":    h.checkCache(c),
	}

	httpStatus := http.StatusOK
	for _, result := range checks {
		if result != "ok" {
			httpStatus = http.StatusServiceUnavailable
			break
		}
	}

	c.JSON(httpStatus, gin.H{
		"status":  statusText(httpStatus),
		"uptime":  time.Since(startTime).Round(time.Second).String(),
		"version": config.Version,
		"checks":  checks,
	})
}

func (h *HealthHandler) checkDatabase() string {
	if h.provider == nil {
		return "not configured"
	}
	if err := h.provider.Ping(); err != nil {
		return err.Error()
	}
	return "ok"
}

func (h *HealthHandler) checkStorage(c *gin.Context) string {
	if h.layout == nil {
		return "not configured"
	}
	if err := h.layout.Health(c.Request.Context()); err != nil {
		return err.Error()
	}
	return "ok"
}

func (h *HealthHandler) checkCache(c *gin.Context) string {
	if h.cacheP == nil {
		return "not configured"
	}
	if _, err := h.cacheP.Exists(c.Request.Context(), "health:probe"); err != nil {
		return err.Error()
	}
	return "ok"
}

func statusText(httpStatus int) string {
	if httpStatus == http.StatusOK {
		return "ok"
	}
	return "degraded"
}
