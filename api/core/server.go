package core

import (
	"net/http"
	"time"

	"github.com/avrelian/photohost/api/common"
	handlerImages "github.com/avrelian/photohost/api/handler/images"
	"github.com/avrelian/photohost/api/middleware"
	"github.com/avrelian/photohost/cache"
	"github.com/avrelian/photohost/config"
	"github.com/avrelian/photohost/database"
	"github.com/avrelian/photohost/database/repo/images"
	"github.com/avrelian/photohost/storage"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// ServerDependencies bundles everything the HTTP layer needs.
type ServerDependencies struct {
	Provider      database.Provider
	Layout        *storage.Layout
	CacheProvider cache.Provider
	Config        *config.Config
}

func setupRouter(deps *ServerDependencies) (*gin.Engine, func()) {
	cfg := deps.Config

	if config.CommitHash != "n/a" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	if config.CommitHash == "n/a" {
		router.Use(gin.Logger())
	}
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	router.SetTrustedProxies(nil)
	router.MaxMultipartMemory = int64(cfg.UploadMaxSizeMB) << 20

	apiRateLimiter := middleware.NewPerClientRateLimiter(cfg.RateLimitApiRPS, cfg.RateLimitApiBurst)
	imageRateLimiter := middleware.NewPerClientRateLimiter(cfg.RateLimitImageRPS, cfg.RateLimitImageBurst)
	cleanup := func() {
		apiRateLimiter.StopCleanup()
		imageRateLimiter.StopCleanup()
	}

	registerRoutes(router, deps, apiRateLimiter, imageRateLimiter)

	return router, cleanup
}

func registerRoutes(router *gin.Engine, deps *ServerDependencies, apiRL, imageRL *middleware.PerClientRateLimiter) {
	repo := images.NewRepository(deps.Provider.DB())
	imageHandler := handlerImages.NewHandler(repo, deps.Layout, deps.CacheProvider, deps.Config)
	healthHandler := NewHealthHandler(deps.Provider, deps.Layout, deps.CacheProvider)

	router.GET("/health", healthHandler.Handle)
	router.GET("/version", func(c *gin.Context) {
		common.RespondSuccess(c, gin.H{
			"version": config.Version,
			"commit":  config.CommitHash,
		})
	})

	// Public image retrieval
	imageGroup := router.Group("/i")
	imageGroup.Use(imageRL.Middleware())
	{
		imageGroup.GET("/:identifier/:variant", imageHandler.GetVariant)
	}

	apiGroup := router.Group("/api")
	apiGroup.Use(apiRL.Middleware())
	apiGroup.Use(func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")
		c.Next()
	})
	{
		apiGroup.POST("/upload", imageHandler.UploadImages)
		apiGroup.GET("/images", imageHandler.ListImages)
		apiGroup.DELETE("/images/:identifier", imageHandler.DeleteImage)
	}
}

// StartServer builds the configured http.Server. The returned cleanup stops
// background middleware work.
func StartServer(deps *ServerDependencies) (*http.Server, func()) {
	router, cleanup := setupRouter(deps)

	srv := &http.Server{
		Addr:         deps.Config.Addr(),
		Handler:      router,
		ReadTimeout:  deps.Config.ServerReadTimeout,
		WriteTimeout: deps.Config.ServerWriteTimeout,
		IdleTimeout:  deps.Config.ServerIdleTimeout,
	}

	return srv, cleanup
}
