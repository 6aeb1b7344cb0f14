package cmd

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/avrelian/photohost/api/core"
	"github.com/avrelian/photohost/cache"
	"github.com/avrelian/photohost/config"
	"github.com/avrelian/photohost/database"
	"github.com/avrelian/photohost/database/models"
	"github.com/avrelian/photohost/storage"
	"github.com/spf13/cobra"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start API server",
	Run: func(cmd *cobra.Command, args []string) {
		RunServer()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func RunServer() {
	config.InitConfig()
	cfg := config.Get()

	if cfg.DBType == "" || cfg.DBType == "sqlite" || cfg.DBType == "sqlite3" {
		path := cfg.DBFilePath
		if path == "" {
			path = "./data/photohost.db"
		}
		if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
			log.Fatalf("Failed to create data directory: %v", err)
		}
	}

	provider, err := database.NewGormProvider(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	if err := provider.AutoMigrate(&models.Image{}); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	layout, err := storage.NewLayout(cfg.UploadDir)
	if err != nil {
		log.Fatalf("Failed to initialize storage layout: %v", err)
	}

	cacheProvider, err := cache.NewProvider(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize cache: %v", err)
	}

	deps := &core.ServerDependencies{
		Provider:      provider,
		Layout:        layout,
		CacheProvider: cacheProvider,
		Config:        cfg,
	}

	server, cleanup := core.StartServer(deps)
	go func() {
		log.Printf("Server started on %s", cfg.Addr())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	cleanup()

	if cacheProvider != nil {
		if err := cacheProvider.Close(); err != nil {
			log.Printf("Failed to close cache provider: %v", err)
		}
	}
	if err := provider.Close(); err != nil {
		log.Printf("Failed to close database: %v", err)
	}

	log.Println("Server exited")
}
