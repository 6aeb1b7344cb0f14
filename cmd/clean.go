package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/avrelian/photohost/config"
	"github.com/avrelian/photohost/database"
	"github.com/avrelian/photohost/database/models"
	"github.com/avrelian/photohost/database/repo/images"
	"github.com/avrelian/photohost/storage"
	"github.com/spf13/cobra"
)

// cleanCmd reconciles the metadata store with the files on disk.
var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Clean orphan database records and storage files",
	Long: `Clean orphan database records and storage files.
This includes:
  - Delete database records without a stored original file
  - Delete storage files without a corresponding database record`,
	Run: func(cmd *cobra.Command, args []string) {
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		dbOnly, _ := cmd.Flags().GetBool("db-only")
		storageOnly, _ := cmd.Flags().GetBool("storage-only")

		if err := runClean(dryRun, dbOnly, storageOnly); err != nil {
			log.Fatalf("Clean failed: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(cleanCmd)
	cleanCmd.Flags().Bool("dry-run", false, "Only show what would be cleaned, don't actually delete")
	cleanCmd.Flags().Bool("db-only", false, "Only clean orphan database records")
	cleanCmd.Flags().Bool("storage-only", false, "Only clean orphan storage files")
}

type cleanStats struct {
	orphanDBRecords     int
	orphanStorageFiles  int
	deletedDBRecords    int
	deletedStorageFiles int
	errors              []string
}

func runClean(dryRun, dbOnly, storageOnly bool) error {
	config.InitConfig()
	cfg := config.Get()

	if cfg.DBType == "" || cfg.DBType == "sqlite" || cfg.DBType == "sqlite3" {
		path := cfg.DBFilePath
		if path == "" {
			path = "./data/photohost.db"
		}
		if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	provider, err := database.NewGormProvider(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer provider.Close()

	if err := provider.AutoMigrate(&models.Image{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	layout, err := storage.NewLayout(cfg.UploadDir)
	if err != nil {
		return fmt.Errorf("failed to initialize storage layout: %w", err)
	}

	repo := images.NewRepository(provider.DB())
	stats := &cleanStats{}

	if !storageOnly {
		if err := cleanOrphanDBRecords(repo, layout, stats, dryRun); err != nil {
			stats.errors = append(stats.errors, fmt.Sprintf("clean orphan DB records failed: %v", err))
		}
	}

	if !dbOnly {
		if err := cleanOrphanStorageFiles(repo, layout, stats, dryRun); err != nil {
			stats.errors = append(stats.errors, fmt.Sprintf("clean orphan storage files failed: %v", err))
		}
	}

	printCleanStats(stats, dryRun)

	if len(stats.errors) > 0 {
		return fmt.Errorf("encountered %d errors during cleanup", len(stats.errors))
	}
	return nil
}

// cleanOrphanDBRecords removes records whose stored original is gone.
func cleanOrphanDBRecords(repo *images.Repository, layout *storage.Layout, stats *cleanStats, dryRun bool) error {
	log.Println("Checking for orphan database records...")

	ctx := context.Background()
	return repo.ForEachBatch(500, func(batch []*models.Image) error {
		for _, img := range batch {
			exists, err := layout.Exists(ctx, img.Identifier, models.VariantOriginal, img.OriginalExt)
			if err != nil {
				log.Printf("Warning: failed to check existence of %s: %v", img.Identifier, err)
				continue
			}
			if exists {
				continue
			}

			stats.orphanDBRecords++
			if dryRun {
				log.Printf("[DRY-RUN] Would delete orphan DB record: ID=%d, Identifier=%s", img.ID, img.Identifier)
				continue
			}

			if err := repo.DeleteByIdentifier(img.Identifier); err != nil {
				log.Printf("Warning: failed to delete record %s: %v", img.Identifier, err)
				continue
			}
			if err := layout.DeleteAll(ctx, img.Identifier, img.OriginalExt, img.ThumbExt); err != nil {
				log.Printf("Warning: failed to delete leftover files for %s: %v", img.Identifier, err)
			}
			stats.deletedDBRecords++
		}
		return nil
	})
}

// cleanOrphanStorageFiles removes files that no database record points at.
func cleanOrphanStorageFiles(repo *images.Repository, layout *storage.Layout, stats *cleanStats, dryRun bool) error {
	log.Println("Checking for orphan storage files...")

	for _, v := range []models.Variant{models.VariantOriginal, models.VariantSmall, models.VariantMedium, models.VariantLarge} {
		dir := filepath.Join(layout.BasePath(), v.Dir())
		entries, err := os.ReadDir(dir)
		if err != nil {
			return fmt.Errorf("failed to read directory '%s': %w", dir, err)
		}

		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}

			name := entry.Name()
			identifier := strings.TrimSuffix(name, filepath.Ext(name))
			if !storage.IsValidIdentifier(identifier) {
				log.Printf("Warning: skipping unexpected file '%s'", filepath.Join(v.Dir(), name))
				continue
			}

			exists, err := repo.Exists(identifier)
			if err != nil {
				log.Printf("Warning: failed to look up record for %s: %v", identifier, err)
				continue
			}
			if exists {
				continue
			}

			stats.orphanStorageFiles++
			path := filepath.Join(dir, name)
			if dryRun {
				log.Printf("[DRY-RUN] Would delete orphan storage file: %s", path)
				continue
			}

			if err := os.Remove(path); err != nil {
				log.Printf("Warning: failed to delete file '%s': %v", path, err)
				continue
			}
			stats.deletedStorageFiles++
		}
	}

	return nil
}

func printCleanStats(stats *cleanStats, dryRun bool) {
	log.Println("========== Clean Summary ==========")
	if dryRun {
		log.Println("Mode: DRY-RUN (nothing was deleted)")
		log.Printf("Orphan DB records found:    %d", stats.orphanDBRecords)
		log.Printf("Orphan storage files found: %d", stats.orphanStorageFiles)
	} else {
		log.Printf("Orphan DB records deleted:    %d/%d", stats.deletedDBRecords, stats.orphanDBRecords)
		log.Printf("Orphan storage files deleted: %d/%d", stats.deletedStorageFiles, stats.orphanStorageFiles)
	}
	if len(stats.errors) > 0 {
		log.Printf("Errors: %d", len(stats.errors))
		for _, e := range stats.errors {
			log.Printf("  - %s", e)
		}
	}
	log.Println("===================================")
}
