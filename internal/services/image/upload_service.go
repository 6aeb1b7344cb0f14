package image

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"mime/multipart"

	"github.com/avrelian/photohost/cache"
	"github.com/avrelian/photohost/database/models"
	"github.com/avrelian/photohost/database/repo/images"
	"github.com/avrelian/photohost/storage"
	"github.com/avrelian/photohost/utils"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// UploadResult is the per-file outcome of a batch upload. Exactly one of
// Image and Err is set.
type UploadResult struct {
	Image    *models.Image
	FileName string
	Err      error
}

// UploadService runs the ingestion pipeline: validate, canonicalize,
// derive variants, write files, then commit the metadata record last.
type UploadService struct {
	repo        *images.Repository
	layout      *storage.Layout
	cacheHelper *cache.Helper
	newID       utils.IdentifierGenerator

	// encodeSem bounds concurrent decode/encode work across requests so
	// CPU-bound image work cannot monopolize the scheduler.
	encodeSem *semaphore.Weighted
	workers   int

	// maxBytes caps a single file's size; 0 disables the check.
	maxBytes int64
}

// NewUploadService creates an upload service with workers concurrent
// encoder slots. A nil newID uses the default identifier generator.
func NewUploadService(
	repo *images.Repository,
	layout *storage.Layout,
	cacheHelper *cache.Helper,
	newID utils.IdentifierGenerator,
	workers int,
	maxBytes int64,
) *UploadService {
	if workers <= 0 {
		workers = 2
	}
	if newID == nil {
		newID = utils.NewIdentifier
	}
	return &UploadService{
		repo:        repo,
		layout:      layout,
		cacheHelper: cacheHelper,
		newID:       newID,
		encodeSem:   semaphore.NewWeighted(int64(workers)),
		workers:     workers,
		maxBytes:    maxBytes,
	}
}

// UploadBatch processes each file independently and reports per-file
// results; one invalid file does not discard the others. Files already
// committed in the same batch are not rolled back when a later one fails.
func (s *UploadService) UploadBatch(ctx context.Context, files []*multipart.FileHeader) []*UploadResult {
	results := make([]*UploadResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i, fileHeader := range files {
		i, fileHeader := i, fileHeader
		g.Go(func() error {
			img, err := s.ProcessOne(gctx, fileHeader)
			if err != nil {
				log.Printf("[Upload] Failed to process %s: %v", utils.SanitizeLogFilename(fileHeader.Filename), err)
			}
			results[i] = &UploadResult{
				Image:    img,
				FileName: fileHeader.Filename,
				Err:      err,
			}
			return nil
		})
	}

	// Workers never return errors; the group is used for bounding and
	// context propagation only.
	_ = g.Wait()

	return results
}

// ProcessOne ingests a single file. On any failure after files were written
// the already written artifacts are removed again, so a metadata record
// only ever exists with its full set of files.
func (s *UploadService) ProcessOne(ctx context.Context, fileHeader *multipart.FileHeader) (*models.Image, error) {
	if s.maxBytes > 0 && fileHeader.Size > s.maxBytes {
		return nil, fmt.Errorf("%w: file exceeds %d MB limit", ErrInvalidImageData, s.maxBytes>>20)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}

	contentType := fileHeader.Header.Get("Content-Type")

	// Encoding is CPU-bound; hold a worker slot for the whole transform.
	if err := s.encodeSem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer s.encodeSem.Release(1)

	decoded, err := DecodeAndValidate(raw, contentType)
	if err != nil {
		return nil, err
	}

	flat := FlattenRGB(decoded.Image)
	targetExt := StorageExt(fileHeader.Filename, contentType)

	origData, origExt, err := EncodeOriginal(raw, decoded, flat, targetExt)
	if err != nil {
		return nil, err
	}

	identifier := s.newID()

	if err := s.layout.Save(ctx, identifier, models.VariantOriginal, origExt, bytes.NewReader(origData)); err != nil {
		s.cleanupFiles(ctx, identifier, origExt)
		return nil, fmt.Errorf("%w: %v", ErrStorageIO, err)
	}

	for _, ts := range models.ThumbSizes {
		thumbData, _, _, err := EncodeThumb(flat, ts.MaxSide)
		if err != nil {
			s.cleanupFiles(ctx, identifier, origExt)
			return nil, err
		}
		if err := s.layout.Save(ctx, identifier, ts.Variant, "jpg", bytes.NewReader(thumbData)); err != nil {
			s.cleanupFiles(ctx, identifier, origExt)
			return nil, fmt.Errorf("%w: %v", ErrStorageIO, err)
		}
	}

	originalName := fileHeader.Filename
	if originalName == "" {
		originalName = identifier
	}
	if contentType == "" {
		contentType = "image/jpeg"
	}

	// Metadata commit is the last step: a crash before this point leaves
	// orphaned files but never a record without files.
	record := &models.Image{
		Identifier:   identifier,
		OriginalName: originalName,
		OriginalExt:  origExt,
		ContentType:  contentType,
		Width:        decoded.Width,
		Height:       decoded.Height,
		SizeBytes:    int64(len(raw)),
		ThumbExt:     "jpg",
		IsPublic:     true,
	}

	if err := s.repo.Create(record); err != nil {
		s.cleanupFiles(ctx, identifier, origExt)
		return nil, fmt.Errorf("failed to save image metadata: %w", err)
	}

	if err := s.cacheHelper.CacheImage(ctx, record); err != nil {
		log.Printf("[Upload] Failed to warm metadata cache for %s: %v", identifier, err)
	}

	return record, nil
}

// cleanupFiles best-effort removes whatever was written for identifier.
func (s *UploadService) cleanupFiles(ctx context.Context, identifier, origExt string) {
	if err := s.layout.DeleteAll(ctx, identifier, origExt, "jpg"); err != nil {
		log.Printf("[Upload] Failed to clean up files for %s: %v", identifier, err)
	}
}
