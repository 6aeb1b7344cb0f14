package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/avrelian/photohost/database/models"
)

// Layout maps (identifier, variant, extension) to deterministic paths under
// a root directory: <root>/<variant-dir>/<identifier>.<ext>. The four
// variant subdirectories are created up front.
type Layout struct {
	absBasePath string
}

// NewLayout resolves root to an absolute path and creates the variant
// subdirectories if absent.
func NewLayout(root string) (*Layout, error) {
	absPath, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path for '%s': %w", root, err)
	}

	for _, v := range []models.Variant{models.VariantOriginal, models.VariantSmall, models.VariantMedium, models.VariantLarge} {
		dir := filepath.Join(absPath, v.Dir())
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create storage directory '%s': %w", dir, err)
		}
	}

	return &Layout{
		absBasePath: absPath + string(os.PathSeparator),
	}, nil
}

// PathFor resolves the on-disk path of one artifact.
func (l *Layout) PathFor(identifier string, variant models.Variant, ext string) (string, error) {
	if !IsValidIdentifier(identifier) {
		return "", fmt.Errorf("invalid file identifier: %s", identifier)
	}
	if !isValidExt(ext) {
		return "", fmt.Errorf("invalid file extension: %s", ext)
	}

	path := filepath.Join(l.absBasePath, variant.Dir(), identifier+"."+ext)

	// The final path must stay inside the base path.
	if !strings.HasPrefix(path, l.absBasePath) {
		return "", fmt.Errorf("invalid file path, potential directory traversal: %s", identifier)
	}
	return path, nil
}

// Save writes one artifact. The destination is removed again when the copy
// fails part way through.
func (l *Layout) Save(ctx context.Context, identifier string, variant models.Variant, ext string, file io.Reader) error {
	dstPath, err := l.PathFor(identifier, variant, ext)
	if err != nil {
		return err
	}

	dst, err := os.Create(dstPath)
	if err != nil {
		return fmt.Errorf("failed to create destination file '%s': %w", dstPath, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		_ = os.Remove(dstPath)
		return fmt.Errorf("failed to copy file content to '%s': %w", dstPath, err)
	}

	return nil
}

// Open returns the artifact for reading. The caller closes the file.
// A missing file is reported as a wrapped os.ErrNotExist.
func (l *Layout) Open(ctx context.Context, identifier string, variant models.Variant, ext string) (*os.File, error) {
	path, err := l.PathFor(identifier, variant, ext)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found: %s/%s: %w", variant.Dir(), identifier, os.ErrNotExist)
		}
		return nil, fmt.Errorf("failed to open file '%s': %w", path, err)
	}
	return file, nil
}

// Exists checks whether the artifact is present on disk.
func (l *Layout) Exists(ctx context.Context, identifier string, variant models.Variant, ext string) (bool, error) {
	path, err := l.PathFor(identifier, variant, ext)
	if err != nil {
		return false, err
	}

	_, err = os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// DeleteAll removes every artifact of an identifier. Missing files are not
// errors; other I/O failures are collected and returned combined so the
// caller can still drop the metadata record.
func (l *Layout) DeleteAll(ctx context.Context, identifier, originalExt, thumbExt string) error {
	var errs []error

	remove := func(variant models.Variant, ext string) {
		path, err := l.PathFor(identifier, variant, ext)
		if err != nil {
			errs = append(errs, err)
			return
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			errs = append(errs, fmt.Errorf("failed to delete '%s': %w", path, err))
		}
	}

	remove(models.VariantOriginal, originalExt)
	for _, ts := range models.ThumbSizes {
		remove(ts.Variant, thumbExt)
	}

	return errors.Join(errs...)
}

// Health checks that the storage root is readable.
func (l *Layout) Health(ctx context.Context) error {
	_, err := os.ReadDir(l.absBasePath)
	return err
}

// BasePath returns the absolute storage root, with a trailing separator.
func (l *Layout) BasePath() string {
	return l.absBasePath
}

// IsValidIdentifier validates an identifier before it is used in a path.
func IsValidIdentifier(identifier string) bool {
	if identifier == "" {
		return false
	}

	if filepath.IsAbs(identifier) {
		return false
	}

	if strings.Contains(identifier, "..") {
		return false
	}

	for _, r := range identifier {
		if !((r >= 'a' && r <= 'z') ||
			(r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') ||
			r == '-' || r == '_') {
			return false
		}
	}

	return true
}

func isValidExt(ext string) bool {
	if ext == "" || strings.Contains(ext, ".") || strings.Contains(ext, string(os.PathSeparator)) {
		return false
	}
	for _, r := range ext {
		if !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9') {
			return false
		}
	}
	return true
}
