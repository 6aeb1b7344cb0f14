package utils

import (
	"path/filepath"
	"strings"
)

// allowedMimeTypes is the upload allow-list. Everything else is rejected
// before any bytes are decoded.
var allowedMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

var extByMime = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

var allowedExtensions = map[string]bool{
	"jpg":  true,
	"png":  true,
	"webp": true,
}

// IsAllowedMimeType reports whether the declared content type may be uploaded.
func IsAllowedMimeType(mime string) bool {
	return allowedMimeTypes[strings.ToLower(mime)]
}

// ExtFromMime maps a validated content type to a storage extension.
// Returns "" for unknown types.
func ExtFromMime(mime string) string {
	return extByMime[strings.ToLower(mime)]
}

// NormalizedExtFromFilename extracts the lowercased extension of a user
// supplied filename without the dot, folding "jpeg" to "jpg". Returns ""
// when the filename has no extension.
func NormalizedExtFromFilename(name string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if ext == "jpeg" {
		ext = "jpg"
	}
	return ext
}

// IsAllowedExtension reports whether ext (without dot) is storable.
func IsAllowedExtension(ext string) bool {
	return allowedExtensions[ext]
}
