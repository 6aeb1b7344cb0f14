package image

import "errors"

// Pipeline error taxonomy. Validation errors short-circuit before any
// filesystem or metadata mutation; encode and storage errors are fatal to
// the upload and never leave a metadata record behind.
var (
	// ErrUnsupportedMediaType - declared content type is not in the allow-list.
	ErrUnsupportedMediaType = errors.New("unsupported media type")

	// ErrInvalidImageData - payload is empty or does not decode as a raster image.
	ErrInvalidImageData = errors.New("invalid image data")

	// ErrEncodeFailure - re-encoding the original or a variant failed.
	ErrEncodeFailure = errors.New("image encoding failed")

	// ErrNotFound - no record for the identifier, or the record's backing
	// file is missing. The two causes are indistinguishable to callers.
	ErrNotFound = errors.New("image not found")

	// ErrStorageIO - a filesystem write or delete failed for a reason other
	// than the file being absent.
	ErrStorageIO = errors.New("storage i/o failure")
)
