package image

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
)

func pngBytes(t *testing.T, img image.Image) []byte {
	var buf bytes.Buffer
	assert.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func jpegBytes(t *testing.T, img image.Image) []byte {
	var buf bytes.Buffer
	assert.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func solidImage(w, h int, c color.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestDecodeAndValidate(t *testing.T) {
	pngData := pngBytes(t, solidImage(8, 4, color.NRGBA{R: 255, A: 255}))

	tests := []struct {
		name        string
		data        []byte
		contentType string
		wantErr     error
	}{
		{"valid_png", pngData, "image/png", nil},
		{"valid_jpeg", jpegBytes(t, solidImage(8, 4, color.NRGBA{G: 255, A: 255})), "image/jpeg", nil},
		{"disallowed_type", pngData, "image/gif", ErrUnsupportedMediaType},
		{"svg_rejected", []byte("<svg></svg>"), "image/svg+xml", ErrUnsupportedMediaType},
		{"empty_payload", nil, "image/png", ErrInvalidImageData},
		{"garbage_bytes", []byte("definitely not an image"), "image/png", ErrInvalidImageData},
		{"mislabeled_text", []byte("hello"), "image/jpeg", ErrInvalidImageData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoded, err := DecodeAndValidate(tt.data, tt.contentType)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, 8, decoded.Width)
			assert.Equal(t, 4, decoded.Height)
		})
	}
}

func TestDecodeAndValidate_TruncatedFile(t *testing.T) {
	data := pngBytes(t, solidImage(64, 64, color.NRGBA{B: 255, A: 255}))

	// Keep the header so sniffing succeeds but the full decode cannot.
	_, err := DecodeAndValidate(data[:len(data)/2], "image/png")
	assert.ErrorIs(t, err, ErrInvalidImageData)
}

func TestFlattenRGB_TransparentBecomesWhite(t *testing.T) {
	src := solidImage(4, 4, color.NRGBA{R: 10, G: 20, B: 30, A: 0})

	flat := FlattenRGB(src)

	r, g, b, a := flat.At(2, 2).RGBA()
	assert.Equal(t, uint32(0xffff), r)
	assert.Equal(t, uint32(0xffff), g)
	assert.Equal(t, uint32(0xffff), b)
	assert.Equal(t, uint32(0xffff), a)
}

func TestFlattenRGB_OpaquePixelsUnchanged(t *testing.T) {
	src := solidImage(4, 4, color.NRGBA{R: 200, G: 100, B: 50, A: 255})

	flat := FlattenRGB(src)

	r, g, b, _ := flat.At(1, 1).RGBA()
	assert.Equal(t, uint32(200*0x101), r)
	assert.Equal(t, uint32(100*0x101), g)
	assert.Equal(t, uint32(50*0x101), b)
}

func TestStorageExt(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		contentType string
		want        string
	}{
		{"filename_wins", "photo.png", "image/jpeg", "png"},
		{"jpeg_folded", "photo.jpeg", "image/jpeg", "jpg"},
		{"uppercase_filename", "PHOTO.WEBP", "image/webp", "webp"},
		{"fallback_to_mime", "photo", "image/png", "png"},
		{"unknown_ext_falls_to_mime", "photo.gif", "image/webp", "webp"},
		{"fallback_to_jpg", "photo", "application/octet-stream", "jpg"},
		{"everything_empty", "", "", "jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StorageExt(tt.filename, tt.contentType))
		})
	}
}

func TestEncodeOriginal_JPEG(t *testing.T) {
	raw := jpegBytes(t, solidImage(8, 8, color.NRGBA{R: 255, A: 255}))
	decoded, err := DecodeAndValidate(raw, "image/jpeg")
	assert.NoError(t, err)
	flat := FlattenRGB(decoded.Image)

	data, ext, err := EncodeOriginal(raw, decoded, flat, "jpg")
	assert.NoError(t, err)
	assert.Equal(t, "jpg", ext)

	_, format, err := image.Decode(bytes.NewReader(data))
	assert.NoError(t, err)
	assert.Equal(t, "jpeg", format)
}

func TestEncodeOriginal_PNGKeepsAlphaSource(t *testing.T) {
	raw := pngBytes(t, solidImage(8, 8, color.NRGBA{R: 10, G: 20, B: 30, A: 128}))
	decoded, err := DecodeAndValidate(raw, "image/png")
	assert.NoError(t, err)
	flat := FlattenRGB(decoded.Image)

	data, ext, err := EncodeOriginal(raw, decoded, flat, "png")
	assert.NoError(t, err)
	assert.Equal(t, "png", ext)

	_, format, err := image.Decode(bytes.NewReader(data))
	assert.NoError(t, err)
	assert.Equal(t, "png", format)
}

func TestEncodeOriginal_WebpNameWithoutWebpDataForcesJPEG(t *testing.T) {
	// A PNG payload uploaded under a .webp name cannot be stored as WEBP.
	raw := pngBytes(t, solidImage(8, 8, color.NRGBA{G: 255, A: 255}))
	decoded, err := DecodeAndValidate(raw, "image/png")
	assert.NoError(t, err)
	flat := FlattenRGB(decoded.Image)

	data, ext, err := EncodeOriginal(raw, decoded, flat, "webp")
	assert.NoError(t, err)
	assert.Equal(t, "jpg", ext)

	_, format, err := image.Decode(bytes.NewReader(data))
	assert.NoError(t, err)
	assert.Equal(t, "jpeg", format)
}

func TestEncodeThumb_Downscale(t *testing.T) {
	flat := FlattenRGB(solidImage(640, 480, color.NRGBA{B: 255, A: 255}))

	data, w, h, err := EncodeThumb(flat, 320)
	assert.NoError(t, err)
	assert.Equal(t, 320, w)
	assert.Equal(t, 240, h)

	img, format, err := image.Decode(bytes.NewReader(data))
	assert.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 320, img.Bounds().Dx())
	assert.Equal(t, 240, img.Bounds().Dy())
}

func TestEncodeThumb_PortraitUsesLongSide(t *testing.T) {
	flat := FlattenRGB(solidImage(480, 640, color.NRGBA{B: 255, A: 255}))

	_, w, h, err := EncodeThumb(flat, 320)
	assert.NoError(t, err)
	assert.Equal(t, 240, w)
	assert.Equal(t, 320, h)
}

func TestEncodeThumb_NoUpscale(t *testing.T) {
	flat := FlattenRGB(solidImage(100, 80, color.NRGBA{B: 255, A: 255}))

	_, w, h, err := EncodeThumb(flat, 320)
	assert.NoError(t, err)
	assert.Equal(t, 100, w)
	assert.Equal(t, 80, h)
}

func TestEncodeThumb_ExtremeAspectRatioClampsToOne(t *testing.T) {
	flat := FlattenRGB(solidImage(3000, 1, color.NRGBA{B: 255, A: 255}))

	_, w, h, err := EncodeThumb(flat, 320)
	assert.NoError(t, err)
	assert.Equal(t, 320, w)
	assert.Equal(t, 1, h)
}
