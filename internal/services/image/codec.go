package image

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"

	"github.com/avrelian/photohost/utils"
	xdraw "golang.org/x/image/draw"

	_ "golang.org/x/image/webp"
)

// jpegQuality is the fixed quality for the re-encoded original and every
// derived variant.
const jpegQuality = 88

// Decoded is a fully decoded upload.
type Decoded struct {
	Image  image.Image
	Format string // decoder name: "jpeg", "png", "webp"
	Width  int
	Height int
}

// DecodeAndValidate checks the declared content type against the allow-list
// and fully decodes the payload. Partial or corrupt files pass header sniffs
// but fail here, which is why the whole image is decoded before the pipeline
// touches disk.
func DecodeAndValidate(data []byte, contentType string) (*Decoded, error) {
	if !utils.IsAllowedMimeType(contentType) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMediaType, contentType)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrInvalidImageData)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImageData, err)
	}

	bounds := img.Bounds()
	return &Decoded{
		Image:  img,
		Format: format,
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}, nil
}

// FlattenRGB composites the image onto a solid white background, removing
// any alpha or palette transparency. The result is the canonical base for
// all JPEG encodings.
func FlattenRGB(src image.Image) *image.RGBA {
	bounds := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), src, bounds.Min, draw.Over)
	return dst
}

// StorageExt decides the extension of the stored original: the filename
// extension when allowed (jpeg folded to jpg), else the extension implied by
// the validated content type, else jpg.
func StorageExt(filename, contentType string) string {
	if ext := utils.NormalizedExtFromFilename(filename); utils.IsAllowedExtension(ext) {
		return ext
	}
	if ext := utils.ExtFromMime(contentType); utils.IsAllowedExtension(ext) {
		return ext
	}
	return "jpg"
}

// EncodeOriginal produces the original artifact in the target extension and
// returns the bytes together with the extension actually used. When the
// intended format cannot be produced the original is forced to JPEG and the
// returned extension reflects that.
func EncodeOriginal(raw []byte, decoded *Decoded, flat *image.RGBA, targetExt string) ([]byte, string, error) {
	switch targetExt {
	case "jpg":
		data, err := encodeJPEG(flat)
		if err != nil {
			return nil, "", err
		}
		return data, "jpg", nil

	case "png":
		var buf bytes.Buffer
		if err := png.Encode(&buf, decoded.Image); err != nil {
			return forceJPEG(flat)
		}
		return buf.Bytes(), "png", nil

	case "webp":
		// No pure-Go WEBP encoder exists; the validated upload bytes are
		// stored unchanged when they really are WEBP.
		if decoded.Format == "webp" {
			return raw, "webp", nil
		}
		return forceJPEG(flat)

	default:
		return forceJPEG(flat)
	}
}

// EncodeThumb downscales the flattened base so its longer side is at most
// maxSide, preserving aspect ratio and never upscaling, and encodes it as
// JPEG. Returns the encoded bytes and the resulting dimensions.
func EncodeThumb(flat *image.RGBA, maxSide int) ([]byte, int, int, error) {
	scaled := scaleDown(flat, maxSide)
	data, err := encodeJPEG(scaled)
	if err != nil {
		return nil, 0, 0, err
	}
	bounds := scaled.Bounds()
	return data, bounds.Dx(), bounds.Dy(), nil
}

func encodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncodeFailure, err)
	}
	return buf.Bytes(), nil
}

func forceJPEG(flat *image.RGBA) ([]byte, string, error) {
	data, err := encodeJPEG(flat)
	if err != nil {
		return nil, "", err
	}
	return data, "jpg", nil
}

// scaleDown returns flat itself when it already fits within maxSide.
func scaleDown(flat *image.RGBA, maxSide int) *image.RGBA {
	bounds := flat.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	long := w
	if h > long {
		long = h
	}
	if maxSide <= 0 || long <= maxSide {
		return flat
	}

	scale := float64(maxSide) / float64(long)
	tw := int(float64(w)*scale + 0.5)
	th := int(float64(h)*scale + 0.5)
	if tw < 1 {
		tw = 1
	}
	if th < 1 {
		th = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, tw, th))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), flat, bounds, xdraw.Src, nil)
	return dst
}
