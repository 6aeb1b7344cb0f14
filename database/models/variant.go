package models

// Variant names one of the four stored artifacts of an image.
type Variant string

const (
	VariantOriginal Variant = "orig"
	VariantSmall    Variant = "sm"
	VariantMedium   Variant = "md"
	VariantLarge    Variant = "lg"
)

// ParseVariant validates a variant name from a URL.
func ParseVariant(s string) (Variant, bool) {
	switch Variant(s) {
	case VariantOriginal, VariantSmall, VariantMedium, VariantLarge:
		return Variant(s), true
	}
	return "", false
}

// Dir returns the storage subdirectory for the variant.
func (v Variant) Dir() string {
	if v == VariantOriginal {
		return "original"
	}
	return string(v)
}

// ThumbSize pairs a derived variant with its maximum pixel side.
type ThumbSize struct {
	Variant Variant
	MaxSide int
}

// ThumbSizes are the derived variants generated for every upload,
// ordered small to large. All are encoded as JPEG.
var ThumbSizes = []ThumbSize{
	{Variant: VariantSmall, MaxSide: 320},
	{Variant: VariantMedium, MaxSide: 720},
	{Variant: VariantLarge, MaxSide: 1280},
}

// ThumbContentType is the content type of every derived variant.
const ThumbContentType = "image/jpeg"
