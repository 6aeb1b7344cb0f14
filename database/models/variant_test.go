package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseVariant(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Variant
		ok    bool
	}{
		{"orig", "orig", VariantOriginal, true},
		{"sm", "sm", VariantSmall, true},
		{"md", "md", VariantMedium, true},
		{"lg", "lg", VariantLarge, true},
		{"original_long_form", "original", "", false},
		{"unknown", "xl", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseVariant(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVariantDir(t *testing.T) {
	assert.Equal(t, "original", VariantOriginal.Dir())
	assert.Equal(t, "sm", VariantSmall.Dir())
	assert.Equal(t, "md", VariantMedium.Dir())
	assert.Equal(t, "lg", VariantLarge.Dir())
}

func TestThumbSizesOrdering(t *testing.T) {
	assert.Len(t, ThumbSizes, 3)
	for i := 1; i < len(ThumbSizes); i++ {
		assert.Greater(t, ThumbSizes[i].MaxSide, ThumbSizes[i-1].MaxSide)
	}
}
