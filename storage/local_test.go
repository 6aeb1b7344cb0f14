package storage

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/avrelian/photohost/database/models"
	"github.com/stretchr/testify/assert"
)

func newTestLayout(t *testing.T) *Layout {
	layout, err := NewLayout(t.TempDir())
	assert.NoError(t, err)
	return layout
}

func TestNewLayout_CreatesVariantDirs(t *testing.T) {
	root := t.TempDir()
	_, err := NewLayout(root)
	assert.NoError(t, err)

	for _, dir := range []string{"original", "sm", "md", "lg"} {
		info, err := os.Stat(filepath.Join(root, dir))
		assert.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestPathFor(t *testing.T) {
	layout := newTestLayout(t)

	path, err := layout.PathFor("abc123", models.VariantOriginal, "png")
	assert.NoError(t, err)
	assert.Equal(t, filepath.Join(layout.BasePath(), "original", "abc123.png"), path)

	path, err = layout.PathFor("abc123", models.VariantSmall, "jpg")
	assert.NoError(t, err)
	assert.Equal(t, filepath.Join(layout.BasePath(), "sm", "abc123.jpg"), path)
}

func TestPathFor_RejectsTraversal(t *testing.T) {
	layout := newTestLayout(t)

	tests := []struct {
		name       string
		identifier string
		ext        string
	}{
		{"dotdot", "../etc/passwd", "jpg"},
		{"absolute", "/etc/passwd", "jpg"},
		{"embedded_slash", "a/b", "jpg"},
		{"dot_in_identifier", "a.b", "jpg"},
		{"empty_identifier", "", "jpg"},
		{"ext_with_dot", "abc123", "j.pg"},
		{"ext_with_slash", "abc123", "jpg/x"},
		{"empty_ext", "abc123", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := layout.PathFor(tt.identifier, models.VariantOriginal, tt.ext)
			assert.Error(t, err)
		})
	}
}

func TestSaveAndOpen(t *testing.T) {
	layout := newTestLayout(t)
	ctx := context.Background()
	content := []byte("fake image bytes")

	err := layout.Save(ctx, "abc123", models.VariantOriginal, "jpg", bytes.NewReader(content))
	assert.NoError(t, err)

	file, err := layout.Open(ctx, "abc123", models.VariantOriginal, "jpg")
	assert.NoError(t, err)
	defer file.Close()

	got, err := io.ReadAll(file)
	assert.NoError(t, err)
	assert.Equal(t, content, got)
}

func TestOpen_MissingFile(t *testing.T) {
	layout := newTestLayout(t)

	_, err := layout.Open(context.Background(), "missing0", models.VariantOriginal, "jpg")
	assert.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestExists(t *testing.T) {
	layout := newTestLayout(t)
	ctx := context.Background()

	exists, err := layout.Exists(ctx, "abc123", models.VariantSmall, "jpg")
	assert.NoError(t, err)
	assert.False(t, exists)

	err = layout.Save(ctx, "abc123", models.VariantSmall, "jpg", bytes.NewReader([]byte("x")))
	assert.NoError(t, err)

	exists, err = layout.Exists(ctx, "abc123", models.VariantSmall, "jpg")
	assert.NoError(t, err)
	assert.True(t, exists)
}

func TestDeleteAll(t *testing.T) {
	layout := newTestLayout(t)
	ctx := context.Background()

	err := layout.Save(ctx, "abc123", models.VariantOriginal, "png", bytes.NewReader([]byte("o")))
	assert.NoError(t, err)
	for _, ts := range models.ThumbSizes {
		err := layout.Save(ctx, "abc123", ts.Variant, "jpg", bytes.NewReader([]byte("t")))
		assert.NoError(t, err)
	}

	err = layout.DeleteAll(ctx, "abc123", "png", "jpg")
	assert.NoError(t, err)

	exists, _ := layout.Exists(ctx, "abc123", models.VariantOriginal, "png")
	assert.False(t, exists)
	for _, ts := range models.ThumbSizes {
		exists, _ := layout.Exists(ctx, "abc123", ts.Variant, "jpg")
		assert.False(t, exists)
	}
}

func TestDeleteAll_MissingFilesIgnored(t *testing.T) {
	layout := newTestLayout(t)

	// Nothing was ever written; delete must still succeed.
	err := layout.DeleteAll(context.Background(), "never1", "jpg", "jpg")
	assert.NoError(t, err)
}

func TestDeleteAll_PartialSet(t *testing.T) {
	layout := newTestLayout(t)
	ctx := context.Background()

	// Only the original exists, thumbnails were never written.
	err := layout.Save(ctx, "abc123", models.VariantOriginal, "jpg", bytes.NewReader([]byte("o")))
	assert.NoError(t, err)

	err = layout.DeleteAll(ctx, "abc123", "jpg", "jpg")
	assert.NoError(t, err)

	exists, _ := layout.Exists(ctx, "abc123", models.VariantOriginal, "jpg")
	assert.False(t, exists)
}

func TestIsValidIdentifier(t *testing.T) {
	tests := []struct {
		name       string
		identifier string
		want       bool
	}{
		{"hex", "0123456789abcdef0123456789abcdef", true},
		{"alnum", "Abc123", true},
		{"dash_underscore", "a-b_c", true},
		{"empty", "", false},
		{"dot", "a.b", false},
		{"slash", "a/b", false},
		{"dotdot", "..", false},
		{"space", "a b", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidIdentifier(tt.identifier))
		})
	}
}
