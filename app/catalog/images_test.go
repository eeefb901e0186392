package catalog

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageExt(t *testing.T) {
	testCases := []struct {
		filename    string
		expectedExt string
		expectedOK  bool
	}{
		{"photo.jpg", ".jpg", true},
		{"photo.JPEG", ".jpeg", true},
		{"photo.png", ".png", true},
		{"anim.gif", ".gif", true},
		{"modern.webp", ".webp", true},
		{"notes.txt", ".txt", false},
		{"noext", "", false},
	}

	for _, tc := range testCases {
		t.Run(tc.filename, func(t *testing.T) {
			ext, ok := ImageExt(tc.filename)
			assert.Equal(t, tc.expectedExt, ext)
			assert.Equal(t, tc.expectedOK, ok)
		})
	}
}

func TestImagePath(t *testing.T) {
	now := time.Date(2025, 3, 7, 10, 0, 0, 0, time.UTC)

	rel := ImagePath("Laptop Pro 15", ".png", now)

	assert.Regexp(t, regexp.MustCompile(`^products/2025/03/07/laptop-pro-15-[0-9a-f-]{36}\.png$`), rel)
	assert.NotEqual(t, rel, ImagePath("Laptop Pro 15", ".png", now))
}

func TestDiskImageStore(t *testing.T) {
	root := t.TempDir()
	store := NewDiskImageStore(root)
	store.now = func() time.Time { return time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC) }
	ctx := context.Background()

	rel, err := store.Put(ctx, "Wireless Mouse", []byte("png-bytes"), ".png")
	require.NoError(t, err)
	assert.Contains(t, rel, "products/2025/01/02/wireless-mouse-")

	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), data)

	require.NoError(t, store.Delete(ctx, rel))
	_, err = os.Stat(filepath.Join(root, filepath.FromSlash(rel)))
	assert.True(t, os.IsNotExist(err))

	// removing a missing file is not an error
	assert.NoError(t, store.Delete(ctx, rel))
}
