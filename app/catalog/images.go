package catalog

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// ImageStore persists uploaded product images and returns their path
// relative to the media root.
type ImageStore interface {
	Put(ctx context.Context, name string, data []byte, ext string) (string, error)
	Delete(ctx context.Context, rel string) error
}

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// ImageExt returns the lower-cased extension of filename and whether it is an accepted image type.
func ImageExt(filename string) (string, bool) {
	ext := strings.ToLower(filepath.Ext(filename))
	return ext, imageExtensions[ext]
}

// ImagePath builds products/YYYY/MM/DD/<slug>-<uuid><ext>.
func ImagePath(name, ext string, now time.Time) string {
	base := slug.Make(name)
	if base == "" {
		base = "product"
	}
	return path.Join("products", now.Format("2006/01/02"), base+"-"+uuid.New().String()+ext)
}

// DiskImageStore writes images below a local directory.
type DiskImageStore struct {
	root string
	now  func() time.Time
}

func NewDiskImageStore(root string) *DiskImageStore {
	return &DiskImageStore{root: root, now: time.Now}
}

func (s *DiskImageStore) Put(ctx context.Context, name string, data []byte, ext string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	rel := ImagePath(name, ext, s.now())
	full := filepath.Join(s.root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("failed to create image directory: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}
	return rel, nil
}

func (s *DiskImageStore) Delete(ctx context.Context, rel string) error {
	if rel == "" {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	err := os.Remove(filepath.Join(s.root, filepath.FromSlash(rel)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove image: %w", err)
	}
	return nil
}
