// Package uploads stores dish images on disk and backs the directory up daily.
package uploads

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/vTempo/afroditis-delicacies/models"
)

// MaxImageSize bounds a single dish image.
const MaxImageSize = 10 << 20

var imageExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".gif": true}

// Images saves uploaded files under Dir/dishes and serves them from
// URLPrefix/dishes.
type Images struct {
	Dir       string
	URLPrefix string
}

func NewImages(dir, urlPrefix string) *Images {
	return &Images{Dir: dir, URLPrefix: strings.TrimRight(urlPrefix, "/")}
}

// SaveDishImage writes the upload under a fresh name and returns its public URL.
func (im *Images) SaveDishImage(dishID string, fh *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !imageExts[ext] {
		return "", models.Invalid("image", "image must be a jpg, png, webp or gif file")
	}
	if fh.Size > MaxImageSize {
		return "", models.Invalid("image", "image is larger than 10 MB")
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	dir := filepath.Join(im.Dir, "dishes")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload folder: %w", err)
	}
	name := dishID + "_" + uuid.NewString()[:8] + ext

	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}
	if _, err := io.Copy(dst, io.LimitReader(src, MaxImageSize+1)); err != nil {
		dst.Close()
		return "", fmt.Errorf("write image: %w", err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}

	return im.URLPrefix + "/dishes/" + name, nil
}
