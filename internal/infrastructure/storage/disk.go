// Package storage buffers uploaded report images to local disk. Files are
// written synchronously before the create-report handler runs; there is no
// streaming or resumability.
package storage

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// MaxImageBytes is the upload size cap.
const MaxImageBytes = 5 << 20 // 5MB

// ErrImageTooLarge and ErrNotAnImage name the two upload constraints so the
// transport layer can report which one was violated.
var ErrImageTooLarge = errors.New("Image too large (max 5MB)")
var ErrNotAnImage = errors.New("Only image files are allowed")

// allowedTypes is the image content-type allow-list, checked against the
// sniffed content rather than the client-supplied header.
var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// DiskStore saves images under a single directory with random filenames.
type DiskStore struct {
	dir string
}

// NewDiskStore ensures dir exists and returns a store rooted there.
func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &DiskStore{dir: dir}, nil
}

// Dir returns the directory images are stored in, for static serving.
func (s *DiskStore) Dir() string {
	return s.dir
}

// Save validates and writes one uploaded image. size is the declared upload
// size; the content type is sniffed from the first bytes and the
// client-supplied header is ignored. Returns the public path under /uploads.
func (s *DiskStore) Save(file io.ReadSeeker, size int64) (string, error) {
	if size > MaxImageBytes {
		return "", ErrImageTooLarge
	}

	head := make([]byte, 512)
	n, err := file.Read(head)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read upload: %w", err)
	}
	ext, ok := allowedTypes[http.DetectContentType(head[:n])]
	if !ok {
		return "", ErrNotAnImage
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewind upload: %w", err)
	}

	name := fmt.Sprintf("report-%s%s", uuid.NewString(), ext)
	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}
	defer dst.Close()

	// The copy is capped one byte past the limit; the declared size is not trusted.
	written, err := io.Copy(dst, io.LimitReader(file, MaxImageBytes+1))
	if err != nil {
		_ = os.Remove(dst.Name())
		return "", fmt.Errorf("write image: %w", err)
	}
	if written > MaxImageBytes {
		_ = os.Remove(dst.Name())
		return "", ErrImageTooLarge
	}

	return "/uploads/" + name, nil
}
