package services

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"salon_crm_backend/internal/models"
)

// UploadURLPrefix is where stored uploads are served.
const UploadURLPrefix = "/uploads/"

var (
	ErrNoFile              = fmt.Errorf("%w: no file uploaded", models.ErrValidation)
	ErrUnsupportedFileType = fmt.Errorf("%w: only JPEG, PNG, GIF and WebP images are allowed", models.ErrValidation)
	ErrUploadTooLarge      = errors.New("file exceeds the maximum upload size")
)

// allowedImageTypes maps accepted MIME types to the stored file extension.
var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// UploadService stores customer photos on local disk.
type UploadService interface {
	SavePhoto(r io.Reader) (*models.UploadResult, error)
	MaxBytes() int64
}

type uploadService struct {
	dir      string
	maxBytes int64
	now      func() time.Time
}

// NewUploadService creates an UploadService writing into dir, creating it if needed.
func NewUploadService(dir string, maxBytes int64) (UploadService, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("could not create upload directory %s: %w", dir, err)
	}
	return &uploadService{dir: dir, maxBytes: maxBytes, now: time.Now}, nil
}

func (s *uploadService) MaxBytes() int64 { return s.maxBytes }

// SavePhoto sniffs the content type, rejects anything that is not a supported
// image, and writes the file as <unix-millis>-<uuid><ext>.
func (s *uploadService) SavePhoto(r io.Reader) (*models.UploadResult, error) {
	if r == nil {
		return nil, ErrNoFile
	}
	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrNoFile
	}
	if int64(len(data)) > s.maxBytes {
		return nil, ErrUploadTooLarge
	}

	mtype := mimetype.Detect(data)
	var ext string
	for m := mtype; m != nil; m = m.Parent() {
		if e, ok := allowedImageTypes[m.String()]; ok {
			ext = e
			break
		}
	}
	if ext == "" {
		return nil, fmt.Errorf("%w: detected %s", ErrUnsupportedFileType, mtype.String())
	}

	filename := fmt.Sprintf("%d-%s%s", s.now().UnixMilli(), uuid.NewString(), ext)
	dst, err := os.OpenFile(filepath.Join(s.dir, filename), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to create upload file: %w", err)
	}
	if _, err := io.Copy(dst, bytes.NewReader(data)); err != nil {
		dst.Close()
		os.Remove(dst.Name())
		return nil, fmt.Errorf("failed to write upload file: %w", err)
	}
	if err := dst.Close(); err != nil {
		return nil, fmt.Errorf("failed to close upload file: %w", err)
	}

	return &models.UploadResult{Success: true, Filename: filename, URL: UploadURLPrefix + filename}, nil
}
