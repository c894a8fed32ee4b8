package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"desaku-api/internal/adapters/storage"
	"desaku-api/internal/core/domain"

	"github.com/disintegration/imaging"
)

// MaxUploadSize is the largest accepted asset
const MaxUploadSize = 5 << 20

// UploadService validates, optimizes and stores image assets
type UploadService struct {
	store    storage.Store
	maxWidth int
	now      func() time.Time
}

// NewUploadService creates a new upload service. maxWidth <= 0 disables downscaling.
func NewUploadService(store storage.Store, maxWidth int) *UploadService {
	return &UploadService{store: store, maxWidth: maxWidth, now: time.Now}
}

// Upload stores an image under "<unixmillis>-<sanitized name>" and returns its URL
func (s *UploadService) Upload(ctx context.Context, fh *multipart.FileHeader) (string, error) {
	if fh == nil {
		return "", domain.NewValidationError("foto", "foto is required")
	}
	if fh.Size > MaxUploadSize {
		return "", domain.NewValidationError("foto", "foto must be at most 5 MB")
	}
	if declared := fh.Header.Get("Content-Type"); !strings.HasPrefix(declared, "image/") {
		return "", domain.NewValidationError("foto", "foto must be an image")
	}

	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, MaxUploadSize+1))
	if err != nil {
		return "", err
	}
	if len(data) > MaxUploadSize {
		return "", domain.NewValidationError("foto", "foto must be at most 5 MB")
	}

	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return "", domain.NewValidationError("foto", "foto must be an image")
	}

	name := fmt.Sprintf("%d-%s", s.now().UnixMilli(), storage.SanitizeFilename(fh.Filename))
	data = s.optimize(data, name)

	url, err := s.store.Put(ctx, name, bytes.NewReader(data), int64(len(data)), contentType)
	if err != nil {
		return "", err
	}

	log.Printf("📁 Asset stored: %s", name)
	return url, nil
}

// Delete removes an asset by its stored name
func (s *UploadService) Delete(ctx context.Context, filename string) error {
	filename = strings.TrimSpace(filename)
	if filename == "" {
		return domain.NewValidationError("filename", "filename is required")
	}

	// Accept a full URL as well as a bare name
	if name, ok := s.store.NameFromURL(filename); ok {
		filename = name
	} else if strings.Contains(filename, "/") {
		filename = filepath.Base(filename)
	}

	if err := s.store.Delete(ctx, filename); err != nil {
		return err
	}

	log.Printf("🗑️ Asset deleted: %s", filename)
	return nil
}

// DeleteByURL removes an asset this service stored. URLs pointing elsewhere are ignored.
func (s *UploadService) DeleteByURL(ctx context.Context, url string) error {
	name, ok := s.store.NameFromURL(url)
	if !ok {
		return nil
	}
	return s.store.Delete(ctx, name)
}

// optimize downscales wide JPEG/PNG/GIF images. Anything it cannot decode is stored as sent.
func (s *UploadService) optimize(data []byte, name string) []byte {
	if s.maxWidth <= 0 {
		return data
	}

	format, err := imaging.FormatFromFilename(name)
	if err != nil {
		return data
	}
	switch format {
	case imaging.JPEG, imaging.PNG, imaging.GIF:
	default:
		return data
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return data
	}
	if img.Bounds().Dx() <= s.maxWidth {
		return data
	}

	resized := imaging.Resize(img, s.maxWidth, 0, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, format, imaging.JPEGQuality(85)); err != nil {
		log.Printf("⚠️ Failed to re-encode %s: %v", name, err)
		return data
	}
	return buf.Bytes()
}
