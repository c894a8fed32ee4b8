package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"desaku-api/internal/config"
	"desaku-api/internal/core/domain"
)

// Store persists uploaded assets under flat names
type Store interface {
	// Put writes an asset and returns its public URL
	Put(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error)
	// Delete removes an asset; a missing asset yields domain.ErrAssetNotFound
	Delete(ctx context.Context, name string) error
	// NameFromURL reports the asset name behind a URL this store produced
	NameFromURL(url string) (string, bool)
}

// New builds the store selected by STORAGE_DRIVER
func New(cfg config.StorageConfig) (Store, error) {
	switch cfg.Driver {
	case "", "local":
		return NewLocalStore(cfg.Dir, cfg.BaseURL), nil
	case "oss":
		return NewOSSStore(cfg.OSS)
	default:
		return nil, fmt.Errorf("unknown storage driver: %s", cfg.Driver)
	}
}

// CheckName rejects names that could escape the store root
func CheckName(name string) error {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) || filepath.Base(name) != name {
		return domain.NewValidationError("filename", "filename is invalid")
	}
	return nil
}

// SanitizeFilename keeps letters, digits, dot, dash and underscore; whitespace becomes a dash
func SanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	name = strings.TrimSpace(name)

	var b strings.Builder
	lastDash := false
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '_':
			b.WriteRune(r)
			lastDash = false
		case r == '-' || r == ' ' || r == '\t':
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}

	out := strings.Trim(b.String(), "-.")
	if out == "" {
		return "file"
	}
	return out
}

func trimBase(url, base string) (string, bool) {
	base = strings.TrimRight(base, "/") + "/"
	if !strings.HasPrefix(url, base) {
		return "", false
	}
	name := strings.TrimPrefix(url, base)
	if CheckName(name) != nil {
		return "", false
	}
	return name, true
}
