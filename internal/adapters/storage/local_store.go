package storage

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"desaku-api/internal/core/domain"
)

// LocalStore keeps assets in a directory served statically under baseURL
type LocalStore struct {
	dir     string
	baseURL string
}

// NewLocalStore creates a new filesystem store
func NewLocalStore(dir, baseURL string) *LocalStore {
	return &LocalStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}
}

func (s *LocalStore) Put(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error) {
	if err := CheckName(name); err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", err
	}

	path := filepath.Join(s.dir, name)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}

	return s.baseURL + "/" + name, nil
}

func (s *LocalStore) Delete(ctx context.Context, name string) error {
	if err := CheckName(name); err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.ErrAssetNotFound
		}
		return err
	}
	return nil
}

func (s *LocalStore) NameFromURL(url string) (string, bool) {
	return trimBase(url, s.baseURL)
}
