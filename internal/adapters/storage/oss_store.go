package storage

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"desaku-api/internal/config"
	"desaku-api/internal/core/domain"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
)

// OSSStore keeps assets in an Aliyun OSS bucket
type OSSStore struct {
	bucket     *oss.Bucket
	prefix     string
	publicBase string
}

// NewOSSStore connects to the configured bucket
func NewOSSStore(cfg config.OSSConfig) (*OSSStore, error) {
	if cfg.Endpoint == "" || cfg.AccessKey == "" || cfg.SecretKey == "" || cfg.Bucket == "" {
		return nil, fmt.Errorf("missing env: ALI_OSS_ENDPOINT/ACCESS_KEY/SECRET_KEY/BUCKET")
	}

	var opts []oss.ClientOption
	if cfg.SecurityToken != "" {
		opts = append(opts, oss.SecurityToken(cfg.SecurityToken))
	}

	client, err := oss.New(cfg.Endpoint, cfg.AccessKey, cfg.SecretKey, opts...)
	if err != nil {
		return nil, fmt.Errorf("oss.New: %w", err)
	}

	bucket, err := client.Bucket(cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("client.Bucket: %w", err)
	}

	log.Printf("✅ OSS bucket ready: %s", cfg.Bucket)
	return &OSSStore{
		bucket:     bucket,
		prefix:     strings.Trim(cfg.Prefix, "/"),
		publicBase: publicBase(cfg),
	}, nil
}

func (s *OSSStore) Put(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error) {
	if err := CheckName(name); err != nil {
		return "", err
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := s.key(name)
	err := s.bucket.PutObject(key, r,
		oss.WithContext(ctx),
		oss.ContentType(contentType),
		oss.ContentLength(size),
		oss.CacheControl("public, max-age=31536000, immutable"),
	)
	if err != nil {
		return "", err
	}
	return s.publicBase + "/" + key, nil
}

func (s *OSSStore) Delete(ctx context.Context, name string) error {
	if err := CheckName(name); err != nil {
		return err
	}

	key := s.key(name)
	exists, err := s.bucket.IsObjectExist(key, oss.WithContext(ctx))
	if err != nil {
		return err
	}
	if !exists {
		return domain.ErrAssetNotFound
	}
	return s.bucket.DeleteObject(key, oss.WithContext(ctx))
}

func (s *OSSStore) NameFromURL(url string) (string, bool) {
	base := s.publicBase
	if s.prefix != "" {
		base += "/" + s.prefix
	}
	return trimBase(url, base)
}

func (s *OSSStore) key(name string) string {
	if s.prefix == "" {
		return name
	}
	return s.prefix + "/" + name
}

// publicBase is ALI_OSS_PUBLIC_BASE when set, else the virtual-hosted bucket URL
func publicBase(cfg config.OSSConfig) string {
	if base := strings.TrimSpace(cfg.PublicBase); base != "" {
		return strings.TrimRight(base, "/")
	}
	end := strings.TrimPrefix(cfg.Endpoint, "https://")
	end = strings.TrimPrefix(end, "http://")
	return fmt.Sprintf("https://%s.%s", cfg.Bucket, strings.TrimRight(end, "/"))
}
