package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"desaku-api/internal/config"
	"desaku-api/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"foto ktp.jpg", "foto-ktp.jpg"},
		{"../../etc/passwd", "passwd"},
		{`C:\Users\budi\kk scan.png`, "kk-scan.png"},
		{"  spasi   ganda .png", "spasi-ganda-.png"},
		{"ñandú.jpeg", "and.jpeg"},
		{"...", "file"},
		{"", "file"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeFilename(tt.in))
		})
	}
}

func TestCheckName(t *testing.T) {
	assert.NoError(t, CheckName("1700000000000-foto.jpg"))
	for _, bad := range []string{"", ".", "..", "a/b.jpg", `a\b.jpg`, "../x"} {
		assert.ErrorIs(t, CheckName(bad), domain.ErrInvalidInput, bad)
	}
}

func TestLocalStore_PutDelete(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	store := NewLocalStore(dir, "/uploads/")
	ctx := context.Background()

	url, err := store.Put(ctx, "1-foto.jpg", strings.NewReader("data"), 4, "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/1-foto.jpg", url)

	content, err := os.ReadFile(filepath.Join(dir, "1-foto.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "data", string(content))

	name, ok := store.NameFromURL(url)
	require.True(t, ok)
	assert.Equal(t, "1-foto.jpg", name)

	require.NoError(t, store.Delete(ctx, name))
	assert.ErrorIs(t, store.Delete(ctx, name), domain.ErrAssetNotFound)
}

func TestLocalStore_RejectsTraversal(t *testing.T) {
	store := NewLocalStore(t.TempDir(), "/uploads")

	_, err := store.Put(context.Background(), "../escape.jpg", strings.NewReader("x"), 1, "image/jpeg")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, ok := store.NameFromURL("/uploads/../secret")
	assert.False(t, ok)
	_, ok = store.NameFromURL("https://elsewhere.example/x.jpg")
	assert.False(t, ok)
}

func TestOSSStore_URLs(t *testing.T) {
	cfg := config.OSSConfig{Endpoint: "https://oss-ap-southeast-5.aliyuncs.com", Bucket: "desa"}
	assert.Equal(t, "https://desa.oss-ap-southeast-5.aliyuncs.com", publicBase(cfg))

	cfg.PublicBase = "https://cdn.desa.id/"
	assert.Equal(t, "https://cdn.desa.id", publicBase(cfg))

	s := &OSSStore{prefix: "uploads", publicBase: publicBase(cfg)}
	assert.Equal(t, "uploads/a.jpg", s.key("a.jpg"))

	name, ok := s.NameFromURL("https://cdn.desa.id/uploads/a.jpg")
	require.True(t, ok)
	assert.Equal(t, "a.jpg", name)
}

func TestNew_UnknownDriver(t *testing.T) {
	_, err := New(config.StorageConfig{Driver: "ftp"})
	assert.Error(t, err)

	s, err := New(config.StorageConfig{Driver: "local", Dir: t.TempDir(), BaseURL: "/uploads"})
	require.NoError(t, err)
	assert.IsType(t, &LocalStore{}, s)
}
