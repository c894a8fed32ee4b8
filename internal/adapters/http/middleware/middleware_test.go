package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"desaku-api/internal/adapters/cache"
	"desaku-api/internal/core/domain"
	"desaku-api/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubAuthorizer maps tokens to fixed roles
type stubAuthorizer map[string]domain.Role

func (s stubAuthorizer) Authorize(token string, required domain.Role) (services.Decision, *domain.Identity) {
	role, ok := s[token]
	if !ok {
		return services.Unauthenticated, nil
	}
	identity := &domain.Identity{ID: token, Role: role}
	if required != "" && role != required {
		return services.Forbidden, identity
	}
	return services.Authorized, identity
}

func newGuardApp() *fiber.App {
	guard := NewGuard(stubAuthorizer{"admin-token": domain.RoleAdmin, "resident-token": domain.RoleResident}, "session_token", "/auth/login")

	app := fiber.New(fiber.Config{ErrorHandler: CustomErrorHandler})
	ok := func(c *fiber.Ctx) error { return c.SendString(CurrentIdentity(c).ID) }
	app.Post("/api/berita", guard.RequireAdmin(), ok)
	app.Get("/api/user/pengajuan", guard.RequireSession(), ok)
	app.Get("/admin/dashboard", guard.RequireAdminPage(), ok)
	return app
}

func TestGuard(t *testing.T) {
	app := newGuardApp()

	tests := []struct {
		name     string
		method   string
		path     string
		cookie   string
		bearer   string
		status   int
		location string
	}{
		{"api without token", http.MethodPost, "/api/berita", "", "", fiber.StatusUnauthorized, ""},
		{"api with resident", http.MethodPost, "/api/berita", "resident-token", "", fiber.StatusUnauthorized, ""},
		{"api with admin cookie", http.MethodPost, "/api/berita", "admin-token", "", fiber.StatusOK, ""},
		{"api with admin bearer", http.MethodPost, "/api/berita", "", "admin-token", fiber.StatusOK, ""},
		{"cookie wins over header", http.MethodPost, "/api/berita", "resident-token", "admin-token", fiber.StatusUnauthorized, ""},
		{"session route with resident", http.MethodGet, "/api/user/pengajuan", "resident-token", "", fiber.StatusOK, ""},
		{"session route anonymous", http.MethodGet, "/api/user/pengajuan", "", "", fiber.StatusUnauthorized, ""},
		{"page anonymous", http.MethodGet, "/admin/dashboard?tab=1", "", "", fiber.StatusFound, "/auth/login?callbackUrl=%2Fadmin%2Fdashboard%3Ftab%3D1"},
		{"page with resident", http.MethodGet, "/admin/dashboard", "resident-token", "", fiber.StatusFound, "/auth/login?callbackUrl=%2Fadmin%2Fdashboard"},
		{"page with admin", http.MethodGet, "/admin/dashboard", "admin-token", "", fiber.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "session_token", Value: tt.cookie})
			}
			if tt.bearer != "" {
				req.Header.Set("Authorization", "Bearer "+tt.bearer)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
			if tt.location != "" {
				assert.Equal(t, tt.location, resp.Header.Get("Location"))
			}
			if tt.status == fiber.StatusUnauthorized {
				body, _ := io.ReadAll(resp.Body)
				assert.Contains(t, string(body), `"success":false`)
			}
		})
	}
}

// memoryCache is an in-process Cache for tests
type memoryCache struct {
	sync.Mutex
	items map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{items: make(map[string][]byte)}
}

func (m *memoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	m.Lock()
	defer m.Unlock()
	v, ok := m.items[key]
	if !ok {
		return nil, cache.ErrMiss
	}
	return v, nil
}

func (m *memoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.Lock()
	defer m.Unlock()
	m.items[key] = value
	return nil
}

func (m *memoryCache) Incr(ctx context.Context, key string) (int64, error) {
	m.Lock()
	defer m.Unlock()
	n, _ := strconv.ParseInt(string(m.items[key]), 10, 64)
	n++
	m.items[key] = []byte(strconv.FormatInt(n, 10))
	return n, nil
}

func (m *memoryCache) Close() error { return nil }

func TestResponseCache(t *testing.T) {
	store := newMemoryCache()
	hits := 0
	title := "lama"

	app := fiber.New()
	group := app.Group("/api/berita", ResponseCache(store, "berita", time.Minute))
	group.Get("/", func(c *fiber.Ctx) error {
		hits++
		return c.JSON(fiber.Map{"success": true, "data": title})
	})
	group.Put("/", func(c *fiber.Ctx) error {
		title = "baru"
		return c.JSON(fiber.Map{"success": true})
	})
	group.Delete("/", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false})
	})

	get := func() (string, string) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/berita/", nil))
		require.NoError(t, err)
		body, _ := io.ReadAll(resp.Body)
		return resp.Header.Get("X-Cache"), string(body)
	}

	state, body := get()
	assert.Equal(t, "MISS", state)
	assert.Contains(t, body, "lama")

	state, body = get()
	assert.Equal(t, "HIT", state)
	assert.Contains(t, body, "lama")
	assert.Equal(t, 1, hits)

	// A rejected write leaves the cached version alone
	_, err := app.Test(httptest.NewRequest(http.MethodDelete, "/api/berita/", nil))
	require.NoError(t, err)
	state, _ = get()
	assert.Equal(t, "HIT", state)

	_, err = app.Test(httptest.NewRequest(http.MethodPut, "/api/berita/", strings.NewReader("{}")))
	require.NoError(t, err)

	state, body = get()
	assert.Equal(t, "MISS", state)
	assert.Contains(t, body, "baru")
	assert.Equal(t, 2, hits)
}

func TestCustomErrorHandler(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: CustomErrorHandler})
	app.Get("/boom", func(c *fiber.Ctx) error { return fiber.NewError(fiber.StatusTeapot, "short and stout") })
	app.Get("/oops", func(c *fiber.Ctx) error { return io.ErrUnexpectedEOF })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTeapot, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"success":false,"message":"short and stout"}`, string(body))

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/oops", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	body, _ = io.ReadAll(resp.Body)
	assert.NotContains(t, string(body), "unexpected EOF")

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/missing", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestMetrics(t *testing.T) {
	m := NewMetrics()
	app := fiber.New()
	app.Use(m.Middleware())
	app.Get("/metrics", m.Handler())
	app.Get("/api/berita", func(c *fiber.Ctx) error { return c.SendString("ok") })

	_, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/berita", nil))
	require.NoError(t, err)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), `desaku_http_requests_total{method="GET",route="/api/berita",status="200"} 1`)
}
