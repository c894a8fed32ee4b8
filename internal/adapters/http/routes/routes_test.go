package routes_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"desaku-api/internal/adapters/http/middleware"
	"desaku-api/internal/adapters/http/routes"
	"desaku-api/internal/adapters/persistence/models"
	"desaku-api/internal/adapters/storage"
	"desaku-api/internal/config"
	"desaku-api/internal/core/domain"
	"desaku-api/internal/pkg/password"
	"desaku-api/internal/pkg/testdb"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const (
	adminUsername = "admin"
	adminPassword = "admin12345"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Meta    map[string]any  `json:"meta"`
	URL     string          `json:"url"`
}

type testServer struct {
	t   *testing.T
	app *fiber.App
	db  *gorm.DB
	cfg *config.Config
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db := testdb.Open(t)
	ctx := context.Background()

	require.NoError(t, config.NewSeeder(db, config.SeedConfig{
		AdminUsername: adminUsername,
		AdminPassword: adminPassword,
		AdminName:     "Admin Desa",
	}).Run(ctx))

	gateway := config.NewGatewayWithOpener(func(ctx context.Context) (*gorm.DB, error) { return db, nil })
	_, err := gateway.Connect(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		AppMode:   "dev",
		LoginPath: "/auth/login",
		Session:   config.SessionConfig{Secret: "routes-test-secret", MaxAge: time.Hour},
		Cookie:    config.CookieConfig{Name: "session_token", SameSite: "Lax"},
		Storage:   config.StorageConfig{Driver: "local", Dir: t.TempDir(), BaseURL: "/uploads", MaxWidth: 1920},
		Redis:     config.RedisConfig{TTL: time.Minute},
	}

	app := fiber.New(fiber.Config{
		BodyLimit:    6 << 20,
		JSONEncoder:  sonic.Marshal,
		JSONDecoder:  sonic.Unmarshal,
		ErrorHandler: middleware.CustomErrorHandler,
	})
	routes.Setup(app, routes.Deps{
		Config:  cfg,
		DB:      db,
		Pinger:  gateway,
		Store:   storage.NewLocalStore(cfg.Storage.Dir, cfg.Storage.BaseURL),
		Metrics: middleware.NewMetrics(),
	})

	return &testServer{t: t, app: app, db: db, cfg: cfg}
}

func (s *testServer) do(method, path, token string, body any) (*http.Response, envelope) {
	s.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := sonic.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	return s.send(req)
}

func (s *testServer) send(req *http.Request) (*http.Response, envelope) {
	s.t.Helper()

	resp, err := s.app.Test(req, -1)
	require.NoError(s.t, err)

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(s.t, err)
	if strings.HasPrefix(resp.Header.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		require.NoError(s.t, sonic.Unmarshal(raw, &env), string(raw))
	}
	return resp, env
}

func (s *testServer) login(username, plain string) string {
	s.t.Helper()

	resp, env := s.do(http.MethodPost, "/api/auth/login", "", map[string]string{"username": username, "password": plain})
	require.Equal(s.t, http.StatusOK, resp.StatusCode, env.Message)

	var session struct {
		Token string `json:"token"`
	}
	decodeData(s.t, env, &session)
	require.NotEmpty(s.t, session.Token)
	return session.Token
}

func (s *testServer) letterType(kode string) *models.JenisSurat {
	s.t.Helper()

	var lt models.JenisSurat
	require.NoError(s.t, s.db.Where("kode = ?", kode).First(&lt).Error)
	return &lt
}

func decodeData(t *testing.T, env envelope, v any) {
	t.Helper()
	require.NoError(t, sonic.Unmarshal(env.Data, v))
}

func countRows(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()

	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func TestBerita_RejectedWritesDoNotMutate(t *testing.T) {
	s := newTestServer(t)
	payload := map[string]string{"judul": "Test", "isi": "Body", "tanggal": "2024-01-01"}

	resident := &models.User{Username: "warga", Nama: "Warga", Role: domain.RoleResident}
	hashed, err := password.Hash("warga123")
	require.NoError(t, err)
	resident.Password = hashed
	require.NoError(t, s.db.Create(resident).Error)
	residentToken := s.login("warga", "warga123")

	tests := []struct {
		name  string
		token string
	}{
		{"no session", ""},
		{"invalid token", "not-a-token"},
		{"resident session", residentToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, env := s.do(http.MethodPost, "/api/berita", tt.token, payload)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			assert.False(t, env.Success)
		})
	}

	resp, env := s.do(http.MethodGet, "/api/berita", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, env.Success)
	assert.JSONEq(t, `[]`, string(env.Data))
	assert.Zero(t, countRows(t, s.db, &models.Berita{}))
}

func TestBerita_Lifecycle(t *testing.T) {
	s := newTestServer(t)
	token := s.login(adminUsername, adminPassword)

	resp, env := s.do(http.MethodPost, "/api/berita", token, map[string]any{
		"id":        "client-chosen-id",
		"createdAt": "1999-01-01T00:00:00Z",
		"judul":     "Kerja Bakti",
		"isi":       "Warga RT 02 bergotong royong",
		"tanggal":   "2024-01-01",
		"kategori":  "kegiatan",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, env.Message)

	var created models.Berita
	decodeData(t, env, &created)
	assert.NotEqual(t, "client-chosen-id", created.ID)
	assert.Len(t, created.ID, 36)
	assert.True(t, created.CreatedAt.After(time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)))

	resp, env = s.do(http.MethodGet, "/api/berita/"+created.ID, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var fetched models.Berita
	decodeData(t, env, &fetched)
	assert.Equal(t, "Kerja Bakti", fetched.Judul)
	assert.Equal(t, "Warga RT 02 bergotong royong", fetched.Isi)
	assert.Equal(t, "2024-01-01", fetched.Tanggal)
	assert.Equal(t, "kegiatan", fetched.Kategori)

	resp, env = s.do(http.MethodPut, "/api/berita/"+created.ID, token, map[string]any{"judul": "Kerja Bakti Akbar", "id": "other"})
	require.Equal(t, http.StatusOK, resp.StatusCode, env.Message)
	var updated models.Berita
	decodeData(t, env, &updated)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Kerja Bakti Akbar", updated.Judul)
	assert.Equal(t, "Warga RT 02 bergotong royong", updated.Isi)

	resp, env = s.do(http.MethodGet, "/api/berita?search=AKBAR&kategori=kegiatan&page=1&limit=5", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var listed []models.Berita
	decodeData(t, env, &listed)
	require.Len(t, listed, 1)
	assert.EqualValues(t, 1, env.Meta["total"])

	resp, env = s.do(http.MethodDelete, "/api/berita/"+created.ID, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"id":"`+created.ID+`"}`, string(env.Data))

	resp, env = s.do(http.MethodDelete, "/api/berita/"+created.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.False(t, env.Success)
	assert.Equal(t, "Not found", env.Message)
}

func TestUnknownIDs_AreNotFound(t *testing.T) {
	s := newTestServer(t)
	token := s.login(adminUsername, adminPassword)
	missing := "/api/agenda/00000000-0000-0000-0000-000000000000"

	tests := []struct {
		method string
		body   any
	}{
		{http.MethodGet, nil},
		{http.MethodPut, map[string]string{"judul": "x"}},
		{http.MethodDelete, nil},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			resp, env := s.do(tt.method, missing, token, tt.body)
			assert.Equal(t, http.StatusNotFound, resp.StatusCode)
			assert.False(t, env.Success)
		})
	}
}

func TestLokasi_MissingLngNamesCoordinate(t *testing.T) {
	s := newTestServer(t)
	token := s.login(adminUsername, adminPassword)

	resp, env := s.do(http.MethodPost, "/api/lokasi", token, map[string]any{
		"nama":      "Kantor Desa",
		"alamat":    "Jl. Raya No. 1",
		"koordinat": map[string]any{"lat": -7.25},
	})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.False(t, env.Success)
	assert.Contains(t, env.Message, "koordinat.lng")
	assert.Zero(t, countRows(t, s.db, &models.Lokasi{}))
}

func TestPengajuanSurat_PublicSubmitAndResidentTracking(t *testing.T) {
	s := newTestServer(t)
	skd := s.letterType("SKD")

	before := time.Now().Add(-time.Second)
	resp, env := s.do(http.MethodPost, "/api/pengajuan-surat", "", map[string]any{
		"nama":             "Budi",
		"nik":              "1234567890123456",
		"teleponWA":        "081234567890",
		"jenisSurat":       skd.ID,
		"status":           "approved",
		"tanggalPengajuan": "2001-01-01T00:00:00Z",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, env.Message)

	var app models.PengajuanSurat
	decodeData(t, env, &app)
	assert.Equal(t, domain.StatusPending, app.Status)
	assert.True(t, app.TanggalPengajuan.After(before))
	assert.Len(t, app.ID, 36)

	// The citizen can log in with NIK and phone number to track it
	token := s.login("1234567890123456", "081234567890")
	resp, env = s.do(http.MethodGet, "/api/user/pengajuan", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var mine []struct {
		ID               string `json:"id"`
		Status           string `json:"status"`
		JenisSuratDetail *struct {
			ID   string `json:"id"`
			Kode string `json:"kode"`
		} `json:"jenisSuratDetail"`
	}
	decodeData(t, env, &mine)
	require.Len(t, mine, 1)
	assert.Equal(t, app.ID, mine[0].ID)
	require.NotNil(t, mine[0].JenisSuratDetail)
	assert.Equal(t, "SKD", mine[0].JenisSuratDetail.Kode)

	// Residents cannot read the admin list
	resp, _ = s.do(http.MethodGet, "/api/pengajuan-surat", token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	admin := s.login(adminUsername, adminPassword)
	resp, env = s.do(http.MethodPut, "/api/pengajuan-surat/"+app.ID, admin, map[string]any{
		"status":           "approved",
		"catatanAdmin":     "Silakan ambil di kantor desa",
		"tanggalPengajuan": "2001-01-01T00:00:00Z",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, env.Message)
	var reviewed models.PengajuanSurat
	decodeData(t, env, &reviewed)
	assert.Equal(t, domain.StatusApproved, reviewed.Status)
	assert.True(t, reviewed.TanggalPengajuan.Equal(app.TanggalPengajuan))

	// A second, still pending application for another letter type
	sktm := s.letterType("SKTM")
	resp, env = s.do(http.MethodPost, "/api/pengajuan-surat", "", map[string]any{
		"nama":       "Ani",
		"nik":        "6543210987654321",
		"teleponWA":  "089876543210",
		"jenisSurat": sktm.ID,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, env.Message)
	var other models.PengajuanSurat
	decodeData(t, env, &other)

	// Filters and search combine with AND
	tests := []struct {
		query string
		ids   []string
	}{
		{"status=approved&jenisSurat=" + skd.ID + "&search=budi", []string{app.ID}},
		{"status=pending", []string{other.ID}},
		{"jenisSurat=" + sktm.ID, []string{other.ID}},
		{"search=budi", []string{app.ID}},
		{"status=pending&search=budi", []string{}},
		{"status=approved&jenisSurat=" + sktm.ID, []string{}},
		{"jenisSurat=" + skd.ID + "&search=ani", []string{}},
		{"status=pending&jenisSurat=" + skd.ID, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			resp, env := s.do(http.MethodGet, "/api/pengajuan-surat?"+tt.query, admin, nil)
			require.Equal(t, http.StatusOK, resp.StatusCode)
			var listed []models.PengajuanSurat
			decodeData(t, env, &listed)
			ids := make([]string, 0, len(listed))
			for _, it := range listed {
				ids = append(ids, it.ID)
			}
			assert.Equal(t, tt.ids, ids)
		})
	}
}

func TestPengajuanSurat_RejectsInactiveLetterType(t *testing.T) {
	s := newTestServer(t)
	skd := s.letterType("SKD")
	require.NoError(t, s.db.Model(skd).Update("aktif", false).Error)

	resp, env := s.do(http.MethodPost, "/api/pengajuan-surat", "", map[string]any{
		"nama":       "Budi",
		"nik":        "1234567890123456",
		"teleponWA":  "081234567890",
		"jenisSurat": skd.ID,
	})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, env.Message, "jenisSurat")
	assert.Zero(t, countRows(t, s.db, &models.PengajuanSurat{}))
}

func TestUsers_ResetPassword(t *testing.T) {
	s := newTestServer(t)
	admin := s.login(adminUsername, adminPassword)

	resp, env := s.do(http.MethodPost, "/api/users", admin, map[string]string{
		"username": "siti",
		"password": "OldPass1",
		"nama":     "Siti",
		"role":     "resident",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, env.Message)
	var user models.User
	decodeData(t, env, &user)
	assert.NotContains(t, string(env.Data), "OldPass1")

	var stored models.User
	require.NoError(t, s.db.First(&stored, "id = ?", user.ID).Error)
	oldHash := stored.Password

	resp, env = s.do(http.MethodPut, "/api/users/"+user.ID+"/reset-password", admin, map[string]string{"password": "NewPass1"})
	require.Equal(t, http.StatusOK, resp.StatusCode, env.Message)

	require.NoError(t, s.db.First(&stored, "id = ?", user.ID).Error)
	assert.NotEqual(t, oldHash, stored.Password)
	assert.False(t, password.Verify("OldPass1", stored.Password))
	assert.True(t, password.Verify("NewPass1", stored.Password))

	resp, _ = s.do(http.MethodPost, "/api/auth/login", "", map[string]string{"username": "siti", "password": "OldPass1"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.NotEmpty(t, s.login("siti", "NewPass1"))
}

func TestUsers_DuplicateAndSelfDelete(t *testing.T) {
	s := newTestServer(t)
	admin := s.login(adminUsername, adminPassword)

	resp, _ := s.do(http.MethodPost, "/api/users", admin, map[string]string{
		"username": adminUsername, "password": "whatever1", "nama": "Dup", "role": "admin",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, env := s.do(http.MethodGet, "/api/auth/me", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var me models.User
	decodeData(t, env, &me)

	resp, _ = s.do(http.MethodDelete, "/api/users/"+me.ID, admin, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAuth_CookieSession(t *testing.T) {
	s := newTestServer(t)

	resp, _ := s.do(http.MethodPost, "/api/auth/login", "", map[string]string{"username": adminUsername, "password": adminPassword})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var session *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == "session_token" {
			session = c
		}
	}
	require.NotNil(t, session)
	assert.True(t, session.HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: session.Name, Value: session.Value})
	resp, env := s.send(req)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(env.Data), `"totalAdmins":1`)

	resp, _ = s.do(http.MethodPost, "/api/auth/logout", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	for _, c := range resp.Cookies() {
		if c.Name == "session_token" {
			assert.Empty(t, c.Value)
		}
	}
}

func TestAdminPage_RedirectsToLogin(t *testing.T) {
	s := newTestServer(t)

	resp, _ := s.do(http.MethodGet, "/admin/dashboard", "", nil)

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/auth/login?callbackUrl=%2Fadmin%2Fdashboard", resp.Header.Get(fiber.HeaderLocation))
}

func pngBytes(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 200, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func uploadRequest(t *testing.T, field, filename, contentType string, data []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := w.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &body)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	return req
}

func TestUpload_StoreServeDelete(t *testing.T) {
	s := newTestServer(t)

	resp, env := s.send(uploadRequest(t, "foto", "balai desa.png", "image/png", pngBytes(t)))
	require.Equal(t, http.StatusOK, resp.StatusCode, env.Message)
	require.True(t, strings.HasPrefix(env.URL, "/uploads/"), env.URL)
	assert.True(t, strings.HasSuffix(env.URL, "-balai-desa.png"), env.URL)

	resp, err := s.app.Test(httptest.NewRequest(http.MethodGet, env.URL, nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = s.do(http.MethodDelete, "/api/upload/delete", "", map[string]string{"filename": env.URL})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	admin := s.login(adminUsername, adminPassword)
	resp, _ = s.do(http.MethodDelete, "/api/upload/delete", admin, map[string]string{"filename": env.URL})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = s.do(http.MethodDelete, "/api/upload/delete", admin, map[string]string{"filename": env.URL})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUpload_Rejections(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name string
		req  *http.Request
	}{
		{"missing field", uploadRequest(t, "gambar", "a.png", "image/png", pngBytes(t))},
		{"declared non-image", uploadRequest(t, "foto", "a.txt", "text/plain", []byte("hello"))},
		{"sniffed non-image", uploadRequest(t, "foto", "a.png", "image/png", []byte("definitely not a png"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, env := s.send(tt.req)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.False(t, env.Success)
		})
	}
}

func TestUpload_RateLimited(t *testing.T) {
	s := newTestServer(t)

	for i := 0; i < 10; i++ {
		resp, env := s.send(uploadRequest(t, "foto", fmt.Sprintf("peta-%d.png", i), "image/png", pngBytes(t)))
		require.Equal(t, http.StatusOK, resp.StatusCode, env.Message)
	}

	resp, env := s.send(uploadRequest(t, "foto", "peta-10.png", "image/png", pngBytes(t)))
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.False(t, env.Success)
	assert.Empty(t, env.URL)
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)

	resp, err := s.app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = s.app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "desaku_http_requests_total")
}
