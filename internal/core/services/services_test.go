package services

import (
	"context"
	"testing"
	"time"

	"desaku-api/internal/adapters/persistence/models"
	"desaku-api/internal/adapters/persistence/repositories"
	"desaku-api/internal/config"
	"desaku-api/internal/core/domain"
	"desaku-api/internal/pkg/password"
	"desaku-api/internal/pkg/testdb"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "test-secret-0123456789"

type fixture struct {
	db          *gorm.DB
	users       repositories.UserRepository
	apps        repositories.ApplicationRepository
	letterTypes *repositories.CRUDRepository[models.JenisSurat]
	auth        *AuthService
	userSvc     *UserService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testdb.Open(t)
	cfg := &config.Config{Session: config.SessionConfig{Secret: testSecret, MaxAge: time.Hour}}

	users := repositories.NewUserRepository(db)
	return &fixture{
		db:          db,
		users:       users,
		apps:        repositories.NewApplicationRepository(db),
		letterTypes: repositories.NewCRUDRepository[models.JenisSurat](db),
		auth:        NewAuthService(users, cfg),
		userSvc:     NewUserService(users),
	}
}

func (f *fixture) createUser(t *testing.T, username, plain string, role domain.Role, nik string) *models.User {
	t.Helper()
	hashed, err := password.Hash(plain)
	require.NoError(t, err)
	u := &models.User{Username: username, Password: hashed, Nama: username, Role: role, NIK: nik}
	require.NoError(t, f.users.Create(context.Background(), u))
	return u
}

func (f *fixture) createLetterType(t *testing.T, nama, kode string, aktif bool) *models.JenisSurat {
	t.Helper()
	lt := &models.JenisSurat{Nama: nama, Kode: kode, JenisForm: domain.FormGeneral, Aktif: aktif}
	require.NoError(t, f.letterTypes.Create(context.Background(), lt))
	return lt
}

// recordingRemover records asset deletions and optionally fails them
type recordingRemover struct {
	urls []string
	err  error
}

func (r *recordingRemover) DeleteByURL(ctx context.Context, url string) error {
	r.urls = append(r.urls, url)
	return r.err
}
