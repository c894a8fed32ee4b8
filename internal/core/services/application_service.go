package services

import (
	"context"
	"errors"
	"log"
	"time"

	"desaku-api/internal/adapters/persistence/models"
	"desaku-api/internal/adapters/persistence/repositories"
	"desaku-api/internal/core/domain"
	"desaku-api/internal/pkg/validation"
)

// LetterTypeRef is the summary of a letter type attached to an application
type LetterTypeRef struct {
	ID   string `json:"id"`
	Nama string `json:"nama"`
	Kode string `json:"kode"`
}

// ApplicationView is an application with its resolved letter type, when found
type ApplicationView struct {
	*models.PengajuanSurat
	JenisSuratDetail *LetterTypeRef `json:"jenisSuratDetail,omitempty"`
}

// ApplicationService handles the letter application workflow
type ApplicationService struct {
	*ContentService[models.PengajuanSurat, *models.PengajuanSurat]
	apps        repositories.ApplicationRepository
	letterTypes repositories.Repository[models.JenisSurat]
	users       *UserService
	now         func() time.Time
}

// NewApplicationService creates a new application service
func NewApplicationService(
	apps repositories.ApplicationRepository,
	letterTypes repositories.Repository[models.JenisSurat],
	users *UserService,
	assets AssetRemover,
) *ApplicationService {
	return &ApplicationService{
		ContentService: NewContentService[models.PengajuanSurat](apps, PengajuanSuratResource(), assets),
		apps:           apps,
		letterTypes:    letterTypes,
		users:          users,
		now:            time.Now,
	}
}

// Submit files a public application. Status and submission time are always set here.
func (s *ApplicationService) Submit(ctx context.Context, body []byte) (*models.PengajuanSurat, error) {
	app := &models.PengajuanSurat{}
	if err := decode(body, app); err != nil {
		return nil, err
	}

	app.Base = models.Base{}
	app.Status = domain.StatusPending
	app.TanggalPengajuan = s.now()
	app.CatatanAdmin = ""

	if err := validation.Struct(app); err != nil {
		return nil, err
	}

	letterType, err := s.letterTypes.GetByID(ctx, app.JenisSurat)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewValidationError("jenisSurat", "jenisSurat refers to an unknown letter type")
		}
		return nil, err
	}
	if !letterType.Aktif {
		return nil, domain.NewValidationError("jenisSurat", "jenisSurat refers to an inactive letter type")
	}

	if err := s.apps.Create(ctx, app); err != nil {
		return nil, err
	}
	log.Printf("📨 Application submitted: %s (%s)", app.ID, letterType.Kode)

	if s.users != nil {
		if _, _, err := s.users.EnsureResident(ctx, app.NIK, app.Nama, app.TeleponWA); err != nil {
			log.Printf("⚠️ Failed to ensure resident account for NIK %s: %v", app.NIK, err)
		}
	}

	return app, nil
}

// ListMine lists the applications filed under the caller's registered NIK
func (s *ApplicationService) ListMine(ctx context.Context, identity *domain.Identity) ([]*ApplicationView, error) {
	views := []*ApplicationView{}

	user, err := s.users.GetUserByID(ctx, identity.ID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return views, nil
		}
		return nil, err
	}
	if user.NIK == "" {
		return views, nil
	}

	apps, err := s.apps.ListByNIK(ctx, user.NIK)
	if err != nil {
		return nil, err
	}

	resolved := make(map[string]*LetterTypeRef)
	for _, app := range apps {
		ref, seen := resolved[app.JenisSurat]
		if !seen {
			ref, err = s.resolveLetterType(ctx, app.JenisSurat)
			if err != nil {
				return nil, err
			}
			resolved[app.JenisSurat] = ref
		}
		views = append(views, &ApplicationView{PengajuanSurat: app, JenisSuratDetail: ref})
	}

	return views, nil
}

// resolveLetterType returns nil without error when the letter type no longer exists
func (s *ApplicationService) resolveLetterType(ctx context.Context, id string) (*LetterTypeRef, error) {
	letterType, err := s.letterTypes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &LetterTypeRef{ID: letterType.ID, Nama: letterType.Nama, Kode: letterType.Kode}, nil
}

// CountByStatus counts applications per status
func (s *ApplicationService) CountByStatus(ctx context.Context) (map[domain.ApplicationStatus]int64, error) {
	return s.apps.CountByStatus(ctx)
}
