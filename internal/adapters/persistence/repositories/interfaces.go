package repositories

import (
	"context"
	"time"

	"desaku-api/internal/adapters/persistence/models"
	"desaku-api/internal/core/domain"
)

// Repository defines the data access every record kind supports
type Repository[T any] interface {
	List(ctx context.Context, opts ListOptions) ([]*T, int64, error)
	GetByID(ctx context.Context, id string) (*T, error)
	FindOne(ctx context.Context, column string, value any) (*T, error)
	Create(ctx context.Context, record *T) error
	Save(ctx context.Context, record *T) error
	Delete(ctx context.Context, id string) error
	Exists(ctx context.Context, column string, value any, excludeID string) (bool, error)
	Count(ctx context.Context, filters map[string]any) (int64, error)
}

// UserRepository defines user repository interface
type UserRepository interface {
	Repository[models.User]
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByNIK(ctx context.Context, nik string) (*models.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	CountAdmins(ctx context.Context) (int64, error)
}

// ApplicationRepository defines letter application repository interface
type ApplicationRepository interface {
	Repository[models.PengajuanSurat]
	ListByNIK(ctx context.Context, nik string) ([]*models.PengajuanSurat, error)
	CountByStatus(ctx context.Context) (map[domain.ApplicationStatus]int64, error)
	CountPendingBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
