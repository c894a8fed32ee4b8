package repositories

import (
	"context"

	"desaku-api/internal/adapters/persistence/models"
	"desaku-api/internal/core/domain"

	"gorm.io/gorm"
)

// userRepository implements UserRepository interface
type userRepository struct {
	*CRUDRepository[models.User]
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{CRUDRepository: NewCRUDRepository[models.User](db)}
}

// GetByUsername gets a user by username
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.FindOne(ctx, "username", username)
}

// GetByNIK gets the first account registered with a NIK
func (r *userRepository) GetByNIK(ctx context.Context, nik string) (*models.User, error) {
	if nik == "" {
		return nil, domain.ErrNotFound
	}
	return r.FindOne(ctx, "nik", nik)
}

// ExistsByUsername checks if username exists
func (r *userRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.Exists(ctx, "username", username, "")
}

// CountAdmins counts administrator accounts
func (r *userRepository) CountAdmins(ctx context.Context) (int64, error) {
	return r.Count(ctx, map[string]any{"role": domain.RoleAdmin})
}
