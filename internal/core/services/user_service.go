package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"desaku-api/internal/adapters/persistence/models"
	"desaku-api/internal/adapters/persistence/repositories"
	"desaku-api/internal/core/domain"
	"desaku-api/internal/pkg/pagination"
	"desaku-api/internal/pkg/password"
	"desaku-api/internal/pkg/validation"
)

// UserService handles user management business logic
type UserService struct {
	userRepo repositories.UserRepository
}

// NewUserService creates a new user service
func NewUserService(userRepo repositories.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// ListUsersInput represents list users input
type ListUsersInput struct {
	Search string
	Role   string
	Params *pagination.Params
}

// CreateUserInput represents create user input
type CreateUserInput struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required"`
	Nama     string `json:"nama" validate:"required,max=100"`
	Role     string `json:"role" validate:"required,oneof=admin resident"`
	Telepon  string `json:"telepon" validate:"omitempty,max=20"`
	NIK      string `json:"nik" validate:"omitempty,len=16,number"`
}

// UpdateUserInput represents update user input. Passwords change only through ResetPassword.
type UpdateUserInput struct {
	Nama    *string `json:"nama"`
	Role    *string `json:"role"`
	Telepon *string `json:"telepon"`
	NIK     *string `json:"nik"`
}

// ResetPasswordInput represents reset password input
type ResetPasswordInput struct {
	Password string `json:"password" validate:"required"`
}

// ListUsers lists users, optionally filtered by role and searched by username/nama/telepon
func (s *UserService) ListUsers(ctx context.Context, input *ListUsersInput) ([]*models.User, int64, error) {
	opts := repositories.ListOptions{
		Search:        input.Search,
		SearchColumns: []string{"username", "nama", "telepon"},
		Order:         "created_at DESC",
		Params:        input.Params,
	}
	if input.Role != "" {
		opts.Filters = map[string]any{"role": input.Role}
	}
	return s.userRepo.List(ctx, opts)
}

// GetUserByID gets a user by ID
func (s *UserService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// CreateUser creates an account with a hashed password
func (s *UserService) CreateUser(ctx context.Context, input *CreateUserInput) (*models.User, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	if err := checkPassword(input.Password); err != nil {
		return nil, err
	}

	exists, err := s.userRepo.ExistsByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrUserAlreadyExists
	}

	hashed, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username: input.Username,
		Password: hashed,
		Nama:     input.Nama,
		Role:     domain.Role(input.Role),
		Telepon:  input.Telepon,
		NIK:      input.NIK,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateEntry) {
			return nil, domain.ErrUserAlreadyExists
		}
		return nil, err
	}

	log.Printf("✅ User created: %s (%s)", user.Username, user.Role)
	return user, nil
}

// UpdateUser updates profile fields and role
func (s *UserService) UpdateUser(ctx context.Context, id string, input *UpdateUserInput) (*models.User, error) {
	user, err := s.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Nama != nil {
		user.Nama = *input.Nama
	}
	if input.Role != nil {
		role := domain.Role(*input.Role)
		if !role.Valid() {
			return nil, domain.NewValidationError("role", "role must be one of [admin resident]")
		}
		user.Role = role
	}
	if input.Telepon != nil {
		user.Telepon = *input.Telepon
	}
	if input.NIK != nil {
		user.NIK = *input.NIK
	}

	if err := validation.Struct(user); err != nil {
		return nil, err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser deletes an account. Admins cannot delete themselves.
func (s *UserService) DeleteUser(ctx context.Context, id, actorID string) error {
	if id == actorID {
		return domain.ErrCannotDeleteSelf
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}

	log.Printf("🗑️ User deleted: %s", id)
	return nil
}

// ResetPassword replaces a user's password
func (s *UserService) ResetPassword(ctx context.Context, id string, input *ResetPasswordInput) error {
	if err := validation.Struct(input); err != nil {
		return err
	}
	if err := checkPassword(input.Password); err != nil {
		return err
	}

	user, err := s.GetUserByID(ctx, id)
	if err != nil {
		return err
	}

	hashed, err := password.Hash(input.Password)
	if err != nil {
		return err
	}
	user.Password = hashed

	if err := s.userRepo.Save(ctx, user); err != nil {
		return err
	}

	log.Printf("🔑 Password reset for user: %s", user.Username)
	return nil
}

// EnsureResident returns the account registered with nik, creating a resident
// account (username = nik, password = phone) when none exists.
func (s *UserService) EnsureResident(ctx context.Context, nik, nama, telepon string) (*models.User, bool, error) {
	user, err := s.userRepo.GetByNIK(ctx, nik)
	if err == nil {
		return user, false, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, false, err
	}

	hashed, err := password.Hash(telepon)
	if err != nil {
		return nil, false, err
	}

	user = &models.User{
		Username:    nik,
		Password:    hashed,
		Nama:        nama,
		Role:        domain.RoleResident,
		Telepon:     telepon,
		NIK:         nik,
		AutoCreated: true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, false, err
	}

	log.Printf("✅ Resident account created for NIK %s", nik)
	return user, true, nil
}

func checkPassword(plain string) error {
	if !password.ValidatePassword(plain) {
		return domain.NewValidationError("password", fmt.Sprintf("password must be at least %d characters", password.MinLength))
	}
	return nil
}
