package services

import (
	"context"
	"errors"
	"log"
	"time"

	"desaku-api/internal/adapters/persistence/models"
	"desaku-api/internal/adapters/persistence/repositories"
	"desaku-api/internal/config"
	"desaku-api/internal/core/domain"
	"desaku-api/internal/pkg/jwt"
	"desaku-api/internal/pkg/password"
)

// Decision is the outcome of an access check
type Decision int

const (
	Authorized Decision = iota
	Unauthenticated
	Forbidden
)

func (d Decision) String() string {
	switch d {
	case Authorized:
		return "authorized"
	case Unauthenticated:
		return "unauthenticated"
	case Forbidden:
		return "forbidden"
	default:
		return "unknown"
	}
}

// AuthService handles authentication business logic
type AuthService struct {
	userRepo repositories.UserRepository
	secret   string
	lifetime time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo repositories.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		secret:   cfg.Session.Secret,
		lifetime: cfg.Session.MaxAge,
	}
}

// LoginInput represents login input
type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Session is an issued session token
type Session struct {
	Token     string           `json:"token"`
	ExpiresAt time.Time        `json:"expiresAt"`
	User      *domain.Identity `json:"user"`
}

// Authenticate checks credentials. Unknown usernames and wrong passwords are indistinguishable.
func (s *AuthService) Authenticate(ctx context.Context, username, plain string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	// MySQL collations compare case-insensitively
	if user.Username != username {
		return nil, domain.ErrInvalidCredentials
	}

	if !password.Verify(plain, user.Password) {
		return nil, domain.ErrInvalidCredentials
	}

	return user, nil
}

// Login authenticates and issues a session
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*Session, error) {
	user, err := s.Authenticate(ctx, input.Username, input.Password)
	if err != nil {
		return nil, err
	}

	session, err := s.IssueSession(user.Identity())
	if err != nil {
		return nil, err
	}

	log.Printf("✅ User logged in: %s", user.Username)
	return session, nil
}

// IssueSession signs a session token for identity
func (s *AuthService) IssueSession(identity *domain.Identity) (*Session, error) {
	token, err := jwt.GenerateSessionToken(identity.ID, identity.Username, string(identity.Role), s.secret, s.lifetime)
	if err != nil {
		return nil, err
	}
	return &Session{
		Token:     token,
		ExpiresAt: time.Now().Add(s.lifetime),
		User:      identity,
	}, nil
}

// ValidateSession verifies a session token and returns its identity
func (s *AuthService) ValidateSession(token string) (*domain.Identity, error) {
	claims, err := jwt.ValidateSessionToken(token, s.secret)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}

	role := domain.Role(claims.Role)
	if claims.UserID == "" || !role.Valid() {
		return nil, domain.ErrTokenInvalid
	}

	return &domain.Identity{
		ID:       claims.UserID,
		Username: claims.Username,
		Role:     role,
	}, nil
}

// Authorize validates token and compares its role with required.
// An empty required role accepts any valid session.
func (s *AuthService) Authorize(token string, required domain.Role) (Decision, *domain.Identity) {
	if token == "" {
		return Unauthenticated, nil
	}

	identity, err := s.ValidateSession(token)
	if err != nil {
		return Unauthenticated, nil
	}

	if required != "" && identity.Role != required {
		return Forbidden, identity
	}

	return Authorized, identity
}

// CurrentUser loads the account behind a session
func (s *AuthService) CurrentUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
