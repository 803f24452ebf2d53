package auth

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/tradewind-bv/tradewind/internal/shared"
)

// Service wraps authentication business rules.
type Service struct {
	repo Repository
}

// NewService constructs a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Authenticate validates a name (and password, when the account has one).
func (s *Service) Authenticate(ctx context.Context, name, password string) (*WebUser, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.ErrInvalidCredentials
	}
	user, err := s.repo.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if user.PasswordHash != nil && *user.PasswordHash != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(password)); err != nil {
			return nil, shared.ErrInvalidCredentials
		}
	}
	return user, nil
}

// RegisterParams carries the registration form fields.
type RegisterParams struct {
	Name     string
	Email    string
	Role     string
	Password string
}

// Register creates a webuser, hashing the optional password.
func (s *Service) Register(ctx context.Context, params RegisterParams) (*WebUser, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, errors.New("name is required")
	}
	// Ad hoc existence check kept from the source system; the unique
	// constraint is the real guard.
	if _, err := s.repo.FindByName(ctx, name); err == nil {
		return nil, shared.ErrAlreadyExists
	}

	role := strings.TrimSpace(strings.ToLower(params.Role))
	switch role {
	case "viewer", "staff", "admin":
	default:
		role = "viewer"
	}

	user := WebUser{
		Name:  name,
		Email: strings.TrimSpace(params.Email),
		Role:  role,
	}
	if params.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		hashed := string(hash)
		user.PasswordHash = &hashed
	}
	return s.repo.Create(ctx, user)
}
