package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/falak-club/apiserver/internal/identity"
	"github.com/falak-club/apiserver/internal/store"
	"github.com/falak-club/apiserver/types"
)

// AdminRepository defines persistence operations for admin accounts.
type AdminRepository interface {
	GetByID(ctx context.Context, id string) (types.Admin, error)
	List(ctx context.Context) ([]types.Admin, error)
	Create(ctx context.Context, admin types.Admin) (types.Admin, error)
	Update(ctx context.Context, admin types.Admin) (types.Admin, error)
	Delete(ctx context.Context, id string) error
}

// AdminService encapsulates admin-account management. Every operation is
// superadmin-only; the gate lives in the handler layer.
type AdminService struct {
	repo       AdminRepository
	identities identity.Provider
}

func NewAdminService(repo AdminRepository, identities identity.Provider) *AdminService {
	return &AdminService{repo: repo, identities: identities}
}

func (s *AdminService) GetByID(ctx context.Context, id string) (types.Admin, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *AdminService) List(ctx context.Context) ([]types.Admin, error) {
	return s.repo.List(ctx)
}

// Create grants a role to an existing account. The target email must
// already belong to an identity; granting to an id that already has an
// admin row is a conflict, surfaced distinctly so callers can say
// "already an admin" instead of a generic failure.
func (s *AdminService) Create(ctx context.Context, email string, role types.AdminRole) (types.Admin, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return types.Admin{}, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	if !role.Valid() {
		return types.Admin{}, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, role)
	}

	account, err := s.identities.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.Admin{}, ErrIdentityNotFound
		}
		return types.Admin{}, err
	}

	created, err := s.repo.Create(ctx, types.Admin{
		ID:    account.ID,
		Email: email,
		Role:  role,
	})
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			return types.Admin{}, ErrAlreadyAdmin
		}
		return types.Admin{}, err
	}
	return created, nil
}

func (s *AdminService) Update(ctx context.Context, id string, email string, role types.AdminRole) (types.Admin, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return types.Admin{}, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	if !role.Valid() {
		return types.Admin{}, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, role)
	}
	return s.repo.Update(ctx, types.Admin{ID: id, Email: email, Role: role})
}

func (s *AdminService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
