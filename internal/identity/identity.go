// Package identity implements the identity-provider contract the rest of
// the system consumes: credential sign-up/sign-in and account lookup.
// Directory rows reference identity accounts by their opaque id; nothing
// outside this package touches credentials.
package identity

import (
	"context"
	"errors"
	"strings"

	"github.com/falak-club/apiserver/internal/store"
	"github.com/falak-club/apiserver/types"
	"github.com/rs/xid"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned when the email/password pair does not
// match an account.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrEmailTaken is returned when signing up with an email that already has
// an account.
var ErrEmailTaken = errors.New("email already registered")

// Provider defines the identity operations consumed by the application.
type Provider interface {
	SignUp(ctx context.Context, email, password, name string) (types.Identity, error)
	SignInWithPassword(ctx context.Context, email, password string) (types.Identity, error)
	GetByID(ctx context.Context, id string) (types.Identity, error)
	GetByEmail(ctx context.Context, email string) (types.Identity, error)
}

// Repository defines the persistence operations PasswordProvider needs.
type Repository interface {
	GetByID(ctx context.Context, id string) (types.Identity, error)
	GetByEmail(ctx context.Context, email string) (types.Identity, error)
	Create(ctx context.Context, identity types.Identity) (types.Identity, error)
}

// PasswordProvider is a Provider backed by bcrypt-hashed credentials in
// the identities table.
type PasswordProvider struct {
	repo Repository
}

func NewPasswordProvider(repo Repository) *PasswordProvider {
	return &PasswordProvider{repo: repo}
}

// SignUp creates an account with a fresh opaque id.
func (p *PasswordProvider) SignUp(ctx context.Context, email, password, name string) (types.Identity, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return types.Identity{}, ErrInvalidCredentials
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return types.Identity{}, err
	}

	created, err := p.repo.Create(ctx, types.Identity{
		ID:           xid.New().String(),
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: string(hashed),
	})
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			return types.Identity{}, ErrEmailTaken
		}
		return types.Identity{}, err
	}
	return created, nil
}

// SignInWithPassword verifies the credential pair.
func (p *PasswordProvider) SignInWithPassword(ctx context.Context, email, password string) (types.Identity, error) {
	account, err := p.repo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.Identity{}, ErrInvalidCredentials
		}
		return types.Identity{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return types.Identity{}, ErrInvalidCredentials
	}
	return account, nil
}

func (p *PasswordProvider) GetByID(ctx context.Context, id string) (types.Identity, error) {
	return p.repo.GetByID(ctx, id)
}

func (p *PasswordProvider) GetByEmail(ctx context.Context, email string) (types.Identity, error) {
	return p.repo.GetByEmail(ctx, email)
}
