package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/falak-club/apiserver/types"
)

// IdentityRepository handles persistence for identity-provider accounts.
type IdentityRepository struct {
	db *sql.DB
}

func NewIdentityRepository(db *sql.DB) *IdentityRepository {
	return &IdentityRepository{db: db}
}

func (r *IdentityRepository) GetByID(ctx context.Context, id string) (types.Identity, error) {
	const query = `
		SELECT id, email, name, password_hash, created_at
		FROM identities
		WHERE id = $1`
	var identity types.Identity
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&identity.ID,
		&identity.Email,
		&identity.Name,
		&identity.PasswordHash,
		&identity.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Identity{}, ErrNotFound
		}
		return types.Identity{}, err
	}
	return identity, nil
}

func (r *IdentityRepository) GetByEmail(ctx context.Context, email string) (types.Identity, error) {
	const query = `
		SELECT id, email, name, password_hash, created_at
		FROM identities
		WHERE lower(email) = lower($1)`
	var identity types.Identity
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&identity.ID,
		&identity.Email,
		&identity.Name,
		&identity.PasswordHash,
		&identity.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Identity{}, ErrNotFound
		}
		return types.Identity{}, err
	}
	return identity, nil
}

func (r *IdentityRepository) Create(ctx context.Context, identity types.Identity) (types.Identity, error) {
	identity.CreatedAt = time.Now()

	const query = `
		INSERT INTO identities (id, email, name, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.ExecContext(
		ctx,
		query,
		identity.ID,
		identity.Email,
		identity.Name,
		identity.PasswordHash,
		identity.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return types.Identity{}, ErrConflict
		}
		return types.Identity{}, err
	}
	return identity, nil
}
