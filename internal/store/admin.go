package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/falak-club/apiserver/types"
)

// AdminRepository handles persistence for admin accounts.
type AdminRepository struct {
	db *sql.DB
}

func NewAdminRepository(db *sql.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

func (r *AdminRepository) GetByID(ctx context.Context, id string) (types.Admin, error) {
	const query = `
		SELECT id, email, role, created_at
		FROM admins
		WHERE id = $1`
	var admin types.Admin
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&admin.ID,
		&admin.Email,
		&admin.Role,
		&admin.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Admin{}, ErrNotFound
		}
		return types.Admin{}, err
	}
	return admin, nil
}

func (r *AdminRepository) List(ctx context.Context) ([]types.Admin, error) {
	const query = `
		SELECT id, email, role, created_at
		FROM admins
		ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var admins []types.Admin
	for rows.Next() {
		var admin types.Admin
		if err := rows.Scan(&admin.ID, &admin.Email, &admin.Role, &admin.CreatedAt); err != nil {
			return nil, err
		}
		admins = append(admins, admin)
	}
	return admins, rows.Err()
}

func (r *AdminRepository) Create(ctx context.Context, admin types.Admin) (types.Admin, error) {
	admin.CreatedAt = time.Now()

	const query = `
		INSERT INTO admins (id, email, role, created_at)
		VALUES ($1, $2, $3, $4)`
	_, err := r.db.ExecContext(ctx, query, admin.ID, admin.Email, admin.Role, admin.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return types.Admin{}, ErrConflict
		}
		return types.Admin{}, err
	}
	return admin, nil
}

func (r *AdminRepository) Update(ctx context.Context, admin types.Admin) (types.Admin, error) {
	const query = `
		UPDATE admins
		SET email = $1,
			role = $2
		WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, admin.Email, admin.Role, admin.ID)
	if err != nil {
		return types.Admin{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.Admin{}, err
	}
	if affected == 0 {
		return types.Admin{}, ErrNotFound
	}
	return admin, nil
}

func (r *AdminRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM admins WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
