package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/falak-club/apiserver/types"
)

// AchievementRepository handles persistence for achievements.
type AchievementRepository struct {
	db *sql.DB
}

func NewAchievementRepository(db *sql.DB) *AchievementRepository {
	return &AchievementRepository{db: db}
}

func (r *AchievementRepository) Get(ctx context.Context, id int) (types.Achievement, error) {
	const query = `
		SELECT id, user_id, title, description, created_at
		FROM achievements
		WHERE id = $1`
	var achievement types.Achievement
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&achievement.ID,
		&achievement.UserID,
		&achievement.Title,
		&achievement.Description,
		&achievement.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Achievement{}, ErrNotFound
		}
		return types.Achievement{}, err
	}
	return achievement, nil
}

func (r *AchievementRepository) List(ctx context.Context) ([]types.Achievement, error) {
	const query = `
		SELECT id, user_id, title, description, created_at
		FROM achievements
		ORDER BY created_at DESC`
	return r.query(ctx, query)
}

func (r *AchievementRepository) ListByUser(ctx context.Context, userID string) ([]types.Achievement, error) {
	const query = `
		SELECT id, user_id, title, description, created_at
		FROM achievements
		WHERE user_id = $1
		ORDER BY created_at DESC`
	return r.query(ctx, query, userID)
}

func (r *AchievementRepository) Create(ctx context.Context, achievement types.Achievement) (types.Achievement, error) {
	achievement.CreatedAt = time.Now()

	const query = `
		INSERT INTO achievements (user_id, title, description, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		achievement.UserID,
		achievement.Title,
		achievement.Description,
		achievement.CreatedAt,
	).Scan(&achievement.ID); err != nil {
		return types.Achievement{}, err
	}
	return achievement, nil
}

func (r *AchievementRepository) Update(ctx context.Context, achievement types.Achievement) (types.Achievement, error) {
	const query = `
		UPDATE achievements
		SET title = $1,
			description = $2
		WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, achievement.Title, achievement.Description, achievement.ID)
	if err != nil {
		return types.Achievement{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.Achievement{}, err
	}
	if affected == 0 {
		return types.Achievement{}, ErrNotFound
	}
	return achievement, nil
}

func (r *AchievementRepository) Delete(ctx context.Context, id int) error {
	const query = `DELETE FROM achievements WHERE id = $1`
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

func (r *AchievementRepository) query(ctx context.Context, query string, args ...any) ([]types.Achievement, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var achievements []types.Achievement
	for rows.Next() {
		var achievement types.Achievement
		if err := rows.Scan(
			&achievement.ID,
			&achievement.UserID,
			&achievement.Title,
			&achievement.Description,
			&achievement.CreatedAt,
		); err != nil {
			return nil, err
		}
		achievements = append(achievements, achievement)
	}
	return achievements, rows.Err()
}
