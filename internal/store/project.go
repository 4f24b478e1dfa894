package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/falak-club/apiserver/types"
)

// ProjectRepository handles persistence for projects.
type ProjectRepository struct {
	db *sql.DB
}

func NewProjectRepository(db *sql.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) Get(ctx context.Context, id int) (types.Project, error) {
	const query = `
		SELECT id, title, description, github_link, demo_link, thumbnail_url, submitted_by, status, created_at
		FROM projects
		WHERE id = $1`
	var project types.Project
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&project.ID,
		&project.Title,
		&project.Description,
		&project.GithubLink,
		&project.DemoLink,
		&project.ThumbnailURL,
		&project.SubmittedBy,
		&project.Status,
		&project.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Project{}, ErrNotFound
		}
		return types.Project{}, err
	}
	return project, nil
}

// List returns all projects, newest first. Pass a status to filter; the
// zero value returns every row.
func (r *ProjectRepository) List(ctx context.Context, status types.ApprovalStatus) ([]types.Project, error) {
	const baseQuery = `
		SELECT id, title, description, github_link, demo_link, thumbnail_url, submitted_by, status, created_at
		FROM projects`

	var (
		rows *sql.Rows
		err  error
	)
	if status == "" {
		rows, err = r.db.QueryContext(ctx, baseQuery+` ORDER BY created_at DESC`)
	} else {
		rows, err = r.db.QueryContext(ctx, baseQuery+` WHERE status = $1 ORDER BY created_at DESC`, status)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []types.Project
	for rows.Next() {
		var project types.Project
		if err := rows.Scan(
			&project.ID,
			&project.Title,
			&project.Description,
			&project.GithubLink,
			&project.DemoLink,
			&project.ThumbnailURL,
			&project.SubmittedBy,
			&project.Status,
			&project.CreatedAt,
		); err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}
	return projects, rows.Err()
}

func (r *ProjectRepository) ListByUser(ctx context.Context, userID string) ([]types.Project, error) {
	const query = `
		SELECT id, title, description, github_link, demo_link, thumbnail_url, submitted_by, status, created_at
		FROM projects
		WHERE submitted_by = $1
		ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []types.Project
	for rows.Next() {
		var project types.Project
		if err := rows.Scan(
			&project.ID,
			&project.Title,
			&project.Description,
			&project.GithubLink,
			&project.DemoLink,
			&project.ThumbnailURL,
			&project.SubmittedBy,
			&project.Status,
			&project.CreatedAt,
		); err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}
	return projects, rows.Err()
}

func (r *ProjectRepository) Create(ctx context.Context, project types.Project) (types.Project, error) {
	project.CreatedAt = time.Now()

	const query = `
		INSERT INTO projects (title, description, github_link, demo_link, thumbnail_url, submitted_by, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		project.Title,
		project.Description,
		project.GithubLink,
		project.DemoLink,
		project.ThumbnailURL,
		project.SubmittedBy,
		project.Status,
		project.CreatedAt,
	).Scan(&project.ID); err != nil {
		return types.Project{}, err
	}
	return project, nil
}

func (r *ProjectRepository) SetStatus(ctx context.Context, id int, status types.ApprovalStatus) error {
	const query = `UPDATE projects SET status = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, status, id)
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

func (r *ProjectRepository) Delete(ctx context.Context, id int) error {
	const query = `DELETE FROM projects WHERE id = $1`
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
