package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/falak-club/apiserver/types"
)

// ProfileRepository handles persistence for member profiles. Skills are
// stored as a JSON array to keep their order.
type ProfileRepository struct {
	db *sql.DB
}

func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) GetByUser(ctx context.Context, userID string) (types.Profile, error) {
	const query = `
		SELECT user_id, profile_pic_url, bio, skills, github_link, linkedin_link, updated_at
		FROM profiles
		WHERE user_id = $1`
	var profile types.Profile
	var skillsJSON []byte
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&profile.UserID,
		&profile.ProfilePicURL,
		&profile.Bio,
		&skillsJSON,
		&profile.GithubLink,
		&profile.LinkedinLink,
		&profile.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Profile{}, ErrNotFound
		}
		return types.Profile{}, err
	}

	profile.Skills, err = decodeSkills(skillsJSON)
	if err != nil {
		return types.Profile{}, err
	}
	return profile, nil
}

func decodeSkills(data []byte) ([]string, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var skills []string
	if err := json.Unmarshal(data, &skills); err != nil {
		return nil, fmt.Errorf("decode skills: %w", err)
	}
	return skills, nil
}

// Upsert inserts or replaces the profile row keyed by user_id.
func (r *ProfileRepository) Upsert(ctx context.Context, profile types.Profile) (types.Profile, error) {
	profile.UpdatedAt = time.Now()

	skillsJSON, err := json.Marshal(profile.Skills)
	if err != nil {
		return types.Profile{}, err
	}

	const query = `
		INSERT INTO profiles (user_id, profile_pic_url, bio, skills, github_link, linkedin_link, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO UPDATE
		SET profile_pic_url = EXCLUDED.profile_pic_url,
			bio = EXCLUDED.bio,
			skills = EXCLUDED.skills,
			github_link = EXCLUDED.github_link,
			linkedin_link = EXCLUDED.linkedin_link,
			updated_at = EXCLUDED.updated_at`
	if _, err := r.db.ExecContext(
		ctx,
		query,
		profile.UserID,
		profile.ProfilePicURL,
		profile.Bio,
		skillsJSON,
		profile.GithubLink,
		profile.LinkedinLink,
		profile.UpdatedAt,
	); err != nil {
		return types.Profile{}, err
	}
	return profile, nil
}
