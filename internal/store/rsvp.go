package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/falak-club/apiserver/types"
)

// RSVPRepository handles persistence for event replies. The event_rsvps
// table carries a unique constraint on (event_id, user_id); at most one row
// may exist per pair.
type RSVPRepository struct {
	db *sql.DB
}

func NewRSVPRepository(db *sql.DB) *RSVPRepository {
	return &RSVPRepository{db: db}
}

func (r *RSVPRepository) GetByEventAndUser(ctx context.Context, eventID int, userID string) (types.RSVP, error) {
	const query = `
		SELECT id, event_id, user_id, status, created_at
		FROM event_rsvps
		WHERE event_id = $1 AND user_id = $2`
	var rsvp types.RSVP
	err := r.db.QueryRowContext(ctx, query, eventID, userID).Scan(
		&rsvp.ID,
		&rsvp.EventID,
		&rsvp.UserID,
		&rsvp.Status,
		&rsvp.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.RSVP{}, ErrNotFound
		}
		return types.RSVP{}, err
	}
	return rsvp, nil
}

func (r *RSVPRepository) ListByUser(ctx context.Context, userID string) ([]types.RSVP, error) {
	const query = `
		SELECT id, event_id, user_id, status, created_at
		FROM event_rsvps
		WHERE user_id = $1`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rsvps []types.RSVP
	for rows.Next() {
		var rsvp types.RSVP
		if err := rows.Scan(&rsvp.ID, &rsvp.EventID, &rsvp.UserID, &rsvp.Status, &rsvp.CreatedAt); err != nil {
			return nil, err
		}
		rsvps = append(rsvps, rsvp)
	}
	return rsvps, rows.Err()
}

// Upsert records a reply for (eventID, userID): update in place when a row
// already exists, insert otherwise. A unique-violation on the insert means
// another caller won the race for the first row, so the write switches
// back to an update rather than surfacing the conflict.
func (r *RSVPRepository) Upsert(ctx context.Context, eventID int, userID string, status types.RSVPStatus) (types.RSVP, error) {
	updated, err := r.updateStatus(ctx, eventID, userID, status)
	if err != nil {
		return types.RSVP{}, err
	}
	if updated {
		return r.GetByEventAndUser(ctx, eventID, userID)
	}

	rsvp := types.RSVP{
		EventID:   eventID,
		UserID:    userID,
		Status:    status,
		CreatedAt: time.Now(),
	}
	const insertQuery = `
		INSERT INTO event_rsvps (event_id, user_id, status, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	err = r.db.QueryRowContext(ctx, insertQuery, eventID, userID, status, rsvp.CreatedAt).Scan(&rsvp.ID)
	if err == nil {
		return rsvp, nil
	}
	if !isUniqueViolation(err) {
		return types.RSVP{}, err
	}

	if _, err := r.updateStatus(ctx, eventID, userID, status); err != nil {
		return types.RSVP{}, err
	}
	return r.GetByEventAndUser(ctx, eventID, userID)
}

func (r *RSVPRepository) updateStatus(ctx context.Context, eventID int, userID string, status types.RSVPStatus) (bool, error) {
	const query = `
		UPDATE event_rsvps
		SET status = $1
		WHERE event_id = $2 AND user_id = $3`
	result, err := r.db.ExecContext(ctx, query, status, eventID, userID)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
