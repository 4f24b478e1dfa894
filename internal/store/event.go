package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/falak-club/apiserver/types"
)

// EventRepository handles persistence for events and their RSVP rollups.
type EventRepository struct {
	db *sql.DB
}

func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) Get(ctx context.Context, id int) (types.Event, error) {
	const query = `
		SELECT id, title, description, date, time, location, poster_url, created_at
		FROM events
		WHERE id = $1`
	var event types.Event
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&event.ID,
		&event.Title,
		&event.Description,
		&event.Date,
		&event.Time,
		&event.Location,
		&event.PosterURL,
		&event.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Event{}, ErrNotFound
		}
		return types.Event{}, err
	}
	return event, nil
}

func (r *EventRepository) List(ctx context.Context) ([]types.Event, error) {
	const query = `
		SELECT id, title, description, date, time, location, poster_url, created_at
		FROM events
		ORDER BY date, time`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []types.Event
	for rows.Next() {
		var event types.Event
		if err := rows.Scan(
			&event.ID,
			&event.Title,
			&event.Description,
			&event.Date,
			&event.Time,
			&event.Location,
			&event.PosterURL,
			&event.CreatedAt,
		); err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

func (r *EventRepository) Create(ctx context.Context, event types.Event) (types.Event, error) {
	event.CreatedAt = time.Now()

	const query = `
		INSERT INTO events (title, description, date, time, location, poster_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		event.Title,
		event.Description,
		event.Date,
		event.Time,
		event.Location,
		event.PosterURL,
		event.CreatedAt,
	).Scan(&event.ID); err != nil {
		return types.Event{}, err
	}
	return event, nil
}

func (r *EventRepository) Update(ctx context.Context, event types.Event) (types.Event, error) {
	const query = `
		UPDATE events
		SET title = $1,
			description = $2,
			date = $3,
			time = $4,
			location = $5,
			poster_url = $6
		WHERE id = $7`
	result, err := r.db.ExecContext(
		ctx,
		query,
		event.Title,
		event.Description,
		event.Date,
		event.Time,
		event.Location,
		event.PosterURL,
		event.ID,
	)
	if err != nil {
		return types.Event{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.Event{}, err
	}
	if affected == 0 {
		return types.Event{}, ErrNotFound
	}
	return event, nil
}

func (r *EventRepository) Delete(ctx context.Context, id int) error {
	const query = `DELETE FROM events WHERE id = $1`
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

// RSVPSummary aggregates the RSVP rows for one event on demand.
func (r *EventRepository) RSVPSummary(ctx context.Context, eventID int) (types.RSVPSummary, error) {
	const query = `
		SELECT status, COUNT(1)
		FROM event_rsvps
		WHERE event_id = $1
		GROUP BY status`
	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return types.RSVPSummary{}, err
	}
	defer rows.Close()

	summary := types.RSVPSummary{EventID: eventID}
	for rows.Next() {
		var status types.RSVPStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return types.RSVPSummary{}, err
		}
		switch status {
		case types.RSVPGoing:
			summary.Going = count
		case types.RSVPInterested:
			summary.Interested = count
		case types.RSVPNotGoing:
			summary.NotGoing = count
		}
		summary.Total += count
	}
	return summary, rows.Err()
}
