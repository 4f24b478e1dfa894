package services

import (
	"context"
	"fmt"
	"time"

	"github.com/falak-club/apiserver/types"
)

// RSVPRepository defines persistence operations for event replies.
type RSVPRepository interface {
	GetByEventAndUser(ctx context.Context, eventID int, userID string) (types.RSVP, error)
	ListByUser(ctx context.Context, userID string) ([]types.RSVP, error)
	Upsert(ctx context.Context, eventID int, userID string, status types.RSVPStatus) (types.RSVP, error)
}

// EventGetter is the slice of EventRepository the RSVP manager needs.
type EventGetter interface {
	Get(ctx context.Context, id int) (types.Event, error)
}

// RSVPService encapsulates the member-facing reply flow. Replies may flip
// any number of times, but only until the event starts.
type RSVPService struct {
	repo   RSVPRepository
	events EventGetter
	now    func() time.Time
}

func NewRSVPService(repo RSVPRepository, events EventGetter) *RSVPService {
	return &RSVPService{repo: repo, events: events, now: time.Now}
}

// Reply records the caller's reply for an event, replacing any prior one.
func (s *RSVPService) Reply(ctx context.Context, eventID int, userID string, status types.RSVPStatus) (types.RSVP, error) {
	if !status.Valid() {
		return types.RSVP{}, fmt.Errorf("%w: unknown rsvp status %q", ErrInvalidInput, status)
	}

	event, err := s.events.Get(ctx, eventID)
	if err != nil {
		return types.RSVP{}, err
	}
	if starts := event.StartsAt(time.Local); !starts.IsZero() && !s.now().Before(starts) {
		return types.RSVP{}, ErrEventClosed
	}

	return s.repo.Upsert(ctx, eventID, userID, status)
}

// ForUser returns the caller's replies keyed by event id, for rendering
// the upcoming-events view.
func (s *RSVPService) ForUser(ctx context.Context, userID string) (map[int]types.RSVP, error) {
	rsvps, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	byEvent := make(map[int]types.RSVP, len(rsvps))
	for _, rsvp := range rsvps {
		byEvent[rsvp.EventID] = rsvp
	}
	return byEvent, nil
}
