package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/falak-club/apiserver/types"
)

// EventRepository defines persistence operations for events.
type EventRepository interface {
	Get(ctx context.Context, id int) (types.Event, error)
	List(ctx context.Context) ([]types.Event, error)
	Create(ctx context.Context, event types.Event) (types.Event, error)
	Update(ctx context.Context, event types.Event) (types.Event, error)
	Delete(ctx context.Context, id int) error
	RSVPSummary(ctx context.Context, eventID int) (types.RSVPSummary, error)
}

// EventService encapsulates event management use-cases. Creation, edits,
// and deletion are admin operations; the gate lives in the handler layer.
type EventService struct {
	repo EventRepository
	now  func() time.Time
}

func NewEventService(repo EventRepository) *EventService {
	return &EventService{repo: repo, now: time.Now}
}

func (s *EventService) Get(ctx context.Context, id int) (types.Event, error) {
	return s.repo.Get(ctx, id)
}

func (s *EventService) List(ctx context.Context) ([]types.Event, error) {
	return s.repo.List(ctx)
}

// Upcoming returns events scheduled for today or later, soonest first.
func (s *EventService) Upcoming(ctx context.Context) ([]types.Event, error) {
	events, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	today := s.now().Format("2006-01-02")
	upcoming := make([]types.Event, 0, len(events))
	for _, event := range events {
		// Date is YYYY-MM-DD, so string order is date order.
		if event.Date >= today {
			upcoming = append(upcoming, event)
		}
	}
	return upcoming, nil
}

func (s *EventService) Create(ctx context.Context, event types.Event) (types.Event, error) {
	if err := validateEvent(&event); err != nil {
		return types.Event{}, err
	}
	return s.repo.Create(ctx, event)
}

func (s *EventService) Update(ctx context.Context, event types.Event) (types.Event, error) {
	if err := validateEvent(&event); err != nil {
		return types.Event{}, err
	}
	return s.repo.Update(ctx, event)
}

func (s *EventService) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}

// RSVPSummary aggregates replies for the admin view of one event.
func (s *EventService) RSVPSummary(ctx context.Context, eventID int) (types.RSVPSummary, error) {
	if _, err := s.repo.Get(ctx, eventID); err != nil {
		return types.RSVPSummary{}, err
	}
	return s.repo.RSVPSummary(ctx, eventID)
}

func validateEvent(event *types.Event) error {
	event.Title = strings.TrimSpace(event.Title)
	event.Description = strings.TrimSpace(event.Description)
	event.Date = strings.TrimSpace(event.Date)
	event.Time = strings.TrimSpace(event.Time)
	event.Location = strings.TrimSpace(event.Location)

	if event.Title == "" || event.Description == "" || event.Date == "" {
		return fmt.Errorf("%w: title, description, and date are required", ErrInvalidInput)
	}
	if _, err := time.Parse("2006-01-02", event.Date); err != nil {
		return fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
	}
	if event.Time != "" {
		if _, err := time.Parse("15:04", event.Time); err != nil {
			return fmt.Errorf("%w: time must be HH:MM", ErrInvalidInput)
		}
	}
	return nil
}
