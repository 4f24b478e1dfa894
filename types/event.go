package types

import "time"

// Event represents a club event managed by admins.
type Event struct {
	// ID is the unique identifier of the event.
	ID int `json:"id" db:"id"`

	// Title is the event name.
	Title string `json:"title" db:"title"`

	// Description contains the event details.
	Description string `json:"description" db:"description"`

	// Date is the calendar day of the event, in YYYY-MM-DD form.
	Date string `json:"date" db:"date"`

	// Time is the start time of the event, in HH:MM form.
	Time string `json:"time" db:"time"`

	// Location is where the event takes place.
	Location string `json:"location" db:"location"`

	// PosterURL optionally points at the uploaded poster image in object
	// storage.
	PosterURL string `json:"poster_url,omitempty" db:"poster_url"`

	// CreatedAt is the timestamp when the event was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// StartsAt combines Date and Time into a wall-clock instant in loc.
// A missing or malformed time component counts as midnight.
func (e Event) StartsAt(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	if t, err := time.ParseInLocation("2006-01-02 15:04", e.Date+" "+e.Time, loc); err == nil {
		return t
	}
	t, err := time.ParseInLocation("2006-01-02", e.Date, loc)
	if err != nil {
		return time.Time{}
	}
	return t
}

// RSVPStatus represents a member's reply to an event.
type RSVPStatus string

// Supported RSVP replies.
const (
	RSVPGoing      RSVPStatus = "going"
	RSVPNotGoing   RSVPStatus = "not going"
	RSVPInterested RSVPStatus = "interested"
)

// Valid reports whether s is one of the supported RSVP replies.
func (s RSVPStatus) Valid() bool {
	switch s {
	case RSVPGoing, RSVPNotGoing, RSVPInterested:
		return true
	}
	return false
}

// RSVP represents a member's reply to an event. At most one row exists per
// (event, user) pair; later replies update the row in place.
type RSVP struct {
	ID        int        `json:"id" db:"id"`
	EventID   int        `json:"event_id" db:"event_id"`
	UserID    string     `json:"user_id" db:"user_id"`
	Status    RSVPStatus `json:"status" db:"status"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

// RSVPSummary aggregates the replies for one event, for the admin view.
type RSVPSummary struct {
	EventID    int `json:"event_id"`
	Going      int `json:"going"`
	Interested int `json:"interested"`
	NotGoing   int `json:"not_going"`
	Total      int `json:"total"`
}
