package services

import (
	"context"
	"testing"
	"time"

	"github.com/falak-club/apiserver/types"
	"github.com/stretchr/testify/require"
)

func newRSVPFixture(t *testing.T, eventDate string) (*RSVPService, *fakeRSVPRepo, int) {
	t.Helper()
	events := newFakeEventRepo()
	event, err := events.Create(context.Background(), types.Event{
		Title: "Hack Night", Date: eventDate, Time: "18:00",
	})
	require.NoError(t, err)

	repo := newFakeRSVPRepo()
	return NewRSVPService(repo, events), repo, event.ID
}

func futureDate() string {
	return time.Now().AddDate(0, 0, 7).Format("2006-01-02")
}

func TestReplyInsertsThenUpdates(t *testing.T) {
	svc, repo, eventID := newRSVPFixture(t, futureDate())

	first, err := svc.Reply(context.Background(), eventID, "id-1", types.RSVPInterested)
	require.NoError(t, err)
	require.Equal(t, types.RSVPInterested, first.Status)

	second, err := svc.Reply(context.Background(), eventID, "id-1", types.RSVPGoing)
	require.NoError(t, err)
	require.Equal(t, types.RSVPGoing, second.Status)
	require.Equal(t, first.ID, second.ID)
	require.Len(t, repo.rows, 1)
}

func TestReplyLastCallWins(t *testing.T) {
	svc, repo, eventID := newRSVPFixture(t, futureDate())

	sequence := []types.RSVPStatus{
		types.RSVPGoing, types.RSVPNotGoing, types.RSVPInterested, types.RSVPGoing,
	}
	for _, status := range sequence {
		_, err := svc.Reply(context.Background(), eventID, "id-1", status)
		require.NoError(t, err)
	}

	require.Len(t, repo.rows, 1)
	saved, err := repo.GetByEventAndUser(context.Background(), eventID, "id-1")
	require.NoError(t, err)
	require.Equal(t, types.RSVPGoing, saved.Status)
}

func TestReplyRejectsUnknownStatus(t *testing.T) {
	svc, _, eventID := newRSVPFixture(t, futureDate())

	_, err := svc.Reply(context.Background(), eventID, "id-1", types.RSVPStatus("maybe"))
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestReplyClosedAfterEventStarts(t *testing.T) {
	svc, _, eventID := newRSVPFixture(t, "2026-01-15")
	svc.now = func() time.Time {
		return time.Date(2026, 1, 15, 19, 0, 0, 0, time.Local)
	}

	_, err := svc.Reply(context.Background(), eventID, "id-1", types.RSVPGoing)
	require.ErrorIs(t, err, ErrEventClosed)
}

func TestReplyOpenBeforeEventStarts(t *testing.T) {
	svc, _, eventID := newRSVPFixture(t, "2026-01-15")
	svc.now = func() time.Time {
		return time.Date(2026, 1, 15, 17, 0, 0, 0, time.Local)
	}

	_, err := svc.Reply(context.Background(), eventID, "id-1", types.RSVPGoing)
	require.NoError(t, err)
}

func TestReplyUnknownEvent(t *testing.T) {
	svc, _, _ := newRSVPFixture(t, futureDate())

	_, err := svc.Reply(context.Background(), 999, "id-1", types.RSVPGoing)
	require.Error(t, err)
}

func TestForUserKeyedByEvent(t *testing.T) {
	events := newFakeEventRepo()
	first, _ := events.Create(context.Background(), types.Event{Title: "A", Date: futureDate()})
	second, _ := events.Create(context.Background(), types.Event{Title: "B", Date: futureDate()})

	repo := newFakeRSVPRepo()
	svc := NewRSVPService(repo, events)

	_, err := svc.Reply(context.Background(), first.ID, "id-1", types.RSVPGoing)
	require.NoError(t, err)
	_, err = svc.Reply(context.Background(), second.ID, "id-1", types.RSVPInterested)
	require.NoError(t, err)

	byEvent, err := svc.ForUser(context.Background(), "id-1")
	require.NoError(t, err)
	require.Len(t, byEvent, 2)
	require.Equal(t, types.RSVPGoing, byEvent[first.ID].Status)
	require.Equal(t, types.RSVPInterested, byEvent[second.ID].Status)
}
