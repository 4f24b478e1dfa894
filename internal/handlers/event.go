package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/falak-club/apiserver/internal/services"
	"github.com/falak-club/apiserver/internal/store"
	"github.com/falak-club/apiserver/types"
	"github.com/go-chi/chi/v5"
)

// EventHandler provides HTTP handlers for the public event surface.
type EventHandler struct {
	events *services.EventService
	rsvps  *services.RSVPService
}

// NewEventHandler constructs a handler with the provided dependencies.
func NewEventHandler(events *services.EventService, rsvps *services.RSVPService) *EventHandler {
	return &EventHandler{events: events, rsvps: rsvps}
}

// EventRouter registers event routes on the given router.
func EventRouter(r chi.Router, events *services.EventService, rsvps *services.RSVPService, gate *Gate) {
	handler := NewEventHandler(events, rsvps)

	r.Get("/", handler.Upcoming)
	r.Get("/{eventID}", handler.Get)
	r.With(gate.RequireAuth, gate.RequireApproved).Post("/{eventID}/rsvp", handler.Reply)
}

// Upcoming lists events scheduled for today or later.
func (h *EventHandler) Upcoming(w http.ResponseWriter, r *http.Request) {
	events, err := h.events.Upcoming(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list events")
		return
	}
	if events == nil {
		events = []types.Event{}
	}
	writeJSON(w, http.StatusOK, events)
}

func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "eventID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	event, err := h.events.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "event not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch event")
		return
	}

	writeJSON(w, http.StatusOK, event)
}

type RSVPRequest struct {
	Status types.RSVPStatus `json:"status"`
}

// Reply records or replaces the caller's RSVP for an event.
func (h *EventHandler) Reply(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "eventID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	account, err := identityFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req RSVPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	rsvp, err := h.rsvps.Reply(r.Context(), id, account.ID, req.Status)
	if err != nil {
		writeServiceError(w, err, "failed to save rsvp")
		return
	}

	writeJSON(w, http.StatusOK, rsvp)
}
