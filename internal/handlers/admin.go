package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/falak-club/apiserver/internal/services"
	"github.com/falak-club/apiserver/types"
	"github.com/go-chi/chi/v5"
)

// AdminHandler provides the back-office console: membership review,
// project review, event management, achievements, and admin accounts.
type AdminHandler struct {
	users        *services.UserService
	projects     *services.ProjectService
	events       *services.EventService
	achievements *services.AchievementService
	admins       *services.AdminService
	uploads      *Uploader
}

// NewAdminHandler constructs a handler with the provided dependencies.
func NewAdminHandler(
	users *services.UserService,
	projects *services.ProjectService,
	events *services.EventService,
	achievements *services.AchievementService,
	admins *services.AdminService,
	uploads *Uploader,
) *AdminHandler {
	return &AdminHandler{
		users:        users,
		projects:     projects,
		events:       events,
		achievements: achievements,
		admins:       admins,
		uploads:      uploads,
	}
}

// AdminRouter registers the console routes. Every route requires an admin
// role; admin-account management additionally requires superadmin.
func AdminRouter(r chi.Router, handler *AdminHandler, gate *Gate) {
	r.Use(gate.RequireAuth, gate.RequireAdmin)

	r.Route("/users", func(r chi.Router) {
		r.Get("/", handler.ListUsers)
		r.Post("/{userID}/approve", handler.ApproveUser)
		r.Post("/{userID}/reject", handler.RejectUser)
	})

	r.Route("/projects", func(r chi.Router) {
		r.Get("/", handler.ListProjects)
		r.Post("/{projectID}/approve", handler.ApproveProject)
		r.Post("/{projectID}/reject", handler.RejectProject)
		r.Delete("/{projectID}", handler.DeleteProject)
	})

	r.Route("/events", func(r chi.Router) {
		r.Get("/", handler.ListEvents)
		r.Post("/", handler.CreateEvent)
		r.Put("/{eventID}", handler.UpdateEvent)
		r.Delete("/{eventID}", handler.DeleteEvent)
		r.Get("/{eventID}/rsvps", handler.EventRSVPs)
	})

	r.Route("/achievements", func(r chi.Router) {
		r.Get("/", handler.ListAchievements)
		r.Post("/", handler.CreateAchievement)
		r.Put("/{achievementID}", handler.UpdateAchievement)
		r.Delete("/{achievementID}", handler.DeleteAchievement)
	})

	r.Route("/admins", func(r chi.Router) {
		r.Use(gate.RequireSuperadmin)
		r.Get("/", handler.ListAdmins)
		r.Post("/", handler.CreateAdmin)
		r.Put("/{adminID}", handler.UpdateAdmin)
		r.Delete("/{adminID}", handler.DeleteAdmin)
	})
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list users")
		return
	}
	if users == nil {
		users = []types.User{}
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *AdminHandler) ApproveUser(w http.ResponseWriter, r *http.Request) {
	h.setUserStatus(w, r, types.StatusApproved)
}

func (h *AdminHandler) RejectUser(w http.ResponseWriter, r *http.Request) {
	h.setUserStatus(w, r, types.StatusRejected)
}

func (h *AdminHandler) setUserStatus(w http.ResponseWriter, r *http.Request, status types.ApprovalStatus) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	if err := h.users.SetStatus(r.Context(), userID, status); err != nil {
		writeServiceError(w, err, "failed to update user")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projects.All(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list projects")
		return
	}
	if projects == nil {
		projects = []types.Project{}
	}
	writeJSON(w, http.StatusOK, projects)
}

func (h *AdminHandler) ApproveProject(w http.ResponseWriter, r *http.Request) {
	h.setProjectStatus(w, r, types.StatusApproved)
}

func (h *AdminHandler) RejectProject(w http.ResponseWriter, r *http.Request) {
	h.setProjectStatus(w, r, types.StatusRejected)
}

func (h *AdminHandler) setProjectStatus(w http.ResponseWriter, r *http.Request, status types.ApprovalStatus) {
	id, err := parseIDParam(r, "projectID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.projects.SetStatus(r.Context(), id, status); err != nil {
		writeServiceError(w, err, "failed to update project")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "projectID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.projects.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err, "failed to delete project")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.events.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list events")
		return
	}
	if events == nil {
		events = []types.Event{}
	}
	writeJSON(w, http.StatusOK, events)
}

// CreateEvent accepts a multipart event form with an optional poster
// image. The poster is uploaded before the row is written; a failed write
// discards the uploaded object.
func (h *AdminHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	event, posterKey, ok := h.parseEventForm(w, r)
	if !ok {
		return
	}

	created, err := h.events.Create(r.Context(), event)
	if err != nil {
		if posterKey != "" {
			h.uploads.Discard(r.Context(), posterKey)
		}
		writeServiceError(w, err, "failed to create event")
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (h *AdminHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "eventID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	existing, err := h.events.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "failed to update event")
		return
	}

	event, posterKey, ok := h.parseEventForm(w, r)
	if !ok {
		return
	}
	event.ID = id
	if event.PosterURL == "" {
		event.PosterURL = existing.PosterURL
	}

	updated, err := h.events.Update(r.Context(), event)
	if err != nil {
		if posterKey != "" {
			h.uploads.Discard(r.Context(), posterKey)
		}
		writeServiceError(w, err, "failed to update event")
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (h *AdminHandler) parseEventForm(w http.ResponseWriter, r *http.Request) (types.Event, string, bool) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return types.Event{}, "", false
	}

	event := types.Event{
		Title:       strings.TrimSpace(r.FormValue("title")),
		Description: strings.TrimSpace(r.FormValue("description")),
		Date:        strings.TrimSpace(r.FormValue("date")),
		Time:        strings.TrimSpace(r.FormValue("time")),
		Location:    strings.TrimSpace(r.FormValue("location")),
	}

	poster, err := parseImageFile(r.MultipartForm, "poster")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return types.Event{}, "", false
	}

	posterKey := ""
	if poster.Data != nil {
		key, url, err := h.uploads.Put(r.Context(), "event-images", poster)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to upload poster")
			return types.Event{}, "", false
		}
		posterKey = key
		event.PosterURL = url
	}

	return event, posterKey, true
}

func (h *AdminHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "eventID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.events.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err, "failed to delete event")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) EventRSVPs(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "eventID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	summary, err := h.events.RSVPSummary(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "failed to fetch rsvp summary")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *AdminHandler) ListAchievements(w http.ResponseWriter, r *http.Request) {
	achievements, err := h.achievements.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list achievements")
		return
	}
	if achievements == nil {
		achievements = []types.Achievement{}
	}
	writeJSON(w, http.StatusOK, achievements)
}

type AchievementRequest struct {
	UserID      string `json:"user_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (h *AdminHandler) CreateAchievement(w http.ResponseWriter, r *http.Request) {
	var req AchievementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	created, err := h.achievements.Create(r.Context(), types.Achievement{
		UserID:      req.UserID,
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		writeServiceError(w, err, "failed to create achievement")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *AdminHandler) UpdateAchievement(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "achievementID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req AchievementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	updated, err := h.achievements.Update(r.Context(), types.Achievement{
		ID:          id,
		UserID:      req.UserID,
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		writeServiceError(w, err, "failed to update achievement")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *AdminHandler) DeleteAchievement(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "achievementID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.achievements.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err, "failed to delete achievement")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) ListAdmins(w http.ResponseWriter, r *http.Request) {
	admins, err := h.admins.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list admins")
		return
	}
	if admins == nil {
		admins = []types.Admin{}
	}
	writeJSON(w, http.StatusOK, admins)
}

type AdminUpsertRequest struct {
	Email string          `json:"email"`
	Role  types.AdminRole `json:"role"`
}

func (h *AdminHandler) CreateAdmin(w http.ResponseWriter, r *http.Request) {
	var req AdminUpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	created, err := h.admins.Create(r.Context(), req.Email, req.Role)
	if err != nil {
		writeServiceError(w, err, "failed to create admin")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *AdminHandler) UpdateAdmin(w http.ResponseWriter, r *http.Request) {
	adminID := chi.URLParam(r, "adminID")
	if adminID == "" {
		writeError(w, http.StatusBadRequest, "invalid admin id")
		return
	}

	var req AdminUpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	updated, err := h.admins.Update(r.Context(), adminID, req.Email, req.Role)
	if err != nil {
		writeServiceError(w, err, "failed to update admin")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *AdminHandler) DeleteAdmin(w http.ResponseWriter, r *http.Request) {
	adminID := chi.URLParam(r, "adminID")
	if adminID == "" {
		writeError(w, http.StatusBadRequest, "invalid admin id")
		return
	}

	if err := h.admins.Delete(r.Context(), adminID); err != nil {
		writeServiceError(w, err, "failed to delete admin")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
