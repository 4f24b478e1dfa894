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

// ProfileHandler provides HTTP handlers for member profiles: the public
// profile page and the owner-only /me surface.
type ProfileHandler struct {
	users    *services.UserService
	profiles *services.ProfileService
	projects *services.ProjectService
	rsvps    *services.RSVPService
	uploads  *Uploader
}

// NewProfileHandler constructs a handler with the provided dependencies.
func NewProfileHandler(
	users *services.UserService,
	profiles *services.ProfileService,
	projects *services.ProjectService,
	rsvps *services.RSVPService,
	uploads *Uploader,
) *ProfileHandler {
	return &ProfileHandler{
		users:    users,
		profiles: profiles,
		projects: projects,
		rsvps:    rsvps,
		uploads:  uploads,
	}
}

// UserRouter registers the public member directory routes.
func UserRouter(r chi.Router, handler *ProfileHandler) {
	r.Get("/{userID}", handler.PublicProfile)
}

// MeRouter registers the owner-only routes. Every route requires auth;
// the join form is the one place a pending member can write.
func MeRouter(r chi.Router, handler *ProfileHandler, gate *Gate) {
	r.Use(gate.RequireAuth)

	r.Post("/join", handler.Join)
	r.Get("/profile", handler.MyProfile)
	r.Put("/profile", handler.UpsertProfile)
	r.Post("/profile/picture", handler.UploadPicture)
	r.Get("/projects", handler.MyProjects)
	r.Get("/rsvps", handler.MyRSVPs)
}

// PublicProfile returns the assembled public view of one member.
func (h *ProfileHandler) PublicProfile(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	view, err := h.profiles.Public(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch profile")
		return
	}

	writeJSON(w, http.StatusOK, view)
}

type JoinRequest struct {
	Name           string `json:"name"`
	Grade          int    `json:"grade"`
	GithubUsername string `json:"github_username"`
	Bio            string `json:"bio"`
}

// Join applies the complete-profile form for the caller.
func (h *ProfileHandler) Join(w http.ResponseWriter, r *http.Request) {
	account, err := identityFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req JoinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	user, err := h.users.CompleteProfile(r.Context(), account.ID, services.JoinForm{
		Name:           req.Name,
		Grade:          req.Grade,
		GithubUsername: req.GithubUsername,
		Bio:            req.Bio,
	})
	if err != nil {
		writeServiceError(w, err, "failed to complete profile")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// MyProfile returns the caller's profile extras. A member who never saved
// extras gets an empty row, not an error.
func (h *ProfileHandler) MyProfile(w http.ResponseWriter, r *http.Request) {
	account, err := identityFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	profile, err := h.profiles.GetByUser(r.Context(), account.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeJSON(w, http.StatusOK, types.Profile{UserID: account.ID, Skills: []string{}})
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch profile")
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

type ProfileUpsertRequest struct {
	Bio          string   `json:"bio"`
	Skills       []string `json:"skills"`
	GithubLink   string   `json:"github_link"`
	LinkedinLink string   `json:"linkedin_link"`
}

// UpsertProfile saves the caller's profile extras. The picture is managed
// separately so a plain save never clears it.
func (h *ProfileHandler) UpsertProfile(w http.ResponseWriter, r *http.Request) {
	account, err := identityFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req ProfileUpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	existingPic := ""
	if existing, err := h.profiles.GetByUser(r.Context(), account.ID); err == nil {
		existingPic = existing.ProfilePicURL
	} else if !errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusInternalServerError, "failed to save profile")
		return
	}

	saved, err := h.profiles.Upsert(r.Context(), account.ID, types.Profile{
		ProfilePicURL: existingPic,
		Bio:           req.Bio,
		Skills:        req.Skills,
		GithubLink:    req.GithubLink,
		LinkedinLink:  req.LinkedinLink,
	})
	if err != nil {
		writeServiceError(w, err, "failed to save profile")
		return
	}

	writeJSON(w, http.StatusOK, saved)
}

// UploadPicture stores a new profile picture and records its address. A
// failed row write discards the uploaded object.
func (h *ProfileHandler) UploadPicture(w http.ResponseWriter, r *http.Request) {
	account, err := identityFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	picture, err := parseImageFile(r.MultipartForm, "picture")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if picture.Data == nil {
		writeError(w, http.StatusBadRequest, "picture file is required")
		return
	}

	profile, err := h.profiles.GetByUser(r.Context(), account.ID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusInternalServerError, "failed to save picture")
		return
	}

	key, url, err := h.uploads.Put(r.Context(), "profile-images", picture)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to upload picture")
		return
	}

	profile.ProfilePicURL = url
	saved, err := h.profiles.Upsert(r.Context(), account.ID, profile)
	if err != nil {
		h.uploads.Discard(r.Context(), key)
		writeServiceError(w, err, "failed to save picture")
		return
	}

	writeJSON(w, http.StatusOK, saved)
}

// MyProjects lists the caller's own submissions, whatever their status.
func (h *ProfileHandler) MyProjects(w http.ResponseWriter, r *http.Request) {
	account, err := identityFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	projects, err := h.projects.ListByUser(r.Context(), account.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list projects")
		return
	}
	if projects == nil {
		projects = []types.Project{}
	}
	writeJSON(w, http.StatusOK, projects)
}

// MyRSVPs returns the caller's replies keyed by event id.
func (h *ProfileHandler) MyRSVPs(w http.ResponseWriter, r *http.Request) {
	account, err := identityFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	rsvps, err := h.rsvps.ForUser(r.Context(), account.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list rsvps")
		return
	}
	writeJSON(w, http.StatusOK, rsvps)
}
