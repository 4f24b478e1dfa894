package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/falak-club/apiserver/internal/services"
	"github.com/falak-club/apiserver/internal/store"
	"github.com/falak-club/apiserver/types"
	"github.com/go-chi/chi/v5"
)

// ProjectHandler provides HTTP handlers for the project showcase and
// member submissions.
type ProjectHandler struct {
	projects *services.ProjectService
	uploads  *Uploader
}

// NewProjectHandler constructs a handler with the provided dependencies.
func NewProjectHandler(projects *services.ProjectService, uploads *Uploader) *ProjectHandler {
	return &ProjectHandler{projects: projects, uploads: uploads}
}

// ProjectRouter registers project routes on the given router.
func ProjectRouter(r chi.Router, projects *services.ProjectService, gate *Gate, uploads *Uploader) {
	handler := NewProjectHandler(projects, uploads)

	r.Get("/", handler.Showcase)
	r.With(gate.RequireAuth, gate.RequireApproved).Post("/", handler.Submit)
	r.Get("/{projectID}", handler.Get)
}

// Showcase lists approved projects, newest first.
func (h *ProjectHandler) Showcase(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projects.Showcase(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list projects")
		return
	}
	if projects == nil {
		projects = []types.Project{}
	}
	writeJSON(w, http.StatusOK, projects)
}

// Get returns one showcase project. Pending and rejected projects are not
// publicly visible, so they read as absent.
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "projectID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	project, err := h.projects.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "project not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch project")
		return
	}
	if project.Status != types.StatusApproved {
		writeError(w, http.StatusNotFound, "project not found")
		return
	}

	writeJSON(w, http.StatusOK, project)
}

// Submit accepts a multipart project submission with an optional
// thumbnail image. The thumbnail is uploaded before the row is written;
// a failed write discards the uploaded object.
func (h *ProjectHandler) Submit(w http.ResponseWriter, r *http.Request) {
	account, err := identityFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	project := types.Project{
		Title:       strings.TrimSpace(r.FormValue("title")),
		Description: strings.TrimSpace(r.FormValue("description")),
		GithubLink:  strings.TrimSpace(r.FormValue("github_link")),
		DemoLink:    strings.TrimSpace(r.FormValue("demo_link")),
		SubmittedBy: account.ID,
	}

	thumbnail, err := parseImageFile(r.MultipartForm, "thumbnail")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var thumbnailKey string
	if thumbnail.Data != nil {
		key, url, err := h.uploads.Put(r.Context(), "project-images", thumbnail)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to upload thumbnail")
			return
		}
		thumbnailKey = key
		project.ThumbnailURL = url
	}

	resolution := resolutionFromContext(r.Context())
	status := types.ApprovalStatus("")
	if resolution.Status != nil {
		status = *resolution.Status
	}

	created, err := h.projects.Submit(r.Context(), status, project)
	if err != nil {
		if thumbnailKey != "" {
			h.uploads.Discard(r.Context(), thumbnailKey)
		}
		writeServiceError(w, err, "failed to submit project")
		return
	}

	writeJSON(w, http.StatusCreated, created)
}
