package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/falak-club/apiserver/internal/identity"
	"github.com/falak-club/apiserver/internal/services"
	"github.com/falak-club/apiserver/internal/store"
	"github.com/falak-club/apiserver/types"
	"github.com/go-chi/chi/v5"
)

const (
	maxMultipartMemory = 32 << 20
	maxImageBytes      = 8 << 20
)

type contextKey string

const (
	contextIdentityKey   contextKey = "identity"
	contextResolutionKey contextKey = "resolution"
)

// ErrorResponse is a simple error payload.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Healthz reports process liveness.
func Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func identityFromContext(ctx context.Context) (types.Identity, error) {
	account, ok := ctx.Value(contextIdentityKey).(types.Identity)
	if !ok || strings.TrimSpace(account.ID) == "" {
		return types.Identity{}, errors.New("missing identity")
	}
	return account, nil
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

// writeServiceError maps domain errors onto HTTP statuses. Anything
// unrecognized becomes a generic 500 so internals never leak.
func writeServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, identity.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, services.ErrNotApproved):
		writeError(w, http.StatusForbidden, "membership not approved")
	case errors.Is(err, services.ErrEventClosed):
		writeError(w, http.StatusForbidden, "event already started")
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, services.ErrIdentityNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrAlreadyAdmin):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, identity.ErrEmailTaken):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, store.ErrConflict):
		writeError(w, http.StatusConflict, "conflict")
	default:
		writeError(w, http.StatusInternalServerError, fallback)
	}
}

func parseIDParam(r *http.Request, name string) (int, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return id, nil
}

// ImageFile is an uploaded image held in memory until it is stored.
type ImageFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// parseImageFile extracts an optional image from a multipart form. A
// missing field returns a zero ImageFile and no error.
func parseImageFile(form *multipart.Form, field string) (ImageFile, error) {
	if form == nil {
		return ImageFile{}, nil
	}

	files := form.File[field]
	if len(files) == 0 {
		return ImageFile{}, nil
	}
	if len(files) > 1 {
		return ImageFile{}, fmt.Errorf("only one %s file is allowed", field)
	}

	fileHeader := files[0]
	contentType := fileHeader.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return ImageFile{}, fmt.Errorf("%s must be an image", field)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return ImageFile{}, fmt.Errorf("failed to read %s file: %w", field, err)
	}

	data, err := readFileLimited(file, maxImageBytes)
	_ = file.Close()
	if err != nil {
		return ImageFile{}, err
	}

	return ImageFile{
		Filename:    fileHeader.Filename,
		ContentType: contentType,
		Data:        data,
	}, nil
}

func readFileLimited(reader io.Reader, limit int64) ([]byte, error) {
	limited := io.LimitReader(reader, limit+1)
	data, err := io.ReadAll(limited)
	if err != nil {
		return nil, errors.New("failed to read upload")
	}
	if int64(len(data)) > limit {
		return nil, errors.New("uploaded file too large")
	}
	return data, nil
}
