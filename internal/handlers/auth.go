package handlers

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/falak-club/apiserver/internal/identity"
	"github.com/falak-club/apiserver/types"
	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
)

const defaultTokenTTL = 24 * time.Hour

// AuthHandler provides JWT authentication endpoints.
type AuthHandler struct {
	identities      identity.Provider
	gate            *Gate
	adminGateSecret string
	secret          []byte
	tokenTTL        time.Duration
}

// NewAuthHandler constructs an AuthHandler with the provided dependencies.
func NewAuthHandler(identities identity.Provider, gate *Gate, jwtSecret, adminGateSecret string) *AuthHandler {
	return &AuthHandler{
		identities:      identities,
		gate:            gate,
		adminGateSecret: adminGateSecret,
		secret:          []byte(jwtSecret),
		tokenTTL:        defaultTokenTTL,
	}
}

// AuthRouter registers auth routes on the given router.
func AuthRouter(r chi.Router, identities identity.Provider, gate *Gate, jwtSecret, adminGateSecret string) {
	handler := NewAuthHandler(identities, gate, jwtSecret, adminGateSecret)

	r.Post("/signup", handler.Signup)
	r.Post("/login", handler.Login)
	r.Post("/admin/login", handler.AdminLogin)
	r.With(gate.RequireAuth).Get("/me", handler.Me)
	r.With(gate.RequireAuth).Post("/logout", handler.Logout)
}

type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AdminLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Secret   string `json:"secret"`
}

// ResolutionResponse is the routing decision input for the client: the
// caller's membership status and admin role, either of which may be
// absent.
type ResolutionResponse struct {
	Status *types.ApprovalStatus `json:"status"`
	Role   *types.AdminRole      `json:"role"`
}

type AuthResponse struct {
	Token      string             `json:"token"`
	Identity   types.Identity     `json:"identity"`
	Resolution ResolutionResponse `json:"resolution"`
}

// Signup creates an account and returns a JWT. The first resolution runs
// here, so a brand-new member already holds a pending directory row when
// the response lands.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	account, err := h.identities.SignUp(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		if errors.Is(err, identity.ErrEmailTaken) {
			writeError(w, http.StatusConflict, "email already registered")
			return
		}
		writeServiceError(w, err, "failed to sign up")
		return
	}

	h.respondWithToken(w, r, http.StatusCreated, account)
}

// Login verifies credentials and returns a JWT.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "missing credentials")
		return
	}

	account, err := h.identities.SignInWithPassword(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		writeServiceError(w, err, "failed to authenticate")
		return
	}

	h.respondWithToken(w, r, http.StatusOK, account)
}

// AdminLogin is the console entry point. It layers the legacy shared
// secret over normal credentials and requires the caller to resolve to an
// admin role.
func (h *AuthHandler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var req AdminLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	if h.adminGateSecret == "" ||
		subtle.ConstantTimeCompare([]byte(req.Secret), []byte(h.adminGateSecret)) != 1 {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	account, err := h.identities.SignInWithPassword(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		writeServiceError(w, err, "failed to authenticate")
		return
	}

	resolution := h.gate.Resolve(r.Context(), account)
	if resolution.Role == nil {
		writeError(w, http.StatusForbidden, "admin access required")
		return
	}

	token, err := issueToken(account.ID, h.secret, h.tokenTTL)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create token")
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{
		Token:      token,
		Identity:   account,
		Resolution: ResolutionResponse{Status: resolution.Status, Role: resolution.Role},
	})
}

// Me returns the current identity and its resolution.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	account, err := identityFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	resolution := resolutionFromContext(r.Context())
	writeJSON(w, http.StatusOK, AuthResponse{
		Identity:   account,
		Resolution: ResolutionResponse{Status: resolution.Status, Role: resolution.Role},
	})
}

// Logout drops the caller's cached resolution. The token itself stays
// valid until it expires; clients discard it.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	account, err := identityFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	h.gate.Reset(account.ID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) respondWithToken(w http.ResponseWriter, r *http.Request, status int, account types.Identity) {
	resolution := h.gate.Resolve(r.Context(), account)

	token, err := issueToken(account.ID, h.secret, h.tokenTTL)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create token")
		return
	}

	writeJSON(w, status, AuthResponse{
		Token:      token,
		Identity:   account,
		Resolution: ResolutionResponse{Status: resolution.Status, Role: resolution.Role},
	})
}

func issueToken(subject string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func parseTokenSubject(tokenString string, secret []byte) (string, error) {
	claims := jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return secret, nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", errors.New("invalid token")
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return "", errors.New("missing subject")
	}
	return claims.Subject, nil
}

func bearerToken(r *http.Request) (string, error) {
	auth := strings.TrimSpace(r.Header.Get("Authorization"))
	if auth == "" {
		return "", errors.New("missing authorization")
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("invalid authorization")
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", errors.New("invalid authorization")
	}
	return token, nil
}
