package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/falak-club/apiserver/internal/access"
	"github.com/falak-club/apiserver/internal/identity"
	"github.com/falak-club/apiserver/internal/store"
	"github.com/falak-club/apiserver/types"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-secret"
const testGateSecret = "open-sesame"

type fakeProvider struct {
	nextID    int
	accounts  map[string]types.Identity
	passwords map[string]string
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		accounts:  make(map[string]types.Identity),
		passwords: make(map[string]string),
	}
}

func (f *fakeProvider) SignUp(ctx context.Context, email, password, name string) (types.Identity, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if _, ok := f.accounts[email]; ok {
		return types.Identity{}, identity.ErrEmailTaken
	}
	f.nextID++
	account := types.Identity{ID: fmt.Sprintf("id-%d", f.nextID), Email: email, Name: name}
	f.accounts[email] = account
	f.passwords[email] = password
	return account, nil
}

func (f *fakeProvider) SignInWithPassword(ctx context.Context, email, password string) (types.Identity, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	account, ok := f.accounts[email]
	if !ok || f.passwords[email] != password {
		return types.Identity{}, identity.ErrInvalidCredentials
	}
	return account, nil
}

func (f *fakeProvider) GetByID(ctx context.Context, id string) (types.Identity, error) {
	for _, account := range f.accounts {
		if account.ID == id {
			return account, nil
		}
	}
	return types.Identity{}, store.ErrNotFound
}

func (f *fakeProvider) GetByEmail(ctx context.Context, email string) (types.Identity, error) {
	account, ok := f.accounts[email]
	if !ok {
		return types.Identity{}, store.ErrNotFound
	}
	return account, nil
}

type memUserDirectory struct {
	byEmail map[string]types.User
}

func (m *memUserDirectory) GetByEmail(ctx context.Context, email string) (types.User, error) {
	user, ok := m.byEmail[email]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	return user, nil
}

func (m *memUserDirectory) Create(ctx context.Context, user types.User) (types.User, error) {
	if _, ok := m.byEmail[user.Email]; ok {
		return types.User{}, store.ErrConflict
	}
	m.byEmail[user.Email] = user
	return user, nil
}

type memAdminDirectory struct {
	byID map[string]types.Admin
}

func (m *memAdminDirectory) GetByID(ctx context.Context, id string) (types.Admin, error) {
	admin, ok := m.byID[id]
	if !ok {
		return types.Admin{}, store.ErrNotFound
	}
	return admin, nil
}

type authFixture struct {
	provider *fakeProvider
	users    *memUserDirectory
	admins   *memAdminDirectory
	gate     *Gate
	router   *chi.Mux
}

func newAuthFixture(t *testing.T, superadmins []string) *authFixture {
	t.Helper()

	provider := newFakeProvider()
	users := &memUserDirectory{byEmail: make(map[string]types.User)}
	admins := &memAdminDirectory{byID: make(map[string]types.Admin)}
	resolver := access.NewResolver(users, admins, superadmins, nil)
	gate := NewGate(provider, resolver, testJWTSecret)

	router := chi.NewRouter()
	router.Route("/auth", func(r chi.Router) {
		AuthRouter(r, provider, gate, testJWTSecret, testGateSecret)
	})
	router.With(gate.RequireAuth, gate.RequireApproved).Get("/members-only", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	router.With(gate.RequireAuth, gate.RequireAdmin).Get("/admins-only", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	router.With(gate.RequireAuth, gate.RequireSuperadmin).Get("/superadmins-only", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return &authFixture{
		provider: provider,
		users:    users,
		admins:   admins,
		gate:     gate,
		router:   router,
	}
}

func (f *authFixture) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f *authFixture) signup(t *testing.T, email string) AuthResponse {
	t.Helper()

	rec := f.do(t, http.MethodPost, "/auth/signup", "", SignupRequest{
		Email: email, Password: "hunter22", Name: "Member",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp AuthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotEmpty(t, resp.Token)
	return resp
}

func TestSignupRoutesToPending(t *testing.T) {
	fixture := newAuthFixture(t, nil)

	resp := fixture.signup(t, "new@falak.club")
	require.NotNil(t, resp.Resolution.Status)
	require.Equal(t, types.StatusPending, *resp.Resolution.Status)
	require.Nil(t, resp.Resolution.Role)
}

func TestLoginReturnsResolution(t *testing.T) {
	fixture := newAuthFixture(t, nil)
	fixture.signup(t, "new@falak.club")

	rec := fixture.do(t, http.MethodPost, "/auth/login", "", LoginRequest{
		Email: "new@falak.club", Password: "hunter22",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp AuthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotNil(t, resp.Resolution.Status)
	require.Equal(t, types.StatusPending, *resp.Resolution.Status)
}

func TestLoginWrongPassword(t *testing.T) {
	fixture := newAuthFixture(t, nil)
	fixture.signup(t, "new@falak.club")

	rec := fixture.do(t, http.MethodPost, "/auth/login", "", LoginRequest{
		Email: "new@falak.club", Password: "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMeRequiresToken(t *testing.T) {
	fixture := newAuthFixture(t, nil)

	rec := fixture.do(t, http.MethodGet, "/auth/me", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = fixture.do(t, http.MethodGet, "/auth/me", "not.a.token", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMeReturnsIdentityAndResolution(t *testing.T) {
	fixture := newAuthFixture(t, nil)
	signup := fixture.signup(t, "new@falak.club")

	rec := fixture.do(t, http.MethodGet, "/auth/me", signup.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp AuthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Equal(t, "new@falak.club", resp.Identity.Email)
	require.NotNil(t, resp.Resolution.Status)
	require.Equal(t, types.StatusPending, *resp.Resolution.Status)
}

func TestPendingMemberGets403(t *testing.T) {
	fixture := newAuthFixture(t, nil)
	signup := fixture.signup(t, "new@falak.club")

	rec := fixture.do(t, http.MethodGet, "/members-only", signup.Token, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Equal(t, "membership pending", resp.Error)
}

func TestApprovedMemberPasses(t *testing.T) {
	fixture := newAuthFixture(t, nil)
	signup := fixture.signup(t, "new@falak.club")

	user := fixture.users.byEmail["new@falak.club"]
	user.Status = types.StatusApproved
	fixture.users.byEmail["new@falak.club"] = user

	rec := fixture.do(t, http.MethodGet, "/members-only", signup.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRejectedMemberGets403(t *testing.T) {
	fixture := newAuthFixture(t, nil)
	signup := fixture.signup(t, "new@falak.club")

	user := fixture.users.byEmail["new@falak.club"]
	user.Status = types.StatusRejected
	fixture.users.byEmail["new@falak.club"] = user

	rec := fixture.do(t, http.MethodGet, "/members-only", signup.Token, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminGateIndependentOfMembership(t *testing.T) {
	fixture := newAuthFixture(t, nil)
	signup := fixture.signup(t, "lead@falak.club")

	// Pending membership, but an admin row exists for the id. The admin
	// gate must pass and the member gate must still block.
	fixture.admins.byID[signup.Identity.ID] = types.Admin{
		ID: signup.Identity.ID, Role: types.RoleNormal,
	}

	rec := fixture.do(t, http.MethodGet, "/admins-only", signup.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = fixture.do(t, http.MethodGet, "/members-only", signup.Token, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestNonAdminBlocked(t *testing.T) {
	fixture := newAuthFixture(t, nil)
	signup := fixture.signup(t, "new@falak.club")

	rec := fixture.do(t, http.MethodGet, "/admins-only", signup.Token, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestSuperadminGate(t *testing.T) {
	fixture := newAuthFixture(t, []string{"boss@falak.club"})
	boss := fixture.signup(t, "boss@falak.club")
	normal := fixture.signup(t, "lead@falak.club")
	fixture.admins.byID[normal.Identity.ID] = types.Admin{
		ID: normal.Identity.ID, Role: types.RoleNormal,
	}

	rec := fixture.do(t, http.MethodGet, "/superadmins-only", boss.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = fixture.do(t, http.MethodGet, "/superadmins-only", normal.Token, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminLoginRequiresSharedSecret(t *testing.T) {
	fixture := newAuthFixture(t, []string{"boss@falak.club"})
	fixture.signup(t, "boss@falak.club")

	rec := fixture.do(t, http.MethodPost, "/auth/admin/login", "", AdminLoginRequest{
		Email: "boss@falak.club", Password: "hunter22", Secret: "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = fixture.do(t, http.MethodPost, "/auth/admin/login", "", AdminLoginRequest{
		Email: "boss@falak.club", Password: "hunter22", Secret: testGateSecret,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp AuthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotNil(t, resp.Resolution.Role)
	require.Equal(t, types.RoleSuperadmin, *resp.Resolution.Role)
}

func TestAdminLoginRejectsNonAdmin(t *testing.T) {
	fixture := newAuthFixture(t, nil)
	fixture.signup(t, "new@falak.club")

	rec := fixture.do(t, http.MethodPost, "/auth/admin/login", "", AdminLoginRequest{
		Email: "new@falak.club", Password: "hunter22", Secret: testGateSecret,
	})
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestLogoutResetsResolution(t *testing.T) {
	fixture := newAuthFixture(t, nil)
	signup := fixture.signup(t, "new@falak.club")

	rec := fixture.do(t, http.MethodPost, "/auth/logout", signup.Token, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
}
