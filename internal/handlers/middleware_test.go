package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func (f *authFixture) sessionCount() int {
	f.gate.mu.Lock()
	defer f.gate.mu.Unlock()
	return len(f.gate.sessions)
}

func TestLogoutDropsSessionState(t *testing.T) {
	fixture := newAuthFixture(t, nil)
	signup := fixture.signup(t, "member@falak.club")
	require.Equal(t, 1, fixture.sessionCount())

	rec := fixture.do(t, http.MethodPost, "/auth/logout", signup.Token, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Zero(t, fixture.sessionCount())

	// A later request with the still-valid token recreates the session.
	rec = fixture.do(t, http.MethodGet, "/auth/me", signup.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, fixture.sessionCount())
}

func TestRepeatSignInsReuseOneSession(t *testing.T) {
	fixture := newAuthFixture(t, nil)
	signup := fixture.signup(t, "member@falak.club")

	for i := 0; i < 3; i++ {
		rec := fixture.do(t, http.MethodGet, "/auth/me", signup.Token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
	}
	require.Equal(t, 1, fixture.sessionCount())
}
