package handlers

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/falak-club/apiserver/internal/access"
	"github.com/falak-club/apiserver/internal/identity"
	"github.com/falak-club/apiserver/internal/store"
	"github.com/falak-club/apiserver/types"
)

// Gate authenticates requests and derives the caller's resolution. The
// membership and admin checks are independent: an admin gate never
// consults membership status and vice versa.
type Gate struct {
	identities identity.Provider
	resolver   *access.Resolver
	secret     []byte

	mu       sync.Mutex
	sessions map[string]*access.Sequencer
}

// NewGate constructs a Gate with the provided dependencies.
func NewGate(identities identity.Provider, resolver *access.Resolver, jwtSecret string) *Gate {
	return &Gate{
		identities: identities,
		resolver:   resolver,
		secret:     []byte(jwtSecret),
		sessions:   make(map[string]*access.Sequencer),
	}
}

func (g *Gate) sequencer(subject string) *access.Sequencer {
	g.mu.Lock()
	defer g.mu.Unlock()
	seq, ok := g.sessions[subject]
	if !ok {
		seq = access.NewSequencer()
		g.sessions[subject] = seq
	}
	return seq
}

// Reset drops the session state for a subject on sign-out, so the map
// only holds subjects seen since their last sign-out. An in-flight
// resolution still applies to the dropped sequencer, which nothing reads
// again; the next request starts a fresh one.
func (g *Gate) Reset(subject string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.sessions, subject)
}

// Resolve runs one sequenced resolution for an identity. A resolution
// that finishes after a newer one has been applied is dropped and the
// fresher result is returned instead.
func (g *Gate) Resolve(ctx context.Context, account types.Identity) access.Resolution {
	seq := g.sequencer(account.ID)
	n := seq.Begin()
	resolution := g.resolver.Resolve(ctx, &account)
	if !seq.Apply(n, resolution) {
		return seq.Current()
	}
	return resolution
}

// RequireAuth enforces a valid bearer token, loads the identity behind
// it, and injects both the identity and its resolution into context.
func (g *Gate) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString, err := bearerToken(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		subject, err := parseTokenSubject(tokenString, g.secret)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		account, err := g.identities.GetByID(r.Context(), subject)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			writeError(w, http.StatusInternalServerError, "failed to load account")
			return
		}

		resolution := g.Resolve(r.Context(), account)

		ctx := context.WithValue(r.Context(), contextIdentityKey, account)
		ctx = context.WithValue(ctx, contextResolutionKey, resolution)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireApproved admits only callers holding an approved membership.
func (g *Gate) RequireApproved(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resolution := resolutionFromContext(r.Context())
		if resolution.Status == nil {
			writeError(w, http.StatusForbidden, "access denied")
			return
		}
		switch *resolution.Status {
		case types.StatusApproved:
			next.ServeHTTP(w, r)
		case types.StatusPending:
			writeError(w, http.StatusForbidden, "membership pending")
		default:
			writeError(w, http.StatusForbidden, "access denied")
		}
	})
}

// RequireAdmin admits callers holding any admin role.
func (g *Gate) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resolution := resolutionFromContext(r.Context())
		if resolution.Role == nil {
			writeError(w, http.StatusForbidden, "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSuperadmin admits only superadmins.
func (g *Gate) RequireSuperadmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resolution := resolutionFromContext(r.Context())
		if resolution.Role == nil || *resolution.Role != types.RoleSuperadmin {
			writeError(w, http.StatusForbidden, "superadmin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func resolutionFromContext(ctx context.Context) access.Resolution {
	resolution, _ := ctx.Value(contextResolutionKey).(access.Resolution)
	return resolution
}
