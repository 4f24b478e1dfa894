// Package access derives the (membership status, admin role) pair that
// gates every protected route. The resolver is the only component with
// real decision logic; everything downstream just compares its output.
package access

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/falak-club/apiserver/internal/store"
	"github.com/falak-club/apiserver/types"
)

// UserDirectory defines the user lookups the resolver needs.
type UserDirectory interface {
	GetByEmail(ctx context.Context, email string) (types.User, error)
	Create(ctx context.Context, user types.User) (types.User, error)
}

// AdminDirectory defines the admin lookup the resolver needs.
type AdminDirectory interface {
	GetByID(ctx context.Context, id string) (types.Admin, error)
}

// Resolution is the routing decision input for one identity. A nil Status
// means the caller is treated as unauthenticated; a nil Role means no
// admin console access.
type Resolution struct {
	Status *types.ApprovalStatus
	Role   *types.AdminRole
}

// Resolver computes Resolutions. The superadmin allow-list is injected at
// construction; it is never read from the directory store.
type Resolver struct {
	users       UserDirectory
	admins      AdminDirectory
	superadmins map[string]struct{}
	logger      *slog.Logger
}

func NewResolver(users UserDirectory, admins AdminDirectory, superadminEmails []string, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	allow := make(map[string]struct{}, len(superadminEmails))
	for _, email := range superadminEmails {
		email = strings.TrimSpace(strings.ToLower(email))
		if email != "" {
			allow[email] = struct{}{}
		}
	}
	return &Resolver{
		users:       users,
		admins:      admins,
		superadmins: allow,
		logger:      logger,
	}
}

// Resolve derives the caller's membership status and admin role. The two
// lookups run concurrently and independently: a failure in one never
// blocks or degrades the other. The only side effect is the lazy creation
// of a pending User row for identities seen for the first time.
func (r *Resolver) Resolve(ctx context.Context, identity *types.Identity) Resolution {
	if identity == nil {
		return Resolution{}
	}

	var resolution Resolution
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		resolution.Status = r.resolveMembership(ctx, *identity)
	}()
	go func() {
		defer wg.Done()
		resolution.Role = r.resolveRole(ctx, *identity)
	}()
	wg.Wait()
	return resolution
}

func (r *Resolver) resolveMembership(ctx context.Context, identity types.Identity) *types.ApprovalStatus {
	user, err := r.users.GetByEmail(ctx, identity.Email)
	if err == nil {
		return &user.Status
	}
	if !errors.Is(err, store.ErrNotFound) {
		// Fail closed: an unreadable directory row routes like an
		// unauthenticated caller.
		r.logger.Error("membership lookup failed", "email", identity.Email, "error", err)
		return nil
	}

	created, err := r.users.Create(ctx, types.User{
		ID:     identity.ID,
		Name:   defaultName(identity),
		Email:  identity.Email,
		Status: types.StatusPending,
	})
	if err == nil {
		return &created.Status
	}
	if errors.Is(err, store.ErrConflict) {
		// Another resolution won the race for the first row; read theirs.
		user, err := r.users.GetByEmail(ctx, identity.Email)
		if err == nil {
			return &user.Status
		}
		r.logger.Error("membership re-read failed", "email", identity.Email, "error", err)
		return nil
	}
	r.logger.Error("lazy user creation failed", "email", identity.Email, "error", err)
	return nil
}

func (r *Resolver) resolveRole(ctx context.Context, identity types.Identity) *types.AdminRole {
	admin, err := r.admins.GetByID(ctx, identity.ID)
	if err == nil {
		return &admin.Role
	}
	if !errors.Is(err, store.ErrNotFound) {
		r.logger.Error("admin lookup failed", "id", identity.ID, "error", err)
		return nil
	}

	if _, ok := r.superadmins[strings.ToLower(identity.Email)]; ok {
		role := types.RoleSuperadmin
		return &role
	}
	return nil
}

func defaultName(identity types.Identity) string {
	if name := strings.TrimSpace(identity.Name); name != "" {
		return name
	}
	if local, _, found := strings.Cut(identity.Email, "@"); found && local != "" {
		return local
	}
	return "User"
}
