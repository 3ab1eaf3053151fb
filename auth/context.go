// Context utilities for the authorization gate. The session middleware stores
// the resolved identity in the request context; the gate functions below are
// the single funnel point every admin-only operation checks before mutating
// anything, so authorization logic never gets duplicated across endpoints.
package auth

import (
	"context"

	"github.com/user/townhall-go/apperror"
)

// AuthorizedContext carries the identity resolved from a session token:
// who is calling, and with which privilege tier.
type AuthorizedContext struct {
	UserID int
	Role   string
}

// IsAdmin reports whether the caller holds the ADMIN role.
func (a *AuthorizedContext) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// contextKey is a custom type for context keys. Using a private type prevents
// collisions with keys defined in other packages.
type contextKey string

const authContextKey contextKey = "auth_context"

// NewContext returns a child context carrying the resolved identity.
func NewContext(ctx context.Context, ac *AuthorizedContext) context.Context {
	return context.WithValue(ctx, authContextKey, ac)
}

// FromContext extracts the resolved identity from the context. The second
// return value indicates whether a session was resolved at all.
func FromContext(ctx context.Context) (*AuthorizedContext, bool) {
	ac, ok := ctx.Value(authContextKey).(*AuthorizedContext)
	return ac, ok
}

// Authorize returns the caller's identity or an Unauthenticated error when no
// valid session is present. It performs no side effects.
func Authorize(ctx context.Context) (*AuthorizedContext, error) {
	ac, ok := FromContext(ctx)
	if !ok {
		return nil, apperror.NewAuthError("authentication required", nil)
	}
	return ac, nil
}

// RequireAdmin returns the caller's identity when it holds the ADMIN role.
// It fails with Unauthenticated when no session is present and Forbidden when
// the session's role is insufficient. Callers must invoke this before any
// partial mutation takes place.
func RequireAdmin(ctx context.Context) (*AuthorizedContext, error) {
	ac, err := Authorize(ctx)
	if err != nil {
		return nil, err
	}
	if !ac.IsAdmin() {
		return nil, apperror.NewUnauthorizedError("admin privilege required", nil)
	}
	return ac, nil
}
