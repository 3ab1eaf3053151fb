package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/townhall-go/apperror"
)

func TestAuthorizeWithoutSession(t *testing.T) {
	_, err := Authorize(context.Background())
	assert.True(t, apperror.IsAuthError(err))
}

func TestAuthorizeReturnsResolvedIdentity(t *testing.T) {
	ctx := NewContext(context.Background(), &AuthorizedContext{UserID: 7, Role: RoleModerator})

	ac, err := Authorize(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7, ac.UserID)
	assert.Equal(t, RoleModerator, ac.Role)
}

func TestRequireAdmin(t *testing.T) {
	_, err := RequireAdmin(context.Background())
	assert.True(t, apperror.IsAuthError(err), "no session resolves as unauthenticated, not forbidden")

	modCtx := NewContext(context.Background(), &AuthorizedContext{UserID: 7, Role: RoleModerator})
	_, err = RequireAdmin(modCtx)
	assert.True(t, apperror.IsUnauthorizedError(err))

	adminCtx := NewContext(context.Background(), &AuthorizedContext{UserID: 1, Role: RoleAdmin})
	ac, err := RequireAdmin(adminCtx)
	require.NoError(t, err)
	assert.True(t, ac.IsAdmin())
}

func TestValidRole(t *testing.T) {
	assert.True(t, ValidRole(RoleAdmin))
	assert.True(t, ValidRole(RoleModerator))
	assert.False(t, ValidRole("superuser"))
	assert.False(t, ValidRole(""))
}
