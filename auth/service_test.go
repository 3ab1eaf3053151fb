package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/user/townhall-go/apperror"
	"github.com/user/townhall-go/config"
)

// stubUserStore is a minimal UserStore double holding a single user.
type stubUserStore struct {
	user *User
	err  error
}

func (s *stubUserStore) Create(ctx context.Context, user *User) (*User, error) {
	return user, nil
}

func (s *stubUserStore) GetByEmail(ctx context.Context, email string) (*User, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.user == nil || strings.ToLower(email) != s.user.Email {
		return nil, apperror.NewNotFoundError("user not found", nil)
	}
	return s.user, nil
}

func (s *stubUserStore) GetByID(ctx context.Context, id int) (*User, error) {
	if s.user == nil || s.user.ID != id {
		return nil, apperror.NewNotFoundError("user not found", nil)
	}
	return s.user, nil
}

func (s *stubUserStore) EmailExists(ctx context.Context, email string) (bool, error) {
	return s.user != nil && strings.ToLower(email) == s.user.Email, nil
}

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:            "test-secret",
		AccessTokenDuration:  15 * time.Minute,
		RefreshTokenDuration: 168 * time.Hour,
	}
}

func storedUser(t *testing.T, password string) *User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &User{
		ID:             1,
		FirstName:      "Ada",
		LastName:       "Lovelace",
		Email:          "ada@example.com",
		HashedPassword: string(hash),
		Role:           RoleAdmin,
	}
}

func TestLoginSuccess(t *testing.T) {
	svc := NewService(&stubUserStore{user: storedUser(t, "strongpassword123")}, testAuthConfig())

	resp, err := svc.Login(context.Background(), LoginRequest{Email: "Ada@Example.com", Password: "strongpassword123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "Bearer", resp.TokenType)

	// The access token must resolve back to the stored identity.
	claims, err := svc.validateToken(resp.AccessToken, tokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, 1, claims.UserID)
	assert.Equal(t, RoleAdmin, claims.Role)
}

func TestLoginWrongPassword(t *testing.T) {
	svc := NewService(&stubUserStore{user: storedUser(t, "strongpassword123")}, testAuthConfig())

	_, err := svc.Login(context.Background(), LoginRequest{Email: "ada@example.com", Password: "wrong"})
	assert.True(t, apperror.IsAuthError(err))
}

func TestLoginUnknownEmailSameMessage(t *testing.T) {
	// Unknown email and wrong password must be indistinguishable to the
	// caller, so the endpoint never reveals whether an account exists.
	svc := NewService(&stubUserStore{user: storedUser(t, "strongpassword123")}, testAuthConfig())

	_, unknownErr := svc.Login(context.Background(), LoginRequest{Email: "nobody@example.com", Password: "strongpassword123"})
	_, wrongErr := svc.Login(context.Background(), LoginRequest{Email: "ada@example.com", Password: "wrong"})

	require.Error(t, unknownErr)
	require.Error(t, wrongErr)
	assert.Equal(t, unknownErr.Error(), wrongErr.Error())
}

func TestLoginSurfacesStorageFault(t *testing.T) {
	svc := NewService(&stubUserStore{err: apperror.NewDatabaseError("storage down", nil)}, testAuthConfig())

	_, err := svc.Login(context.Background(), LoginRequest{Email: "ada@example.com", Password: "x"})
	assert.True(t, apperror.IsDatabaseError(err))
}

func TestRefreshToken(t *testing.T) {
	svc := NewService(&stubUserStore{user: storedUser(t, "strongpassword123")}, testAuthConfig())

	resp, err := svc.Login(context.Background(), LoginRequest{Email: "ada@example.com", Password: "strongpassword123"})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(context.Background(), resp.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.Equal(t, resp.RefreshToken, refreshed.RefreshToken)
}

func TestRefreshTokenRejectsAccessToken(t *testing.T) {
	svc := NewService(&stubUserStore{user: storedUser(t, "strongpassword123")}, testAuthConfig())

	resp, err := svc.Login(context.Background(), LoginRequest{Email: "ada@example.com", Password: "strongpassword123"})
	require.NoError(t, err)

	_, err = svc.RefreshToken(context.Background(), resp.AccessToken)
	assert.True(t, apperror.IsAuthError(err))
}

func TestRefreshTokenRejectsGarbage(t *testing.T) {
	svc := NewService(&stubUserStore{}, testAuthConfig())

	_, err := svc.RefreshToken(context.Background(), "not-a-jwt")
	assert.True(t, apperror.IsAuthError(err))
}
