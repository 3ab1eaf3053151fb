// Package auth is responsible for session issuance and validation.
// The service authenticates credentials against the user store and issues
// signed JWTs carrying the caller's id and role; the middleware in this
// package later resolves those tokens back into an AuthorizedContext.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/user/townhall-go/apperror"
	"github.com/user/townhall-go/config"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// Service authenticates users and issues session tokens.
type Service struct {
	store      UserStore
	authConfig config.AuthConfig
}

// NewService creates a Service. Dependencies are injected explicitly via the
// constructor, never reached as ambient globals.
func NewService(store UserStore, authConfig config.AuthConfig) *Service {
	return &Service{store: store, authConfig: authConfig}
}

// Claims defines the JWT payload: the resolved identity plus the standard
// registered claims (exp, iat, nbf).
type Claims struct {
	UserID    int    `json:"user_id"`
	Role      string `json:"role"`
	TokenType string `json:"token_type"` // "access" or "refresh"
	jwt.RegisteredClaims
}

// Login authenticates a user by email and password and returns tokens.
// The error message is identical for an unknown email and a wrong password,
// so the response never reveals whether an account exists.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	user, err := s.store.GetByEmail(ctx, req.Email)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewAuthError("invalid credentials", nil)
		}
		log.Printf("user lookup failed during login: %v", err)
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(req.Password)); err != nil {
		return nil, apperror.NewAuthError("invalid credentials", nil)
	}

	return s.generateTokens(user.ID, user.Role)
}

// RefreshToken exchanges a valid refresh token for a fresh access token.
// The refresh token is returned unchanged rather than rotated.
func (s *Service) RefreshToken(ctx context.Context, refreshTokenString string) (*TokenResponse, error) {
	claims, err := s.validateToken(refreshTokenString, tokenTypeRefresh)
	if err != nil {
		return nil, apperror.NewAuthError("invalid refresh token", err)
	}

	// Re-read the role so a privilege change takes effect on the next
	// refresh instead of living for the whole refresh-token lifetime.
	user, err := s.store.GetByID(ctx, claims.UserID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewAuthError("invalid refresh token", nil)
		}
		return nil, err
	}

	accessToken, accessExpiresAt, err := s.generateSpecificToken(user.ID, user.Role, tokenTypeAccess, s.authConfig.AccessTokenDuration)
	if err != nil {
		return nil, fmt.Errorf("failed to generate new access token: %w", err)
	}

	return &TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshTokenString,
		TokenType:    "Bearer",
		ExpiresIn:    accessExpiresAt.Unix(),
	}, nil
}

// generateTokens creates both access and refresh tokens for a user.
func (s *Service) generateTokens(userID int, role string) (*TokenResponse, error) {
	accessToken, accessExpiresAt, err := s.generateSpecificToken(userID, role, tokenTypeAccess, s.authConfig.AccessTokenDuration)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, _, err := s.generateSpecificToken(userID, role, tokenTypeRefresh, s.authConfig.RefreshTokenDuration)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    accessExpiresAt.Unix(),
	}, nil
}

// generateSpecificToken creates a signed JWT with the given type and duration.
func (s *Service) generateSpecificToken(userID int, role, tokenType string, duration time.Duration) (string, time.Time, error) {
	expirationTime := time.Now().Add(duration)
	claims := &Claims{
		UserID:    userID,
		Role:      role,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    "townhall",
			Subject:   fmt.Sprintf("%d", userID),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.authConfig.JWTSecret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, expirationTime, nil
}

// validateToken parses a JWT string and checks signature, expiry and the
// expected token type.
func (s *Service) validateToken(tokenString string, expectedTokenType string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.authConfig.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("token is invalid")
	}
	if claims.TokenType != expectedTokenType {
		return nil, fmt.Errorf("invalid token type: expected %s, got %s", expectedTokenType, claims.TokenType)
	}
	return claims, nil
}
