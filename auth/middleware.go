// The session resolver middleware. It turns an opaque bearer token into an
// AuthorizedContext on the request context; downstream gates (RequireAdmin)
// then decide whether that identity may perform the operation.
package auth

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/user/townhall-go/apperror"
	"github.com/user/townhall-go/config"
)

// JWTMiddleware verifies the Authorization header and stores the resolved
// {userID, role} on the request context. Requests without a valid access
// token are rejected with 401 before reaching any handler.
func JWTMiddleware(cfg *config.AuthConfig) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				WriteError(w, r, apperror.NewAuthError("Authorization header is missing", nil))
				return
			}

			// Expected format: "Bearer {token}".
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				WriteError(w, r, apperror.NewAuthError("Authorization header format must be Bearer {token}", nil))
				return
			}

			tokenString := parts[1]
			claims := &Claims{}

			token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
				}
				return []byte(cfg.JWTSecret), nil
			})
			if err != nil {
				WriteError(w, r, apperror.NewAuthError("invalid token", err))
				return
			}
			if !token.Valid {
				WriteError(w, r, apperror.NewAuthError("invalid token", nil))
				return
			}

			// Refresh tokens must not be usable as sessions.
			if claims.TokenType != tokenTypeAccess {
				WriteError(w, r, apperror.NewAuthError("invalid token: not an access token", nil))
				return
			}
			if claims.UserID == 0 || !ValidRole(claims.Role) {
				WriteError(w, r, apperror.NewAuthError("invalid token: identity claims missing", nil))
				return
			}

			ctx := NewContext(r.Context(), &AuthorizedContext{
				UserID: claims.UserID,
				Role:   claims.Role,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
