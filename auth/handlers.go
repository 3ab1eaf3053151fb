// HTTP handlers for the auth endpoints, the "Controller" layer of this
// feature package. Also home of the shared response helpers the other
// feature packages use, so every error leaving the API goes through the
// apperror mapping exactly once.
package auth

import (
	"encoding/json"
	"net/http"

	"github.com/user/townhall-go/apperror"
)

// Handlers wraps the auth Service to provide HTTP handlers.
type Handlers struct {
	service *Service
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// HandleLogin godoc
// @Summary User Login
// @Description Logs in an existing user and returns access and refresh tokens.
// @Tags Auth
// @Accept json
// @Produce json
// @Param loginBody body auth.LoginRequest true "User login credentials"
// @Success 200 {object} auth.TokenResponse "Login successful, tokens provided"
// @Failure 400 {object} apperror.ErrorResponse "Bad Request - Invalid input or missing fields"
// @Failure 401 {object} apperror.ErrorResponse "Unauthorized - Invalid credentials"
// @Failure 503 {object} apperror.ErrorResponse "Service Unavailable - transient storage fault"
// @Router /auth/login [post]
func (h *Handlers) HandleLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, r, apperror.NewBadRequestError("invalid request body: "+err.Error(), nil))
			return
		}
		defer r.Body.Close()

		if req.Email == "" || req.Password == "" {
			WriteError(w, r, apperror.NewBadRequestError("email and password are required", nil))
			return
		}

		resp, err := h.service.Login(r.Context(), req)
		if err != nil {
			WriteError(w, r, err)
			return
		}

		WriteJSON(w, http.StatusOK, resp)
	}
}

// HandleRefreshToken godoc
// @Summary Refresh Access Token
// @Description Provides a new access token using a valid refresh token.
// @Tags Auth
// @Accept json
// @Produce json
// @Param refreshBody body auth.RefreshTokenRequest true "Refresh token details"
// @Success 200 {object} auth.TokenResponse "Tokens refreshed successfully"
// @Failure 400 {object} apperror.ErrorResponse "Bad Request - missing refresh token"
// @Failure 401 {object} apperror.ErrorResponse "Unauthorized - Invalid or expired refresh token"
// @Router /auth/refresh [post]
func (h *Handlers) HandleRefreshToken() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RefreshTokenRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, r, apperror.NewBadRequestError("invalid request body: "+err.Error(), nil))
			return
		}
		defer r.Body.Close()

		if req.RefreshToken == "" {
			WriteError(w, r, apperror.NewBadRequestError("refresh_token is required", nil))
			return
		}

		resp, err := h.service.RefreshToken(r.Context(), req.RefreshToken)
		if err != nil {
			WriteError(w, r, err)
			return
		}

		WriteJSON(w, http.StatusOK, resp)
	}
}

// WriteJSON serializes data to JSON and writes it with the given status.
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil { // avoid writing "null" when no body is intended
		if err := json.NewEncoder(w).Encode(data); err != nil {
			http.Error(w, `{"error":"failed to encode response"}`, http.StatusInternalServerError)
		}
	}
}

// WriteError converts any error into a standardized apperror response.
// Errors that are not already AppErrors are wrapped as internal errors, so
// no raw error shape ever reaches a client.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := apperror.FromError(err)
	if !ok {
		appErr = apperror.NewInternalError("an unexpected error occurred", err)
	}
	WriteJSON(w, appErr.StatusCode(), appErr.ToResponse())
}
