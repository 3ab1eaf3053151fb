// HTTP handlers for the provisioning endpoint.
package accounts

import (
	"encoding/json"
	"net/http"

	"github.com/user/townhall-go/apperror"
	"github.com/user/townhall-go/auth"
)

// Handlers wraps the accounts Service to provide HTTP handlers.
type Handlers struct {
	service *Service
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// HandleProvision godoc
// @Summary Provision a moderator account
// @Description Creates a new account with validated, unique identity fields. Requires the ADMIN role. Validation failures list every violated rule.
// @Tags Accounts
// @Accept json
// @Produce json
// @Param accountBody body accounts.NewAccountRequest true "New account details"
// @Success 201 {object} auth.User "Account created; password hash is never included"
// @Failure 400 {object} apperror.ErrorResponse "Validation failed - violations list every broken rule"
// @Failure 401 {object} apperror.ErrorResponse "Unauthenticated"
// @Failure 403 {object} apperror.ErrorResponse "Forbidden - admin role required"
// @Failure 409 {object} apperror.ErrorResponse "Conflict - email registered concurrently"
// @Security BearerAuth
// @Router /accounts [post]
func (h *Handlers) HandleProvision() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req NewAccountRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			auth.WriteError(w, r, apperror.NewBadRequestError("invalid request body: "+err.Error(), nil))
			return
		}
		defer r.Body.Close()

		user, err := h.service.Provision(r.Context(), req)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}

		// The hash is tagged json:"-", but clear it anyway before the
		// struct leaves the handler.
		user.HashedPassword = ""
		auth.WriteJSON(w, http.StatusCreated, user)
	}
}
