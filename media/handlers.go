// HTTP handler for the ingestion endpoint.
package media

import (
	"encoding/json"
	"net/http"

	"github.com/user/townhall-go/apperror"
	"github.com/user/townhall-go/auth"
)

// Handlers wraps the media Service to provide HTTP handlers.
type Handlers struct {
	service *Service
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// HandleIngest godoc
// @Summary Ingest a media payload
// @Description Uploads a base64 payload or remote URL to object storage and returns the durable retrieval URL and detected resource kind.
// @Tags Media
// @Accept json
// @Produce json
// @Param ingestBody body media.IngestRequest true "Payload to ingest"
// @Success 200 {object} media.IngestResult
// @Failure 400 {object} apperror.ErrorResponse "Invalid payload"
// @Failure 401 {object} apperror.ErrorResponse "Unauthenticated"
// @Failure 403 {object} apperror.ErrorResponse "Forbidden - admin role required"
// @Failure 502 {object} apperror.ErrorResponse "Upload failed"
// @Security BearerAuth
// @Router /media [post]
func (h *Handlers) HandleIngest() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Ingestion is invoked by admin-authorized callers; the gate runs
		// before any payload work.
		if _, err := auth.RequireAdmin(r.Context()); err != nil {
			auth.WriteError(w, r, err)
			return
		}

		var req IngestRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			auth.WriteError(w, r, apperror.NewBadRequestError("invalid request body: "+err.Error(), nil))
			return
		}
		defer r.Body.Close()

		result, err := h.service.Ingest(r.Context(), req)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}

		auth.WriteJSON(w, http.StatusOK, result)
	}
}
