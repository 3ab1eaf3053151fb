package events

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/townhall-go/apperror"
	"github.com/user/townhall-go/auth"
)

// testRouter mounts the handlers the way main does, with a stub session
// middleware injecting the given identity for the admin routes.
func testRouter(h *Handlers, identity *auth.AuthorizedContext) http.Handler {
	r := chi.NewRouter()
	r.Get("/events", h.HandleListPublic())
	r.Group(func(r chi.Router) {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				ctx := req.Context()
				if identity != nil {
					ctx = auth.NewContext(ctx, identity)
				}
				next.ServeHTTP(w, req.WithContext(ctx))
			})
		})
		r.Post("/events", h.HandleCreateEvent())
		r.Put("/events/{id}/publish", h.HandleSetPublished())
	})
	return r
}

func TestHandleListPublic(t *testing.T) {
	store := newFakeStore()
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	store.Create(context.Background(), &Event{Title: "Town Hall", StartsAt: now.Add(time.Hour), Published: true})
	h := NewHandlers(NewServiceWithClock(store, func() time.Time { return now }))

	req := httptest.NewRequest(http.MethodGet, "/events", nil)
	rec := httptest.NewRecorder()
	testRouter(h, nil).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var list []PublicEvent
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "Town Hall", list[0].Title)
}

func TestHandleListPublicStorageFaultIsGeneric(t *testing.T) {
	store := newFakeStore()
	store.listErr = apperror.NewDatabaseError("pg: connection refused to 10.0.0.3", nil)
	h := NewHandlers(NewService(store))

	req := httptest.NewRequest(http.MethodGet, "/events", nil)
	rec := httptest.NewRecorder()
	testRouter(h, nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.NotContains(t, rec.Body.String(), "10.0.0.3", "storage detail must not leak")
}

func TestHandleCreateEvent(t *testing.T) {
	store := newFakeStore()
	h := NewHandlers(NewService(store))
	admin := &auth.AuthorizedContext{UserID: 1, Role: auth.RoleAdmin}

	body, _ := json.Marshal(EventDraft{Title: "Town Hall", StartsAt: time.Now().Add(time.Hour)})
	req := httptest.NewRequest(http.MethodPost, "/events", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	testRouter(h, admin).ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var created Event
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.False(t, created.Published)
	assert.NotZero(t, created.ID)
}

func TestHandleCreateEventForbiddenForModerator(t *testing.T) {
	h := NewHandlers(NewService(newFakeStore()))
	moderator := &auth.AuthorizedContext{UserID: 2, Role: auth.RoleModerator}

	body, _ := json.Marshal(EventDraft{Title: "Town Hall", StartsAt: time.Now().Add(time.Hour)})
	req := httptest.NewRequest(http.MethodPost, "/events", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	testRouter(h, moderator).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestHandleSetPublished(t *testing.T) {
	store := newFakeStore()
	h := NewHandlers(NewService(store))
	admin := &auth.AuthorizedContext{UserID: 1, Role: auth.RoleAdmin}
	store.Create(context.Background(), &Event{Title: "Town Hall", StartsAt: time.Now().Add(time.Hour)})

	req := httptest.NewRequest(http.MethodPut, "/events/1/publish", bytes.NewReader([]byte(`{"published": true}`)))
	rec := httptest.NewRecorder()
	testRouter(h, admin).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, store.events[1].Published)
}

func TestHandleSetPublishedValidation(t *testing.T) {
	h := NewHandlers(NewService(newFakeStore()))
	admin := &auth.AuthorizedContext{UserID: 1, Role: auth.RoleAdmin}
	router := testRouter(h, admin)

	// Non-numeric id.
	req := httptest.NewRequest(http.MethodPut, "/events/abc/publish", bytes.NewReader([]byte(`{"published": true}`)))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Missing flag.
	req = httptest.NewRequest(http.MethodPut, "/events/1/publish", bytes.NewReader([]byte(`{}`)))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Unknown event.
	req = httptest.NewRequest(http.MethodPut, "/events/99/publish", bytes.NewReader([]byte(`{"published": true}`)))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
