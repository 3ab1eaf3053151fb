// Package events is the content publication store: admins author and toggle
// events, the public reads only published, not-yet-started ones.
// This file contains the business logic ("Service" layer).
package events

import (
	"context"
	"strings"
	"time"

	"github.com/user/townhall-go/apperror"
	"github.com/user/townhall-go/auth"
)

// Service provides event publication operations. The clock is injected so
// the time-sensitive visibility predicate can be tested deterministically.
type Service struct {
	store Store
	now   func() time.Time
}

// NewService creates a Service using the wall clock.
func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// NewServiceWithClock creates a Service on an explicit clock.
func NewServiceWithClock(store Store, now func() time.Time) *Service {
	return &Service{store: store, now: now}
}

// ListPublic returns the publicly visible events, ascending by start time.
// Visibility is recomputed against the current time on every call; it is
// never cached, since a cached answer goes stale exactly when an event
// starts.
func (s *Service) ListPublic(ctx context.Context) ([]PublicEvent, error) {
	visible, err := s.store.ListVisible(ctx, s.now())
	if err != nil {
		return nil, err
	}

	result := make([]PublicEvent, 0, len(visible))
	for i := range visible {
		result = append(result, toPublic(&visible[i]))
	}
	return result, nil
}

// CreateEvent constructs a new event from an admin's draft. The event starts
// unpublished unless the draft requests immediate publication. The gate runs
// before anything is written; no partial mutation happens on a failed check.
func (s *Service) CreateEvent(ctx context.Context, draft EventDraft) (*Event, error) {
	actor, err := auth.RequireAdmin(ctx)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(draft.Title) == "" {
		return nil, apperror.NewBadRequestError("title is required", nil)
	}
	if draft.StartsAt.IsZero() {
		return nil, apperror.NewBadRequestError("starts_at is required", nil)
	}

	return s.store.Create(ctx, &Event{
		Title:       draft.Title,
		Description: draft.Description,
		Location:    draft.Location,
		StartsAt:    draft.StartsAt,
		Published:   draft.Publish,
		CreatedBy:   actor.UserID,
	})
}

// SetPublished toggles an event's publish flag. Admin-gated, NotFound for a
// missing id, and idempotent: setting the current value again succeeds
// without observable change.
func (s *Service) SetPublished(ctx context.Context, eventID int, published bool) (*Event, error) {
	if _, err := auth.RequireAdmin(ctx); err != nil {
		return nil, err
	}
	return s.store.SetPublished(ctx, eventID, published)
}
