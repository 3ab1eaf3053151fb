// Data transfer objects for the events endpoints.
package events

import "time"

// EventDraft is the admin-supplied shape of a new event. Publish defaults to
// false; a draft may request immediate publication explicitly.
type EventDraft struct {
	Title       string    `json:"title" example:"Town Hall"`
	Description string    `json:"description" example:"Quarterly community meeting"`
	Location    string    `json:"location" example:"Main auditorium"`
	StartsAt    time.Time `json:"starts_at" example:"2026-10-01T18:00:00Z"`
	Publish     bool      `json:"publish"`
}

// PublicEvent is the projection served to unauthenticated readers. The
// published flag itself is not exposed: everything in a public listing is by
// definition published.
type PublicEvent struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	StartsAt    time.Time `json:"starts_at"`
}

// SetPublishedRequest is the publish-toggle payload.
type SetPublishedRequest struct {
	Published *bool `json:"published"`
}

func toPublic(e *Event) PublicEvent {
	return PublicEvent{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Location:    e.Location,
		StartsAt:    e.StartsAt,
	}
}
