// Package events owns Event entities and their visibility state.
// This file defines the domain model.
package events

import "time"

// Event is a piece of publishable content. Whether it is publicly visible is
// never stored: it is derived per read from Published and StartsAt, so an
// event drops out of the public listing the moment it starts without any
// further mutation.
type Event struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	StartsAt    time.Time `json:"starts_at"`
	Published   bool      `json:"published"`
	CreatedBy   int       `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// Visible reports whether the event satisfies the derived-visibility
// predicate at the given instant.
func (e *Event) Visible(now time.Time) bool {
	return e.Published && !e.StartsAt.Before(now)
}
