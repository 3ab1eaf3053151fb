// Package auth handles session resolution and authorization.
// This file defines the User entity and the role tiers it can hold.
package auth

import "time"

// Privilege tiers. Only ADMIN may mutate published content or provision
// further ADMIN accounts; MODERATOR is the provisioning default.
const (
	RoleAdmin     = "ADMIN"
	RoleModerator = "MODERATOR"
)

// ValidRole reports whether s names a known privilege tier.
func ValidRole(s string) bool {
	return s == RoleAdmin || s == RoleModerator
}

// User represents a moderator or administrator account.
// The `json:"-"` tag keeps the password hash out of every API response.
type User struct {
	ID             int       `json:"id"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"` // never exposed
	Role           string    `json:"role"`
	CreatedAt      time.Time `json:"created_at"`
}
