package models

import (
	"time"

	"github.com/google/uuid"
)

// UserInactivityExpiry forces re-entry of the user name after this much
// inactivity. The profile only tags activity entries; it is not an
// authentication mechanism.
const UserInactivityExpiry = 24 * time.Hour

// UserProfile is the lightweight local identity used to tag activities.
type UserProfile struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	CreatedAt  time.Time `json:"created_at"`
	LastActive time.Time `json:"last_active"`
}

// NewUserProfile creates a profile for the given display name.
func NewUserProfile(name string) *UserProfile {
	now := time.Now()
	return &UserProfile{
		ID:         uuid.NewString(),
		Name:       name,
		CreatedAt:  now,
		LastActive: now,
	}
}

// Expired reports whether the profile aged out through inactivity.
func (u *UserProfile) Expired(now time.Time) bool {
	return now.Sub(u.LastActive) > UserInactivityExpiry
}
