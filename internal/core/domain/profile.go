package domain

import (
	"errors"
	"time"
)

// Profile is the identity-keyed record for a user. The user id is issued by
// the identity provider and treated as an opaque stable key; one profile
// exists per user id.
type Profile struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	CreatedAt time.Time `json:"created_at"`
	AvatarURL *string   `json:"avatar_url"`
}

var ErrProfileNotFound = errors.New("profile not found")
