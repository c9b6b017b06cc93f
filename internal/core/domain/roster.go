package domain

import (
	"errors"
	"time"
)

// RosterKind selects which member roster of a production an operation targets.
type RosterKind string

const (
	RosterCast     RosterKind = "cast"
	RosterCreative RosterKind = "creative"
)

// Valid reports whether k names a known roster.
func (k RosterKind) Valid() bool {
	return k == RosterCast || k == RosterCreative
}

// Collection returns the backing collection name for the kind.
func (k RosterKind) Collection() string {
	if k == RosterCreative {
		return "creative_members"
	}
	return "cast_members"
}

// RosterEntry is a cast or creative member attached to exactly one production.
// Duplicate names, roles, and emails are allowed.
type RosterEntry struct {
	ID             string    `json:"id"`
	ProductionID   string    `json:"-"`
	Name           string    `json:"name"`
	ProductionRole string    `json:"production_role"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

var ErrEntryNotFound = errors.New("roster entry not found")
