package domain

import (
	"errors"
	"time"
)

// Admin identifies a user who may mutate a production's membership and rosters.
type Admin struct {
	ID   string `json:"id" bson:"id"`
	Name string `json:"name" bson:"name"`
}

// Production is the core aggregate root: one creator, a never-empty admin set,
// and two member rosters attached as child collections.
type Production struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Producer  string    `json:"producer"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	Admins    []Admin   `json:"admins"`
	// Version is the optimistic-concurrency token compared on admin-set writes.
	// Not part of the API surface.
	Version int64 `json:"-"`
}

var ErrProductionNotFound = errors.New("production not found")
var ErrLastAdmin = errors.New("cannot remove the last admin")
var ErrNotAuthorized = errors.New("not authorized")
var ErrConcurrentUpdate = errors.New("concurrent update")
var ErrStoreUnavailable = errors.New("document store unavailable")

// HasAdmin reports whether userID is present in the admin set.
func (p *Production) HasAdmin(userID string) bool {
	for _, a := range p.Admins {
		if a.ID == userID {
			return true
		}
	}
	return false
}

// VisibleTo reports whether userID may see this production: the user is the
// creator or a current admin.
func (p *Production) VisibleTo(userID string) bool {
	return p.CreatedBy == userID || p.HasAdmin(userID)
}
