package handler

import (
	"time"

	"github.com/callsheet/production-system/internal/core/domain"
)

type addRosterEntryRequest struct {
	Name           string `json:"name"            validate:"required"`
	ProductionRole string `json:"production_role" validate:"required"`
	Email          string `json:"email"           validate:"required,email"`
	Phone          string `json:"phone"`
}

// updateRosterEntryRequest carries a partial update; absent fields stay
// untouched.
type updateRosterEntryRequest struct {
	Name           *string `json:"name"`
	ProductionRole *string `json:"production_role"`
	Email          *string `json:"email" validate:"omitempty,email"`
	Phone          *string `json:"phone"`
}

type rosterEntryResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	ProductionRole string    `json:"production_role"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

type listRosterResponse struct {
	Data []rosterEntryResponse `json:"data"`
}

func toRosterEntryResponse(e *domain.RosterEntry) rosterEntryResponse {
	return rosterEntryResponse{
		ID:             e.ID,
		Name:           e.Name,
		ProductionRole: e.ProductionRole,
		Email:          e.Email,
		Phone:          e.Phone,
		CreatedAt:      e.CreatedAt,
	}
}
