package handler

import (
	"time"

	"github.com/callsheet/production-system/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx
// responses; the actual rendering happens in the central error handler.
type errorResponse struct {
	Error string `json:"error"`
}

type createProductionRequest struct {
	Title    string `json:"title"    validate:"required"`
	Producer string `json:"producer" validate:"required"`
}

type addAdminRequest struct {
	UserID string `json:"user_id" validate:"required"`
}

type adminResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type productionResponse struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Producer  string          `json:"producer"`
	CreatedBy string          `json:"created_by"`
	CreatedAt time.Time       `json:"created_at"`
	Admins    []adminResponse `json:"admins"`
}

type listProductionsResponse struct {
	Data []productionResponse `json:"data"`
}

type isAdminResponse struct {
	IsAdmin bool `json:"is_admin"`
}

func toProductionResponse(p *domain.Production) productionResponse {
	admins := make([]adminResponse, 0, len(p.Admins))
	for _, a := range p.Admins {
		admins = append(admins, adminResponse{ID: a.ID, Name: a.Name})
	}
	return productionResponse{
		ID:        p.ID,
		Title:     p.Title,
		Producer:  p.Producer,
		CreatedBy: p.CreatedBy,
		CreatedAt: p.CreatedAt,
		Admins:    admins,
	}
}
