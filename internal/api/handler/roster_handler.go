package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/callsheet/production-system/internal/api/metrics"
	"github.com/callsheet/production-system/internal/core/domain"
	"github.com/callsheet/production-system/internal/core/ports"
)

// RosterHandler serves one roster kind of a production. The router registers
// two instances, one per kind, under /cast and /creative.
type RosterHandler struct {
	service ports.RosterService
	kind    domain.RosterKind
}

func NewRosterHandler(service ports.RosterService, kind domain.RosterKind) *RosterHandler {
	return &RosterHandler{service: service, kind: kind}
}

// Add handles POST /v1/productions/:id/{cast|creative}.
//
// @Summary      Add a roster entry
// @Tags         rosters
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                 true  "Production id"
// @Param        body  body  addRosterEntryRequest  true  "Member details"
// @Success      201   {object}  rosterEntryResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/productions/{id}/cast [post]
func (h *RosterHandler) Add(c echo.Context) error {
	actingUserID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req addRosterEntryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	entry, err := h.service.Add(c.Request().Context(), h.kind, c.Param("id"), ports.RosterEntryInput{
		Name:           req.Name,
		ProductionRole: req.ProductionRole,
		Email:          req.Email,
		Phone:          req.Phone,
	}, actingUserID)
	if err != nil {
		return err
	}

	metrics.RosterMutationsTotal.WithLabelValues(string(h.kind), "add").Inc()
	return c.JSON(http.StatusCreated, toRosterEntryResponse(entry))
}

// List handles GET /v1/productions/:id/{cast|creative}.
//
// @Summary      List roster entries, newest first
// @Tags         rosters
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Production id"
// @Success      200  {object}  listRosterResponse
// @Router       /v1/productions/{id}/cast [get]
func (h *RosterHandler) List(c echo.Context) error {
	if _, _, err := ctxIdentity(c); err != nil {
		return err
	}

	entries, err := h.service.FetchAll(c.Request().Context(), h.kind, c.Param("id"))
	if err != nil {
		return err
	}

	data := make([]rosterEntryResponse, 0, len(entries))
	for _, e := range entries {
		data = append(data, toRosterEntryResponse(e))
	}
	return c.JSON(http.StatusOK, listRosterResponse{Data: data})
}

// Update handles PATCH /v1/productions/:id/{cast|creative}/:entry_id.
//
// @Summary      Partially update a roster entry
// @Tags         rosters
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id        path  string                    true  "Production id"
// @Param        entry_id  path  string                    true  "Entry id"
// @Param        body      body  updateRosterEntryRequest  true  "Fields to change"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/productions/{id}/cast/{entry_id} [patch]
func (h *RosterHandler) Update(c echo.Context) error {
	actingUserID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req updateRosterEntryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	patch := ports.RosterEntryPatch{
		Name:           req.Name,
		ProductionRole: req.ProductionRole,
		Email:          req.Email,
		Phone:          req.Phone,
	}
	if err := h.service.Update(c.Request().Context(), h.kind, c.Param("id"), c.Param("entry_id"), patch, actingUserID); err != nil {
		return err
	}

	metrics.RosterMutationsTotal.WithLabelValues(string(h.kind), "update").Inc()
	return c.NoContent(http.StatusNoContent)
}

// Remove handles DELETE /v1/productions/:id/{cast|creative}/:entry_id.
//
// @Summary      Delete a roster entry
// @Tags         rosters
// @Produce      json
// @Security     BearerAuth
// @Param        id        path  string  true  "Production id"
// @Param        entry_id  path  string  true  "Entry id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/productions/{id}/cast/{entry_id} [delete]
func (h *RosterHandler) Remove(c echo.Context) error {
	actingUserID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if err := h.service.Remove(c.Request().Context(), h.kind, c.Param("id"), c.Param("entry_id"), actingUserID); err != nil {
		return err
	}

	metrics.RosterMutationsTotal.WithLabelValues(string(h.kind), "remove").Inc()
	return c.NoContent(http.StatusNoContent)
}
