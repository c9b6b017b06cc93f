package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/callsheet/production-system/internal/api/metrics"
	"github.com/callsheet/production-system/internal/core/ports"
)

// ProductionHandler handles HTTP requests for productions and their admin set.
type ProductionHandler struct {
	service ports.ProductionService
}

func NewProductionHandler(service ports.ProductionService) *ProductionHandler {
	return &ProductionHandler{service: service}
}

// Create handles POST /v1/productions.
//
// @Summary      Create a production
// @Tags         productions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createProductionRequest  true  "Production details"
// @Success      201   {object}  productionResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/productions [post]
func (h *ProductionHandler) Create(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req createProductionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	production, err := h.service.Create(c.Request().Context(), ports.CreateProductionInput{
		Title:    req.Title,
		Producer: req.Producer,
	}, userID)
	if err != nil {
		return err
	}

	metrics.ProductionsCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, toProductionResponse(production))
}

// List handles GET /v1/productions — productions visible to the caller.
//
// @Summary      List productions visible to the caller
// @Tags         productions
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listProductionsResponse
// @Router       /v1/productions [get]
func (h *ProductionHandler) List(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	productions, err := h.service.FetchVisibleTo(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	data := make([]productionResponse, 0, len(productions))
	for _, p := range productions {
		data = append(data, toProductionResponse(p))
	}
	return c.JSON(http.StatusOK, listProductionsResponse{Data: data})
}

// Get handles GET /v1/productions/:id.
//
// @Summary      Get a production by id
// @Tags         productions
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Production id"
// @Success      200  {object}  productionResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/productions/{id} [get]
func (h *ProductionHandler) Get(c echo.Context) error {
	if _, _, err := ctxIdentity(c); err != nil {
		return err
	}

	production, err := h.service.FetchByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProductionResponse(production))
}

// AddAdmin handles POST /v1/productions/:id/admins.
//
// @Summary      Add an admin to a production
// @Tags         productions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string           true  "Production id"
// @Param        body  body  addAdminRequest  true  "User to add"
// @Success      204
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/productions/{id}/admins [post]
func (h *ProductionHandler) AddAdmin(c echo.Context) error {
	actingUserID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req addAdminRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.service.AddAdmin(c.Request().Context(), c.Param("id"), req.UserID, actingUserID); err != nil {
		return err
	}

	metrics.AdminMutationsTotal.WithLabelValues("add").Inc()
	return c.NoContent(http.StatusNoContent)
}

// RemoveAdmin handles DELETE /v1/productions/:id/admins/:user_id.
//
// @Summary      Remove an admin from a production
// @Tags         productions
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  string  true  "Production id"
// @Param        user_id  path  string  true  "User to remove"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /v1/productions/{id}/admins/{user_id} [delete]
func (h *ProductionHandler) RemoveAdmin(c echo.Context) error {
	actingUserID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if err := h.service.RemoveAdmin(c.Request().Context(), c.Param("id"), c.Param("user_id"), actingUserID); err != nil {
		return err
	}

	metrics.AdminMutationsTotal.WithLabelValues("remove").Inc()
	return c.NoContent(http.StatusNoContent)
}

// IsAdmin handles GET /v1/productions/:id/admins/:user_id.
//
// @Summary      Check whether a user is an admin of a production
// @Tags         productions
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  string  true  "Production id"
// @Param        user_id  path  string  true  "User to check"
// @Success      200  {object}  isAdminResponse
// @Router       /v1/productions/{id}/admins/{user_id} [get]
func (h *ProductionHandler) IsAdmin(c echo.Context) error {
	if _, _, err := ctxIdentity(c); err != nil {
		return err
	}

	isAdmin, err := h.service.IsAdmin(c.Request().Context(), c.Param("id"), c.Param("user_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, isAdminResponse{IsAdmin: isAdmin})
}
