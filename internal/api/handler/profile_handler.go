package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/callsheet/production-system/internal/core/ports"
)

// ProfileHandler serves the authenticated user's own profile. Profiles belong
// to their owner; other users' profiles are not exposed.
type ProfileHandler struct {
	service ports.ProfileService
}

func NewProfileHandler(service ports.ProfileService) *ProfileHandler {
	return &ProfileHandler{service: service}
}

type setProfileRequest struct {
	Email     string  `json:"email"      validate:"required,email"`
	FullName  string  `json:"full_name"  validate:"required"`
	AvatarURL *string `json:"avatar_url"`
}

// Get handles GET /v1/profile.
//
// @Summary      Get own profile
// @Tags         profile
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.Profile
// @Failure      404  {object}  errorResponse
// @Router       /v1/profile [get]
func (h *ProfileHandler) Get(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	profile, err := h.service.Get(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

// Set handles PUT /v1/profile — a full-replace upsert of the caller's profile.
//
// @Summary      Create or replace own profile
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      setProfileRequest  true  "Profile fields"
// @Success      200   {object}  domain.Profile
// @Failure      400   {object}  errorResponse
// @Router       /v1/profile [put]
func (h *ProfileHandler) Set(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req setProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	profile, err := h.service.Set(c.Request().Context(), userID, ports.ProfileInput{
		Email:     req.Email,
		FullName:  req.FullName,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}
