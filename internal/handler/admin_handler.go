package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"voteapp/internal/service"
)

// AdminHandler applies field-level mutations to arbitrary accounts. Routes
// using it sit behind the staff guard.
type AdminHandler struct {
	svc service.UserService
}

// NewAdminHandler creates an admin handler.
func NewAdminHandler(svc service.UserService) *AdminHandler {
	return &AdminHandler{svc: svc}
}

// AdminSetPasswordRequest carries a replacement password.
type AdminSetPasswordRequest struct {
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

// ChangeName godoc
// @Summary Change a user's display name (staff)
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param request body UpdateNameRequest true "New name"
// @Success 200 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/users/{id}/name/ [post]
func (h *AdminHandler) ChangeName(c echo.Context) error {
	id, err := targetID(c)
	if err != nil {
		return err
	}
	var req UpdateNameRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	updated, err := h.svc.UpdateName(c.Request().Context(), id, req.Name)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, updated)
}

// ChangeEmail godoc
// @Summary Change a user's email address (staff)
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param request body ChangeEmailRequest true "New email"
// @Success 200 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/users/{id}/email/ [post]
func (h *AdminHandler) ChangeEmail(c echo.Context) error {
	id, err := targetID(c)
	if err != nil {
		return err
	}
	var req ChangeEmailRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	updated, err := h.svc.ChangeEmail(c.Request().Context(), id, req.Email)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, updated)
}

// ChangePassword godoc
// @Summary Set a user's password (staff)
// @Description Replaces the password without an old-password check.
// @Tags admin
// @Accept json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param request body AdminSetPasswordRequest true "New password"
// @Success 204
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/users/{id}/password/ [post]
func (h *AdminHandler) ChangePassword(c echo.Context) error {
	id, err := targetID(c)
	if err != nil {
		return err
	}
	var req AdminSetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.svc.SetPassword(c.Request().Context(), id, req.NewPassword); err != nil {
		return domainError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func targetID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}
	return id, nil
}
