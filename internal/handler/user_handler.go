package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"voteapp/internal/auth"
	"voteapp/internal/service"
)

// UserHandler bundles HTTP handlers for user record operations.
type UserHandler struct {
	svc    service.UserService
	tokens auth.TokenIssuer
}

// NewUserHandler creates a handler layer.
func NewUserHandler(svc service.UserService, tokens auth.TokenIssuer) *UserHandler {
	return &UserHandler{svc: svc, tokens: tokens}
}

// CreateUserRequest represents a registration request.
type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name"`
}

// UpdateNameRequest carries a new display name.
type UpdateNameRequest struct {
	Name string `json:"name" validate:"required"`
}

// ChangeEmailRequest carries a new email address.
type ChangeEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ListUsers godoc
// @Summary List users
// @Tags users
// @Produce json
// @Success 200 {array} model.User
// @Router /users/ [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.svc.ListUsers(c.Request().Context())
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, users)
}

// Detail godoc
// @Summary Get own user detail
// @Description Returns the authenticated caller's own record. The path id is ignored.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.User
// @Failure 401 {object} errors.ErrorResponse
// @Router /users/{id}/ [get]
func (h *UserHandler) Detail(c echo.Context) error {
	// self-scoped: the caller's identity wins over the path parameter
	user := auth.CurrentUser(c)
	fresh, err := h.svc.GetUser(c.Request().Context(), user.ID)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, fresh)
}

// Create godoc
// @Summary Register a new user
// @Tags users
// @Accept json
// @Produce json
// @Param request body CreateUserRequest true "Registration data"
// @Success 201 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Router /users/create/ [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.svc.CreateUser(c.Request().Context(), req.Email, req.Password, req.Name)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusCreated, user)
}

// Update godoc
// @Summary Update own display name
// @Description Mutates the authenticated caller's own record. The path id is ignored.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateNameRequest true "New name"
// @Success 200 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /users/{id}/update/ [post]
func (h *UserHandler) Update(c echo.Context) error {
	var req UpdateNameRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user := auth.CurrentUser(c)
	updated, err := h.svc.UpdateName(c.Request().Context(), user.ID, req.Name)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete godoc
// @Summary Delete own account
// @Description Hard-deletes the authenticated caller's own record and revokes the session.
// @Tags users
// @Security BearerAuth
// @Success 204
// @Failure 401 {object} errors.ErrorResponse
// @Router /users/{id}/delete/ [post]
func (h *UserHandler) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	user := auth.CurrentUser(c)
	if err := h.svc.DeleteUser(ctx, user.ID); err != nil {
		return domainError(err)
	}
	// the record is gone; the session token must not outlive it
	_ = h.tokens.Revoke(ctx, auth.CurrentToken(c))
	return c.NoContent(http.StatusNoContent)
}

// ChangeName godoc
// @Summary Change own display name
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateNameRequest true "New name"
// @Success 200 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /users/name/change/ [post]
func (h *UserHandler) ChangeName(c echo.Context) error {
	var req UpdateNameRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user := auth.CurrentUser(c)
	updated, err := h.svc.UpdateName(c.Request().Context(), user.ID, req.Name)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, updated)
}

// ChangeEmail godoc
// @Summary Change own email address
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ChangeEmailRequest true "New email"
// @Success 200 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /users/email/change/ [post]
func (h *UserHandler) ChangeEmail(c echo.Context) error {
	var req ChangeEmailRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user := auth.CurrentUser(c)
	updated, err := h.svc.ChangeEmail(c.Request().Context(), user.ID, req.Email)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, updated)
}

// Inactivate godoc
// @Summary Deactivate own account
// @Description Sets is_active to false. There is no self-service reactivation.
// @Tags users
// @Security BearerAuth
// @Success 204
// @Failure 401 {object} errors.ErrorResponse
// @Router /users/inactivate/ [post]
func (h *UserHandler) Inactivate(c echo.Context) error {
	user := auth.CurrentUser(c)
	if err := h.svc.InactivateUser(c.Request().Context(), user.ID); err != nil {
		return domainError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
