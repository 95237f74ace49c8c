package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"voteapp/internal/auth"
	"voteapp/internal/config"
	"voteapp/internal/handler"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	authMW *auth.Middleware,
	userHandler *handler.UserHandler,
	authHandler *handler.AuthHandler,
	adminHandler *handler.AdminHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	users := e.Group("/users")

	// Public routes
	users.GET("/", userHandler.ListUsers)
	users.POST("/create/", userHandler.Create)
	users.POST("/login/", authHandler.Login)
	users.POST("/password/reset/", authHandler.PasswordReset)
	users.POST("/password/reset/confirm/", authHandler.PasswordResetConfirm)

	// Authenticated routes. Detail, update and delete are self-scoped: the
	// path id is accepted for URL stability but the caller's own record is
	// always the target.
	users.GET("/:id/", userHandler.Detail, authMW.RequireAuth)
	users.POST("/:id/update/", userHandler.Update, authMW.RequireAuth)
	users.POST("/:id/delete/", userHandler.Delete, authMW.RequireAuth)
	users.POST("/logout/", authHandler.Logout, authMW.RequireAuth)
	users.POST("/password/change/", authHandler.ChangePassword, authMW.RequireAuth)
	users.POST("/email/change/", userHandler.ChangeEmail, authMW.RequireAuth)
	users.POST("/name/change/", userHandler.ChangeName, authMW.RequireAuth)
	users.POST("/inactivate/", userHandler.Inactivate, authMW.RequireAuth)

	// Staff-only routes targeting arbitrary accounts
	admin := e.Group("/admin/users", authMW.RequireAuth, authMW.RequireStaff)
	admin.POST("/:id/name/", adminHandler.ChangeName)
	admin.POST("/:id/email/", adminHandler.ChangeEmail)
	admin.POST("/:id/password/", adminHandler.ChangePassword)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
