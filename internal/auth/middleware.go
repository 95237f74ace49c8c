package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"voteapp/internal/model"
	"voteapp/internal/repository"
)

const (
	contextUserKey  = "current_user"
	contextTokenKey = "current_token"
)

// Middleware resolves opaque bearer tokens to user records. Session tokens
// are plain store lookups, not JWTs, so validity is decided entirely by the
// token store: a revoked or expired token is simply absent.
type Middleware struct {
	tokens TokenIssuer
	users  repository.UserRepository
}

// NewMiddleware creates the auth middleware.
func NewMiddleware(tokens TokenIssuer, users repository.UserRepository) *Middleware {
	return &Middleware{tokens: tokens, users: users}
}

// RequireAuth rejects requests without a valid bearer token and stashes the
// authenticated user in the request context. Inactive users are rejected
// even when their token is still live.
func (m *Middleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := bearerToken(c)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing or malformed authorization header")
		}

		ctx := c.Request().Context()
		userID, err := m.tokens.Resolve(ctx, token)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
		}

		user, err := m.users.FindByID(ctx, userID)
		if err != nil {
			// token outlived the record
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
		}
		if !user.IsActive {
			return echo.NewHTTPError(http.StatusUnauthorized, "user inactive or deleted")
		}

		c.Set(contextUserKey, user)
		c.Set(contextTokenKey, token)
		return next(c)
	}
}

// RequireStaff rejects non-staff callers. Must run after RequireAuth.
func (m *Middleware) RequireStaff(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user := CurrentUser(c)
		if user == nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
		}
		if !user.IsStaff {
			return echo.NewHTTPError(http.StatusForbidden, "staff access required")
		}
		return next(c)
	}
}

// CurrentUser returns the authenticated user stored by RequireAuth, or nil.
func CurrentUser(c echo.Context) *model.User {
	user, _ := c.Get(contextUserKey).(*model.User)
	return user
}

// CurrentToken returns the bearer token the request authenticated with.
func CurrentToken(c echo.Context) string {
	token, _ := c.Get(contextTokenKey).(string)
	return token
}

// SetCurrentUser stashes an authenticated user, bypassing token resolution.
// Exported for handler tests.
func SetCurrentUser(c echo.Context, user *model.User, token string) {
	c.Set(contextUserKey, user)
	c.Set(contextTokenKey, token)
}

func bearerToken(c echo.Context) (string, bool) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}
