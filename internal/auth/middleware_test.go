package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"voteapp/internal/model"
)

// mockUserRepository is a mock implementation of repository.UserRepository.
type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *mockUserRepository) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *mockUserRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
}

func (m *mockUserRepository) Delete(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func newAuthContext(header string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func okHandler(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func TestMiddleware_RequireAuth(t *testing.T) {
	userID := uuid.New()

	t.Run("missing header", func(t *testing.T) {
		store, _ := newTestStore(t, time.Hour)
		mw := NewMiddleware(store, new(mockUserRepository))

		c, _ := newAuthContext("")
		err := mw.RequireAuth(okHandler)(c)
		he, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusUnauthorized, he.Code)
	})

	t.Run("unknown token", func(t *testing.T) {
		store, _ := newTestStore(t, time.Hour)
		mw := NewMiddleware(store, new(mockUserRepository))

		c, _ := newAuthContext("Bearer " + uuid.New().String())
		err := mw.RequireAuth(okHandler)(c)
		he, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusUnauthorized, he.Code)
	})

	t.Run("valid token resolves the user", func(t *testing.T) {
		store, _ := newTestStore(t, time.Hour)
		token, err := store.Issue(context.Background(), userID)
		assert.NoError(t, err)

		repo := new(mockUserRepository)
		repo.On("FindByID", mock.Anything, userID).Return(&model.User{ID: userID, IsActive: true}, nil)
		mw := NewMiddleware(store, repo)

		c, rec := newAuthContext("Bearer " + token)
		assert.NoError(t, mw.RequireAuth(func(c echo.Context) error {
			assert.Equal(t, userID, CurrentUser(c).ID)
			assert.Equal(t, token, CurrentToken(c))
			return okHandler(c)
		})(c))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("token for a deleted user", func(t *testing.T) {
		store, _ := newTestStore(t, time.Hour)
		token, err := store.Issue(context.Background(), userID)
		assert.NoError(t, err)

		repo := new(mockUserRepository)
		repo.On("FindByID", mock.Anything, userID).Return(nil, gorm.ErrRecordNotFound)
		mw := NewMiddleware(store, repo)

		c, _ := newAuthContext("Bearer " + token)
		err = mw.RequireAuth(okHandler)(c)
		he, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusUnauthorized, he.Code)
	})

	t.Run("inactive user is rejected despite a live token", func(t *testing.T) {
		store, _ := newTestStore(t, time.Hour)
		token, err := store.Issue(context.Background(), userID)
		assert.NoError(t, err)

		repo := new(mockUserRepository)
		repo.On("FindByID", mock.Anything, userID).Return(&model.User{ID: userID, IsActive: false}, nil)
		mw := NewMiddleware(store, repo)

		c, _ := newAuthContext("Bearer " + token)
		err = mw.RequireAuth(okHandler)(c)
		he, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusUnauthorized, he.Code)
	})
}

func TestMiddleware_RequireStaff(t *testing.T) {
	mw := NewMiddleware(nil, nil)

	t.Run("staff allowed", func(t *testing.T) {
		c, rec := newAuthContext("")
		SetCurrentUser(c, &model.User{ID: uuid.New(), IsStaff: true, IsActive: true}, "tok")
		assert.NoError(t, mw.RequireStaff(okHandler)(c))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("non-staff forbidden", func(t *testing.T) {
		c, _ := newAuthContext("")
		SetCurrentUser(c, &model.User{ID: uuid.New(), IsStaff: false, IsActive: true}, "tok")
		err := mw.RequireStaff(okHandler)(c)
		he, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusForbidden, he.Code)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		c, _ := newAuthContext("")
		err := mw.RequireStaff(okHandler)(c)
		he, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusUnauthorized, he.Code)
	})
}
