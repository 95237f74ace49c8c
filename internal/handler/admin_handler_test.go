package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"voteapp/internal/model"
)

func newAdminContext(t *testing.T, pathID, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = &testValidator{v: validator.New()}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(pathID)
	return c, rec
}

// Admin mutations target the account named in the path, unlike the
// self-scoped endpoints.
func TestAdminHandler_TargetsPathID(t *testing.T) {
	targetID := uuid.New()
	target := &model.User{ID: targetID, Email: "target@example.com", IsActive: true}

	t.Run("change name", func(t *testing.T) {
		svc := new(MockUserService)
		svc.On("UpdateName", mock.Anything, targetID, "Renamed").Return(target, nil)
		h := NewAdminHandler(svc)

		c, rec := newAdminContext(t, targetID.String(), `{"name":"Renamed"}`)
		assert.NoError(t, h.ChangeName(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("change email", func(t *testing.T) {
		svc := new(MockUserService)
		svc.On("ChangeEmail", mock.Anything, targetID, "new@example.com").Return(target, nil)
		h := NewAdminHandler(svc)

		c, rec := newAdminContext(t, targetID.String(), `{"email":"new@example.com"}`)
		assert.NoError(t, h.ChangeEmail(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("set password", func(t *testing.T) {
		svc := new(MockUserService)
		svc.On("SetPassword", mock.Anything, targetID, "newpassword456").Return(nil)
		h := NewAdminHandler(svc)

		c, rec := newAdminContext(t, targetID.String(), `{"new_password":"newpassword456"}`)
		assert.NoError(t, h.ChangePassword(c))
		assert.Equal(t, http.StatusNoContent, rec.Code)
		svc.AssertExpectations(t)
	})
}

func TestAdminHandler_InvalidID(t *testing.T) {
	h := NewAdminHandler(new(MockUserService))

	c, _ := newAdminContext(t, "not-a-uuid", `{"name":"x"}`)
	err := h.ChangeName(c)
	he, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}
