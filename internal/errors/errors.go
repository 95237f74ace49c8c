package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrUserNotFound is returned when a user record does not exist.
	ErrUserNotFound = errors.New("user does not exist")
	// ErrDuplicateEmail is returned when an email address is already taken.
	ErrDuplicateEmail = errors.New("email already exists")
	// ErrInvalidCredentials is returned when email or password is incorrect.
	ErrInvalidCredentials = errors.New("unable to login with given credentials")
	// ErrUserInactive is returned when the account has been deactivated.
	ErrUserInactive = errors.New("user is not active")
	// ErrWrongOldPassword is returned when the supplied old password does not match.
	ErrWrongOldPassword = errors.New("old password is incorrect")
	// ErrSamePassword is returned when the new password equals the old one.
	ErrSamePassword = errors.New("new password must be different from old password")
	// ErrInvalidResetToken is returned when a password reset token is invalid or expired.
	ErrInvalidResetToken = errors.New("invalid or expired reset token")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	switch err {
	case ErrUserNotFound:
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case ErrDuplicateEmail:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "DUPLICATE_EMAIL")
	case ErrInvalidCredentials:
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_CREDENTIALS")
	case ErrUserInactive:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "USER_INACTIVE")
	case ErrWrongOldPassword:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "WRONG_OLD_PASSWORD")
	case ErrSamePassword:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "SAME_PASSWORD")
	case ErrInvalidResetToken:
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_RESET_TOKEN")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
