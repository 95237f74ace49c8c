package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestResetTokenService_RoundTrip(t *testing.T) {
	svc := NewResetTokenService("test-secret")
	userID := uuid.New()

	token, err := svc.Generate(userID)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	resolved, err := svc.Validate(token)
	assert.NoError(t, err)
	assert.Equal(t, userID, resolved)
}

func TestResetTokenService_WrongSecret(t *testing.T) {
	token, err := NewResetTokenService("secret-a").Generate(uuid.New())
	assert.NoError(t, err)

	_, err = NewResetTokenService("secret-b").Validate(token)
	assert.Error(t, err)
}

func TestResetTokenService_Garbage(t *testing.T) {
	_, err := NewResetTokenService("test-secret").Validate("not-a-token")
	assert.Error(t, err)
}

func TestResetTokenService_Expired(t *testing.T) {
	// sign an already-expired token with the service's secret
	claims := &ResetClaims{
		UserID:  uuid.New().String(),
		Purpose: "password_reset",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	assert.NoError(t, err)

	_, err = NewResetTokenService("test-secret").Validate(token)
	assert.Error(t, err)
}

func TestResetTokenService_WrongPurpose(t *testing.T) {
	claims := &ResetClaims{
		UserID:  uuid.New().String(),
		Purpose: "session",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	assert.NoError(t, err)

	_, err = NewResetTokenService("test-secret").Validate(token)
	assert.Error(t, err)
}
