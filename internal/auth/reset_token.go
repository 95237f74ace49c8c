package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// ResetTokenExpiry is the duration for which password reset tokens are valid.
const ResetTokenExpiry = 15 * time.Minute

const resetPurpose = "password_reset"

// ResetClaims represents password reset token claims.
type ResetClaims struct {
	UserID  string `json:"user_id"`
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// ResetTokenService signs and validates short-lived password reset tokens.
// These are separate from session tokens: they are stateless, bound to one
// purpose, and expire on their own.
type ResetTokenService struct {
	secret []byte
}

// NewResetTokenService creates a reset token service with the given secret.
func NewResetTokenService(secret string) *ResetTokenService {
	return &ResetTokenService{secret: []byte(secret)}
}

// Generate signs a reset token for the user.
func (s *ResetTokenService) Generate(userID uuid.UUID) (string, error) {
	claims := &ResetClaims{
		UserID:  userID.String(),
		Purpose: resetPurpose,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ResetTokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Validate checks a reset token and returns the user id it was issued for.
func (s *ResetTokenService) Validate(tokenString string) (uuid.UUID, error) {
	token, err := jwt.ParseWithClaims(tokenString, &ResetClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return uuid.Nil, err
	}

	claims, ok := token.Claims.(*ResetClaims)
	if !ok || !token.Valid {
		return uuid.Nil, errors.New("invalid token")
	}
	if claims.Purpose != resetPurpose {
		return uuid.Nil, errors.New("invalid token purpose")
	}
	return uuid.Parse(claims.UserID)
}
