package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"voteapp/internal/auth"
	"voteapp/internal/cache"
	apperrors "voteapp/internal/errors"
	"voteapp/internal/mailer"
	"voteapp/internal/model"
	"voteapp/internal/repository"
)

// AuthService handles sessions and password flows.
type AuthService interface {
	Login(ctx context.Context, email, password string) (token string, user *model.User, err error)
	Logout(ctx context.Context, token string) error
	ChangePassword(ctx context.Context, user *model.User, oldPassword, newPassword string) error
	RequestPasswordReset(ctx context.Context, email string) error
	ConfirmPasswordReset(ctx context.Context, token, newPassword string) error
}

type authService struct {
	repo   repository.UserRepository
	tokens auth.TokenIssuer
	resets *auth.ResetTokenService
	mail   mailer.Mailer
	cache  *cache.Client
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	repo repository.UserRepository,
	tokens auth.TokenIssuer,
	resets *auth.ResetTokenService,
	mail mailer.Mailer,
	cache *cache.Client,
) AuthService {
	return &authService{repo: repo, tokens: tokens, resets: resets, mail: mail, cache: cache}
}

// Login authenticates by email and password and issues an opaque bearer
// token. Inactive accounts are reported as inactive regardless of whether
// the password matches, so the active check runs first. last_login is
// touched here and nowhere else.
func (s *authService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, apperrors.ErrInvalidCredentials
	}

	if !user.IsActive {
		return "", nil, apperrors.ErrUserInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, apperrors.ErrInvalidCredentials
	}

	now := time.Now()
	if err := s.repo.UpdateFields(ctx, user.ID, map[string]interface{}{"last_login": now}); err != nil {
		return "", nil, fmt.Errorf("record login time: %w", err)
	}
	user.LastLogin = &now
	_ = s.cache.Delete(ctx, userCacheKey(user.ID))

	token, err := s.tokens.Issue(ctx, user.ID)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return token, user, nil
}

// Logout invalidates the caller's current token.
func (s *authService) Logout(ctx context.Context, token string) error {
	return s.tokens.Revoke(ctx, token)
}

// ChangePassword verifies the old password, rejects a no-op change, and
// rehashes. The old-password check runs before the same-password check so a
// wrong old password is always reported as such.
func (s *authService) ChangePassword(ctx context.Context, user *model.User, oldPassword, newPassword string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return apperrors.ErrWrongOldPassword
	}
	if oldPassword == newPassword {
		return apperrors.ErrSamePassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.repo.UpdateFields(ctx, user.ID, map[string]interface{}{"password_hash": string(hashed)}); err != nil {
		return err
	}
	_ = s.cache.Delete(ctx, userCacheKey(user.ID))
	return nil
}

// RequestPasswordReset emails a signed, short-lived reset token to the
// account owner. Unknown emails are reported as not found, matching the
// external contract.
func (s *authService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFound
		}
		return err
	}

	token, err := s.resets.Generate(user.ID)
	if err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}
	if err := s.mail.SendPasswordReset(ctx, user.Email, user.Name, token); err != nil {
		log.Printf("send reset mail to %s: %v", user.Email, err)
		return fmt.Errorf("send reset mail: %w", err)
	}
	return nil
}

// ConfirmPasswordReset exchanges a valid reset token for a rehash. Existing
// sessions are not revoked.
func (s *authService) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	userID, err := s.resets.Validate(token)
	if err != nil {
		return apperrors.ErrInvalidResetToken
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		// account deleted between request and confirm
		return apperrors.ErrInvalidResetToken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.repo.UpdateFields(ctx, user.ID, map[string]interface{}{"password_hash": string(hashed)}); err != nil {
		return err
	}
	_ = s.cache.Delete(ctx, userCacheKey(user.ID))
	return nil
}
