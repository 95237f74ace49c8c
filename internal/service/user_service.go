package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"voteapp/internal/cache"
	apperrors "voteapp/internal/errors"
	"voteapp/internal/model"
	"voteapp/internal/repository"
)

const (
	bcryptCost   = 10
	userCacheTTL = 5 * time.Minute
)

// UserService exposes user record operations. The same methods back both the
// self-service endpoints (handlers pass the caller's own id) and the staff
// endpoints (handlers pass an arbitrary id); authorization is decided before
// the service is reached.
type UserService interface {
	CreateUser(ctx context.Context, email, password, name string) (*model.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	UpdateName(ctx context.Context, id uuid.UUID, name string) (*model.User, error)
	ChangeEmail(ctx context.Context, id uuid.UUID, email string) (*model.User, error)
	SetPassword(ctx context.Context, id uuid.UUID, newPassword string) error
	DeleteUser(ctx context.Context, id uuid.UUID) error
	InactivateUser(ctx context.Context, id uuid.UUID) error
}

type userService struct {
	repo  repository.UserRepository
	cache *cache.Client
}

// NewUserService builds a UserService with repository and cache.
func NewUserService(repo repository.UserRepository, cache *cache.Client) UserService {
	return &userService{repo: repo, cache: cache}
}

func userCacheKey(id uuid.UUID) string {
	return fmt.Sprintf("user:%s", id)
}

// CreateUser hashes the password and persists a new active account. This is
// the only creation path, so a plaintext password can never reach storage.
func (s *userService) CreateUser(ctx context.Context, email, password, name string) (*model.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Email:        email,
		Name:         name,
		PasswordHash: string(hashed),
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	if data, _ := s.cache.Get(ctx, userCacheKey(id)); data != nil {
		var cached model.User
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	user, err := s.findUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(user); err == nil {
		_ = s.cache.Set(ctx, userCacheKey(id), payload, userCacheTTL)
	}
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.repo.List(ctx)
}

func (s *userService) UpdateName(ctx context.Context, id uuid.UUID, name string) (*model.User, error) {
	user, err := s.findUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateFields(ctx, id, map[string]interface{}{"name": name}); err != nil {
		return nil, err
	}
	_ = s.cache.Delete(ctx, userCacheKey(id))
	user.Name = name
	return user, nil
}

func (s *userService) ChangeEmail(ctx context.Context, id uuid.UUID, email string) (*model.User, error) {
	user, err := s.findUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateFields(ctx, id, map[string]interface{}{"email": email}); err != nil {
		return nil, err
	}
	_ = s.cache.Delete(ctx, userCacheKey(id))
	user.Email = email
	return user, nil
}

// SetPassword rehashes without checking the old password. The self-service
// path with the old-password check lives in AuthService.ChangePassword.
func (s *userService) SetPassword(ctx context.Context, id uuid.UUID, newPassword string) error {
	if _, err := s.findUser(ctx, id); err != nil {
		return err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.repo.UpdateFields(ctx, id, map[string]interface{}{"password_hash": string(hashed)}); err != nil {
		return err
	}
	_ = s.cache.Delete(ctx, userCacheKey(id))
	return nil
}

func (s *userService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	user, err := s.findUser(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, user); err != nil {
		return err
	}
	_ = s.cache.Delete(ctx, userCacheKey(id))
	return nil
}

func (s *userService) InactivateUser(ctx context.Context, id uuid.UUID) error {
	if _, err := s.findUser(ctx, id); err != nil {
		return err
	}
	if err := s.repo.UpdateFields(ctx, id, map[string]interface{}{"is_active": false}); err != nil {
		return err
	}
	_ = s.cache.Delete(ctx, userCacheKey(id))
	return nil
}

func (s *userService) findUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
