package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "session_token:"

// ErrTokenNotFound is returned when a bearer token is unknown, expired or revoked.
var ErrTokenNotFound = errors.New("session token not found")

// TokenIssuer mints and invalidates opaque bearer tokens for authenticated
// sessions. Token validity is exactly "present in the store", so revocation
// takes effect immediately.
type TokenIssuer interface {
	Issue(ctx context.Context, userID uuid.UUID) (string, error)
	Resolve(ctx context.Context, token string) (uuid.UUID, error)
	Revoke(ctx context.Context, token string) error
}

// RedisTokenStore maps opaque tokens to user ids in Redis with a TTL.
type RedisTokenStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// Ensure RedisTokenStore implements TokenIssuer
var _ TokenIssuer = (*RedisTokenStore)(nil)

// NewTokenStore creates a Redis-backed token store.
func NewTokenStore(rdb *redis.Client, ttl time.Duration) *RedisTokenStore {
	return &RedisTokenStore{rdb: rdb, ttl: ttl}
}

// Issue mints a fresh token for the user. The token is a v4 UUID, which is
// unguessable and never reused.
func (s *RedisTokenStore) Issue(ctx context.Context, userID uuid.UUID) (string, error) {
	token := uuid.New().String()
	key := sessionKeyPrefix + token
	if err := s.rdb.Set(ctx, key, userID.String(), s.ttl).Err(); err != nil {
		return "", err
	}
	return token, nil
}

// Resolve returns the user id a token was issued to.
func (s *RedisTokenStore) Resolve(ctx context.Context, token string) (uuid.UUID, error) {
	key := sessionKeyPrefix + token
	val, err := s.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return uuid.Nil, ErrTokenNotFound
	}
	if err != nil {
		return uuid.Nil, err
	}
	userID, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, ErrTokenNotFound
	}
	return userID, nil
}

// Revoke invalidates a token. Revoking an unknown token is not an error.
func (s *RedisTokenStore) Revoke(ctx context.Context, token string) error {
	return s.rdb.Del(ctx, sessionKeyPrefix+token).Err()
}
