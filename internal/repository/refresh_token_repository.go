package repository

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const refreshTokenPrefix = "refresh:"

// RefreshTokenRepository stores refresh tokens server-side so logout can
// revoke them. Tokens expire via Redis TTL.
type RefreshTokenRepository interface {
	Store(ctx context.Context, token, userID string, ttl time.Duration) error
	// Lookup returns the owning user id, or redis.Nil when the token is
	// unknown or expired.
	Lookup(ctx context.Context, token string) (string, error)
	Revoke(ctx context.Context, token string) error
}

type refreshTokenRepository struct {
	client *redis.Client
}

// NewRefreshTokenRepository returns a Redis-backed implementation.
func NewRefreshTokenRepository(client *redis.Client) RefreshTokenRepository {
	return &refreshTokenRepository{client: client}
}

func (r *refreshTokenRepository) Store(ctx context.Context, token, userID string, ttl time.Duration) error {
	return r.client.Set(ctx, refreshTokenPrefix+token, userID, ttl).Err()
}

func (r *refreshTokenRepository) Lookup(ctx context.Context, token string) (string, error) {
	return r.client.Get(ctx, refreshTokenPrefix+token).Result()
}

func (r *refreshTokenRepository) Revoke(ctx context.Context, token string) error {
	return r.client.Del(ctx, refreshTokenPrefix+token).Err()
}
