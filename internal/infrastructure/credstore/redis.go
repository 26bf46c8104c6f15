package credstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/w3bpiyush/pustakghar/domain"
)

const redisTokenKey = "auth:token"

// Redis stores the token in a single Redis key, optionally expiring.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis creates a Redis-backed store. A zero ttl means the token
// does not expire.
func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

// Get implements domain.CredentialStore.
func (r *Redis) Get(ctx context.Context) (string, error) {
	token, err := r.client.Get(ctx, redisTokenKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read token from redis: %w", err)
	}
	return token, nil
}

// Set implements domain.CredentialStore.
func (r *Redis) Set(ctx context.Context, token string) error {
	if err := r.client.Set(ctx, redisTokenKey, token, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store token in redis: %w", err)
	}
	return nil
}

// Delete implements domain.CredentialStore.
func (r *Redis) Delete(ctx context.Context) error {
	if err := r.client.Del(ctx, redisTokenKey).Err(); err != nil {
		return fmt.Errorf("failed to delete token from redis: %w", err)
	}
	return nil
}

// Compile-time interface compliance verification
var _ domain.CredentialStore = (*Redis)(nil)
