package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrTokenNotFound = errors.New("session token not found")

// TokenStore tracks live session token ids so that sign-out can revoke a token
// before it expires.
type TokenStore interface {
	Save(ctx context.Context, tokenID, userID string, ttl time.Duration) error
	Lookup(ctx context.Context, tokenID string) (string, error)
	Delete(ctx context.Context, tokenID string) error
}

type redisTokenStore struct {
	client *redis.Client
}

func NewRedisTokenStore(client *redis.Client) TokenStore {
	return &redisTokenStore{client: client}
}

func (s *redisTokenStore) Save(ctx context.Context, tokenID, userID string, ttl time.Duration) error {
	if err := s.client.Set(ctx, tokenKey(tokenID), userID, ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (s *redisTokenStore) Lookup(ctx context.Context, tokenID string) (string, error) {
	userID, err := s.client.Get(ctx, tokenKey(tokenID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrTokenNotFound
	}
	if err != nil {
		return "", fmt.Errorf("redis get failed: %w", err)
	}
	return userID, nil
}

func (s *redisTokenStore) Delete(ctx context.Context, tokenID string) error {
	if err := s.client.Del(ctx, tokenKey(tokenID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func tokenKey(tokenID string) string {
	return fmt.Sprintf("session:%s", tokenID)
}
