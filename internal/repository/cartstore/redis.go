package cartstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"falcon-storefront/internal/domain"
	"github.com/redis/go-redis/v9"
)

// RedisStore persists cart lines in Redis so carts survive restarts. Entries
// expire after the TTL plus a small jitter to avoid synchronized eviction.
type RedisStore struct {
	client  *redis.Client
	baseTTL time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisStore{
		client:  client,
		baseTTL: ttl,
	}
}

func (s *RedisStore) Get(ctx context.Context, ownerID string) ([]domain.CartLine, error) {
	data, err := s.client.Get(ctx, cartKey(ownerID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var lines []domain.CartLine
	if err := json.Unmarshal(data, &lines); err != nil {
		return nil, fmt.Errorf("unmarshal cart: %w", err)
	}
	return lines, nil
}

func (s *RedisStore) Save(ctx context.Context, ownerID string, lines []domain.CartLine) error {
	data, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}

	jitter := time.Duration(rand.Intn(300)) * time.Second
	if err := s.client.Set(ctx, cartKey(ownerID), data, s.baseTTL+jitter).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, ownerID string) error {
	if err := s.client.Del(ctx, cartKey(ownerID)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func cartKey(ownerID string) string {
	return "cart:" + ownerID
}
