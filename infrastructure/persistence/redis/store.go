// Package redis backs the StateStore with Redis, relying on server-side
// key expiry for TTL semantics.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Store adapts a Redis client to the StateStore contract. All failures
// are logged and reported as misses; callers never see transport errors.
type Store struct {
	client *goredis.Client
	logger *zap.Logger
}

// NewStore connects to Redis and verifies the connection with a bounded
// ping. A failed ping returns an error so the caller can fall back to
// disabled persistence instead of failing every request later.
func NewStore(addr string, db int, logger *zap.Logger) (*Store, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr: addr,
		DB:   db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}

	logger.Info("Connected to Redis", zap.String("addr", addr), zap.Int("db", db))
	return &Store{client: client, logger: logger}, nil
}

// Close releases the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) PutJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) bool {
	raw, err := json.Marshal(value)
	if err != nil {
		s.logger.Warn("State serialization failed", zap.String("key", key), zap.Error(err))
		return false
	}

	if err := s.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		s.logger.Warn("State write failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (s *Store) GetJSON(ctx context.Context, key string, dest interface{}) bool {
	raw, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != goredis.Nil {
			s.logger.Warn("State read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		s.logger.Warn("State deserialization failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (s *Store) Delete(ctx context.Context, key string) bool {
	removed, err := s.client.Del(ctx, key).Result()
	if err != nil {
		s.logger.Warn("State delete failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return removed > 0
}

func (s *Store) Exists(ctx context.Context, key string) bool {
	count, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		s.logger.Warn("State exists check failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return count > 0
}

func (s *Store) Keys(ctx context.Context, prefix string) []string {
	var keys []string
	iter := s.client.Scan(ctx, 0, prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		s.logger.Warn("State key scan failed", zap.String("prefix", prefix), zap.Error(err))
	}
	return keys
}
