package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"stockval/internal/application"

	"github.com/redis/go-redis/v9"
)

// Store keeps JSON-encoded values of type V under Prefix+key.
// TTL 0 keeps entries until deleted.
type Store[V any] struct {
	Client *redis.Client
	Prefix string
	TTL    time.Duration
}

var _ application.Cache[int] = (*Store[int])(nil)

func New[V any](client *redis.Client, prefix string, ttl time.Duration) *Store[V] {
	return &Store[V]{Client: client, Prefix: prefix, TTL: ttl}
}

func (s *Store[V]) Get(ctx context.Context, key string) (V, bool, error) {
	var v V
	raw, err := s.Client.Get(ctx, s.Prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return v, false, nil
	}
	if err != nil {
		return v, false, err
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, false, fmt.Errorf("redis cache %s: decode: %w", s.Prefix+key, err)
	}
	return v, true, nil
}

func (s *Store[V]) Set(ctx context.Context, key string, v V) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("redis cache %s: encode: %w", s.Prefix+key, err)
	}
	return s.Client.Set(ctx, s.Prefix+key, raw, s.TTL).Err()
}

func (s *Store[V]) Delete(ctx context.Context, key string) error {
	return s.Client.Del(ctx, s.Prefix+key).Err()
}

// Ping reports whether the server answers; used by readiness checks.
func Ping(ctx context.Context, client *redis.Client) error {
	return client.Ping(ctx).Err()
}
