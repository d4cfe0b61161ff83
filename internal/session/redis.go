package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gamerhub/internal/observability"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps the session under a single Redis key, for clients that
// share a session across machines.
type RedisStore struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewRedisStore returns a store using key. A zero ttl keeps the key forever.
func NewRedisStore(client *redis.Client, key string, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, key: key, ttl: ttl}
}

func (r *RedisStore) Load(ctx context.Context) (*State, error) {
	raw, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoSession
	}
	if err != nil {
		observability.RedisErrorRate.WithLabelValues("session_get").Inc()
		return nil, fmt.Errorf("load session: %w", err)
	}
	var st State
	if err := json.Unmarshal(raw, &st); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &st, nil
}

func (r *RedisStore) Save(ctx context.Context, st *State) error {
	raw, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := r.client.Set(ctx, r.key, raw, r.ttl).Err(); err != nil {
		observability.RedisErrorRate.WithLabelValues("session_set").Inc()
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (r *RedisStore) Clear(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		observability.RedisErrorRate.WithLabelValues("session_del").Inc()
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
