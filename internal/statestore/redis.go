package statestore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix = "lexio:session:"

	// liveStateTTL bounds how long an abandoned session lingers.
	liveStateTTL = 2 * time.Hour
)

// RedisStore is the production Store, shared across server replicas.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(addr, password string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisStore{client: client}, nil
}

func (s *RedisStore) Put(ctx context.Context, state LiveState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode live state: %w", err)
	}
	if err := s.client.Set(ctx, keyPrefix+state.SessionURL, data, liveStateTTL).Err(); err != nil {
		return fmt.Errorf("failed to store live state: %w", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, sessionURL string) (*LiveState, error) {
	data, err := s.client.Get(ctx, keyPrefix+sessionURL).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load live state: %w", err)
	}

	var state LiveState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to decode live state: %w", err)
	}
	return &state, nil
}

func (s *RedisStore) Delete(ctx context.Context, sessionURL string) error {
	if err := s.client.Del(ctx, keyPrefix+sessionURL).Err(); err != nil {
		return fmt.Errorf("failed to delete live state: %w", err)
	}
	return nil
}

// Close releases the underlying connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
