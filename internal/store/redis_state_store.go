package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/grvbrk/ytcomments/internal/models"
	"github.com/redis/go-redis/v9"
)

const (
	defaultKeyPrefix = "ytcomments:state:"
	maxUpdateRetries = 10
)

var ErrStateConflict = errors.New("state changed concurrently")

// stringGetter is satisfied by both *redis.Client and *redis.Tx.
type stringGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

type RedisStateStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStateStore stores each session's state as JSON under one key that
// expires ttl after the last update.
func NewRedisStateStore(client *redis.Client, ttl time.Duration) *RedisStateStore {
	return &RedisStateStore{client: client, prefix: defaultKeyPrefix, ttl: ttl}
}

func (r *RedisStateStore) key(sessionID string) string {
	return r.prefix + sessionID
}

func (r *RedisStateStore) Get(ctx context.Context, sessionID string) (*models.AppState, error) {
	return r.read(ctx, r.client, sessionID)
}

// Update runs fn inside WATCH/MULTI and retries when another writer touched
// the key in between.
func (r *RedisStateStore) Update(ctx context.Context, sessionID string, fn UpdateFunc) (*models.AppState, error) {
	key := r.key(sessionID)
	var result *models.AppState

	txf := func(tx *redis.Tx) error {
		state, err := r.read(ctx, tx, sessionID)
		if err != nil {
			return err
		}

		if err := fn(state); err != nil {
			return err
		}
		state.UpdatedAt = time.Now()

		data, err := json.Marshal(state)
		if err != nil {
			return fmt.Errorf("failed to encode state: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, r.ttl)
			return nil
		})
		if err != nil {
			return err
		}

		result = state
		return nil
	}

	for i := 0; i < maxUpdateRetries; i++ {
		err := r.client.Watch(ctx, txf, key)
		if err == nil {
			return result, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return nil, err
	}

	return nil, ErrStateConflict
}

func (r *RedisStateStore) Delete(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, r.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to delete state: %w", err)
	}
	return nil
}

func (r *RedisStateStore) read(ctx context.Context, c stringGetter, sessionID string) (*models.AppState, error) {
	data, err := c.Get(ctx, r.key(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.NewAppState(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read state: %w", err)
	}

	var state models.AppState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to decode state: %w", err)
	}
	return &state, nil
}
