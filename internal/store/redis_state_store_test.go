package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/grvbrk/ytcomments/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs only against a live server: REDIS_ADDR=localhost:6379 go test ./...
func newTestRedisStore(t *testing.T) *RedisStateStore {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	client, err := ConnectRedis(addr, os.Getenv("REDIS_PASSWORD"), 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	s := NewRedisStateStore(client, time.Minute)
	s.prefix = "ytcomments:test:" + uuid.NewString() + ":"
	return s
}

func TestRedisStateStoreRoundTrip(t *testing.T) {
	s := newTestRedisStore(t)
	ctx := context.Background()

	state, err := s.Get(ctx, "sid")
	require.NoError(t, err)
	assert.Equal(t, models.PhaseIdle, state.Phase)

	_, err = s.Update(ctx, "sid", func(st *models.AppState) error {
		st.Selected = &models.SearchResult{VideoID: "abc123", Title: "Cats"}
		st.Phase = models.PhaseReady
		return nil
	})
	require.NoError(t, err)

	state, err = s.Get(ctx, "sid")
	require.NoError(t, err)
	require.NotNil(t, state.Selected)
	assert.Equal(t, "abc123", state.Selected.VideoID)
	assert.Equal(t, models.PhaseReady, state.Phase)

	ttl, err := s.client.TTL(ctx, s.key("sid")).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, s.Delete(ctx, "sid"))
	state, err = s.Get(ctx, "sid")
	require.NoError(t, err)
	assert.Nil(t, state.Selected)
}
