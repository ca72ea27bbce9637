package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/grvbrk/ytcomments/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStateStoreNewSession(t *testing.T) {
	s := NewMemoryStateStore(time.Hour)

	state, err := s.Get(context.Background(), "sid")
	require.NoError(t, err)
	assert.Equal(t, models.PhaseIdle, state.Phase)
	assert.Empty(t, state.Videos)
}

func TestMemoryStateStoreUpdate(t *testing.T) {
	s := NewMemoryStateStore(time.Hour)
	ctx := context.Background()

	_, err := s.Update(ctx, "sid", func(st *models.AppState) error {
		st.Query = "cats"
		st.Videos = []models.SearchResult{{VideoID: "abc123"}}
		return nil
	})
	require.NoError(t, err)

	state, err := s.Get(ctx, "sid")
	require.NoError(t, err)
	assert.Equal(t, "cats", state.Query)
	assert.Len(t, state.Videos, 1)
	assert.False(t, state.UpdatedAt.IsZero())

	other, err := s.Get(ctx, "other")
	require.NoError(t, err)
	assert.Empty(t, other.Query)
}

func TestMemoryStateStoreUpdateErrorDiscardsChanges(t *testing.T) {
	s := NewMemoryStateStore(time.Hour)
	ctx := context.Background()
	boom := errors.New("boom")

	_, err := s.Update(ctx, "sid", func(st *models.AppState) error {
		st.Query = "kept"
		return nil
	})
	require.NoError(t, err)

	_, err = s.Update(ctx, "sid", func(st *models.AppState) error {
		st.Query = "lost"
		return boom
	})
	require.ErrorIs(t, err, boom)

	state, err := s.Get(ctx, "sid")
	require.NoError(t, err)
	assert.Equal(t, "kept", state.Query)
}

func TestMemoryStateStoreReturnsCopies(t *testing.T) {
	s := NewMemoryStateStore(time.Hour)
	ctx := context.Background()

	state, err := s.Update(ctx, "sid", func(st *models.AppState) error {
		st.Videos = []models.SearchResult{{VideoID: "a"}}
		return nil
	})
	require.NoError(t, err)
	state.Videos[0].VideoID = "mutated"

	again, err := s.Get(ctx, "sid")
	require.NoError(t, err)
	assert.Equal(t, "a", again.Videos[0].VideoID)
}

func TestMemoryStateStoreExpiry(t *testing.T) {
	s := NewMemoryStateStore(time.Minute)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	ctx := context.Background()

	_, err := s.Update(ctx, "sid", func(st *models.AppState) error {
		st.Phase = models.PhaseFetchingComments
		return nil
	})
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)

	state, err := s.Get(ctx, "sid")
	require.NoError(t, err)
	assert.Equal(t, models.PhaseIdle, state.Phase)

	_, err = s.Update(ctx, "other", func(st *models.AppState) error { return nil })
	require.NoError(t, err)
	now = now.Add(2 * time.Minute)
	assert.Equal(t, 1, s.Sweep())
}

func TestMemoryStateStoreUpdateIsAtomic(t *testing.T) {
	s := NewMemoryStateStore(time.Hour)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Update(ctx, "sid", func(st *models.AppState) error {
				st.Comments = append(st.Comments, models.CommentRecord{})
				return nil
			})
		}()
	}
	wg.Wait()

	state, err := s.Get(ctx, "sid")
	require.NoError(t, err)
	assert.Len(t, state.Comments, 50)
}

func TestMemoryStateStoreDelete(t *testing.T) {
	s := NewMemoryStateStore(0)
	ctx := context.Background()

	_, err := s.Update(ctx, "sid", func(st *models.AppState) error {
		st.Query = "x"
		return nil
	})
	require.NoError(t, err)
	require.NoError(t, s.Delete(ctx, "sid"))

	state, err := s.Get(ctx, "sid")
	require.NoError(t, err)
	assert.Empty(t, state.Query)
}
