package store

import (
	"context"

	"github.com/grvbrk/ytcomments/internal/models"
)

// UpdateFunc mutates state in place. Returning an error discards the
// mutation and the error is passed back to the caller of Update.
type UpdateFunc func(state *models.AppState) error

// StateStore keeps one AppState per session id. Update is atomic per session:
// no other Update on the same id interleaves with fn.
type StateStore interface {
	Get(ctx context.Context, sessionID string) (*models.AppState, error)
	Update(ctx context.Context, sessionID string, fn UpdateFunc) (*models.AppState, error)
	Delete(ctx context.Context, sessionID string) error
}
