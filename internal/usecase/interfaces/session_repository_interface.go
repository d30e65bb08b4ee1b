package interfaces

import (
	"context"
	"errors"

	"agency_estimate/internal/domain/entities"
)

// ErrSessionConflict is returned by Update when concurrent writers kept
// invalidating the read until the retry budget ran out.
var ErrSessionConflict = errors.New("session changed concurrently")

// ISessionRepository stores wizard sessions. Get returns a zero Session for an
// unknown or expired id.
//
// Update runs apply against the stored session and writes the result back
// atomically. An unknown id returns a zero Session without calling apply; an
// error from apply aborts the write and is returned as is.
type ISessionRepository interface {
	Get(ctx context.Context, id string) (entities.Session, error)
	Save(ctx context.Context, s entities.Session) error
	Update(ctx context.Context, id string, apply func(*entities.Session) error) (entities.Session, error)
	Delete(ctx context.Context, id string) error
}
