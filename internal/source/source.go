package source

import (
	"context"
	"fmt"

	"streamlab/internal/domain"
)

// Source yields messages not yet seen by this consumer. Each Source owns its
// read cursor; the cursor only advances, so a message is never re-delivered
// from the same source.
type Source interface {
	Poll(ctx context.Context) ([]domain.Message, error)
	Name() string
	Close() error
}

// ReadError identifies which source failed. A failing source contributes
// zero messages for the cycle; it never aborts the loop.
type ReadError struct {
	Source string
	Err    error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("source %s: %v", e.Source, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }
