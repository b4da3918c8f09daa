package sink

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"streamlab/internal/domain"
)

// Sink is a durable destination for one message.
type Sink interface {
	Emit(ctx context.Context, msg domain.Message) error
	Name() string
	Close() error
}

// WriteError identifies which sink rejected which message. No retry is ever
// performed, so the identity and counter are all the diagnosis needs.
type WriteError struct {
	Sink    string
	Counter int
	Err     error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("sink %s: message #%d: %v", e.Sink, e.Counter, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Fanout sends each message to an ordered list of sinks. Every sink is
// attempted on every message; a failure is captured per sink and never stops
// the others. At-least-one-of-N, not all-or-nothing.
type Fanout struct {
	sinks []Sink
	log   *zap.SugaredLogger
}

func NewFanout(log *zap.SugaredLogger, sinks ...Sink) *Fanout {
	return &Fanout{sinks: sinks, log: log}
}

// Emit fans one message out to every sink in order and returns how many
// accepted it.
func (f *Fanout) Emit(ctx context.Context, msg domain.Message, counter int) int {
	ok := 0
	for _, s := range f.sinks {
		if err := s.Emit(ctx, msg); err != nil {
			werr := &WriteError{Sink: s.Name(), Counter: counter, Err: err}
			f.log.Warnw("sink write failed", "sink", s.Name(), "counter", counter, "error", werr)
			continue
		}
		ok++
	}
	return ok
}

func (f *Fanout) Close() error {
	var firstErr error
	for _, s := range f.sinks {
		if err := s.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
