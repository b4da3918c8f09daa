package worker

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"streamlab/internal/domain"
	"streamlab/internal/sink"
)

// Emitter is the producer-side loop: one message per tick, fanned out to
// every configured sink, until the context is cancelled. The counter is
// atomic so the main goroutine can read Sent while the loop runs.
type Emitter struct {
	gen      domain.Generator
	fanout   *sink.Fanout
	interval time.Duration
	counter  atomic.Int64
	log      *zap.SugaredLogger
}

func NewEmitter(gen domain.Generator, fanout *sink.Fanout, interval time.Duration, log *zap.SugaredLogger) *Emitter {
	return &Emitter{
		gen:      gen,
		fanout:   fanout,
		interval: interval,
		log:      log,
	}
}

// Start runs until ctx is cancelled, then reports the total generated.
// Cancellation is observed between ticks, never mid-write.
func (w *Emitter) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.emit(ctx)

	for {
		select {
		case <-ctx.Done():
			w.log.Infow("producer stopped", "sent", w.Sent())
			return
		case <-ticker.C:
			w.emit(ctx)
		}
	}
}

func (w *Emitter) emit(ctx context.Context) {
	counter := int(w.counter.Add(1))
	msg := w.gen.Generate(counter)

	ok := w.fanout.Emit(ctx, msg, counter)
	w.log.Infow("sent message", "counter", counter, "sinks_ok", ok, "text", msg.Text)
}

// Sent reports how many messages have been generated so far. Safe to call
// while the loop is running.
func (w *Emitter) Sent() int { return int(w.counter.Load()) }
