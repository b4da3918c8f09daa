package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"streamlab/internal/display"
	"streamlab/internal/source"
)

// Aggregator is the consumer-side loop: each cycle it polls every source in
// the fixed configured order (files first, broker last) and hands new
// messages to the display, preserving per-source order. No timestamp
// interleaving across sources.
type Aggregator struct {
	sources  []source.Source
	display  display.Display
	interval time.Duration
	log      *zap.SugaredLogger
}

func NewAggregator(sources []source.Source, d display.Display, interval time.Duration, log *zap.SugaredLogger) *Aggregator {
	return &Aggregator{
		sources:  sources,
		display:  d,
		interval: interval,
		log:      log,
	}
}

// Start runs until ctx is cancelled.
func (w *Aggregator) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.cycle(ctx)

	for {
		select {
		case <-ctx.Done():
			w.log.Info("aggregator stopped")
			return
		case <-ticker.C:
			w.cycle(ctx)
		}
	}
}

func (w *Aggregator) cycle(ctx context.Context) {
	found := 0

	for _, src := range w.sources {
		msgs, err := src.Poll(ctx)
		if err != nil {
			w.log.Warnw("poll failed", "source", src.Name(), "error", err)
			continue
		}
		if len(msgs) == 0 {
			continue
		}

		w.log.Infow("new messages", "source", src.Name(), "count", len(msgs))
		for _, msg := range msgs {
			if err := w.display.Show(msg, src.Name()); err != nil {
				w.log.Warnw("display failed", "source", src.Name(), "error", err)
			}
		}
		found += len(msgs)
	}

	if found == 0 {
		w.log.Info("no new messages, waiting")
	}
}
