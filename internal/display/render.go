package display

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
)

const barWidth = 40

// Renderer redraws the dashboard from scratch on its own timer, independent
// of the polling cycle that feeds it.
type Renderer struct {
	dash     *Dashboard
	out      io.Writer
	interval time.Duration
	log      *zap.SugaredLogger
}

func NewRenderer(dash *Dashboard, out io.Writer, interval time.Duration, log *zap.SugaredLogger) *Renderer {
	return &Renderer{dash: dash, out: out, interval: interval, log: log}
}

// Run redraws until the context is cancelled. A draw failure terminates only
// this loop; the polling goroutine keeps aggregating.
func (r *Renderer) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := r.draw(r.dash.Snapshot()); err != nil {
				r.log.Errorw("dashboard render failed", "error", err)
				r.log.Info("rendering stopped; try a different terminal, polling continues")
				return err
			}
		}
	}
}

func (r *Renderer) draw(stats Stats) error {
	var b strings.Builder

	fmt.Fprintf(&b, "\n=== Streaming Dashboard — %s ===\n", time.Now().Format("15:04:05"))

	if stats.Total == 0 {
		b.WriteString("waiting for streaming data... start the producer first\n")
		_, err := io.WriteString(r.out, b.String())
		return err
	}

	fmt.Fprintf(&b, "Total messages: %d\n", stats.Total)

	if len(stats.FlowCounts) > 1 {
		first := stats.FlowTimes[0]
		last := stats.FlowTimes[len(stats.FlowTimes)-1]
		span := last.Sub(first).Seconds()
		if span > 0 {
			rate := float64(len(stats.FlowCounts)-1) / span
			fmt.Fprintf(&b, "Flow: %.2f msg/s over the last %d samples\n", rate, len(stats.FlowCounts))
		}
	}

	if len(stats.Authors) > 0 {
		b.WriteString("\nMessages by author:\n")
		names := make([]string, 0, len(stats.Authors))
		max := 0
		for name, n := range stats.Authors {
			names = append(names, name)
			if n > max {
				max = n
			}
		}
		sort.Strings(names)
		for _, name := range names {
			n := stats.Authors[name]
			bar := strings.Repeat("#", n*barWidth/max)
			fmt.Fprintf(&b, "  %-12s %s %d\n", name, bar, n)
		}
	}

	if len(stats.Sentiments) > 0 {
		sum := 0.0
		for _, v := range stats.Sentiments {
			sum += v
		}
		avg := sum / float64(len(stats.Sentiments))
		fmt.Fprintf(&b, "\nSentiment: avg %.2f over last %d (latest %.2f)\n",
			avg, len(stats.Sentiments), stats.Sentiments[len(stats.Sentiments)-1])
	}

	if len(stats.Lengths) > 0 {
		sum := 0
		for _, v := range stats.Lengths {
			sum += v
		}
		avg := float64(sum) / float64(len(stats.Lengths))
		fmt.Fprintf(&b, "Length: avg %.1f chars over last %d\n", avg, len(stats.Lengths))
	}

	_, err := io.WriteString(r.out, b.String())
	return err
}
