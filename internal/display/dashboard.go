package display

import (
	"sync"
	"time"
	"unicode/utf8"

	"streamlab/internal/domain"
)

// Dashboard holds the rolling state behind the visual consumer: a bounded
// window of message-flow samples, per-author counts, and bounded windows of
// recent sentiments and lengths. It is owned by the aggregation loop and
// handed to the renderer by reference; there are no package-level globals.
//
// One goroutine appends (via Show), another reads (via Snapshot). The mutex
// makes each append and each snapshot atomic so the renderer never observes
// a half-updated window.
type Dashboard struct {
	mu         sync.Mutex
	total      int
	flowTimes  []time.Time
	flowCounts []int
	authors    map[string]int
	sentiments []float64
	lengths    []int

	flowCap  int
	statsCap int
}

// Stats is a point-in-time copy of the dashboard state, safe to read while
// the polling goroutine keeps appending.
type Stats struct {
	Total      int
	FlowTimes  []time.Time
	FlowCounts []int
	Authors    map[string]int
	Sentiments []float64
	Lengths    []int
}

func NewDashboard(flowCap, statsCap int) *Dashboard {
	return &Dashboard{
		authors:  make(map[string]int),
		flowCap:  flowCap,
		statsCap: statsCap,
	}
}

// Show folds one message into every window. Implements Display so the
// aggregation loop can feed the dashboard exactly like a console.
func (d *Dashboard) Show(msg domain.Message, _ string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.total++

	d.flowTimes = append(d.flowTimes, time.Now())
	d.flowCounts = append(d.flowCounts, d.total)
	if len(d.flowTimes) > d.flowCap {
		d.flowTimes = d.flowTimes[1:]
		d.flowCounts = d.flowCounts[1:]
	}

	author := msg.Author
	if author == "" {
		author = "Unknown"
	}
	d.authors[author]++

	d.sentiments = append(d.sentiments, msg.Sentiment)
	if len(d.sentiments) > d.statsCap {
		d.sentiments = d.sentiments[1:]
	}

	length := msg.Length
	if length == 0 {
		length = utf8.RuneCountInString(msg.Text)
	}
	d.lengths = append(d.lengths, length)
	if len(d.lengths) > d.statsCap {
		d.lengths = d.lengths[1:]
	}

	return nil
}

// Snapshot copies every window under the lock.
func (d *Dashboard) Snapshot() Stats {
	d.mu.Lock()
	defer d.mu.Unlock()

	authors := make(map[string]int, len(d.authors))
	for k, v := range d.authors {
		authors[k] = v
	}

	return Stats{
		Total:      d.total,
		FlowTimes:  append([]time.Time(nil), d.flowTimes...),
		FlowCounts: append([]int(nil), d.flowCounts...),
		Authors:    authors,
		Sentiments: append([]float64(nil), d.sentiments...),
		Lengths:    append([]int(nil), d.lengths...),
	}
}
