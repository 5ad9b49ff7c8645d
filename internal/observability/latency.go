package observability

import (
	"sync"
	"time"
)

// LatencyTracker keeps a running average of request durations. The analytics
// aggregator reads it at snapshot time for the average_response_time field.
type LatencyTracker struct {
	mu    sync.Mutex
	total time.Duration
	count int64
}

// NewLatencyTracker constructs an empty tracker.
func NewLatencyTracker() *LatencyTracker {
	return &LatencyTracker{}
}

// Observe records one request duration.
func (t *LatencyTracker) Observe(d time.Duration) {
	if d < 0 {
		return
	}
	t.mu.Lock()
	t.total += d
	t.count++
	t.mu.Unlock()
}

// AverageSeconds returns the mean observed duration in seconds, 0 when
// nothing has been observed yet.
func (t *LatencyTracker) AverageSeconds() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.count == 0 {
		return 0
	}
	return t.total.Seconds() / float64(t.count)
}

// Count returns how many durations have been observed.
func (t *LatencyTracker) Count() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.count
}
