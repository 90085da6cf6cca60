package server

import (
	"sort"
	"sync"
	"time"

	"gonum.org/v1/gonum/stat"
)

// LatencyQueue keeps a sliding window of command execution latencies in
// microseconds. It feeds the periodic stats log and is not part of the
// wire-level metrics.
type LatencyQueue struct {
	mu       sync.RWMutex
	data     []float64
	capacity int
}

func NewLatencyQueue(capacity int) *LatencyQueue {
	return &LatencyQueue{
		data:     make([]float64, 0, capacity),
		capacity: capacity,
	}
}

func (q *LatencyQueue) Record(d time.Duration) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.data) == q.capacity {
		q.data = q.data[1:]
	}
	q.data = append(q.data, float64(d.Microseconds()))
}

func (q *LatencyQueue) Len() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return len(q.data)
}

func (q *LatencyQueue) Mean() float64 {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if len(q.data) == 0 {
		return 0
	}
	return stat.Mean(q.data, nil)
}

// Percentiles returns the requested percentiles over a snapshot of the
// window, e.g. Percentiles(50, 99).
func (q *LatencyQueue) Percentiles(percentiles ...float64) []float64 {
	q.mu.RLock()
	data := make([]float64, len(q.data))
	copy(data, q.data)
	q.mu.RUnlock()

	results := make([]float64, len(percentiles))
	if len(data) == 0 {
		return results
	}
	sort.Float64s(data)
	for i, p := range percentiles {
		results[i] = stat.Quantile(p/100, stat.Empirical, data, nil)
	}
	return results
}

func (q *LatencyQueue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.data = q.data[:0]
}
