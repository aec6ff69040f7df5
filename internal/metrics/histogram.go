package metrics

import (
	"math"
	"slices"
	"sync"
	"time"
)

// Histogram keeps the most recent duration samples and answers percentile
// queries over them.
type Histogram struct {
	mu      sync.Mutex
	samples []float64 // milliseconds, ring buffer once full
	next    int
	full    bool
}

// NewHistogram creates a histogram keeping at most size samples.
// Default: 4096
func NewHistogram(size int) *Histogram {
	if size <= 0 {
		size = 4096
	}
	return &Histogram{samples: make([]float64, 0, size)}
}

// Record adds a sample, overwriting the oldest one when full.
func (h *Histogram) Record(d time.Duration) {
	ms := float64(d.Microseconds()) / 1000.0

	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.full {
		h.samples = append(h.samples, ms)
		h.full = len(h.samples) == cap(h.samples)
		return
	}
	h.samples[h.next] = ms
	h.next = (h.next + 1) % len(h.samples)
}

// Summary is a point-in-time view of a histogram, in milliseconds.
type Summary struct {
	Count int     `json:"count"`
	Mean  float64 `json:"mean"`
	P50   float64 `json:"p50"`
	P95   float64 `json:"p95"`
	P99   float64 `json:"p99"`
	Max   float64 `json:"max"`
}

// Summary computes the current distribution.
func (h *Histogram) Summary() Summary {
	h.mu.Lock()
	sorted := slices.Clone(h.samples)
	h.mu.Unlock()

	if len(sorted) == 0 {
		return Summary{}
	}
	slices.Sort(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}
	return Summary{
		Count: len(sorted),
		Mean:  sum / float64(len(sorted)),
		P50:   percentile(sorted, 50),
		P95:   percentile(sorted, 95),
		P99:   percentile(sorted, 99),
		Max:   sorted[len(sorted)-1],
	}
}

// percentile interpolates linearly between the two nearest ranks of sorted.
func percentile(sorted []float64, p float64) float64 {
	index := (p / 100.0) * float64(len(sorted)-1)
	lower := int(math.Floor(index))
	upper := int(math.Ceil(index))
	if lower == upper {
		return sorted[lower]
	}
	fraction := index - float64(lower)
	return sorted[lower]*(1-fraction) + sorted[upper]*fraction
}
