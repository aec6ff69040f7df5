// Package metrics collects in-process counters for pool generation.
package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// PoolMetrics tracks pool generation outcomes. All methods are safe for
// concurrent use.
type PoolMetrics struct {
	Latency *Histogram

	Generated      atomic.Uint64
	Failed         atomic.Uint64
	CardsDealt     atomic.Uint64
	CatalogReloads atomic.Uint64

	mu     sync.Mutex
	byKind map[string]uint64

	startTime time.Time
}

// NewPoolMetrics creates a metrics collector.
func NewPoolMetrics() *PoolMetrics {
	return &PoolMetrics{
		Latency:   NewHistogram(0),
		byKind:    make(map[string]uint64),
		startTime: time.Now(),
	}
}

// RecordGenerated records a successful generation of kind (for example
// "draft/chaos") that dealt cards in d.
func (m *PoolMetrics) RecordGenerated(kind string, cards int, d time.Duration) {
	m.Latency.Record(d)
	m.Generated.Add(1)
	m.CardsDealt.Add(uint64(cards))

	m.mu.Lock()
	m.byKind[kind]++
	m.mu.Unlock()
}

// RecordFailed records a generation that returned an error.
func (m *PoolMetrics) RecordFailed() {
	m.Failed.Add(1)
}

// RecordCatalogReload records a catalog swap.
func (m *PoolMetrics) RecordCatalogReload() {
	m.CatalogReloads.Add(1)
}

// PoolStats is a snapshot of PoolMetrics.
type PoolStats struct {
	Latency        Summary           `json:"latency"`
	Generated      uint64            `json:"generated"`
	Failed         uint64            `json:"failed"`
	CardsDealt     uint64            `json:"cardsDealt"`
	CatalogReloads uint64            `json:"catalogReloads"`
	ByKind         map[string]uint64 `json:"byKind"`
	Uptime         string            `json:"uptime"`
}

// Stats returns a snapshot of the current counters.
func (m *PoolMetrics) Stats() PoolStats {
	m.mu.Lock()
	byKind := make(map[string]uint64, len(m.byKind))
	for k, v := range m.byKind {
		byKind[k] = v
	}
	m.mu.Unlock()

	return PoolStats{
		Latency:        m.Latency.Summary(),
		Generated:      m.Generated.Load(),
		Failed:         m.Failed.Load(),
		CardsDealt:     m.CardsDealt.Load(),
		CatalogReloads: m.CatalogReloads.Load(),
		ByKind:         byKind,
		Uptime:         time.Since(m.startTime).Round(time.Second).String(),
	}
}
