package ingestion

import (
	"sync"
	"time"
)

// IngestMetrics tracks ingestion activity
type IngestMetrics struct {
	ReadingsReceived      int64         `json:"readings_received"`
	ReadingsStored        int64         `json:"readings_stored"`
	ReadingsRejected      int64         `json:"readings_rejected"`
	SoftSkips             int64         `json:"soft_skips"`
	AlertsGenerated       int64         `json:"alerts_generated"`
	CriticalBreaches      int64         `json:"critical_breaches"`
	LastProcessedAt       time.Time     `json:"last_processed_at"`
	AverageProcessingTime time.Duration `json:"average_processing_time_ns"`
}

// MetricsTracker provides a goroutine-safe wrapper around IngestMetrics.
type MetricsTracker struct {
	mu      sync.RWMutex
	metrics IngestMetrics
}

// NewMetricsTracker builds a new tracker with zeroed metrics.
func NewMetricsTracker() *MetricsTracker {
	return &MetricsTracker{}
}

func (t *MetricsTracker) received() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.metrics.ReadingsReceived++
}

func (t *MetricsTracker) rejected() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.metrics.ReadingsRejected++
}

// stored records one finished ingestion. Processing time is a running mean.
func (t *MetricsTracker) stored(res *Result, took time.Duration, at time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	m := &t.metrics
	m.ReadingsStored++
	m.LastProcessedAt = at

	switch res.Outcome {
	case OutcomeSoftSkip:
		m.SoftSkips++
	case OutcomeAlerted:
		m.AlertsGenerated++
		if res.Tier == TierCritical {
			m.CriticalBreaches++
		}
	}

	if m.ReadingsStored == 1 {
		m.AverageProcessingTime = took
	} else {
		m.AverageProcessingTime += (took - m.AverageProcessingTime) / time.Duration(m.ReadingsStored)
	}
}

// Snapshot returns a copy of the current metrics.
func (t *MetricsTracker) Snapshot() IngestMetrics {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.metrics
}
