package api

import (
	"sync"
	"time"
)

// Metrics tracks API request counts and latency per route.
type Metrics struct {
	TotalRequests int64
	TotalErrors   int64
	RateLimited   int64
	PerRoute      map[string]RouteMetrics
	mu            sync.RWMutex
}

// RouteMetrics tracks one route's performance.
type RouteMetrics struct {
	Requests      int64         `json:"requests"`
	Errors        int64         `json:"errors"`
	TotalDuration time.Duration `json:"-"`
	AvgDurationMS float64       `json:"avg_duration_ms"`
	LastRequest   time.Time     `json:"last_request"`
}

// NewMetrics creates an empty metrics collector.
func NewMetrics() *Metrics {
	return &Metrics{PerRoute: make(map[string]RouteMetrics)}
}

// Record adds one request observation for the route.
func (m *Metrics) Record(route string, duration time.Duration, isError bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.TotalRequests++
	if isError {
		m.TotalErrors++
	}

	rm := m.PerRoute[route]
	rm.Requests++
	if isError {
		rm.Errors++
	}
	rm.TotalDuration += duration
	rm.AvgDurationMS = float64(rm.TotalDuration.Milliseconds()) / float64(rm.Requests)
	rm.LastRequest = time.Now()
	m.PerRoute[route] = rm
}

// RecordRateLimited counts a rejected request.
func (m *Metrics) RecordRateLimited() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RateLimited++
}

// Snapshot is a copyable view of the metrics for reporting.
type Snapshot struct {
	TotalRequests int64                   `json:"total_requests"`
	TotalErrors   int64                   `json:"total_errors"`
	RateLimited   int64                   `json:"rate_limited"`
	PerRoute      map[string]RouteMetrics `json:"per_route"`
}

// GetSnapshot returns a consistent copy of the current metrics.
func (m *Metrics) GetSnapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	perRoute := make(map[string]RouteMetrics, len(m.PerRoute))
	for route, rm := range m.PerRoute {
		perRoute[route] = rm
	}
	return Snapshot{
		TotalRequests: m.TotalRequests,
		TotalErrors:   m.TotalErrors,
		RateLimited:   m.RateLimited,
		PerRoute:      perRoute,
	}
}
