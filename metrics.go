package statkit

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like
// Prometheus.
type MetricsCollector interface {
	// RecordClusterRun is called after each per-group clustering run.
	// iterations is the number of refinement iterations executed, cases the
	// number of complete cases classified, duration the total run time.
	RecordClusterRun(iterations, cases int, converged bool, duration time.Duration)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordClusterRun(int, int, bool, time.Duration) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	RunCount      atomic.Int64
	RunNotConv    atomic.Int64
	Iterations    atomic.Int64
	CasesTotal    atomic.Int64
	RunTotalNanos atomic.Int64
}

// RecordClusterRun implements MetricsCollector.
func (m *BasicMetricsCollector) RecordClusterRun(iterations, cases int, converged bool, duration time.Duration) {
	m.RunCount.Add(1)
	if !converged {
		m.RunNotConv.Add(1)
	}
	m.Iterations.Add(int64(iterations))
	m.CasesTotal.Add(int64(cases))
	m.RunTotalNanos.Add(duration.Nanoseconds())
}
