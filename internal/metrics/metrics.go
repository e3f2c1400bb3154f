// Package metrics records lifecycle and command outcomes in a Prometheus
// registry that the CLI can dump in node-exporter textfile format.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Result label values.
const (
	ResultSuccess = "success"
	ResultError   = "error"
	ResultSkipped = "skipped"
	ResultAborted = "aborted"
)

// Recorder owns a registry and the tfslot collectors. A nil *Recorder
// records nothing.
type Recorder struct {
	registry *prometheus.Registry

	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	commandRunsTotal  *prometheus.CounterVec
	commandDuration   *prometheus.HistogramVec
	cleanupFailures   *prometheus.CounterVec
}

// NewRecorder creates a Recorder with a fresh registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),

		operationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "tfslot",
				Subsystem: "lifecycle",
				Name:      "operations_total",
				Help:      "Total number of lifecycle operations by result",
			},
			[]string{"operation", "result"},
		),

		operationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "tfslot",
				Subsystem: "lifecycle",
				Name:      "operation_duration_seconds",
				Help:      "Duration of lifecycle operations in seconds",
				Buckets:   prometheus.ExponentialBuckets(10, 2, 10), // 10s to ~85min
			},
			[]string{"operation"},
		),

		commandRunsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "tfslot",
				Subsystem: "command",
				Name:      "runs_total",
				Help:      "Total number of external command runs by step and result",
			},
			[]string{"step", "result"},
		),

		commandDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "tfslot",
				Subsystem: "command",
				Name:      "duration_seconds",
				Help:      "Duration of external commands in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.5, 2, 12), // 500ms to ~17min
			},
			[]string{"step"},
		),

		cleanupFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "tfslot",
				Name:      "cleanup_failures_total",
				Help:      "Total number of failed cleanup actions by operation",
			},
			[]string{"operation"},
		),
	}

	r.registry.MustRegister(
		r.operationsTotal,
		r.operationDuration,
		r.commandRunsTotal,
		r.commandDuration,
		r.cleanupFailures,
	)
	return r
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// RecordOperation records a finished bring-up or bring-down.
func (r *Recorder) RecordOperation(operation, result string, seconds float64) {
	if r == nil {
		return
	}
	r.operationsTotal.WithLabelValues(operation, result).Inc()
	r.operationDuration.WithLabelValues(operation).Observe(seconds)
}

// RecordCommand records one external command run.
func (r *Recorder) RecordCommand(step, result string, seconds float64) {
	if r == nil {
		return
	}
	r.commandRunsTotal.WithLabelValues(step, result).Inc()
	r.commandDuration.WithLabelValues(step).Observe(seconds)
}

// RecordCleanupFailure counts a cleanup action that failed.
func (r *Recorder) RecordCleanupFailure(operation string) {
	if r == nil {
		return
	}
	r.cleanupFailures.WithLabelValues(operation).Inc()
}

// WriteTextfile writes the registry to path in the node-exporter textfile
// collector format.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
