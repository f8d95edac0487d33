// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package telemetry

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "instgen"

// Metrics collects per-sweep counters on a private registry. A nil *Metrics
// records nothing.
type Metrics struct {
	registry  *prometheus.Registry
	instances *prometheus.CounterVec
	edges     *prometheus.CounterVec
	seconds   *prometheus.HistogramVec
	tables    prometheus.Counter
	failures  prometheus.Counter
}

// NewMetrics registers the sweep metrics on a fresh registry.
func NewMetrics() (*Metrics, error) {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		instances: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "instances_total",
				Help:      "Number of instances generated",
			},
			[]string{"kind"},
		),
		edges: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "edges_total",
				Help:      "Number of interference edges generated",
			},
			[]string{"kind"},
		),
		seconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "generation_seconds",
				Help:      "Time spent generating and writing one instance",
				Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
			},
			[]string{"kind"},
		),
		tables: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "base_tables_total",
			Help:      "Number of base tables prepared",
		}),
		failures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "failures_total",
			Help:      "Number of failed sweep tasks",
		}),
	}
	for _, c := range []prometheus.Collector{m.instances, m.edges, m.seconds, m.tables, m.failures} {
		if err := m.registry.Register(c); err != nil {
			return nil, fmt.Errorf("registering metric: %w", err)
		}
	}
	return m, nil
}

// Registry returns the registry holding the metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveInstance records one generated instance.
func (m *Metrics) ObserveInstance(kind string, edges int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.instances.WithLabelValues(kind).Inc()
	m.edges.WithLabelValues(kind).Add(float64(edges))
	m.seconds.WithLabelValues(kind).Observe(elapsed.Seconds())
}

// ObserveTable records one prepared base table.
func (m *Metrics) ObserveTable() {
	if m == nil {
		return
	}
	m.tables.Inc()
}

// ObserveFailure records one failed task.
func (m *Metrics) ObserveFailure() {
	if m == nil {
		return
	}
	m.failures.Inc()
}

// WriteTextfile writes the metrics in the Prometheus text format, as read by
// the node exporter's textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
