// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "account_keeper"

// Metrics holds the lifecycle collectors. A nil *Metrics records nothing.
type Metrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	flagged    prometheus.Gauge
}

// NewMetrics creates the lifecycle collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "lifecycle",
			Name:      "operations_total",
			Help:      "Lifecycle operations by operation and outcome.",
		}, []string{"operation", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "lifecycle",
			Name:      "operation_duration_seconds",
			Help:      "Wall time of lifecycle operations including compensation.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		flagged: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "reconciliation",
			Name:      "flagged_usernames",
			Help:      "Usernames awaiting manual reconciliation.",
		}),
	}

	if reg != nil {
		reg.MustRegister(m.operations, m.duration, m.flagged)
	}

	return m
}

func (m *Metrics) observe(operation string, outcome Outcome, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(operation, outcome.String()).Inc()
	m.duration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

func (m *Metrics) setFlagged(n int) {
	if m == nil {
		return
	}
	m.flagged.Set(float64(n))
}
