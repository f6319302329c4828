// Package metrics provides centralized Prometheus metrics for the monitor.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Check metrics track per-source change-detection outcomes.
var (
	// ChecksTotal counts source checks by source and outcome
	// (unmodified, no_change, new_article, fetch_failed).
	ChecksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newswatch_checks_total",
			Help: "Total number of source checks by outcome",
		},
		[]string{"source_id", "outcome"},
	)

	// CheckDuration measures the duration of a full source check,
	// including the politeness delay.
	CheckDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "newswatch_check_duration_seconds",
			Help:    "Source check duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source_id"},
	)

	// FetchErrorsTotal counts fetch failures by error kind
	// (timeout, http_status, transport).
	FetchErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newswatch_fetch_errors_total",
			Help: "Total number of fetch failures by error kind",
		},
		[]string{"source_id", "kind"},
	)
)

// Notification metrics track webhook delivery.
var (
	// NotificationsTotal counts notification attempts by channel and status.
	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newswatch_notifications_total",
			Help: "Total number of notification attempts by channel and status",
		},
		[]string{"channel", "status"},
	)
)

// State metrics track the persisted baselines.
var (
	// SourceErrorCount exposes each source's consecutive failure counter.
	SourceErrorCount = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "newswatch_source_error_count",
			Help: "Consecutive failure count per source",
		},
		[]string{"source_id"},
	)
)
