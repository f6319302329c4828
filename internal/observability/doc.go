// Package observability provides the monitor's observability infrastructure:
// structured logging and Prometheus metrics.
//
// Subpackages:
//   - logging: Structured logging utilities with slog
//   - metrics: Prometheus metrics registry and recorders
//
// Example usage:
//
//	import (
//	    "newswatch/internal/observability/logging"
//	    "newswatch/internal/observability/metrics"
//	)
//
//	func main() {
//	    logger := logging.NewLogger()
//	    logger.Info("monitor started")
//
//	    metrics.RecordCheck("example-source", "no_change", duration)
//	}
package observability
