// Package fetcher performs conditional HTTP fetches of monitored sources.
// It carries caching validators from the previous check, distinguishes
// not-modified responses from fresh content, and spaces out requests to the
// same origin.
package fetcher

import "time"

// Config holds the fetch behavior settings. There is no process-wide mutable
// client state: everything a fetch needs is passed in here.
type Config struct {
	// UserAgent identifies the monitor to origins.
	UserAgent string

	// Timeout is the hard ceiling on a single fetch call. A source gets
	// exactly one attempt per run; there is no retry or backoff.
	Timeout time.Duration

	// PolitenessDelay is the fixed pause applied after a successful content
	// fetch, before the caller proceeds to extraction work against the same
	// origin. It is not applied on a not-modified response.
	PolitenessDelay time.Duration

	// MaxBodySize limits how many response bytes are read.
	MaxBodySize int64
}

// DefaultConfig returns the production fetch settings.
func DefaultConfig() Config {
	return Config{
		UserAgent:       "newswatch/1.0 (article-change-detection)",
		Timeout:         15 * time.Second,
		PolitenessDelay: 2 * time.Second,
		MaxBodySize:     10 * 1024 * 1024, // 10MB
	}
}
