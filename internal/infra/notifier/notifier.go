// Package notifier delivers new-article notifications to external channels.
// It defines the Dispatcher interface consumed by the change detector and
// provides Discord and Slack webhook implementations plus a no-op fallback.
//
// Delivery is at-least-once best-effort: a failed send is logged and
// reported, never retried, and never affects detection state.
package notifier

import (
	"context"

	"newswatch/internal/domain/entity"
)

// Dispatcher sends a notification about a newly detected top article.
type Dispatcher interface {
	// Name returns the channel identifier used in logs and metrics.
	Name() string

	// IsEnabled reports whether the channel is configured. Disabled
	// channels are skipped without error.
	IsEnabled() bool

	// Send notifies the channel that sourceID's top item changed from
	// previous to article. previous is nil when the monitor has never
	// notified for this source before. Implementations must respect
	// context cancellation and must not retry on failure.
	Send(ctx context.Context, sourceID string, article entity.Article, previous *entity.Article) error
}
