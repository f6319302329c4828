package notifier

import (
	"context"
	"log/slog"

	"newswatch/internal/domain/entity"
)

// NoopDispatcher logs notifications instead of delivering them. It backs
// dry runs and deployments with no webhook configured.
type NoopDispatcher struct{}

// NewNoopDispatcher creates a no-op dispatcher.
func NewNoopDispatcher() *NoopDispatcher { return &NoopDispatcher{} }

// Name implements Dispatcher.
func (n *NoopDispatcher) Name() string { return "noop" }

// IsEnabled implements Dispatcher.
func (n *NoopDispatcher) IsEnabled() bool { return true }

// Send implements Dispatcher by logging the would-be notification.
func (n *NoopDispatcher) Send(_ context.Context, sourceID string, article entity.Article, previous *entity.Article) error {
	attrs := []any{
		slog.String("source_id", sourceID),
		slog.String("title", article.Title),
		slog.String("url", article.URL),
	}
	if previous != nil {
		attrs = append(attrs, slog.String("previous_url", previous.URL))
	}
	slog.Info("notification (noop)", attrs...)
	return nil
}
