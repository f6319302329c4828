package notifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"

	"newswatch/internal/domain/entity"
)

// MultiNotifier fans a notification out to every enabled channel. Each
// channel sits behind its own circuit breaker so a webhook outage on one
// service cannot slow down the others.
type MultiNotifier struct {
	channels []guardedChannel
}

type guardedChannel struct {
	dispatcher Dispatcher
	breaker    *gobreaker.CircuitBreaker
}

const (
	breakerFailureThreshold = 5
	breakerOpenDuration     = 5 * time.Minute
)

// NewMultiNotifier wraps the given dispatchers. Channel order is preserved;
// disabled channels are kept and skipped at send time so a channel can be
// enabled by configuration without rebuilding the notifier.
func NewMultiNotifier(dispatchers ...Dispatcher) *MultiNotifier {
	channels := make([]guardedChannel, 0, len(dispatchers))
	for _, d := range dispatchers {
		settings := gobreaker.Settings{
			Name:    d.Name(),
			Timeout: breakerOpenDuration,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= breakerFailureThreshold
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				slog.Warn("notification circuit state changed",
					slog.String("channel", name),
					slog.String("from", from.String()),
					slog.String("to", to.String()))
			},
		}
		channels = append(channels, guardedChannel{
			dispatcher: d,
			breaker:    gobreaker.NewCircuitBreaker(settings),
		})
	}
	return &MultiNotifier{channels: channels}
}

// Name implements Dispatcher.
func (m *MultiNotifier) Name() string { return "multi" }

// IsEnabled implements Dispatcher. The notifier is enabled when at least one
// underlying channel is.
func (m *MultiNotifier) IsEnabled() bool {
	for _, ch := range m.channels {
		if ch.dispatcher.IsEnabled() {
			return true
		}
	}
	return false
}

// Send implements Dispatcher. Every enabled channel is attempted; the send
// succeeds if at least one channel accepts the notification. Channels with
// an open circuit are counted as failed without being called.
func (m *MultiNotifier) Send(ctx context.Context, sourceID string, article entity.Article, previous *entity.Article) error {
	var attempted, succeeded int
	var errs []error

	for _, ch := range m.channels {
		if !ch.dispatcher.IsEnabled() {
			continue
		}
		attempted++

		_, err := ch.breaker.Execute(func() (any, error) {
			return nil, ch.dispatcher.Send(ctx, sourceID, article, previous)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				slog.Warn("notification channel circuit open, skipping",
					slog.String("channel", ch.dispatcher.Name()),
					slog.String("source_id", sourceID))
			} else {
				slog.Error("notification send failed",
					slog.String("channel", ch.dispatcher.Name()),
					slog.String("source_id", sourceID),
					slog.Any("error", err))
			}
			errs = append(errs, fmt.Errorf("%s: %w", ch.dispatcher.Name(), err))
			continue
		}
		succeeded++
	}

	if attempted == 0 {
		return nil
	}
	if succeeded == 0 {
		return fmt.Errorf("all notification channels failed: %w", errors.Join(errs...))
	}
	return nil
}
