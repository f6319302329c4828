package notifier

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimiter spaces outgoing webhook calls so a burst of detections cannot
// trip the receiving service's API limits.
type RateLimiter struct {
	limiter *rate.Limiter
}

// NewRateLimiter returns a token-bucket limiter sustaining requestsPerSecond
// with the given burst capacity.
func NewRateLimiter(requestsPerSecond float64, burst int) *RateLimiter {
	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
	}
}

// Wait blocks until a token is available or the context is canceled.
func (r *RateLimiter) Wait(ctx context.Context) error {
	return r.limiter.Wait(ctx)
}
