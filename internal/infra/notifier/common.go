package notifier

import "fmt"

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const requestIDKey contextKey = "request_id"

// ClientError represents a 4xx response from a webhook service. The payload
// or webhook URL is wrong; sending again would not help.
type ClientError struct {
	StatusCode int
	Message    string
}

func (e *ClientError) Error() string {
	return fmt.Sprintf("webhook client error (HTTP %d): %s", e.StatusCode, e.Message)
}

// RateLimitError represents a 429 response from a webhook service. The
// send is not repeated; the channel's rate limiter spacing means the next
// notification should go through.
type RateLimitError struct {
	RetryAfter string
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter != "" {
		return fmt.Sprintf("webhook rate limited (retry after %s)", e.RetryAfter)
	}
	return "webhook rate limited"
}

// ServerError represents a 5xx response from a webhook service.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("webhook server error (HTTP %d): %s", e.StatusCode, e.Message)
}

// truncate shortens text to maxLen, appending an ellipsis when cut.
func truncate(text string, maxLen int) string {
	if len(text) <= maxLen {
		return text
	}
	const suffix = "..."
	if maxLen <= len(suffix) {
		return text[:maxLen]
	}
	return text[:maxLen-len(suffix)] + suffix
}
