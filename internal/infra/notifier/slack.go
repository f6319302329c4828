package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"newswatch/internal/domain/entity"
)

// SlackConfig contains configuration for Slack webhook notifications.
type SlackConfig struct {
	// WebhookURL is the Slack incoming webhook URL. An empty URL disables
	// the channel.
	WebhookURL string

	// Timeout is the HTTP request timeout for webhook calls.
	Timeout time.Duration
}

// SlackDispatcher sends new-article notifications to a Slack webhook using
// Block Kit sections.
type SlackDispatcher struct {
	config      SlackConfig
	httpClient  *http.Client
	rateLimiter *RateLimiter
}

// NewSlackDispatcher creates a Slack dispatcher. Slack allows roughly one
// webhook message per second.
func NewSlackDispatcher(config SlackConfig) *SlackDispatcher {
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}
	return &SlackDispatcher{
		config:      config,
		httpClient:  &http.Client{Timeout: config.Timeout},
		rateLimiter: NewRateLimiter(1, 3),
	}
}

// Name implements Dispatcher.
func (s *SlackDispatcher) Name() string { return "slack" }

// IsEnabled implements Dispatcher.
func (s *SlackDispatcher) IsEnabled() bool { return s.config.WebhookURL != "" }

type slackPayload struct {
	Text   string       `json:"text"`
	Blocks []slackBlock `json:"blocks"`
}

type slackBlock struct {
	Type string     `json:"type"`
	Text *slackText `json:"text,omitempty"`
}

type slackText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

const slackMaxTextLength = 3000

// Send implements Dispatcher. One webhook call, no retries.
func (s *SlackDispatcher) Send(ctx context.Context, sourceID string, article entity.Article, previous *entity.Article) error {
	requestID := uuid.New().String()
	ctx = context.WithValue(ctx, requestIDKey, requestID)

	if err := s.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("slack rate limiter: %w", err)
	}

	payload := buildSlackPayload(sourceID, article, previous)
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal slack payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create slack request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute slack request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		slog.Info("slack notification sent",
			slog.String("request_id", requestID),
			slog.String("source_id", sourceID),
			slog.String("url", article.URL))
		return nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return &RateLimitError{RetryAfter: resp.Header.Get("Retry-After")}
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return &ClientError{StatusCode: resp.StatusCode, Message: string(respBody)}
	case resp.StatusCode >= 500:
		return &ServerError{StatusCode: resp.StatusCode, Message: string(respBody)}
	default:
		return fmt.Errorf("slack unexpected status %d: %s", resp.StatusCode, respBody)
	}
}

func buildSlackPayload(sourceID string, article entity.Article, previous *entity.Article) slackPayload {
	text := fmt.Sprintf("*New article from %s*\n<%s|%s>", sourceID, article.URL,
		truncate(article.Title, slackMaxTextLength))
	if article.PublishedTime != "" {
		text += "\nPublished: " + article.PublishedTime
	}

	blocks := []slackBlock{
		{Type: "section", Text: &slackText{Type: "mrkdwn", Text: text}},
	}
	if previous != nil {
		blocks = append(blocks, slackBlock{
			Type: "section",
			Text: &slackText{Type: "mrkdwn", Text: "Previous: " + truncate(previous.Title, slackMaxTextLength)},
		})
	}

	return slackPayload{
		Text:   "New article from " + sourceID,
		Blocks: blocks,
	}
}
