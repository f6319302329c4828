package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"newswatch/internal/domain/entity"
)

// DiscordConfig contains configuration for Discord webhook notifications.
type DiscordConfig struct {
	// WebhookURL is the Discord incoming webhook URL. An empty URL
	// disables the channel.
	WebhookURL string

	// Timeout is the HTTP request timeout for webhook calls.
	Timeout time.Duration
}

// DiscordDispatcher sends new-article notifications to a Discord webhook.
type DiscordDispatcher struct {
	config      DiscordConfig
	httpClient  *http.Client
	rateLimiter *RateLimiter
}

// NewDiscordDispatcher creates a Discord dispatcher. The rate limiter sits
// under Discord's webhook limit of 30 requests per minute.
func NewDiscordDispatcher(config DiscordConfig) *DiscordDispatcher {
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}
	return &DiscordDispatcher{
		config:      config,
		httpClient:  &http.Client{Timeout: config.Timeout},
		rateLimiter: NewRateLimiter(0.5, 3),
	}
}

// Name implements Dispatcher.
func (d *DiscordDispatcher) Name() string { return "discord" }

// IsEnabled implements Dispatcher.
func (d *DiscordDispatcher) IsEnabled() bool { return d.config.WebhookURL != "" }

const (
	discordMaxTitleLength = 256
	discordMaxFieldLength = 1024

	// Embed accent colors keyed off the article's site.
	discordColorDefault = 0x5865F2 // blurple
	discordColorNYT     = 0x000000
	discordColorWaPo    = 0x14171A
)

type discordPayload struct {
	Content string         `json:"content"`
	Embeds  []discordEmbed `json:"embeds"`
}

type discordEmbed struct {
	Title  string              `json:"title"`
	Color  int                 `json:"color"`
	Fields []discordField      `json:"fields"`
	Footer *discordEmbedFooter `json:"footer,omitempty"`
}

type discordField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type discordEmbedFooter struct {
	Text string `json:"text"`
}

// Send implements Dispatcher. One webhook call, no retries.
func (d *DiscordDispatcher) Send(ctx context.Context, sourceID string, article entity.Article, previous *entity.Article) error {
	requestID := uuid.New().String()
	ctx = context.WithValue(ctx, requestIDKey, requestID)

	if err := d.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("discord rate limiter: %w", err)
	}

	payload := buildDiscordPayload(sourceID, article, previous)
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal discord payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.config.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create discord request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute discord request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		slog.Info("discord notification sent",
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
		return fmt.Errorf("discord unexpected status %d: %s", resp.StatusCode, respBody)
	}
}

// buildDiscordPayload renders the new article, and the one it displaced, as
// a single embed.
func buildDiscordPayload(sourceID string, article entity.Article, previous *entity.Article) discordPayload {
	fields := []discordField{
		{Name: "Title", Value: truncate(article.Title, discordMaxFieldLength)},
		{Name: "URL", Value: fmt.Sprintf("[View Article](%s)", article.URL)},
	}
	if article.PublishedTime != "" {
		fields = append(fields, discordField{Name: "Published", Value: article.PublishedTime})
	}

	embed := discordEmbed{
		Title:  truncate("New Article: "+sourceID, discordMaxTitleLength),
		Color:  siteColor(article.URL),
		Fields: fields,
	}
	if previous != nil {
		embed.Footer = &discordEmbedFooter{
			Text: truncate("Previous: "+previous.Title, discordMaxFieldLength),
		}
	}

	return discordPayload{
		Content: "New article from " + sourceID,
		Embeds:  []discordEmbed{embed},
	}
}

func siteColor(articleURL string) int {
	switch {
	case strings.Contains(articleURL, "nytimes.com"):
		return discordColorNYT
	case strings.Contains(articleURL, "washingtonpost.com"):
		return discordColorWaPo
	default:
		return discordColorDefault
	}
}
