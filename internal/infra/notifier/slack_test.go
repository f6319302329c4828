package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"newswatch/internal/domain/entity"
)

func TestSlackDispatcher_SendSuccess(t *testing.T) {
	var captured slackPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &captured); err != nil {
			t.Errorf("unmarshal payload: %v", err)
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	s := NewSlackDispatcher(SlackConfig{WebhookURL: server.URL})
	previous := &entity.Article{Title: "Old Story", URL: "https://example.com/old"}

	if err := s.Send(context.Background(), "data-desk", testArticle(), previous); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	if len(captured.Blocks) != 2 {
		t.Fatalf("blocks = %d, want main section plus previous", len(captured.Blocks))
	}
	main := captured.Blocks[0]
	if main.Type != "section" || main.Text == nil {
		t.Fatalf("first block = %+v, want mrkdwn section", main)
	}
	if !strings.Contains(main.Text.Text, "data-desk") || !strings.Contains(main.Text.Text, testArticle().URL) {
		t.Errorf("section text = %q, want source id and URL", main.Text.Text)
	}
	if !strings.Contains(captured.Blocks[1].Text.Text, "Old Story") {
		t.Errorf("previous block = %q", captured.Blocks[1].Text.Text)
	}
}

func TestSlackDispatcher_NoPreviousSingleBlock(t *testing.T) {
	var captured slackPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &captured)
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	s := NewSlackDispatcher(SlackConfig{WebhookURL: server.URL})
	if err := s.Send(context.Background(), "data-desk", testArticle(), nil); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if len(captured.Blocks) != 1 {
		t.Errorf("blocks = %d, want 1 when no previous article", len(captured.Blocks))
	}
}

func TestSlackDispatcher_ClientError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("no_service"))
	}))
	defer server.Close()

	s := NewSlackDispatcher(SlackConfig{WebhookURL: server.URL})
	err := s.Send(context.Background(), "data-desk", testArticle(), nil)

	var clientErr *ClientError
	if !errors.As(err, &clientErr) {
		t.Fatalf("error = %v, want *ClientError", err)
	}
	if clientErr.Message != "no_service" {
		t.Errorf("message = %q, want no_service", clientErr.Message)
	}
}

func TestSlackDispatcher_DisabledWithoutURL(t *testing.T) {
	s := NewSlackDispatcher(SlackConfig{})
	if s.IsEnabled() {
		t.Error("IsEnabled() = true with empty webhook URL")
	}
}
