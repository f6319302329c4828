package logging

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name     string
		logLevel string
		expected slog.Level
	}{
		{
			name:     "default log level (info)",
			logLevel: "",
			expected: slog.LevelInfo,
		},
		{
			name:     "debug log level",
			logLevel: "debug",
			expected: slog.LevelDebug,
		},
		{
			name:     "warn log level",
			logLevel: "warn",
			expected: slog.LevelWarn,
		},
		{
			name:     "invalid log level defaults to info",
			logLevel: "invalid",
			expected: slog.LevelInfo,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLevel(tt.logLevel))
		})
	}
}

func TestWithLoggerAndFromContext(t *testing.T) {
	logger := NewTextLogger()
	ctx := WithLogger(context.Background(), logger)

	assert.Same(t, logger, FromContext(ctx))
}

func TestFromContextWithoutLogger(t *testing.T) {
	got := FromContext(context.Background())

	assert.NotNil(t, got)
	assert.Same(t, slog.Default(), got)
}

func TestWithFields(t *testing.T) {
	logger := NewTextLogger()
	enriched := WithFields(logger, map[string]interface{}{
		"source_id": "data-desk",
		"attempt":   1,
	})

	assert.NotNil(t, enriched)
	assert.NotSame(t, logger, enriched)
}
