package observability

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected slog.Level
	}{
		{"debug", "debug", slog.LevelDebug},
		{"info", "info", slog.LevelInfo},
		{"warn", "warn", slog.LevelWarn},
		{"error", "error", slog.LevelError},
		{"unknown", "unknown", slog.LevelInfo},
		{"empty", "", slog.LevelInfo},
		{"uppercase", "DEBUG", slog.LevelInfo}, // case sensitive, defaults to info
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLevel(tt.input))
		})
	}
}

func TestFromContext_NoValues(t *testing.T) {
	InitLogger("info", "text")

	l := FromContext(context.Background())
	assert.NotNil(t, l)
}

func TestFromContext_WithValues(t *testing.T) {
	InitLogger("info", "json")

	ctx := WithRequestID(context.Background(), "req-1")
	ctx = WithUserID(ctx, 42)
	ctx = WithBatchID(ctx, 7)

	l := FromContext(ctx)
	assert.NotNil(t, l)
	// Loggers with attrs are distinct from the root logger.
	assert.NotSame(t, logger, l)
}

func TestFromContext_UninitializedFallsBack(t *testing.T) {
	saved := logger
	logger = nil
	defer func() { logger = saved }()

	l := FromContext(context.Background())
	assert.NotNil(t, l)
}
