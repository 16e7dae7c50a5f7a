package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("WARN"))
	assert.Equal(t, slog.LevelError, ParseLevel(" error "))
	assert.Equal(t, slog.LevelInfo, ParseLevel("info"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestNewRequestLogger_AddsContextFields(t *testing.T) {
	var buf bytes.Buffer
	base := New(&buf, "info")

	ctx := WithRequestID(context.Background(), "req-1")
	ctx = WithTraceID(ctx, "trace-1")

	NewRequestLogger(ctx, base).Info("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, "trace-1", entry["trace_id"])
	assert.Equal(t, "hello", entry["msg"])
}

func TestFromContext(t *testing.T) {
	assert.Same(t, slog.Default(), FromContext(context.Background()))

	logger := New(&bytes.Buffer{}, "debug")
	ctx := WithLogger(context.Background(), logger)
	assert.Same(t, logger, FromContext(ctx))
}

func TestGenerateTraceID(t *testing.T) {
	a, b := GenerateTraceID(), GenerateTraceID()
	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
}

func TestContextIDs(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, RequestIDFromContext(ctx))
	assert.Empty(t, TraceIDFromContext(ctx))

	ctx = WithTraceID(WithRequestID(ctx, "req-2"), "trace-2")
	assert.Equal(t, "req-2", RequestIDFromContext(ctx))
	assert.Equal(t, "trace-2", TraceIDFromContext(ctx))

	base := New(&bytes.Buffer{}, "info")
	assert.Same(t, base, NewRequestLogger(context.Background(), base))
}
