package logging

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"
)

type ctxKey int

const (
	loggerKey ctxKey = iota
	requestKey
)

// requestIDs are the correlation ids attached to every request log line.
type requestIDs struct {
	requestID string
	traceID   string
}

func idsFrom(ctx context.Context) requestIDs {
	ids, _ := ctx.Value(requestKey).(requestIDs)
	return ids
}

// WithLogger adds a logger to the context
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext returns the request logger, or slog.Default outside a request.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

func WithTraceID(ctx context.Context, traceID string) context.Context {
	ids := idsFrom(ctx)
	ids.traceID = traceID
	return context.WithValue(ctx, requestKey, ids)
}

func TraceIDFromContext(ctx context.Context) string {
	return idsFrom(ctx).traceID
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	ids := idsFrom(ctx)
	ids.requestID = requestID
	return context.WithValue(ctx, requestKey, ids)
}

func RequestIDFromContext(ctx context.Context) string {
	return idsFrom(ctx).requestID
}

// GenerateTraceID returns 32 lowercase hex digits.
func GenerateTraceID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// NewRequestLogger derives a logger carrying the request and trace ids found in ctx.
func NewRequestLogger(ctx context.Context, baseLogger *slog.Logger) *slog.Logger {
	ids := idsFrom(ctx)

	var attrs []any
	if ids.requestID != "" {
		attrs = append(attrs, slog.String("request_id", ids.requestID))
	}
	if ids.traceID != "" {
		attrs = append(attrs, slog.String("trace_id", ids.traceID))
	}
	if len(attrs) == 0 {
		return baseLogger
	}
	return baseLogger.With(attrs...)
}
