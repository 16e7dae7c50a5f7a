package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/sp3dr4/qrlink/internal/pkg/logging"
)

const traceHeader = "X-Trace-Id"

// LoggingMiddleware stores a request-scoped logger carrying the chi request
// ID and a trace ID in the request context, and logs each completed request.
func LoggingMiddleware(baseLogger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ctx := r.Context()

			if reqID := middleware.GetReqID(ctx); reqID != "" {
				ctx = logging.WithRequestID(ctx, reqID)
			}

			traceID := r.Header.Get(traceHeader)
			if traceID == "" {
				traceID = logging.GenerateTraceID()
			}
			ctx = logging.WithTraceID(ctx, traceID)
			w.Header().Set(traceHeader, traceID)

			requestLogger := logging.NewRequestLogger(ctx, baseLogger)
			ctx = logging.WithLogger(ctx, requestLogger)

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			requestLogger.Info("Request completed",
				"method", r.Method,
				"path", r.URL.Path,
				"remote_addr", r.RemoteAddr,
				"status_code", status,
				"bytes", ww.BytesWritten(),
				"duration_ms", float64(time.Since(start).Microseconds())/1e3,
			)
		})
	}
}
