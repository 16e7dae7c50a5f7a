package metrics

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// MetricsPath is where the scrape endpoint is mounted unless configured otherwise.
const MetricsPath = "/metrics"

// PrometheusMiddleware records request count, latency and in-flight gauge per
// route pattern. Scrapes of metricsPath are not recorded.
func PrometheusMiddleware(registry Registry, metricsPath string) func(http.Handler) http.Handler {
	if metricsPath == "" {
		metricsPath = MetricsPath
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == metricsPath {
				next.ServeHTTP(w, r)
				return
			}

			registry.IncHTTPRequestsInFlight()
			defer registry.DecHTTPRequestsInFlight()

			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			// The route pattern is only complete once chi has routed the request.
			registry.RecordHTTPRequest(r.Method, GetRoutePath(r), FormatStatusCode(status), time.Since(start).Seconds())
		})
	}
}
