package metrics

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

// GetRoutePath extracts the route pattern from the request context
// This helps group metrics by route pattern rather than specific values
func GetRoutePath(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}

	return NormalizePath(r.URL.Path)
}

// NormalizePath normalizes URL paths to reduce cardinality in metrics.
// Short link ids are replaced by {id}.
func NormalizePath(path string) string {
	if path == "" || path == "/" {
		return "/"
	}

	switch {
	case path == "/health", path == "/ready", path == MetricsPath, path == "/api/links":
		return path
	case strings.HasPrefix(path, "/swagger"):
		return "/swagger/*"
	}

	segments := strings.Split(strings.Trim(path, "/"), "/")
	switch {
	case len(segments) == 2 && (segments[0] == "go" || segments[0] == "qr_img" || segments[0] == "update"):
		return "/" + segments[0] + "/{id}"
	case len(segments) == 3 && segments[0] == "api" && segments[1] == "links":
		return "/api/links/{id}"
	}

	return "/*"
}

// FormatStatusCode converts an integer status code to string
func FormatStatusCode(statusCode int) string {
	return strconv.Itoa(statusCode)
}
