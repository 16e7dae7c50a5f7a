package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sp3dr4/qrlink/config"
)

func testMetricsConfig() config.MetricsConfig {
	return config.MetricsConfig{
		Enabled:   true,
		Path:      "/metrics",
		Namespace: "test",
		Subsystem: "test",
	}
}

// counterValue sums every series of the named counter family.
func counterValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)

	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		var total float64
		for _, m := range mf.GetMetric() {
			total += m.GetCounter().GetValue()
		}
		return total
	}
	return 0
}

func TestNewPrometheusRegistry(t *testing.T) {
	tests := []struct {
		name   string
		config config.MetricsConfig
	}{
		{
			name: "valid config with runtime collectors",
			config: config.MetricsConfig{
				Enabled:        true,
				Path:           "/metrics",
				Namespace:      "qrlink",
				Subsystem:      "links",
				CollectRuntime: true,
			},
		},
		{
			name:   "minimal config",
			config: testMetricsConfig(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry, err := NewPrometheusRegistry(tt.config)
			require.NoError(t, err)
			assert.NotNil(t, registry.GetRegistry())
			assert.NotNil(t, registry.GetHandler())
		})
	}
}

func TestPrometheusRegistry_BusinessMetrics(t *testing.T) {
	registry, err := NewPrometheusRegistry(testMetricsConfig())
	require.NoError(t, err)

	registry.IncLinksCreated()
	registry.IncLinksCreated()
	registry.IncLinksUpdated()
	registry.IncIDCollisions()
	registry.IncRedirects(OutcomeResolved)
	registry.IncRedirects(OutcomeNotFound)
	registry.IncRedirects(OutcomeResolved)
	registry.IncQRRendered()
	registry.IncCacheLookups(CacheHit)

	reg := registry.GetRegistry()
	assert.Equal(t, 2.0, counterValue(t, reg, "test_test_links_created_total"))
	assert.Equal(t, 1.0, counterValue(t, reg, "test_test_links_updated_total"))
	assert.Equal(t, 1.0, counterValue(t, reg, "test_test_id_collisions_total"))
	assert.Equal(t, 3.0, counterValue(t, reg, "test_test_redirects_total"))
	assert.Equal(t, 1.0, counterValue(t, reg, "test_test_qr_rendered_total"))
	assert.Equal(t, 1.0, counterValue(t, reg, "test_test_cache_lookups_total"))
}

func TestPrometheusMiddleware(t *testing.T) {
	registry, err := NewPrometheusRegistry(testMetricsConfig())
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Use(PrometheusMiddleware(registry, "/metrics"))
	r.Get("/go/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusFound)
	})
	r.Handle("/metrics", registry.GetHandler())

	for _, path := range []string{"/go/abc123", "/go/def456", "/metrics"} {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	}

	families, err := registry.GetRegistry().Gather()
	require.NoError(t, err)

	var found bool
	for _, mf := range families {
		if mf.GetName() != "test_test_http_requests_total" {
			continue
		}
		require.Len(t, mf.GetMetric(), 1, "both ids should share one route label and /metrics is skipped")
		found = true
		m := mf.GetMetric()[0]
		assert.Equal(t, 2.0, m.GetCounter().GetValue())
		for _, lp := range m.GetLabel() {
			switch lp.GetName() {
			case LabelPath:
				assert.Equal(t, "/go/{id}", lp.GetValue())
			case LabelStatusCode:
				assert.Equal(t, "302", lp.GetValue())
			}
		}
	}
	assert.True(t, found)
}

func TestNormalizePath(t *testing.T) {
	tests := map[string]string{
		"":                   "/",
		"/":                  "/",
		"/health":            "/health",
		"/api/links":         "/api/links",
		"/api/links/abc123":  "/api/links/{id}",
		"/go/abc123":         "/go/{id}",
		"/qr_img/abc123":     "/qr_img/{id}",
		"/update/abc123":     "/update/{id}",
		"/swagger/index.htm": "/swagger/*",
		"/favicon.ico":       "/*",
	}

	for in, want := range tests {
		assert.Equal(t, want, NormalizePath(in), "path %q", in)
	}
}

func TestNoOpRegistry(t *testing.T) {
	registry := NewNoOpRegistry()

	assert.NotPanics(t, func() {
		registry.RecordHTTPRequest("GET", "/test", "200", 0.1)
		registry.IncHTTPRequestsInFlight()
		registry.DecHTTPRequestsInFlight()
		registry.IncLinksCreated()
		registry.IncLinksUpdated()
		registry.IncIDCollisions()
		registry.IncRedirects(OutcomeResolved)
		registry.IncQRRendered()
		registry.IncCacheLookups(CacheMiss)

		assert.Nil(t, registry.GetRegistry())
		assert.Nil(t, registry.GetHandler())
	})
}
