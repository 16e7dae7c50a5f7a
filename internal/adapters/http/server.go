package http

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpswagger "github.com/swaggo/http-swagger"

	"github.com/sp3dr4/qrlink/config"
	"github.com/sp3dr4/qrlink/internal/pkg/metrics"
)

func NewRouter(handlers *Handlers, logger *slog.Logger, cfg *config.Config, metricsRegistry metrics.Registry) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(LoggingMiddleware(logger))
	r.Use(metrics.PrometheusMiddleware(metricsRegistry, cfg.Metrics.Path))
	r.Use(middleware.Recoverer)

	r.Get("/health", handlers.HandleHealth)
	r.Get("/ready", handlers.HandleReady)

	if cfg.Metrics.Enabled {
		if h := metricsRegistry.GetHandler(); h != nil {
			r.Handle(cfg.Metrics.Path, h)
		}
	}

	r.Get("/swagger/*", httpswagger.Handler(
		httpswagger.URL("/swagger/doc.json"),
	))

	// Admin view
	r.Get("/", handlers.HandleAdmin)
	r.Post("/", handlers.HandleAdminCreate)
	r.Post("/update/{id}", handlers.HandleAdminUpdate)

	// Resolution and QR images
	r.Get("/go/{id}", handlers.HandleRedirect)
	r.Head("/go/{id}", handlers.HandleRedirect)
	r.Get("/qr_img/{id}", handlers.HandleQRImage)

	r.Route("/api/links", func(r chi.Router) {
		r.Get("/", handlers.HandleListLinks)
		r.Post("/", handlers.HandleCreateLink)
		r.Get("/{id}", handlers.HandleGetLink)
		r.Put("/{id}", handlers.HandleUpdateLink)
	})

	return r
}
