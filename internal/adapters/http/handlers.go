package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/sp3dr4/qrlink/config"
	"github.com/sp3dr4/qrlink/internal/application"
	"github.com/sp3dr4/qrlink/internal/domain"
	"github.com/sp3dr4/qrlink/internal/pkg/logging"
	"github.com/sp3dr4/qrlink/internal/pkg/metrics"
	"github.com/sp3dr4/qrlink/internal/qr"
)

const notFoundMessage = "mapping not found"

type Handlers struct {
	service  *application.LinkService
	encoder  qr.Encoder
	cfg      *config.Config
	metrics  metrics.Registry
	validate *validator.Validate
}

func NewHandlers(service *application.LinkService, encoder qr.Encoder, cfg *config.Config, registry metrics.Registry) *Handlers {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(jsonFieldName)

	return &Handlers{
		service:  service,
		encoder:  encoder,
		cfg:      cfg,
		metrics:  registry,
		validate: validate,
	}
}

// HandleHealth handles the health check endpoint.
//
//	@Summary		Health check endpoint
//	@Description	Check if the service is running
//	@Tags			health
//	@Produce		plain
//	@Success		200	{string}	string	"OK"
//	@Router			/health [get]
func (h *Handlers) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK")
}

// HandleReady handles the readiness check endpoint.
//
//	@Summary		Readiness check endpoint
//	@Description	Check if the service is ready to serve requests (database and cache connectivity)
//	@Tags			health
//	@Produce		json
//	@Success		200	{object}	object{status=string,timestamp=string}	"Service is ready"
//	@Failure		503	{object}	ErrorResponse							"Service is not ready"
//	@Router			/ready [get]
func (h *Handlers) HandleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.service.HealthCheck(ctx); err != nil {
		logging.FromContext(r.Context()).Error("Readiness check failed", "error", err)
		respondWithError(w, http.StatusServiceUnavailable, "Service not ready")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{
		"status":    "ready",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// HandleRedirect resolves a short link.
//
//	@Summary		Redirect to the destination URL
//	@Description	Resolve the short identifier and answer with a temporary redirect
//	@Tags			links
//	@Produce		plain
//	@Param			id	path	string	true	"Short identifier"
//	@Success		302	"Redirect to destination"
//	@Failure		404	{string}	string	"mapping not found"
//	@Router			/go/{id} [get]
func (h *Handlers) HandleRedirect(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context())
	id := chi.URLParam(r, "id")

	destination, err := h.service.Resolve(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrLinkNotFound) {
			respondWithText(w, http.StatusNotFound, notFoundMessage)
			return
		}
		logger.Error("Failed to resolve link", "id", id, "error", err)
		respondWithText(w, http.StatusInternalServerError, "failed to resolve link")
		return
	}

	logger.Info("Redirecting", "id", id, "url", destination)
	http.Redirect(w, r, destination, http.StatusFound)
}

// HandleQRImage renders the QR code of a short link.
//
//	@Summary		QR code for a short link
//	@Description	PNG image encoding the resolvable short link; the id is not checked for existence
//	@Tags			links
//	@Produce		png
//	@Param			id	path	string	true	"Short identifier"
//	@Success		200	{file}	binary
//	@Router			/qr_img/{id} [get]
func (h *Handlers) HandleQRImage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	img, err := h.encoder.Encode(h.cfg.ShortLinkURL(id))
	if err != nil {
		logging.FromContext(r.Context()).Error("Failed to render QR code", "id", id, "error", err)
		respondWithText(w, http.StatusInternalServerError, "failed to render qr code")
		return
	}

	h.metrics.IncQRRendered()
	w.Header().Set("Content-Type", h.encoder.ContentType())
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(img)
}

// jsonFieldName makes validator report fields by their json tag
func jsonFieldName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return field.Name
	}
	return name
}
