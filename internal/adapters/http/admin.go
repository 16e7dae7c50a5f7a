package http

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sp3dr4/qrlink/internal/domain"
	"github.com/sp3dr4/qrlink/internal/pkg/logging"
)

const (
	formFieldURL    = "url"
	formFieldNewURL = "new_url"

	noticeNotFound = "not_found"
)

//go:embed templates/admin.html
var templateFS embed.FS

var adminTemplate = template.Must(template.ParseFS(templateFS, "templates/admin.html"))

// AdminLink is one row of the admin page.
type AdminLink struct {
	ID          string
	Destination string
	ShortURL    string
	QRURL       string
}

// AdminView is everything the admin page renders.
type AdminView struct {
	Links  []AdminLink
	Notice string
}

// RenderAdmin writes the admin page for view to w.
func RenderAdmin(w io.Writer, view AdminView) error {
	return adminTemplate.Execute(w, view)
}

func (h *Handlers) adminView(links []domain.Link, notice string) AdminView {
	view := AdminView{Links: make([]AdminLink, 0, len(links))}
	for _, l := range links {
		view.Links = append(view.Links, AdminLink{
			ID:          l.ID,
			Destination: l.Destination,
			ShortURL:    h.cfg.ShortLinkURL(l.ID),
			QRURL:       "/qr_img/" + l.ID,
		})
	}

	if notice == noticeNotFound {
		view.Notice = "That link does not exist; nothing was updated."
	}
	return view
}

// HandleAdmin renders the list of links with create and update forms.
func (h *Handlers) HandleAdmin(w http.ResponseWriter, r *http.Request) {
	links, err := h.service.List(r.Context())
	if err != nil {
		logging.FromContext(r.Context()).Error("Failed to list links", "error", err)
		respondWithText(w, http.StatusInternalServerError, "failed to list links")
		return
	}

	// Render into a buffer so a template error can still become a 500.
	var buf bytes.Buffer
	if err := RenderAdmin(&buf, h.adminView(links, r.URL.Query().Get("error"))); err != nil {
		logging.FromContext(r.Context()).Error("Failed to render admin page", "error", err)
		respondWithText(w, http.StatusInternalServerError, "failed to render page")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// HandleAdminCreate creates a link from the url form field. Empty input is
// ignored.
func (h *Handlers) HandleAdminCreate(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context())

	_, err := h.service.Create(r.Context(), r.PostFormValue(formFieldURL))
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrInvalidInput):
		logger.Debug("Ignoring empty create submission")
	default:
		logger.Error("Failed to create link", "error", err)
		respondWithText(w, http.StatusInternalServerError, "failed to create link")
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleAdminUpdate replaces a link destination from the new_url form field.
// Empty input is ignored; an unknown id redirects back with a notice.
func (h *Handlers) HandleAdminUpdate(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context())
	id := chi.URLParam(r, "id")

	_, err := h.service.Update(r.Context(), id, r.PostFormValue(formFieldNewURL))
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrInvalidInput):
		logger.Debug("Ignoring empty update submission", "id", id)
	case errors.Is(err, domain.ErrLinkNotFound):
		logger.Info("Update for unknown link", "id", id)
		http.Redirect(w, r, "/?error="+noticeNotFound, http.StatusSeeOther)
		return
	default:
		logger.Error("Failed to update link", "id", id, "error", err)
		respondWithText(w, http.StatusInternalServerError, "failed to update link")
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}
