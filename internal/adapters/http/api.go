package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/sp3dr4/qrlink/internal/domain"
	"github.com/sp3dr4/qrlink/internal/pkg/logging"
)

// LinkRequest is the body of create and update calls.
type LinkRequest struct {
	URL string `json:"url" validate:"required" example:"example.com/page"`
}

// LinkResponse describes a stored link.
type LinkResponse struct {
	ID       string `json:"id" example:"3f9a1c"`
	URL      string `json:"url" example:"https://example.com/page"`
	ShortURL string `json:"shortUrl" example:"http://localhost:8080/go/3f9a1c"`
	QRURL    string `json:"qrUrl" example:"http://localhost:8080/qr_img/3f9a1c"`
}

func (h *Handlers) toResponse(link *domain.Link) LinkResponse {
	return LinkResponse{
		ID:       link.ID,
		URL:      link.Destination,
		ShortURL: h.cfg.ShortLinkURL(link.ID),
		QRURL:    h.cfg.QRImageURL(link.ID),
	}
}

// decodeLinkRequest reads and validates a LinkRequest, writing the error
// response itself when it returns false.
func (h *Handlers) decodeLinkRequest(w http.ResponseWriter, r *http.Request) (LinkRequest, bool) {
	var req LinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logging.FromContext(r.Context()).Debug("Failed to decode request", "error", err)
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return req, false
	}

	if err := h.validate.Struct(req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			handleValidationError(w, validationErrors)
			return req, false
		}
		respondWithError(w, http.StatusBadRequest, "Invalid request")
		return req, false
	}

	return req, true
}

// HandleListLinks lists every link.
//
//	@Summary		List links
//	@Tags			links
//	@Produce		json
//	@Success		200	{array}		LinkResponse
//	@Failure		500	{object}	ErrorResponse
//	@Router			/api/links [get]
func (h *Handlers) HandleListLinks(w http.ResponseWriter, r *http.Request) {
	links, err := h.service.List(r.Context())
	if err != nil {
		logging.FromContext(r.Context()).Error("Failed to list links", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to list links")
		return
	}

	response := make([]LinkResponse, 0, len(links))
	for i := range links {
		response = append(response, h.toResponse(&links[i]))
	}
	respondWithJSON(w, http.StatusOK, response)
}

// HandleCreateLink creates a link.
//
//	@Summary		Create a link
//	@Description	Store a destination under a generated short identifier; https:// is added when no scheme is given
//	@Tags			links
//	@Accept			json
//	@Produce		json
//	@Param			request	body		LinkRequest				true	"Destination"
//	@Success		201		{object}	LinkResponse
//	@Failure		400		{object}	ValidationErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/api/links [post]
func (h *Handlers) HandleCreateLink(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeLinkRequest(w, r)
	if !ok {
		return
	}

	link, err := h.service.Create(r.Context(), req.URL)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			respondWithError(w, http.StatusBadRequest, "url must not be blank")
			return
		}
		logging.FromContext(r.Context()).Error("Failed to create link", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to create link")
		return
	}

	respondWithJSON(w, http.StatusCreated, h.toResponse(link))
}

// HandleGetLink returns one link.
//
//	@Summary		Get a link
//	@Tags			links
//	@Produce		json
//	@Param			id	path		string	true	"Short identifier"
//	@Success		200	{object}	LinkResponse
//	@Failure		404	{object}	ErrorResponse
//	@Router			/api/links/{id} [get]
func (h *Handlers) HandleGetLink(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	link, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrLinkNotFound) {
			respondWithError(w, http.StatusNotFound, notFoundMessage)
			return
		}
		logging.FromContext(r.Context()).Error("Failed to get link", "id", id, "error", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to get link")
		return
	}

	respondWithJSON(w, http.StatusOK, h.toResponse(link))
}

// HandleUpdateLink replaces a link destination.
//
//	@Summary		Update a link destination
//	@Tags			links
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string		true	"Short identifier"
//	@Param			request	body		LinkRequest	true	"New destination"
//	@Success		200		{object}	LinkResponse
//	@Failure		400		{object}	ValidationErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Router			/api/links/{id} [put]
func (h *Handlers) HandleUpdateLink(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	req, ok := h.decodeLinkRequest(w, r)
	if !ok {
		return
	}

	link, err := h.service.Update(r.Context(), id, req.URL)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			respondWithError(w, http.StatusBadRequest, "url must not be blank")
		case errors.Is(err, domain.ErrLinkNotFound):
			respondWithError(w, http.StatusNotFound, notFoundMessage)
		default:
			logging.FromContext(r.Context()).Error("Failed to update link", "id", id, "error", err)
			respondWithError(w, http.StatusInternalServerError, "Failed to update link")
		}
		return
	}

	respondWithJSON(w, http.StatusOK, h.toResponse(link))
}
