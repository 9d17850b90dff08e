package link

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/clinkr/clinkr-api/internal/middleware"
	"github.com/clinkr/clinkr-api/internal/pkg/response"
	"github.com/clinkr/clinkr-api/internal/pkg/validator"
)

// Handler handles link HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates link handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Create handles POST /links
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	l, err := h.service.Create(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidTargetURL):
			response.BadRequest(w, "Target URL must be absolute http or https")
		case errors.Is(err, ErrCodeTaken):
			response.Conflict(w, "ALIAS_TAKEN", "Custom alias is already in use")
		case errors.Is(err, ErrCodeExhausted):
			response.InternalError(w)
		default:
			log.Error().Err(err).Msg("Failed to create link")
			response.InternalError(w)
		}
		return
	}

	response.Created(w, LinkResponseFromEntity(l))
}

// Redirect handles GET /{code}
func (h *Handler) Redirect(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	l, adFree, err := h.service.Resolve(r.Context(), code, r.UserAgent(), middleware.ClientIP(r))
	if err != nil {
		if errors.Is(err, ErrLinkNotFound) {
			response.NotFound(w, "Short link not found")
			return
		}
		log.Error().Err(err).Str("short_code", code).Msg("Failed to resolve link")
		response.InternalError(w)
		return
	}

	if adFree {
		w.Header().Set("X-Ad-Free", "1")
	}
	http.Redirect(w, r, l.OriginalURL, http.StatusFound)
}

// Analytics handles GET /links/{linkID}/analytics
func (h *Handler) Analytics(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "linkID"))
	if err != nil {
		response.BadRequest(w, "Invalid link ID")
		return
	}

	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 && v <= 500 {
			limit = v
		}
	}

	stats, recent, err := h.service.Analytics(r.Context(), id, limit)
	if err != nil {
		if errors.Is(err, ErrLinkNotFound) {
			response.NotFound(w, "Link not found")
			return
		}
		log.Error().Err(err).Str("link_id", id.String()).Msg("Failed to load analytics")
		response.InternalError(w)
		return
	}

	response.OK(w, &AnalyticsResponse{Stats: stats, Recent: recent})
}

// Export handles POST /links/{linkID}/export
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "linkID"))
	if err != nil {
		response.BadRequest(w, "Invalid link ID")
		return
	}

	url, err := h.service.ExportCSV(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrLinkNotFound) {
			response.NotFound(w, "Link not found")
			return
		}
		log.Error().Err(err).Str("link_id", id.String()).Msg("Failed to export clicks")
		response.InternalError(w)
		return
	}

	response.OK(w, &ExportResponse{URL: url})
}
