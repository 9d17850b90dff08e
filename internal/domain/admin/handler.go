package admin

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/clinkr/clinkr-api/internal/pkg/response"
	"github.com/clinkr/clinkr-api/internal/pkg/validator"
)

// Handler handles admin HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates admin handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Login handles POST /admin/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	token, expiresAt, err := h.service.Login(req.AccessKey)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidAccessKey):
			response.Unauthorized(w, "Invalid access key")
		case errors.Is(err, ErrNotConfigured):
			response.ServiceUnavailable(w, "Admin access is not configured")
		default:
			log.Error().Err(err).Msg("Admin login failed")
			response.InternalError(w)
		}
		return
	}

	response.OK(w, &LoginResponse{Token: token, ExpiresAt: expiresAt})
}

// Dashboard handles GET /admin/dashboard
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Dashboard(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to load dashboard stats")
		response.InternalError(w)
		return
	}

	response.OK(w, stats)
}
