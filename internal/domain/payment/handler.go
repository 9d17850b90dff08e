package payment

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/clinkr/clinkr-api/internal/pkg/response"
	"github.com/clinkr/clinkr-api/internal/pkg/validator"
)

// Handler handles payment HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates payment handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Submit handles POST /payments
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		response.BadRequest(w, "Invalid user id")
		return
	}

	p, err := h.service.Submit(r.Context(), userID, req.TxID, req.Wallet, PlanID(req.Plan))
	if err != nil {
		h.writeSubmitError(w, err)
		return
	}

	response.Created(w, PaymentResponseFromEntity(p))
}

func (h *Handler) writeSubmitError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrUnknownPlan):
		response.BadRequest(w, "Unknown plan")
	case errors.Is(err, ErrMalformedTxID):
		response.BadRequest(w, "Malformed transaction id for the claimed asset")
	case errors.Is(err, ErrDuplicateTransaction):
		response.Conflict(w, "DUPLICATE_TRANSACTION", "Transaction already used")
	case errors.Is(err, ErrInvalidTransaction):
		response.UnprocessableEntity(w, "INVALID_TRANSACTION", err.Error())
	case errors.Is(err, ErrUpstreamUnavailable):
		response.ServiceUnavailable(w, "Chain explorer unavailable, please try again")
	default:
		response.InternalError(w)
	}
}

// Review handles POST /payments/{paymentID}/review
func (h *Handler) Review(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "paymentID"))
	if err != nil {
		response.BadRequest(w, "Invalid payment id")
		return
	}

	var req ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	p, err := h.service.Review(r.Context(), id, Status(req.Decision))
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidDecision):
			response.BadRequest(w, "Decision must be active or rejected")
		case errors.Is(err, ErrPaymentNotFound):
			response.NotFound(w, "Payment not found")
		case errors.Is(err, ErrInvalidStateTransition):
			response.Conflict(w, "INVALID_STATE_TRANSITION", "Payment already reviewed")
		default:
			response.InternalError(w)
		}
		return
	}

	response.OK(w, PaymentResponseFromEntity(p))
}

// Get handles GET /payments/{paymentID}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "paymentID"))
	if err != nil {
		response.BadRequest(w, "Invalid payment id")
		return
	}

	p, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrPaymentNotFound) {
			response.NotFound(w, "Payment not found")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, PaymentResponseFromEntity(p))
}
