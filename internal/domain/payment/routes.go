package payment

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns payment router
func (h *Handler) Routes(adminMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	// Public: payment submission from the app
	r.Post("/", h.Submit)

	// Reviewer-only
	r.Group(func(r chi.Router) {
		r.Use(adminMiddleware)
		r.Get("/{paymentID}", h.Get)
		r.Post("/{paymentID}/review", h.Review)
	})

	return r
}
