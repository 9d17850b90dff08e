package admin

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns admin router
func (h *Handler) Routes(adminMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/login", h.Login)

	r.Group(func(r chi.Router) {
		r.Use(adminMiddleware)
		r.Get("/dashboard", h.Dashboard)
	})

	return r
}
