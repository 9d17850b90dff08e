package link

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns link router. Analytics and export back the admin
// dashboard; creation is public.
func (h *Handler) Routes(adminMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)

	r.Group(func(r chi.Router) {
		r.Use(adminMiddleware)
		r.Get("/{linkID}/analytics", h.Analytics)
		r.Post("/{linkID}/export", h.Export)
	})

	return r
}
