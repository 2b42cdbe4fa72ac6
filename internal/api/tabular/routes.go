package tabular

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers tabular data routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/sql", func(r chi.Router) {
		r.Post("/upload", h.Upload)
		r.Post("/query", h.Query)
	})
}
