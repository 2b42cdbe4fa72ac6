package document

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers document routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/pdf", func(r chi.Router) {
		r.Post("/upload", h.Upload)
		r.Post("/query", h.Query)
		r.Post("/summarize", h.Summarize)
	})
}
