package unified

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers unified query and session lifecycle routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/unified", func(r chi.Router) {
		r.Post("/query", h.Query)
	})
	r.Delete("/session/{session_id}", h.CloseSession)
}
