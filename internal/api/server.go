package api

import (
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	documentapi "github.com/dataspeak/analysis-backend/internal/api/document"
	"github.com/dataspeak/analysis-backend/internal/api/middleware"
	tabularapi "github.com/dataspeak/analysis-backend/internal/api/tabular"
	unifiedapi "github.com/dataspeak/analysis-backend/internal/api/unified"
)

// SetupRouter creates and configures the HTTP router
func SetupRouter(
	tabularHandler *tabularapi.Handler,
	documentHandler *documentapi.Handler,
	unifiedHandler *unifiedapi.Handler,
	staticDir string,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(chimiddleware.Recoverer)                 // Recover from panics
	r.Use(chimiddleware.RequestID)                 // Add request ID
	r.Use(middleware.Logger(logger))               // Log requests
	r.Use(middleware.CORS)                         // Handle CORS
	r.Use(chimiddleware.Timeout(60 * time.Second)) // Default timeout

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	// Register routes
	tabularapi.RegisterRoutes(r, tabularHandler)
	documentapi.RegisterRoutes(r, documentHandler)
	unifiedapi.RegisterRoutes(r, unifiedHandler)

	// Serve the bundled frontend when present
	if info, err := os.Stat(staticDir); err == nil && info.IsDir() {
		fs := http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir)))
		r.Get("/static/*", fs.ServeHTTP)
	}

	return r
}
