package unified

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/dataspeak/analysis-backend/internal/entity"
	"github.com/dataspeak/analysis-backend/internal/pkg/logger"
	"github.com/dataspeak/analysis-backend/internal/pkg/response"
)

type Handler struct {
	usecase UnifiedUsecase
}

func NewHandler(usecase UnifiedUsecase) *Handler {
	return &Handler{usecase: usecase}
}

// Query handles POST /unified/query - classify the question and route it to
// the matching data sources
func (h *Handler) Query(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "UnifiedQuery")

	var req entity.QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.SessionID == "" || req.Question == "" {
		response.Error(w, http.StatusBadRequest, "session_id and question are required")
		return
	}

	result, err := h.usecase.Query(ctx, req.SessionID, req.Question)
	if err != nil {
		switch {
		case errors.Is(err, entity.ErrNoDataSources):
			response.Error(w, http.StatusBadRequest, "No data sources loaded. Please upload a file or PDF first.")
		default:
			ctxzap.Error(ctx, "unified query failed", zap.Error(err))
			response.Error(w, http.StatusInternalServerError, fmt.Sprintf("AI Error: %v", err))
		}
		return
	}

	response.Success(w, result)
}

// CloseSession handles DELETE /session/{session_id} - release everything the
// session holds
func (h *Handler) CloseSession(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "CloseSession")

	sessionID := chi.URLParam(r, "session_id")
	if sessionID == "" {
		response.Error(w, http.StatusBadRequest, "session_id is required")
		return
	}

	h.usecase.Cleanup(ctx, sessionID)

	response.Success(w, map[string]string{
		"status":  "success",
		"message": fmt.Sprintf("Session '%s' cleaned up", sessionID),
	})
}
