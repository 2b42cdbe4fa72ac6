package tabular

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/dataspeak/analysis-backend/internal/config"
	"github.com/dataspeak/analysis-backend/internal/entity"
	"github.com/dataspeak/analysis-backend/internal/parser"
	"github.com/dataspeak/analysis-backend/internal/pkg/logger"
	"github.com/dataspeak/analysis-backend/internal/pkg/response"
	"github.com/dataspeak/analysis-backend/internal/pkg/validator"
)

type Handler struct {
	usecase   TabularUsecase
	validator *validator.Validator
	cfg       config.FileUploadConfig
}

func NewHandler(usecase TabularUsecase, validator *validator.Validator, cfg config.FileUploadConfig) *Handler {
	return &Handler{
		usecase:   usecase,
		validator: validator,
		cfg:       cfg,
	}
}

// Upload handles POST /sql/upload - load a CSV/Excel file into the session's engine
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "TabularUpload")

	if err := r.ParseMultipartForm(h.cfg.MaxUploadSize); err != nil {
		ctxzap.Error(ctx, "failed to parse multipart form", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	sessionID := r.FormValue("session_id")
	if sessionID == "" {
		response.Error(w, http.StatusBadRequest, "session_id is required")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	if err := h.validator.ValidateTabularUpload(header); err != nil {
		ctxzap.Warn(ctx, "upload rejected", zap.Error(err))
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		ctxzap.Error(ctx, "failed to read upload", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "failed to read file")
		return
	}

	table, err := parser.DecodeTabular(header.Filename, data)
	if err != nil {
		h.respondError(ctx, w, err)
		return
	}

	schema, err := h.usecase.Load(ctx, sessionID, parser.TableNameFromFilename(header.Filename), table)
	if err != nil {
		h.respondError(ctx, w, err)
		return
	}

	response.Success(w, entity.TabularUploadResponse{
		Status:  "success",
		Message: fmt.Sprintf("Data loaded into table '%s'", schema.TableName),
		Schema:  schema,
	})
}

// Query handles POST /sql/query - convert natural language to SQL and execute it
func (h *Handler) Query(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "TabularQuery")

	var req entity.QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.SessionID == "" || req.Question == "" {
		response.Error(w, http.StatusBadRequest, "session_id and question are required")
		return
	}

	result, err := h.usecase.Answer(ctx, req.SessionID, req.Question)
	if err != nil {
		h.respondError(ctx, w, err)
		return
	}

	summary, err := h.usecase.Summarize(ctx, req.Question, result)
	if err != nil {
		h.respondError(ctx, w, err)
		return
	}

	response.Success(w, entity.TabularQueryResponse{
		Status:    result.Status,
		SQLQuery:  result.SQLQuery,
		Results:   result.Rows,
		Columns:   result.Columns,
		RowCount:  result.RowCount,
		AISummary: summary,
		Error:     result.Error,
	})
}

func (h *Handler) respondError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, entity.ErrNoDataLoaded):
		response.Error(w, http.StatusBadRequest, "No data loaded. Please upload a file first.")
	case errors.Is(err, entity.ErrUnsupportedFormat):
		response.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, entity.ErrProcessing):
		ctxzap.Error(ctx, "processing failed", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, fmt.Sprintf("Error processing file: %v", err))
	default:
		ctxzap.Error(ctx, "tabular request failed", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, fmt.Sprintf("AI Error: %v", err))
	}
}
