package document

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
	usecase   DocumentUsecase
	validator *validator.Validator
	cfg       config.FileUploadConfig
}

func NewHandler(usecase DocumentUsecase, validator *validator.Validator, cfg config.FileUploadConfig) *Handler {
	return &Handler{
		usecase:   usecase,
		validator: validator,
		cfg:       cfg,
	}
}

// Upload handles POST /pdf/upload - extract text from a PDF into the session context
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "DocumentUpload")

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

	if err := h.validator.ValidateDocumentUpload(header); err != nil {
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

	text, pageCount, err := parser.ExtractPDFText(data)
	if err != nil {
		h.respondError(ctx, w, err)
		return
	}

	doc := entity.DocumentContext{
		Text:      text,
		Filename:  header.Filename,
		PageCount: pageCount,
	}
	if err := h.usecase.Load(ctx, sessionID, doc); err != nil {
		h.respondError(ctx, w, err)
		return
	}

	response.Success(w, entity.DocumentUploadResponse{
		Status:     "success",
		Message:    fmt.Sprintf("PDF '%s' processed successfully", header.Filename),
		PageCount:  pageCount,
		TextLength: len(text),
	})
}

// Query handles POST /pdf/query - answer a question grounded in the uploaded document
func (h *Handler) Query(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "DocumentQuery")

	var req entity.QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.SessionID == "" || req.Question == "" {
		response.Error(w, http.StatusBadRequest, "session_id and question are required")
		return
	}

	answer, sourceFile, err := h.usecase.Answer(ctx, req.SessionID, req.Question)
	if err != nil {
		h.respondError(ctx, w, err)
		return
	}

	response.Success(w, entity.DocumentQueryResponse{
		Status:     "success",
		Answer:     answer,
		SourceFile: sourceFile,
	})
}

// Summarize handles POST /pdf/summarize - produce a summary of the uploaded document
func (h *Handler) Summarize(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "DocumentSummarize")

	var req struct {
		SessionID string `json:"session_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.SessionID == "" {
		response.Error(w, http.StatusBadRequest, "session_id is required")
		return
	}

	summary, sourceFile, err := h.usecase.Summarize(ctx, req.SessionID)
	if err != nil {
		h.respondError(ctx, w, err)
		return
	}

	response.Success(w, entity.DocumentSummaryResponse{
		Status:     "success",
		Summary:    summary,
		SourceFile: sourceFile,
	})
}

func (h *Handler) respondError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, entity.ErrNoDataLoaded):
		response.Error(w, http.StatusBadRequest, "No PDF loaded. Please upload a PDF first.")
	case errors.Is(err, entity.ErrNoExtractableText):
		response.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, entity.ErrProcessing):
		ctxzap.Error(ctx, "processing failed", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, fmt.Sprintf("Error processing PDF: %v", err))
	default:
		ctxzap.Error(ctx, "document request failed", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, fmt.Sprintf("AI Error: %v", err))
	}
}
