// Package unified routes a question to the tabular engine, the document
// engine, or both, based on a model-labeled intent with a deterministic
// fallback, and owns session cleanup across both engines.
package unified

import (
	"context"
	"fmt"
	"strings"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/dataspeak/analysis-backend/internal/entity"
)

const classifyPromptTemplate = `Classify the following user question into one of these categories:
- "sql" - if it's about structured data, numbers, tables, records, statistics
- "pdf" - if it's about document content, policies, text information
- "both" - if it requires information from both data sources

Available data sources:
- SQL database: %s
- PDF document: %s

Question: %s

Return ONLY one word: "sql", "pdf", or "both".`

type Usecase struct {
	store    SessionStore
	tabular  TabularEngine
	document DocumentEngine
	llm      Completer
	logger   *zap.Logger
}

func NewUsecase(
	sessionStore SessionStore,
	tabularEngine TabularEngine,
	documentEngine DocumentEngine,
	llm Completer,
	logger *zap.Logger,
) *Usecase {
	return &Usecase{
		store:    sessionStore,
		tabular:  tabularEngine,
		document: documentEngine,
		llm:      llm,
		logger:   logger,
	}
}

// Query classifies the question and runs the selected engine(s). A portion
// only appears in the response when the router picked it and the session has
// the matching data source.
func (uc *Usecase) Query(ctx context.Context, sessionID, question string) (*entity.UnifiedQueryResponse, error) {
	hasTabular := uc.store.HasTabular(sessionID)
	hasDocument := uc.store.HasDocument(sessionID)

	if !hasTabular && !hasDocument {
		return nil, entity.ErrNoDataSources
	}

	queryType := uc.classify(ctx, question, hasTabular, hasDocument)
	resp := &entity.UnifiedQueryResponse{QueryType: queryType}

	if (queryType == entity.QueryTypeTabular || queryType == entity.QueryTypeBoth) && hasTabular {
		result, err := uc.tabular.Answer(ctx, sessionID, question)
		if err != nil {
			return nil, fmt.Errorf("tabular portion: %w", err)
		}
		summary, err := uc.tabular.Summarize(ctx, question, result)
		if err != nil {
			return nil, fmt.Errorf("tabular summary: %w", err)
		}
		resp.SQL = &entity.UnifiedSQLResult{
			SQLQuery: result.SQLQuery,
			Results:  result.Rows,
			Columns:  result.Columns,
			RowCount: result.RowCount,
			Summary:  summary,
			Error:    result.Error,
		}
	}

	if (queryType == entity.QueryTypeDocument || queryType == entity.QueryTypeBoth) && hasDocument {
		answer, sourceFile, err := uc.document.Answer(ctx, sessionID, question)
		if err != nil {
			return nil, fmt.Errorf("document portion: %w", err)
		}
		resp.PDF = &entity.UnifiedPDFResult{
			Answer:     answer,
			SourceFile: sourceFile,
		}
	}

	return resp, nil
}

// Cleanup releases all session state across both engines. Idempotent.
func (uc *Usecase) Cleanup(ctx context.Context, sessionID string) {
	uc.store.CloseSession(sessionID)
	ctxzap.Info(ctx, "session cleaned up", zap.String("session_id", sessionID))
}

// classify asks the model to label the question's intent. Classification
// failure is never surfaced: the deterministic fallback is tabular when
// tabular data exists, else document — never "both" blind.
func (uc *Usecase) classify(ctx context.Context, question string, hasTabular, hasDocument bool) entity.QueryType {
	prompt := fmt.Sprintf(classifyPromptTemplate,
		availability(hasTabular),
		availability(hasDocument),
		question,
	)

	raw, err := uc.llm.Complete(ctx, prompt)
	if err != nil {
		fallback := entity.QueryTypeDocument
		if hasTabular {
			fallback = entity.QueryTypeTabular
		}
		ctxzap.Warn(ctx, "classification failed, using fallback",
			zap.Error(err),
			zap.String("fallback", string(fallback)),
		)
		return fallback
	}

	return parseLabel(raw)
}

func parseLabel(raw string) entity.QueryType {
	label := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case strings.Contains(label, "both"):
		return entity.QueryTypeBoth
	case strings.Contains(label, "pdf"), strings.Contains(label, "document"):
		return entity.QueryTypeDocument
	default:
		return entity.QueryTypeTabular
	}
}

func availability(has bool) string {
	if has {
		return "Available"
	}
	return "Not available"
}
