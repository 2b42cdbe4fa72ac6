// Package tabular implements the natural-language-to-SQL engine: it grounds
// a prompt in the session's schema snapshot, asks the model for a statement,
// executes it against the session's private engine and narrates the result.
package tabular

import (
	"context"
	"fmt"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/dataspeak/analysis-backend/internal/entity"
	"github.com/dataspeak/analysis-backend/internal/store"
)

type Usecase struct {
	store  SessionStore
	llm    Completer
	logger *zap.Logger
}

func NewUsecase(sessionStore SessionStore, llm Completer, logger *zap.Logger) *Usecase {
	return &Usecase{
		store:  sessionStore,
		llm:    llm,
		logger: logger,
	}
}

// Load loads decoded tabular data into the session, replacing any prior
// table of the same name.
func (uc *Usecase) Load(ctx context.Context, sessionID, tableName string, table entity.Table) (entity.SchemaInfo, error) {
	schema, err := uc.store.LoadTable(ctx, sessionID, tableName, table)
	if err != nil {
		return entity.SchemaInfo{}, fmt.Errorf("load table: %w", err)
	}
	return schema, nil
}

// Answer converts the question into SQL via the model and executes it.
// Execution failures are recovered into an error-tagged result; only model
// invocation failures and missing data propagate as errors.
func (uc *Usecase) Answer(ctx context.Context, sessionID, question string) (*entity.QueryResult, error) {
	schema, ok := uc.store.Schema(sessionID)
	if !ok {
		return nil, entity.ErrNoDataLoaded
	}

	raw, err := uc.llm.Complete(ctx, buildSQLPrompt(question, schema))
	if err != nil {
		return nil, fmt.Errorf("generate SQL: %w", err)
	}

	stmt := stripFences(raw)
	ctxzap.Info(ctx, "executing generated SQL",
		zap.String("session_id", sessionID),
		zap.String("statement", stmt),
	)

	db, err := uc.store.Engine(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session engine: %w", err)
	}

	rows, err := db.QueryContext(ctx, stmt)
	if err != nil {
		ctxzap.Warn(ctx, "generated SQL failed to execute", zap.Error(err))
		return &entity.QueryResult{
			Status:   entity.QueryStatusError,
			SQLQuery: stmt,
			Error:    err.Error(),
		}, nil
	}

	cols, results, err := store.ScanRows(rows)
	if err != nil {
		return &entity.QueryResult{
			Status:   entity.QueryStatusError,
			SQLQuery: stmt,
			Error:    err.Error(),
		}, nil
	}

	return &entity.QueryResult{
		Status:   entity.QueryStatusSuccess,
		SQLQuery: stmt,
		Columns:  cols,
		Rows:     results,
		RowCount: len(results),
	}, nil
}

// Summarize narrates a query result. Error results produce a formatted
// notice without a model call.
func (uc *Usecase) Summarize(ctx context.Context, question string, result *entity.QueryResult) (string, error) {
	if result.Status == entity.QueryStatusError {
		return fmt.Sprintf("SQL Error: %s", result.Error), nil
	}

	summary, err := uc.llm.Complete(ctx, buildSummaryPrompt(question, result))
	if err != nil {
		return "", fmt.Errorf("generate summary: %w", err)
	}
	return summary, nil
}
