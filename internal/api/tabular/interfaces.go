package tabular

import (
	"context"

	"github.com/dataspeak/analysis-backend/internal/entity"
)

type TabularUsecase interface {
	Load(ctx context.Context, sessionID, tableName string, table entity.Table) (entity.SchemaInfo, error)
	Answer(ctx context.Context, sessionID, question string) (*entity.QueryResult, error)
	Summarize(ctx context.Context, question string, result *entity.QueryResult) (string, error)
}
