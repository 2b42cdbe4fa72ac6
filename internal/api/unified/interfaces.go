package unified

import (
	"context"

	"github.com/dataspeak/analysis-backend/internal/entity"
)

// UnifiedUsecase routes questions across the session's data sources
type UnifiedUsecase interface {
	Query(ctx context.Context, sessionID, question string) (*entity.UnifiedQueryResponse, error)
	Cleanup(ctx context.Context, sessionID string)
}
