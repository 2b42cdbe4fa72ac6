package document

import (
	"context"

	"github.com/dataspeak/analysis-backend/internal/entity"
)

// DocumentUsecase answers questions about uploaded documents
type DocumentUsecase interface {
	Load(ctx context.Context, sessionID string, doc entity.DocumentContext) error
	Answer(ctx context.Context, sessionID, question string) (string, string, error)
	Summarize(ctx context.Context, sessionID string) (string, string, error)
}
