package document

import (
	"context"

	"github.com/dataspeak/analysis-backend/internal/entity"
)

// Completer is the remote text-completion service behind the retry layer.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// DocumentStore holds per-session document contexts.
type DocumentStore interface {
	PutDocument(sessionID string, doc entity.DocumentContext)
	Document(sessionID string) (entity.DocumentContext, bool)
}
