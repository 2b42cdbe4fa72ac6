package unified

import (
	"context"

	"github.com/dataspeak/analysis-backend/internal/entity"
)

// Completer is the remote text-completion service behind the retry layer.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// SessionStore reports which data sources a session has and releases them.
type SessionStore interface {
	HasTabular(sessionID string) bool
	HasDocument(sessionID string) bool
	CloseSession(sessionID string)
}

// TabularEngine is the NL-to-SQL engine used for the tabular portion.
type TabularEngine interface {
	Answer(ctx context.Context, sessionID, question string) (*entity.QueryResult, error)
	Summarize(ctx context.Context, question string, result *entity.QueryResult) (string, error)
}

// DocumentEngine is the retrieval engine used for the document portion.
type DocumentEngine interface {
	Answer(ctx context.Context, sessionID, question string) (answer, sourceFile string, err error)
}
