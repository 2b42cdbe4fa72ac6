package tabular

import (
	"context"
	"database/sql"

	"github.com/dataspeak/analysis-backend/internal/entity"
)

// Completer is the remote text-completion service behind the retry layer.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// SessionStore provides the session's engine handle and schema snapshot.
type SessionStore interface {
	Engine(sessionID string) (*sql.DB, error)
	Schema(sessionID string) (entity.SchemaInfo, bool)
	LoadTable(ctx context.Context, sessionID, tableName string, table entity.Table) (entity.SchemaInfo, error)
}
