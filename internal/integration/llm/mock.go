package llm

import (
	"context"
	"strings"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MockConnector is a canned-response completer for running the backend
// without a model service (ENABLE_MOCKS=true).
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

func (m *MockConnector) Complete(ctx context.Context, prompt string) (string, error) {
	ctxzap.Info(ctx, "[MOCK] completing prompt", zap.Int("prompt_length", len(prompt)))

	switch {
	case strings.Contains(prompt, "Classify the following user question"):
		return "sql", nil
	case strings.Contains(prompt, "expert SQL analyst"):
		return "SELECT COUNT(*) AS total_rows FROM data_table", nil
	default:
		return "This is a mock answer generated without a model service.", nil
	}
}
