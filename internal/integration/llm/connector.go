// Package llm talks to the remote text-completion service. It is the only
// place the application performs model calls, and every call goes through a
// bounded retry loop with exponential backoff on transient failures.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/avast/retry-go/v4"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/dataspeak/analysis-backend/internal/config"
	"github.com/dataspeak/analysis-backend/internal/entity"
	pkghttp "github.com/dataspeak/analysis-backend/pkg/http"
)

// transientMarkers is the documented substring heuristic for transports that
// surface rate limiting only in the error text. Kept from the upstream
// service's observed failure modes.
var transientMarkers = []string{"429", "quota", "rate limit", "resource exhausted", "too many requests"}

type Connector struct {
	config    config.LLMConnectorConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(cfg config.LLMConnectorConfig, logger *zap.Logger) *Connector {
	connCfg := &pkghttp.ConnectorConfig{
		Logger:  logger,
		BaseURL: cfg.Url,
	}

	return &Connector{
		connector: pkghttp.NewConnector(
			connCfg,
			pkghttp.WithRequestTimeout(cfg.RequestTimeout),
			pkghttp.WithConnClientTimeout(cfg.ConnTimeout),
			pkghttp.WithClientKeepAlive(cfg.KeepAlive),
			pkghttp.WithIdleConnTimeout(cfg.IdleConnTimeout),
			pkghttp.WithResponseHeaderTimeout(cfg.ResponseHeaderTimeout),
			pkghttp.WithRequestLogging(),
			pkghttp.WithAuthToken(cfg.Token),
		),
		config: cfg,
		logger: logger,
	}
}

// Complete sends a single-prompt completion request, retrying transient
// failures with exponential backoff (base delay doubling per attempt) up to
// the configured attempt count. Fatal failures abort immediately; exhausting
// the attempts surfaces entity.ErrRetriesExhausted with the last cause.
func (c *Connector) Complete(ctx context.Context, prompt string) (string, error) {
	var out string

	opts := append(
		c.config.Retry.ToRetryOptions(),
		retry.RetryIf(IsTransient),
		retry.Context(ctx),
		retry.OnRetry(func(attempt uint, err error) {
			ctxzap.Warn(ctx, "transient completion failure, backing off",
				zap.Uint("attempt", attempt+1),
				zap.Error(err),
			)
		}),
	)

	err := retry.Do(func() error {
		text, err := c.complete(ctx, prompt)
		if err != nil {
			return err
		}
		out = text
		return nil
	}, opts...)

	if err != nil {
		if IsTransient(err) {
			return "", fmt.Errorf("%w after %d attempts: %v", entity.ErrRetriesExhausted, c.config.Retry.Attempts, err)
		}
		return "", fmt.Errorf("completion failed: %w", err)
	}

	return out, nil
}

func (c *Connector) complete(ctx context.Context, prompt string) (string, error) {
	req := entity.ChatCompletionRequest{
		Model: c.config.Model,
		Messages: []entity.ChatMessage{
			{Role: "user", Content: prompt},
		},
	}

	var resp entity.ChatCompletionResponse
	if err := c.connector.DoRequest(ctx, http.MethodPost, c.config.CompletionsEndpoint, req, &resp); err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", entity.ErrEmptyCompletion
	}

	return resp.Choices[0].Message.Content, nil
}

// IsTransient classifies a completion failure as retryable. HTTP 429 is
// transient; everything else falls back to matching rate-limit markers in
// the error text.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var httpErr *pkghttp.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == http.StatusTooManyRequests
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range transientMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
