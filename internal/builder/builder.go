package builder

import (
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/dataspeak/analysis-backend/internal/api"
	documentapi "github.com/dataspeak/analysis-backend/internal/api/document"
	tabularapi "github.com/dataspeak/analysis-backend/internal/api/tabular"
	unifiedapi "github.com/dataspeak/analysis-backend/internal/api/unified"
	"github.com/dataspeak/analysis-backend/internal/config"
	"github.com/dataspeak/analysis-backend/internal/integration/llm"
	"github.com/dataspeak/analysis-backend/internal/pkg/validator"
	"github.com/dataspeak/analysis-backend/internal/store"
	"github.com/dataspeak/analysis-backend/internal/usecase/document"
	"github.com/dataspeak/analysis-backend/internal/usecase/tabular"
	"github.com/dataspeak/analysis-backend/internal/usecase/unified"
)

func Build() (*App, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupLogger(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	logger.Info("Building application",
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", cfg.ServerAddr),
	)

	// Initialize session store
	sessionStore := store.New(cfg.SessionTTL, logger)
	logger.Info("Session store initialized", zap.Duration("ttl", cfg.SessionTTL))

	// Initialize model connector (with mock support)
	var llmConnector tabular.Completer
	if cfg.EnableMocks {
		logger.Info("Using mock connector for the model service")
		llmConnector = llm.NewMockConnector(logger)
	} else {
		logger.Info("Using real connector for the model service")
		llmConnector = llm.NewConnector(cfg.LLMConnectorCfg, logger)
	}

	// Initialize validators
	fileValidator := validator.NewFileValidator(cfg.FileUploadCfg)
	logger.Info("Validators initialized")

	// Initialize use cases
	tabularUC := tabular.NewUsecase(sessionStore, llmConnector, logger)
	documentUC := document.NewUsecase(sessionStore, llmConnector, logger)
	unifiedUC := unified.NewUsecase(sessionStore, tabularUC, documentUC, llmConnector, logger)
	logger.Info("Use cases initialized")

	// Setup API handlers
	tabularHandler := tabularapi.NewHandler(tabularUC, fileValidator, cfg.FileUploadCfg)
	documentHandler := documentapi.NewHandler(documentUC, fileValidator, cfg.FileUploadCfg)
	unifiedHandler := unifiedapi.NewHandler(unifiedUC)
	logger.Info("API handlers initialized")

	// Setup router
	router := api.SetupRouter(tabularHandler, documentHandler, unifiedHandler, cfg.StaticDir, logger)
	logger.Info("HTTP router configured")

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("Application built successfully",
		zap.String("environment", cfg.Environment),
	)

	return &App{
		server: server,
		store:  sessionStore,
		logger: logger,
	}, nil
}
