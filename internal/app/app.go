package app

import (
	"fmt"

	"github.com/toolbench/toolbench/internal/common"
	"github.com/toolbench/toolbench/internal/config"
	"github.com/toolbench/toolbench/internal/dispatch"
	"github.com/toolbench/toolbench/internal/handlers"
	"github.com/toolbench/toolbench/internal/ingest"
	"github.com/toolbench/toolbench/internal/mcp"
	"github.com/toolbench/toolbench/internal/registry"
	"github.com/toolbench/toolbench/internal/tools/imagecomp"
	"github.com/toolbench/toolbench/internal/tools/imageconv"
	"github.com/toolbench/toolbench/internal/tools/qr"
	"github.com/toolbench/toolbench/internal/tools/textstats"
)

// App holds all application components and dependencies.
type App struct {
	Config *config.Config
	Logger *common.Logger

	Registry   *registry.Registry
	Files      *ingest.Service
	Dispatcher *dispatch.Dispatcher

	// HTTP handlers
	HealthHandler  *handlers.HealthHandler
	VersionHandler *handlers.VersionHandler
	ToolsHandler   *handlers.ToolsHandler
	MCPHandler     *mcp.Handler
}

// New initializes the application with all dependencies. The tool list is
// static wiring: every tool is registered here, once, before the server
// starts, and the registry is never mutated afterwards.
func New(cfg *config.Config, logger *common.Logger) (*App, error) {
	a := &App{
		Config: cfg,
		Logger: logger,
	}

	files, err := ingest.NewService(cfg.Upload.TempDir, cfg.Upload.MaxSizeBytes, logger)
	if err != nil {
		return nil, fmt.Errorf("init file ingestion: %w", err)
	}
	a.Files = files

	reg, err := registry.New(
		qr.Tool(),
		imageconv.Tool(),
		imagecomp.Tool(),
		textstats.Tool(),
	)
	if err != nil {
		return nil, fmt.Errorf("build tool registry: %w", err)
	}
	a.Registry = reg

	a.Dispatcher = dispatch.New(reg, files, logger)

	a.HealthHandler = handlers.NewHealthHandler(logger)
	a.VersionHandler = handlers.NewVersionHandler(logger)
	a.ToolsHandler = handlers.NewToolsHandler(logger, a.Dispatcher)

	if cfg.MCP.Enabled {
		a.MCPHandler = mcp.NewHandler(a.Dispatcher, files, logger)
	}

	logger.Info().
		Int("tools", reg.Count()).
		Bool("mcp", cfg.MCP.Enabled).
		Msg("application initialization complete")

	return a, nil
}

// Close closes all application resources.
func (a *App) Close() error {
	return nil
}
