// Package app provides the top-level application lifecycle for the psbm
// simulator. It wires the market, scenario runner and reporter together and
// runs the configured operating mode.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/alanyoungcy/psbm/internal/config"
)

// App is the root application object. It owns the configuration, logger and
// the writer reports are rendered to.
type App struct {
	cfg    *config.Config
	base   *slog.Logger
	logger *slog.Logger
	out    io.Writer
}

// New creates a new App from the given configuration and logger. Reports are
// written to out.
func New(cfg *config.Config, logger *slog.Logger, out io.Writer) *App {
	return &App{
		cfg:    cfg,
		base:   logger,
		logger: logger.With(slog.String("component", "app")),
		out:    out,
	}
}

// Run wires dependencies, selects the operating mode and runs it to
// completion. A halted scenario is reported, not returned as an error.
func (a *App) Run(ctx context.Context) error {
	a.logger.InfoContext(ctx, "starting application",
		slog.String("mode", a.cfg.Mode),
		slog.String("log_level", a.cfg.LogLevel),
	)

	deps, err := Wire(a.cfg, a.base)
	if err != nil {
		return fmt.Errorf("app: wire dependencies: %w", err)
	}

	switch strings.ToLower(a.cfg.Mode) {
	case "simulate":
		return a.SimulateMode(ctx, deps)
	case "presets":
		return a.PresetsMode(ctx, deps)
	default:
		return fmt.Errorf("app: unsupported mode %q", a.cfg.Mode)
	}
}
