package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/specialistvlad/nodegraph/internal/action"
	"github.com/specialistvlad/nodegraph/internal/ctxlog"
	"github.com/specialistvlad/nodegraph/internal/graph"
	"github.com/specialistvlad/nodegraph/internal/registry"
	"github.com/specialistvlad/nodegraph/internal/snapshot"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	ctx    context.Context
	logger *slog.Logger
	config *Config

	registry   *registry.Registry
	collection *graph.Collection
	journal    *action.Journal
	stack      *action.Stack

	metricsRegistry *prometheus.Registry
	httpServer      *http.Server
}

// NewApp is the constructor for the main application. The final graph dump
// goes to outW and logs go to logW. Libraries under cfg.LibraryPath are
// loaded on top of the builtin types.
func NewApp(outW, logW io.Writer, cfg *Config) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	reg := registry.New()
	if cfg.LibraryPath != "" {
		if err := reg.LoadRecursively(ctx, cfg.LibraryPath); err != nil {
			return nil, fmt.Errorf("failed to load libraries: %w", err)
		}
	}

	metricsRegistry := prometheus.NewRegistry()
	metrics := action.NewMetrics(metricsRegistry)
	collection := graph.NewCollection(reg, graph.WithSnapshotter(snapshot.New()))
	journal := action.NewJournal(logger)
	stack := action.NewStack(collection, action.WithScope(journal), action.WithMetrics(metrics))
	logger.Debug("Graph collection and action stack created.")

	return &App{
		outW:            outW,
		ctx:             ctx,
		logger:          logger,
		config:          cfg,
		registry:        reg,
		collection:      collection,
		journal:         journal,
		stack:           stack,
		metricsRegistry: metricsRegistry,
	}, nil
}

// Registry returns the application's type registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry { return a.registry }

// Collection returns the edited graphs.
func (a *App) Collection() *graph.Collection { return a.collection }

// Stack returns the undo history.
func (a *App) Stack() *action.Stack { return a.stack }

// Journal returns the transaction log of applied edits.
func (a *App) Journal() *action.Journal { return a.journal }
