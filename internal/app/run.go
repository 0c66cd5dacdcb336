package app

import (
	"context"
	"fmt"

	"github.com/specialistvlad/nodegraph/internal/ctxlog"
	"github.com/specialistvlad/nodegraph/internal/relay"
	"github.com/specialistvlad/nodegraph/internal/script"
)

// Run replays the configured edit script and writes the resulting graphs to
// the output writer. When a relay URL is configured, every change is
// published while the script runs.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	a.healthCheckServer()
	defer func() { _ = a.closeHealthCheckServer() }()

	if a.config.RelayURL != "" {
		client, err := relay.Dial(ctx, relay.DialConfig{URL: a.config.RelayURL, Namespace: a.config.RelayNamespace})
		if err != nil {
			return err
		}
		defer relay.Close(ctx, client)
		detach := relay.New(client).Attach(ctx, a.collection)
		defer detach()
	}

	sc, err := script.LoadFile(ctx, a.config.ScriptPath)
	if err != nil {
		return err
	}
	a.logger.Info("Replaying edit script.", "path", a.config.ScriptPath, "steps", len(sc.Steps))
	if err := sc.Run(ctx, a.stack); err != nil {
		return fmt.Errorf("script failed: %w", err)
	}

	if err := a.collection.Dump(a.outW); err != nil {
		return fmt.Errorf("failed to write graphs: %w", err)
	}
	a.logger.Debug("App.Run method finished.", "history", a.stack.Len(), "cursor", a.stack.Cursor())
	return nil
}
