package app

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/factordynamics/paracas/internal/job"
)

// RunForeground drives id's job to completion in the foreground, the way
// the CLI's `download` and `job run-job` subcommands both do: a SIGINT or
// SIGTERM cancels the Supervisor's context exactly once, giving the current
// batch a chance to finish and persist progress before exit, mirroring the
// crawl loop's own graceful-shutdown handling.
func (a *App) RunForeground(ctx context.Context, id job.ID) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	done := make(chan error, 1)
	go func() { done <- a.Supervisor.Run(ctx, id) }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		slog.Info("received shutdown signal, waiting for in-flight batch to persist")
		err := <-done
		return err
	}
}
