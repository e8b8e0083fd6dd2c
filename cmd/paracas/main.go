// Command paracas is the Dukascopy tick archive downloader. It is both the
// interactive CLI (download, job submit/pause/resume/kill/list/status) and,
// when re-exec'd with --run-job <id>, the detached daemon entry point a
// submitted job's Spawner launches (component I).
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/google/subcommands"

	"github.com/factordynamics/paracas/internal/daemon"
	"github.com/factordynamics/paracas/internal/job"
	"github.com/factordynamics/paracas/internal/slogx"
)

var configPath string

func init() {
	slog.SetDefault(slogx.NewDefault("info"))
}

func main() {
	// The detached daemon re-entry point bypasses subcommands entirely: the
	// Spawner invokes us as `paracas --run-job <id>`, not as a verb.
	if len(os.Args) >= 3 && os.Args[1] == daemon.RunJobFlag {
		os.Exit(runJobDirect(os.Args[2]))
	}

	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")
	subcommands.Register(&downloadCmd{}, "")
	subcommands.Register(&jobCmd{}, "")
	subcommands.Register(&listCmd{}, "")
	subcommands.Register(&infoCmd{}, "")

	flag.StringVar(&configPath, "config", "", "path to a YAML config file")
	flag.Parse()

	ctx := context.Background()
	os.Exit(int(subcommands.Execute(ctx)))
}

// runJobDirect drives a previously-submitted job to completion in the
// foreground; it is the body both `--run-job` and `job run-job` share.
func runJobDirect(idStr string) int {
	id, err := job.ParseID(idStr)
	if err != nil {
		slog.Error("invalid job id", "error", err)
		return 2
	}
	a, err := newApp(configPath)
	if err != nil {
		slog.Error("failed to initialize app", "error", err)
		return 1
	}
	slog.SetDefault(slogx.NewDefault(a.Config.LogLevel))

	if err := a.RunForeground(context.Background(), id); err != nil {
		slog.Error("job run failed", "job_id", id, "error", err)
		return 4
	}
	return 0
}
