package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/subcommands"

	"github.com/factordynamics/paracas/internal/daemon"
	"github.com/factordynamics/paracas/internal/domain"
	"github.com/factordynamics/paracas/internal/format"
	"github.com/factordynamics/paracas/internal/instrument"
	"github.com/factordynamics/paracas/internal/job"
	"github.com/factordynamics/paracas/internal/state"
)

// jobCmd is a small verb dispatcher ("job submit", "job pause <id>", ...)
// rather than a nested subcommands.Commander: each verb's flags differ
// enough (submit takes --format/--timeframe/--out, the rest take only a
// job id) that a single shared FlagSet would have to accept every verb's
// flags at once. Each verb gets its own FlagSet instead.
type jobCmd struct{}

func (*jobCmd) Name() string     { return "job" }
func (*jobCmd) Synopsis() string { return "submit, run, and control background download jobs" }
func (*jobCmd) Usage() string {
	return "job <submit|run-job|pause|resume|kill|list|status> [args...]\n"
}
func (*jobCmd) SetFlags(*flag.FlagSet) {}

func (c *jobCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() < 1 {
		fmt.Println(c.Usage())
		return subcommands.ExitUsageError
	}
	verb, rest := f.Arg(0), f.Args()[1:]
	switch verb {
	case "submit":
		return jobSubmit(rest)
	case "run-job":
		if len(rest) != 1 {
			fmt.Println("usage: job run-job <id>")
			return subcommands.ExitUsageError
		}
		return subcommands.ExitStatus(runJobDirect(rest[0]))
	case "pause":
		return jobControl(rest, state.ControlPause)
	case "resume":
		return jobControl(rest, state.ControlResume)
	case "kill":
		return jobControl(rest, state.ControlKill)
	case "list":
		return jobList()
	case "status":
		return jobStatus(rest)
	default:
		fmt.Println(c.Usage())
		return subcommands.ExitUsageError
	}
}

func jobSubmit(args []string) subcommands.ExitStatus {
	fs := flag.NewFlagSet("job submit", flag.ContinueOnError)
	formatFlag := fs.String("format", "csv", "output format: csv, json, or parquet")
	timeframeFlag := fs.String("timeframe", "tick", "aggregation timeframe")
	outFlag := fs.String("out", "", "output file path")
	if err := fs.Parse(args); err != nil {
		return subcommands.ExitUsageError
	}
	if fs.NArg() != 3 {
		fmt.Println("usage: job submit [--format ...] [--timeframe ...] [--out ...] <instrument> <start YYYY-MM-DD> <end YYYY-MM-DD>")
		return subcommands.ExitUsageError
	}
	instrumentID, startStr, endStr := fs.Arg(0), fs.Arg(1), fs.Arg(2)

	ins, err := instrument.MustGet(instrumentID)
	if err != nil {
		slog.Error("unknown instrument", "instrument", instrumentID, "error", err)
		return 3
	}
	start, err := time.Parse("2006-01-02", startStr)
	if err != nil {
		slog.Error("invalid start date", "error", err)
		return subcommands.ExitUsageError
	}
	end, err := time.Parse("2006-01-02", endStr)
	if err != nil {
		slog.Error("invalid end date", "error", err)
		return subcommands.ExitUsageError
	}
	dateRange, err := domain.NewDateRange(start, end)
	if err != nil {
		slog.Error("invalid date range", "error", err)
		return subcommands.ExitUsageError
	}
	outFormat, err := format.ParseOutputFormat(*formatFlag)
	if err != nil {
		slog.Error("invalid format", "error", err)
		return subcommands.ExitUsageError
	}
	if _, err := domain.ParseTimeframe(*timeframeFlag); err != nil {
		slog.Error("invalid timeframe", "error", err)
		return subcommands.ExitUsageError
	}

	out := *outFlag
	if out == "" {
		out = fmt.Sprintf("%s.%s", ins.ID, outFormat.String())
	}

	task := job.InstrumentTask{
		InstrumentID: ins.ID,
		Range:        dateRange,
		OutputTarget: out,
		Format:       outFormat.String(),
		Timeframe:    *timeframeFlag,
	}
	dj := job.New([]job.InstrumentTask{task}, time.Now().UTC())
	if err := job.Validate(&dj); err != nil {
		slog.Error("invalid job", "error", err)
		return subcommands.ExitUsageError
	}

	a, err := newApp(configPath)
	if err != nil {
		slog.Error("failed to initialize app", "error", err)
		return subcommands.ExitFailure
	}
	if err := a.Store.SaveJob(&dj); err != nil {
		slog.Error("failed to persist job", "error", err)
		return subcommands.ExitFailure
	}

	spawner := daemon.NewSpawner(a.Store)
	pid, err := spawner.Spawn(dj.JobID)
	if err != nil {
		slog.Error("failed to spawn daemon", "error", err)
		return subcommands.ExitFailure
	}
	dj.PID = &pid
	if err := a.Store.SaveJob(&dj); err != nil {
		slog.Error("failed to persist job pid", "error", err)
		return subcommands.ExitFailure
	}

	fmt.Println(dj.JobID.String())
	slog.Info("job submitted", "job_id", dj.JobID, "pid", pid)
	return subcommands.ExitSuccess
}

func jobControl(args []string, sig state.ControlSignal) subcommands.ExitStatus {
	if len(args) != 1 {
		fmt.Printf("usage: job %s <id>\n", sig)
		return subcommands.ExitUsageError
	}
	id, err := job.ParseID(args[0])
	if err != nil {
		slog.Error("invalid job id", "error", err)
		return subcommands.ExitUsageError
	}
	a, err := newApp(configPath)
	if err != nil {
		slog.Error("failed to initialize app", "error", err)
		return subcommands.ExitFailure
	}
	if j, err := a.Store.GetJob(id); err != nil {
		slog.Error("failed to read job", "error", err)
		return subcommands.ExitFailure
	} else if j == nil {
		slog.Error("job not found", "job_id", id)
		return 3
	}
	if err := a.Store.SetControl(id, sig); err != nil {
		slog.Error("failed to set control signal", "error", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func jobList() subcommands.ExitStatus {
	a, err := newApp(configPath)
	if err != nil {
		slog.Error("failed to initialize app", "error", err)
		return subcommands.ExitFailure
	}
	jobs, err := a.Store.ListJobs()
	if err != nil {
		slog.Error("failed to list jobs", "error", err)
		return subcommands.ExitFailure
	}
	for _, j := range jobs {
		fmt.Printf("%s\t%s\t%d task(s)\n", j.JobID, j.Status, len(j.Tasks))
	}
	return subcommands.ExitSuccess
}

func jobStatus(args []string) subcommands.ExitStatus {
	if len(args) != 1 {
		fmt.Println("usage: job status <id>")
		return subcommands.ExitUsageError
	}
	id, err := job.ParseID(args[0])
	if err != nil {
		slog.Error("invalid job id", "error", err)
		return subcommands.ExitUsageError
	}
	a, err := newApp(configPath)
	if err != nil {
		slog.Error("failed to initialize app", "error", err)
		return subcommands.ExitFailure
	}
	j, err := a.Store.GetJob(id)
	if err != nil {
		slog.Error("failed to read job", "error", err)
		return subcommands.ExitFailure
	}
	if j == nil {
		slog.Error("job not found", "job_id", id)
		return 3
	}
	fmt.Printf("job %s: %s\n", j.JobID, j.Status)
	for _, t := range j.Tasks {
		fmt.Printf("  %s: %s (%d/%d hours, %d missing)\n", t.InstrumentID, t.Status, t.Progress, t.TotalHours(), len(t.MissingHours))
	}
	if j.Status == job.StatusFailed {
		return 4
	}
	return subcommands.ExitSuccess
}
