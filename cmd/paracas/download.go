package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/subcommands"

	"github.com/factordynamics/paracas/internal/domain"
	"github.com/factordynamics/paracas/internal/format"
	"github.com/factordynamics/paracas/internal/instrument"
	"github.com/factordynamics/paracas/internal/job"
)

// downloadCmd is the foreground, single-instrument counterpart to `job
// submit` + `job run-job`: it persists a one-task job and drives it to
// completion in the same process, for ad-hoc runs that don't need the
// daemon.
type downloadCmd struct {
	formatFlag    string
	timeframeFlag string
	outFlag       string
}

func (*downloadCmd) Name() string     { return "download" }
func (*downloadCmd) Synopsis() string { return "download tick or OHLCV data for one instrument" }
func (*downloadCmd) Usage() string {
	return "download [--format csv|json|parquet] [--timeframe tick|s1|m1|...] [--out path] <instrument> <start YYYY-MM-DD> <end YYYY-MM-DD>\n"
}

func (c *downloadCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.formatFlag, "format", "csv", "output format: csv, json, or parquet")
	f.StringVar(&c.timeframeFlag, "timeframe", "tick", "aggregation timeframe: tick, s1, m1, m5, m15, m30, h1, h4, d1")
	f.StringVar(&c.outFlag, "out", "", "output file path (defaults to <instrument>.<ext> in the current directory)")
}

func (c *downloadCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 3 {
		fmt.Println(c.Usage())
		return subcommands.ExitUsageError
	}
	instrumentID, startStr, endStr := f.Arg(0), f.Arg(1), f.Arg(2)

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

	outFormat, err := format.ParseOutputFormat(c.formatFlag)
	if err != nil {
		slog.Error("invalid format", "error", err)
		return subcommands.ExitUsageError
	}
	if _, err := domain.ParseTimeframe(c.timeframeFlag); err != nil {
		slog.Error("invalid timeframe", "error", err)
		return subcommands.ExitUsageError
	}

	out := c.outFlag
	if out == "" {
		out = fmt.Sprintf("%s.%s", ins.ID, outFormat.String())
	}

	task := job.InstrumentTask{
		InstrumentID: ins.ID,
		Range:        dateRange,
		OutputTarget: out,
		Format:       outFormat.String(),
		Timeframe:    c.timeframeFlag,
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

	slog.Info("downloading", "job_id", dj.JobID, "instrument", ins.ID, "range", dateRange.String(), "out", out)
	if err := a.RunForeground(ctx, dj.JobID); err != nil {
		slog.Error("download failed", "job_id", dj.JobID, "error", err)
		return 4
	}
	return subcommands.ExitSuccess
}
