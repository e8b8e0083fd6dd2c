// Package supervisor drives a DownloadJob to completion (component H). It
// generalizes the teacher's worker-pool crawl loop from a flat list of
// tickers to a job's list of InstrumentTasks, adding pause/resume/kill via
// the State Store's control channel and a 3-strikes failure policy per
// task.
package supervisor

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/factordynamics/paracas/internal/domain"
	"github.com/factordynamics/paracas/internal/fetch"
	"github.com/factordynamics/paracas/internal/format"
	"github.com/factordynamics/paracas/internal/instrument"
	"github.com/factordynamics/paracas/internal/job"
	"github.com/factordynamics/paracas/internal/ohlcv"
	"github.com/factordynamics/paracas/internal/perror"
	"github.com/factordynamics/paracas/internal/slogx"
	"github.com/factordynamics/paracas/internal/state"
)

// maxConsecutiveFailures is the task-level failure policy from the spec:
// three surfaced transient errors in a row fail the task.
const maxConsecutiveFailures = 3

// Config tunes a Supervisor run.
type Config struct {
	BaseURL           string // defaults to fetch.BaseURL
	StreamConcurrency int    // N, per-task in-flight fetches
	OuterLimit        int    // M, concurrent tasks across the job
	Logger            *slog.Logger
}

// Supervisor drives one DownloadJob's tasks to completion.
type Supervisor struct {
	store  *state.Store
	client *fetch.Client
	cfg    Config
}

// New builds a Supervisor over store using client for every fetch.
func New(store *state.Store, client *fetch.Client, cfg Config) *Supervisor {
	if cfg.BaseURL == "" {
		cfg.BaseURL = fetch.BaseURL
	}
	if cfg.StreamConcurrency < 1 {
		cfg.StreamConcurrency = 8
	}
	if cfg.OuterLimit < 1 {
		cfg.OuterLimit = 4
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Supervisor{store: store, client: client, cfg: cfg}
}

// Run drives id's job to a terminal state, or until the control channel
// requests pause/kill. It acquires the job's advisory lock for the
// duration of the run and releases it on every exit path.
func (sup *Supervisor) Run(ctx context.Context, id job.ID) error {
	lock, err := sup.store.AcquireLock(id)
	if err != nil {
		return err
	}
	defer lock.Release()

	j, err := sup.store.GetJob(id)
	if err != nil {
		return err
	}
	if j == nil {
		return perror.New(perror.IO, "supervisor.Run", "job not found")
	}

	j.MarkStarted()
	if err := sup.store.SaveJob(j); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go sup.watchControl(ctx, id, cancel)

	// Every task's worker logs fan into one channel so their lines never
	// interleave mid-write in the job's log file, however many tasks run
	// concurrently under OuterLimit.
	logLines := make(chan string, 256)
	logger := slogx.NewChanLogger(logLines)
	logDone := make(chan struct{})
	go func() {
		defer close(logDone)
		sup.drainJobLog(id, logLines)
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(sup.cfg.OuterLimit)

	for i := range j.Tasks {
		i := i
		if j.Tasks[i].Status.IsTerminal() {
			continue
		}
		g.Go(func() error {
			return sup.runTask(gctx, logger, id, i)
		})
	}

	runErr := g.Wait()
	close(logLines)
	<-logDone

	j, err = sup.store.GetJob(id)
	if err != nil {
		return err
	}
	if j == nil {
		return perror.New(perror.IO, "supervisor.Run", "job disappeared during run")
	}

	switch sup.store.PeekControl(id) {
	case state.ControlKill:
		j.MarkCancelled()
	case state.ControlPause:
		j.MarkPaused()
	default:
		j.Recompute()
	}
	if err := sup.store.SaveJob(j); err != nil {
		return err
	}
	return runErr
}

// watchControl polls id's control file at state.PollInterval and cancels
// ctx the moment pause or kill is requested, so every in-flight task's Tick
// Stream observes cancellation between batches.
func (sup *Supervisor) watchControl(ctx context.Context, id job.ID, cancel context.CancelFunc) {
	ticker := time.NewTicker(state.PollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			switch sup.store.PeekControl(id) {
			case state.ControlPause, state.ControlKill:
				cancel()
				return
			}
		}
	}
}

// drainJobLog appends every line its ChanWriter forwards to id's reserved
// stdout log file, serializing writes from however many tasks are running
// concurrently for this job. It runs until lines is closed.
func (sup *Supervisor) drainJobLog(id job.ID, lines <-chan string) {
	f, err := os.OpenFile(sup.store.StdoutPath(id), os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		sup.cfg.Logger.Warn("failed to open job log file", "job_id", id, "error", err)
		for range lines {
			// drain so producers writing to the channel never block
		}
		return
	}
	defer f.Close()
	for line := range lines {
		if _, err := f.WriteString(line + "\n"); err != nil {
			sup.cfg.Logger.Warn("job log write failed", "job_id", id, "error", err)
		}
	}
}

// openSink opens target for writing. A fresh task truncates and writes a
// new header; a resumed task appends to whatever the interrupted run
// already wrote, since WriteHeader is only ever called once per task.
func openSink(target string, resuming bool) (io.Writer, func(), error) {
	flags := os.O_WRONLY | os.O_CREATE
	if resuming {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	f, err := os.OpenFile(target, flags, 0o644)
	if err != nil {
		return nil, func() {}, err
	}
	return f, func() { f.Close() }, nil
}

// runTask drives a single InstrumentTask's Tick Stream from its resume
// point to the end of its range, persisting progress after each batch is
// both emitted and written, never before.
func (sup *Supervisor) runTask(ctx context.Context, logger *slog.Logger, id job.ID, taskIdx int) error {
	j, err := sup.store.GetJob(id)
	if err != nil {
		return err
	}
	task := &j.Tasks[taskIdx]

	fail := func(reason string) error {
		task.MarkFailed(reason)
		logger.Warn("task failed", "job_id", id, "instrument", task.InstrumentID, "reason", reason)
		return sup.store.SaveJob(j)
	}

	ins, err := instrument.MustGet(task.InstrumentID)
	if err != nil {
		return fail(err.Error())
	}

	task.MarkStarted()
	if err := sup.store.SaveJob(j); err != nil {
		return err
	}
	logger.Info("task started", "job_id", id, "instrument", task.InstrumentID, "resume_from", task.Progress)

	resuming := task.Progress > 0

	allPlans := fetch.Plan(sup.cfg.BaseURL, ins.PathFragment, task.Range)
	if task.Progress > len(allPlans) {
		task.Progress = len(allPlans)
	}
	remaining := allPlans[task.Progress:]

	outFormat, err := format.ParseOutputFormat(task.Format)
	if err != nil {
		return fail(err.Error())
	}
	tf, err := domain.ParseTimeframe(task.Timeframe)
	if err != nil {
		return fail(err.Error())
	}

	sink, closeSink, err := openSink(task.OutputTarget, resuming)
	if err != nil {
		return fail(err.Error())
	}
	defer closeSink()

	var (
		tickFmt format.TickFormatter
		barFmt  format.BarFormatter
		agg     *ohlcv.Aggregator
	)
	if tf.IsTick() {
		tickFmt, err = format.NewTickFormatter(outFormat)
	} else {
		barFmt, err = format.NewBarFormatter(outFormat)
		agg = ohlcv.NewAggregator(tf)
	}
	if err != nil {
		return fail(err.Error())
	}
	if !resuming {
		if tickFmt != nil {
			err = tickFmt.WriteHeader(sink)
		} else {
			err = barFmt.WriteHeader(sink)
		}
		if err != nil {
			return fail(err.Error())
		}
	}

	stream := fetch.NewStreamFromPlans(sup.client, ins, remaining, sup.cfg.StreamConcurrency)
	results := stream.Run(ctx)

	idx := task.Progress
	firstSlot := true

	for res := range results {
		if res.Err != nil {
			kind, _ := perror.KindOf(res.Err)
			switch kind {
			case perror.Permanent:
				if firstSlot {
					return fail(res.Err.Error())
				}
				task.MarkMissing(res.Batch.Hour.String())
			case perror.Corrupt:
				task.MarkMissing(res.Batch.Hour.String())
			default:
				task.ConsecFails++
				task.MarkMissing(res.Batch.Hour.String())
				if task.ConsecFails >= maxConsecutiveFailures {
					return fail("exceeded consecutive failure budget")
				}
			}
		} else {
			task.ConsecFails = 0
			if err := sup.writeBatch(sink, tickFmt, barFmt, agg, res.Batch); err != nil {
				return fail(err.Error())
			}
		}

		firstSlot = false
		idx++
		task.Progress = idx
		if err := sup.store.SaveJob(j); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return nil // paused or killed; progress already persisted up to this batch
		default:
		}
	}

	if agg != nil {
		if bar := agg.Finish(); bar != nil {
			if err := barFmt.WriteBatch(sink, []ohlcv.Bar{*bar}); err != nil {
				return fail(err.Error())
			}
		}
	}
	var footerErr error
	if tickFmt != nil {
		footerErr = tickFmt.WriteFooter(sink)
	} else {
		footerErr = barFmt.WriteFooter(sink)
	}
	if footerErr != nil {
		return fail(footerErr.Error())
	}

	if !task.Done() {
		return nil // paused/cancelled mid-range; status left for Run to reconcile
	}
	task.MarkCompleted()
	logger.Info("task completed", "job_id", id, "instrument", task.InstrumentID, "missing_hours", len(task.MissingHours))
	return sup.store.SaveJob(j)
}

func (sup *Supervisor) writeBatch(sink io.Writer, tickFmt format.TickFormatter, barFmt format.BarFormatter, agg *ohlcv.Aggregator, batch fetch.TickBatch) error {
	if tickFmt != nil {
		return tickFmt.WriteBatch(sink, batch.Ticks)
	}
	var closed []ohlcv.Bar
	for _, t := range batch.Ticks {
		if bar, err := agg.Process(t); err != nil {
			return err
		} else if bar != nil {
			closed = append(closed, *bar)
		}
	}
	if len(closed) == 0 {
		return nil
	}
	return barFmt.WriteBatch(sink, closed)
}
