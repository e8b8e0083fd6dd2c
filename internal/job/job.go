// Package job defines the durable job model: DownloadJob, InstrumentTask,
// and their lifecycle. Persistence lives in internal/state; this package
// owns only the data shapes and the state-machine transitions.
package job

import (
	"time"

	"github.com/google/uuid"

	"github.com/factordynamics/paracas/internal/domain"
)

// ID is an opaque, collision-free job identifier.
type ID = uuid.UUID

// NewID generates a fresh job id.
func NewID() ID { return uuid.New() }

// ParseID parses the string form of an ID.
func ParseID(s string) (ID, error) { return uuid.Parse(s) }

// Status is a job or task's lifecycle state. Paused has no counterpart in
// the original Dukascopy daemon's status enum; it is added here because the
// supervisor's control channel (§4.H) can drive a running task to a paused
// state that is distinct from both Running and any terminal state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusPaused    Status = "paused"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// IsTerminal reports whether s is a state the supervisor will never leave
// without operator intervention (i.e. resubmission).
func (s Status) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusCancelled:
		return true
	default:
		return false
	}
}

// InstrumentTask is one instrument's slice of a DownloadJob: a date range,
// an output target, and the resume point within that range.
type InstrumentTask struct {
	InstrumentID string            `json:"instrument_id" validate:"required,lowercase"`
	Range        domain.DateRange  `json:"range"`
	OutputTarget string            `json:"output_target" validate:"required"`
	Format       string            `json:"format" validate:"required,oneof=csv json parquet"`
	Timeframe    string            `json:"timeframe" validate:"required"`
	Progress     int               `json:"progress"` // index into Range.Hours() of the next slot to fetch
	Status       Status            `json:"status"`
	FailReason   string            `json:"fail_reason,omitempty"`
	MissingHours []string          `json:"missing_hours,omitempty"` // hours skipped as Corrupt or fetch-failed
	ConsecFails  int               `json:"-"`                       // counts surfaced transient errors toward the 3-strikes policy
}

// TotalHours returns the number of hourly slots this task must fetch.
func (t *InstrumentTask) TotalHours() int { return t.Range.TotalHours() }

// Done reports whether every hour in the task's range has been fetched.
func (t *InstrumentTask) Done() bool { return t.Progress >= t.TotalHours() }

// MarkStarted transitions Pending -> Running.
func (t *InstrumentTask) MarkStarted() { t.Status = StatusRunning }

// MarkHourDone advances Progress by one hour and is called after a batch is
// both emitted and durably recorded, never before.
func (t *InstrumentTask) MarkHourDone() { t.Progress++ }

// MarkMissing records hour as skipped (Corrupt or exhausted-retry) without
// advancing or regressing the task's terminal status.
func (t *InstrumentTask) MarkMissing(hour string) {
	t.MissingHours = append(t.MissingHours, hour)
}

// MarkCompleted transitions to Completed.
func (t *InstrumentTask) MarkCompleted() { t.Status = StatusCompleted }

// MarkFailed transitions to Failed with reason.
func (t *InstrumentTask) MarkFailed(reason string) {
	t.Status = StatusFailed
	t.FailReason = reason
}

// MarkCancelled transitions to Cancelled.
func (t *InstrumentTask) MarkCancelled() { t.Status = StatusCancelled }

// MarkPaused transitions Running -> Paused.
func (t *InstrumentTask) MarkPaused() { t.Status = StatusPaused }

// DownloadJob is the unit of work the Supervisor drives to completion.
type DownloadJob struct {
	JobID     ID               `json:"job_id"`
	CreatedAt time.Time        `json:"created_at"`
	Tasks     []InstrumentTask `json:"tasks" validate:"required,min=1,dive"`
	Status    Status           `json:"status"`
	PID       *int             `json:"pid,omitempty"`

	SchemaVersion int `json:"schema_version"`
}

// CurrentSchemaVersion is written into every job persisted by this build.
const CurrentSchemaVersion = 1

// New constructs a Pending job over tasks with a fresh ID and the current
// schema version stamped in.
func New(tasks []InstrumentTask, createdAt time.Time) DownloadJob {
	for i := range tasks {
		if tasks[i].Status == "" {
			tasks[i].Status = StatusPending
		}
	}
	return DownloadJob{
		JobID:         NewID(),
		CreatedAt:     createdAt,
		Tasks:         tasks,
		Status:        StatusPending,
		SchemaVersion: CurrentSchemaVersion,
	}
}

// MarkStarted transitions Pending -> Running on first task start.
func (j *DownloadJob) MarkStarted() {
	if j.Status == StatusPending {
		j.Status = StatusRunning
	}
}

// MarkPaused transitions Running -> Paused via a control command.
func (j *DownloadJob) MarkPaused() { j.Status = StatusPaused }

// MarkCancelled transitions to Cancelled on kill.
func (j *DownloadJob) MarkCancelled() { j.Status = StatusCancelled }

// Recompute derives the job's own status from its tasks: Completed once
// every task is Completed, Failed if any task is Failed and none remain
// outstanding, otherwise left as Running. Paused/Cancelled are driven
// externally via MarkPaused/MarkCancelled and are not recomputed away.
func (j *DownloadJob) Recompute() {
	if j.Status == StatusPaused || j.Status == StatusCancelled {
		return
	}
	allDone := true
	anyFailed := false
	for _, t := range j.Tasks {
		if !t.Status.IsTerminal() {
			allDone = false
		}
		if t.Status == StatusFailed {
			anyFailed = true
		}
	}
	if !allDone {
		return
	}
	if anyFailed {
		j.Status = StatusFailed
	} else {
		j.Status = StatusCompleted
	}
}
