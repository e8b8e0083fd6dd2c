package state

import (
	"os"
	"strings"
	"time"

	"github.com/factordynamics/paracas/internal/job"
	"github.com/factordynamics/paracas/internal/perror"
)

// ControlSignal is a desired-status word written to a job's .control file
// by an external CLI and polled by the running Supervisor.
type ControlSignal string

const (
	ControlNone   ControlSignal = ""
	ControlPause  ControlSignal = "pause"
	ControlResume ControlSignal = "resume"
	ControlKill   ControlSignal = "kill"
)

// SetControl writes sig to id's control file, atomically. Writing
// ControlNone removes the file; transitions are otherwise idempotent, so
// writing the same signal twice is a no-op for the reader.
func (s *Store) SetControl(id job.ID, sig ControlSignal) error {
	path := s.controlPath(id)
	if sig == ControlNone {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return perror.Wrap(perror.IO, "state.SetControl", "remove failed", err)
		}
		return nil
	}
	if err := atomicWrite(path, []byte(sig)); err != nil {
		return perror.Wrap(perror.IO, "state.SetControl", "write failed", err)
	}
	return nil
}

// PeekControl reads the current desired status without clearing it.
func (s *Store) PeekControl(id job.ID) ControlSignal {
	data, err := os.ReadFile(s.controlPath(id))
	if err != nil {
		return ControlNone
	}
	return ControlSignal(strings.TrimSpace(string(data)))
}

// ConsumeControl reads and clears the current desired status in one step,
// so a caller acts on a given signal exactly once. The Supervisor itself
// only peeks at the control file and leaves it in place.
func (s *Store) ConsumeControl(id job.ID) ControlSignal {
	sig := s.PeekControl(id)
	if sig != ControlNone {
		_ = s.SetControl(id, ControlNone)
	}
	return sig
}

// PollInterval is the cadence at which a running Supervisor checks its
// job's control file.
const PollInterval = 500 * time.Millisecond
