// Package daemon re-invokes the current binary as a background supervisor
// detached from the parent's controlling terminal (component I).
package daemon

import (
	"os"
	"os/exec"

	"github.com/factordynamics/paracas/internal/job"
	"github.com/factordynamics/paracas/internal/state"
)

// RunJobFlag is the fixed argument the detached child is invoked with; on
// startup with this flag, main instantiates a Supervisor against the
// already-persisted job instead of parsing a fresh download request.
const RunJobFlag = "--run-job"

// Spawner launches a job's Supervisor as a detached background process.
type Spawner struct {
	store *state.Store
}

// NewSpawner builds a Spawner over store.
func NewSpawner(store *state.Store) *Spawner {
	return &Spawner{store: store}
}

// Spawn re-executes the current binary with `--run-job <id>`, redirecting
// its stdio to the state directory's log files, and returns once the child
// has a PID — it does not wait for the child to finish. The caller is
// expected to have already persisted the job as Pending.
func (s *Spawner) Spawn(id job.ID) (pid int, err error) {
	self, err := os.Executable()
	if err != nil {
		return 0, err
	}

	outFile, err := os.OpenFile(s.store.StdoutPath(id), os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return 0, err
	}
	defer outFile.Close()
	errFile, err := os.OpenFile(s.store.StderrPath(id), os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return 0, err
	}
	defer errFile.Close()

	cmd := exec.Command(self, RunJobFlag, id.String())
	cmd.Stdout = outFile
	cmd.Stderr = errFile
	cmd.Stdin = nil
	detach(cmd)

	if err := cmd.Start(); err != nil {
		return 0, err
	}
	// Read the PID before Release, which resets it to -1 on Unix.
	pid = cmd.Process.Pid
	// Release rather than Wait: the child is meant to outlive this process.
	if err := cmd.Process.Release(); err != nil {
		return 0, err
	}
	return pid, nil
}
