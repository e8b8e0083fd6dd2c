package state

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/factordynamics/paracas/internal/job"
	"github.com/factordynamics/paracas/internal/perror"
)

// Lock is an advisory, PID-stamped lock file guarding a job's in-memory
// handle. Only the Supervisor holding a job's Lock may call SaveJob for it.
type Lock struct {
	path string
}

// AcquireLock creates id's lock file, failing with ControlConflict if it is
// already held by a live process.
func (s *Store) AcquireLock(id job.ID) (*Lock, error) {
	path := s.lockPath(id)
	if pid, ok := readLockPID(path); ok {
		if isProcessRunning(pid) {
			return nil, perror.New(perror.ControlConflict, "state.AcquireLock",
				fmt.Sprintf("job %s is locked by running pid %d", id, pid))
		}
		// stale lock left by a crashed process; safe to steal it.
		_ = os.Remove(path)
	}
	data := []byte(strconv.Itoa(os.Getpid()))
	if err := atomicWrite(path, data); err != nil {
		return nil, perror.Wrap(perror.IO, "state.AcquireLock", "write failed", err)
	}
	return &Lock{path: path}, nil
}

// Release removes the lock file. Safe to call more than once.
func (l *Lock) Release() error {
	if l == nil {
		return nil
	}
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return perror.Wrap(perror.IO, "state.Release", "remove failed", err)
	}
	return nil
}

func readLockPID(path string) (int, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, false
	}
	return pid, true
}

