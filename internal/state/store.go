// Package state implements the durable, process-crash-safe catalogue of
// jobs (component G). Every write goes through a temp-file-plus-rename so a
// crash mid-write never leaves a job file half-written; readers that hit a
// momentarily-missing or still-being-replaced file retry once rather than
// taking a lock themselves.
package state

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/factordynamics/paracas/internal/job"
	"github.com/factordynamics/paracas/internal/perror"
)

// Store is the on-disk job catalogue rooted at a state directory laid out
// as:
//
//	<root>/jobs/<job_id>.json    serialized job
//	<root>/jobs/<job_id>.lock    per-job advisory lock
//	<root>/jobs/<job_id>.control desired status, single word
//	<root>/logs/<job_id>.out,.err redirected child stdio
type Store struct {
	root string
}

// DefaultRoot resolves <state_root> the way the daemon's original Rust
// implementation did via directories::ProjectDirs, translated to Go's own
// per-OS user config directory with the same $HOME/.paracas fallback.
func DefaultRoot() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "paracas")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".paracas")
	}
	return ".paracas"
}

// Open ensures root/jobs and root/logs exist and returns a Store over them.
func Open(root string) (*Store, error) {
	for _, sub := range []string{"jobs", "logs"} {
		if err := os.MkdirAll(filepath.Join(root, sub), 0o755); err != nil {
			return nil, perror.Wrap(perror.IO, "state.Open", "failed to create state directory", err)
		}
	}
	return &Store{root: root}, nil
}

func (s *Store) jobsDir() string { return filepath.Join(s.root, "jobs") }
func (s *Store) logsDir() string { return filepath.Join(s.root, "logs") }

func (s *Store) jobPath(id job.ID) string     { return filepath.Join(s.jobsDir(), id.String()+".json") }
func (s *Store) lockPath(id job.ID) string    { return filepath.Join(s.jobsDir(), id.String()+".lock") }
func (s *Store) controlPath(id job.ID) string { return filepath.Join(s.jobsDir(), id.String()+".control") }

// StdoutPath returns the path a detached child should redirect stdout to.
func (s *Store) StdoutPath(id job.ID) string { return filepath.Join(s.logsDir(), id.String()+".out") }

// StderrPath returns the path a detached child should redirect stderr to.
func (s *Store) StderrPath(id job.ID) string { return filepath.Join(s.logsDir(), id.String()+".err") }

// atomicWrite writes data to path by writing to a sibling temp file and
// renaming it into place, so a reader never observes a partial write.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op once the rename below succeeds

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// SaveJob atomically replaces the on-disk record for job.
func (s *Store) SaveJob(j *job.DownloadJob) error {
	data, err := json.MarshalIndent(j, "", "  ")
	if err != nil {
		return perror.Wrap(perror.IO, "state.SaveJob", "marshal failed", err)
	}
	if err := atomicWrite(s.jobPath(j.JobID), data); err != nil {
		return perror.Wrap(perror.IO, "state.SaveJob", "write failed", err)
	}
	return nil
}

// GetJob loads one job by id. A read that races a concurrent SaveJob is
// retried once before giving up, per the store's no-lock-on-read contract.
func (s *Store) GetJob(id job.ID) (*job.DownloadJob, error) {
	path := s.jobPath(id)
	data, err := os.ReadFile(path)
	if err != nil {
		data, err = retryRead(path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, nil
			}
			return nil, perror.Wrap(perror.IO, "state.GetJob", "read failed", err)
		}
	}
	var j job.DownloadJob
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, perror.Wrap(perror.IO, "state.GetJob", "unmarshal failed", err)
	}
	return &j, nil
}

func retryRead(path string) ([]byte, error) {
	time.Sleep(20 * time.Millisecond)
	return os.ReadFile(path)
}

// ListJobs returns every job currently in the store.
func (s *Store) ListJobs() ([]job.DownloadJob, error) {
	entries, err := os.ReadDir(s.jobsDir())
	if err != nil {
		return nil, perror.Wrap(perror.IO, "state.ListJobs", "readdir failed", err)
	}
	var jobs []job.DownloadJob
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		id, err := job.ParseID(strings.TrimSuffix(e.Name(), ".json"))
		if err != nil {
			continue
		}
		j, err := s.GetJob(id)
		if err != nil || j == nil {
			continue
		}
		jobs = append(jobs, *j)
	}
	return jobs, nil
}

// UpdateProgress atomically advances one task's progress within job.
func (s *Store) UpdateProgress(id job.ID, taskIdx int, progress int) error {
	j, err := s.GetJob(id)
	if err != nil {
		return err
	}
	if j == nil {
		return perror.New(perror.IO, "state.UpdateProgress", "job not found")
	}
	if taskIdx < 0 || taskIdx >= len(j.Tasks) {
		return perror.New(perror.IO, "state.UpdateProgress", "task index out of range")
	}
	j.Tasks[taskIdx].Progress = progress
	return s.SaveJob(j)
}

// SetStatus atomically sets a job's top-level status.
func (s *Store) SetStatus(id job.ID, status job.Status) error {
	j, err := s.GetJob(id)
	if err != nil {
		return err
	}
	if j == nil {
		return perror.New(perror.IO, "state.SetStatus", "job not found")
	}
	j.Status = status
	return s.SaveJob(j)
}

// CleanFilter selects which terminal jobs Clean removes.
type CleanFilter func(job.DownloadJob) bool

// Clean removes every job whose status is terminal and matches filter.
func (s *Store) Clean(filter CleanFilter) (int, error) {
	jobs, err := s.ListJobs()
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, j := range jobs {
		if !j.Status.IsTerminal() || !filter(j) {
			continue
		}
		for _, p := range []string{s.jobPath(j.JobID), s.lockPath(j.JobID), s.controlPath(j.JobID)} {
			_ = os.Remove(p)
		}
		removed++
	}
	return removed, nil
}
