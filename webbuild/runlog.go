// ABOUTME: Filesystem run log: one directory per build run holding run.json and an append-only events.jsonl.
// ABOUTME: Run IDs are ULIDs so directory listings sort by start time.
package webbuild

import (
	"bufio"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// ErrRunNotFound is returned when a run ID has no record.
var ErrRunNotFound = errors.New("run not found")

// Run statuses.
const (
	RunRunning   = "running"
	RunCompleted = "completed"
	RunFailed    = "failed"
)

// RunRecord is the summary of one build run, stored as run.json.
type RunRecord struct {
	RunID      string     `json:"run_id"`
	Crate      string     `json:"crate"`
	Status     string     `json:"status"`
	SkipSetup  bool       `json:"skip_setup"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	FailedStep Step       `json:"failed_step,omitempty"`
	ExitCode   int        `json:"exit_code"`
	Error      string     `json:"error,omitempty"`
}

// NewRunID mints a new ULID run identifier.
func NewRunID() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}

// RunLog stores runs under baseDir/<run_id>/.
type RunLog struct {
	baseDir string
}

// OpenRunLog creates baseDir if needed.
func OpenRunLog(baseDir string) (*RunLog, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create run log dir: %w", err)
	}
	return &RunLog{baseDir: baseDir}, nil
}

// Dir returns the directory of one run.
func (l *RunLog) Dir(runID string) string {
	return filepath.Join(l.baseDir, runID)
}

// Start creates the run directory and returns a recorder whose Handle
// method can be used as the runner's event handler.
func (l *RunLog) Start(crate string, skipSetup bool) (*RunRecorder, error) {
	rec := RunRecord{
		RunID:     NewRunID(),
		Crate:     crate,
		Status:    RunRunning,
		SkipSetup: skipSetup,
		StartedAt: time.Now().UTC(),
	}
	dir := l.Dir(rec.RunID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create run directory: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(dir, "events.jsonl"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create events file: %w", err)
	}
	r := &RunRecorder{dir: dir, events: f, rec: rec}
	if err := r.writeRecord(); err != nil {
		_ = f.Close()
		return nil, err
	}
	return r, nil
}

// Get loads a run record.
func (l *RunLog) Get(runID string) (*RunRecord, error) {
	data, err := os.ReadFile(filepath.Join(l.Dir(runID), "run.json"))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if err != nil {
		return nil, fmt.Errorf("read run %s: %w", runID, err)
	}
	var rec RunRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode run %s: %w", runID, err)
	}
	return &rec, nil
}

// List returns every run record, newest first. Directories that are not
// valid ULIDs or have no run.json are ignored.
func (l *RunLog) List() ([]RunRecord, error) {
	entries, err := os.ReadDir(l.baseDir)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	var recs []RunRecord
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := ulid.ParseStrict(e.Name()); err != nil {
			continue
		}
		rec, err := l.Get(e.Name())
		if errors.Is(err, ErrRunNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		recs = append(recs, *rec)
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].RunID > recs[j].RunID })
	return recs, nil
}

// Events reads a run's event log in order.
func (l *RunLog) Events(runID string) ([]Event, error) {
	f, err := os.Open(filepath.Join(l.Dir(runID), "events.jsonl"))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var events []Event
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for line := 1; sc.Scan(); line++ {
		if len(sc.Bytes()) == 0 {
			continue
		}
		var evt Event
		if err := json.Unmarshal(sc.Bytes(), &evt); err != nil {
			return nil, fmt.Errorf("events.jsonl line %d: %w", line, err)
		}
		events = append(events, evt)
	}
	return events, sc.Err()
}

// RunRecorder appends one run's events and keeps its run.json current.
type RunRecorder struct {
	mu     sync.Mutex
	dir    string
	events *os.File
	rec    RunRecord
	err    error
}

// RunID returns the recorded run's ID.
func (r *RunRecorder) RunID() string { return r.rec.RunID }

// Record returns a copy of the current run record.
func (r *RunRecorder) Record() RunRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rec
}

// Handle appends evt to events.jsonl. Tool output lines are not logged.
// Write errors are kept and reported by Finish.
func (r *RunRecorder) Handle(evt Event) {
	if evt.Type == EventStepOutput {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return
	}
	data, err := json.Marshal(evt)
	if err != nil {
		r.err = fmt.Errorf("encode event: %w", err)
		return
	}
	if _, err := r.events.Write(append(data, '\n')); err != nil {
		r.err = fmt.Errorf("append event: %w", err)
	}
}

// Finish stamps the final status from the run's error, rewrites run.json
// and closes the event log.
func (r *RunRecorder) Finish(runErr error) (RunRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	r.rec.FinishedAt = &now
	r.rec.Status = RunCompleted
	if runErr != nil {
		r.rec.Status = RunFailed
		r.rec.Error = runErr.Error()
		r.rec.ExitCode = 1
		var stepErr *StepError
		if errors.As(runErr, &stepErr) {
			r.rec.FailedStep = stepErr.Step
			r.rec.ExitCode = stepErr.ExitCode
		}
	}

	werr := r.writeRecord()
	cerr := r.events.Close()
	return r.rec, errors.Join(r.err, werr, cerr)
}

func (r *RunRecorder) writeRecord() error {
	data, err := json.MarshalIndent(r.rec, "", "  ")
	if err != nil {
		return fmt.Errorf("encode run record: %w", err)
	}
	tmp := filepath.Join(r.dir, "run.json.tmp")
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write run record: %w", err)
	}
	if err := os.Rename(tmp, filepath.Join(r.dir, "run.json")); err != nil {
		return fmt.Errorf("write run record: %w", err)
	}
	return nil
}
