// ABOUTME: Runner executes the web build steps strictly in order and aborts on the first failure.
// ABOUTME: No retries and no recovery: a failed step leaves the working directories as they are.
package webbuild

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"
)

// Options are per-run switches.
type Options struct {
	SkipSetup bool
	Stdout    io.Writer // tool stdout; defaults to os.Stdout
	Stderr    io.Writer // tool stderr; defaults to os.Stderr
}

// StepStatus is the final state of one step.
type StepStatus string

const (
	StatusPending   StepStatus = "pending"
	StatusRunning   StepStatus = "running"
	StatusCompleted StepStatus = "completed"
	StatusSkipped   StepStatus = "skipped"
	StatusFailed    StepStatus = "failed"
)

// StepResult records how one step went.
type StepResult struct {
	Step     Step
	Status   StepStatus
	ExitCode int
	Duration time.Duration
	Removed  []string // file steps: paths that existed and were deleted
}

// Result summarizes a run. It is returned alongside a *StepError on failure.
type Result struct {
	Steps    []StepResult
	Outputs  []string // files present in the output dir after success
	Duration time.Duration
}

// StepError is the failure of one step. ExitCode is the tool's exit status,
// or 1 when the step failed without one.
type StepError struct {
	Step     Step
	ExitCode int
	Err      error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %s failed (exit %d): %v", e.Step, e.ExitCode, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// Runner executes pipelines.
type Runner struct {
	Executor     Executor
	EventHandler EventHandler
}

// NewRunner returns a Runner using exec. A nil exec means ExecExecutor.
func NewRunner(exec Executor) *Runner {
	if exec == nil {
		exec = &ExecExecutor{}
	}
	return &Runner{Executor: exec}
}

// Run executes every planned step in order. The first failing step stops
// the pipeline and is returned as a *StepError; later steps never run.
func (r *Runner) Run(ctx context.Context, cfg *Config, opts Options) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	start := time.Now()
	plan := Plan(cfg, opts)
	result := &Result{}

	r.emit(Event{Type: EventPipelineStarted, Data: map[string]any{
		"crate":      cfg.Crate,
		"skip_setup": opts.SkipSetup,
		"steps":      len(plan),
	}})
	log.Printf("component=webbuild action=start crate=%s skip_setup=%t", cfg.Crate, opts.SkipSetup)

	for _, ps := range plan {
		if ps.Skipped {
			result.Steps = append(result.Steps, StepResult{Step: ps.Step, Status: StatusSkipped})
			r.emit(Event{Type: EventStepSkipped, Step: ps.Step})
			continue
		}

		stepStart := time.Now()
		r.emit(Event{Type: EventStepStarted, Step: ps.Step, Data: stepData(ps)})

		removed, err := r.runStep(ctx, ps, opts)
		sr := StepResult{Step: ps.Step, Status: StatusCompleted, Duration: time.Since(stepStart), Removed: removed}
		if err != nil {
			stepErr := &StepError{Step: ps.Step, ExitCode: exitCode(err), Err: err}
			sr.Status = StatusFailed
			sr.ExitCode = stepErr.ExitCode
			result.Steps = append(result.Steps, sr)
			result.Duration = time.Since(start)

			r.emit(Event{Type: EventStepFailed, Step: ps.Step, Data: map[string]any{
				"exit_code": stepErr.ExitCode,
				"error":     err.Error(),
			}})
			r.emit(Event{Type: EventPipelineFailed, Step: ps.Step, Data: map[string]any{
				"exit_code": stepErr.ExitCode,
				"error":     stepErr.Error(),
			}})
			log.Printf("component=webbuild action=failed step=%s exit_code=%d err=%q", ps.Step, stepErr.ExitCode, err)
			return result, stepErr
		}

		result.Steps = append(result.Steps, sr)
		r.emit(Event{Type: EventStepCompleted, Step: ps.Step, Data: map[string]any{
			"duration_ms": sr.Duration.Milliseconds(),
		}})
	}

	for _, p := range cfg.Outputs() {
		if _, err := os.Stat(p); err == nil {
			result.Outputs = append(result.Outputs, p)
		}
	}
	result.Duration = time.Since(start)

	r.emit(Event{Type: EventPipelineCompleted, Data: map[string]any{
		"duration_ms": result.Duration.Milliseconds(),
		"outputs":     len(result.Outputs),
	}})
	log.Printf("component=webbuild action=completed crate=%s outputs=%d duration=%s", cfg.Crate, len(result.Outputs), result.Duration)
	return result, nil
}

func (r *Runner) runStep(ctx context.Context, ps PlannedStep, opts Options) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if ps.Command == nil {
		return removeFiles(ps.Remove)
	}

	stdout, stderr := opts.Stdout, opts.Stderr
	var lines []*lineEmitter
	if r.EventHandler != nil {
		var mu sync.Mutex
		out := &lineEmitter{w: stdout, step: ps.Step, stream: "stdout", mu: &mu, emit: r.emit}
		errw := &lineEmitter{w: stderr, step: ps.Step, stream: "stderr", mu: &mu, emit: r.emit}
		stdout, stderr = out, errw
		lines = append(lines, out, errw)
	}

	log.Printf("component=webbuild action=exec step=%s cmd=%q dir=%s", ps.Step, ps.Command.String(), ps.Command.Dir)
	err := r.Executor.Execute(ctx, *ps.Command, stdout, stderr)
	for _, l := range lines {
		l.flush()
	}
	return nil, err
}

// removeFiles deletes each path, ignoring paths that do not exist. It stops
// at the first real error.
func removeFiles(paths []string) ([]string, error) {
	var removed []string
	for _, p := range paths {
		err := os.Remove(p)
		switch {
		case err == nil:
			removed = append(removed, p)
		case errors.Is(err, os.ErrNotExist):
		default:
			return removed, fmt.Errorf("remove %s: %w", p, err)
		}
	}
	return removed, nil
}

func stepData(ps PlannedStep) map[string]any {
	if ps.Command != nil {
		return map[string]any{"command": ps.Command.String()}
	}
	return map[string]any{"remove": len(ps.Remove)}
}

func (r *Runner) emit(evt Event) {
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now()
	}
	if r.EventHandler != nil {
		r.EventHandler(evt)
	}
}

// lineEmitter passes tool output through unchanged and emits one
// step.output event per complete line.
type lineEmitter struct {
	w      io.Writer
	step   Step
	stream string
	mu     *sync.Mutex
	emit   func(Event)
	buf    bytes.Buffer
}

func (l *lineEmitter) Write(p []byte) (int, error) {
	n, err := l.w.Write(p)
	l.mu.Lock()
	defer l.mu.Unlock()
	l.buf.Write(p)
	for {
		i := bytes.IndexByte(l.buf.Bytes(), '\n')
		if i < 0 {
			break
		}
		line := string(bytes.TrimRight(l.buf.Next(i+1), "\r\n"))
		l.emit(Event{Type: EventStepOutput, Step: l.step, Data: map[string]any{"stream": l.stream, "line": line}})
	}
	return n, err
}

func (l *lineEmitter) flush() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.buf.Len() > 0 {
		line := string(bytes.TrimRight(l.buf.Bytes(), "\r\n"))
		l.buf.Reset()
		l.emit(Event{Type: EventStepOutput, Step: l.step, Data: map[string]any{"stream": l.stream, "line": line}})
	}
}
