// ABOUTME: Executor abstraction for running pipeline tools, with an os/exec implementation.
// ABOUTME: Tools run in their own process group, which is killed when the context is canceled.
package webbuild

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"syscall"
	"time"
)

// Executor runs one tool to completion. A non-zero exit must be reported
// as an error; if that error has an ExitCode() int method the code is
// propagated to the caller.
type Executor interface {
	Execute(ctx context.Context, cmd Command, stdout, stderr io.Writer) error
}

// ExecExecutor runs commands with os/exec, streaming output verbatim.
type ExecExecutor struct {
	// WaitDelay bounds how long output pipes are drained after a kill.
	WaitDelay time.Duration
}

// Compile-time check that ExecExecutor implements Executor.
var _ Executor = (*ExecExecutor)(nil)

func (e *ExecExecutor) Execute(ctx context.Context, c Command, stdout, stderr io.Writer) error {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}

	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		if cmd.Process != nil {
			pgid, err := syscall.Getpgid(cmd.Process.Pid)
			if err == nil {
				_ = syscall.Kill(-pgid, syscall.SIGKILL)
			}
			return cmd.Process.Kill()
		}
		return nil
	}
	cmd.WaitDelay = e.WaitDelay
	if cmd.WaitDelay == 0 {
		cmd.WaitDelay = 3 * time.Second
	}

	err := cmd.Run()
	if err != nil && ctx.Err() != nil {
		return &canceledError{err: ctx.Err(), exit: exitCode(err)}
	}
	return err
}

// canceledError keeps the tool's exit status while unwrapping to the
// context error.
type canceledError struct {
	err  error
	exit int
}

func (e *canceledError) Error() string { return "tool interrupted: " + e.err.Error() }
func (e *canceledError) Unwrap() error { return e.err }
func (e *canceledError) ExitCode() int { return e.exit }

// exitCode extracts the tool's exit status from err, defaulting to 1.
// Signal deaths report -1 from os/exec and are mapped to 1 as well.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var coder interface{ ExitCode() int }
	if errors.As(err, &coder) {
		if code := coder.ExitCode(); code > 0 {
			return code
		}
	}
	return 1
}
