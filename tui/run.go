// ABOUTME: Entry point for running a web build under the Bubble Tea progress view.
// ABOUTME: Wires the runner's events into the program and returns the pipeline's own result.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/2389-research/fontship/webbuild"
	tea "github.com/charmbracelet/bubbletea"
)

// Run executes the build with the progress view attached. Tool output is
// shown in the view rather than written to the terminal. Any event handler
// already set on runner keeps receiving events. Run returns only after the
// pipeline has stopped; quitting the view early cancels it.
func Run(ctx context.Context, runner *webbuild.Runner, cfg *webbuild.Config, opts webbuild.Options, progOpts ...tea.ProgramOption) (*webbuild.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	opts.Stdout = io.Discard
	opts.Stderr = io.Discard

	// The pipeline runs outside the program so its result survives an
	// early quit.
	model := NewAppModel(ctx, cancel, runner, cfg, opts)
	p := tea.NewProgram(model, append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, progOpts...)...)

	bridge := NewEventBridge(p.Send)
	prev := runner.EventHandler
	runner.EventHandler = webbuild.MultiHandler(prev, bridge.HandleEvent)
	defer func() { runner.EventHandler = prev }()

	done := make(chan BuildResultMsg, 1)
	go func() {
		result, err := runner.Run(ctx, cfg, opts)
		msg := BuildResultMsg{Result: result, Err: err}
		done <- msg
		p.Send(msg)
	}()

	_, viewErr := p.Run()
	cancel()
	msg := <-done
	if viewErr != nil && !errors.Is(viewErr, tea.ErrProgramKilled) && msg.Err == nil {
		return msg.Result, fmt.Errorf("progress view: %w", viewErr)
	}
	return msg.Result, msg.Err
}
