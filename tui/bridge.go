// ABOUTME: Bridge connecting the web build runner to the Bubble Tea message loop.
// ABOUTME: EventBridge forwards runner events; RunBuildCmd runs the pipeline and reports its result.
package tui

import (
	"context"

	"github.com/2389-research/fontship/webbuild"
	tea "github.com/charmbracelet/bubbletea"
)

// EventBridge wraps a tea.Program's Send method for injecting runner events.
type EventBridge struct {
	send func(msg tea.Msg)
}

// NewEventBridge creates an EventBridge that sends messages via send,
// typically program.Send.
func NewEventBridge(send func(msg tea.Msg)) *EventBridge {
	return &EventBridge{send: send}
}

// HandleEvent has the webbuild.EventHandler signature.
func (b *EventBridge) HandleEvent(evt webbuild.Event) {
	b.send(BuildEventMsg{Event: evt})
}

// RunBuildCmd returns a tea.Cmd that runs the pipeline and sends a
// BuildResultMsg when it finishes.
func RunBuildCmd(ctx context.Context, runner *webbuild.Runner, cfg *webbuild.Config, opts webbuild.Options) tea.Cmd {
	return func() tea.Msg {
		result, err := runner.Run(ctx, cfg, opts)
		return BuildResultMsg{Result: result, Err: err}
	}
}
