// ABOUTME: Bubble Tea message types carrying web build events and the final result into the TUI loop.
// ABOUTME: The app model consumes them in Update to drive the step list and log panel.
package tui

import "github.com/2389-research/fontship/webbuild"

// BuildEventMsg wraps a webbuild.Event for the Bubble Tea message loop.
type BuildEventMsg struct {
	Event webbuild.Event
}

// BuildResultMsg signals that the pipeline has finished.
type BuildResultMsg struct {
	Result *webbuild.Result
	Err    error
}
