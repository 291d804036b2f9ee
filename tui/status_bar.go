// ABOUTME: Single-line status bar for the build view: crate, elapsed time, step progress, and active step.
// ABOUTME: Rendered at the bottom of the app view with the lipgloss status bar style.
package tui

import (
	"fmt"
	"time"
)

// StatusBarModel displays build status in a single line.
type StatusBarModel struct {
	crate      string
	startTime  time.Time
	done       int
	total      int
	activeStep string
	width      int
}

// NewStatusBarModel creates a status bar for crate.
func NewStatusBarModel(crate string) StatusBarModel {
	return StatusBarModel{crate: crate}
}

// Start records the build start time.
func (m *StatusBarModel) Start() { m.startTime = time.Now() }

// SetProgress updates the finished and total step counts.
func (m *StatusBarModel) SetProgress(done, total int) {
	m.done = done
	m.total = total
}

// SetActiveStep sets the running step name.
func (m *StatusBarModel) SetActiveStep(name string) { m.activeStep = name }

// SetWidth sets the bar width.
func (m *StatusBarModel) SetWidth(w int) { m.width = w }

// Elapsed returns the time since Start, or zero before it.
func (m StatusBarModel) Elapsed() time.Duration {
	if m.startTime.IsZero() {
		return 0
	}
	return time.Since(m.startTime)
}

// formatElapsed renders "12s" under a minute and "2m30s" above.
func formatElapsed(d time.Duration) string {
	d = d.Truncate(time.Second)
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	minutes := int(d.Minutes())
	return fmt.Sprintf("%dm%ds", minutes, int(d.Seconds())-minutes*60)
}

// View renders the bar.
func (m StatusBarModel) View() string {
	active := m.activeStep
	if active == "" {
		active = "idle"
	}
	content := fmt.Sprintf("Crate: %s | Elapsed: %s | %d/%d steps | Active: %s",
		m.crate, formatElapsed(m.Elapsed()), m.done, m.total, active)
	if m.width > 0 {
		return StatusBarStyle.Width(m.width).Render(content)
	}
	return StatusBarStyle.Render(content)
}
