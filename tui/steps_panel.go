// ABOUTME: Step list panel showing each pipeline step with its status, duration, and a spinner while running.
// ABOUTME: Uses the bubbles spinner component for the active step.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/2389-research/fontship/webbuild"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

type stepRow struct {
	step     webbuild.Step
	status   webbuild.StepStatus
	duration time.Duration
	exitCode int
	detail   string
}

// StepsPanelModel renders the ordered pipeline steps.
type StepsPanelModel struct {
	rows    []stepRow
	spinner spinner.Model
	width   int
}

// NewStepsPanelModel lists every step as pending.
func NewStepsPanelModel() StepsPanelModel {
	rows := make([]stepRow, 0, len(webbuild.Steps))
	for _, s := range webbuild.Steps {
		rows = append(rows, stepRow{step: s, status: webbuild.StatusPending})
	}
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = RunningStyle
	return StepsPanelModel{rows: rows, spinner: sp}
}

// Tick returns the command that animates the spinner.
func (m StepsPanelModel) Tick() tea.Cmd {
	return m.spinner.Tick
}

// UpdateSpinner advances the spinner animation.
func (m StepsPanelModel) UpdateSpinner(msg spinner.TickMsg) (StepsPanelModel, tea.Cmd) {
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

// SetStatus updates one step.
func (m *StepsPanelModel) SetStatus(step webbuild.Step, status webbuild.StepStatus) {
	if r := m.row(step); r != nil {
		r.status = status
	}
}

// Status returns the current status of step.
func (m StepsPanelModel) Status(step webbuild.Step) webbuild.StepStatus {
	for _, r := range m.rows {
		if r.step == step {
			return r.status
		}
	}
	return webbuild.StatusPending
}

// Counts returns the number of finished steps (completed or skipped) and the total.
func (m StepsPanelModel) Counts() (done, total int) {
	for _, r := range m.rows {
		if r.status == webbuild.StatusCompleted || r.status == webbuild.StatusSkipped {
			done++
		}
	}
	return done, len(m.rows)
}

func (m *StepsPanelModel) row(step webbuild.Step) *stepRow {
	for i := range m.rows {
		if m.rows[i].step == step {
			return &m.rows[i]
		}
	}
	return nil
}

// Apply folds a runner event into the step rows.
func (m *StepsPanelModel) Apply(evt webbuild.Event) {
	r := m.row(evt.Step)
	if r == nil {
		return
	}
	switch evt.Type {
	case webbuild.EventStepStarted:
		r.status = webbuild.StatusRunning
		if cmd, ok := evt.Data["command"].(string); ok {
			r.detail = cmd
		}
	case webbuild.EventStepCompleted:
		r.status = webbuild.StatusCompleted
		r.duration = durationFrom(evt.Data)
		r.detail = ""
	case webbuild.EventStepSkipped:
		r.status = webbuild.StatusSkipped
		r.detail = "skipped"
	case webbuild.EventStepFailed:
		r.status = webbuild.StatusFailed
		if code, ok := evt.Data["exit_code"].(int); ok {
			r.exitCode = code
		}
		r.detail = fmt.Sprintf("exit %d", r.exitCode)
	}
}

func durationFrom(data map[string]any) time.Duration {
	if ms, ok := data["duration_ms"].(int64); ok {
		return time.Duration(ms) * time.Millisecond
	}
	return 0
}

// SetWidth sets the render width.
func (m *StepsPanelModel) SetWidth(w int) {
	m.width = w
}

// View renders the step list.
func (m StepsPanelModel) View() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("STEPS"))
	for _, r := range m.rows {
		b.WriteString("\n")
		icon := statusIcon(r.status)
		if r.status == webbuild.StatusRunning {
			icon = " " + m.spinner.View() + " "
		}
		line := fmt.Sprintf("%s %-8s", icon, r.step)
		if r.duration > 0 {
			line += " " + r.duration.Round(time.Millisecond).String()
		}
		if r.detail != "" {
			line += "  " + r.detail
		}
		b.WriteString(StyleForStatus(r.status).Render(line))
	}
	if m.width > 2 {
		return BorderStyle.Width(m.width - 2).Render(b.String())
	}
	return BorderStyle.Render(b.String())
}
