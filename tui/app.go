// ABOUTME: Top-level Bubble Tea model for `fontship build --tui`, composing the step list, output log, and status bar.
// ABOUTME: Runs the pipeline as a command and quits once the result arrives; quitting early cancels the build.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/2389-research/fontship/webbuild"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// AppModel is the build progress view.
type AppModel struct {
	steps     StepsPanelModel
	log       LogPanelModel
	statusBar StatusBarModel

	runner   *webbuild.Runner
	cfg      *webbuild.Config
	opts     webbuild.Options
	ctx      context.Context
	cancel   context.CancelFunc
	buildCmd tea.Cmd

	done   bool
	result *webbuild.Result
	err    error
	width  int
	height int
}

// NewAppModel creates the model. cancel is called when the user quits
// before the build finishes; it may be nil.
func NewAppModel(ctx context.Context, cancel context.CancelFunc, runner *webbuild.Runner, cfg *webbuild.Config, opts webbuild.Options) AppModel {
	steps := NewStepsPanelModel()
	sb := NewStatusBarModel(cfg.Crate)
	_, total := steps.Counts()
	sb.SetProgress(0, total)
	return AppModel{
		steps:     steps,
		log:       NewLogPanelModel(500),
		statusBar: sb,
		runner:    runner,
		cfg:       cfg,
		opts:      opts,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// WithBuildCmd returns a copy of m whose Init also runs the pipeline.
// Without it the caller runs the pipeline and sends BuildResultMsg itself.
func (m AppModel) WithBuildCmd() AppModel {
	m.buildCmd = RunBuildCmd(m.ctx, m.runner, m.cfg, m.opts)
	return m
}

// Result returns the pipeline result and error once done.
func (m AppModel) Result() (*webbuild.Result, error) {
	return m.result, m.err
}

// Done reports whether the pipeline has finished.
func (m AppModel) Done() bool { return m.done }

// Init starts the pipeline and the spinner.
func (m AppModel) Init() tea.Cmd {
	return tea.Batch(m.buildCmd, m.steps.Tick())
}

// Update implements tea.Model.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case BuildEventMsg:
		return m.handleBuildEvent(msg.Event)

	case BuildResultMsg:
		m.done = true
		m.result = msg.Result
		m.err = msg.Err
		m.statusBar.SetActiveStep("")
		return m, tea.Quit

	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.steps, cmd = m.steps.UpdateSpinner(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if !m.done && m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m AppModel) handleBuildEvent(evt webbuild.Event) (tea.Model, tea.Cmd) {
	m.log.Append(evt)
	m.steps.Apply(evt)

	switch evt.Type {
	case webbuild.EventPipelineStarted:
		m.statusBar.Start()
	case webbuild.EventStepStarted:
		m.statusBar.SetActiveStep(string(evt.Step))
	case webbuild.EventStepCompleted, webbuild.EventStepSkipped, webbuild.EventStepFailed:
		m.statusBar.SetActiveStep("")
	}
	m.statusBar.SetProgress(m.steps.Counts())
	return m, nil
}

// View implements tea.Model.
func (m AppModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}
	if m.width < 40 || m.height < 12 {
		return fmt.Sprintf("Terminal too small (%dx%d). Minimum: 40x12.", m.width, m.height)
	}

	stepsHeight := len(webbuild.Steps) + 3
	logHeight := max(m.height-stepsHeight-1, 3)

	m.steps.SetWidth(m.width)
	m.log.SetSize(m.width, logHeight)
	m.statusBar.SetWidth(m.width)

	status := m.statusBar.View()
	if m.done {
		if m.err != nil {
			status += " " + FailedStyle.Render(fmt.Sprintf("FAILED: %v", m.err))
		} else {
			status += " " + CompletedStyle.Render("DONE")
		}
	}

	var b strings.Builder
	b.WriteString(lipgloss.JoinVertical(lipgloss.Left, m.steps.View(), m.log.View()))
	b.WriteString("\n")
	b.WriteString(status)
	return b.String()
}
