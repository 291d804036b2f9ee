// ABOUTME: Tests for the build progress model: event routing, quitting on result, cancellation, and rendering.
// ABOUTME: Drives AppModel.Update directly with synthetic runner events.
package tui

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/2389-research/fontship/webbuild"
	tea "github.com/charmbracelet/bubbletea"
)

type nopExecutor struct {
	fail bool
}

type exitTwo struct{}

func (exitTwo) Error() string { return "exit status 2" }
func (exitTwo) ExitCode() int { return 2 }

func (e nopExecutor) Execute(ctx context.Context, cmd webbuild.Command, stdout, stderr io.Writer) error {
	_, _ = io.WriteString(stdout, cmd.Name+" running\n")
	if e.fail {
		return exitTwo{}
	}
	return nil
}

func testModel(t *testing.T) (AppModel, *bool) {
	t.Helper()
	cfg := &webbuild.Config{Crate: "demo", BaseDir: t.TempDir(), Setup: []string{}}
	cfg.ApplyDefaults()
	canceled := false
	m := NewAppModel(context.Background(), func() { canceled = true }, webbuild.NewRunner(nopExecutor{}), cfg, webbuild.Options{})
	return m, &canceled
}

func update(t *testing.T, m AppModel, msg tea.Msg) (AppModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	am, ok := next.(AppModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return am, cmd
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestAppModelRoutesEvents(t *testing.T) {
	m, _ := testModel(t)
	events := []webbuild.Event{
		{Type: webbuild.EventPipelineStarted},
		{Type: webbuild.EventStepSkipped, Step: webbuild.StepSetup},
		{Type: webbuild.EventStepStarted, Step: webbuild.StepCompile, Data: map[string]any{"command": "cargo build"}},
		{Type: webbuild.EventStepOutput, Step: webbuild.StepCompile, Data: map[string]any{"line": "Compiling demo", "stream": "stderr"}},
	}
	for _, e := range events {
		m, _ = update(t, m, BuildEventMsg{Event: e})
	}

	if got := m.steps.Status(webbuild.StepSetup); got != webbuild.StatusSkipped {
		t.Errorf("setup = %s, want skipped", got)
	}
	if got := m.steps.Status(webbuild.StepCompile); got != webbuild.StatusRunning {
		t.Errorf("compile = %s, want running", got)
	}
	if m.statusBar.activeStep != "compile" {
		t.Errorf("active step = %q", m.statusBar.activeStep)
	}
	if m.statusBar.done != 1 || m.statusBar.total != len(webbuild.Steps) {
		t.Errorf("progress = %d/%d", m.statusBar.done, m.statusBar.total)
	}
	if m.log.Len() != len(events) {
		t.Errorf("log lines = %d, want %d", m.log.Len(), len(events))
	}

	m, _ = update(t, m, BuildEventMsg{Event: webbuild.Event{Type: webbuild.EventStepFailed, Step: webbuild.StepCompile, Data: map[string]any{"exit_code": 101}}})
	if got := m.steps.Status(webbuild.StepCompile); got != webbuild.StatusFailed {
		t.Errorf("compile = %s, want failed", got)
	}
	if !strings.Contains(m.steps.View(), "exit 101") {
		t.Errorf("steps view missing exit code:\n%s", m.steps.View())
	}
}

func TestAppModelBuildCmdIsOptIn(t *testing.T) {
	m, _ := testModel(t)
	if m.buildCmd != nil {
		t.Fatal("NewAppModel should not carry a build command")
	}

	m = m.WithBuildCmd()
	if m.buildCmd == nil {
		t.Fatal("WithBuildCmd did not set a build command")
	}
	raw := m.buildCmd()
	msg, ok := raw.(BuildResultMsg)
	if !ok {
		t.Fatalf("build command returned %T, want BuildResultMsg", raw)
	}
	if msg.Err != nil || msg.Result == nil {
		t.Errorf("build result = %v, %v", msg.Result, msg.Err)
	}
}

func TestAppModelQuitsOnResult(t *testing.T) {
	m, canceled := testModel(t)
	wantErr := &webbuild.StepError{Step: webbuild.StepBindgen, ExitCode: 1, Err: errors.New("boom")}
	m, cmd := update(t, m, BuildResultMsg{Err: wantErr})
	if !m.Done() {
		t.Error("model not done after result")
	}
	if !isQuit(cmd) {
		t.Error("expected tea.Quit after result")
	}
	if _, err := m.Result(); err != wantErr {
		t.Errorf("Result err = %v", err)
	}
	if *canceled {
		t.Error("cancel called after normal completion")
	}
}

func TestAppModelQuitKeyCancelsBuild(t *testing.T) {
	m, canceled := testModel(t)
	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if !isQuit(cmd) {
		t.Error("expected quit on q")
	}
	if !*canceled {
		t.Error("quitting a running build did not cancel it")
	}
}

func TestAppModelView(t *testing.T) {
	m, _ := testModel(t)
	if got := m.View(); got != "Initializing..." {
		t.Errorf("View before size = %q", got)
	}
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 30, Height: 8})
	if !strings.Contains(m.View(), "Terminal too small") {
		t.Error("expected too-small message")
	}

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	m, _ = update(t, m, BuildResultMsg{Result: &webbuild.Result{}})
	view := m.View()
	for _, want := range []string{"STEPS", "compile", "bindgen", "OUTPUT", "Crate: demo", "DONE"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestLogPanelEvictsOldest(t *testing.T) {
	p := NewLogPanelModel(2)
	for _, line := range []string{"one", "two", "three"} {
		p.Append(webbuild.Event{Type: webbuild.EventStepOutput, Data: map[string]any{"line": line}})
	}
	if p.Len() != 2 {
		t.Fatalf("Len = %d, want 2", p.Len())
	}
	if p.lines[0] != "two" || p.lines[1] != "three" {
		t.Errorf("lines = %v", p.lines)
	}
}

func TestFormatEntry(t *testing.T) {
	got := formatEntry(webbuild.Event{
		Type:      webbuild.EventStepCompleted,
		Step:      webbuild.StepClear,
		Timestamp: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Data:      map[string]any{"b": 2, "a": 1},
	})
	for _, want := range []string{"03:04:05", "step.completed", "[clear]", "a=1 b=2"} {
		if !strings.Contains(got, want) {
			t.Errorf("formatEntry = %q, missing %q", got, want)
		}
	}
}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0s"},
		{12 * time.Second, "12s"},
		{150 * time.Second, "2m30s"},
	}
	for _, tt := range tests {
		if got := formatElapsed(tt.d); got != tt.want {
			t.Errorf("formatElapsed(%s) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestRunWithProgram(t *testing.T) {
	for _, fail := range []bool{false, true} {
		cfg := &webbuild.Config{Crate: "demo", BaseDir: t.TempDir(), Setup: []string{}}
		cfg.ApplyDefaults()
		runner := webbuild.NewRunner(nopExecutor{fail: fail})
		var seen int
		runner.EventHandler = func(webbuild.Event) { seen++ }

		res, err := Run(context.Background(), runner, cfg, webbuild.Options{},
			tea.WithInput(nil), tea.WithOutput(io.Discard))
		if fail {
			var stepErr *webbuild.StepError
			if !errors.As(err, &stepErr) || stepErr.ExitCode != 2 {
				t.Errorf("fail run: err = %v", err)
			}
		} else if err != nil || res == nil {
			t.Errorf("ok run: res = %v, err = %v", res, err)
		}
		if seen == 0 {
			t.Error("existing event handler was dropped")
		}
		if runner.EventHandler == nil {
			t.Error("event handler not restored")
		}
	}
}
