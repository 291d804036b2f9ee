// ABOUTME: Scrollable panel with the tail of tool output and pipeline events, built on the bubbles viewport.
// ABOUTME: Keeps a bounded number of lines, evicting the oldest.
package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/2389-research/fontship/webbuild"
	"github.com/charmbracelet/bubbles/viewport"
)

// LogPanelModel shows the most recent output lines.
type LogPanelModel struct {
	lines    []string
	max      int
	viewport viewport.Model
	width    int
	height   int
}

// NewLogPanelModel creates a log panel holding at most maxLines lines.
// If maxLines is <= 0, it defaults to 500.
func NewLogPanelModel(maxLines int) LogPanelModel {
	if maxLines <= 0 {
		maxLines = 500
	}
	return LogPanelModel{
		lines:    make([]string, 0, maxLines),
		max:      maxLines,
		viewport: viewport.New(80, 10),
	}
}

// Append formats evt and adds it to the tail.
func (m *LogPanelModel) Append(evt webbuild.Event) {
	if len(m.lines) >= m.max {
		m.lines = m.lines[1:]
	}
	m.lines = append(m.lines, formatEntry(evt))
	m.syncViewport()
}

// Len returns the number of lines held.
func (m LogPanelModel) Len() int {
	return len(m.lines)
}

// SetSize sets the available dimensions.
func (m *LogPanelModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.viewport.Width = max(w-2, 1)
	m.viewport.Height = max(h-3, 1)
	m.syncViewport()
}

// View renders the panel.
func (m LogPanelModel) View() string {
	content := "No output yet"
	if len(m.lines) > 0 {
		content = m.viewport.View()
	}
	rendered := TitleStyle.Render("OUTPUT") + "\n" + content
	if m.width > 2 && m.height > 2 {
		return BorderStyle.Width(m.width - 2).Height(m.height - 2).Render(rendered)
	}
	return BorderStyle.Render(rendered)
}

func (m *LogPanelModel) syncViewport() {
	m.viewport.SetContent(strings.Join(m.lines, "\n"))
	m.viewport.GotoBottom()
}

// formatEntry renders output events as the raw tool line and every other
// event as a timestamped summary.
func formatEntry(evt webbuild.Event) string {
	if evt.Type == webbuild.EventStepOutput {
		line, _ := evt.Data["line"].(string)
		if stream, _ := evt.Data["stream"].(string); stream == "stderr" {
			return LogStderrStyle.Render(line)
		}
		return line
	}

	style := LogEventStyle
	if evt.Type == webbuild.EventStepFailed || evt.Type == webbuild.EventPipelineFailed {
		style = LogErrorStyle
	}
	parts := []string{
		LogTimestampStyle.Render(evt.Timestamp.Format("15:04:05")),
		style.Render(string(evt.Type)),
	}
	if evt.Step != "" {
		parts = append(parts, fmt.Sprintf("[%s]", evt.Step))
	}
	if len(evt.Data) > 0 {
		parts = append(parts, formatData(evt.Data))
	}
	return strings.Join(parts, " ")
}

// formatData formats event data as sorted key=value pairs.
func formatData(data map[string]any) string {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, fmt.Sprintf("%s=%v", k, data[k]))
	}
	return strings.Join(pairs, " ")
}
