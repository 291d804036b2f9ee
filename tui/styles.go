// ABOUTME: Lipgloss styles for the build progress view: panels, step states, and log lines.
// ABOUTME: StyleForStatus maps a webbuild step status to its display style.
package tui

import (
	"github.com/2389-research/fontship/webbuild"
	"github.com/charmbracelet/lipgloss"
)

var (
	BorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62"))

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170"))

	PendingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	RunningStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	CompletedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	FailedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	SkippedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	LogTimestampStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	LogEventStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
	LogStderrStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("180"))
	LogErrorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	StatusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Padding(0, 1)
)

// StyleForStatus returns the style for a step status.
func StyleForStatus(status webbuild.StepStatus) lipgloss.Style {
	switch status {
	case webbuild.StatusRunning:
		return RunningStyle
	case webbuild.StatusCompleted:
		return CompletedStyle
	case webbuild.StatusFailed:
		return FailedStyle
	case webbuild.StatusSkipped:
		return SkippedStyle
	default:
		return PendingStyle
	}
}

// statusIcon is the bracket marker shown before a step name. Running steps
// show the spinner instead.
func statusIcon(status webbuild.StepStatus) string {
	switch status {
	case webbuild.StatusCompleted:
		return "[+]"
	case webbuild.StatusFailed:
		return "[!]"
	case webbuild.StatusSkipped:
		return "[-]"
	default:
		return "[ ]"
	}
}
