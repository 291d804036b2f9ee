// ABOUTME: Help display and shared terminal styles for the fontship CLI.
// ABOUTME: Labels are lipgloss styles, which render plain when output is not a terminal.
package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	okLabel    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#22C55E"))
	warnLabel  = lipgloss.NewStyle().Foreground(lipgloss.Color("#EAB308"))
	errorLabel = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#EF4444"))
	titleStyle = lipgloss.NewStyle().Bold(true)
)

// printHelp writes usage for every subcommand to w.
func printHelp(w io.Writer, ver string) {
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("fontship %s", ver)))
	fmt.Fprintln(w, "Font asset packaging and the web build pipeline.")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  fontship build [--skip-setup]       Run setup, compile, bindgen and cleanup")
	fmt.Fprintln(w, "  fontship pack [-manifest file]      Write the font package archive")
	fmt.Fprintln(w, "  fontship check [-manifest file]     Validate a manifest and its includes")
	fmt.Fprintln(w, "  fontship fonts [-inspect]           List the bundled fonts")
	fmt.Fprintln(w, "  fontship doctor                     Check the build config and toolchain")
	fmt.Fprintln(w, "  fontship history [-n 20]            Show past build runs")
	fmt.Fprintln(w, "  fontship serve [-dir .] [-port 8765] Preview a built web bundle")
	fmt.Fprintln(w, "  fontship version                    Print the version")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Build Flags:")
	fmt.Fprintln(w, "  --skip-setup          Do not run the environment setup step")
	fmt.Fprintln(w, "  -config <file>        Pipeline config (default: webbuild.yaml)")
	fmt.Fprintln(w, "  -tui                  Show progress in a terminal UI")
	fmt.Fprintln(w, "  -dry-run              Print the steps without running them")
	fmt.Fprintln(w, "  -data-dir <dir>       Run history directory (default: $XDG_DATA_HOME/fontship)")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Pack Flags:")
	fmt.Fprintln(w, "  -out <dir>            Archive output directory")
	fmt.Fprintln(w, "  -go-source <file>     Also write a Go file embedding the fonts")
	fmt.Fprintln(w, "  -pkg <name>           Package name for -go-source (default: fonts)")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  FONTSHIP_DATA_DIR     Run history directory")
	fmt.Fprintln(w, "  XDG_DATA_HOME         Base for the default data directory")
	fmt.Fprintln(w, "  .env in the working directory is loaded without overriding set variables.")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Exit status: 0 on success, 2 on usage errors, otherwise the failing tool's status.")
}
