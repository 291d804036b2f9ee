// ABOUTME: Tests for the fontship CLI help display.
// ABOUTME: Checks the version line, every subcommand, and the documented exit status.
package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestPrintHelpContainsVersion(t *testing.T) {
	var buf bytes.Buffer
	printHelp(&buf, "1.2.3")
	if !strings.Contains(buf.String(), "fontship 1.2.3") {
		t.Errorf("expected version in help, got:\n%s", buf.String())
	}
}

func TestPrintHelpListsSubcommands(t *testing.T) {
	var buf bytes.Buffer
	printHelp(&buf, "dev")
	out := buf.String()

	for _, cmd := range []string{"build [--skip-setup]", "pack", "check", "fonts", "doctor", "history", "serve", "version"} {
		if !strings.Contains(out, "fontship "+cmd) {
			t.Errorf("help missing %q", cmd)
		}
	}
	if !strings.Contains(out, "Exit status") {
		t.Error("help missing exit status section")
	}
}
