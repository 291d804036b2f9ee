// ABOUTME: Tests for run history directory resolution used by the fontship CLI.
// ABOUTME: Covers flag precedence, FONTSHIP_DATA_DIR, XDG_DATA_HOME, and the home fallback.
package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveDataDirPrecedence(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_DATA_HOME", xdg)

	tests := []struct {
		name string
		flag string
		env  string
		want string
	}{
		{"flag wins", "/tmp/flag", "/tmp/env", "/tmp/flag"},
		{"env over xdg", "", "/tmp/env", "/tmp/env"},
		{"xdg fallback", "", "", filepath.Join(xdg, "fontship")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("FONTSHIP_DATA_DIR", tt.env)
			got, err := resolveDataDir(tt.flag)
			if err != nil {
				t.Fatalf("resolveDataDir: %v", err)
			}
			if got != tt.want {
				t.Errorf("resolveDataDir(%q) = %q, want %q", tt.flag, got, tt.want)
			}
		})
	}
}

func TestDefaultDataDirFallsBackToHome(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "")

	got, err := defaultDataDir()
	if err != nil {
		t.Fatalf("defaultDataDir failed: %v", err)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		t.Fatalf("UserHomeDir failed: %v", err)
	}

	want := filepath.Join(home, ".local", "share", "fontship")
	if got != want {
		t.Errorf("defaultDataDir() = %q, want %q", got, want)
	}
}
