// ABOUTME: XDG-based data directory resolution for the fontship CLI.
// ABOUTME: Resolves -data-dir, then FONTSHIP_DATA_DIR, then XDG_DATA_HOME, then ~/.local/share/fontship.
package main

import (
	"fmt"
	"os"
	"path/filepath"
)

// resolveDataDir picks the run history directory. An explicit flag wins
// over the environment.
func resolveDataDir(flagDir string) (string, error) {
	if flagDir != "" {
		return flagDir, nil
	}
	if env := os.Getenv("FONTSHIP_DATA_DIR"); env != "" {
		return env, nil
	}
	return defaultDataDir()
}

// defaultDataDir returns $XDG_DATA_HOME/fontship, falling back to
// ~/.local/share/fontship.
func defaultDataDir() (string, error) {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "fontship"), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}

	return filepath.Join(home, ".local", "share", "fontship"), nil
}
