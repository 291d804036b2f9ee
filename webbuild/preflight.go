// ABOUTME: Pre-build checks for the web pipeline: crate layout and tool availability.
// ABOUTME: Every check runs even after a failure so the report lists everything to fix.
package webbuild

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// PreflightCheck is a single named check; a nil error means pass.
type PreflightCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// PreflightResult holds the aggregated results of all checks.
type PreflightResult struct {
	Passed []string
	Failed []PreflightFailure
}

// PreflightFailure records a single check failure with its reason.
type PreflightFailure struct {
	Name   string
	Reason string
}

// OK returns true if no checks failed.
func (r PreflightResult) OK() bool {
	return len(r.Failed) == 0
}

// Error formats all failures as a multi-line string, or "" when OK.
func (r PreflightResult) Error() string {
	if len(r.Failed) == 0 {
		return ""
	}
	lines := make([]string, 0, len(r.Failed)+1)
	lines = append(lines, fmt.Sprintf("preflight: %d check(s) failed:", len(r.Failed)))
	for _, f := range r.Failed {
		lines = append(lines, fmt.Sprintf("  - %s: %s", f.Name, f.Reason))
	}
	return strings.Join(lines, "\n")
}

// RunPreflight executes all checks and collects results.
func RunPreflight(ctx context.Context, checks []PreflightCheck) PreflightResult {
	result := PreflightResult{
		Passed: make([]string, 0, len(checks)),
		Failed: make([]PreflightFailure, 0),
	}
	for _, c := range checks {
		if err := c.Check(ctx); err != nil {
			result.Failed = append(result.Failed, PreflightFailure{Name: c.Name, Reason: err.Error()})
		} else {
			result.Passed = append(result.Passed, c.Name)
		}
	}
	return result
}

// Preflight checks the config, the crate layout and that every tool the
// run will invoke can be found. The setup tool is only checked when setup
// is not skipped. Tools the setup script installs will fail here until
// setup has run once.
func Preflight(ctx context.Context, cfg *Config, opts Options) PreflightResult {
	return RunPreflight(ctx, BuildPreflightChecks(cfg, opts))
}

// BuildPreflightChecks returns the checks Preflight runs.
func BuildPreflightChecks(cfg *Config, opts Options) []PreflightCheck {
	checks := []PreflightCheck{
		{Name: "config", Check: func(context.Context) error { return cfg.Validate() }},
		{Name: "crate-dir", Check: func(context.Context) error {
			info, err := os.Stat(cfg.CratePath())
			if err != nil {
				return err
			}
			if !info.IsDir() {
				return fmt.Errorf("%s is not a directory", cfg.CratePath())
			}
			return nil
		}},
		{Name: "cargo-manifest", Check: func(context.Context) error {
			_, err := os.Stat(filepath.Join(cfg.CratePath(), "Cargo.toml"))
			return err
		}},
	}

	for _, ps := range Plan(cfg, opts) {
		if ps.Command == nil || ps.Skipped {
			continue
		}
		c := *ps.Command
		checks = append(checks, PreflightCheck{
			Name:  "tool:" + filepath.Base(c.Name),
			Check: func(context.Context) error { return findTool(c) },
		})
	}
	return checks
}

// findTool resolves a command name the way os/exec will: names with a path
// separator relative to the command's directory, bare names on PATH.
func findTool(c Command) error {
	if !strings.ContainsRune(c.Name, filepath.Separator) {
		_, err := exec.LookPath(c.Name)
		return err
	}
	p := c.Name
	if !filepath.IsAbs(p) {
		p = filepath.Join(c.Dir, p)
	}
	info, err := os.Stat(p)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", p)
	}
	if info.Mode()&0o111 == 0 {
		return errors.New(p + " is not executable")
	}
	return nil
}
