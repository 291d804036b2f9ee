// ABOUTME: Tests for web build preflight checks.
// ABOUTME: Confirms all failures are collected and the setup tool is only checked when setup will run.
package webbuild

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func hasCheck(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

func failedNames(r PreflightResult) []string {
	var names []string
	for _, f := range r.Failed {
		names = append(names, f.Name)
	}
	return names
}

func TestPreflightCollectsAllFailures(t *testing.T) {
	cfg := &Config{
		Crate:   "demo",
		BaseDir: t.TempDir(),
		Cargo:   "fontship-missing-cargo",
		Bindgen: "fontship-missing-bindgen",
	}
	cfg.ApplyDefaults()

	res := Preflight(context.Background(), cfg, Options{})
	if res.OK() {
		t.Fatal("expected failures")
	}
	failed := failedNames(res)
	for _, want := range []string{"cargo-manifest", "tool:fontship-missing-cargo", "tool:fontship-missing-bindgen", "tool:setup_web.sh"} {
		if !hasCheck(failed, want) {
			t.Errorf("missing failure %q in %v", want, failed)
		}
	}
	if !hasCheck(res.Passed, "crate-dir") || !hasCheck(res.Passed, "config") {
		t.Errorf("passed = %v", res.Passed)
	}
	if !strings.HasPrefix(res.Error(), "preflight: 4 check(s) failed:") {
		t.Errorf("Error() = %q", res.Error())
	}
}

func TestPreflightSkipSetupOmitsSetupTool(t *testing.T) {
	cfg := &Config{Crate: "demo", BaseDir: t.TempDir()}
	cfg.ApplyDefaults()

	for _, c := range BuildPreflightChecks(cfg, Options{SkipSetup: true}) {
		if c.Name == "tool:setup_web.sh" {
			t.Error("setup tool checked even though setup is skipped")
		}
	}
}

func TestPreflightPasses(t *testing.T) {
	skipWithoutSh(t)
	dir := t.TempDir()
	cfg := fakeToolchain(t, dir, okCargo)
	if err := os.WriteFile(filepath.Join(dir, "Cargo.toml"), []byte("[package]\nname = \"demo-app\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	res := Preflight(context.Background(), cfg, Options{})
	if !res.OK() {
		t.Fatalf("preflight failed:\n%s", res.Error())
	}
	if res.Error() != "" {
		t.Errorf("Error() = %q, want empty", res.Error())
	}
}

func TestPreflightNonExecutableSetup(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "setup_web.sh"), []byte("echo hi\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := &Config{Crate: "demo", BaseDir: dir}
	cfg.ApplyDefaults()

	res := Preflight(context.Background(), cfg, Options{})
	for _, f := range res.Failed {
		if f.Name == "tool:setup_web.sh" {
			if !strings.Contains(f.Reason, "not executable") {
				t.Errorf("reason = %q", f.Reason)
			}
			return
		}
	}
	t.Error("non-executable setup script passed preflight")
}
