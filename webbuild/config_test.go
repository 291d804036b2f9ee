// ABOUTME: Tests for web build config parsing, defaults, validation, and derived paths.
// ABOUTME: Covers YAML decoding, unknown-field rejection, and cargo artifact naming.
package webbuild

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := ParseConfig([]byte("crate: demo-app\n"))
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	checks := []struct {
		name, got, want string
	}{
		{"crate_dir", cfg.CrateDir, "."},
		{"target", cfg.Target, "wasm32-unknown-unknown"},
		{"profile", cfg.Profile, "release"},
		{"target_dir", cfg.TargetDir, "target"},
		{"out_dir", cfg.OutDir, "."},
		{"out_name", cfg.OutName, "demo-app"},
		{"bindgen_target", cfg.BindgenTarget, "no-modules"},
		{"cargo", cfg.Cargo, "cargo"},
		{"bindgen", cfg.Bindgen, "wasm-bindgen"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %q, want %q", c.name, c.got, c.want)
		}
	}
	if cfg.NoDefaultFeatures == nil || !*cfg.NoDefaultFeatures {
		t.Error("no_default_features should default to true")
	}
	if len(cfg.Setup) != 1 || cfg.Setup[0] != "./setup_web.sh" {
		t.Errorf("setup = %v", cfg.Setup)
	}
	if len(cfg.Unwanted) != 1 || cfg.Unwanted[0] != "demo-app_bg.js" {
		t.Errorf("unwanted = %v", cfg.Unwanted)
	}
}

func TestParseConfigOverrides(t *testing.T) {
	src := `
crate: egui_demo_app
out_dir: docs
out_name: egui_demo
features: [glow, persistence]
no_default_features: false
profile: dev
setup: []
env:
  RUSTFLAGS: --cfg=web_sys_unstable_apis
`
	cfg, err := ParseConfig([]byte(src))
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if *cfg.NoDefaultFeatures {
		t.Error("explicit no_default_features: false was overwritten")
	}
	if len(cfg.Setup) != 0 {
		t.Errorf("explicit empty setup replaced by default: %v", cfg.Setup)
	}
	if got := cfg.env(); len(got) != 1 || got[0] != "RUSTFLAGS=--cfg=web_sys_unstable_apis" {
		t.Errorf("env = %v", got)
	}
	if cfg.Unwanted[0] != "egui_demo_bg.js" {
		t.Errorf("unwanted should follow out_name, got %v", cfg.Unwanted)
	}
}

func TestParseConfigRejectsUnknownField(t *testing.T) {
	_, err := ParseConfig([]byte("crate: x\nfeatrues: [a]\n"))
	if err == nil {
		t.Fatal("expected error for misspelled field")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr string
	}{
		{"ok", "crate: demo\n", ""},
		{"missing crate", "out_dir: web\n", "crate is required"},
		{"out name with path", "crate: demo\nout_name: web/demo\n", "must be a file name"},
		{"feature list in one entry", "crate: demo\nfeatures: [\"a,b\"]\n", "single name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := ParseConfig([]byte(tt.src))
			if err != nil {
				t.Fatal(err)
			}
			err = cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateMissingCrateSentinel(t *testing.T) {
	cfg, err := ParseConfig(nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := cfg.Validate(); !errors.Is(err, ErrMissingCrate) {
		t.Errorf("error = %v, want ErrMissingCrate", err)
	}
}

func TestArtifactPath(t *testing.T) {
	tests := []struct {
		profile, dir string
	}{
		{"release", "release"},
		{"dev", "debug"},
		{"web", "web"},
	}
	for _, tt := range tests {
		cfg := &Config{Crate: "demo-app", Profile: tt.profile, BaseDir: "/src"}
		cfg.ApplyDefaults()
		want := filepath.Join("/src", "target", "wasm32-unknown-unknown", tt.dir, "demo_app.wasm")
		if got := cfg.ArtifactPath(); got != want {
			t.Errorf("profile %s: ArtifactPath = %q, want %q", tt.profile, got, want)
		}
	}
}

func TestLoadConfigSetsBaseDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultConfigFile)
	if err := os.WriteFile(path, []byte("crate: demo\nout_dir: docs\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.BaseDir != dir {
		t.Errorf("BaseDir = %q, want %q", cfg.BaseDir, dir)
	}
	if got, want := cfg.OutPath(), filepath.Join(dir, "docs"); got != want {
		t.Errorf("OutPath = %q, want %q", got, want)
	}
}
