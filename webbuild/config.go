// ABOUTME: YAML configuration for the web build pipeline with defaults for every field but the crate name.
// ABOUTME: Resolves the crate, target, and output paths the pipeline steps read and delete.
package webbuild

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the config file name looked up in the working directory.
const DefaultConfigFile = "webbuild.yaml"

// ErrMissingCrate is returned when the config names no crate to compile.
var ErrMissingCrate = errors.New("webbuild: crate is required")

// Config describes one web build. Relative paths resolve against BaseDir,
// except TargetDir which, like cargo's own target dir, is relative to CrateDir.
type Config struct {
	CrateDir          string            `yaml:"crate_dir"`
	Crate             string            `yaml:"crate"`
	Features          []string          `yaml:"features"`
	NoDefaultFeatures *bool             `yaml:"no_default_features"`
	Target            string            `yaml:"target"`
	Profile           string            `yaml:"profile"`
	TargetDir         string            `yaml:"target_dir"`
	OutDir            string            `yaml:"out_dir"`
	OutName           string            `yaml:"out_name"`
	BindgenTarget     string            `yaml:"bindgen_target"`
	Setup             []string          `yaml:"setup"`
	Cargo             string            `yaml:"cargo"`
	Bindgen           string            `yaml:"bindgen"`
	Env               map[string]string `yaml:"env"`
	Unwanted          []string          `yaml:"unwanted"`

	// BaseDir is the directory the config was loaded from. Not read from YAML.
	BaseDir string `yaml:"-"`
}

// ParseConfig decodes YAML config data and applies defaults. Unknown keys
// are rejected. Empty input yields a config with only defaults set, which
// fails Validate until a crate is named.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse webbuild config: %w", err)
	}
	cfg.ApplyDefaults()
	return &cfg, nil
}

// LoadConfig reads a config file and sets BaseDir to the file's directory.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read webbuild config: %w", err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	abs, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("resolve config dir: %w", err)
	}
	cfg.BaseDir = abs
	return cfg, nil
}

// ApplyDefaults fills every unset field. It is idempotent.
func (c *Config) ApplyDefaults() {
	if c.CrateDir == "" {
		c.CrateDir = "."
	}
	if c.NoDefaultFeatures == nil {
		v := true
		c.NoDefaultFeatures = &v
	}
	if c.Target == "" {
		c.Target = "wasm32-unknown-unknown"
	}
	if c.Profile == "" {
		c.Profile = "release"
	}
	if c.TargetDir == "" {
		c.TargetDir = "target"
	}
	if c.OutDir == "" {
		c.OutDir = "."
	}
	if c.OutName == "" {
		c.OutName = c.Crate
	}
	if c.BindgenTarget == "" {
		c.BindgenTarget = "no-modules"
	}
	if c.Setup == nil {
		c.Setup = []string{"./setup_web.sh"}
	}
	if c.Cargo == "" {
		c.Cargo = "cargo"
	}
	if c.Bindgen == "" {
		c.Bindgen = "wasm-bindgen"
	}
	if c.Unwanted == nil && c.OutName != "" {
		c.Unwanted = []string{c.OutName + "_bg.js"}
	}
}

// Validate reports configuration errors that make every step pointless.
func (c *Config) Validate() error {
	var errs []error
	if c.Crate == "" {
		errs = append(errs, ErrMissingCrate)
	}
	for _, name := range append([]string{c.OutName}, c.Unwanted...) {
		if name != "" && strings.ContainsAny(name, `/\`) {
			errs = append(errs, fmt.Errorf("webbuild: %q must be a file name, not a path", name))
		}
	}
	for _, f := range c.Features {
		if strings.ContainsAny(f, ", ") {
			errs = append(errs, fmt.Errorf("webbuild: feature %q must be a single name", f))
		}
	}
	return errors.Join(errs...)
}

func (c *Config) resolve(base, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

func (c *Config) baseDir() string {
	if c.BaseDir == "" {
		return "."
	}
	return c.BaseDir
}

// CratePath is the directory cargo runs in.
func (c *Config) CratePath() string { return c.resolve(c.baseDir(), c.CrateDir) }

// OutPath is the directory bindings are written to.
func (c *Config) OutPath() string { return c.resolve(c.baseDir(), c.OutDir) }

// ArtifactName is the file name cargo gives the compiled library:
// the crate name with dashes turned into underscores.
func (c *Config) ArtifactName() string {
	return strings.ReplaceAll(c.Crate, "-", "_") + ".wasm"
}

// ArtifactPath is where cargo leaves the compiled library.
func (c *Config) ArtifactPath() string {
	return filepath.Join(c.resolve(c.CratePath(), c.TargetDir), c.Target, c.profileDir(), c.ArtifactName())
}

// profileDir maps a cargo profile to its output directory name.
func (c *Config) profileDir() string {
	switch c.Profile {
	case "dev", "test":
		return "debug"
	case "bench":
		return "release"
	default:
		return c.Profile
	}
}

// Outputs are the files a successful run leaves in OutPath.
func (c *Config) Outputs() []string {
	return []string{
		filepath.Join(c.OutPath(), c.OutName+".js"),
		filepath.Join(c.OutPath(), c.OutName+"_bg.wasm"),
	}
}

// env returns the configured overlay as sorted KEY=VALUE pairs.
func (c *Config) env() []string {
	keys := make([]string, 0, len(c.Env))
	for k := range c.Env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+c.Env[k])
	}
	return out
}
