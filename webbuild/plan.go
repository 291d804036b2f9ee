// ABOUTME: Translates a Config into the fixed, ordered list of pipeline steps.
// ABOUTME: Tool steps carry the command to run; file steps carry the paths they remove.
package webbuild

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Step names one stage of the pipeline.
type Step string

const (
	StepSetup   Step = "setup"
	StepCompile Step = "compile"
	StepClear   Step = "clear"
	StepBindgen Step = "bindgen"
	StepCleanup Step = "cleanup"
)

// Steps lists every step in execution order.
var Steps = []Step{StepSetup, StepCompile, StepClear, StepBindgen, StepCleanup}

// Command is one external tool invocation.
type Command struct {
	Name string
	Args []string
	Dir  string
	Env  []string // KEY=VALUE pairs overlaid on the parent environment
}

// String renders the command for logs and dry runs.
func (c Command) String() string {
	parts := make([]string, 0, len(c.Args)+1)
	for _, p := range append([]string{c.Name}, c.Args...) {
		if p == "" || strings.ContainsAny(p, " \t\"'$") {
			p = fmt.Sprintf("%q", p)
		}
		parts = append(parts, p)
	}
	return strings.Join(parts, " ")
}

// PlannedStep is a step as it would execute for a given config.
type PlannedStep struct {
	Step    Step
	Command *Command // nil for file steps
	Remove  []string // paths deleted by file steps; absent paths are fine
	Skipped bool
}

// Plan returns the steps Run would execute, in order. A skipped setup step
// is still listed so callers can show it.
func Plan(cfg *Config, opts Options) []PlannedStep {
	out := cfg.OutPath()
	env := cfg.env()

	var setup *Command
	if len(cfg.Setup) > 0 {
		setup = &Command{Name: cfg.Setup[0], Args: cfg.Setup[1:], Dir: cfg.baseDir(), Env: env}
	}

	return []PlannedStep{
		{
			Step:    StepSetup,
			Command: setup,
			Skipped: opts.SkipSetup || setup == nil,
		},
		{
			Step:    StepCompile,
			Command: &Command{Name: cfg.Cargo, Args: compileArgs(cfg), Dir: cfg.CratePath(), Env: env},
		},
		{
			Step:   StepClear,
			Remove: cfg.Outputs(),
		},
		{
			Step: StepBindgen,
			Command: &Command{
				Name: cfg.Bindgen,
				Args: []string{
					cfg.ArtifactPath(),
					"--target", cfg.BindgenTarget,
					"--no-typescript",
					"--out-dir", out,
					"--out-name", cfg.OutName,
				},
				Dir: cfg.baseDir(),
				Env: env,
			},
		},
		{
			Step:   StepCleanup,
			Remove: cleanupPaths(cfg),
		},
	}
}

func compileArgs(cfg *Config) []string {
	args := []string{"build", "-p", cfg.Crate, "--lib", "--target", cfg.Target}
	switch cfg.Profile {
	case "release":
		args = append(args, "--release")
	case "dev":
	default:
		args = append(args, "--profile", cfg.Profile)
	}
	if cfg.TargetDir != "target" {
		args = append(args, "--target-dir", cfg.resolve(cfg.CratePath(), cfg.TargetDir))
	}
	if cfg.NoDefaultFeatures != nil && *cfg.NoDefaultFeatures {
		args = append(args, "--no-default-features")
	}
	if len(cfg.Features) > 0 {
		args = append(args, "--features", strings.Join(cfg.Features, ","))
	}
	return args
}

// cleanupPaths lists the intermediate artifact in the target and output
// directories, then each unwanted glue file.
func cleanupPaths(cfg *Config) []string {
	paths := []string{
		cfg.ArtifactPath(),
		filepath.Join(cfg.OutPath(), cfg.ArtifactName()),
	}
	for _, name := range cfg.Unwanted {
		paths = append(paths, filepath.Join(cfg.OutPath(), name))
	}
	return paths
}
