// ABOUTME: The `fontship build` subcommand: runs the web build pipeline, optionally under the progress view.
// ABOUTME: Records every run in the run log and history index; exits with the failing tool's status.
package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/2389-research/fontship/tui"
	"github.com/2389-research/fontship/webbuild"
)

// buildConfig holds flags for the build subcommand.
type buildConfig struct {
	skipSetup  bool
	configPath string
	tuiMode    bool
	dryRun     bool
	dataDir    string
}

func parseBuildArgs(args []string, stderr io.Writer) (buildConfig, error) {
	var cfg buildConfig
	fs := newFlagSet("build", "build [--skip-setup] [flags]", stderr)
	fs.BoolVar(&cfg.skipSetup, "skip-setup", false, "Skip the environment setup step")
	fs.StringVar(&cfg.configPath, "config", webbuild.DefaultConfigFile, "Pipeline config file")
	fs.BoolVar(&cfg.tuiMode, "tui", false, "Show progress in an interactive terminal UI")
	fs.BoolVar(&cfg.dryRun, "dry-run", false, "Print the steps without running them")
	fs.StringVar(&cfg.dataDir, "data-dir", "", "Run history directory (default: $XDG_DATA_HOME/fontship)")
	return cfg, parse(fs, args)
}

func runBuild(cfg buildConfig, stdout, stderr io.Writer) int {
	wcfg, err := webbuild.LoadConfig(cfg.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitFailure
	}
	if err := wcfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitFailure
	}

	opts := webbuild.Options{SkipSetup: cfg.skipSetup, Stdout: stdout, Stderr: stderr}

	if cfg.dryRun {
		printPlan(stdout, webbuild.Plan(wcfg, opts))
		return exitOK
	}

	ctx, cancel := signalContext(stderr)
	defer cancel()

	runner := webbuild.NewRunner(nil)
	hist := openHistory(cfg.dataDir, stderr)
	defer hist.close()

	var recorder *webbuild.RunRecorder
	if hist.log != nil {
		recorder, err = hist.log.Start(wcfg.Crate, cfg.skipSetup)
		if err != nil {
			fmt.Fprintf(stderr, "warning: could not record run: %v\n", err)
		} else {
			runner.EventHandler = recorder.Handle
		}
	}

	var result *webbuild.Result
	var runErr error
	if cfg.tuiMode {
		result, runErr = tui.Run(ctx, runner, wcfg, opts)
	} else {
		result, runErr = runner.Run(ctx, wcfg, opts)
	}

	if recorder != nil {
		rec, err := recorder.Finish(runErr)
		if err != nil {
			fmt.Fprintf(stderr, "warning: run log incomplete: %v\n", err)
		}
		hist.record(rec, stderr)
		log.Printf("component=cli action=build run_id=%s status=%s", rec.RunID, rec.Status)
	}

	if runErr != nil {
		fmt.Fprintf(stderr, "%s %v\n", errorLabel.Render("build failed:"), runErr)
		return buildExitCode(runErr)
	}

	fmt.Fprintf(stderr, "%s %s in %s\n", okLabel.Render("built"), wcfg.Crate, result.Duration.Round(time.Millisecond))
	for _, out := range result.Outputs {
		fmt.Fprintf(stdout, "%s\n", relPath(out))
	}
	return exitOK
}

// buildExitCode is the failing step's exit status, or 1.
func buildExitCode(err error) int {
	var stepErr *webbuild.StepError
	if errors.As(err, &stepErr) && stepErr.ExitCode > 0 {
		return stepErr.ExitCode
	}
	return exitFailure
}

func printPlan(w io.Writer, plan []webbuild.PlannedStep) {
	for i, ps := range plan {
		switch {
		case ps.Skipped:
			fmt.Fprintf(w, "%d. %-8s (skipped)\n", i+1, ps.Step)
		case ps.Command != nil:
			fmt.Fprintf(w, "%d. %-8s %s\n", i+1, ps.Step, ps.Command)
		default:
			fmt.Fprintf(w, "%d. %-8s rm -f", i+1, ps.Step)
			for _, p := range ps.Remove {
				fmt.Fprintf(w, " %s", relPath(p))
			}
			fmt.Fprintln(w)
		}
	}
}

// relPath shortens p relative to the working directory when it is inside it.
func relPath(p string) string {
	abs, err := filepath.Abs(".")
	if err != nil {
		return p
	}
	rel, err := filepath.Rel(abs, p)
	if err != nil || strings.HasPrefix(rel, "..") {
		return p
	}
	return rel
}
