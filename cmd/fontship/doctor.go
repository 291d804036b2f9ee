// ABOUTME: The `fontship doctor` subcommand: checks the build config, crate layout and toolchain.
// ABOUTME: Reports every failing check at once instead of stopping at the first.
package main

import (
	"fmt"
	"io"

	"github.com/2389-research/fontship/webbuild"
)

type doctorConfig struct {
	configPath string
	skipSetup  bool
}

func parseDoctorArgs(args []string, stderr io.Writer) (doctorConfig, error) {
	var cfg doctorConfig
	fs := newFlagSet("doctor", "doctor [-config webbuild.yaml] [-skip-setup]", stderr)
	fs.StringVar(&cfg.configPath, "config", webbuild.DefaultConfigFile, "Pipeline config file")
	fs.BoolVar(&cfg.skipSetup, "skip-setup", false, "Do not require the setup tool")
	return cfg, parse(fs, args)
}

func runDoctor(cfg doctorConfig, stdout, stderr io.Writer) int {
	wcfg, err := webbuild.LoadConfig(cfg.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "%s %v\n", errorLabel.Render("error:"), err)
		return exitFailure
	}

	ctx, cancel := signalContext(stderr)
	defer cancel()

	res := webbuild.Preflight(ctx, wcfg, webbuild.Options{SkipSetup: cfg.skipSetup})
	for _, name := range res.Passed {
		fmt.Fprintf(stdout, "%s %s\n", okLabel.Render("ok  "), name)
	}
	for _, f := range res.Failed {
		fmt.Fprintf(stdout, "%s %s: %s\n", errorLabel.Render("FAIL"), f.Name, f.Reason)
	}
	if !res.OK() {
		fmt.Fprintf(stderr, "%d check(s) failed\n", len(res.Failed))
		return exitFailure
	}
	return exitOK
}
