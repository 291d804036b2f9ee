// ABOUTME: CLI entrypoint for fontship: font packaging, the web build pipeline, and their supporting tools.
// ABOUTME: Dispatches subcommands, each with its own flag set, and maps failures to exit codes.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
)

var version = "dev"

// Exit codes shared by every subcommand. A failing build step exits with
// the tool's own status instead of exitFailure.
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	loadDotEnv(".env")
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run dispatches args to a subcommand and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		printHelp(stderr, version)
		return exitUsage
	}

	switch args[0] {
	case "build":
		cfg, err := parseBuildArgs(args[1:], stderr)
		if err != nil {
			return usageExit(err)
		}
		return runBuild(cfg, stdout, stderr)
	case "pack":
		cfg, err := parsePackArgs(args[1:], stderr)
		if err != nil {
			return usageExit(err)
		}
		return runPack(cfg, stdout, stderr)
	case "check":
		cfg, err := parseCheckArgs(args[1:], stderr)
		if err != nil {
			return usageExit(err)
		}
		return runCheck(cfg, stdout, stderr)
	case "fonts":
		cfg, err := parseFontsArgs(args[1:], stderr)
		if err != nil {
			return usageExit(err)
		}
		return runFonts(cfg, stdout, stderr)
	case "doctor":
		cfg, err := parseDoctorArgs(args[1:], stderr)
		if err != nil {
			return usageExit(err)
		}
		return runDoctor(cfg, stdout, stderr)
	case "history":
		cfg, err := parseHistoryArgs(args[1:], stderr)
		if err != nil {
			return usageExit(err)
		}
		return runHistory(cfg, stdout, stderr)
	case "serve":
		cfg, err := parseServeArgs(args[1:], stderr)
		if err != nil {
			return usageExit(err)
		}
		return runServe(cfg, stdout, stderr)
	case "version", "-version", "--version":
		fmt.Fprintf(stdout, "fontship %s\n", version)
		return exitOK
	case "help", "-h", "-help", "--help":
		printHelp(stdout, version)
		return exitOK
	default:
		fmt.Fprintf(stderr, "error: unknown command %q\n\n", args[0])
		printHelp(stderr, version)
		return exitUsage
	}
}

// signalContext returns a context canceled on SIGINT or SIGTERM.
func signalContext(stderr io.Writer) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigChan:
			fmt.Fprintln(stderr, "\nInterrupted, shutting down...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigChan)
	}()
	return ctx, cancel
}
