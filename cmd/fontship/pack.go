// ABOUTME: The `fontship pack` and `fontship check` subcommands for font asset packages.
// ABOUTME: check validates a manifest and its includes; pack writes the archive and optional Go embed source.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/2389-research/fontship/manifest"
	"github.com/2389-research/fontship/pack"
)

type packConfig struct {
	manifestPath string
	outDir       string
	goSource     string
	goPackage    string
}

func parsePackArgs(args []string, stderr io.Writer) (packConfig, error) {
	var cfg packConfig
	fs := newFlagSet("pack", "pack [-manifest fontpack.yaml] [-out dir] [-go-source file -pkg name]", stderr)
	fs.StringVar(&cfg.manifestPath, "manifest", manifest.DefaultFile, "Package manifest")
	fs.StringVar(&cfg.outDir, "out", "", "Archive output directory (default: manifest directory)")
	fs.StringVar(&cfg.goSource, "go-source", "", "Also write a Go file embedding the fonts")
	fs.StringVar(&cfg.goPackage, "pkg", "fonts", "Package name for -go-source")
	return cfg, parse(fs, args)
}

func runPack(cfg packConfig, stdout, stderr io.Writer) int {
	m, err := manifest.Load(cfg.manifestPath)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitFailure
	}
	printDiagnostics(stderr, manifest.Validate(m), manifest.SeverityWarning)

	ctx, cancel := signalContext(stderr)
	defer cancel()

	// Render the embed source first so a bad -pkg fails before anything
	// is written.
	var src []byte
	if cfg.goSource != "" {
		if src, err = pack.GoSource(m, cfg.goPackage); err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return exitFailure
		}
	}

	root := filepath.Dir(cfg.manifestPath)
	res, err := pack.Build(ctx, m, root, pack.Options{OutDir: cfg.outDir})
	if err != nil {
		reportPackError(stderr, err)
		return exitFailure
	}

	if cfg.goSource != "" {
		if err := os.WriteFile(cfg.goSource, src, 0o644); err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return exitFailure
		}
		fmt.Fprintf(stderr, "wrote %s\n", cfg.goSource)
	}

	fmt.Fprintf(stderr, "%s %s (%d files, %d fonts)\n", okLabel.Render("packed"), m.ArchiveBase(), len(res.Entries), len(res.Fonts))
	fmt.Fprintln(stdout, res.Archive)
	return exitOK
}

type checkConfig struct {
	manifestPath string
}

func parseCheckArgs(args []string, stderr io.Writer) (checkConfig, error) {
	var cfg checkConfig
	fs := newFlagSet("check", "check [-manifest fontpack.yaml]", stderr)
	fs.StringVar(&cfg.manifestPath, "manifest", manifest.DefaultFile, "Package manifest")
	return cfg, parse(fs, args)
}

func runCheck(cfg checkConfig, stdout, stderr io.Writer) int {
	m, err := manifest.Load(cfg.manifestPath)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitFailure
	}

	diags := manifest.Validate(m)
	printDiagnostics(stdout, diags, manifest.SeverityInfo)
	failed := false
	for _, d := range diags {
		if d.Severity == manifest.SeverityError {
			failed = true
		}
	}

	fsys := os.DirFS(filepath.Dir(cfg.manifestPath))
	files, err := manifest.ResolveIncludes(fsys, m)
	if err != nil {
		reportPackError(stdout, err)
		failed = true
	} else if err := manifest.CheckFontFiles(fsys, m); err != nil {
		fmt.Fprintf(stdout, "%s %v\n", errorLabel.Render("[ERROR]"), err)
		failed = true
	}

	if failed {
		fmt.Fprintf(stderr, "%s %s\n", errorLabel.Render("invalid:"), cfg.manifestPath)
		return exitFailure
	}
	fmt.Fprintf(stderr, "%s %s (%d files)\n", okLabel.Render("ok:"), cfg.manifestPath, len(files))
	return exitOK
}

// printDiagnostics prints diagnostics at or above the given severity.
// Severities order from error (most severe) to info.
func printDiagnostics(w io.Writer, diags []manifest.Diagnostic, lowest manifest.Severity) {
	for _, d := range diags {
		if d.Severity > lowest {
			continue
		}
		label := warnLabel
		if d.Severity == manifest.SeverityError {
			label = errorLabel
		}
		fmt.Fprintln(w, label.Render(d.String()))
	}
}

func reportPackError(w io.Writer, err error) {
	var missing *manifest.MissingIncludeError
	if errors.As(err, &missing) {
		fmt.Fprintf(w, "%s declared paths missing from the package:\n", errorLabel.Render("error:"))
		for _, p := range missing.Patterns {
			fmt.Fprintf(w, "  - %s\n", p)
		}
		return
	}
	fmt.Fprintf(w, "%s %v\n", errorLabel.Render("error:"), err)
}
