// ABOUTME: The `fontship serve` subcommand: previews a built web bundle over HTTP.
// ABOUTME: Serves until interrupted, then shuts the server down gracefully.
package main

import (
	"fmt"
	"io"

	"github.com/2389-research/fontship/serve"
)

type serveConfig struct {
	dir  string
	host string
	port int
}

func parseServeArgs(args []string, stderr io.Writer) (serveConfig, error) {
	var cfg serveConfig
	fs := newFlagSet("serve", "serve [-dir .] [-port 8765]", stderr)
	fs.StringVar(&cfg.dir, "dir", ".", "Bundle directory to serve")
	fs.StringVar(&cfg.host, "host", "127.0.0.1", "Listen host")
	fs.IntVar(&cfg.port, "port", serve.DefaultPort, "Listen port")
	if err := parse(fs, args); err != nil {
		return cfg, err
	}
	if cfg.port < 1 || cfg.port > 65535 {
		return cfg, &usageError{msg: fmt.Sprintf("invalid port %d", cfg.port)}
	}
	return cfg, nil
}

func runServe(cfg serveConfig, stdout, stderr io.Writer) int {
	srv, err := serve.New(serve.Config{Dir: cfg.dir, Addr: fmt.Sprintf("%s:%d", cfg.host, cfg.port)})
	if err != nil {
		fmt.Fprintf(stderr, "%s %v\n", errorLabel.Render("error:"), err)
		return exitFailure
	}

	ctx, cancel := signalContext(stderr)
	defer cancel()

	fmt.Fprintf(stdout, "serving %s on http://%s\n", cfg.dir, srv.Addr())
	if err := srv.ListenAndServe(ctx); err != nil {
		fmt.Fprintf(stderr, "%s %v\n", errorLabel.Render("error:"), err)
		return exitFailure
	}
	return exitOK
}
