// ABOUTME: The `fontship history` subcommand and the run-history plumbing shared with `build`.
// ABOUTME: Runs live in <data-dir>/runs; history.db is a SQLite index rebuilt from them on demand.
package main

import (
	"fmt"
	"io"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/2389-research/fontship/webbuild"
)

type historyConfig struct {
	limit   int
	rebuild bool
	dataDir string
}

func parseHistoryArgs(args []string, stderr io.Writer) (historyConfig, error) {
	var cfg historyConfig
	fs := newFlagSet("history", "history [-n N] [-rebuild]", stderr)
	fs.IntVar(&cfg.limit, "n", 20, "Number of runs to show (0 for all)")
	fs.BoolVar(&cfg.rebuild, "rebuild", false, "Rebuild the index from the run directories first")
	fs.StringVar(&cfg.dataDir, "data-dir", "", "Run history directory (default: $XDG_DATA_HOME/fontship)")
	return cfg, parse(fs, args)
}

// history bundles the run log and its index. Either may be nil when the
// data dir cannot be used; callers degrade to not recording.
type history struct {
	log   *webbuild.RunLog
	index *webbuild.HistoryIndex
}

func openHistory(flagDir string, stderr io.Writer) *history {
	h := &history{}
	dataDir, err := resolveDataDir(flagDir)
	if err != nil {
		fmt.Fprintf(stderr, "warning: could not resolve data dir: %v\n", err)
		return h
	}
	if h.log, err = webbuild.OpenRunLog(filepath.Join(dataDir, "runs")); err != nil {
		fmt.Fprintf(stderr, "warning: could not open run log: %v\n", err)
		return h
	}
	if h.index, err = webbuild.OpenHistory(filepath.Join(dataDir, "history.db")); err != nil {
		fmt.Fprintf(stderr, "warning: could not open history index: %v\n", err)
	}
	return h
}

func (h *history) record(rec webbuild.RunRecord, stderr io.Writer) {
	if h.index == nil {
		return
	}
	if err := h.index.Record(rec); err != nil {
		fmt.Fprintf(stderr, "warning: could not index run: %v\n", err)
	}
}

func (h *history) close() {
	if h.index != nil {
		_ = h.index.Close()
	}
}

func runHistory(cfg historyConfig, stdout, stderr io.Writer) int {
	h := openHistory(cfg.dataDir, stderr)
	defer h.close()
	if h.log == nil || h.index == nil {
		fmt.Fprintln(stderr, "error: run history unavailable")
		return exitFailure
	}

	if cfg.rebuild {
		n, err := h.index.Rebuild(h.log)
		if err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return exitFailure
		}
		fmt.Fprintf(stderr, "indexed %d run(s)\n", n)
	}

	recs, err := h.index.List(cfg.limit)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitFailure
	}
	if len(recs) == 0 {
		fmt.Fprintln(stderr, "no runs recorded")
		return exitOK
	}

	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tSTARTED\tCRATE\tSTATUS\tDURATION\tDETAIL")
	for _, r := range recs {
		duration := "-"
		if r.FinishedAt != nil {
			duration = r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond).String()
		}
		detail := ""
		if r.Status == webbuild.RunFailed {
			detail = fmt.Sprintf("%s exit %d", r.FailedStep, r.ExitCode)
		} else if r.SkipSetup {
			detail = "setup skipped"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.RunID, r.StartedAt.Local().Format("2006-01-02 15:04:05"), r.Crate, r.Status, duration, detail)
	}
	if err := tw.Flush(); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitFailure
	}
	return exitOK
}
