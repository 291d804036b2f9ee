// ABOUTME: Shared flag-set construction for subcommands, in the ContinueOnError style.
// ABOUTME: Help requests exit 0; every other parse problem is a usage error with exit code 2.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
)

// errHelp marks a -h/-help request; it exits 0.
var errHelp = errors.New("help requested")

// usageError is a bad command line; it exits 2.
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

func newFlagSet(name, usage string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("fontship "+name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: fontship %s\n\n", usage)
		fmt.Fprintln(stderr, "Flags:")
		fs.PrintDefaults()
	}
	return fs
}

// parse parses args and rejects positional arguments.
func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return errHelp
		}
		return &usageError{msg: err.Error()}
	}
	if fs.NArg() > 0 {
		fs.Usage()
		return &usageError{msg: fmt.Sprintf("unexpected argument %q", fs.Arg(0))}
	}
	return nil
}

func usageExit(err error) int {
	if errors.Is(err, errHelp) {
		return exitOK
	}
	return exitUsage
}
