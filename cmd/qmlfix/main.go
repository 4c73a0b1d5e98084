package main

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/arjunmahishi/qmlfix/output"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v3"
)

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		output.WriteError(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "qmlfix",
		Usage: "qualify root member access in QML files",
		Commands: []*cli.Command{
			qualifyCommand(),
			lintCommand(),
			symbolsCommand(),
			defaultConfigCommand(),
		},
	}
}

// newLogger returns a text logger on w. Verbose runs log at debug level,
// otherwise only warnings and errors are shown.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// preconditionError marks failures detected before any file is touched.
type preconditionError struct {
	err error
}

func (e preconditionError) Error() string { return e.err.Error() }
func (e preconditionError) Unwrap() error { return e.err }
func (e preconditionError) Kind() string  { return "precondition" }
