package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"

	"github.com/arjunmahishi/qmlfix/output"
	"github.com/arjunmahishi/qmlfix/qmldir"
	"github.com/urfave/cli/v3"
)

func lintCommand() *cli.Command {
	return &cli.Command{
		Name:      "lint-qmldir",
		Usage:     "check qmldir manifests against the files they list",
		ArgsUsage: "<qmldir> [<qmldir>...]",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "jobs",
				Aliases: []string{"j"},
				Value:   runtime.NumCPU(),
				Usage:   "number of manifests linted in parallel",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "print reports as JSON",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "log debug details to stderr",
			},
		},
		Action: runLint,
	}
}

func runLint(ctx context.Context, cmd *cli.Command) error {
	paths := cmd.Args().Slice()
	if len(paths) == 0 {
		return preconditionError{errors.New("lint-qmldir requires at least one qmldir path")}
	}

	linter := qmldir.NewLinter(newLogger(cmd.Root().ErrWriter, cmd.Bool("verbose")))
	reports, err := linter.LintFiles(ctx, paths, cmd.Int("jobs"))
	if err != nil {
		return err
	}

	w := cmd.Root().Writer
	if cmd.Bool("json") {
		if err := output.New(output.Config{Output: w}).Write(reports); err != nil {
			return err
		}
	} else {
		writeLintText(w, reports)
	}

	failed := 0
	for _, r := range reports {
		if !r.OK() {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d manifests failed validation", failed, len(reports))
	}
	return nil
}

func writeLintText(w io.Writer, reports []qmldir.Report) {
	for _, r := range reports {
		fmt.Fprintf(w, "Validating %s...\n", r.Path)
		if r.OK() {
			fmt.Fprintln(w, "✅ Valid")
			continue
		}
		fmt.Fprintf(w, "❌ Validation FAILED for %s:\n", r.Path)
		for _, f := range r.Findings {
			fmt.Fprintf(w, "  - %s\n", f)
		}
	}
}
