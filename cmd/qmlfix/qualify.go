package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/arjunmahishi/qmlfix/batch"
	"github.com/arjunmahishi/qmlfix/config"
	"github.com/arjunmahishi/qmlfix/output"
	"github.com/arjunmahishi/qmlfix/qmlfix"
	"github.com/urfave/cli/v3"
)

func qualifyCommand() *cli.Command {
	return &cli.Command{
		Name:      "qualify",
		Usage:     "add a root id and qualify unqualified root member access",
		ArgsUsage: "<directory>",
		Description: "Runs in dry-run mode unless --no-dry-run is given.\n\n" +
			"Examples:\n" +
			"  qmlfix qualify ui                    # preview changes\n" +
			"  qmlfix qualify --diff ui             # preview as unified diffs\n" +
			"  qmlfix qualify --no-dry-run ui       # rewrite files\n" +
			"  qmlfix qualify --ids-only --limit 5 ui",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "no-dry-run",
				Usage: "actually modify files",
			},
			&cli.StringFlag{
				Name:  "pattern",
				Usage: "doublestar pattern of files to process (default from config: **/*.qml)",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "limit number of files to process",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "list symbols and every rewrite",
			},
			&cli.BoolFlag{
				Name:  "diff",
				Usage: "print unified diffs in dry-run mode",
			},
			&cli.BoolFlag{
				Name:  "ids-only",
				Usage: "only add missing root ids",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "print results as JSON",
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "configuration file (default: <directory>/.qmlfix.yaml if present)",
			},
		},
		Action: runQualify,
	}
}

// fileReport is the JSON form of one processed file.
type fileReport struct {
	Path       string             `json:"path"`
	Changed    bool               `json:"changed"`
	Written    bool               `json:"written"`
	IDAdded    bool               `json:"id_added"`
	Prefix     string             `json:"prefix,omitempty"`
	Skipped    qmlfix.SkipReason  `json:"skipped,omitempty"`
	Rewrites   []qmlfix.Rewrite   `json:"rewrites,omitempty"`
	Exclusions []qmlfix.Exclusion `json:"exclusions,omitempty"`
	Error      string             `json:"error,omitempty"`
}

// qualifyReport is the JSON document printed by qualify --json.
type qualifyReport struct {
	Directory string       `json:"directory"`
	Pattern   string       `json:"pattern"`
	DryRun    bool         `json:"dry_run"`
	Config    string       `json:"config,omitempty"`
	Files     []fileReport `json:"files"`
	Stats     batch.Stats  `json:"stats"`
}

// collector gathers file reports for JSON output.
type collector struct {
	verbose bool
	files   []fileReport
}

func (c *collector) FileStarted(batch.FileJob) {}

func (c *collector) FileDone(fr batch.FileResult) {
	rep := fileReport{
		Path:     fr.Job.DisplayPath,
		Changed:  fr.Result.Changed,
		Written:  fr.Written,
		IDAdded:  fr.Result.IDAdded,
		Prefix:   fr.Result.Prefix,
		Skipped:  fr.Result.Skipped,
		Rewrites: fr.Result.Rewrites,
	}
	if c.verbose {
		rep.Exclusions = fr.Result.Exclusions
	}
	if fr.Err != nil {
		rep.Error = fr.Err.Error()
	}
	c.files = append(c.files, rep)
}

func runQualify(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() != 1 {
		return preconditionError{errors.New("qualify requires exactly one directory argument")}
	}
	dir := cmd.Args().First()

	absDir, err := batch.ValidateRoot(dir)
	if err != nil {
		return preconditionError{err}
	}

	cfg, cfgFile, err := config.Resolve(cmd.String("config"), absDir)
	if err != nil {
		return preconditionError{err}
	}
	if cmd.IsSet("pattern") {
		cfg.Pattern = cmd.String("pattern")
		if err := cfg.Validate(); err != nil {
			return preconditionError{err}
		}
	}

	opts := cfg.QualifierOptions()
	opts.IDsOnly = cmd.Bool("ids-only")
	q, err := qmlfix.New(opts)
	if err != nil {
		return preconditionError{fmt.Errorf("config: %w", err)}
	}

	limit := cmd.Int("limit")
	jobs, err := batch.NewScanner(batch.ScannerConfig{
		Root:       absDir,
		Pattern:    cfg.Pattern,
		IgnoreDirs: cfg.IgnoreDirSet(),
		MaxBytes:   cfg.MaxBytes,
		Limit:      limit,
	}).Collect()
	if err != nil {
		return err
	}

	verbose := cmd.Bool("verbose")
	dryRun := !cmd.Bool("no-dry-run")
	w := cmd.Root().Writer
	logger := newLogger(cmd.Root().ErrWriter, verbose)
	logger.Debug("qualify",
		"dir", absDir,
		"pattern", cfg.Pattern,
		"files", len(jobs),
		"dry_run", dryRun,
		"config", cfgFile,
	)

	if cmd.Bool("json") {
		col := &collector{verbose: verbose}
		p := batch.NewPipeline(q, batch.NewFileStore(), batch.PipelineOptions{
			DryRun:   dryRun,
			Observer: col,
			Logger:   logger,
		})
		stats, err := p.Run(ctx, jobs)
		if err != nil {
			return err
		}
		return output.New(output.Config{Output: w}).Write(qualifyReport{
			Directory: dir,
			Pattern:   cfg.Pattern,
			DryRun:    dryRun,
			Config:    cfgFile,
			Files:     col.files,
			Stats:     stats,
		})
	}

	rep := batch.NewReporter(w, batch.ReportOptions{
		Verbose: verbose,
		Diff:    cmd.Bool("diff"),
		DryRun:  dryRun,
		Color:   isTerminal(w),
	})
	rep.Header(dir, cfg.Pattern, limit, cfgFile)
	rep.Found(len(jobs))

	p := batch.NewPipeline(q, batch.NewFileStore(), batch.PipelineOptions{
		DryRun:   dryRun,
		Observer: rep,
		Logger:   logger,
	})
	stats, err := p.Run(ctx, jobs)
	rep.Summary(stats)
	return err
}
