package batch

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/arjunmahishi/qmlfix/qmlfix"
)

// FileResult is the outcome of processing one file.
type FileResult struct {
	Job      FileJob
	Original string
	Result   qmlfix.Result
	Written  bool
	Err      error
}

// Observer is notified as the pipeline moves through the batch.
type Observer interface {
	FileStarted(job FileJob)
	FileDone(r FileResult)
}

// PipelineOptions configures a Pipeline.
type PipelineOptions struct {
	// DryRun computes results without saving anything.
	DryRun bool

	// Observer receives per-file progress. May be nil.
	Observer Observer

	// Logger receives debug and error records. Defaults to slog.Default().
	Logger *slog.Logger
}

// Pipeline runs a Qualifier over a batch of files, one file at a time.
type Pipeline struct {
	q     *qmlfix.Qualifier
	store Store
	opts  PipelineOptions
}

// NewPipeline creates a Pipeline.
func NewPipeline(q *qmlfix.Qualifier, store Store, opts PipelineOptions) *Pipeline {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Pipeline{q: q, store: store, opts: opts}
}

// Run processes jobs in order and returns the folded stats. A failing file
// is recorded and the batch continues. Cancellation stops the run between
// files and returns the stats so far together with the context error.
func (p *Pipeline) Run(ctx context.Context, jobs []FileJob) (Stats, error) {
	var stats Stats
	for _, job := range jobs {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		if p.opts.Observer != nil {
			p.opts.Observer.FileStarted(job)
		}

		r := p.processFile(ctx, job)
		stats = stats.Add(r)

		if p.opts.Observer != nil {
			p.opts.Observer.FileDone(r)
		}
	}
	return stats, nil
}

func (p *Pipeline) processFile(ctx context.Context, job FileJob) FileResult {
	log := p.opts.Logger.With(slog.String("file", job.DisplayPath))
	r := FileResult{Job: job}

	data, err := p.store.Load(ctx, job.AbsPath)
	if err != nil {
		log.Error("load failed", slog.Any("error", err))
		r.Err = err
		return r
	}
	r.Original = string(data)

	res, err := p.q.Process(r.Original)
	if err != nil {
		log.Error("process failed", slog.Any("error", err))
		r.Err = fmt.Errorf("process: %w", err)
		return r
	}
	r.Result = res

	log.Debug("processed",
		slog.Bool("changed", res.Changed),
		slog.Bool("id_added", res.IDAdded),
		slog.Int("symbols", res.Symbols.Len()),
		slog.Int("rewrites", len(res.Rewrites)),
		slog.Int("exclusions", len(res.Exclusions)),
		slog.String("skipped", string(res.Skipped)),
	)

	if !res.Changed || p.opts.DryRun {
		return r
	}
	if err := p.store.Save(ctx, job.AbsPath, []byte(res.Text)); err != nil {
		log.Error("save failed", slog.Any("error", err))
		r.Err = err
		return r
	}
	r.Written = true
	return r
}
