package render

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/handiism/static-gallery/internal/logging"
	"github.com/handiism/static-gallery/internal/model"
	"golang.org/x/sync/errgroup"
)

// Codec produces artifacts from source photographs.
type Codec interface {
	Resize(ctx context.Context, src, dst string, res model.Resolution, quality int, method string) error
	Recode(ctx context.Context, src, dst string, quality int) error
}

// Event reports the outcome of a single job. Err is nil on success.
type Event struct {
	Job Job
	Err error
}

// Observer is notified after every finished job. It is called from the
// worker goroutines and must be safe for concurrent use.
type Observer func(Event)

// Options configures an Engine.
type Options struct {
	// Concurrency is the number of workers. Values below 1 mean 1.
	Concurrency int

	// Quality is the JPEG quality of every artifact.
	Quality int

	// Method names the resize filter.
	Method string

	Logger   *slog.Logger
	Observer Observer
}

// Failure is a job that could not be completed.
type Failure struct {
	Job Job
	Err error
}

func (f Failure) Error() string {
	return fmt.Sprintf("render %s of %s: %v", f.Job.Kind, f.Job.Source, f.Err)
}

func (f Failure) Unwrap() error {
	return f.Err
}

// Report summarizes a run.
type Report struct {
	// Planned is the number of jobs handed to Run.
	Planned int

	// Completed is the number of jobs that succeeded.
	Completed int

	Failures []Failure
}

// Skipped returns the number of jobs that were never started because the
// run was cancelled.
func (r Report) Skipped() int {
	return r.Planned - r.Completed - len(r.Failures)
}

// FailedIdentities returns the identities with at least one failed job, in
// the order of their first failure.
func (r Report) FailedIdentities() []uint64 {
	seen := make(map[uint64]bool, len(r.Failures))
	ids := make([]uint64, 0, len(r.Failures))
	for _, f := range r.Failures {
		if seen[f.Job.Identity] {
			continue
		}
		seen[f.Job.Identity] = true
		ids = append(ids, f.Job.Identity)
	}
	return ids
}

// Progress is a snapshot of a running engine. The counters are read
// independently and may be momentarily inconsistent with each other.
type Progress struct {
	Pending int
	Active  int
	Done    int
	Total   int
}

// Percent returns the finished share of all jobs in the range 0-100.
func (p Progress) Percent() float64 {
	if p.Total == 0 {
		return 100
	}
	return float64(p.Done) / float64(p.Total) * 100
}

// Engine renders jobs on a fixed pool of workers.
type Engine struct {
	codec  Codec
	opts   Options
	logger *slog.Logger

	total  atomic.Int64
	active atomic.Int64
	done   atomic.Int64
}

// NewEngine creates an Engine rendering through codec.
func NewEngine(codec Codec, opts Options) *Engine {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	return &Engine{
		codec:  codec,
		opts:   opts,
		logger: logging.OrDiscard(opts.Logger),
	}
}

// Run executes jobs and returns once every started job has finished.
//
// A failing job is recorded and never stops the other workers. Cancelling
// ctx stops handing out new jobs; jobs already started run to completion and
// the rest are counted as skipped.
func (e *Engine) Run(ctx context.Context, jobs []Job) Report {
	e.total.Store(int64(len(jobs)))
	e.active.Store(0)
	e.done.Store(0)

	report := Report{Planned: len(jobs)}
	if len(jobs) == 0 {
		return report
	}

	workers := min(e.opts.Concurrency, len(jobs))
	queue := make(chan Job)
	failures := make([][]Failure, workers)
	completed := make([]int, workers)

	var g errgroup.Group
	for w := range workers {
		g.Go(func() error {
			for job := range queue {
				if err := e.execute(job); err != nil {
					failures[w] = append(failures[w], Failure{Job: job, Err: err})
					continue
				}
				completed[w]++
			}
			return nil
		})
	}

	g.Go(func() error {
		defer close(queue)
		for i, job := range jobs {
			if ctx.Err() != nil {
				e.logger.Warn("rendering interrupted", "skipped", len(jobs)-i)
				return nil
			}
			select {
			case <-ctx.Done():
				e.logger.Warn("rendering interrupted", "skipped", len(jobs)-i)
				return nil
			case queue <- job:
			}
		}
		return nil
	})

	_ = g.Wait()

	for w := range workers {
		report.Completed += completed[w]
		report.Failures = append(report.Failures, failures[w]...)
	}
	return report
}

// Progress returns the current progress of Run.
func (e *Engine) Progress() Progress {
	total := int(e.total.Load())
	active := int(e.active.Load())
	done := int(e.done.Load())
	return Progress{
		Pending: max(0, total-active-done),
		Active:  active,
		Done:    done,
		Total:   total,
	}
}

func (e *Engine) execute(job Job) error {
	e.active.Add(1)
	defer func() {
		e.active.Add(-1)
		e.done.Add(1)
	}()

	e.logger.Debug("rendering", "kind", job.Kind, "source", job.Source, "target", job.Target)

	// Started jobs finish even when the run is cancelled, so the codec
	// never sees the caller's context.
	var err error
	switch job.Kind {
	case KindFull:
		err = e.codec.Recode(context.Background(), job.Source, job.Target, e.opts.Quality)
	default:
		err = e.codec.Resize(context.Background(), job.Source, job.Target, job.Resolution, e.opts.Quality, e.opts.Method)
	}

	if err != nil {
		e.logger.Error("render failed",
			"kind", job.Kind,
			"source", job.Source,
			"collection", job.Collection,
			"error", err,
		)
	}

	if e.opts.Observer != nil {
		e.opts.Observer(Event{Job: job, Err: err})
	}
	return err
}
