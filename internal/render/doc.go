// Package render turns gallery images into artifacts on a bounded pool of
// workers.
//
// # Planning
//
// Plan walks the collections of a gallery and lists one Job per missing
// artifact:
//
//   - Pictures get a thumbnail, a display and a full-size artifact
//   - Backgrounds get a single background artifact
//
// Artifacts that already exist on disk are never planned again, which makes
// repeated runs over the same output directory cheap.
//
// # Basic Usage
//
//	jobs := render.Plan(collections, "out/p", resolutions)
//
//	engine := render.NewEngine(ioutils.NewImageService(), render.Options{
//	    Concurrency: runtime.NumCPU(),
//	    Quality:     75,
//	    Method:      "lanczos3",
//	    Logger:      logger,
//	})
//	report := engine.Run(ctx, jobs)
//
//	for _, f := range report.Failures {
//	    // drop f.Job.Identity from the gallery
//	}
//
// # Concurrency
//
// Run starts Options.Concurrency workers that pull jobs from a shared
// queue. Each worker records its own failures; the lists are merged once all
// workers have stopped, so the report needs no locking.
//
// # Progress Tracking
//
// Progress can be polled from any goroutine while Run is active:
//
//	p := engine.Progress()
//	fmt.Printf("%.0f%% (%d/%d)\n", p.Percent(), p.Done, p.Total)
//
// An Observer in Options is additionally called after every job.
package render
