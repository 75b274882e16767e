package gallery

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	ioutils "github.com/handiism/static-gallery/internal/io"
	"github.com/handiism/static-gallery/internal/model"
	"github.com/handiism/static-gallery/internal/render"
)

// Runner executes render jobs. *render.Engine implements it.
type Runner interface {
	Run(ctx context.Context, jobs []render.Job) render.Report
}

// ArtifactDir returns the directory holding the artifacts of the gallery in
// outputDir.
func ArtifactDir(outputDir string) string {
	return filepath.Join(outputDir, model.ArtifactDir)
}

// RenderAll renders every missing artifact of the gallery into outputDir.
//
// Images with a failed job are removed from the gallery. Images whose
// artifacts are all present afterwards are marked as rendered. When ctx is
// cancelled before every job was started the report is returned together
// with the context error.
func (g *Gallery) RenderAll(ctx context.Context, outputDir string, runner Runner) (render.Report, error) {
	dir := ArtifactDir(outputDir)
	if err := ioutils.EnsureDir(dir); err != nil {
		return render.Report{}, fmt.Errorf("create artifact directory: %w", err)
	}

	logger := g.logger()
	jobs := render.Plan(g.OrderedCollections(), dir, g.Resolutions())
	logger.Info("rendering", "jobs", len(jobs))

	report := runner.Run(ctx, jobs)

	g.removeFailed(report.Failures)

	g.markRendered(dir)

	logger.Info("rendering finished",
		"completed", report.Completed,
		"failed", len(report.Failures),
		"skipped", report.Skipped(),
	)

	if report.Skipped() > 0 {
		return report, fmt.Errorf("rendering interrupted: %w", ctx.Err())
	}
	return report, nil
}

// removeFailed drops every image with a failed job. Only the role of the
// failing job is affected: a failed background leaves a picture with the
// same identity in place, and the other way round.
func (g *Gallery) removeFailed(failures []render.Failure) {
	type role struct {
		id         uint64
		background bool
	}
	done := map[role]bool{}

	logger := g.logger()
	for _, f := range failures {
		r := role{id: f.Job.Identity, background: f.Job.Kind == render.KindBackground}
		if done[r] {
			continue
		}
		done[r] = true

		removed := 0
		for _, col := range g.OrderedCollections() {
			if r.background {
				removed += col.RemoveBackgrounds(r.id)
			} else {
				removed += col.RemovePictures(r.id)
			}
		}
		logger.Warn("removed image that failed to render",
			"identity", r.id,
			"kind", f.Job.Kind,
			"occurrences", removed,
		)
	}
}

// markRendered clears NeedsRender on every image whose artifacts exist in
// dir.
func (g *Gallery) markRendered(dir string) {
	exists := func(id uint64, kinds ...render.Kind) bool {
		for _, k := range kinds {
			if _, err := os.Stat(render.ArtifactPath(dir, id, k)); err != nil {
				return false
			}
		}
		return true
	}

	for _, col := range g.OrderedCollections() {
		for i := range col.Backgrounds {
			bg := &col.Backgrounds[i]
			if bg.NeedsRender && exists(bg.Identity, render.KindBackground) {
				bg.NeedsRender = false
			}
		}
		for i := range col.Pictures {
			pic := &col.Pictures[i]
			if pic.NeedsRender && exists(pic.Identity, render.PictureKinds...) {
				pic.NeedsRender = false
			}
		}
	}
}
