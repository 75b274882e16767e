package render

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/handiism/static-gallery/internal/model"
)

// Kind identifies which artifact a job produces.
type Kind int

const (
	KindThumbnail Kind = iota
	KindDisplay
	KindFull
	KindBackground
)

// String returns the kind name used in logs.
func (k Kind) String() string {
	switch k {
	case KindThumbnail:
		return "thumbnail"
	case KindDisplay:
		return "display"
	case KindFull:
		return "full"
	case KindBackground:
		return "background"
	default:
		return "unknown"
	}
}

// Suffix returns the file name suffix of the artifact, including the
// extension.
func (k Kind) Suffix() string {
	switch k {
	case KindThumbnail:
		return ".thumb." + model.Extension
	case KindDisplay:
		return ".disp." + model.Extension
	case KindBackground:
		return ".bg." + model.Extension
	default:
		return "." + model.Extension
	}
}

// PictureKinds are the artifacts rendered for every picture.
var PictureKinds = []Kind{KindThumbnail, KindDisplay, KindFull}

// ArtifactPath returns the path of the artifact of kind k for identity id
// inside the artifact directory dir.
//
// Example:
//
//	ArtifactPath("out/p", 42, KindThumbnail) // Returns "out/p/42.thumb.jpg"
func ArtifactPath(dir string, id uint64, k Kind) string {
	return filepath.Join(dir, strconv.FormatUint(id, 10)+k.Suffix())
}

// Resolutions holds the bounding boxes for the scaled artifacts.
type Resolutions struct {
	Thumb      model.Resolution
	Display    model.Resolution
	Background model.Resolution
}

// For returns the resolution used for kind k. KindFull is never scaled and
// yields the zero value.
func (r Resolutions) For(k Kind) model.Resolution {
	switch k {
	case KindThumbnail:
		return r.Thumb
	case KindDisplay:
		return r.Display
	case KindBackground:
		return r.Background
	default:
		return model.Resolution{}
	}
}

// Job is one unit of rendering work.
type Job struct {
	Kind       Kind
	Collection string
	Identity   uint64
	Source     string
	Target     string
	Resolution model.Resolution
}

// Plan lists the jobs needed to bring the artifact directory dir up to date
// with collections.
//
// Only images with NeedsRender set are considered, and only artifacts that
// do not exist yet are scheduled. Each (identity, kind) pair is planned at
// most once, so no two jobs ever write the same target. Jobs are ordered by
// collection, backgrounds before pictures.
func Plan(collections []*model.Collection, dir string, res Resolutions) []Job {
	type key struct {
		id   uint64
		kind Kind
	}
	seen := make(map[key]bool)

	var jobs []Job
	add := func(collection string, img model.Image, k Kind) {
		if seen[key{img.Identity, k}] {
			return
		}
		seen[key{img.Identity, k}] = true

		target := ArtifactPath(dir, img.Identity, k)
		if _, err := os.Stat(target); err == nil {
			return
		}

		jobs = append(jobs, Job{
			Kind:       k,
			Collection: collection,
			Identity:   img.Identity,
			Source:     img.SourcePath,
			Target:     target,
			Resolution: res.For(k),
		})
	}

	for _, col := range collections {
		for _, bg := range col.Backgrounds {
			if bg.NeedsRender {
				add(col.Name, bg, KindBackground)
			}
		}
		for _, pic := range col.Pictures {
			if !pic.NeedsRender {
				continue
			}
			for _, k := range PictureKinds {
				add(col.Name, pic.Image, k)
			}
		}
	}

	return jobs
}
