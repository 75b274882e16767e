package model

import (
	"path/filepath"
	"strconv"
	"strings"
)

// Image is a single source photograph known to the gallery.
//
// Identity is the content fingerprint of the source file and doubles as the
// filename stem of every artifact rendered from it. It is the only field that
// is written to the manifest; SourcePath and NeedsRender only exist during a
// generation run.
//
// NeedsRender starts out true for images read from disk and is cleared once an
// equivalent artifact is known to exist, either because it was rendered in
// this run, because it was rendered in a previous run, or because the image is
// a duplicate of another image that owns the rendering.
type Image struct {
	// Identity is the content fingerprint, serialized as a decimal string
	// so browsers do not lose precision on 64-bit values.
	Identity uint64 `json:"path,string"`

	// SourcePath is the original file on disk. Empty for images loaded
	// from an existing manifest.
	SourcePath string `json:"-"`

	// NeedsRender reports whether artifacts still have to be produced.
	NeedsRender bool `json:"-"`
}

// NewImage creates an image that still needs to be rendered.
func NewImage(identity uint64, sourcePath string) Image {
	return Image{
		Identity:    identity,
		SourcePath:  sourcePath,
		NeedsRender: true,
	}
}

// Stem returns the artifact filename stem for the image.
func (i Image) Stem() string {
	return strconv.FormatUint(i.Identity, 10)
}

// Picture is an image shown in a collection, optionally with a display title.
type Picture struct {
	Title string `json:"title"`

	Image
}

// NewPicture creates a picture for the given source file.
//
// When useFilenameAsTitle is set the title is the file name without its
// extension, otherwise the title is empty.
func NewPicture(identity uint64, sourcePath string, useFilenameAsTitle bool) Picture {
	p := Picture{Image: NewImage(identity, sourcePath)}
	if useFilenameAsTitle {
		base := filepath.Base(sourcePath)
		p.Title = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return p
}

var supportedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
}

// IsSupported reports whether path has an extension the gallery can render.
// The check is case-insensitive; everything except JPEG is ignored.
func IsSupported(path string) bool {
	return supportedExtensions[strings.ToLower(filepath.Ext(path))]
}
