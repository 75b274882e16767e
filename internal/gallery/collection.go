package gallery

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/handiism/static-gallery/internal/identity"
	ioutils "github.com/handiism/static-gallery/internal/io"
	"github.com/handiism/static-gallery/internal/logging"
	"github.com/handiism/static-gallery/internal/model"
)

// ErrInvalidCollection is returned for a malformed collection argument.
var ErrInvalidCollection = errors.New("invalid collection")

// CollectionInput describes one collection requested for a run.
type CollectionInput struct {
	Title string

	// Name is the sanitized title and decides which existing collection
	// the input is merged into.
	Name string

	// PictureDir and BackgroundDir are empty when not given.
	PictureDir    string
	BackgroundDir string
}

// noDir marks an omitted directory in a collection argument.
const noDir = "-"

// ParseCollectionInput parses a "pictures;backgrounds;title" argument.
//
// A directory given as "-" (or left empty) is omitted. The title is
// required and may itself contain ';'. Directories are not checked here, see
// CollectionInput.Check.
//
// Example:
//
//	in, err := ParseCollectionInput("photos/trip;-;Trip to Köln")
//	// in.PictureDir = "photos/trip", in.BackgroundDir = "", in.Name = "trip_to_k-ln"
func ParseCollectionInput(arg string) (CollectionInput, error) {
	parts := strings.SplitN(arg, ";", 3)
	if len(parts) != 3 {
		return CollectionInput{}, fmt.Errorf("%w %q: expected \"pictures;backgrounds;title\"", ErrInvalidCollection, arg)
	}

	dir := func(s string) string {
		s = strings.TrimSpace(s)
		if s == noDir {
			return ""
		}
		return s
	}

	title := strings.TrimSpace(parts[2])
	if title == "" {
		return CollectionInput{}, fmt.Errorf("%w %q: missing title", ErrInvalidCollection, arg)
	}

	in := CollectionInput{
		Title:         title,
		Name:          model.Sanitize(title),
		PictureDir:    dir(parts[0]),
		BackgroundDir: dir(parts[1]),
	}
	if in.PictureDir == "" && in.BackgroundDir == "" {
		return CollectionInput{}, fmt.Errorf("%w %q: no picture or background directory", ErrInvalidCollection, arg)
	}
	return in, nil
}

// Check reports an error wrapping ErrInvalidCollection when a given
// directory does not exist or is not a directory.
func (in CollectionInput) Check() error {
	for _, dir := range []string{in.PictureDir, in.BackgroundDir} {
		if dir != "" && !ioutils.DirExists(dir) {
			return fmt.Errorf("%w %s: %s is not a directory", ErrInvalidCollection, in.Title, dir)
		}
	}
	return nil
}

// BuildCollection reads the supported files of pictureDir and backgroundDir
// into a new collection. Either directory may be empty to skip it.
//
// Files are listed without recursion and taken in file name order. A file
// that cannot be read is logged and left out; an unreadable directory is an
// error.
func BuildCollection(title, pictureDir, backgroundDir string, useFilenamesAsTitles bool, logger *slog.Logger) (*model.Collection, error) {
	logger = logging.OrDiscard(logger)

	var pictures []model.Picture
	if err := eachImage(pictureDir, logger, func(id uint64, path string) {
		pictures = append(pictures, model.NewPicture(id, path, useFilenamesAsTitles))
	}); err != nil {
		return nil, err
	}

	var backgrounds []model.Image
	if err := eachImage(backgroundDir, logger, func(id uint64, path string) {
		backgrounds = append(backgrounds, model.NewImage(id, path))
	}); err != nil {
		return nil, err
	}

	return model.NewCollection(title, pictures, backgrounds), nil
}

// eachImage calls fn with the identity and path of every supported file
// in dir. An empty dir is skipped.
func eachImage(dir string, logger *slog.Logger, fn func(id uint64, path string)) error {
	if dir == "" {
		return nil
	}

	files, err := ioutils.ListDir(dir)
	if err != nil {
		return fmt.Errorf("list %s: %w", dir, err)
	}

	for _, path := range files {
		if !model.IsSupported(path) {
			logger.Debug("skipping unsupported file", "path", path)
			continue
		}

		id, err := identity.OfFile(path)
		if err != nil {
			logger.Error("skipping unreadable file", "path", path, "error", err)
			continue
		}
		fn(id, path)
	}
	return nil
}

// Fill builds a collection for every input and adds it to the gallery.
//
// An input whose name matches an existing collection is appended to it and
// the existing title is kept. Other inputs create a new collection, which
// requires a picture directory.
//
// Fill is not transactional: inputs processed before a failing one stay in
// the gallery.
func (g *Gallery) Fill(inputs []CollectionInput, useFilenamesAsTitles bool) error {
	logger := g.logger()

	for _, in := range inputs {
		name := in.Name
		if name == "" {
			name = model.Sanitize(in.Title)
		}

		existing, exists := g.Collections[name]
		if !exists && in.PictureDir == "" {
			return fmt.Errorf("%w: %s", ErrNoPictureDir, in.Title)
		}

		col, err := BuildCollection(in.Title, in.PictureDir, in.BackgroundDir, useFilenamesAsTitles, logger)
		if err != nil {
			return fmt.Errorf("collection %s: %w", in.Title, err)
		}

		if exists {
			existing.Append(col)
			logger.Info("updated collection",
				"collection", name,
				"pictures", len(col.Pictures),
				"backgrounds", len(col.Backgrounds),
			)
			continue
		}

		col.Name = name
		g.CollectionKeys = append(g.CollectionKeys, name)
		g.Collections[name] = col
		logger.Info("created collection",
			"collection", name,
			"pictures", len(col.Pictures),
			"backgrounds", len(col.Backgrounds),
		)
	}

	return nil
}
