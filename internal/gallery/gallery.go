package gallery

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	ioutils "github.com/handiism/static-gallery/internal/io"
	"github.com/handiism/static-gallery/internal/logging"
	"github.com/handiism/static-gallery/internal/manifest"
	"github.com/handiism/static-gallery/internal/model"
	"github.com/handiism/static-gallery/internal/render"
)

var (
	// ErrManifestRead is returned when the page of an existing gallery
	// cannot be read.
	ErrManifestRead = errors.New("cannot read gallery page")

	// ErrManifestDecode is returned when the page has no manifest or the
	// manifest is not a valid gallery.
	ErrManifestDecode = errors.New("invalid gallery manifest")

	// ErrNoPictureDir is returned when a new collection is requested
	// without a picture directory.
	ErrNoPictureDir = errors.New("cannot create new collection without picture directory")
)

// Gallery is the complete state of a generated gallery. It is serialized as
// the manifest embedded in the gallery page.
type Gallery struct {
	Version        uint16                       `json:"version"`
	Extension      string                       `json:"extension"`
	Archives       map[string]string            `json:"archives"`
	CollectionKeys []string                     `json:"collection_keys"`
	Collections    map[string]*model.Collection `json:"collections"`

	ResBackground model.Resolution `json:"res_background"`
	ResDisplay    model.Resolution `json:"res_display"`
	ResThumb      model.Resolution `json:"res_thumb"`

	// Logger receives progress and per-image problems. Nil discards.
	Logger *slog.Logger `json:"-"`
}

// New creates an empty gallery with the default resolutions.
func New() *Gallery {
	return &Gallery{
		Version:        model.FormatVersion,
		Extension:      model.Extension,
		Archives:       map[string]string{},
		CollectionKeys: []string{},
		Collections:    map[string]*model.Collection{},
		ResBackground:  model.DefaultBackgroundResolution,
		ResDisplay:     model.DefaultDisplayResolution,
		ResThumb:       model.DefaultThumbResolution,
	}
}

// Load reads the gallery embedded in the page of outputDir.
//
// Every image of a loaded gallery is considered rendered. Errors wrap
// ErrManifestRead or ErrManifestDecode.
func Load(outputDir string) (*Gallery, error) {
	page := filepath.Join(outputDir, model.PageName)
	doc, err := os.ReadFile(page)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrManifestRead, err)
	}

	blob, ok := manifest.Extract(doc)
	if !ok {
		return nil, fmt.Errorf("%w: no manifest markers in %s", ErrManifestDecode, page)
	}

	g := New()
	if err := json.Unmarshal(blob, g); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrManifestDecode, err)
	}
	if err := g.check(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrManifestDecode, err)
	}

	return g, nil
}

// check verifies the invariants a decoded manifest must satisfy.
func (g *Gallery) check() error {
	if g.Archives == nil {
		g.Archives = map[string]string{}
	}
	if g.Collections == nil {
		g.Collections = map[string]*model.Collection{}
	}
	if g.CollectionKeys == nil {
		g.CollectionKeys = []string{}
	}

	if len(g.CollectionKeys) != len(g.Collections) {
		return fmt.Errorf("%d collection keys for %d collections", len(g.CollectionKeys), len(g.Collections))
	}
	seen := make(map[string]bool, len(g.CollectionKeys))
	for _, key := range g.CollectionKeys {
		if seen[key] {
			return fmt.Errorf("duplicate collection key %q", key)
		}
		seen[key] = true

		col, ok := g.Collections[key]
		if !ok || col == nil {
			return fmt.Errorf("collection key %q has no collection", key)
		}
		if col.Pictures == nil {
			col.Pictures = []model.Picture{}
		}
		if col.Backgrounds == nil {
			col.Backgrounds = []model.Image{}
		}
	}
	return nil
}

// Persist writes the gallery into the manifest of the page in outputDir.
func (g *Gallery) Persist(outputDir string) error {
	page := filepath.Join(outputDir, model.PageName)
	doc, err := os.ReadFile(page)
	if err != nil {
		return fmt.Errorf("read page: %w", err)
	}
	if !manifest.Has(doc) {
		return fmt.Errorf("%s has no manifest markers", page)
	}

	blob, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}

	if err := ioutils.WriteFileAtomic(page, manifest.Splice(doc, blob)); err != nil {
		return fmt.Errorf("write page: %w", err)
	}
	return nil
}

// OrderedCollections returns the collections in key order.
func (g *Gallery) OrderedCollections() []*model.Collection {
	cols := make([]*model.Collection, 0, len(g.CollectionKeys))
	for _, key := range g.CollectionKeys {
		cols = append(cols, g.Collections[key])
	}
	return cols
}

// Resolutions returns the artifact resolutions of the gallery.
func (g *Gallery) Resolutions() render.Resolutions {
	return render.Resolutions{
		Thumb:      g.ResThumb,
		Display:    g.ResDisplay,
		Background: g.ResBackground,
	}
}

// CollectionStats summarizes one collection.
type CollectionStats struct {
	Name        string
	Title       string
	Pictures    int
	Backgrounds int
}

// Stats returns a summary of every collection in key order.
func (g *Gallery) Stats() []CollectionStats {
	stats := make([]CollectionStats, 0, len(g.CollectionKeys))
	for _, col := range g.OrderedCollections() {
		stats = append(stats, CollectionStats{
			Name:        col.Name,
			Title:       col.Title,
			Pictures:    len(col.Pictures),
			Backgrounds: len(col.Backgrounds),
		})
	}
	return stats
}

func (g *Gallery) logger() *slog.Logger {
	return logging.OrDiscard(g.Logger)
}
