package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"

	ioutils "github.com/handiism/static-gallery/internal/io"
	"github.com/handiism/static-gallery/internal/model"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid configuration")

// TemplatePage is the file every template directory must contain.
const TemplatePage = model.PageName

// Settings holds all configuration options.
type Settings struct {
	// Paths
	Output   string `toml:"output"`
	Template string `toml:"template"`

	// Collections in "pictures;backgrounds;title" form, "-" for none
	Collections []string `toml:"collections"`

	// Run mode
	RemoveOutput bool `toml:"remove_output"`
	Update       bool `toml:"update"`
	Archive      bool `toml:"archive"`
	Optimize     bool `toml:"optimize"`

	// Picture settings
	ImageNameTitles bool   `toml:"image_name_titles"`
	ThumbSize       string `toml:"thumb_size"`
	DisplaySize     string `toml:"display_size"`
	BackgroundSize  string `toml:"background_size"`
	ResizeMethod    string `toml:"resize_method"` // lanczos3, gaussian, nearest, cubic, linear
	JPEGQuality     int    `toml:"jpeg_quality"`
	Threads         int    `toml:"threads"` // 0 uses every logical core

	// Logging
	Verbosity int    `toml:"verbosity"`
	LogFormat string `toml:"log_format"` // text, json
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		ThumbSize:      model.DefaultThumbResolution.String(),
		DisplaySize:    model.DefaultDisplayResolution.String(),
		BackgroundSize: model.DefaultBackgroundResolution.String(),
		ResizeMethod:   ioutils.MethodLanczos3,
		JPEGQuality:    75,
		Threads:        0,

		LogFormat: "text",
	}
}

// Load reads settings from a TOML file.
//
// A missing file is not an error, the defaults are returned instead. Keys
// absent from the file keep their default values.
func Load(path string) (*Settings, error) {
	settings := DefaultSettings()

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return settings, nil
		}
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	decoder := toml.NewDecoder(file)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(settings); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return settings, nil
}

// Save writes settings to a TOML file.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := toml.Marshal(s)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Resolutions parses the thumbnail, display and background sizes.
func (s *Settings) Resolutions() (thumb, display, background model.Resolution, err error) {
	if thumb, err = model.ParseResolution(s.ThumbSize); err != nil {
		return
	}
	if display, err = model.ParseResolution(s.DisplaySize); err != nil {
		return
	}
	background, err = model.ParseResolution(s.BackgroundSize)
	return
}

// ResolveThreads returns the number of render workers, replacing 0 with the
// number of logical cores.
func (s *Settings) ResolveThreads() int {
	if s.Threads <= 0 {
		return runtime.NumCPU()
	}
	return s.Threads
}

// Validate checks the settings and the state of the directories they name.
//
// Every problem found is reported; the returned error joins them and each
// one wraps ErrInvalid.
func (s *Settings) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	if s.JPEGQuality < 1 || s.JPEGQuality > 100 {
		add("jpeg quality must be between 1 and 100, got %d", s.JPEGQuality)
	}
	if s.Threads < 0 {
		add("threads must not be negative, got %d", s.Threads)
	}
	if !slices.Contains(ioutils.Methods, s.ResizeMethod) {
		add("invalid resize method %q, valid options: %s", s.ResizeMethod, strings.Join(ioutils.Methods, ", "))
	}
	if s.LogFormat != "text" && s.LogFormat != "json" {
		add("invalid log format %q, valid options: text, json", s.LogFormat)
	}
	if _, _, _, err := s.Resolutions(); err != nil {
		add("%v", err)
	}

	if len(s.Collections) == 0 {
		add("no collections specified")
	}
	if s.Update && s.RemoveOutput {
		add("update and remove output cannot be combined")
	}

	if s.Output == "" {
		add("no output directory specified")
	} else if !s.Update && !s.RemoveOutput && ioutils.DirExists(s.Output) {
		if empty, err := ioutils.IsEmptyDir(s.Output); err == nil && !empty {
			add("output directory %s is not empty, use update or remove output", s.Output)
		}
	}

	if s.Update {
		if s.Output != "" && !ioutils.FileExists(filepath.Join(s.Output, TemplatePage)) {
			add("nothing to update, %s has no %s", s.Output, TemplatePage)
		}
	} else {
		switch {
		case s.Template == "":
			add("no template directory specified")
		case !ioutils.FileExists(filepath.Join(s.Template, TemplatePage)):
			add("template directory %s has no %s", s.Template, TemplatePage)
		}
	}

	return errors.Join(errs...)
}
