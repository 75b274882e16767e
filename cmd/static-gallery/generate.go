package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/gofrs/flock"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/handiism/static-gallery/internal/config"
	"github.com/handiism/static-gallery/internal/gallery"
	ioutils "github.com/handiism/static-gallery/internal/io"
	"github.com/handiism/static-gallery/internal/logging"
	"github.com/handiism/static-gallery/internal/page"
	"github.com/handiism/static-gallery/internal/render"
	"github.com/handiism/static-gallery/internal/tui"
)

// lockName is created inside the output directory while a run holds it.
const lockName = ".static-gallery.lock"

type generateOptions struct {
	configPath string
	useTUI     bool
	flags      *config.Settings
}

func newGenerateCommand() *cobra.Command {
	opts := generateOptions{flags: config.DefaultSettings()}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Render collections into a gallery",
		Long: `Render collections into a gallery.

Each collection is given as "pictures;backgrounds;title". Use "-" for a
directory that is not needed, for example "photos/trip;-;Trip".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings := config.DefaultSettings()
			if opts.configPath != "" {
				loaded, err := config.Load(opts.configPath)
				if err != nil {
					return fmt.Errorf("%w: %w", config.ErrInvalid, err)
				}
				settings = loaded
			}
			applyFlags(cmd.Flags(), settings, opts.flags)
			return runGenerate(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), settings, opts.useTUI)
		},
	}

	f := cmd.Flags()
	s := opts.flags
	f.StringVar(&opts.configPath, "config", "", "Read settings from a TOML file, flags take precedence")
	f.BoolVar(&opts.useTUI, "tui", false, "Show an interactive progress view")

	f.StringArrayVarP(&s.Collections, "collection", "c", nil, `Collection as "pictures;backgrounds;title" (repeatable)`)
	f.StringVarP(&s.Output, "output", "o", "", "Output directory")
	f.StringVarP(&s.Template, "template", "p", "", "Template directory containing index.html")
	f.BoolVarP(&s.RemoveOutput, "remove-output", "r", false, "Remove the output directory first")
	f.BoolVarP(&s.Update, "update", "u", false, "Add collections to an existing gallery")
	f.BoolVarP(&s.Archive, "archive", "a", false, "Write Gallery.zip with every full-size picture")
	f.BoolVar(&s.Optimize, "optimize", false, "Inline local styles and scripts into the page")
	f.BoolVar(&s.ImageNameTitles, "image-name-titles", false, "Use file names as picture titles")

	f.StringVar(&s.ThumbSize, "thumb-size", s.ThumbSize, "Thumbnail resolution (WxH)")
	f.StringVar(&s.DisplaySize, "display-size", s.DisplaySize, "Display resolution (WxH)")
	f.StringVar(&s.BackgroundSize, "background-size", s.BackgroundSize, "Background resolution (WxH)")
	f.StringVar(&s.ResizeMethod, "resize-method", s.ResizeMethod, "Resize method: lanczos3, gaussian, nearest, cubic, linear")
	f.IntVar(&s.JPEGQuality, "jpeg-quality", s.JPEGQuality, "JPEG quality (1-100)")
	f.IntVar(&s.Threads, "threads", s.Threads, "Render workers, 0 uses every logical core")

	f.CountVarP(&s.Verbosity, "verbose", "v", "Increase log verbosity (repeatable)")
	f.StringVar(&s.LogFormat, "log-format", s.LogFormat, "Log format: text or json")

	return cmd
}

// applyFlags copies every flag set on the command line from src to dst.
func applyFlags(fs *pflag.FlagSet, dst, src *config.Settings) {
	applyChanged(fs, "collection", func() { dst.Collections = src.Collections })
	applyChanged(fs, "output", func() { dst.Output = src.Output })
	applyChanged(fs, "template", func() { dst.Template = src.Template })
	applyChanged(fs, "remove-output", func() { dst.RemoveOutput = src.RemoveOutput })
	applyChanged(fs, "update", func() { dst.Update = src.Update })
	applyChanged(fs, "archive", func() { dst.Archive = src.Archive })
	applyChanged(fs, "optimize", func() { dst.Optimize = src.Optimize })
	applyChanged(fs, "image-name-titles", func() { dst.ImageNameTitles = src.ImageNameTitles })
	applyChanged(fs, "thumb-size", func() { dst.ThumbSize = src.ThumbSize })
	applyChanged(fs, "display-size", func() { dst.DisplaySize = src.DisplaySize })
	applyChanged(fs, "background-size", func() { dst.BackgroundSize = src.BackgroundSize })
	applyChanged(fs, "resize-method", func() { dst.ResizeMethod = src.ResizeMethod })
	applyChanged(fs, "jpeg-quality", func() { dst.JPEGQuality = src.JPEGQuality })
	applyChanged(fs, "threads", func() { dst.Threads = src.Threads })
	applyChanged(fs, "verbose", func() { dst.Verbosity = src.Verbosity })
	applyChanged(fs, "log-format", func() { dst.LogFormat = src.LogFormat })
}

// parseInputs validates the settings and parses every collection argument.
// Nothing on disk is changed before it succeeds.
func parseInputs(s *config.Settings) ([]gallery.CollectionInput, error) {
	errs := []error{s.Validate()}

	inputs := make([]gallery.CollectionInput, 0, len(s.Collections))
	for _, arg := range s.Collections {
		in, err := gallery.ParseCollectionInput(arg)
		if err == nil {
			err = in.Check()
		}
		if err != nil {
			errs = append(errs, err)
			continue
		}
		inputs = append(inputs, in)
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return inputs, nil
}

func runGenerate(ctx context.Context, stdout, stderr io.Writer, s *config.Settings, useTUI bool) error {
	inputs, err := parseInputs(s)
	if err != nil {
		return err
	}

	logger, err := logging.New(logging.Options{
		Level:  logging.LevelForVerbosity(s.Verbosity),
		Format: s.LogFormat,
		Writer: stderr,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", config.ErrInvalid, err)
	}

	if s.RemoveOutput {
		logger.Info("removing output directory", "path", s.Output)
		if err := os.RemoveAll(s.Output); err != nil {
			return fmt.Errorf("remove output directory: %w", err)
		}
	}
	if err := ioutils.EnsureDir(s.Output); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	lockPath := filepath.Join(s.Output, lockName)
	lock := flock.New(lockPath)
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("lock output directory: %w", err)
	}
	if !locked {
		return fmt.Errorf("output directory %s is in use by another run", s.Output)
	}
	defer func() {
		_ = lock.Unlock()
		_ = os.Remove(lockPath)
	}()

	g, err := openGallery(s)
	if err != nil {
		return err
	}
	g.Logger = logger

	if err := g.Fill(inputs, s.ImageNameTitles); err != nil {
		return err
	}
	if n := g.Deduplicate(); n > 0 {
		logger.Info("found duplicate images", "count", n)
	}

	report, err := renderGallery(ctx, stdout, g, s, logger, useTUI)
	if err != nil {
		return err
	}

	if !s.Update {
		if err := ioutils.CopyTree(ctx, s.Template, s.Output); err != nil {
			return fmt.Errorf("copy template: %w", err)
		}
	}

	if s.Optimize {
		res, err := page.Optimize(s.Output)
		if err != nil {
			return fmt.Errorf("optimize page: %w", err)
		}
		logger.Info("optimized page",
			"styles", res.Styles,
			"scripts", res.Scripts,
			"comments", res.Comments,
		)
	}

	if s.Archive {
		size, err := g.BuildFullArchive(s.Output)
		if err != nil {
			return fmt.Errorf("build archive: %w", err)
		}
		fmt.Fprintf(stdout, "Archive written (%s)\n", humanize.Bytes(uint64(size)))
	}

	if err := g.Persist(s.Output); err != nil {
		return fmt.Errorf("write gallery: %w", err)
	}

	printSummary(stdout, g, report)
	return nil
}

// openGallery loads the gallery to update or creates a new one with the
// configured resolutions. Updated galleries keep their stored resolutions.
func openGallery(s *config.Settings) (*gallery.Gallery, error) {
	if s.Update {
		return gallery.Load(s.Output)
	}

	thumb, display, background, err := s.Resolutions()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", config.ErrInvalid, err)
	}
	g := gallery.New()
	g.ResThumb = thumb
	g.ResDisplay = display
	g.ResBackground = background
	return g, nil
}

func renderGallery(ctx context.Context, stdout io.Writer, g *gallery.Gallery, s *config.Settings, logger *slog.Logger, useTUI bool) (render.Report, error) {
	opts := render.Options{
		Concurrency: s.ResolveThreads(),
		Quality:     s.JPEGQuality,
		Method:      s.ResizeMethod,
		Logger:      logger,
	}
	codec := ioutils.NewImageService()

	if useTUI {
		session := tui.NewSession(g.CollectionKeys, s.Verbosity > 0)
		opts.Observer = session.Observe
		// Failures are shown by the view.
		opts.Logger = logging.Discard()
		engine := render.NewEngine(codec, opts)
		return session.Run(ctx, engine, func(ctx context.Context) (render.Report, error) {
			return g.RenderAll(ctx, s.Output, engine)
		})
	}

	engine := render.NewEngine(codec, opts)
	if f, ok := stdout.(*os.File); ok && isTerminal(f.Fd()) {
		stop := startProgressLine(stdout, engine)
		defer stop()
	}
	return g.RenderAll(ctx, s.Output, engine)
}

func printSummary(w io.Writer, g *gallery.Gallery, report render.Report) {
	pictures := 0
	for _, st := range g.Stats() {
		pictures += st.Pictures
	}

	p := message.NewPrinter(language.English)
	p.Fprintf(w, "Rendered %d of %d artifacts for %d pictures in %d collections\n",
		report.Completed, report.Planned, pictures, len(g.CollectionKeys))
	if n := len(report.FailedIdentities()); n > 0 {
		p.Fprintf(w, "Removed %d images that failed to render\n", n)
	}
}
