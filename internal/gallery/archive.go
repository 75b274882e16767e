package gallery

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zip"

	"github.com/handiism/static-gallery/internal/model"
	"github.com/handiism/static-gallery/internal/render"
)

// BuildFullArchive writes every picture of the gallery to a zip archive in
// outputDir, one directory per collection, and registers it in Archives.
// It returns the size of the archive in bytes.
//
// Pictures are taken from their source file. Pictures of a previous run have
// none and are taken from their full-size artifact instead. Backgrounds are
// not archived.
func (g *Gallery) BuildFullArchive(outputDir string) (int64, error) {
	path := filepath.Join(outputDir, model.ArchiveName)
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create archive: %w", err)
	}

	if err := g.writeArchive(f, ArtifactDir(outputDir)); err != nil {
		f.Close()
		os.Remove(path)
		return 0, err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return 0, err
	}
	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("close archive: %w", err)
	}

	g.Archives[model.ArchiveKeyFull] = model.ArchiveName
	g.logger().Info("created archive", "path", path, "bytes", info.Size())
	return info.Size(), nil
}

func (g *Gallery) writeArchive(w io.Writer, artifactDir string) error {
	zw := zip.NewWriter(w)

	for _, col := range g.OrderedCollections() {
		dir := col.Name + "/"
		if _, err := zw.Create(dir); err != nil {
			return fmt.Errorf("archive %s: %w", col.Name, err)
		}

		names := map[string]bool{}
		stored := map[uint64]bool{}
		for _, pic := range col.Pictures {
			if stored[pic.Identity] {
				continue
			}

			src, name := pic.SourcePath, filepath.Base(pic.SourcePath)
			if src == "" {
				src = render.ArtifactPath(artifactDir, pic.Identity, render.KindFull)
				name = pic.Stem() + "." + model.Extension
			}
			if names[name] {
				ext := filepath.Ext(name)
				name = strings.TrimSuffix(name, ext) + "-" + strconv.FormatUint(pic.Identity, 10) + ext
			}

			if err := addFile(zw, dir+name, src); err != nil {
				return err
			}
			names[name] = true
			stored[pic.Identity] = true
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("finish archive: %w", err)
	}
	return nil
}

func addFile(zw *zip.Writer, name, src string) error {
	f, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("archive %s: %w", src, err)
	}
	defer f.Close()

	w, err := zw.CreateHeader(&zip.FileHeader{
		Name:   name,
		Method: zip.Deflate,
	})
	if err != nil {
		return fmt.Errorf("archive %s: %w", src, err)
	}
	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("archive %s: %w", src, err)
	}
	return nil
}
