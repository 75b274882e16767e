package model

// Output layout shared by the gallery, the renderer and the template.
const (
	// FormatVersion is the manifest format written by this program.
	FormatVersion uint16 = 1

	// Extension of every rendered artifact.
	Extension = "jpg"

	// ArtifactDir is the directory below the output directory holding
	// every rendered artifact.
	ArtifactDir = "p"

	// PageName is the template page carrying the manifest.
	PageName = "index.html"

	// ArchiveName is the file name of the archive of all originals.
	ArchiveName = "Gallery.zip"

	// ArchiveKeyFull is the manifest key the full archive is listed under.
	ArchiveKeyFull = "_full_"
)

// Default artifact resolutions.
var (
	DefaultThumbResolution      = Resolution{Width: 960, Height: 540}
	DefaultDisplayResolution    = Resolution{Width: 2560, Height: 1440}
	DefaultBackgroundResolution = Resolution{Width: 2560, Height: 1440}
)
