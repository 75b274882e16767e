package main

import (
	"context"
	"errors"

	"github.com/handiism/static-gallery/internal/config"
	"github.com/handiism/static-gallery/internal/gallery"
)

// Process exit statuses.
const (
	exitOK             = 0
	exitRuntime        = 1
	exitConfig         = 2
	exitManifestRead   = 3
	exitManifestDecode = 4
	exitInterrupted    = 130
)

// exitCode maps an error returned by a command to the process exit status.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, context.Canceled):
		return exitInterrupted
	case errors.Is(err, config.ErrInvalid),
		errors.Is(err, gallery.ErrInvalidCollection),
		errors.Is(err, gallery.ErrNoPictureDir):
		return exitConfig
	case errors.Is(err, gallery.ErrManifestRead):
		return exitManifestRead
	case errors.Is(err, gallery.ErrManifestDecode):
		return exitManifestDecode
	default:
		return exitRuntime
	}
}
