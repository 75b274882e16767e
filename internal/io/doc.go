// Package ioutils provides file system and image processing utilities.
//
// This package contains functions for:
//   - Listing input directories and copying template trees
//   - Atomic file writes
//   - Directory creation
//   - Decoding, orienting, resizing and re-encoding photographs
//
// # File Operations
//
//	// List the files of an input directory
//	files, err := ioutils.ListDir("/photos/trip")
//
//	// Copy a template into the output directory
//	err := ioutils.CopyTree(ctx, "/templates/hauer", "/out")
//
//	// Replace a file without exposing a half-written version
//	err := ioutils.WriteFileAtomic("/out/index.html", page)
//
// # Image Processing
//
// The ImageService renders the artifacts of a gallery:
//
//	svc := ioutils.NewImageService()
//
//	// Thumbnail covering 960x540, Lanczos filter, quality 75
//	err := svc.Resize(ctx, "a.jpg", "p/42.thumb.jpg", res, 75, ioutils.MethodLanczos3)
//
//	// Full-size copy, re-encoded
//	err := svc.Recode(ctx, "a.jpg", "p/42.jpg", 75)
//
// Artifacts are written through a temporary file and renamed into place, so
// an interrupted run never leaves a truncated artifact behind that a later
// run would mistake for a finished one.
package ioutils
