// Package gallery holds the state of a generated gallery and the steps of a
// generation run.
//
// # Lifecycle
//
// A run either starts from an empty gallery or from the manifest of an
// existing output directory:
//
//	g := gallery.New()
//	// or
//	g, err := gallery.Load("/srv/gallery")
//
// It then goes through these steps in order:
//
//  1. Fill reads the requested collections from disk
//  2. Deduplicate makes identical images share their artifacts
//  3. RenderAll renders missing artifacts and drops images that fail
//  4. BuildFullArchive optionally zips the originals
//  5. Persist writes the manifest back into the page
//
// # Updating
//
// Loaded images are treated as rendered. Collections whose name matches an
// input are extended, the others are left untouched:
//
//	in, _ := gallery.ParseCollectionInput("new-photos;-;Trip")
//	err := g.Fill([]gallery.CollectionInput{in}, false)
//
// # Errors
//
// Load wraps ErrManifestRead when the page cannot be read and
// ErrManifestDecode when it carries no valid manifest. Fill wraps
// ErrNoPictureDir when a new collection lacks a picture directory.
package gallery
