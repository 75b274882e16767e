// Package model defines the core data structures used throughout
// the static-gallery application.
//
// # Images and Pictures
//
// Image identifies one source photograph by its content fingerprint:
//
//	img := model.NewImage(id, "/photos/beach.jpg")
//	fmt.Println(img.Stem()) // Artifact filename stem, e.g. "1432587764376512"
//
// Picture adds an optional display title to an Image:
//
//	pic := model.NewPicture(id, "/photos/beach.jpg", true)
//	fmt.Println(pic.Title) // "beach"
//
// # Collections
//
// Collection groups pictures and backgrounds under a title. Its Name is the
// sanitized title and serves as the unique key inside a gallery:
//
//	col := model.NewCollection("Trip", pictures, backgrounds)
//	col.Append(more)             // Merge an update into the collection
//	col.RemoveByIdentity(failed) // Drop an image that could not be rendered
//
// # Resolutions
//
// Resolution describes the bounding box of a rendition:
//
//	res, err := model.ParseResolution("960x540")
package model
