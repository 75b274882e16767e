// Package page post-processes the gallery page.
//
// Optimize folds the local stylesheets and scripts of a template into the
// page itself and strips HTML comments, leaving one self-contained
// index.html next to the artifact directory:
//
//	result, err := page.Optimize("/srv/gallery")
//	// result.Styles, result.Scripts: number of inlined files
package page
