// Package manifest embeds serialized gallery data into a template page.
//
// The page is treated as opaque bytes. The data lives between two literal
// markers, which stay in the document so later runs can find and replace the
// data again:
//
//	<script>window.galleryInit(/*{{BEGIN:data*/{...}/*END:data}}*/);</script>
//
// Both functions search with bytes.Index. The worst case is O(n*m) for a
// document of n bytes and a marker of m bytes; in practice the search is
// linear because the markers are short and rarely partially match.
package manifest

import "bytes"

// Markers delimiting the embedded data.
var (
	StartMarker = []byte("/*{{BEGIN:data*/")
	EndMarker   = []byte("/*END:data}}*/")
)

// locate returns the byte range of the data between the first start marker
// and the first end marker following it.
func locate(doc []byte) (start, end int, ok bool) {
	i := bytes.Index(doc, StartMarker)
	if i < 0 {
		return 0, 0, false
	}
	start = i + len(StartMarker)

	j := bytes.Index(doc[start:], EndMarker)
	if j < 0 {
		return 0, 0, false
	}
	return start, start + j, true
}

// Extract returns a copy of the data between the markers.
//
// ok is false if either marker is missing.
func Extract(doc []byte) (data []byte, ok bool) {
	start, end, ok := locate(doc)
	if !ok {
		return nil, false
	}
	return bytes.Clone(doc[start:end]), true
}

// Splice returns a new document with the data between the markers replaced
// by blob. The markers themselves are kept. If either marker is missing the
// document is returned unchanged.
func Splice(doc, blob []byte) []byte {
	start, end, ok := locate(doc)
	if !ok {
		return doc
	}

	out := make([]byte, 0, len(doc)-(end-start)+len(blob))
	out = append(out, doc[:start]...)
	out = append(out, blob...)
	out = append(out, doc[end:]...)
	return out
}

// Has reports whether doc contains a complete marker pair.
func Has(doc []byte) bool {
	_, _, ok := locate(doc)
	return ok
}
