package page

import (
	"bytes"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	ioutils "github.com/handiism/static-gallery/internal/io"
	"github.com/handiism/static-gallery/internal/manifest"
	"github.com/handiism/static-gallery/internal/model"
)

// Result counts the changes made by Optimize.
type Result struct {
	Styles   int
	Scripts  int
	Comments int

	// Removed lists the inlined files that were deleted.
	Removed []string
}

var cssComments = regexp.MustCompile(`(?s)/\*.*?\*/`)

// Optimize rewrites the page in outputDir into a single file.
//
// Local stylesheets and scripts are embedded and deleted afterwards, HTML
// comments are dropped. Script text is embedded as is, so the manifest
// markers survive; stylesheets lose their comments. References to other
// hosts and references leaving outputDir are left alone.
func Optimize(outputDir string) (Result, error) {
	path := filepath.Join(outputDir, model.PageName)
	src, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("read page: %w", err)
	}

	doc, err := html.Parse(bytes.NewReader(src))
	if err != nil {
		return Result{}, fmt.Errorf("parse page: %w", err)
	}

	var (
		result   Result
		comments []*html.Node
		assets   []*html.Node
	)
	var traverse func(*html.Node)
	traverse = func(n *html.Node) {
		switch {
		case n.Type == html.CommentNode:
			comments = append(comments, n)
		case n.Type == html.ElementNode && (n.DataAtom == atom.Link || n.DataAtom == atom.Script):
			assets = append(assets, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			traverse(c)
		}
	}
	traverse(doc)

	var inlined []string
	for _, n := range assets {
		var ref string
		if n.DataAtom == atom.Link {
			if !strings.EqualFold(attr(n, "rel"), "stylesheet") {
				continue
			}
			ref = attr(n, "href")
		} else {
			ref = attr(n, "src")
		}

		file, ok := localFile(outputDir, ref)
		if !ok {
			continue
		}
		content, err := os.ReadFile(file)
		if err != nil {
			return Result{}, fmt.Errorf("inline %s: %w", ref, err)
		}

		if n.DataAtom == atom.Link {
			replace(n, styleNode(n, cssComments.ReplaceAllString(string(content), "")))
			result.Styles++
		} else {
			replace(n, scriptNode(n, string(content)))
			result.Scripts++
		}
		inlined = append(inlined, file)
	}

	for _, n := range comments {
		n.Parent.RemoveChild(n)
		result.Comments++
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return Result{}, fmt.Errorf("render page: %w", err)
	}
	if manifest.Has(src) && !manifest.Has(buf.Bytes()) {
		return Result{}, fmt.Errorf("optimized page lost its manifest markers")
	}

	if err := ioutils.WriteFileAtomic(path, buf.Bytes()); err != nil {
		return Result{}, fmt.Errorf("write page: %w", err)
	}

	for _, file := range inlined {
		if err := os.Remove(file); err != nil && !os.IsNotExist(err) {
			return result, fmt.Errorf("remove inlined file: %w", err)
		}
		result.Removed = append(result.Removed, file)
		// Only succeeds once the directory is empty.
		if dir := filepath.Dir(file); dir != filepath.Clean(outputDir) {
			os.Remove(dir)
		}
	}

	return result, nil
}

// localFile resolves ref against outputDir. It reports false for empty,
// remote and escaping references.
func localFile(outputDir, ref string) (string, bool) {
	if ref == "" {
		return "", false
	}
	u, err := url.Parse(ref)
	if err != nil || u.Scheme != "" || u.Host != "" || u.Path == "" {
		return "", false
	}

	rel := filepath.FromSlash(strings.TrimPrefix(u.Path, "/"))
	if !filepath.IsLocal(rel) {
		return "", false
	}
	return filepath.Join(outputDir, rel), true
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// without returns the attributes of n except the named ones.
func without(n *html.Node, keys ...string) []html.Attribute {
	var attrs []html.Attribute
outer:
	for _, a := range n.Attr {
		for _, k := range keys {
			if a.Key == k {
				continue outer
			}
		}
		attrs = append(attrs, a)
	}
	return attrs
}

func styleNode(link *html.Node, css string) *html.Node {
	var attrs []html.Attribute
	if media := attr(link, "media"); media != "" {
		attrs = append(attrs, html.Attribute{Key: "media", Val: media})
	}
	n := &html.Node{Type: html.ElementNode, Data: "style", DataAtom: atom.Style, Attr: attrs}
	n.AppendChild(&html.Node{Type: html.TextNode, Data: css})
	return n
}

func scriptNode(script *html.Node, js string) *html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     "script",
		DataAtom: atom.Script,
		Attr:     without(script, "src", "defer", "async", "integrity", "crossorigin"),
	}
	n.AppendChild(&html.Node{Type: html.TextNode, Data: js})
	return n
}

func replace(old, n *html.Node) {
	old.Parent.InsertBefore(n, old)
	old.Parent.RemoveChild(old)
}
