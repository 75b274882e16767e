package page

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handiism/static-gallery/internal/manifest"
)

const templatePage = `<!DOCTYPE html>
<html>
<head>
<!-- template: hauer -->
<link rel="stylesheet" href="css/style.css" media="screen">
<link rel="stylesheet" href="https://cdn.example.com/font.css">
<link rel="icon" href="favicon.ico">
<script src="js/main.js" defer></script>
<script src="//cdn.example.com/lib.js"></script>
<script src="../outside.js"></script>
<script>
var data = /*{{BEGIN:data*/{"version":1}/*END:data}}*/;
</script>
</head>
<body><!-- body comment --><div id="gallery"></div></body>
</html>
`

func setup(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"index.html":    templatePage,
		"css/style.css": "/* theme */\nbody { margin: 0; }\n",
		"js/main.js":    "/* keep me */\nvar x = 1 < 2;\n",
		"favicon.ico":   "icon",
	}
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return dir
}

func TestOptimize(t *testing.T) {
	dir := setup(t)

	result, err := Optimize(dir)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Styles)
	assert.Equal(t, 1, result.Scripts)
	assert.Equal(t, 2, result.Comments)
	assert.Len(t, result.Removed, 2)

	out, err := os.ReadFile(filepath.Join(dir, "index.html"))
	require.NoError(t, err)
	page := string(out)

	assert.Contains(t, page, `<style media="screen">`)
	assert.Contains(t, page, "body { margin: 0; }")
	assert.NotContains(t, page, "/* theme */")
	assert.Contains(t, page, "/* keep me */\nvar x = 1 < 2;")
	assert.NotContains(t, page, "<!--")

	assert.Contains(t, page, "https://cdn.example.com/font.css")
	assert.Contains(t, page, "//cdn.example.com/lib.js")
	assert.Contains(t, page, "../outside.js")
	assert.Contains(t, page, "favicon.ico")

	blob, ok := manifest.Extract(out)
	require.True(t, ok)
	assert.Equal(t, `{"version":1}`, string(blob))

	assert.NoDirExists(t, filepath.Join(dir, "css"))
	assert.NoDirExists(t, filepath.Join(dir, "js"))
	assert.FileExists(t, filepath.Join(dir, "favicon.ico"))
}

func TestOptimize_MissingAsset(t *testing.T) {
	dir := setup(t)
	require.NoError(t, os.Remove(filepath.Join(dir, "js", "main.js")))

	_, err := Optimize(dir)
	require.Error(t, err)

	out, err := os.ReadFile(filepath.Join(dir, "index.html"))
	require.NoError(t, err)
	assert.Equal(t, templatePage, string(out), "page must stay untouched on failure")
}

func TestOptimize_Idempotent(t *testing.T) {
	dir := setup(t)
	_, err := Optimize(dir)
	require.NoError(t, err)
	first, err := os.ReadFile(filepath.Join(dir, "index.html"))
	require.NoError(t, err)

	result, err := Optimize(dir)
	require.NoError(t, err)
	assert.Zero(t, result.Styles+result.Scripts+result.Comments)

	second, err := os.ReadFile(filepath.Join(dir, "index.html"))
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestLocalFile(t *testing.T) {
	dir := filepath.Join("srv", "gallery")

	tests := []struct {
		ref  string
		want string
		ok   bool
	}{
		{"js/main.js", filepath.Join(dir, "js", "main.js"), true},
		{"/css/a.css", filepath.Join(dir, "css", "a.css"), true},
		{"js/main.js?v=2", filepath.Join(dir, "js", "main.js"), true},
		{"", "", false},
		{"https://example.com/a.js", "", false},
		{"//example.com/a.js", "", false},
		{"../a.js", "", false},
		{"data:text/css,body{}", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			got, ok := localFile(dir, tt.ref)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
