package identity

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOf_Deterministic(t *testing.T) {
	data := []byte("the same photograph")
	assert.Equal(t, Of(data), Of(bytes.Clone(data)))
	assert.NotEqual(t, Of(data), Of([]byte("another photograph")))
}

func TestOfFile_IgnoresPathAndName(t *testing.T) {
	dir := t.TempDir()
	content := []byte{0xff, 0xd8, 0xff, 0xe0, 1, 2, 3, 4}

	first := filepath.Join(dir, "a", "beach.jpg")
	second := filepath.Join(dir, "b", "IMG_0001.JPEG")
	require.NoError(t, os.MkdirAll(filepath.Dir(first), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Dir(second), 0o755))
	require.NoError(t, os.WriteFile(first, content, 0o644))
	require.NoError(t, os.WriteFile(second, content, 0o644))

	idFirst, err := OfFile(first)
	require.NoError(t, err)
	idSecond, err := OfFile(second)
	require.NoError(t, err)

	assert.Equal(t, idFirst, idSecond)
	assert.Equal(t, Of(content), idFirst)
}

func TestOfFile_Missing(t *testing.T) {
	_, err := OfFile(filepath.Join(t.TempDir(), "missing.jpg"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestOfReader_MatchesOf(t *testing.T) {
	data := bytes.Repeat([]byte("chunk"), 10000)
	id, err := OfReader(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, Of(data), id)
}
