package ioutils

import (
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"github.com/handiism/static-gallery/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeJPEG(t *testing.T, path string, width, height int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, jpeg.Encode(f, img, nil))
}

func jpegSize(t *testing.T, path string) (int, int) {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	cfg, err := jpeg.DecodeConfig(f)
	require.NoError(t, err)
	return cfg.Width, cfg.Height
}

func TestCoverSize(t *testing.T) {
	thumb := model.Resolution{Width: 960, Height: 540}

	tests := []struct {
		name       string
		width      int
		height     int
		wantWidth  int
		wantHeight int
	}{
		{"landscape 4:3", 4000, 3000, 960, 720},
		{"portrait", 3000, 4000, 960, 1280},
		{"exact 16:9", 1920, 1080, 960, 540},
		{"wide panorama", 8000, 1000, 4320, 540},
		{"smaller than box", 800, 600, 800, 600},
		{"narrower than box", 900, 2000, 900, 2000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := CoverSize(tt.width, tt.height, thumb)
			assert.Equal(t, tt.wantWidth, w)
			assert.Equal(t, tt.wantHeight, h)
		})
	}
}

func TestScalerFor(t *testing.T) {
	for _, method := range Methods {
		t.Run(method, func(t *testing.T) {
			scaler, err := ScalerFor(method)
			require.NoError(t, err)
			assert.NotNil(t, scaler)
		})
	}

	_, err := ScalerFor("bicubic")
	assert.Error(t, err)
}

func TestImageService_Resize(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.jpg")
	writeJPEG(t, src, 400, 300)

	svc := NewImageService()
	res := model.Resolution{Width: 200, Height: 100}

	for _, method := range Methods {
		t.Run(method, func(t *testing.T) {
			dst := filepath.Join(dir, method+".thumb.jpg")
			require.NoError(t, svc.Resize(context.Background(), src, dst, res, 75, method))

			w, h := jpegSize(t, dst)
			assert.Equal(t, 200, w)
			assert.Equal(t, 150, h)
		})
	}
}

func TestImageService_Resize_NeverEnlarges(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "small.jpg")
	dst := filepath.Join(dir, "small.disp.jpg")
	writeJPEG(t, src, 300, 200)

	svc := NewImageService()
	require.NoError(t, svc.Resize(context.Background(), src, dst,
		model.Resolution{Width: 2560, Height: 1440}, 75, MethodLanczos3))

	w, h := jpegSize(t, dst)
	assert.Equal(t, 300, w)
	assert.Equal(t, 200, h)
}

func TestImageService_Recode(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.jpg")
	dst := filepath.Join(dir, "a.full.jpg")
	writeJPEG(t, src, 320, 240)

	require.NoError(t, NewImageService().Recode(context.Background(), src, dst, 50))

	w, h := jpegSize(t, dst)
	assert.Equal(t, 320, w)
	assert.Equal(t, 240, h)
}

func TestImageService_CorruptSource(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "broken.jpg")
	dst := filepath.Join(dir, "broken.thumb.jpg")
	require.NoError(t, os.WriteFile(src, []byte("not a jpeg at all"), 0644))

	err := NewImageService().Resize(context.Background(), src, dst,
		model.Resolution{Width: 200, Height: 200}, 75, MethodCubic)
	require.Error(t, err)
	assert.False(t, FileExists(dst))
}

func TestImageService_Cancelled(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.jpg")
	writeJPEG(t, src, 200, 200)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewImageService().Recode(ctx, src, filepath.Join(dir, "b.jpg"), 75)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOrient(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 2))

	tests := []struct {
		orientation int
		wantWidth   int
		wantHeight  int
	}{
		{1, 4, 2},
		{2, 4, 2},
		{3, 4, 2},
		{4, 4, 2},
		{5, 2, 4},
		{6, 2, 4},
		{7, 2, 4},
		{8, 2, 4},
		{0, 4, 2},
	}

	for _, tt := range tests {
		b := orient(img, tt.orientation).Bounds()
		assert.Equal(t, tt.wantWidth, b.Dx(), "orientation %d", tt.orientation)
		assert.Equal(t, tt.wantHeight, b.Dy(), "orientation %d", tt.orientation)
	}
}

func TestOrientation_NoExif(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.jpg")
	writeJPEG(t, path, 10, 10)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, orientation(data))
}
