package ioutils

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"math"
	"os"

	"github.com/disintegration/imaging"
	"github.com/handiism/static-gallery/internal/model"
	"github.com/rwcarlsen/goexif/exif"
	"golang.org/x/image/draw"
)

// Resize methods accepted by ImageService.Resize.
const (
	MethodLanczos3 = "lanczos3"
	MethodGaussian = "gaussian"
	MethodNearest  = "nearest"
	MethodCubic    = "cubic"
	MethodLinear   = "linear"
)

// Methods lists every supported resize method name.
var Methods = []string{MethodLanczos3, MethodGaussian, MethodNearest, MethodCubic, MethodLinear}

// lanczos3 is the windowed sinc filter with a support of three lobes.
var lanczos3 = &draw.Kernel{Support: 3, At: func(t float64) float64 {
	if t < 0 {
		t = -t
	}
	if t >= 3 {
		return 0
	}
	return sinc(t) * sinc(t/3)
}}

// gaussian matches the Gaussian filter of common image libraries.
var gaussian = &draw.Kernel{Support: 2, At: func(t float64) float64 {
	if t < 0 {
		t = -t
	}
	if t >= 2 {
		return 0
	}
	return math.Exp(-2 * t * t)
}}

func sinc(x float64) float64 {
	if x == 0 {
		return 1
	}
	x *= math.Pi
	return math.Sin(x) / x
}

// ScalerFor returns the scaler implementing the named resize method.
func ScalerFor(method string) (draw.Scaler, error) {
	switch method {
	case MethodLanczos3:
		return lanczos3, nil
	case MethodGaussian:
		return gaussian, nil
	case MethodNearest:
		return draw.NearestNeighbor, nil
	case MethodCubic:
		return draw.CatmullRom, nil
	case MethodLinear:
		return draw.BiLinear, nil
	default:
		return nil, fmt.Errorf("unknown resize method %q", method)
	}
}

// ImageService renders gallery artifacts from source photographs.
//
// ImageService is used to:
//   - Scale photographs into thumbnail, display and background renditions
//   - Re-encode the full-size rendition at the configured JPEG quality
//
// Both operations apply the EXIF orientation of the source, so the rendered
// artifacts are always upright and carry no orientation tag of their own.
//
// ImageService holds no state and is safe for concurrent use.
//
// Example usage:
//
//	svc := NewImageService()
//	err := svc.Resize(ctx, "trip/a.jpg", "out/p/42.thumb.jpg",
//	    model.Resolution{Width: 960, Height: 540}, 75, MethodLanczos3)
type ImageService struct{}

// NewImageService creates a new ImageService.
func NewImageService() *ImageService {
	return &ImageService{}
}

// Resize decodes src, scales it to cover res and writes it to dst as JPEG.
//
// The aspect ratio is preserved and the result is at least as large as res
// in both dimensions, unless the source itself is smaller. Images are never
// enlarged.
//
// Parameters:
//   - ctx: Checked before any work is done
//   - src: Source photograph
//   - dst: Artifact path, replaced atomically
//   - res: Bounding box to cover
//   - quality: JPEG quality, 1-100
//   - method: One of the Method* constants
//
// Example:
//
//	// Cover 960x540
//	// A 4000x3000 image becomes 960x720
//	// A 3000x4000 image becomes 540x720
//	err := svc.Resize(ctx, src, dst, model.Resolution{Width: 960, Height: 540}, 75, MethodCubic)
func (s *ImageService) Resize(ctx context.Context, src, dst string, res model.Resolution, quality int, method string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	scaler, err := ScalerFor(method)
	if err != nil {
		return err
	}

	img, err := s.decode(src)
	if err != nil {
		return err
	}

	return s.encode(dst, ResizeImage(img, res, scaler), quality)
}

// Recode decodes src and writes it to dst as JPEG without scaling.
//
// Example:
//
//	err := svc.Recode(ctx, "trip/a.jpg", "out/p/42.jpg", 75)
func (s *ImageService) Recode(ctx context.Context, src, dst string, quality int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	img, err := s.decode(src)
	if err != nil {
		return err
	}

	return s.encode(dst, img, quality)
}

// ResizeImage scales img so it covers res while keeping its aspect ratio.
//
// An image that already fits inside res in either dimension is returned
// unchanged.
func ResizeImage(img image.Image, res model.Resolution, scaler draw.Scaler) image.Image {
	bounds := img.Bounds()
	width, height := CoverSize(bounds.Dx(), bounds.Dy(), res)
	if width == bounds.Dx() && height == bounds.Dy() {
		return img
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	scaler.Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)
	return dst
}

// CoverSize returns the dimensions of a width x height image scaled down so
// that it still covers res.
func CoverSize(width, height int, res model.Resolution) (int, int) {
	if width <= 0 || height <= 0 {
		return width, height
	}

	scale := math.Max(
		float64(res.Width)/float64(width),
		float64(res.Height)/float64(height),
	)
	if scale >= 1 {
		return width, height
	}

	newWidth := max(1, int(math.Round(float64(width)*scale)))
	newHeight := max(1, int(math.Round(float64(height)*scale)))
	return newWidth, newHeight
}

// decode reads src and applies its EXIF orientation.
func (s *ImageService) decode(src string) (image.Image, error) {
	data, err := os.ReadFile(src)
	if err != nil {
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", src, err)
	}

	return orient(img, orientation(data)), nil
}

// encode writes img to dst as JPEG through a temporary file.
func (s *ImageService) encode(dst string, img image.Image, quality int) error {
	return writeAtomic(dst, func(w io.Writer) error {
		return jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
	})
}

// orientation returns the EXIF orientation of a JPEG, or 1 when the file
// carries no usable EXIF data.
func orientation(data []byte) int {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	value, err := tag.Int(0)
	if err != nil {
		return 1
	}
	return value
}

// orient transforms img so that EXIF orientation o is displayed upright.
func orient(img image.Image, o int) image.Image {
	switch o {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.Transpose(img)
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.Transverse(img)
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}
