package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// MinResolution is the smallest resolution accepted for any rendition.
var MinResolution = Resolution{Width: 150, Height: 150}

// ErrInvalidResolution is returned when a resolution string cannot be parsed.
var ErrInvalidResolution = errors.New("invalid resolution, must be in format WxH")

// Resolution is the bounding box a rendition is scaled into.
type Resolution struct {
	Width  uint32 `json:"width"`
	Height uint32 `json:"height"`
}

// ParseResolution parses a "WxH" string such as "2560x1440".
//
// Both dimensions must be at least MinResolution.
func ParseResolution(s string) (Resolution, error) {
	parts := strings.Split(s, "x")
	if len(parts) != 2 {
		return Resolution{}, fmt.Errorf("%w: %q", ErrInvalidResolution, s)
	}

	width, err := strconv.ParseUint(strings.TrimSpace(parts[0]), 10, 32)
	if err != nil {
		return Resolution{}, fmt.Errorf("%w: %q", ErrInvalidResolution, s)
	}
	height, err := strconv.ParseUint(strings.TrimSpace(parts[1]), 10, 32)
	if err != nil {
		return Resolution{}, fmt.Errorf("%w: %q", ErrInvalidResolution, s)
	}

	if uint32(width) < MinResolution.Width || uint32(height) < MinResolution.Height {
		return Resolution{}, fmt.Errorf("resolution %q too low, minimum is %s", s, MinResolution)
	}

	return Resolution{Width: uint32(width), Height: uint32(height)}, nil
}

// String returns the resolution in "WxH" form.
func (r Resolution) String() string {
	return fmt.Sprintf("%dx%d", r.Width, r.Height)
}
