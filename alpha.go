package blp

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"
)

// AlphaMapSize is the edge length of a terrain chunk coverage mask.
const AlphaMapSize = 64

// AlphaFilter selects how a coverage mask is scaled up to texture resolution.
type AlphaFilter int

const (
	// AlphaNearest replicates each mask byte over its block of pixels.
	AlphaNearest AlphaFilter = iota
	// AlphaBilinear interpolates linearly between mask samples.
	AlphaBilinear
	// AlphaCubic uses Catmull-Rom interpolation, which is what the client does.
	AlphaCubic
)

// String returns the filter name.
func (f AlphaFilter) String() string {
	switch f {
	case AlphaNearest:
		return "nearest"
	case AlphaBilinear:
		return "bilinear"
	case AlphaCubic:
		return "cubic"
	default:
		return fmt.Sprintf("AlphaFilter(%d)", int(f))
	}
}

// ParseAlphaFilter parses a filter name as printed by String.
func ParseAlphaFilter(s string) (AlphaFilter, error) {
	switch s {
	case "", "nearest":
		return AlphaNearest, nil
	case "bilinear", "linear":
		return AlphaBilinear, nil
	case "cubic", "catmullrom":
		return AlphaCubic, nil
	default:
		return AlphaNearest, fmt.Errorf("%w: %q", ErrUnknownFilter, s)
	}
}

// ExpandAlpha writes mask, a 64x64 coverage map, into the alpha byte of every
// 4-byte pixel of dst, scaled to width x height.
// Masks that are not exactly AlphaMapSize*AlphaMapSize bytes leave dst untouched
// and report false.
func ExpandAlpha(dst []byte, width, height int, mask []byte, filter AlphaFilter) (bool, error) {
	if len(mask) != AlphaMapSize*AlphaMapSize {
		return false, nil
	}
	if len(dst) != width*height*4 {
		return false, fmt.Errorf("%w: expected %d, got %d", ErrPixelSizeMismatch, width*height*4, len(dst))
	}

	switch filter {
	case AlphaNearest:
		expandNearest(dst, width, height, mask)
		return true, nil
	case AlphaBilinear:
		expandScaled(dst, width, height, mask, draw.BiLinear)
		return true, nil
	case AlphaCubic:
		expandScaled(dst, width, height, mask, draw.CatmullRom)
		return true, nil
	default:
		return false, fmt.Errorf("%w: %d", ErrUnknownFilter, int(filter))
	}
}

// expandNearest maps each destination pixel back to its mask cell.
// For a 256x256 texture every mask byte covers a 4x4 block.
func expandNearest(dst []byte, width, height int, mask []byte) {
	for y := 0; y < height; y++ {
		row := (y * AlphaMapSize / height) * AlphaMapSize
		pos := y*width*4 + 3
		for x := 0; x < width; x++ {
			dst[pos] = mask[row+x*AlphaMapSize/width]
			pos += 4
		}
	}
}

// expandScaled resamples the mask as a gray image with an x/image/draw kernel.
func expandScaled(dst []byte, width, height int, mask []byte, scaler draw.Scaler) {
	src := &image.Gray{
		Pix:    mask,
		Stride: AlphaMapSize,
		Rect:   image.Rect(0, 0, AlphaMapSize, AlphaMapSize),
	}
	scaled := image.NewGray(image.Rect(0, 0, width, height))
	scaler.Scale(scaled, scaled.Bounds(), src, src.Bounds(), draw.Src, nil)

	for i, a := range scaled.Pix {
		dst[i*4+3] = a
	}
}
