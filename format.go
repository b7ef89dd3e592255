package blp

import (
	"fmt"
	"image"

	"github.com/woozymasta/bcn"
	"golang.org/x/image/draw"
)

// expectedDataLength returns the payload size of one mip level, or -1 if unknown.
func expectedDataLength(format bcn.Format, width, height int) int {
	blocksW := (width + 3) / 4
	blocksH := (height + 3) / 4
	switch format {
	case bcn.FormatDXT1:
		return blocksW * blocksH * 8
	case bcn.FormatDXT3, bcn.FormatDXT5:
		return blocksW * blocksH * 16
	case bcn.FormatRGBA8, bcn.FormatBGRA8:
		return width * height * 4
	default:
		return -1
	}
}

// paletteDataLength returns the size of index plus alpha plane for n pixels.
func paletteDataLength(alphaDepth uint8, n int) int {
	switch alphaDepth {
	case 0:
		return n
	case 1:
		return n + (n+7)/8
	case 4:
		return n + (n+1)/2
	case 8:
		return n * 2
	default:
		return -1
	}
}

// mipDataLength returns the payload size of a mip level described by h.
func mipDataLength(h *Header, format bcn.Format, width, height int) int {
	if h.Compression == CompressionPalette {
		return paletteDataLength(h.AlphaDepth, width*height)
	}

	return expectedDataLength(format, width, height)
}

// decodePalette expands palette indices and the trailing alpha plane into BGRA.
func decodePalette(data []byte, p *Palette, alphaDepth uint8, n int) ([]byte, error) {
	want := paletteDataLength(alphaDepth, n)
	if want < 0 {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedAlphaDepth, alphaDepth)
	}
	if len(data) < want {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrMipSizeMismatch, want, len(data))
	}

	out := make([]byte, n*4)
	alpha := data[n:]
	for i := 0; i < n; i++ {
		c := p[data[i]]
		o := i * 4
		out[o+0] = c[0]
		out[o+1] = c[1]
		out[o+2] = c[2]

		switch alphaDepth {
		case 0:
			out[o+3] = 0xff
		case 1:
			if alpha[i/8]&(1<<(i%8)) != 0 {
				out[o+3] = 0xff
			}
		case 4:
			nib := alpha[i/2] >> ((i % 2) * 4) & 0x0f
			out[o+3] = nib | nib<<4
		case 8:
			out[o+3] = alpha[i]
		}
	}

	return out, nil
}

// toNRGBA returns img as a zero-origin, tightly packed *image.NRGBA.
func toNRGBA(img image.Image) *image.NRGBA {
	b := img.Bounds()
	if n, ok := img.(*image.NRGBA); ok && b.Min == (image.Point{}) && n.Stride == b.Dx()*4 {
		return n
	}

	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}

// swizzleRB swaps bytes 0 and 2 of every 4-byte pixel, converting RGBA<->BGRA.
func swizzleRB(src []byte) []byte {
	out := make([]byte, len(src))
	for i := 0; i+3 < len(src); i += 4 {
		out[i+0] = src[i+2]
		out[i+1] = src[i+1]
		out[i+2] = src[i+0]
		out[i+3] = src[i+3]
	}

	return out
}

// imageToBGRA converts any image into tightly packed BGRA bytes.
func imageToBGRA(img image.Image) []byte {
	return swizzleRB(toNRGBA(img).Pix)
}

// bgraToImage wraps BGRA bytes into a new *image.NRGBA.
func bgraToImage(bgra []byte, width, height int) *image.NRGBA {
	return &image.NRGBA{
		Pix:    swizzleRB(bgra),
		Stride: width * 4,
		Rect:   image.Rect(0, 0, width, height),
	}
}
