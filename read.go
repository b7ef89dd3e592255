package blp

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"

	"github.com/woozymasta/bcn"
)

// ReadOptions configures BLP decoding.
type ReadOptions struct {
	// DecodeOptions are passed to the BCn decoder (e.g. Workers).
	DecodeOptions *bcn.DecodeOptions
	// MipLevel selects the level to decode; 0 is the largest.
	MipLevel int
}

func init() {
	image.RegisterFormat("blp", Magic, Decode, DecodeConfig)
}

// DecodeHeader reads the BLP2 header without decoding pixel data.
func DecodeHeader(r io.Reader) (*Header, error) {
	return readHeader(r)
}

// DecodeConfig returns the dimensions of a BLP2 stream.
func DecodeConfig(r io.Reader) (image.Config, error) {
	h, err := readHeader(r)
	if err != nil {
		return image.Config{}, err
	}

	width, err := intFromU32(h.Width)
	if err != nil {
		return image.Config{}, err
	}
	height, err := intFromU32(h.Height)
	if err != nil {
		return image.Config{}, err
	}

	return image.Config{
		Width:      width,
		Height:     height,
		ColorModel: color.NRGBAModel,
	}, nil
}

// ReadConfig reads BLP file configuration without decoding image data.
func ReadConfig(path string) (image.Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return image.Config{}, fmt.Errorf("%w: %q: %v", ErrOpenFile, path, err)
	}
	defer func() { _ = f.Close() }()

	return DecodeConfig(f)
}

// Decode decodes the largest mip level of a BLP2 stream.
func Decode(r io.Reader) (image.Image, error) {
	return DecodeWithOptions(r, nil)
}

// DecodeWithOptions decodes one mip level of a BLP2 stream into an *image.NRGBA.
func DecodeWithOptions(r io.Reader, opts *ReadOptions) (image.Image, error) {
	bgra, width, height, err := DecodeBGRA(r, opts)
	if err != nil {
		return nil, err
	}

	return bgraToImage(bgra, width, height), nil
}

// Read reads and decodes a BLP file into an image.
func Read(path string) (image.Image, error) {
	return ReadWithOptions(path, nil)
}

// ReadWithOptions reads and decodes a BLP file with the given options.
func ReadWithOptions(path string, opts *ReadOptions) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrOpenFile, path, err)
	}
	defer func() { _ = f.Close() }()

	return DecodeWithOptions(f, opts)
}

// DecodeBGRA decodes one mip level of a BLP2 stream into tightly packed BGRA bytes.
// Nil opts decodes level 0 with default bcn options.
func DecodeBGRA(r io.Reader, opts *ReadOptions) ([]byte, int, int, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("%w: %v", ErrReadData, err)
	}

	return decodeBytes(data, opts)
}

// decodeBytes decodes a whole in-memory BLP2 file.
func decodeBytes(data []byte, opts *ReadOptions) ([]byte, int, int, error) {
	if opts == nil {
		opts = &ReadOptions{}
	}

	br := bytes.NewReader(data)
	h, err := readHeader(br)
	if err != nil {
		return nil, 0, 0, err
	}

	format, err := h.Format()
	if err != nil {
		return nil, 0, 0, err
	}

	palette, err := readPalette(br)
	if err != nil {
		return nil, 0, 0, err
	}

	level := opts.MipLevel
	if level < 0 || level >= h.MipMapCount() {
		return nil, 0, 0, fmt.Errorf("%w: %d of %d", ErrMipLevelOutOfRange, level, h.MipMapCount())
	}

	baseW, err := intFromU32(h.Width)
	if err != nil {
		return nil, 0, 0, err
	}
	baseH, err := intFromU32(h.Height)
	if err != nil {
		return nil, 0, 0, err
	}
	width := mipDimension(baseW, level)
	height := mipDimension(baseH, level)

	mip, err := mipPayload(data, h, format, level, width, height)
	if err != nil {
		return nil, 0, 0, err
	}

	switch {
	case h.Compression == CompressionPalette:
		bgra, err := decodePalette(mip, palette, h.AlphaDepth, width*height)
		if err != nil {
			return nil, 0, 0, err
		}
		return bgra, width, height, nil

	case format == bcn.FormatBGRA8:
		bgra := make([]byte, len(mip))
		copy(bgra, mip)
		return bgra, width, height, nil

	default:
		img, err := bcn.DecodeImageWithOptions(mip, width, height, format, opts.DecodeOptions)
		if err != nil {
			return nil, 0, 0, fmt.Errorf("%w: %v", ErrDecodeImage, err)
		}
		return imageToBGRA(img), width, height, nil
	}
}

// mipPayload slices the payload of one level out of data and checks its size.
func mipPayload(data []byte, h *Header, format bcn.Format, level, width, height int) ([]byte, error) {
	expected := mipDataLength(h, format, width, height)
	if expected <= 0 {
		return nil, fmt.Errorf("%w: level %d", ErrUnsupportedCompression, level)
	}

	offset := uint64(h.MipOffsets[level])
	size := uint64(h.MipSizes[level])
	if offset+size > uint64(len(data)) {
		return nil, fmt.Errorf("%w: level %d: offset %d size %d, file %d",
			ErrMipOutOfBounds, level, offset, size, len(data))
	}
	// Some exporters pad levels; trailing bytes are ignored.
	if size < uint64(expected) {
		return nil, fmt.Errorf("%w: level %d: expected %d, got %d", ErrMipSizeMismatch, level, expected, size)
	}

	return data[offset : offset+uint64(expected)], nil
}
