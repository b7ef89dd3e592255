package blp

import (
	"bufio"
	"fmt"
	"image"
	"io"
	"os"

	"github.com/woozymasta/bcn"
)

// WriteOptions configures BLP2 encoding.
type WriteOptions struct {
	// Format is one of bcn.FormatDXT1, bcn.FormatDXT3, bcn.FormatDXT5 or bcn.FormatBGRA8.
	// bcn.FormatUnknown selects DXT5.
	Format bcn.Format
	// MaxMipMaps limits the mip chain; 0 means full chain (at most MaxMipMaps levels).
	MaxMipMaps int
	// EncodeOptions are passed to the BCn encoder.
	EncodeOptions *bcn.EncodeOptions
}

// Write writes a DXT5 BLP2 file with a full mip chain.
func Write(img image.Image, path string) error {
	return WriteWithOptions(img, path, nil)
}

// WriteWithOptions writes a BLP2 file with the given options.
func WriteWithOptions(img image.Image, path string, opts *WriteOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrCreateFile, path, err)
	}

	bw := bufio.NewWriter(f)
	if err := Encode(bw, img, opts); err != nil {
		_ = f.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("%w: %v", ErrWriteMipmap, err)
	}

	return f.Close()
}

// Encode writes img to w as a BLP2 texture.
func Encode(w io.Writer, img image.Image, opts *WriteOptions) error {
	if opts == nil {
		opts = &WriteOptions{}
	}
	format := opts.Format
	if format == bcn.FormatUnknown {
		format = bcn.FormatDXT5
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}

	mipMapCount, err := calculateMipMapCount(width, height)
	if err != nil {
		return err
	}
	if opts.MaxMipMaps > 0 && opts.MaxMipMaps < mipMapCount {
		mipMapCount = opts.MaxMipMaps
	}

	mips := bcn.GenerateMipmaps(img, false)
	if len(mips) > mipMapCount {
		mips = mips[:mipMapCount]
	}

	payloads := make([][]byte, len(mips))
	for i, mip := range mips {
		var data []byte
		if format == bcn.FormatBGRA8 {
			var src image.Image = mip
			if i == 0 {
				// Level 0 is stored from the source to keep it bit exact.
				src = img
			}
			data = imageToBGRA(src)
		} else {
			data, _, _, err = bcn.EncodeImageWithOptions(mip, format, opts.EncodeOptions)
			if err != nil {
				return fmt.Errorf("%w: mipmap %d: %v", ErrEncodeMipmap, i, err)
			}
		}
		payloads[i] = data
	}

	return EncodeFromBlocks(w, format, width, height, payloads)
}

// EncodeFromBlocks writes a BLP2 texture from pre-encoded mip payloads.
// The mipmaps slice must be ordered from largest to smallest.
func EncodeFromBlocks(w io.Writer, format bcn.Format, width, height int, mipmaps [][]byte) error {
	if len(mipmaps) == 0 {
		return ErrEmptyMipmaps
	}
	if len(mipmaps) > MaxMipMaps {
		return fmt.Errorf("%w: %d mipmaps", ErrSizeOverflow, len(mipmaps))
	}

	h, err := headerFor(format, width, height)
	if err != nil {
		return err
	}
	if len(mipmaps) > 1 {
		h.HasMips = 1
	}

	offset := uint64(dataStart)
	for i, mip := range mipmaps {
		expected := expectedDataLength(format, mipDimension(width, i), mipDimension(height, i))
		if len(mip) != expected {
			return fmt.Errorf("%w: mipmap %d: expected %d, got %d", ErrMipSizeMismatch, i, expected, len(mip))
		}

		size, err := u32FromInt(len(mip))
		if err != nil {
			return err
		}
		if offset > maxUint32 {
			return fmt.Errorf("%w: mipmap %d offset", ErrSizeOverflow, i)
		}

		h.MipOffsets[i] = uint32(offset)
		h.MipSizes[i] = size
		offset += uint64(size)
	}

	if err := writeHeader(w, h, nil); err != nil {
		return err
	}
	for i, mip := range mipmaps {
		if _, err := w.Write(mip); err != nil {
			return fmt.Errorf("%w: mipmap %d: %v", ErrWriteMipmap, i, err)
		}
	}

	return nil
}

// headerFor builds a direct-texture header for format.
func headerFor(format bcn.Format, width, height int) (*Header, error) {
	w32, err := u32FromInt(width)
	if err != nil {
		return nil, err
	}
	h32, err := u32FromInt(height)
	if err != nil {
		return nil, err
	}
	if w32 == 0 || h32 == 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}

	h := &Header{
		Type:   TypeDirect,
		Width:  w32,
		Height: h32,
	}

	switch format {
	case bcn.FormatDXT1:
		h.Compression = CompressionDXT
		h.AlphaType = AlphaTypeDXT1
	case bcn.FormatDXT3:
		h.Compression = CompressionDXT
		h.AlphaDepth = 8
		h.AlphaType = AlphaTypeDXT3
	case bcn.FormatDXT5:
		h.Compression = CompressionDXT
		h.AlphaDepth = 8
		h.AlphaType = AlphaTypeDXT5
	case bcn.FormatBGRA8:
		h.Compression = CompressionRaw
		h.AlphaDepth = 8
	default:
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, format)
	}

	return h, nil
}
