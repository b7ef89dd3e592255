package blp

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/woozymasta/bcn"
)

const (
	// Magic opens every BLP2 file.
	Magic = "BLP2"

	// MaxMipMaps is the number of mipmap slots in a BLP2 header.
	MaxMipMaps = 16

	// PaletteSize is the number of BGRA entries in the palette block.
	PaletteSize = 256

	// headerSize covers magic through the mip size table.
	headerSize = 4 + 4 + 4 + 4*2 + MaxMipMaps*4*2
	// dataStart is where payloads may begin: header plus palette.
	dataStart = headerSize + PaletteSize*4
)

// Content kinds stored in Header.Type.
const (
	TypeJPEG   uint32 = 0
	TypeDirect uint32 = 1
)

// Compression is the BLP2 payload encoding of a direct texture.
type Compression uint8

const (
	// CompressionPalette stores 8-bit palette indices followed by an alpha plane.
	CompressionPalette Compression = 1
	// CompressionDXT stores DXT1, DXT3 or DXT5 blocks selected by alpha depth/type.
	CompressionDXT Compression = 2
	// CompressionRaw stores uncompressed BGRA pixels.
	CompressionRaw Compression = 3
)

// String returns a short name of the compression.
func (c Compression) String() string {
	switch c {
	case CompressionPalette:
		return "palette"
	case CompressionDXT:
		return "dxt"
	case CompressionRaw:
		return "raw"
	default:
		return fmt.Sprintf("compression(%d)", uint8(c))
	}
}

// Alpha types used with CompressionDXT.
const (
	AlphaTypeDXT1 uint8 = 0
	AlphaTypeDXT3 uint8 = 1
	AlphaTypeDXT5 uint8 = 7
)

// Header is the fixed part of a BLP2 file that follows the magic.
type Header struct {
	Type        uint32
	Compression Compression
	AlphaDepth  uint8
	AlphaType   uint8
	HasMips     uint8
	Width       uint32
	Height      uint32
	MipOffsets  [MaxMipMaps]uint32
	MipSizes    [MaxMipMaps]uint32
}

// Palette holds 256 BGRA entries of a palette-compressed texture.
type Palette [PaletteSize][4]byte

// MipMapCount returns the number of usable mipmap levels.
// Level 0 always counts; further levels need a non-zero offset and size.
func (h *Header) MipMapCount() int {
	if h.HasMips == 0 {
		return 1
	}

	count := 1
	for i := 1; i < MaxMipMaps; i++ {
		if h.MipOffsets[i] == 0 || h.MipSizes[i] == 0 {
			break
		}
		count++
	}

	return count
}

// Format maps the header to the bcn block format of its payload.
// Palette textures have no bcn equivalent and report bcn.FormatUnknown.
func (h *Header) Format() (bcn.Format, error) {
	if h.Type != TypeDirect {
		return bcn.FormatUnknown, fmt.Errorf("%w: content type %d", ErrUnsupportedCompression, h.Type)
	}

	switch h.Compression {
	case CompressionPalette:
		switch h.AlphaDepth {
		case 0, 1, 4, 8:
			return bcn.FormatUnknown, nil
		default:
			return bcn.FormatUnknown, fmt.Errorf("%w: %d", ErrUnsupportedAlphaDepth, h.AlphaDepth)
		}
	case CompressionDXT:
		if h.AlphaDepth <= 1 {
			return bcn.FormatDXT1, nil
		}
		if h.AlphaType == AlphaTypeDXT5 {
			return bcn.FormatDXT5, nil
		}
		return bcn.FormatDXT3, nil
	case CompressionRaw:
		return bcn.FormatBGRA8, nil
	default:
		return bcn.FormatUnknown, fmt.Errorf("%w: %s", ErrUnsupportedCompression, h.Compression)
	}
}

// readHeader reads magic and header from r.
func readHeader(r io.Reader) (*Header, error) {
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, fmt.Errorf("%w: magic: %v", ErrHeaderRead, err)
	}
	if string(magic[:]) != Magic {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMagic, magic[:])
	}

	h := new(Header)
	if err := binary.Read(r, binary.LittleEndian, h); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHeaderRead, err)
	}
	if h.Width == 0 || h.Height == 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, h.Width, h.Height)
	}

	return h, nil
}

// readPalette reads the palette block that follows a direct texture header.
func readPalette(r io.Reader) (*Palette, error) {
	p := new(Palette)
	if err := binary.Read(r, binary.LittleEndian, p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPaletteRead, err)
	}

	return p, nil
}

// writeHeader writes magic, header and palette.
func writeHeader(w io.Writer, h *Header, p *Palette) error {
	if _, err := io.WriteString(w, Magic); err != nil {
		return fmt.Errorf("%w: magic: %v", ErrWriteHeader, err)
	}
	if err := binary.Write(w, binary.LittleEndian, h); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteHeader, err)
	}
	if p == nil {
		p = new(Palette)
	}
	if err := binary.Write(w, binary.LittleEndian, p); err != nil {
		return fmt.Errorf("%w: palette: %v", ErrWriteHeader, err)
	}

	return nil
}
