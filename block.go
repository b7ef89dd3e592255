package blp

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"
)

const (
	// BlockMagicCOPY marks an uncompressed payload block.
	BlockMagicCOPY = "COPY"
	// BlockMagicLZ4 marks an LZ4 chunk-stream payload block.
	BlockMagicLZ4 = "LZ4 "

	// ChunkSize is the uncompressed size of one LZ4 chunk and of the rolling dictionary.
	ChunkSize = 64 * 1024

	// minCompressSize is the payload size below which blocks are stored as COPY.
	minCompressSize = 1024
	// maxCompressRatio is the compressed/raw ratio above which COPY is used instead.
	maxCompressRatio = 0.85

	chunkLastFlag = 0x80
	maxChunkSize  = 0x7FFFFF
)

// payloadBlock is one stored pixel payload.
// LZ4 blocks carry a chunk stream: each chunk is a 3-byte little-endian
// compressed size, a flag byte (0x80 on the last chunk) and the LZ4 block,
// compressed against the previous 64 KiB of output.
type payloadBlock struct {
	Magic  string
	Raw    int32
	Stream []byte
}

// packBlock stores data as an LZ4 chunk stream, or as COPY when that does not pay off.
func packBlock(data []byte) (*payloadBlock, error) {
	raw, err := i32FromInt(len(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %d bytes", ErrInputTooLarge, len(data))
	}

	copyBlock := &payloadBlock{Magic: BlockMagicCOPY, Raw: raw, Stream: data}
	if len(data) < minCompressSize {
		return copyBlock, nil
	}

	var stream bytes.Buffer
	scratch := make([]byte, lz4.CompressBlockBound(ChunkSize))

	for start := 0; start < len(data); start += ChunkSize {
		end := min(start+ChunkSize, len(data))
		chunk := data[start:end]

		n, err := lz4.CompressBlockHC(chunk, scratch, 0, nil, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLZ4Compress, err)
		}
		if n == 0 || float64(n) > float64(len(chunk))*maxCompressRatio {
			return copyBlock, nil
		}
		if n > maxChunkSize {
			return nil, fmt.Errorf("%w: %d", ErrChunkTooLarge, n)
		}

		flags := byte(0)
		if end == len(data) {
			flags = chunkLastFlag
		}
		stream.Write([]byte{byte(n), byte(n >> 8), byte(n >> 16), flags})
		stream.Write(scratch[:n])
	}

	if stream.Len() > maxInt32 {
		return nil, fmt.Errorf("%w: %d bytes", ErrCompressedDataTooLarge, stream.Len())
	}
	if float64(stream.Len()) > float64(len(data))*maxCompressRatio {
		return copyBlock, nil
	}

	return &payloadBlock{Magic: BlockMagicLZ4, Raw: raw, Stream: stream.Bytes()}, nil
}

// unpackBlock restores the raw payload of b, which must be want bytes long.
func unpackBlock(b *payloadBlock, want int) ([]byte, error) {
	switch b.Magic {
	case BlockMagicCOPY:
		if len(b.Stream) != want {
			return nil, fmt.Errorf("%w: expected %d, got %d", ErrCopySizeMismatch, want, len(b.Stream))
		}
		out := make([]byte, want)
		copy(out, b.Stream)
		return out, nil
	case BlockMagicLZ4:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBlockMagic, b.Magic)
	}

	if want <= 0 || int(b.Raw) != want {
		return nil, fmt.Errorf("%w: header %d, expected %d", ErrInvalidTargetSize, b.Raw, want)
	}

	out := make([]byte, want)
	outIdx := 0
	r := bytes.NewReader(b.Stream)

	for {
		var hdr [4]byte
		if r.Len() < len(hdr) {
			return nil, fmt.Errorf("%w: need 4 bytes header, have %d", ErrChunkStreamTruncated, r.Len())
		}
		if _, err := io.ReadFull(r, hdr[:]); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrChunkHeaderRead, err)
		}

		size := int(hdr[0]) | int(hdr[1])<<8 | int(hdr[2])<<16
		flags := hdr[3]
		if flags&^chunkLastFlag != 0 {
			return nil, fmt.Errorf("%w: 0x%02x", ErrUnknownLZ4Flags, flags)
		}
		if size <= 0 || size > r.Len() {
			return nil, fmt.Errorf("%w: %d (remaining %d)", ErrInvalidChunkSize, size, r.Len())
		}

		compressed := make([]byte, size)
		if _, err := io.ReadFull(r, compressed); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrChunkDataRead, err)
		}

		if outIdx >= want {
			return nil, ErrDecodeOverrun
		}
		dst := out[outIdx:min(outIdx+ChunkSize, want)]
		dict := out[max(0, outIdx-ChunkSize):outIdx]

		n, err := lz4.UncompressBlockWithDict(compressed, dst, dict)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLZ4Decode, err)
		}
		outIdx += n

		if flags&chunkLastFlag != 0 {
			break
		}
	}

	if outIdx != want {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrDecodedSizeMismatch, want, outIdx)
	}
	if r.Len() != 0 {
		return nil, fmt.Errorf("%w: %d bytes left after decode", ErrBlockLengthMismatch, r.Len())
	}

	return out, nil
}

// writeBlock writes the block magic, stream size, raw size and stream.
func writeBlock(w io.Writer, b *payloadBlock) error {
	size, err := i32FromInt(len(b.Stream))
	if err != nil {
		return err
	}

	if _, err := io.WriteString(w, b.Magic); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, [2]int32{size, b.Raw}); err != nil {
		return err
	}
	_, err = w.Write(b.Stream)
	return err
}

// readBlock reads a block written by writeBlock.
func readBlock(r io.Reader) (*payloadBlock, error) {
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, fmt.Errorf("%w: block magic: %v", ErrCacheEntryCorrupt, err)
	}

	var sizes [2]int32
	if err := binary.Read(r, binary.LittleEndian, &sizes); err != nil {
		return nil, fmt.Errorf("%w: block sizes: %v", ErrCacheEntryCorrupt, err)
	}
	if sizes[0] < 0 || sizes[1] < 0 {
		return nil, fmt.Errorf("%w: negative block size", ErrCacheEntryCorrupt)
	}

	stream := make([]byte, sizes[0])
	if _, err := io.ReadFull(r, stream); err != nil {
		return nil, fmt.Errorf("%w: block body: %v", ErrCacheEntryCorrupt, err)
	}

	return &payloadBlock{Magic: string(magic[:]), Raw: sizes[1], Stream: stream}, nil
}
