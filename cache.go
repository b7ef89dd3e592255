package blp

import (
	"bufio"
	"crypto/sha1"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	cacheMagic = "BLPC"
	cacheExt   = ".blpc"
)

// Cache keeps decoded BGRA pixels of archive textures on disk.
// Entries are LZ4 chunk streams keyed by the normalized archive name.
// Concurrent Get and Put are safe: entries are written to a temporary file
// and renamed into place.
type Cache struct {
	Dir string
}

// NewCache returns a cache in dir, creating the directory if needed.
func NewCache(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrCreateFile, dir, err)
	}

	return &Cache{Dir: dir}, nil
}

// path returns the entry file for name.
func (c *Cache) path(name string) (string, error) {
	key, err := NormalizeName(name)
	if err != nil {
		return "", err
	}

	sum := sha1.Sum([]byte(key))
	return filepath.Join(c.Dir, hex.EncodeToString(sum[:])+cacheExt), nil
}

// Get returns the cached pixels and dimensions of name, or ErrCacheMiss.
func (c *Cache) Get(name string) ([]byte, int, int, error) {
	p, err := c.path(name)
	if err != nil {
		return nil, 0, 0, err
	}

	f, err := os.Open(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, 0, 0, fmt.Errorf("%w: %q", ErrCacheMiss, name)
		}
		return nil, 0, 0, fmt.Errorf("%w: %q: %v", ErrOpenFile, p, err)
	}
	defer func() { _ = f.Close() }()

	r := bufio.NewReader(f)

	var head struct {
		Magic  [4]byte
		Width  uint32
		Height uint32
	}
	if err := binary.Read(r, binary.LittleEndian, &head); err != nil {
		return nil, 0, 0, fmt.Errorf("%w: %q: %v", ErrCacheEntryCorrupt, name, err)
	}
	if string(head.Magic[:]) != cacheMagic {
		return nil, 0, 0, fmt.Errorf("%w: %q: magic %q", ErrCacheEntryCorrupt, name, head.Magic[:])
	}

	width, err := intFromU32(head.Width)
	if err != nil {
		return nil, 0, 0, err
	}
	height, err := intFromU32(head.Height)
	if err != nil {
		return nil, 0, 0, err
	}

	block, err := readBlock(r)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("%q: %w", name, err)
	}

	pixels, err := unpackBlock(block, width*height*4)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("%w: %q: %w", ErrCacheEntryCorrupt, name, err)
	}

	return pixels, width, height, nil
}

// Put stores pixels of a width x height texture under name.
func (c *Cache) Put(name string, width, height int, pixels []byte) error {
	if len(pixels) != width*height*4 {
		return fmt.Errorf("%w: %q: expected %d, got %d", ErrPixelSizeMismatch, name, width*height*4, len(pixels))
	}

	p, err := c.path(name)
	if err != nil {
		return err
	}
	w32, err := u32FromInt(width)
	if err != nil {
		return err
	}
	h32, err := u32FromInt(height)
	if err != nil {
		return err
	}

	block, err := packBlock(pixels)
	if err != nil {
		return fmt.Errorf("%w: %q: %w", ErrCacheWrite, name, err)
	}

	tmp, err := os.CreateTemp(c.Dir, "entry-*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCacheWrite, err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	bw := bufio.NewWriter(tmp)
	_, err = bw.WriteString(cacheMagic)
	if err == nil {
		err = binary.Write(bw, binary.LittleEndian, [2]uint32{w32, h32})
	}
	if err == nil {
		err = writeBlock(bw, block)
	}
	if err == nil {
		err = bw.Flush()
	}
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrCacheWrite, name, err)
	}

	if err := os.Rename(tmp.Name(), p); err != nil {
		return fmt.Errorf("%w: %q: %v", ErrCacheWrite, name, err)
	}

	return nil
}

// Remove deletes the entry for name. Missing entries are not an error.
func (c *Cache) Remove(name string) error {
	p, err := c.path(name)
	if err != nil {
		return err
	}

	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %q: %v", ErrCacheWrite, name, err)
	}

	return nil
}
