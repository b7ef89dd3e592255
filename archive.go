package blp

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
)

// Archive gives read access to game data files by their client path,
// e.g. `Tileset\Elwynn\ElwynnGrass01.blp`.
// A CASC storage reader satisfies it with a thin adapter.
type Archive interface {
	Open(name string) (io.ReadCloser, error)
}

// NormalizeName folds a client path to the form used as a lookup key:
// lower case, forward slashes, no leading slash.
func NormalizeName(name string) (string, error) {
	n := strings.ToLower(strings.ReplaceAll(name, `\`, "/"))
	n = strings.TrimLeft(n, "/")
	if n == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidName)
	}

	n = path.Clean(n)
	if !fs.ValidPath(n) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	return n, nil
}

// FSArchive serves files from an fs.FS. Names are matched after NormalizeName,
// so the file system is expected to hold lower-case paths.
type FSArchive struct {
	FS fs.FS
}

// Open opens name in the underlying file system.
func (a FSArchive) Open(name string) (io.ReadCloser, error) {
	n, err := NormalizeName(name)
	if err != nil {
		return nil, err
	}

	f, err := a.FS.Open(n)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %q", ErrFileNotFound, name)
		}
		return nil, fmt.Errorf("%w: %q: %v", ErrOpenFile, name, err)
	}

	return f, nil
}

// DirArchive serves extracted client files from a directory. Lookups are
// case-insensitive; the directory is indexed once on first use.
type DirArchive struct {
	Root string

	once  sync.Once
	index map[string]string
	err   error
}

// NewDirArchive returns an archive rooted at dir.
func NewDirArchive(dir string) *DirArchive {
	return &DirArchive{Root: dir}
}

// Open opens name relative to the archive root.
func (a *DirArchive) Open(name string) (io.ReadCloser, error) {
	n, err := NormalizeName(name)
	if err != nil {
		return nil, err
	}

	a.once.Do(a.buildIndex)
	if a.err != nil {
		return nil, a.err
	}

	p, ok := a.index[n]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrFileNotFound, name)
	}

	f, err := os.Open(p)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrOpenFile, p, err)
	}

	return f, nil
}

// Reindex drops the file index so files added since the first Open are found.
// It must not run concurrently with Open.
func (a *DirArchive) Reindex() {
	a.once = sync.Once{}
	a.index = nil
	a.err = nil
}

func (a *DirArchive) buildIndex() {
	index := make(map[string]string)
	a.err = filepath.WalkDir(a.Root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(a.Root, p)
		if err != nil {
			return err
		}
		key, err := NormalizeName(filepath.ToSlash(rel))
		if err != nil {
			return nil
		}
		index[key] = p
		return nil
	})
	if a.err != nil {
		a.err = fmt.Errorf("%w: %q: %v", ErrOpenFile, a.Root, a.err)
		return
	}

	a.index = index
}
