package blp

import (
	"bytes"
	"errors"
	"image"
	"path/filepath"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/woozymasta/bcn"
)

func rawBLP(t *testing.T, img image.Image) []byte {
	t.Helper()

	var buf bytes.Buffer
	if err := Encode(&buf, img, &WriteOptions{Format: bcn.FormatBGRA8, MaxMipMaps: 1}); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	return buf.Bytes()
}

func TestLoadTexture(t *testing.T) {
	t.Parallel()

	img := gradientImage(8, 8)
	a := FSArchive{FS: fstest.MapFS{"tileset/grass.blp": {Data: rawBLP(t, img)}}}

	tex, err := LoadTexture(a, `Tileset\Grass.blp`, nil)
	if err != nil {
		t.Fatalf("LoadTexture: %v", err)
	}
	if tex.Width != 8 || tex.Height != 8 || tex.Unit != -1 || tex.CanBind() || tex.Empty {
		t.Fatalf("unexpected texture state: %+v", tex)
	}
	if tex.Format != PixelFormatBGRA || len(tex.Pixels) != 8*8*4 {
		t.Fatalf("unexpected pixel layout: format %v, %d bytes", tex.Format, len(tex.Pixels))
	}
	if !bytes.Equal(tex.Image().Pix, img.Pix) {
		t.Fatalf("decoded pixels differ from source")
	}

	_, err = LoadTexture(a, "tileset/missing.blp", nil)
	if !errors.Is(err, ErrLoadTexture) || !errors.Is(err, ErrFileNotFound) {
		t.Fatalf("expected ErrLoadTexture wrapping ErrFileNotFound, got %v", err)
	}

	bad := FSArchive{FS: fstest.MapFS{"bad.blp": {Data: []byte("not a blp")}}}
	_, err = LoadTexture(bad, "bad.blp", nil)
	if !errors.Is(err, ErrLoadTexture) || !errors.Is(err, ErrInvalidMagic) {
		t.Fatalf("expected ErrLoadTexture wrapping ErrInvalidMagic, got %v", err)
	}
}

func TestLoadTextureUsesCache(t *testing.T) {
	t.Parallel()

	cache, err := NewCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}

	img := gradientImage(4, 4)
	fsys := fstest.MapFS{"a.blp": {Data: rawBLP(t, img)}}
	opts := &LoadOptions{Cache: cache}

	first, err := LoadTexture(FSArchive{FS: fsys}, "a.blp", opts)
	if err != nil {
		t.Fatalf("LoadTexture: %v", err)
	}

	delete(fsys, "a.blp")
	second, err := LoadTexture(FSArchive{FS: fsys}, "a.blp", opts)
	if err != nil {
		t.Fatalf("LoadTexture from cache: %v", err)
	}
	if !bytes.Equal(first.Pixels, second.Pixels) || second.Width != 4 || second.Height != 4 {
		t.Fatalf("cached texture differs")
	}
}

func TestLoadTextureCachesOnlyLevelZero(t *testing.T) {
	t.Parallel()

	cache, err := NewCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}

	var buf bytes.Buffer
	if err := Encode(&buf, gradientImage(8, 8), &WriteOptions{Format: bcn.FormatBGRA8}); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	fsys := fstest.MapFS{"a.blp": {Data: buf.Bytes()}}

	small, err := LoadTexture(FSArchive{FS: fsys}, "a.blp", &LoadOptions{
		Cache:       cache,
		ReadOptions: &ReadOptions{MipLevel: 2},
	})
	if err != nil {
		t.Fatalf("LoadTexture mip 2: %v", err)
	}
	if small.Width != 2 || small.Height != 2 {
		t.Fatalf("mip 2 size = %dx%d, want 2x2", small.Width, small.Height)
	}
	if _, _, _, err := cache.Get("a.blp"); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("mip 2 load filled the cache: %v", err)
	}

	full, err := LoadTexture(FSArchive{FS: fsys}, "a.blp", &LoadOptions{Cache: cache})
	if err != nil {
		t.Fatalf("LoadTexture level 0: %v", err)
	}
	if full.Width != 8 || full.Height != 8 {
		t.Fatalf("level 0 size = %dx%d, want 8x8", full.Width, full.Height)
	}

	again, err := LoadTexture(FSArchive{FS: fsys}, "a.blp", &LoadOptions{
		Cache:       cache,
		ReadOptions: &ReadOptions{MipLevel: 2},
	})
	if err != nil {
		t.Fatalf("LoadTexture mip 2 after level 0: %v", err)
	}
	if again.Width != 2 || again.Height != 2 {
		t.Fatalf("mip 2 served from level-0 entry: %dx%d", again.Width, again.Height)
	}
}

func TestLoadTextureReportsCacheErrors(t *testing.T) {
	t.Parallel()

	cache := &Cache{Dir: filepath.Join(t.TempDir(), "missing")}
	fsys := fstest.MapFS{"a.blp": {Data: rawBLP(t, gradientImage(4, 4))}}

	var gotName string
	var gotErr error
	tex, err := LoadTexture(FSArchive{FS: fsys}, "a.blp", &LoadOptions{
		Cache: cache,
		OnCacheError: func(name string, err error) {
			gotName, gotErr = name, err
		},
	})
	if err != nil {
		t.Fatalf("LoadTexture: %v", err)
	}
	if tex.Width != 4 {
		t.Fatalf("unexpected width %d", tex.Width)
	}
	if gotName != "a.blp" || !errors.Is(gotErr, ErrCacheWrite) {
		t.Fatalf("cache error callback got %q, %v", gotName, gotErr)
	}
}

func TestLibraryShares(t *testing.T) {
	t.Parallel()

	lib := NewLibrary(FSArchive{FS: fstest.MapFS{"a.blp": {Data: rawBLP(t, gradientImage(4, 4))}}}, nil)

	var wg sync.WaitGroup
	results := make([]*Texture, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tex, err := lib.Load("A.BLP")
			if err != nil {
				t.Errorf("Load: %v", err)
				return
			}
			results[i] = tex
		}(i)
	}
	wg.Wait()

	for _, tex := range results {
		if tex != results[0] {
			t.Fatalf("library returned distinct textures for one name")
		}
	}
	if lib.Len() != 1 {
		t.Fatalf("Len = %d, want 1", lib.Len())
	}
}

func TestLibraryGetOrDefault(t *testing.T) {
	t.Parallel()

	lib := NewLibrary(FSArchive{FS: fstest.MapFS{}}, nil)

	tex, err := lib.GetOrDefault("missing.blp")
	if !errors.Is(err, ErrFileNotFound) {
		t.Fatalf("expected ErrFileNotFound, got %v", err)
	}
	if tex == nil || tex.Width != 1 || tex.Height != 1 || !bytes.Equal(tex.Pixels, []byte{0xff, 0xff, 0xff, 0xff}) {
		t.Fatalf("unexpected default texture: %+v", tex)
	}
	if again := lib.Default(); again != tex {
		t.Fatalf("default texture is not shared")
	}
	if lib.Len() != 0 {
		t.Fatalf("default texture counted as loaded: Len = %d", lib.Len())
	}
}

func TestLibraryDefaultDoesNotShadowArchive(t *testing.T) {
	t.Parallel()

	lib := NewLibrary(FSArchive{FS: fstest.MapFS{
		"default":           {Data: rawBLP(t, gradientImage(4, 4))},
		"__default_white__": {Data: rawBLP(t, gradientImage(4, 4))},
	}}, nil)
	def := lib.Default()

	for _, name := range []string{"default", "__default_white__"} {
		tex, err := lib.Load(name)
		if err != nil {
			t.Fatalf("Load(%q): %v", name, err)
		}
		if tex == def || tex.Width != 4 || tex.Height != 4 {
			t.Fatalf("Load(%q) returned the default texture", name)
		}
	}
}

func TestLibraryDestroyAll(t *testing.T) {
	t.Parallel()

	lib := NewLibrary(FSArchive{FS: fstest.MapFS{"a.blp": {Data: rawBLP(t, gradientImage(4, 4))}}}, nil)
	tex, err := lib.Load("a.blp")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	dev := newFakeDevice()
	tex.Unbind()
	if err := tex.Bind(dev, 0); err != nil {
		t.Fatalf("Bind: %v", err)
	}

	def := lib.Default()
	def.Unbind()
	if err := def.Bind(dev, 0); err != nil {
		t.Fatalf("Bind default: %v", err)
	}

	lib.DestroyAll(dev)
	if len(dev.deleted) != 2 || lib.Len() != 0 || tex.ID != 0 || def.ID != 0 {
		t.Fatalf("DestroyAll: deleted=%v len=%d id=%d default id=%d", dev.deleted, lib.Len(), tex.ID, def.ID)
	}
	if lib.Default() == def {
		t.Fatalf("DestroyAll kept the released default texture")
	}
}
