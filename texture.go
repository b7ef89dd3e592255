package blp

import (
	"fmt"
	"image"
	"io"
)

// Texture is decoded texture data together with its GPU state.
//
// A texture is armed for upload by Unbind and uploaded by the next Bind, which
// disarms it again, so every Unbind yields at most one upload. Textures loaded
// from an archive start disarmed; textures built from pixel data start armed.
type Texture struct {
	Name           string
	Width          int
	Height         int
	Format         PixelFormat
	InternalFormat InternalFormat
	// Pixels holds Width*Height*4 bytes in Format order; nil for placeholders.
	Pixels []byte

	// ID is the GPU handle, 0 until allocated.
	ID uint32
	// Unit is the texture unit of the last upload, -1 before the first.
	Unit int
	// Empty marks placeholders without backing bytes.
	Empty bool

	canBind bool
}

// NewEmptyTexture creates a placeholder texture without pixel data.
func NewEmptyTexture(width, height int, internal InternalFormat, format PixelFormat) *Texture {
	return &Texture{
		Width:          width,
		Height:         height,
		InternalFormat: internal,
		Format:         format,
		Unit:           -1,
		Empty:          true,
	}
}

// NewTextureFromPixels creates an armed BGRA texture from a copy of pixels.
func NewTextureFromPixels(name string, width, height int, pixels []byte) (*Texture, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	if len(pixels) != width*height*4 {
		return nil, fmt.Errorf("%w: %q: expected %d, got %d", ErrPixelSizeMismatch, name, width*height*4, len(pixels))
	}

	data := make([]byte, len(pixels))
	copy(data, pixels)

	return &Texture{
		Name:           name,
		Width:          width,
		Height:         height,
		Format:         PixelFormatBGRA,
		InternalFormat: InternalFormatRGBA,
		Pixels:         data,
		Unit:           -1,
		canBind:        true,
	}, nil
}

// LoadOptions configures LoadTexture.
type LoadOptions struct {
	// ReadOptions are passed to the BLP decoder.
	ReadOptions *ReadOptions
	// Cache, when set, is consulted before decoding and filled afterwards.
	// Only level-0 loads use it.
	Cache *Cache
	// OnCacheError, when set, receives Cache.Put failures. A failed Put does
	// not fail the load.
	OnCacheError func(name string, err error)
}

// LoadTexture opens name in archive and decodes it into a disarmed texture.
// Nil opts decodes level 0 without a cache.
func LoadTexture(archive Archive, name string, opts *LoadOptions) (*Texture, error) {
	if opts == nil {
		opts = &LoadOptions{}
	}

	cache := opts.Cache
	if opts.ReadOptions != nil && opts.ReadOptions.MipLevel != 0 {
		cache = nil
	}

	if cache != nil {
		if pixels, w, h, err := cache.Get(name); err == nil {
			return newLoadedTexture(name, w, h, pixels), nil
		}
	}

	rc, err := archive.Open(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrLoadTexture, name, err)
	}
	defer func() { _ = rc.Close() }()

	pixels, w, h, err := DecodeBGRA(rc, opts.ReadOptions)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrLoadTexture, name, err)
	}

	if cache != nil {
		if err := cache.Put(name, w, h, pixels); err != nil && opts.OnCacheError != nil {
			opts.OnCacheError(name, err)
		}
	}

	return newLoadedTexture(name, w, h, pixels), nil
}

// DecodeTexture decodes a BLP2 stream into a disarmed texture.
func DecodeTexture(name string, r io.Reader, opts *ReadOptions) (*Texture, error) {
	pixels, w, h, err := DecodeBGRA(r, opts)
	if err != nil {
		return nil, err
	}

	return newLoadedTexture(name, w, h, pixels), nil
}

func newLoadedTexture(name string, width, height int, pixels []byte) *Texture {
	return &Texture{
		Name:           name,
		Width:          width,
		Height:         height,
		Format:         PixelFormatBGRA,
		InternalFormat: InternalFormatRGBA,
		Pixels:         pixels,
		Unit:           -1,
	}
}

// CanBind reports whether the next Bind will upload.
func (t *Texture) CanBind() bool {
	return t.canBind
}

// Image returns a copy of the pixels as an *image.NRGBA, or nil for placeholders.
func (t *Texture) Image() *image.NRGBA {
	if t.Empty || len(t.Pixels) != t.Width*t.Height*4 {
		return nil
	}
	if t.Format == PixelFormatBGRA {
		return bgraToImage(t.Pixels, t.Width, t.Height)
	}

	pix := make([]byte, len(t.Pixels))
	copy(pix, t.Pixels)
	return &image.NRGBA{Pix: pix, Stride: t.Width * 4, Rect: image.Rect(0, 0, t.Width, t.Height)}
}

// LoadEmpty allocates GPU storage for the texture without uploading pixels.
func (t *Texture) LoadEmpty(dev Device) error {
	if dev == nil {
		return ErrNilDevice
	}

	id, err := dev.CreateTexture()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCreateTexture, err)
	}
	t.ID = id

	err = dev.Upload(0, id, &Upload{
		Width:          t.Width,
		Height:         t.Height,
		InternalFormat: InternalFormatRGBA,
		Format:         PixelFormatBGRA,
		MinFilter:      FilterLinear,
		MagFilter:      FilterNearest,
	})
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrUpload, t.Name, err)
	}

	return nil
}

// Unbind arms the texture so the next Bind uploads it.
func (t *Texture) Unbind() {
	t.canBind = true
}

// Bind uploads the texture to unit if it is armed and disarms it.
// A disarmed texture is left alone and Bind returns nil. A failed upload
// leaves the texture armed so the next Bind retries.
func (t *Texture) Bind(dev Device, unit int) error {
	if !t.canBind {
		return nil
	}
	if dev == nil {
		return ErrNilDevice
	}
	if t.Empty || t.Pixels == nil {
		return fmt.Errorf("%w: %q", ErrEmptyTexture, t.Name)
	}
	if len(t.Pixels) != t.Width*t.Height*4 {
		return fmt.Errorf("%w: %q: expected %d, got %d", ErrPixelSizeMismatch, t.Name, t.Width*t.Height*4, len(t.Pixels))
	}

	if t.ID == 0 || !dev.IsTexture(t.ID) {
		id, err := dev.CreateTexture()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrCreateTexture, err)
		}
		t.ID = id
	}

	err := dev.Upload(unit, t.ID, &Upload{
		Width:          t.Width,
		Height:         t.Height,
		InternalFormat: t.InternalFormat,
		Format:         t.Format,
		MinFilter:      FilterNearest,
		MagFilter:      FilterNearest,
		Pixels:         t.Pixels,
	})
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrUpload, t.Name, err)
	}

	t.Unit = unit
	t.canBind = false

	return nil
}

// Delete releases the GPU handle if it names a live texture.
func (t *Texture) Delete(dev Device) {
	if dev == nil || t.ID == 0 {
		return
	}
	if dev.IsTexture(t.ID) {
		dev.DeleteTexture(t.ID)
	}
	t.ID = 0
}

// ApplyAlpha derives an armed texture whose alpha channel is the 64x64 mask
// expanded by nearest neighbor. See ApplyAlphaFiltered.
func (t *Texture) ApplyAlpha(mask []byte) (*Texture, error) {
	return t.ApplyAlphaFiltered(mask, AlphaNearest)
}

// ApplyAlphaFiltered derives an armed texture with the color channels of t and
// alpha taken from mask scaled with filter. A mask of any size other than
// AlphaMapSize*AlphaMapSize keeps the original alpha. The source must not be
// armed.
func (t *Texture) ApplyAlphaFiltered(mask []byte, filter AlphaFilter) (*Texture, error) {
	if t.canBind {
		return nil, fmt.Errorf("%w: %q", ErrAlreadyBound, t.Name)
	}
	if t.Empty || t.Pixels == nil {
		return nil, fmt.Errorf("%w: %q", ErrEmptyTexture, t.Name)
	}

	out, err := NewTextureFromPixels(t.Name, t.Width, t.Height, t.Pixels)
	if err != nil {
		return nil, err
	}
	out.Format = t.Format
	out.InternalFormat = t.InternalFormat

	if _, err := ExpandAlpha(out.Pixels, out.Width, out.Height, mask, filter); err != nil {
		return nil, err
	}

	return out, nil
}
