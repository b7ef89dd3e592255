package blp

// PixelFormat is the channel order of pixel bytes handed to the GPU.
type PixelFormat int

const (
	// PixelFormatRGBA orders bytes red, green, blue, alpha.
	PixelFormatRGBA PixelFormat = iota
	// PixelFormatBGRA orders bytes blue, green, red, alpha, as BLP decodes them.
	PixelFormatBGRA
)

// InternalFormat is the storage format the GPU keeps a texture in.
type InternalFormat int

const (
	// InternalFormatRGBA stores 8-bit linear channels.
	InternalFormatRGBA InternalFormat = iota
	// InternalFormatSRGBA stores 8-bit sRGB color with linear alpha.
	InternalFormatSRGBA
)

// Filter is a texture sampling filter.
type Filter int

const (
	// FilterNearest samples the closest texel.
	FilterNearest Filter = iota
	// FilterLinear blends the four closest texels.
	FilterLinear
)

// Upload describes one level-0 texture image specification.
// Nil Pixels allocates storage without initializing it.
type Upload struct {
	Width          int
	Height         int
	InternalFormat InternalFormat
	Format         PixelFormat
	MinFilter      Filter
	MagFilter      Filter
	// BaseLevel and MaxLevel clamp the mip range the sampler may use.
	BaseLevel int
	MaxLevel  int
	Pixels    []byte
}

// Device is the slice of a graphics API that textures need.
// Implementations are not safe for concurrent use; call them from the
// goroutine that owns the graphics context.
type Device interface {
	// CreateTexture allocates a texture handle.
	CreateTexture() (uint32, error)
	// IsTexture reports whether id names a live texture.
	IsTexture(id uint32) bool
	// DeleteTexture releases a texture handle.
	DeleteTexture(id uint32)
	// Upload activates the texture unit, binds id, applies u and unbinds.
	Upload(unit int, id uint32, u *Upload) error
}
