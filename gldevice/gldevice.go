// Package gldevice implements blp.Device on OpenGL 4.1 core.
//
// gl.Init must have succeeded and the context must be current on the calling
// goroutine for every method.
package gldevice

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/woozymasta/blp"
)

var _ blp.Device = Device{}

// Device issues texture calls on the current OpenGL context.
type Device struct{}

// New returns a Device for the current context.
func New() Device {
	return Device{}
}

// CreateTexture generates a texture name.
func (Device) CreateTexture() (uint32, error) {
	var id uint32
	gl.GenTextures(1, &id)
	if id == 0 {
		return 0, fmt.Errorf("glGenTextures: %w", glError())
	}

	return id, nil
}

// IsTexture reports whether id names a texture object.
func (Device) IsTexture(id uint32) bool {
	return gl.IsTexture(id)
}

// DeleteTexture deletes the texture object id.
func (Device) DeleteTexture(id uint32) {
	gl.DeleteTextures(1, &id)
}

// Upload binds id on unit, specifies level 0 from u and restores binding 0.
func (Device) Upload(unit int, id uint32, u *blp.Upload) error {
	if unit < 0 {
		return fmt.Errorf("invalid texture unit %d", unit)
	}

	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	gl.BindTexture(gl.TEXTURE_2D, id)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, filter(u.MinFilter))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, filter(u.MagFilter))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_BASE_LEVEL, int32(u.BaseLevel))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAX_LEVEL, int32(u.MaxLevel))

	var ptr unsafe.Pointer
	if len(u.Pixels) > 0 {
		ptr = gl.Ptr(u.Pixels)
	}
	gl.TexImage2D(
		gl.TEXTURE_2D,
		0,
		internalFormat(u.InternalFormat),
		int32(u.Width),
		int32(u.Height),
		0,
		pixelFormat(u.Format),
		gl.UNSIGNED_BYTE,
		ptr,
	)

	gl.BindTexture(gl.TEXTURE_2D, 0)

	if err := glError(); err != nil {
		return fmt.Errorf("glTexImage2D %dx%d: %w", u.Width, u.Height, err)
	}

	return nil
}

func filter(f blp.Filter) int32 {
	if f == blp.FilterLinear {
		return gl.LINEAR
	}

	return gl.NEAREST
}

func internalFormat(f blp.InternalFormat) int32 {
	if f == blp.InternalFormatSRGBA {
		return gl.SRGB8_ALPHA8
	}

	return gl.RGBA8
}

func pixelFormat(f blp.PixelFormat) uint32 {
	if f == blp.PixelFormatBGRA {
		return gl.BGRA
	}

	return gl.RGBA
}

// glError drains the GL error queue and returns the first error, if any.
func glError() error {
	first := uint32(gl.NO_ERROR)
	for code := gl.GetError(); code != gl.NO_ERROR; code = gl.GetError() {
		if first == gl.NO_ERROR {
			first = code
		}
	}
	if first == gl.NO_ERROR {
		return nil
	}

	return fmt.Errorf("GL error 0x%04x", first)
}
