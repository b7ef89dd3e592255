package blp

import (
	"sync"
)

// Library loads archive textures once and shares them by name.
type Library struct {
	archive Archive
	opts    *LoadOptions

	mu         sync.RWMutex
	textures   map[string]*Texture
	defaultTex *Texture
}

// NewLibrary creates a library over archive. Nil opts loads level 0 without a cache.
func NewLibrary(archive Archive, opts *LoadOptions) *Library {
	return &Library{
		archive:  archive,
		opts:     opts,
		textures: make(map[string]*Texture),
	}
}

// Load returns the texture for name, loading it on first use.
func (l *Library) Load(name string) (*Texture, error) {
	key, err := NormalizeName(name)
	if err != nil {
		return nil, err
	}

	l.mu.RLock()
	if tex, ok := l.textures[key]; ok {
		l.mu.RUnlock()
		return tex, nil
	}
	l.mu.RUnlock()

	tex, err := LoadTexture(l.archive, name, l.opts)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if cached, ok := l.textures[key]; ok {
		return cached, nil
	}
	l.textures[key] = tex

	return tex, nil
}

// GetOrDefault returns the texture for name, or a shared 1x1 white texture
// together with the load error.
func (l *Library) GetOrDefault(name string) (*Texture, error) {
	tex, err := l.Load(name)
	if err == nil {
		return tex, nil
	}

	return l.Default(), err
}

// Default returns the shared 1x1 opaque white texture.
func (l *Library) Default() *Texture {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.defaultTex == nil {
		l.defaultTex = newLoadedTexture("default", 1, 1, []byte{0xff, 0xff, 0xff, 0xff})
	}

	return l.defaultTex
}

// Len returns the number of loaded archive textures.
func (l *Library) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return len(l.textures)
}

// DestroyAll releases the GPU handles of all textures and empties the library.
func (l *Library) DestroyAll(dev Device) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, tex := range l.textures {
		tex.Delete(dev)
	}
	l.textures = make(map[string]*Texture)

	if l.defaultTex != nil {
		l.defaultTex.Delete(dev)
		l.defaultTex = nil
	}
}
