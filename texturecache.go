package kite

import "sync"

// TextureCache resolves paths to Textures, creating each on first reference.
// Textures live as long as the cache; there is no eviction. Safe for
// concurrent use.
type TextureCache struct {
	fetcher Fetcher
	decoder Decoder
	metrics *Metrics

	mu       sync.Mutex
	textures map[string]*Texture
}

// NewTextureCache creates a cache that fetches with fetcher and decodes with
// decoder. A nil decoder uses SVGDecoder.
func NewTextureCache(fetcher Fetcher, decoder Decoder, metrics *Metrics) *TextureCache {
	if decoder == nil {
		decoder = SVGDecoder{}
	}
	return &TextureCache{
		fetcher:  fetcher,
		decoder:  decoder,
		metrics:  metrics,
		textures: make(map[string]*Texture),
	}
}

// Get returns the texture for path, creating it unloaded if needed.
func (c *TextureCache) Get(path string) *Texture {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t, ok := c.textures[path]; ok {
		return t
	}
	t := newTexture(path, c.fetcher, c.decoder, c.metrics)
	c.textures[path] = t
	return t
}

// Len returns the number of textures referenced so far.
func (c *TextureCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.textures)
}
