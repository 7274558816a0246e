package texture

import "image"

// Cache memoizes the textures that do not vary per call: dots and shimmers
// by size. Bubbles are jittered per call and never cached.
type Cache struct {
	synth    *Synthesizer
	dots     map[int]*image.RGBA
	shimmers map[int]*image.RGBA
}

// NewCache wraps a synthesizer.
func NewCache(synth *Synthesizer) *Cache {
	return &Cache{
		synth:    synth,
		dots:     make(map[int]*image.RGBA),
		shimmers: make(map[int]*image.RGBA),
	}
}

// Synthesizer returns the wrapped synthesizer.
func (c *Cache) Synthesizer() *Synthesizer {
	return c.synth
}

// Dot returns the cached dot texture for size.
func (c *Cache) Dot(size int) *image.RGBA {
	if img, ok := c.dots[size]; ok {
		return img
	}
	img := c.synth.Dot(size)
	c.dots[size] = img
	return img
}

// Shimmer returns the cached shimmer texture for size.
func (c *Cache) Shimmer(size int) *image.RGBA {
	if img, ok := c.shimmers[size]; ok {
		return img
	}
	img := c.synth.Shimmer(size)
	c.shimmers[size] = img
	return img
}

// Len returns the number of cached textures.
func (c *Cache) Len() int {
	return len(c.dots) + len(c.shimmers)
}
