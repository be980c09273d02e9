package images

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"sync"

	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// Decode parses a fetched image body. The format is sniffed from the
// data; gif, jpeg, png, bmp and webp are registered.
func Decode(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	return img, nil
}

// Resize scales an image to fill w terminal columns by h rows. Each
// cell shows two pixel rows via the half-block glyph, so the bitmap
// comes out w by 2*h.
func Resize(img image.Image, w, h uint16) image.Image {
	dst := image.NewNRGBA(image.Rect(0, 0, int(w), int(h)*2))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

type sizeKey struct {
	source string
	w, h   uint16
}

// Cache holds decoded images by source URL plus their resized
// variants, so relayouts and redraws reuse earlier work.
type Cache struct {
	mu      sync.RWMutex
	decoded map[string]image.Image
	resized map[sizeKey]image.Image
}

func NewCache() *Cache {
	return &Cache{
		decoded: make(map[string]image.Image),
		resized: make(map[sizeKey]image.Image),
	}
}

// Add decodes and stores a fetched image body under its source URL.
func (c *Cache) Add(source string, data []byte) error {
	img, err := Decode(data)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.decoded[source] = img
	c.mu.Unlock()
	return nil
}

// Has reports whether a source has been decoded.
func (c *Cache) Has(source string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.decoded[source]
	return ok
}

// Get returns the image for a source resized to w by h cells, or nil
// when the source isn't cached or either size is zero.
func (c *Cache) Get(source string, w, h uint16) image.Image {
	if w == 0 || h == 0 {
		return nil
	}
	key := sizeKey{source: source, w: w, h: h}

	c.mu.RLock()
	if img, ok := c.resized[key]; ok {
		c.mu.RUnlock()
		return img
	}
	full, ok := c.decoded[source]
	c.mu.RUnlock()
	if !ok {
		return nil
	}

	img := Resize(full, w, h)
	c.mu.Lock()
	c.resized[key] = img
	c.mu.Unlock()
	return img
}

// Clear drops everything; used when the user toggles images off.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.decoded = make(map[string]image.Image)
	c.resized = make(map[sizeKey]image.Image)
	c.mu.Unlock()
}
