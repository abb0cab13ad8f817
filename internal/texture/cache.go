package texture

import (
	"image"
	"sync"
)

// Resolver resolves a texture reference to a decoded image.
type Resolver interface {
	Resolve(ref string) *image.NRGBA
}

// Cache is a concurrency-safe texture cache. References found in the embedded
// map are decoded from memory, everything else through the index.
type Cache struct {
	mu       sync.RWMutex
	items    map[string]*image.NRGBA // nil entries record failed loads
	index    *Index
	embedded map[string][]byte
}

// NewCache creates a texture cache backed by index and optional embedded images.
func NewCache(index *Index, embedded map[string][]byte) *Cache {
	if index == nil {
		index = &Index{entries: map[string]string{}}
	}
	return &Cache{
		items:    make(map[string]*image.NRGBA),
		index:    index,
		embedded: embedded,
	}
}

// Resolve loads and caches a texture. Returns nil if it cannot be found or decoded.
func (c *Cache) Resolve(ref string) *image.NRGBA {
	if ref == "" {
		return nil
	}
	key := ref
	data, isEmbedded := c.embedded[ref]
	if !isEmbedded {
		path, ok := c.index.ResolvePath(ref)
		if !ok {
			return nil
		}
		key = path
	}

	c.mu.RLock()
	if img, exists := c.items[key]; exists {
		c.mu.RUnlock()
		return img
	}
	c.mu.RUnlock()

	var img *image.NRGBA
	if isEmbedded {
		img, _ = Decode(data)
	} else {
		img, _ = LoadTexture(key)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, exists := c.items[key]; exists {
		return existing
	}
	c.items[key] = img
	return img
}
