package cms

import "sync"

// kindCache holds one parsed listing per kind. Entries live until explicitly
// invalidated.
type kindCache struct {
	mu    sync.RWMutex
	items map[Kind]any
}

func newKindCache() *kindCache {
	return &kindCache{items: map[Kind]any{}}
}

func (c *kindCache) get(kind Kind) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.items[kind]
	return v, ok
}

func (c *kindCache) put(kind Kind, v any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[kind] = v
}

func (c *kindCache) invalidate(kind Kind) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, kind)
}

func (c *kindCache) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = map[Kind]any{}
}
