package parser

import "sync"

// Cache holds loaded documents by canonical locator and may be shared by the
// loaders of several entry documents processed concurrently. Entries are
// immutable once inserted: the first writer wins and nothing is evicted.
type Cache struct {
	mu   sync.RWMutex
	docs map[string]*Document
}

// NewCache creates an empty Cache.
func NewCache() *Cache {
	return &Cache{docs: make(map[string]*Document)}
}

// Get returns the cached document for a canonical locator.
func (c *Cache) Get(locator string) (*Document, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	d, ok := c.docs[locator]
	return d, ok
}

// Add stores doc unless an entry already exists, and returns the stored entry.
func (c *Cache) Add(doc *Document) *Document {
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.docs[doc.Locator]; ok {
		return existing
	}
	c.docs[doc.Locator] = doc
	return doc
}

// Len returns the number of cached documents.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.docs)
}
