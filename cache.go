package rdaptastic

import "sync"

// baseCache maps TLDs to RDAP base URLs. It is preloaded from the pinned bootstrap table and
// filled from the remote registry on misses. Entries live for the life of the process; there
// is no eviction.
type baseCache struct {
	mu  sync.RWMutex
	tab map[string]string
}

func newBaseCache(preload map[string]string) *baseCache {
	tab := make(map[string]string, len(preload))
	for k, v := range preload {
		tab[k] = v
	}
	return &baseCache{tab: tab}
}

func (c *baseCache) Get(tld string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.tab[tld]
	return v, ok
}

// SetIfAbsent keeps the first value stored for a key, so pinned entries always win.
func (c *baseCache) SetIfAbsent(tld, base string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.tab[tld]; !ok {
		c.tab[tld] = base
	}
}

func (c *baseCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.tab)
}
