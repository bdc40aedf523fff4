package shell

import "sync"

// MemoryCacheStorage is an in-process CacheStorage. The real worker
// context persists caches across page loads; for this model one process
// lifetime is the persistence horizon.
type MemoryCacheStorage struct {
	mu     sync.Mutex
	caches map[string]*MemoryCache
}

func NewMemoryCacheStorage() *MemoryCacheStorage {
	return &MemoryCacheStorage{caches: make(map[string]*MemoryCache)}
}

func (s *MemoryCacheStorage) Open(name string) (Cache, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cache, ok := s.caches[name]; ok {
		return cache, nil
	}
	cache := &MemoryCache{entries: make(map[string][]byte)}
	s.caches[name] = cache
	return cache, nil
}

func (s *MemoryCacheStorage) Keys() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.caches))
	for name := range s.caches {
		names = append(names, name)
	}
	return names, nil
}

func (s *MemoryCacheStorage) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.caches, name)
	return nil
}

// MemoryCache stores cached bodies by path. Writes are idempotent.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func (c *MemoryCache) Put(path string, body []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[path] = body
	return nil
}

func (c *MemoryCache) Match(path string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	body, ok := c.entries[path]
	return body, ok
}

// Len reports the number of cached paths.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
