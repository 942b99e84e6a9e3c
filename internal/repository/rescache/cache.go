// Package rescache is the in-process resolution cache.
package rescache

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/poidex/internal/domain"
)

// Cache maps city strings to resolved destination lists for the life of
// the process. Keys are the exact strings as entered (case-sensitive).
// There is no TTL, eviction or size bound. Concurrent resolutions for the
// same city are not coalesced: both may populate the entry, last writer
// wins.
type Cache struct {
	mu         sync.RWMutex
	entries    map[string][]domain.Destination
	cacheTotal *prometheus.CounterVec
}

// New creates an empty cache.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed
// explicitly; nil disables counting.
func New(cacheTotal *prometheus.CounterVec) *Cache {
	return &Cache{
		entries:    make(map[string][]domain.Destination),
		cacheTotal: cacheTotal,
	}
}

// Get returns the cached destination list for the city, if present.
func (c *Cache) Get(city string) ([]domain.Destination, bool) {
	c.mu.RLock()
	destinations, ok := c.entries[city]
	c.mu.RUnlock()

	if ok {
		c.inc("hit")
	} else {
		c.inc("miss")
	}
	return destinations, ok
}

// Put stores the destination list for the city, overwriting any entry.
func (c *Cache) Put(city string, destinations []domain.Destination) {
	c.mu.Lock()
	c.entries[city] = destinations
	c.mu.Unlock()
}

// Len reports the number of cached cities.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *Cache) inc(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}
