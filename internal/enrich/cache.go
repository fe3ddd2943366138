package enrich

import (
	"sync"
	"time"

	"github.com/openairmap/openairmap/internal/models"
)

type entry struct {
	key string
	ts  time.Time
}

type cached struct {
	details *models.AirportDetails
	ts      time.Time
}

// Cache keeps a fixed-size set of recently fetched airport details so a run
// never asks the upstream API twice for the same ident.
type Cache struct {
	mu       sync.Mutex
	items    map[string]cached
	order    []entry
	capacity int
	ttl      time.Duration
}

// NewCache creates a cache with the provided capacity and ttl.
func NewCache(capacity int, ttl time.Duration) *Cache {
	if capacity <= 0 {
		capacity = 1
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Cache{
		items:    make(map[string]cached, capacity),
		order:    make([]entry, 0, capacity),
		capacity: capacity,
		ttl:      ttl,
	}
}

// Get returns cached details for an ident if present inside the ttl window.
func (c *Cache) Get(key string) (*models.AirportDetails, bool) {
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if v, ok := c.items[key]; ok {
		if now.Sub(v.ts) <= c.ttl {
			return v.details, true
		}
	}
	return nil, false
}

// Put records fetched details for an ident.
func (c *Cache) Put(key string, details *models.AirportDetails) {
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = cached{details: details, ts: now}
	c.order = append(c.order, entry{key: key, ts: now})
	c.compact(now)
}

func (c *Cache) compact(now time.Time) {
	cutoff := now.Add(-c.ttl)

	for len(c.order) > 0 && (len(c.items) > c.capacity || c.order[0].ts.Before(cutoff)) {
		oldest := c.order[0]
		c.order = c.order[1:]

		if v, ok := c.items[oldest.key]; ok {
			if v.ts == oldest.ts {
				delete(c.items, oldest.key)
			}
		}
	}
}
