// Package cache holds a small TTL cache for zone metadata. RRSet reads
// and replaces need the zone name on every request; the domains row
// changes rarely enough that a short-lived cache is safe.
package cache

import (
	"sync"
	"time"
)

type entry struct {
	name      string
	expiresAt time.Time
}

type ZoneNames struct {
	mu   sync.RWMutex
	data map[int64]entry
	size int
	ttl  time.Duration
}

func NewZoneNames(size int, ttl time.Duration) *ZoneNames {
	return &ZoneNames{data: make(map[int64]entry, size), size: size, ttl: ttl}
}

func (c *ZoneNames) Get(zoneID int64) (string, bool) {
	c.mu.RLock()
	it, ok := c.data[zoneID]
	c.mu.RUnlock()
	if !ok {
		return "", false
	}
	if time.Now().After(it.expiresAt) {
		c.mu.Lock()
		delete(c.data, zoneID)
		c.mu.Unlock()
		return "", false
	}
	return it.name, true
}

func (c *ZoneNames) Set(zoneID int64, name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.data) >= c.size {
		// naive eviction: drop an arbitrary entry
		for k := range c.data {
			delete(c.data, k)
			break
		}
	}
	c.data[zoneID] = entry{name: name, expiresAt: time.Now().Add(c.ttl)}
}

// Invalidate drops a zone after deletion or rename.
func (c *ZoneNames) Invalidate(zoneID int64) {
	c.mu.Lock()
	delete(c.data, zoneID)
	c.mu.Unlock()
}
