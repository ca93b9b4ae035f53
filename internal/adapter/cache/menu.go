// Package cache fronts read-mostly reference data with a short freshness
// window. It must never front the table/order state the transition logic
// reads, since staleness there would break the one-occupant invariant.
package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"tableserve/internal/domain"
)

const menuKey = "menu"

type MenuCache struct {
	c *gocache.Cache
}

func NewMenuCache(ttl time.Duration) *MenuCache {
	return &MenuCache{c: gocache.New(ttl, 2*ttl)}
}

func (m *MenuCache) Get() ([]*domain.MenuItem, bool) {
	v, ok := m.c.Get(menuKey)
	if !ok {
		return nil, false
	}
	items, ok := v.([]*domain.MenuItem)
	return items, ok
}

func (m *MenuCache) Set(items []*domain.MenuItem) {
	m.c.SetDefault(menuKey, items)
}

// Invalidate is the write-path hook: every menu mutation calls it so the
// next read repopulates from the store.
func (m *MenuCache) Invalidate() {
	m.c.Delete(menuKey)
}
