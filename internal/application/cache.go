package application

import (
	"sync/atomic"

	"meshbridge/internal/domain"
)

// MappingCache holds the current mapping for long-running processes.
// Rebuilds store a complete new mapping; readers never see a partial one.
type MappingCache struct {
	current atomic.Pointer[domain.GuidMapping]
}

// NewMappingCache creates a cache holding initial, or an empty mapping
func NewMappingCache(initial *domain.GuidMapping) *MappingCache {
	c := &MappingCache{}
	if initial == nil {
		initial = domain.EmptyGuidMapping()
	}
	c.current.Store(initial)
	return c
}

// Get returns the current mapping
func (c *MappingCache) Get() *domain.GuidMapping {
	return c.current.Load()
}

// Swap replaces the current mapping and returns the previous one
func (c *MappingCache) Swap(m *domain.GuidMapping) *domain.GuidMapping {
	if m == nil {
		m = domain.EmptyGuidMapping()
	}
	return c.current.Swap(m)
}
