package ecs

import "fmt"

// Cache is a bounded, string-keyed lookup: a host tool (debug console, save-file remapper,
// scripted world bootstrapper) that only has a component's human name at
// hand uses one to resolve it without reflection. NameCache, below,
// is the ecs-specific instance storing TypeID aliases; Cache itself stays
// generic so a host can reuse the same structure for its own named
// lookups (asset ids, prefab ids, and so on).
type Cache[T any] interface {
	GetIndex(key string) (int, bool)
	GetItem(index int) *T
	GetItem32(index uint32) *T
	Register(key string, item T) (int, error)
	Clear()
}

// SimpleCache is the array-backed Cache implementation: items live in a
// dense slice in registration order, itemIndices maps a key to its slot.
type SimpleCache[T any] struct {
	items       []T
	itemIndices map[string]int
	maxCapacity int
}

// NewSimpleCache builds a cache that rejects Register past cap entries.
func NewSimpleCache[T any](cap int) *SimpleCache[T] {
	return &SimpleCache[T]{
		itemIndices: make(map[string]int, cap),
		maxCapacity: cap,
	}
}

var _ Cache[any] = &SimpleCache[any]{}

func (c *SimpleCache[T]) GetIndex(key string) (int, bool) {
	index, ok := c.itemIndices[key]
	return index, ok
}

func (c *SimpleCache[T]) GetItem(index int) *T {
	return &c.items[index]
}

func (c *SimpleCache[T]) GetItem32(index uint32) *T {
	return &c.items[index]
}

// Register stores item under key, failing once maxCapacity entries are
// registered - a cache is a bounded alias table, not a growable store.
func (c *SimpleCache[T]) Register(key string, item T) (int, error) {
	if _, exists := c.itemIndices[key]; exists {
		return -1, fmt.Errorf("cache: key %q already registered", key)
	}
	if len(c.itemIndices) >= c.maxCapacity {
		return -1, fmt.Errorf("cache at maximum capacity (%d)", c.maxCapacity)
	}
	idx := len(c.items)
	c.itemIndices[key] = idx
	c.items = append(c.items, item)
	return idx, nil
}

func (c *SimpleCache[T]) Clear() {
	c.items = c.items[:0]
	c.itemIndices = make(map[string]int)
}

// NameCache aliases human-readable names to registered component
// TypeIDs, backing debug tooling (a console command that takes
// "Position" and needs a TypeID) that would otherwise require a
// reflect.Type round-trip through the global registry. A world is not
// required to populate one; it exists purely for hosts that want it.
type NameCache struct {
	cache *SimpleCache[TypeID]
}

// NewNameCache builds a name alias table holding up to cap entries.
func NewNameCache(cap int) *NameCache {
	return &NameCache{cache: NewSimpleCache[TypeID](cap)}
}

// Alias registers name as a lookup key for id.
func (n *NameCache) Alias(name string, id TypeID) error {
	_, err := n.cache.Register(name, id)
	return err
}

// Lookup resolves a previously aliased name back to its TypeID.
func (n *NameCache) Lookup(name string) (TypeID, bool) {
	idx, ok := n.cache.GetIndex(name)
	if !ok {
		return noType, false
	}
	return *n.cache.GetItem(idx), true
}
