package ecs

import "sort"

// World owns every entity slot, pool, and filter created against it.
// Once it is destroyed, operations through its entity handles fail with
// InvalidStateError; World's own methods (NewEntity, GetFilter, ...) do
// not check for destruction. Entity handles keep a reference to it but the
// world itself is confined to one goroutine.
type World struct {
	alive  bool
	config WorldConfig

	entities vector[entitySlot]
	freeIDs  vector[uint32]

	pools []componentPool // indexed by TypeID-1, grown by doubling

	filters          []*Filter
	filtersByInclude map[TypeID][]*Filter
	filtersByExclude map[TypeID][]*Filter
	filterSignatures map[string]*Filter // canonical set signature -> filter, for DuplicateFilter detection

	debugListeners []DebugListener
	names          *NameCache
}

// AliasComponentType registers name as a debug-console alias for t's
// type, lazily allocating the world's NameCache on first use.
func (w *World) AliasComponentType(name string, t Typed) error {
	if w.names == nil {
		w.names = NewNameCache(w.config.WorldComponentPoolsCache)
	}
	return w.names.Alias(name, t.TypeID())
}

// ComponentTypeByName resolves a name registered via AliasComponentType.
func (w *World) ComponentTypeByName(name string) (TypeID, bool) {
	if w.names == nil {
		return noType, false
	}
	return w.names.Lookup(name)
}

// NewWorld constructs a world using cfg's capacities (normalized via
// Validate - zero or negative selects the documented default).
func NewWorld(cfg WorldConfig) *World {
	cfg = cfg.Validate()
	w := &World{
		alive:            true,
		config:           cfg,
		entities:         newVector[entitySlot](cfg.WorldEntitiesCache),
		freeIDs:          newVector[uint32](cfg.WorldEntitiesCache / 4),
		pools:            make([]componentPool, 0, cfg.WorldComponentPoolsCache),
		filters:          make([]*Filter, 0, cfg.WorldFiltersCache),
		filtersByInclude: make(map[TypeID][]*Filter),
		filtersByExclude: make(map[TypeID][]*Filter),
		filterSignatures: make(map[string]*Filter),
	}
	// Entity id 0 is reserved for the null handle; seed a dead slot so
	// real ids start at 1.
	w.entities.push(entitySlot{componentCount: recycledSentinel})
	return w
}

// NewEntity allocates an entity, reusing a freed id if one is available,
// and returns a handle whose generation is >= 1.
func (w *World) NewEntity() Entity {
	var id uint32
	var gen uint16
	if n := w.freeIDs.len(); n > 0 {
		id = w.freeIDs.at(n - 1)
		w.freeIDs.truncate(n - 1)
		gen = w.entities.ptrAt(int(id)).generation
	} else {
		id = uint32(w.entities.len())
		w.entities.push(entitySlot{generation: 1, components: newVector[int](w.config.EntityComponentsCache * 2)})
		gen = 1
	}
	slot := w.entities.ptrAt(int(id))
	slot.generation = gen
	slot.componentCount = 0
	slot.components.truncate(0)
	e := Entity{id: id, generation: gen, world: w}
	w.fireEntityCreated(e)
	return e
}

// recycleEntitySlot bumps the generation (skipping 0),
// marks the slot recycled, and returns id to the free list. Precondition:
// slot.componentCount == 0.
func (w *World) recycleEntitySlot(id uint32, slot *entitySlot) {
	assert(slot.componentCount == 0, "recycleEntitySlot: slot %d still has components", id)
	slot.generation++
	if slot.generation == 0 {
		slot.generation = 1 // skip 0 so it never collides with the null handle
	}
	slot.componentCount = recycledSentinel
	w.freeIDs.push(id)
}

// getOrCreatePool returns w's pool for T, lazily allocating it (and, if
// id exceeds the current pool array capacity, growing that array by
// doubling) on demand.
func getOrCreatePool[T any](w *World, id TypeID) *Pool[T] {
	idx := int(id) - 1
	if len(w.pools) <= idx {
		newLen := max2(idx+1, len(w.pools)*2)
		grown := make([]componentPool, newLen)
		copy(grown, w.pools)
		w.pools = grown
	}
	if w.pools[idx] == nil {
		w.pools[idx] = newPool[T](id, typeMetaFor(id), w.config.EntityComponentsCache*4)
	}
	return w.pools[idx].(*Pool[T])
}

func max2(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func (w *World) poolFor(t TypeID) (componentPool, error) {
	idx := int(t) - 1
	if idx < 0 || idx >= len(w.pools) || w.pools[idx] == nil {
		return nil, InvalidStateError{Reason: "no pool registered for type"}
	}
	return w.pools[idx], nil
}

// filterSignature canonicalizes include/exclude sets (order-independent)
// for the existing-filter lookup in GetFilter.
func filterSignature(include, exclude []TypeID) string {
	inc := append([]TypeID(nil), include...)
	exc := append([]TypeID(nil), exclude...)
	sort.Slice(inc, func(i, j int) bool { return inc[i] < inc[j] })
	sort.Slice(exc, func(i, j int) bool { return exc[i] < exc[j] })
	buf := make([]byte, 0, (len(inc)+len(exc))*6+2)
	for _, t := range inc {
		buf = appendInt(buf, int(t))
	}
	buf = append(buf, '|')
	for _, t := range exc {
		buf = appendInt(buf, int(t))
	}
	return string(buf)
}

func appendInt(buf []byte, v int) []byte {
	if v < 0 {
		buf = append(buf, '-')
		v = -v
	}
	start := len(buf)
	if v == 0 {
		return append(buf, '0', ',')
	}
	for v > 0 {
		buf = append(buf, byte('0'+v%10))
		v /= 10
	}
	// reverse the digits just appended
	for i, j := start, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return append(buf, ',')
}

// GetFilter returns the existing filter with the exact structural type
// (same include set, same exclude set, same declared order) if one
// exists. If an existing filter has the same sets in a different declared
// order, it fails with DuplicateFilterError. Otherwise it validates,
// constructs, seeds, and registers a new one.
func (w *World) GetFilter(include, exclude []TypeID) (*Filter, error) {
	for _, t := range include {
		for _, u := range exclude {
			if t == u {
				return nil, InvalidFilterError{Reason: "type appears in both include and exclude"}
			}
		}
	}

	sig := filterSignature(include, exclude)
	if existing, ok := w.filterSignatures[sig]; ok {
		if !sameOrder(existing.include, include) || !sameOrder(existing.exclude, exclude) {
			return nil, DuplicateFilterError{Include: include, Exclude: exclude}
		}
		return existing, nil
	}

	f := newFilter(w, include, exclude)
	w.filterSignatures[sig] = f
	w.filters = append(w.filters, f)
	for _, t := range include {
		w.filtersByInclude[t] = append(w.filtersByInclude[t], f)
	}
	for _, t := range exclude {
		w.filtersByExclude[t] = append(w.filtersByExclude[t], f)
	}

	for i := 1; i < w.entities.len(); i++ {
		slot := w.entities.ptrAt(i)
		if !slot.alive() {
			continue
		}
		if f.isCompatible(slot, 0) {
			f.addImmediate(Entity{id: uint32(i), generation: slot.generation, world: w}, slot)
		}
	}
	w.fireFilterCreated(f)
	return f, nil
}

func sameOrder(a, b []TypeID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// updateFilters is the structural-change dispatch: t
// is the absolute type index involved, polarity (the sign of signedType)
// says whether it is being added or is about to be removed, and slot is
// the entity's current component list, which at call time still reflects
// the pre-change state for removals and the post-change state for
// additions.
func (w *World) updateFilters(signedType TypeID, entity Entity, slot *entitySlot) {
	t := signedType
	if t < 0 {
		t = -t
	}
	if signedType > 0 {
		// Callers attach to slot before calling updateFilters, so slot
		// already reflects the real post-attach state - no probe needed.
		for _, f := range w.filtersByInclude[t] {
			if f.isCompatible(slot, 0) {
				f.onAddEntity(entity, slot)
			}
		}
		for _, f := range w.filtersByExclude[t] {
			if !f.isCompatible(slot, 0) {
				f.onRemoveEntity(entity)
			}
		}
	} else {
		// Callers invoke updateFilters before removing the pair from
		// slot, so slot still reflects the pre-removal state and a
		// negative probe simulates the removal that hasn't happened yet.
		for _, f := range w.filtersByExclude[t] {
			if f.isCompatible(slot, -t) {
				f.onAddEntity(entity, slot)
			}
		}
		for _, f := range w.filtersByInclude[t] {
			if !f.isCompatible(slot, -t) {
				f.onRemoveEntity(entity)
			}
		}
	}
}

// GetAllEntities fills (and, if needed, grows) out with every alive
// entity handle, returning the populated slice.
func (w *World) GetAllEntities(out []Entity) []Entity {
	out = out[:0]
	for i := 1; i < w.entities.len(); i++ {
		slot := w.entities.ptrAt(i)
		if slot.alive() {
			out = append(out, Entity{id: uint32(i), generation: slot.generation, world: w})
		}
	}
	return out
}

// WorldStats is the snapshot returned by World.Stats.
type WorldStats struct {
	Active     int
	Reserved   int
	Filters    int
	Components int
}

// Stats returns a point-in-time summary of world occupancy.
func (w *World) Stats() WorldStats {
	stats := WorldStats{Filters: len(w.filters)}
	for i := 1; i < w.entities.len(); i++ {
		slot := w.entities.ptrAt(i)
		if slot.alive() {
			stats.Active++
			stats.Components += slot.componentCount / 2
		} else {
			stats.Reserved++
		}
	}
	return stats
}

// AuditLeakedEntities returns every alive entity with zero attached
// components - one reached new_entity but never had a component
// attached by the time this audit ran. This is
// a debug-only scan; hosts typically call it at the end of a tick or
// test.
func (w *World) AuditLeakedEntities() []Entity {
	var leaked []Entity
	for i := 1; i < w.entities.len(); i++ {
		slot := w.entities.ptrAt(i)
		if slot.alive() && slot.componentCount == 0 {
			leaked = append(leaked, Entity{id: uint32(i), generation: slot.generation, world: w})
		}
	}
	return leaked
}

// Destroy destroys every alive entity, then every filter (unsubscribing
// each from the pool resize events it registered on construction), then
// marks the world not-alive. A second call is a contract violation.
func (w *World) Destroy() error {
	if !w.alive {
		assert(false, "World.Destroy called twice")
		return InvalidStateError{Reason: "world already destroyed"}
	}
	for i := 1; i < w.entities.len(); i++ {
		slot := w.entities.ptrAt(i)
		if slot.alive() {
			e := Entity{id: uint32(i), generation: slot.generation, world: w}
			_ = e.Destroy()
		}
	}
	for _, f := range w.filters {
		f.destroy()
	}
	w.alive = false
	w.fireWorldDestroyed()
	return nil
}

// AddDebugListener attaches l to this world's debug hook bus. Listeners only receive events while at least one is attached.
func (w *World) AddDebugListener(l DebugListener) {
	w.debugListeners = append(w.debugListeners, l)
}

// RemoveDebugListener detaches l, swapping it with the last listener
// (unordered-set removal, consistent with the rest of the engine).
func (w *World) RemoveDebugListener(l DebugListener) {
	for i, existing := range w.debugListeners {
		if existing == l {
			last := len(w.debugListeners) - 1
			w.debugListeners[i] = w.debugListeners[last]
			w.debugListeners = w.debugListeners[:last]
			return
		}
	}
}
