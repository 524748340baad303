package ecs

import "github.com/TheBitDrifter/mask"

// deferredKind distinguishes the two operations a locked filter must
// queue rather than apply immediately.
type deferredKind int

const (
	deferredAdd deferredKind = iota
	deferredRemove
)

type deferredOp struct {
	kind deferredKind
	e    Entity
}

// Filter is a materialized, incrementally maintained view over every
// entity whose component list satisfies an include/exclude type set
//. Its entities array is the iteration order; getK
// mirrors the pool slot index of each included, filterable type for
// every position in that array, so a running system never re-scans an
// entity's component list to find a type it already knows is there.
type Filter struct {
	world   *World
	include []TypeID
	exclude []TypeID

	includeMask mask.Mask
	excludeMask mask.Mask

	// kOf maps a filterable (not ignore-in-filter) include type to its
	// column in getK; types marked WithIgnoreInFilter never get a column.
	kOf  map[TypeID]int
	getK [][]int // getK[k][pos] = pool slot index of include[k] for entities[pos]

	entities  vector[Entity]
	entityPos map[uint32]int // entity id -> position in entities

	lock     int
	deferred vector[deferredOp]
}

func newFilter(w *World, include, exclude []TypeID) *Filter {
	f := &Filter{
		world:     w,
		include:   append([]TypeID(nil), include...),
		exclude:   append([]TypeID(nil), exclude...),
		kOf:       make(map[TypeID]int),
		entities:  newVector[Entity](w.config.FilterEntitiesCache),
		entityPos: make(map[uint32]int, w.config.FilterEntitiesCache),
	}
	for _, t := range include {
		if t < maskFastPathCap {
			f.includeMask.Mark(uint32(t))
		}
		if !typeMetaFor(t).ignoreInFilter {
			f.kOf[t] = len(f.getK)
			f.getK = append(f.getK, nil)
		}
	}
	for _, t := range exclude {
		if t < maskFastPathCap {
			f.excludeMask.Mark(uint32(t))
		}
	}
	// Subscribe to every cached column's pool so a backing-array resize
	// is observable. Pool indices, not raw pointers, are
	// what getK stores - a resize only reallocates the backing array, it
	// never changes which index names a given slot - so the callback has
	// nothing to rebind; it exists to satisfy the subscribe/unsubscribe
	// lifecycle contract and as a hook for future direct-pointer caching.
	for t := range f.kOf {
		if pool, err := w.poolFor(t); err == nil {
			pool.addResizeListener(f)
		}
	}
	return f
}

// onPoolResize implements poolResizeListener. getK caches pool slot
// indices rather than raw pointers (see newFilter), so a resize never
// invalidates a cached value; this is intentionally a no-op.
func (f *Filter) onPoolResize() {}

// isCompatible evaluates the three-valued compatibility predicate: a
// probe of 0 asks "is slot, as it stands, compatible right now"; a
// positive probe simulates slot already having that type attached (used
// when it is about to be added); a negative probe simulates slot having
// had -probe removed (used when it is about to be removed). slot itself
// is never mutated.
func (f *Filter) isCompatible(slot *entitySlot, probe TypeID) bool {
	if probe == 0 && !slot.membership.ContainsAll(f.includeMask) {
		// membership only ever gains bits, so a missing required bit here
		// means the type was never attached to this slot - no probe can
		// change that verdict.
		return false
	}
	for _, t := range f.include {
		if t == probe {
			continue // simulated add - count as present regardless of slot's real state
		}
		if t == -probe {
			return false // simulated remove of a required type
		}
		if !slot.hasType(t) {
			return false
		}
	}
	scanExclude := probe != 0 || !slot.membership.ContainsNone(f.excludeMask)
	for _, t := range f.exclude {
		if t >= maskFastPathCap {
			scanExclude = true // never mirrored into excludeMask, so the mask says nothing about it
		}
	}
	if scanExclude {
		// A slot whose membership mask shares no bit with excludeMask has
		// never had any mirrored excluded type attached (bits are
		// monotonic), so when every excluded type is below maskFastPathCap
		// the exclude side passes trivially and the scan can be skipped
		// outright - but only when probe is 0, since a nonzero probe can
		// still add or remove an excluded type the mask already reflects.
		for _, t := range f.exclude {
			if t == probe {
				return false // simulated add of an excluded type
			}
			if t == -probe {
				continue // simulated remove of an excluded type - no longer disqualifying
			}
			if slot.hasType(t) {
				return false
			}
		}
	}
	return true
}

// onAddEntity is called once an entity has just become compatible,
// either because a component was attached or because update_filters
// determined removal of an excluded type would restore compatibility.
func (f *Filter) onAddEntity(e Entity, slot *entitySlot) {
	if _, already := f.entityPos[e.id]; already {
		return
	}
	if f.lock > 0 {
		f.deferred.push(deferredOp{kind: deferredAdd, e: e})
		return
	}
	f.addImmediate(e, slot)
}

// onRemoveEntity is called once an entity has just become incompatible.
func (f *Filter) onRemoveEntity(e Entity) {
	if _, present := f.entityPos[e.id]; !present {
		return
	}
	if f.lock > 0 {
		f.deferred.push(deferredOp{kind: deferredRemove, e: e})
		return
	}
	f.removeImmediate(e.id)
}

func (f *Filter) addImmediate(e Entity, slot *entitySlot) {
	pos := f.entities.push(e)
	f.entityPos[e.id] = pos
	for t, k := range f.kOf {
		idx := slot.indexInPool(t)
		f.ensureColumn(k, pos+1)
		f.getK[k][pos] = idx
	}
}

func (f *Filter) ensureColumn(k, n int) {
	for len(f.getK[k]) < n {
		f.getK[k] = append(f.getK[k], -1)
	}
}

// removeImmediate swap-removes id's entry from both the entities array
// and every getK column, keeping them in lockstep.
func (f *Filter) removeImmediate(id uint32) {
	pos, ok := f.entityPos[id]
	if !ok {
		return
	}
	last := f.entities.len() - 1
	if pos != last {
		moved := f.entities.at(last)
		f.entities.set(pos, moved)
		f.entityPos[moved.id] = pos
		for k := range f.getK {
			f.getK[k][pos] = f.getK[k][last]
		}
	}
	f.entities.truncate(last)
	for k := range f.getK {
		f.getK[k] = f.getK[k][:last]
	}
	delete(f.entityPos, id)
}

// lockIter increments the reentrant iteration lock, causing subsequent
// structural changes discovered via update_filters to queue instead of
// mutating entities/getK in place.
func (f *Filter) lockIter() { f.lock++ }

// unlockIter decrements the lock and, once it reaches zero, drains every
// deferred operation in the order it was recorded. Underflowing past
// zero is a contract violation, gated like every other one by
// DebugAssertions; a release build simply ignores the stray call.
func (f *Filter) unlockIter() {
	if f.lock == 0 {
		assert(false, "Filter.unlockIter: lock/unlock calls are unbalanced")
		return
	}
	f.lock--
	if f.lock == 0 {
		f.drainDeferred()
	}
}

func (f *Filter) drainDeferred() {
	n := f.deferred.len()
	for i := 0; i < n; i++ {
		op := f.deferred.at(i)
		switch op.kind {
		case deferredAdd:
			if slot, err := op.e.slot(); err == nil && f.isCompatible(slot, 0) {
				f.addImmediate(op.e, slot)
			}
		case deferredRemove:
			f.removeImmediate(op.e.id)
		}
	}
	f.deferred.truncate(0)
}

// destroy unsubscribes from every pool this filter registered with and
// clears its membership; called once by World.Destroy.
func (f *Filter) destroy() {
	for t := range f.kOf {
		if pool, err := f.world.poolFor(t); err == nil {
			pool.removeResizeListener(f)
		}
	}
	f.entities.truncate(0)
	f.entityPos = make(map[uint32]int)
	for k := range f.getK {
		f.getK[k] = f.getK[k][:0]
	}
}

// Len returns the number of entities currently matching the filter.
func (f *Filter) Len() int { return f.entities.len() }

// EntityAt returns the entity at ordinal position pos.
func (f *Filter) EntityAt(pos int) Entity { return f.entities.at(pos) }

// getKAt returns the pool slot index cached for type t at position pos.
// t must be part of the include set and must not be ignore-in-filter;
// violating either is a contract violation.
func (f *Filter) getKAt(t TypeID, pos int) int {
	k, ok := f.kOf[t]
	if !ok {
		assert(false, "getKAt: type %s is not a cached include column of this filter", TypeName(t))
		return -1
	}
	return f.getK[k][pos]
}

// Iterator walks a filter while holding its iteration lock, so that any
// structural change triggered by the loop body (attach/detach/destroy)
// is deferred until Close.
type Iterator struct {
	filter *Filter
	pos    int
	closed bool
}

// Iter begins a locked iteration pass; callers must call Close (directly
// or via defer) exactly once.
func (f *Filter) Iter() *Iterator {
	f.lockIter()
	return &Iterator{filter: f, pos: -1}
}

// Next advances to the next matching entity, reporting whether one was
// available. Entities queued mid-iteration are not visited until the
// next pass - iteration sees a snapshot taken at lock time.
func (it *Iterator) Next() bool {
	it.pos++
	return it.pos < it.filter.entities.len()
}

// Entity returns the entity at the iterator's current position.
func (it *Iterator) Entity() Entity {
	return it.filter.entities.at(it.pos)
}

// Close releases the iteration lock, flushing any deferred structural
// change recorded while this pass was active.
func (it *Iterator) Close() {
	if it.closed {
		return
	}
	it.closed = true
	it.filter.unlockIter()
}

// All returns a range-over-func iterator yielding ordinal positions,
// matching the idiom the standard "iter" package establishes for
// for-range over user-defined sequences. The iteration lock is held for
// the full loop, including an early break, via a deferred unlockIter.
func (f *Filter) All() func(yield func(int) bool) {
	return func(yield func(int) bool) {
		f.lockIter()
		defer f.unlockIter()
		for i := 0; i < f.entities.len(); i++ {
			if !yield(i) {
				return
			}
		}
	}
}

// Typed is implemented by ComponentID[T], letting FilterBuilder accept
// heterogeneous component handles without reflection.
type Typed interface {
	TypeID() TypeID
}

// FilterBuilder accumulates include/exclude types before resolving them
// against a world via Build.
type FilterBuilder struct {
	include []TypeID
	exclude []TypeID
}

// NewFilterBuilder starts an empty builder.
func NewFilterBuilder() *FilterBuilder {
	return &FilterBuilder{}
}

// Include adds t's types to the filter's include set.
func (b *FilterBuilder) Include(types ...Typed) *FilterBuilder {
	for _, t := range types {
		b.include = append(b.include, t.TypeID())
	}
	return b
}

// Exclude adds t's types to the filter's exclude set.
func (b *FilterBuilder) Exclude(types ...Typed) *FilterBuilder {
	for _, t := range types {
		b.exclude = append(b.exclude, t.TypeID())
	}
	return b
}

// Build resolves the accumulated include/exclude sets against w,
// returning the existing filter of that exact shape or constructing a
// new one.
func (b *FilterBuilder) Build(w *World) (*Filter, error) {
	return w.GetFilter(b.include, b.exclude)
}
