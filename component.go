package ecs

// ComponentID is a per-world, per-type accessor: it carries the
// component's type index and a direct pointer to its pool in one world, so
// Has, Get, Replace, Del, Ref and IndexInPool are pool-array access plus,
// at most, a linear scan of one entity's component list - no map lookup,
// no reflection. GetFromIter and GetAt add one lookup in the filter's
// column map.
//
// Register one ComponentID[T] per (World, T) pair via NewComponentType
// and reuse it; constructing a fresh ComponentID[T] for the same T and
// World is cheap (the pool is looked up, not reallocated) but pointless
// churn compared to holding the value.
type ComponentID[T any] struct {
	id   TypeID
	pool *Pool[T]
}

// NewComponentType registers (or looks up) T's process-wide TypeID and
// binds it to w's pool for T, creating that pool on first use. opts configure T's registry metadata
// (ignore-in-filter, auto-reset) and apply only the first time T is ever
// registered in the process.
func NewComponentType[T any](w *World, opts ...componentOption[T]) ComponentID[T] {
	id := registerType[T](opts...)
	pool := getOrCreatePool[T](w, id)
	return ComponentID[T]{id: id, pool: pool}
}

// TypeID returns the component's process-wide type index.
func (c ComponentID[T]) TypeID() TypeID { return c.id }

// Has reports whether T is attached to e.
func (c ComponentID[T]) Has(e Entity) bool {
	return e.hasType(c.id)
}

// Get is the insert-or-access primitive: if T is
// attached, returns the current value; otherwise attaches a fresh slot
// (the pool's reset-or-zero value), fires the filter dispatch, and
// returns that.
func (c ComponentID[T]) Get(e Entity) (*T, error) {
	s, err := e.slot()
	if err != nil {
		return nil, err
	}
	if idx := s.indexInPool(c.id); idx >= 0 {
		return c.pool.get(idx), nil
	}
	idx := c.pool.new()
	e.attach(c.id, idx)
	return c.pool.get(idx), nil
}

// Replace overwrites T's value in place if already attached, else
// attaches and writes value, firing a filter update with polarity
// +TypeID. Replace on a component declaring
// auto-reset is a contract violation: it would bypass the invariants the
// reset routine exists to maintain.
func (c ComponentID[T]) Replace(e Entity, value T) (*T, error) {
	meta := typeMetaFor(c.id)
	assert(!meta.hasAutoReset, "Replace called on auto-reset component %s", TypeName(c.id))
	if meta.hasAutoReset {
		return nil, InvalidFilterError{Reason: "Replace is not compatible with auto-reset components"}
	}
	s, err := e.slot()
	if err != nil {
		return nil, err
	}
	if idx := s.indexInPool(c.id); idx >= 0 {
		v := c.pool.get(idx)
		*v = value
		return v, nil
	}
	idx := c.pool.new()
	*c.pool.get(idx) = value
	e.attach(c.id, idx)
	return c.pool.get(idx), nil
}

// Del detaches T from e if attached; a no-op, firing no filter updates,
// if it was never attached.
func (c ComponentID[T]) Del(e Entity) {
	e.detach(c.id, c.pool)
}

// Ref returns a ComponentRef valid only while T remains attached to e.
func (c ComponentID[T]) Ref(e Entity) (ComponentRef[T], error) {
	s, err := e.slot()
	if err != nil {
		return ComponentRef[T]{}, err
	}
	idx := s.indexInPool(c.id)
	if idx < 0 {
		return ComponentRef[T]{}, InvalidHandleError{Entity: e, Reason: "component not attached"}
	}
	return ComponentRef[T]{pool: c.pool, index: idx}, nil
}

// IndexInPool returns e's pool slot index for T, or -1 if not attached.
func (c ComponentID[T]) IndexInPool(e Entity) int {
	return e.indexInPoolFor(c.id)
}

// GetFromIter dereferences T for the entity at the iterator's current
// ordinal position, via the filter's cached get_k array - the O(1) read
// path a filter exists to provide. Panics (debug builds) if T is marked
// ignore-in-filter or not part of the filter's include set.
func (c ComponentID[T]) GetFromIter(it *Iterator) *T {
	idx := it.filter.getKAt(c.id, it.pos)
	return c.pool.get(idx)
}

// GetAt is the position-addressed twin of GetFromIter, for callers
// walking a filter by raw ordinal (e.g. from Filter.All).
func (c ComponentID[T]) GetAt(f *Filter, pos int) *T {
	idx := f.getKAt(c.id, pos)
	return c.pool.get(idx)
}
