package ecs

// poolResizeListener is notified when a pool's backing array is
// reallocated. Filters subscribe to the pools they cache columns for;
// they cache slot indices, not pointers, so they have nothing to rebind.
type poolResizeListener interface {
	onPoolResize()
}

// componentPool is the type-erased face of Pool[T] that World and entity
// operations use when the concrete component type isn't known statically -
// destroy, copy, and move_to all walk an entity's component list and must
// recycle or copy whatever pool each pair names.
type componentPool interface {
	recycle(idx int)
	copyData(src, dst int)
	addResizeListener(l poolResizeListener)
	removeResizeListener(l poolResizeListener)
	valueAt(idx int) any
	new() int
}

// Pool is the per-component-type dense store: a used-prefix array of
// values plus a free list of recycled slots. An
// index returned by new is only valid while the component remains
// attached to its entity - recycle invalidates it immediately.
type Pool[T any] struct {
	id        TypeID
	meta      *typeMeta
	items     vector[T]
	free      vector[int]
	listeners []poolResizeListener
}

func newPool[T any](id TypeID, meta *typeMeta, initialCap int) *Pool[T] {
	return &Pool[T]{
		id:    id,
		meta:  meta,
		items: newVector[T](initialCap),
		free:  newVector[int](initialCap / 4),
	}
}

// new returns a reserved free-list slot if one exists, else grows the
// used prefix, doubling the backing array when full and broadcasting a
// resize notification. The reset routine, if any, runs only on freshly
// exposed slots - reused slots were already reset at recycle time.
func (p *Pool[T]) new() int {
	if n := p.free.len(); n > 0 {
		idx := p.free.at(n - 1)
		p.free.truncate(n - 1)
		return idx
	}
	if p.items.len() == p.items.cap() {
		p.items.grow()
		p.notifyResize()
	}
	idx := p.items.push(*new(T))
	if p.meta != nil && p.meta.hasAutoReset {
		p.meta.reset(p.items.ptrAt(idx))
	}
	return idx
}

// get returns a direct reference into the backing array. Callers must
// not retain it across a resize, recycle, or detach.
func (p *Pool[T]) get(idx int) *T {
	return p.items.ptrAt(idx)
}

// recycle invokes the reset routine if one is registered, otherwise
// zero-initializes the slot, then pushes idx onto the free list.
func (p *Pool[T]) recycle(idx int) {
	if p.meta != nil && p.meta.hasAutoReset {
		p.meta.reset(p.items.ptrAt(idx))
	} else {
		*p.items.ptrAt(idx) = *new(T)
	}
	p.free.push(idx)
}

// copyData value-copies the slot at src into dst.
func (p *Pool[T]) copyData(src, dst int) {
	*p.items.ptrAt(dst) = *p.items.ptrAt(src)
}

// valueAt boxes the value at idx for the reflection-based debug/UI
// helpers, which only know the component's TypeID, not T.
func (p *Pool[T]) valueAt(idx int) any {
	return p.items.at(idx)
}

// addResizeListener subscribes l to future backing-array resize events.
// Listener storage is an unordered set; removal swaps with the last
// element.
func (p *Pool[T]) addResizeListener(l poolResizeListener) {
	p.listeners = append(p.listeners, l)
}

func (p *Pool[T]) removeResizeListener(l poolResizeListener) {
	for i, existing := range p.listeners {
		if existing == l {
			last := len(p.listeners) - 1
			p.listeners[i] = p.listeners[last]
			p.listeners = p.listeners[:last]
			return
		}
	}
	assert(false, "removeResizeListener: listener not registered on pool of %s", TypeName(p.id))
}

func (p *Pool[T]) notifyResize() {
	for _, l := range p.listeners {
		l.onPoolResize()
	}
}

// ComponentRef is a deferred-access handle into a pool slot: valid only
// while the referenced component remains attached to its entity.
type ComponentRef[T any] struct {
	pool  *Pool[T]
	index int
}

// Get dereferences the ref. Behavior is undefined if the component has
// since been detached, recycled, or the owning world destroyed - callers
// are responsible for not retaining refs across those events.
func (r ComponentRef[T]) Get() *T {
	return r.pool.get(r.index)
}

// Valid reports whether this ref was ever populated (the zero value of
// ComponentRef is not valid).
func (r ComponentRef[T]) Valid() bool {
	return r.pool != nil
}
