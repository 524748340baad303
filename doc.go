/*
Package ecs is a pool-and-filter Entity-Component-System runtime.

Components of the same type live together in a dense, pool-backed array
addressed by a stable slot index; an entity is a generation-tagged handle
into a slot that records, per attached component, its type and pool
index. Filters materialize the set of entities matching an include/exclude
type query and cache each matched entity's pool index per included type,
so iterating a filter never re-scans an entity's component list.

Core Concepts:

  - Entity: a generation-tagged handle reused safely once its slot is recycled.
  - Component: a plain value type registered once per process via NewComponentType.
  - Pool: the dense, type-specific backing store for one component type.
  - Filter: an incrementally maintained view over entities matching a type query.
  - System: user logic invoked on pre-init/init/run/destroy/post-destroy.

Basic Usage:

	w := ecs.NewWorld(ecs.DefaultWorldConfig())
	position := ecs.NewComponentType[Position](w)
	velocity := ecs.NewComponentType[Velocity](w)

	e := w.NewEntity()
	position.Replace(e, Position{X: 0, Y: 0})
	velocity.Replace(e, Velocity{X: 1, Y: 0})

	filter, _ := ecs.NewFilterBuilder().Include(position, velocity).Build(w)
	for i := range filter.All() {
		pos := position.GetAt(filter, i)
		vel := velocity.GetAt(filter, i)
		pos.X += vel.X
		pos.Y += vel.Y
	}
*/
package ecs
