package ecs

// System is user logic invoked on a fixed lifecycle: each
// phase is its own optional interface, so a system implements only the
// phases it cares about. A value satisfying none of them is still a
// valid, inert System.
type System interface{}

// PreIniter runs once, before any system's Init, in registration order.
type PreIniter interface {
	PreInit(w *World)
}

// Initer runs once, after every system's PreInit has run.
type Initer interface {
	Init(w *World)
}

// Runner runs every tick.
type Runner interface {
	Run(w *World)
}

// Destroyer runs once when the owning group is torn down, before
// PostDestroy.
type Destroyer interface {
	Destroy(w *World)
}

// PostDestroyer runs once, after every system's Destroy has run.
type PostDestroyer interface {
	PostDestroy(w *World)
}

// SystemGroup is itself a System: its five lifecycle methods fan out to
// its members in registration order, so a group can be nested inside
// another group or run directly.
type SystemGroup struct {
	members []System
}

// NewSystemGroup builds a group running members in the given order.
func NewSystemGroup(members ...System) *SystemGroup {
	return &SystemGroup{members: members}
}

// Add appends a system to the end of the group's run order.
func (g *SystemGroup) Add(s System) {
	g.members = append(g.members, s)
}

func (g *SystemGroup) PreInit(w *World) {
	for _, m := range g.members {
		if s, ok := m.(PreIniter); ok {
			s.PreInit(w)
		}
	}
}

func (g *SystemGroup) Init(w *World) {
	for _, m := range g.members {
		if s, ok := m.(Initer); ok {
			s.Init(w)
		}
	}
}

func (g *SystemGroup) Run(w *World) {
	for _, m := range g.members {
		if s, ok := m.(Runner); ok {
			s.Run(w)
		}
	}
}

func (g *SystemGroup) Destroy(w *World) {
	for _, m := range g.members {
		if s, ok := m.(Destroyer); ok {
			s.Destroy(w)
		}
	}
	w.fireSystemsDestroyed()
}

func (g *SystemGroup) PostDestroy(w *World) {
	for _, m := range g.members {
		if s, ok := m.(PostDestroyer); ok {
			s.PostDestroy(w)
		}
	}
}

// OneFrameCleanupSystem is a library-provided pseudo-system: inserted at
// a position in the run sequence, it detaches markerType from every
// entity that currently carries it, using a private include={markerType}
// filter it builds lazily on first Run.
type OneFrameCleanupSystem[T any] struct {
	id     ComponentID[T]
	filter *Filter
}

// NewOneFrameCleanupSystem builds a cleanup system for the marker
// component identified by id.
func NewOneFrameCleanupSystem[T any](id ComponentID[T]) *OneFrameCleanupSystem[T] {
	return &OneFrameCleanupSystem[T]{id: id}
}

// Run detaches the marker component from every matching entity. Walking
// backward lets removeImmediate's swap-remove shrink the filter's
// entities array in place without skipping an entity pulled forward
// into an already-visited position.
func (s *OneFrameCleanupSystem[T]) Run(w *World) {
	if s.filter == nil {
		f, err := w.GetFilter([]TypeID{s.id.TypeID()}, nil)
		if err != nil {
			assert(false, "OneFrameCleanupSystem: failed to build its own filter: %v", err)
			return
		}
		s.filter = f
	}
	for i := s.filter.Len() - 1; i >= 0; i-- {
		s.id.Del(s.filter.EntityAt(i))
	}
}
