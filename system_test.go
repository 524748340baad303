package ecs

import "testing"

type lifecycleRecorder struct {
	order *[]string
	name  string
}

func (l *lifecycleRecorder) PreInit(w *World)    { *l.order = append(*l.order, l.name+":PreInit") }
func (l *lifecycleRecorder) Init(w *World)       { *l.order = append(*l.order, l.name+":Init") }
func (l *lifecycleRecorder) Run(w *World)        { *l.order = append(*l.order, l.name+":Run") }
func (l *lifecycleRecorder) Destroy(w *World)    { *l.order = append(*l.order, l.name+":Destroy") }
func (l *lifecycleRecorder) PostDestroy(w *World) { *l.order = append(*l.order, l.name+":PostDestroy") }

func TestSystemGroupRunsMembersInOrder(t *testing.T) {
	var order []string
	w := NewWorld(DefaultWorldConfig())
	g := NewSystemGroup(
		&lifecycleRecorder{order: &order, name: "a"},
		&lifecycleRecorder{order: &order, name: "b"},
	)

	g.PreInit(w)
	g.Init(w)
	g.Run(w)
	g.Destroy(w)
	g.PostDestroy(w)

	want := []string{
		"a:PreInit", "b:PreInit",
		"a:Init", "b:Init",
		"a:Run", "b:Run",
		"a:Destroy", "b:Destroy",
		"a:PostDestroy", "b:PostDestroy",
	}
	if len(order) != len(want) {
		t.Fatalf("recorded %d calls, expected %d: %v", len(order), len(want), order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("call %d = %s, expected %s", i, order[i], want[i])
		}
	}
}

// partialSystem implements only Run, exercising the "each phase is
// independently optional" contract.
type partialSystem struct{ ran bool }

func (p *partialSystem) Run(w *World) { p.ran = true }

func TestSystemGroupToleratesPartialImplementations(t *testing.T) {
	w := NewWorld(DefaultWorldConfig())
	p := &partialSystem{}
	g := NewSystemGroup(p)
	g.PreInit(w) // must not panic despite p having no PreInit
	g.Init(w)
	g.Run(w)
	g.Destroy(w)
	g.PostDestroy(w)
	if !p.ran {
		t.Errorf("expected Run to have executed")
	}
}

func TestOneFrameCleanupSystemDetachesMarker(t *testing.T) {
	w := NewWorld(DefaultWorldConfig())
	tag := NewComponentType[Tag](w)
	position := NewComponentType[Position](w)

	tagged := w.NewEntity()
	tag.Replace(tagged, Tag{})
	position.Replace(tagged, Position{})

	untagged := w.NewEntity()
	position.Replace(untagged, Position{})

	cleanup := NewOneFrameCleanupSystem(tag)
	cleanup.Run(w)

	if tag.Has(tagged) {
		t.Errorf("expected the marker component to be detached after cleanup")
	}
	if !position.Has(tagged) {
		t.Errorf("cleanup should only touch the marker type, not other components")
	}
	if !position.Has(untagged) {
		t.Errorf("cleanup should not affect entities that never had the marker")
	}
}

func TestOneFrameCleanupSystemRunsEveryTick(t *testing.T) {
	w := NewWorld(DefaultWorldConfig())
	tag := NewComponentType[Tag](w)
	position := NewComponentType[Position](w)
	cleanup := NewOneFrameCleanupSystem(tag)

	e := w.NewEntity()
	position.Replace(e, Position{}) // keeps e alive once the marker is detached
	tag.Replace(e, Tag{})
	cleanup.Run(w)
	if tag.Has(e) {
		t.Fatalf("expected marker to be gone after first Run")
	}

	tag.Replace(e, Tag{})
	cleanup.Run(w)
	if tag.Has(e) {
		t.Errorf("expected marker to be gone after a second Run on the same cleanup system")
	}
}
