package ecs

import "testing"

func TestPoolNewRecycleReusesSlot(t *testing.T) {
	p := newPool[Position](1, nil, 4)
	a := p.new()
	p.get(a).X = 1
	p.recycle(a)
	b := p.new()
	if b != a {
		t.Fatalf("expected recycle to return slot %d to the free list, new() gave %d", a, b)
	}
	if p.get(b).X != 0 {
		t.Errorf("recycled slot not zeroed: X = %f", p.get(b).X)
	}
}

func TestPoolCopyData(t *testing.T) {
	p := newPool[Position](1, nil, 4)
	src := p.new()
	*p.get(src) = Position{X: 3, Y: 4}
	dst := p.new()
	p.copyData(src, dst)
	if *p.get(dst) != *p.get(src) {
		t.Errorf("copyData: dst = %v, expected %v", *p.get(dst), *p.get(src))
	}
	// mutating dst must not alias src
	p.get(dst).X = 99
	if p.get(src).X == 99 {
		t.Errorf("copyData aliased src and dst")
	}
}

type resizeRecorder struct{ count int }

func (r *resizeRecorder) onPoolResize() { r.count++ }

func TestPoolResizeListener(t *testing.T) {
	p := newPool[Position](1, nil, 1)
	l := &resizeRecorder{}
	p.addResizeListener(l)
	for i := 0; i < 16; i++ {
		p.new()
	}
	if l.count == 0 {
		t.Errorf("expected at least one resize notification growing from cap 1 to 16 entries")
	}
}

func TestPoolRemoveResizeListener(t *testing.T) {
	p := newPool[Position](1, nil, 1)
	l := &resizeRecorder{}
	p.addResizeListener(l)
	p.removeResizeListener(l)
	for i := 0; i < 16; i++ {
		p.new()
	}
	if l.count != 0 {
		t.Errorf("expected no notifications after removal, got %d", l.count)
	}
}

func TestComponentRefValidity(t *testing.T) {
	var zero ComponentRef[Position]
	if zero.Valid() {
		t.Errorf("zero-value ComponentRef reported Valid")
	}

	w := NewWorld(DefaultWorldConfig())
	position := NewComponentType[Position](w)
	e := w.NewEntity()
	position.Replace(e, Position{X: 1, Y: 2})

	ref, err := position.Ref(e)
	if err != nil {
		t.Fatalf("Ref: %v", err)
	}
	if !ref.Valid() {
		t.Errorf("populated ComponentRef reported invalid")
	}
	if ref.Get().X != 1 {
		t.Errorf("ref.Get().X = %f, expected 1", ref.Get().X)
	}
}
