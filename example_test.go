package ecs_test

import (
	"fmt"

	"github.com/driftforge/ecs"
)

type Position struct {
	X, Y float64
}

type Velocity struct {
	X, Y float64
}

func Example_basic() {
	w := ecs.NewWorld(ecs.DefaultWorldConfig())
	position := ecs.NewComponentType[Position](w)
	velocity := ecs.NewComponentType[Velocity](w)

	e := w.NewEntity()
	position.Replace(e, Position{X: 0, Y: 0})
	velocity.Replace(e, Velocity{X: 1, Y: 2})

	filter, err := ecs.NewFilterBuilder().Include(position, velocity).Build(w)
	if err != nil {
		fmt.Println("build error:", err)
		return
	}

	for i := range filter.All() {
		pos := position.GetAt(filter, i)
		vel := velocity.GetAt(filter, i)
		pos.X += vel.X
		pos.Y += vel.Y
	}

	pos, _ := position.Get(e)
	fmt.Printf("x=%.0f y=%.0f\n", pos.X, pos.Y)
	// Output: x=1 y=2
}

func Example_filterExcludes() {
	w := ecs.NewWorld(ecs.DefaultWorldConfig())
	position := ecs.NewComponentType[Position](w)
	type Frozen struct{}
	frozen := ecs.NewComponentType[Frozen](w)

	active := w.NewEntity()
	position.Replace(active, Position{})

	held := w.NewEntity()
	position.Replace(held, Position{})
	frozen.Replace(held, Frozen{})

	filter, _ := ecs.NewFilterBuilder().Include(position).Exclude(frozen).Build(w)
	fmt.Println("active entities:", filter.Len())
	// Output: active entities: 1
}
