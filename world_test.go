package ecs

import "testing"

func TestNewWorldAppliesDefaults(t *testing.T) {
	w := NewWorld(WorldConfig{})
	if w.config != DefaultWorldConfig() {
		t.Errorf("NewWorld with a zero-value config should apply defaults, got %+v", w.config)
	}
}

func TestWorldNewEntityIDsStartAtOne(t *testing.T) {
	w := NewWorld(DefaultWorldConfig())
	e := w.NewEntity()
	if e.ID() == 0 {
		t.Errorf("entity id 0 is reserved for the null handle")
	}
}

func TestWorldStats(t *testing.T) {
	w := NewWorld(DefaultWorldConfig())
	position := NewComponentType[Position](w)
	e1 := w.NewEntity()
	position.Replace(e1, Position{})
	e2 := w.NewEntity()
	position.Replace(e2, Position{})
	e2.Destroy()

	if _, err := w.GetFilter([]TypeID{position.TypeID()}, nil); err != nil {
		t.Fatalf("GetFilter: %v", err)
	}

	stats := w.Stats()
	if stats.Active != 1 {
		t.Errorf("Active = %d, expected 1", stats.Active)
	}
	if stats.Reserved != 1 {
		t.Errorf("Reserved = %d, expected 1", stats.Reserved)
	}
	if stats.Filters != 1 {
		t.Errorf("Filters = %d, expected 1", stats.Filters)
	}
}

func TestWorldGetAllEntities(t *testing.T) {
	w := NewWorld(DefaultWorldConfig())
	position := NewComponentType[Position](w)
	var created []Entity
	for i := 0; i < 4; i++ {
		e := w.NewEntity()
		position.Replace(e, Position{})
		created = append(created, e)
	}
	all := w.GetAllEntities(nil)
	if len(all) != len(created) {
		t.Fatalf("GetAllEntities returned %d entities, expected %d", len(all), len(created))
	}
}

func TestWorldGetAllEntitiesIncludesZeroComponentEntities(t *testing.T) {
	w := NewWorld(DefaultWorldConfig())
	position := NewComponentType[Position](w)
	bare := w.NewEntity() // alive, never had a component attached
	withComponent := w.NewEntity()
	position.Replace(withComponent, Position{})

	all := w.GetAllEntities(nil)
	if len(all) != 2 {
		t.Fatalf("GetAllEntities returned %d entities, expected 2 (including the zero-component one)", len(all))
	}
	var sawBare bool
	for _, e := range all {
		if e.ID() == bare.ID() {
			sawBare = true
		}
	}
	if !sawBare {
		t.Errorf("GetAllEntities omitted the zero-component alive entity %v", bare)
	}
}

func TestWorldAuditLeakedEntities(t *testing.T) {
	w := NewWorld(DefaultWorldConfig())
	position := NewComponentType[Position](w)
	leaked := w.NewEntity() // never gets a component attached
	healthy := w.NewEntity()
	position.Replace(healthy, Position{})

	audit := w.AuditLeakedEntities()
	if len(audit) != 1 || audit[0].ID() != leaked.ID() {
		t.Fatalf("AuditLeakedEntities = %v, expected exactly [%v]", audit, leaked)
	}
}

func TestWorldDestroyIsIdempotentError(t *testing.T) {
	w := NewWorld(DefaultWorldConfig())
	if err := w.Destroy(); err != nil {
		t.Fatalf("first Destroy: %v", err)
	}
	if err := w.Destroy(); err == nil {
		t.Errorf("expected an error on a second Destroy call")
	}
}

func TestWorldDestroyDestroysEveryEntity(t *testing.T) {
	w := NewWorld(DefaultWorldConfig())
	position := NewComponentType[Position](w)
	e := w.NewEntity()
	position.Replace(e, Position{})

	if err := w.Destroy(); err != nil {
		t.Fatalf("Destroy: %v", err)
	}
	if e.IsAlive() {
		t.Errorf("entity should not be alive after its world is destroyed")
	}
}

type recordingListener struct {
	created, destroyed, filterCreated, listChanged, worldDestroyed int
}

func (r *recordingListener) OnEntityCreated(Entity)         { r.created++ }
func (r *recordingListener) OnEntityDestroyed(Entity)       { r.destroyed++ }
func (r *recordingListener) OnFilterCreated(*Filter)        { r.filterCreated++ }
func (r *recordingListener) OnComponentListChanged(Entity)  { r.listChanged++ }
func (r *recordingListener) OnWorldDestroyed(*World)        { r.worldDestroyed++ }
func (r *recordingListener) OnSystemsDestroyed(*World)      {}

func TestWorldDebugListenerReceivesHooks(t *testing.T) {
	w := NewWorld(DefaultWorldConfig())
	position := NewComponentType[Position](w)
	l := &recordingListener{}
	w.AddDebugListener(l)

	e := w.NewEntity()
	position.Replace(e, Position{})
	if _, err := w.GetFilter([]TypeID{position.TypeID()}, nil); err != nil {
		t.Fatalf("GetFilter: %v", err)
	}
	e.Destroy()
	w.Destroy()

	if l.created == 0 {
		t.Errorf("expected OnEntityCreated to fire")
	}
	if l.listChanged == 0 {
		t.Errorf("expected OnComponentListChanged to fire")
	}
	if l.filterCreated != 1 {
		t.Errorf("OnFilterCreated fired %d times, expected 1", l.filterCreated)
	}
	if l.destroyed != 1 {
		t.Errorf("OnEntityDestroyed fired %d times, expected 1", l.destroyed)
	}
	if l.worldDestroyed != 1 {
		t.Errorf("OnWorldDestroyed fired %d times, expected 1", l.worldDestroyed)
	}
}

func TestWorldRemoveDebugListenerStopsDelivery(t *testing.T) {
	w := NewWorld(DefaultWorldConfig())
	l := &recordingListener{}
	w.AddDebugListener(l)
	w.RemoveDebugListener(l)
	w.NewEntity()
	if l.created != 0 {
		t.Errorf("expected no events after RemoveDebugListener, got %d", l.created)
	}
}
