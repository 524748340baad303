package ecs

import (
	"fmt"
	"iter"

	"github.com/TheBitDrifter/mask"
	iterutil "github.com/TheBitDrifter/util/iter"
)

// maskFastPathCap bounds the per-entity membership bitmask optimization
// described in DESIGN.md: types whose TypeID falls below this threshold
// are mirrored into a mask.Mask alongside the canonical component list,
// so Filter.isCompatible and Entity.hasType can reject outright without
// a linear scan. Types at or above the cap simply never populate the
// bitmask and always fall through to the exact scan - the bitmask is
// pure optimization, never the source of truth, so raising or lowering
// this constant only changes how often the fast path fires, never
// correctness.
const maskFastPathCap TypeID = 128

// recycledSentinel marks a slot that has been returned to the free list.
const recycledSentinel = -2

// entitySlot is the per-id record tracking a live entity. componentCount
// is stored pre-multiplied by two (the component list is stored as
// interleaved [typeIndex, poolIndex] pairs) to avoid a shift on every hot
// loop.
type entitySlot struct {
	generation     uint16
	componentCount int // -2 when recycled; otherwise len(components)
	components     vector[int]
	membership     mask.Mask
}

func (s *entitySlot) alive() bool {
	return s.componentCount != recycledSentinel
}

// hasType reports whether t is attached: a
// linear scan over the component list. The membership bitmask is
// consulted first only to short-circuit a definite "no" - bits are only
// ever marked, never cleared on detach, so a stale set bit just falls
// through to the scan below instead of producing a false positive.
func (s *entitySlot) hasType(t TypeID) bool {
	if t < maskFastPathCap {
		var probe mask.Mask
		probe.Mark(uint32(t))
		if !s.membership.ContainsAll(probe) {
			return false
		}
	}
	for i := 0; i < s.componentCount; i += 2 {
		if TypeID(s.components.at(i)) == t {
			return true
		}
	}
	return false
}

// indexInPool returns the pool slot index for t, or -1 if not attached.
func (s *entitySlot) indexInPool(t TypeID) int {
	for i := 0; i < s.componentCount; i += 2 {
		if TypeID(s.components.at(i)) == t {
			return s.components.at(i + 1)
		}
	}
	return -1
}

// appendPair records that t now occupies poolIdx in its pool, growing
// the component list (doubling) if full.
func (s *entitySlot) appendPair(t TypeID, poolIdx int) {
	s.components.ensureCap(s.componentCount + 2)
	if s.componentCount == s.components.len() {
		s.components.push(int(t))
		s.components.push(poolIdx)
	} else {
		s.components.set(s.componentCount, int(t))
		s.components.set(s.componentCount+1, poolIdx)
	}
	s.componentCount += 2
	if t < maskFastPathCap {
		s.membership.Mark(uint32(t))
	}
}

// removePairAt swap-removes the pair starting at byteIdx (an even offset
// into components) with the last pair.
func (s *entitySlot) removePairAt(byteIdx int) {
	last := s.componentCount - 2
	if byteIdx != last {
		s.components.set(byteIdx, s.components.at(last))
		s.components.set(byteIdx+1, s.components.at(last+1))
	}
	s.componentCount = last
	s.components.truncate(s.componentCount)
}

// peekLastPair returns the final [type, poolIndex] pair without removing
// it, so a caller can fire the remove-side filter dispatch (which needs
// slot to still reflect the pre-removal state) before truncating.
func (s *entitySlot) peekLastPair() (TypeID, int) {
	last := s.componentCount - 2
	return TypeID(s.components.at(last)), s.components.at(last + 1)
}

// truncateLastPair drops the final pair, used by Destroy to walk the
// component list high-index to low without disturbing earlier entries.
func (s *entitySlot) truncateLastPair() {
	s.componentCount -= 2
	s.components.truncate(s.componentCount)
}

// Entity is the value-type handle: an (id, generation)
// pair plus a non-owning reference to the world that minted it. The zero
// value is the distinguished null handle.
type Entity struct {
	id         uint32
	generation uint16
	world      *World
}

// ID returns the entity's slot index.
func (e Entity) ID() uint32 { return e.id }

// Generation returns the entity's generation tag.
func (e Entity) Generation() uint16 { return e.generation }

// World returns the owning world, or nil for the null handle.
func (e Entity) World() *World { return e.world }

// IsNull reports whether e is the distinguished null handle (id=0,
// generation=0), regardless of its world field.
func (e Entity) IsNull() bool {
	return e.id == 0 && e.generation == 0
}

// IsWorldAlive reports whether e's world has not been destroyed.
func (e Entity) IsWorldAlive() bool {
	return e.world != nil && e.world.alive
}

// IsAlive reports whether e still refers to a live slot with a matching
// generation.
func (e Entity) IsAlive() bool {
	if e.world == nil || !e.world.alive {
		return false
	}
	if e.id == 0 || int(e.id) >= e.world.entities.len() {
		return false
	}
	slot := e.world.entities.ptrAt(int(e.id))
	return slot.alive() && slot.generation == e.generation
}

// Equal reports whether two handles name the same entity in the same
// world at the same generation.
func (e Entity) Equal(other Entity) bool {
	return e.id == other.id && e.generation == other.generation && e.world == other.world
}

// AreIDEqual compares only the id field, ignoring generation and world -
// a rare-use helper for code that only needs slot identity.
func AreIDEqual(a, b Entity) bool {
	return a.id == b.id
}

func (e Entity) String() string {
	return fmt.Sprintf("Entity{id:%d gen:%d}", e.id, e.generation)
}

// slot validates the handle's generation against the live slot and
// returns it, per the contract that every entity operation requires
// slot.generation == handle.generation.
func (e Entity) slot() (*entitySlot, error) {
	if e.world == nil || !e.world.alive {
		return nil, InvalidStateError{Reason: "world is not alive"}
	}
	if e.id == 0 || int(e.id) >= e.world.entities.len() {
		return nil, InvalidHandleError{Entity: e, Reason: "out of range"}
	}
	s := e.world.entities.ptrAt(int(e.id))
	if !s.alive() || s.generation != e.generation {
		assert(false, "stale entity handle %v (slot generation %d)", e, s.generation)
		return nil, InvalidHandleError{Entity: e, Reason: "stale generation"}
	}
	return s, nil
}

func (e Entity) hasType(t TypeID) bool {
	s, err := e.slot()
	if err != nil {
		return false
	}
	return s.hasType(t)
}

func (e Entity) indexInPoolFor(t TypeID) int {
	s, err := e.slot()
	if err != nil {
		return -1
	}
	return s.indexInPool(t)
}

// attach appends the pair and fires the add-side filter dispatch. It is
// the shared tail of ComponentID[T].Get and ComponentID[T].Replace when
// the component is not yet present.
func (e Entity) attach(t TypeID, poolIdx int) {
	s, _ := e.slot()
	s.appendPair(t, poolIdx)
	e.world.fireComponentListChanged(e)
	e.world.updateFilters(t, e, s)
}

// detach removes t from e's component list, firing the remove-side
// filter dispatch before the pool slot is freed and recycling the entity
// slot if this was its last component.
func (e Entity) detach(t TypeID, pool componentPool) {
	s, err := e.slot()
	if err != nil {
		return
	}
	byteIdx := -1
	for i := 0; i < s.componentCount; i += 2 {
		if TypeID(s.components.at(i)) == t {
			byteIdx = i
			break
		}
	}
	if byteIdx < 0 {
		return
	}
	poolIdx := s.components.at(byteIdx + 1)
	e.world.updateFilters(-t, e, s)
	pool.recycle(poolIdx)
	s.removePairAt(byteIdx)
	e.world.fireComponentListChanged(e)
	if s.componentCount == 0 {
		e.world.recycleEntitySlot(e.id, s)
	}
}

// Destroy releases every component attached to e, high-index to low, and
// recycles the entity slot.
func (e Entity) Destroy() error {
	s, err := e.slot()
	if err != nil {
		return err
	}
	for s.componentCount > 0 {
		t, poolIdx := s.peekLastPair()
		e.world.updateFilters(-t, e, s)
		s.truncateLastPair()
		if pool, perr := e.world.poolFor(t); perr == nil {
			pool.recycle(poolIdx)
		}
	}
	e.world.fireEntityDestroyed(e)
	e.world.recycleEntitySlot(e.id, s)
	return nil
}

// typeSeq yields s's attached type indices in declaration order.
func (s *entitySlot) typeSeq() iter.Seq[TypeID] {
	return func(yield func(TypeID) bool) {
		for i := 0; i < s.componentCount; i += 2 {
			if !yield(TypeID(s.components.at(i))) {
				return
			}
		}
	}
}

// GetComponentTypes appends e's attached type indices onto out (debug/UI
// helper).
func (e Entity) GetComponentTypes(out []TypeID) []TypeID {
	s, err := e.slot()
	if err != nil {
		return out
	}
	return append(out, iterutil.Collect(s.typeSeq())...)
}

// GetComponentValues appends e's attached component values, boxed, onto
// out in the same declaration order as GetComponentTypes (debug/UI
// helper; boxing on this path is acceptable since it is never called
// from a hot loop).
func (e Entity) GetComponentValues(out []any) []any {
	s, err := e.slot()
	if err != nil {
		return out
	}
	for i := 0; i < s.componentCount; i += 2 {
		t := TypeID(s.components.at(i))
		poolIdx := s.components.at(i + 1)
		pool, perr := e.world.poolFor(t)
		if perr != nil {
			continue
		}
		out = append(out, pool.valueAt(poolIdx))
	}
	return out
}

// ComponentCount returns the number of components currently attached.
func (e Entity) ComponentCount() int {
	s, err := e.slot()
	if err != nil {
		return 0
	}
	return s.componentCount / 2
}

// Copy allocates a new entity and, for every component attached to e in
// declaration order, allocates a fresh pool slot and value-copies into
// it, firing filter updates per attached type.
func (e Entity) Copy() (Entity, error) {
	s, err := e.slot()
	if err != nil {
		return Entity{}, err
	}
	dst := e.world.NewEntity()
	dstSlot, _ := dst.slot()
	for i := 0; i < s.componentCount; i += 2 {
		t := TypeID(s.components.at(i))
		srcIdx := s.components.at(i + 1)
		pool, perr := e.world.poolFor(t)
		if perr != nil {
			continue
		}
		dstIdx := pool.new()
		pool.copyData(srcIdx, dstIdx)
		dstSlot.appendPair(t, dstIdx)
		e.world.fireComponentListChanged(dst)
		e.world.updateFilters(t, dst, dstSlot)
	}
	return dst, nil
}

// MoveTo transfers every component from e onto target - overwriting any
// type target already has, attaching any it lacks - then destroys e.
func (e Entity) MoveTo(target Entity) error {
	if e.world == nil || target.world == nil || e.world != target.world {
		return InvalidStateError{Reason: "move_to requires entities from the same world"}
	}
	if e.Equal(target) {
		return InvalidStateError{Reason: "move_to source and target alias the same entity"}
	}
	srcSlot, err := e.slot()
	if err != nil {
		return err
	}
	if _, err := target.slot(); err != nil {
		return err
	}
	for i := 0; i < srcSlot.componentCount; i += 2 {
		t := TypeID(srcSlot.components.at(i))
		srcIdx := srcSlot.components.at(i + 1)
		pool, perr := e.world.poolFor(t)
		if perr != nil {
			continue
		}
		if dstIdx := target.indexInPoolFor(t); dstIdx >= 0 {
			pool.copyData(srcIdx, dstIdx)
			continue
		}
		dstIdx := pool.new()
		pool.copyData(srcIdx, dstIdx)
		dstSlot, _ := target.slot()
		dstSlot.appendPair(t, dstIdx)
		e.world.fireComponentListChanged(target)
		e.world.updateFilters(t, target, dstSlot)
	}
	return e.Destroy()
}
