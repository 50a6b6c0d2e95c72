package ecs

import "github.com/milk9111/suika/ecs/component"

// Kind is satisfied by every component.ComponentKind.
type Kind interface {
	ID() component.ID
	Valid() bool
}

// World owns entity slots, component storages and the per-frame event queue.
type World struct {
	gens   []generation
	alive  []bool
	free   []entityID
	stores map[component.ID]*SparseSet
	events EventQueue
}

// NewWorld creates an empty world.
func NewWorld() *World {
	return &World{stores: make(map[component.ID]*SparseSet)}
}

// CreateEntity allocates a new entity, reusing freed slots.
func CreateEntity(w *World) Entity {
	if w == nil {
		return 0
	}
	var id entityID
	if n := len(w.free); n > 0 {
		id = w.free[n-1]
		w.free = w.free[:n-1]
	} else {
		w.gens = append(w.gens, 0)
		w.alive = append(w.alive, false)
		id = entityID(len(w.gens))
	}
	w.alive[id-1] = true
	return makeEntity(id, w.gens[id-1])
}

// DestroyEntity strips every component from e and frees its slot. It
// reports false for handles that are already dead.
func DestroyEntity(w *World, e Entity) bool {
	if !IsAlive(w, e) {
		return false
	}
	for _, store := range w.stores {
		store.Remove(e)
	}
	idx := e.id() - 1
	w.alive[idx] = false
	w.gens[idx]++
	w.free = append(w.free, e.id())
	return true
}

// IsAlive reports whether e refers to a live slot of the current generation.
func IsAlive(w *World, e Entity) bool {
	if w == nil || !e.Valid() || int(e.id()) > len(w.gens) {
		return false
	}
	idx := e.id() - 1
	return w.alive[idx] && w.gens[idx] == e.generation()
}

// Entities lists every live entity in slot order.
func Entities(w *World) []Entity {
	if w == nil {
		return nil
	}
	out := make([]Entity, 0, len(w.gens)-len(w.free))
	for i, ok := range w.alive {
		if ok {
			out = append(out, makeEntity(entityID(i+1), w.gens[i]))
		}
	}
	return out
}

// Events returns the world event queue.
func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}

func (w *World) store(id component.ID, create bool) *SparseSet {
	if w == nil {
		return nil
	}
	if s, ok := w.stores[id]; ok {
		return s
	}
	if !create {
		return nil
	}
	if w.stores == nil {
		w.stores = make(map[component.ID]*SparseSet)
	}
	s := &SparseSet{}
	w.stores[id] = s
	return s
}
