package ecs

import "github.com/milk9111/suika/ecs/component"

// Query returns the live entities carrying every kind, in the dense order of
// the smallest storage.
func Query(w *World, kinds ...Kind) []Entity {
	if w == nil || len(kinds) == 0 {
		return nil
	}
	sets := make([]*SparseSet, 0, len(kinds))
	for _, k := range kinds {
		s := w.store(k.ID(), false)
		if s == nil || s.Len() == 0 {
			return nil
		}
		sets = append(sets, s)
	}
	smallest := sets[0]
	for _, s := range sets[1:] {
		if s.Len() < smallest.Len() {
			smallest = s
		}
	}

	var out []Entity
	for _, e := range smallest.Entities() {
		if !IsAlive(w, e) {
			continue
		}
		all := true
		for _, s := range sets {
			if s != smallest && !s.Has(e) {
				all = false
				break
			}
		}
		if all {
			out = append(out, e)
		}
	}
	return out
}

// First returns any live entity carrying kind.
func First(w *World, kind Kind) (Entity, bool) {
	s := w.store(kind.ID(), false)
	for _, e := range s.Entities() {
		if IsAlive(w, e) {
			return e, true
		}
	}
	return 0, false
}

// ForEach visits every entity carrying a. The owner list is snapshotted, so
// fn may add, remove or destroy.
func ForEach[A any](w *World, a component.ComponentKind[A], fn func(Entity, *A)) {
	for _, e := range Query(w, a) {
		va, ok := Get(w, e, a)
		if !ok {
			continue
		}
		fn(e, va)
	}
}

func ForEach2[A, B any](w *World, a component.ComponentKind[A], b component.ComponentKind[B], fn func(Entity, *A, *B)) {
	for _, e := range Query(w, a, b) {
		va, okA := Get(w, e, a)
		vb, okB := Get(w, e, b)
		if !okA || !okB {
			continue
		}
		fn(e, va, vb)
	}
}

func ForEach3[A, B, C any](w *World, a component.ComponentKind[A], b component.ComponentKind[B], c component.ComponentKind[C], fn func(Entity, *A, *B, *C)) {
	for _, e := range Query(w, a, b, c) {
		va, okA := Get(w, e, a)
		vb, okB := Get(w, e, b)
		vc, okC := Get(w, e, c)
		if !okA || !okB || !okC {
			continue
		}
		fn(e, va, vb, vc)
	}
}
