package ecs

import (
	"fmt"

	"github.com/milk9111/suika/ecs/component"
)

// Add stores value for e, replacing any previous value of the same kind.
func Add[T any](w *World, e Entity, kind component.ComponentKind[T], value *T) error {
	if !kind.Valid() {
		return component.ErrInvalidComponentKind
	}
	if value == nil {
		return fmt.Errorf("add %s: %w", kind, component.ErrNilComponent)
	}
	if !IsAlive(w, e) {
		return fmt.Errorf("add %s to %s: %w", kind, e, component.ErrEntityNotAlive)
	}
	w.store(kind.ID(), true).Set(e, value)
	return nil
}

// Remove drops the component of kind from e.
func Remove[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	return w.store(kind.ID(), false).Remove(e)
}

// Has reports whether a live e carries kind.
func Has[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	return IsAlive(w, e) && w.store(kind.ID(), false).Has(e)
}

// Get returns the stored pointer so callers can mutate in place.
func Get[T any](w *World, e Entity, kind component.ComponentKind[T]) (*T, bool) {
	if !IsAlive(w, e) {
		return nil, false
	}
	v, ok := w.store(kind.ID(), false).Get(e).(*T)
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}
