package component

import (
	"errors"
	"fmt"
	"sync/atomic"
)

var (
	ErrEntityNotAlive       = errors.New("ecs: entity not alive")
	ErrNilComponent         = errors.New("ecs: component is nil")
	ErrInvalidComponentKind = errors.New("ecs: invalid component kind")
)

// ID identifies a component storage inside a world.
type ID uint32

var nextID atomic.Uint32

// ComponentKind is the typed key of a component storage.
type ComponentKind[T any] struct {
	id   ID
	name string
}

func NewComponentKind[T any]() ComponentKind[T] {
	var zero T
	return ComponentKind[T]{id: ID(nextID.Add(1)), name: fmt.Sprintf("%T", zero)}
}

func (k ComponentKind[T]) ID() ID {
	return k.id
}

func (k ComponentKind[T]) Valid() bool {
	return k.id != 0
}

func (k ComponentKind[T]) String() string {
	return k.name
}

// ComponentHandle is what component files export; systems call Kind() on it.
type ComponentHandle[T any] struct {
	kind ComponentKind[T]
}

func NewComponent[T any]() ComponentHandle[T] {
	return ComponentHandle[T]{kind: NewComponentKind[T]()}
}

func (h ComponentHandle[T]) Kind() ComponentKind[T] {
	return h.kind
}
