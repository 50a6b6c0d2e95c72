package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/suika/ecs"
	"github.com/milk9111/suika/ecs/component"
)

var (
	leftKeys    = []ebiten.Key{ebiten.KeyArrowLeft, ebiten.KeyA}
	rightKeys   = []ebiten.Key{ebiten.KeyArrowRight, ebiten.KeyD}
	dropKeys    = []ebiten.Key{ebiten.KeySpace, ebiten.KeyArrowDown}
	restartKeys = []ebiten.Key{ebiten.KeyR}
)

// KeyboardSystem polls ebiten and rewrites the Input component each tick.
type KeyboardSystem struct{}

func NewKeyboardSystem() *KeyboardSystem {
	return &KeyboardSystem{}
}

func (k *KeyboardSystem) Update(w *ecs.World) {
	e, ok := ecs.First(w, component.InputComponent.Kind())
	if !ok {
		return
	}
	in, ok := ecs.Get(w, e, component.InputComponent.Kind())
	if !ok {
		return
	}

	left, right := anyPressed(leftKeys), anyPressed(rightKeys)
	*in = component.Input{
		LeftReleased:  anyJustReleased(leftKeys) && !left,
		RightReleased: anyJustReleased(rightKeys) && !right,
		Drop:          anyJustPressed(dropKeys),
		Restart:       anyJustPressed(restartKeys),
	}
	switch {
	case left && !right:
		in.Move = -1
	case right && !left:
		in.Move = 1
	}
}

func anyPressed(keys []ebiten.Key) bool {
	for _, k := range keys {
		if ebiten.IsKeyPressed(k) {
			return true
		}
	}
	return false
}

func anyJustPressed(keys []ebiten.Key) bool {
	for _, k := range keys {
		if inpututil.IsKeyJustPressed(k) {
			return true
		}
	}
	return false
}

func anyJustReleased(keys []ebiten.Key) bool {
	for _, k := range keys {
		if inpututil.IsKeyJustReleased(k) {
			return true
		}
	}
	return false
}
