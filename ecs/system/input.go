package system

import (
	"github.com/milk9111/suika/ecs"
	"github.com/milk9111/suika/ecs/component"
)

// Mover is what the player steers.
type Mover interface {
	StartMove(dir int)
	StopMove()
	Drop() bool
}

// InputController maps the Input component onto session commands. Holding
// a direction re-arms the nudge every frame, so releasing one key while the
// other is held resumes movement the other way.
type InputController struct {
	target Mover

	// Blocked suppresses gameplay input, e.g. while a dialog is open.
	Blocked   func() bool
	OnRestart func()
}

func NewInputController(target Mover) *InputController {
	return &InputController{target: target}
}

func (c *InputController) Update(w *ecs.World) {
	if c == nil || c.target == nil || w == nil {
		return
	}
	e, ok := ecs.First(w, component.InputComponent.Kind())
	if !ok {
		return
	}
	in, ok := ecs.Get(w, e, component.InputComponent.Kind())
	if !ok {
		return
	}

	if c.Blocked != nil && c.Blocked() {
		c.target.StopMove()
		return
	}

	if in.Restart && c.OnRestart != nil {
		c.OnRestart()
		return
	}

	if in.LeftReleased || in.RightReleased {
		c.target.StopMove()
	}
	if in.Move != 0 {
		c.target.StartMove(in.Move)
	}

	if in.Drop && c.target.Drop() {
		s := ecs.CreateEntity(w)
		_ = ecs.Add(w, s, component.SoundRequestComponent.Kind(), &component.SoundRequest{Name: "drop", Volume: 0.6})
	}
}
