package system

import (
	"log"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/suika/common"
	"github.com/milk9111/suika/ecs"
	"github.com/milk9111/suika/ecs/component"
)

const mergePopFrames = 18

// CollisionHandler receives the game-level meaning of contacts.
type CollisionHandler interface {
	// Current is the undropped fruit, which never merges.
	Current() ecs.Entity
	OnSameTierCollision(a, b ecs.Entity, label string, at cp.Vector) bool
	OnTopBoundaryContact()
}

// CollisionReactor turns contact batches from the physics step into merges
// and game-over checks.
type CollisionReactor struct {
	handler CollisionHandler
	Debug   bool
}

func NewCollisionReactor(h CollisionHandler) *CollisionReactor {
	return &CollisionReactor{handler: h}
}

func (r *CollisionReactor) Update(w *ecs.World) {
	if r == nil || r.handler == nil || w == nil {
		return
	}
	for _, evt := range w.Events().DrainType(ecs.EventContacts) {
		batch, ok := evt.Data.([]ecs.Contact)
		if !ok {
			continue
		}
		r.React(w, batch)
	}
}

// React handles one batch in order and returns the number of merges.
// An entity removed by an earlier pair is skipped for the rest of the batch.
func (r *CollisionReactor) React(w *ecs.World, batch []ecs.Contact) int {
	removed := make(map[ecs.Entity]struct{})
	current := r.handler.Current()
	merges := 0

	for _, c := range batch {
		if _, gone := removed[c.A]; gone {
			continue
		}
		if _, gone := removed[c.B]; gone {
			continue
		}
		if !ecs.IsAlive(w, c.A) || !ecs.IsAlive(w, c.B) {
			continue
		}
		if c.Involves(current) {
			continue
		}

		if c.LabelA == c.LabelB && !common.IsBoundaryLabel(c.LabelA) {
			pop := popFor(w, c.A)
			if r.handler.OnSameTierCollision(c.A, c.B, c.LabelA, c.Point) {
				removed[c.A] = struct{}{}
				removed[c.B] = struct{}{}
				merges++
				spawnMergeFeedback(w, c.Point, pop)
				if r.Debug {
					log.Printf("collision: merged %s pair %s/%s", c.LabelA, c.A, c.B)
				}
			}
			continue
		}

		if c.LabelA == common.LabelTopLine || c.LabelB == common.LabelTopLine {
			r.handler.OnTopBoundaryContact()
		}
	}
	return merges
}

func popFor(w *ecs.World, e ecs.Entity) component.MergePop {
	pop := component.MergePop{Frames: mergePopFrames, Total: mergePopFrames}
	if pb, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind()); ok {
		pop.Radius = pb.Radius
	}
	if fill, ok := ecs.Get(w, e, component.FillComponent.Kind()); ok {
		pop.Color = fill.Color
	}
	return pop
}

func spawnMergeFeedback(w *ecs.World, at cp.Vector, pop component.MergePop) {
	sound := ecs.CreateEntity(w)
	_ = ecs.Add(w, sound, component.SoundRequestComponent.Kind(), &component.SoundRequest{Name: "merge", Volume: 1})

	fx := ecs.CreateEntity(w)
	_ = ecs.Add(w, fx, component.TransformComponent.Kind(), &component.Transform{X: at.X, Y: at.Y})
	_ = ecs.Add(w, fx, component.MergePopComponent.Kind(), &pop)
}
