package system

import (
	"github.com/milk9111/suika/ecs"
	"github.com/milk9111/suika/ecs/component"
)

// MergePopSystem counts merge rings down and destroys finished ones.
type MergePopSystem struct{}

func NewMergePopSystem() *MergePopSystem {
	return &MergePopSystem{}
}

func (s *MergePopSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	ecs.ForEach(w, component.MergePopComponent.Kind(), func(e ecs.Entity, pop *component.MergePop) {
		pop.Frames--
		if pop.Frames <= 0 {
			ecs.DestroyEntity(w, e)
		}
	})
}
