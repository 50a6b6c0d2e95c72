package system

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/suika/common"
	"github.com/milk9111/suika/ecs"
	"github.com/milk9111/suika/ecs/component"
	"github.com/milk9111/suika/session"
)

type mergeCall struct {
	a, b  ecs.Entity
	label string
	at    cp.Vector
}

type fakeHandler struct {
	current ecs.Entity
	refuse  bool
	merges  []mergeCall
	tops    int
}

func (h *fakeHandler) Current() ecs.Entity { return h.current }

func (h *fakeHandler) OnSameTierCollision(a, b ecs.Entity, label string, at cp.Vector) bool {
	h.merges = append(h.merges, mergeCall{a: a, b: b, label: label, at: at})
	return !h.refuse
}

func (h *fakeHandler) OnTopBoundaryContact() { h.tops++ }

func makeEntities(w *ecs.World, n int) []ecs.Entity {
	out := make([]ecs.Entity, n)
	for i := range out {
		out[i] = ecs.CreateEntity(w)
	}
	return out
}

func TestCollisionReactorBatch(t *testing.T) {
	tests := []struct {
		name       string
		batch      func(e []ecs.Entity) []ecs.Contact
		current    int // index into entities, -1 = none
		refuse     bool
		wantMerges int
		wantCalls  int
		wantTops   int
	}{
		{
			name: "same_tier_merges",
			batch: func(e []ecs.Entity) []ecs.Contact {
				return []ecs.Contact{{A: e[0], B: e[1], LabelA: "cherry", LabelB: "cherry"}}
			},
			current: -1, wantMerges: 1, wantCalls: 1,
		},
		{
			name: "removed_entity_skipped_for_rest_of_batch",
			batch: func(e []ecs.Entity) []ecs.Contact {
				return []ecs.Contact{
					{A: e[0], B: e[1], LabelA: "cherry", LabelB: "cherry"},
					{A: e[1], B: e[2], LabelA: "cherry", LabelB: "cherry"},
					{A: e[2], B: e[3], LabelA: "cherry", LabelB: "cherry"},
					{A: e[0], B: e[4], LabelA: "cherry", LabelB: common.LabelTopLine},
				}
			},
			current: -1, wantMerges: 2, wantCalls: 2,
		},
		{
			name: "different_tiers_ignored",
			batch: func(e []ecs.Entity) []ecs.Contact {
				return []ecs.Contact{{A: e[0], B: e[1], LabelA: "cherry", LabelB: "grape"}}
			},
			current: -1,
		},
		{
			name: "current_never_merges",
			batch: func(e []ecs.Entity) []ecs.Contact {
				return []ecs.Contact{{A: e[0], B: e[1], LabelA: "cherry", LabelB: "cherry"}}
			},
			current: 1,
		},
		{
			name: "top_line_either_side",
			batch: func(e []ecs.Entity) []ecs.Contact {
				return []ecs.Contact{
					{A: e[0], B: e[4], LabelA: "grape", LabelB: common.LabelTopLine},
					{A: e[4], B: e[1], LabelA: common.LabelTopLine, LabelB: "grape"},
				}
			},
			current: -1, wantTops: 2,
		},
		{
			name: "boundary_labels_never_merge",
			batch: func(e []ecs.Entity) []ecs.Contact {
				return []ecs.Contact{{A: e[0], B: e[1], LabelA: common.LabelWall, LabelB: common.LabelWall}}
			},
			current: -1,
		},
		{
			name: "refused_merge_not_marked_removed",
			batch: func(e []ecs.Entity) []ecs.Contact {
				return []ecs.Contact{
					{A: e[0], B: e[1], LabelA: "cherry", LabelB: "cherry"},
					{A: e[1], B: e[2], LabelA: "cherry", LabelB: "cherry"},
				}
			},
			current: -1, refuse: true, wantCalls: 2,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := ecs.NewWorld()
			ents := makeEntities(w, 5)
			h := &fakeHandler{refuse: tc.refuse}
			if tc.current >= 0 {
				h.current = ents[tc.current]
			}
			r := NewCollisionReactor(h)

			got := r.React(w, tc.batch(ents))
			if got != tc.wantMerges {
				t.Fatalf("expected %d merges, got %d", tc.wantMerges, got)
			}
			if len(h.merges) != tc.wantCalls {
				t.Fatalf("expected %d merge calls, got %d", tc.wantCalls, len(h.merges))
			}
			if h.tops != tc.wantTops {
				t.Fatalf("expected %d top contacts, got %d", tc.wantTops, h.tops)
			}
			if n := len(ecs.Query(w, component.SoundRequestComponent.Kind())); n != tc.wantMerges {
				t.Fatalf("expected %d merge sounds, got %d", tc.wantMerges, n)
			}
			if n := len(ecs.Query(w, component.MergePopComponent.Kind())); n != tc.wantMerges {
				t.Fatalf("expected %d merge pops, got %d", tc.wantMerges, n)
			}
		})
	}
}

func TestCollisionReactorSkipsDeadEntities(t *testing.T) {
	w := ecs.NewWorld()
	ents := makeEntities(w, 2)
	ecs.DestroyEntity(w, ents[1])
	h := &fakeHandler{}

	NewCollisionReactor(h).React(w, []ecs.Contact{{A: ents[0], B: ents[1], LabelA: "cherry", LabelB: "cherry"}})
	if len(h.merges) != 0 {
		t.Fatalf("expected dead pair skipped")
	}
}

func TestCollisionReactorDrainsContactEvents(t *testing.T) {
	w := ecs.NewWorld()
	ents := makeEntities(w, 3)
	h := &fakeHandler{}
	w.Events().Push(ecs.Event{Type: ecs.EventContacts, Data: []ecs.Contact{
		{A: ents[0], B: ents[1], LabelA: "cherry", LabelB: "cherry", Point: cp.Vector{X: 5, Y: 6}},
	}})
	w.Events().Push(ecs.Event{Type: "other"})
	w.Events().Push(ecs.Event{Type: ecs.EventContacts, Data: []ecs.Contact{
		{A: ents[2], B: ents[0], LabelA: common.LabelTopLine, LabelB: "cherry"},
	}})

	NewCollisionReactor(h).Update(w)

	if len(h.merges) != 1 || h.merges[0].at != (cp.Vector{X: 5, Y: 6}) {
		t.Fatalf("expected one merge at the contact point, got %+v", h.merges)
	}
	if h.tops != 1 {
		t.Fatalf("expected top contact from the second batch, got %d", h.tops)
	}
	if w.Events().Len() != 1 {
		t.Fatalf("expected unrelated events kept, %d queued", w.Events().Len())
	}
}

func TestMergePopCarriesFruitLook(t *testing.T) {
	w, ps := newTestPhysics(t)
	a, _ := ps.SpawnFruit(cherry, cp.Vector{X: 200, Y: 500}, session.SpawnLoose)
	b, _ := ps.SpawnFruit(cherry, cp.Vector{X: 215, Y: 500}, session.SpawnLoose)
	h := &fakeHandler{}

	NewCollisionReactor(h).React(w, []ecs.Contact{{A: a, B: b, LabelA: "cherry", LabelB: "cherry", Point: cp.Vector{X: 207, Y: 500}}})

	pops := ecs.Query(w, component.MergePopComponent.Kind())
	if len(pops) != 1 {
		t.Fatalf("expected one pop, got %d", len(pops))
	}
	pop, _ := ecs.Get(w, pops[0], component.MergePopComponent.Kind())
	if pop.Radius != cherry.Radius || pop.Color != cherry.Color {
		t.Fatalf("expected pop sized and colored like a cherry, got %+v", pop)
	}

	sys := NewMergePopSystem()
	for i := 0; i < mergePopFrames; i++ {
		sys.Update(w)
	}
	if ecs.IsAlive(w, pops[0]) {
		t.Fatalf("expected pop destroyed after %d frames", mergePopFrames)
	}
}
