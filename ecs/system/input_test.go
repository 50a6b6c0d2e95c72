package system

import (
	"testing"

	"github.com/milk9111/suika/ecs"
	"github.com/milk9111/suika/ecs/component"
)

type fakeMover struct {
	starts  []int
	stops   int
	drops   int
	canDrop bool
}

func (m *fakeMover) StartMove(dir int) { m.starts = append(m.starts, dir) }
func (m *fakeMover) StopMove()         { m.stops++ }
func (m *fakeMover) Drop() bool {
	m.drops++
	return m.canDrop
}

func TestInputController(t *testing.T) {
	tests := []struct {
		name       string
		in         component.Input
		blocked    bool
		canDrop    bool
		wantStarts []int
		wantStops  int
		wantDrops  int
		wantSounds int
		wantReset  bool
	}{
		{name: "idle", in: component.Input{}},
		{name: "hold_left", in: component.Input{Move: -1}, wantStarts: []int{-1}},
		{name: "release_right_keep_left", in: component.Input{Move: -1, RightReleased: true}, wantStarts: []int{-1}, wantStops: 1},
		{name: "release_only", in: component.Input{LeftReleased: true}, wantStops: 1},
		{name: "drop_released", in: component.Input{Drop: true}, canDrop: true, wantDrops: 1, wantSounds: 1},
		{name: "drop_refused_silent", in: component.Input{Drop: true}, wantDrops: 1},
		{name: "restart", in: component.Input{Restart: true, Move: 1}, wantReset: true},
		{name: "blocked", in: component.Input{Move: 1, Drop: true, Restart: true}, blocked: true, wantStops: 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := ecs.NewWorld()
			e := ecs.CreateEntity(w)
			in := tc.in
			if err := ecs.Add(w, e, component.InputComponent.Kind(), &in); err != nil {
				t.Fatalf("add input: %v", err)
			}
			m := &fakeMover{canDrop: tc.canDrop}
			c := NewInputController(m)
			c.Blocked = func() bool { return tc.blocked }
			reset := false
			c.OnRestart = func() { reset = true }

			c.Update(w)

			if len(m.starts) != len(tc.wantStarts) {
				t.Fatalf("expected starts %v, got %v", tc.wantStarts, m.starts)
			}
			for i := range m.starts {
				if m.starts[i] != tc.wantStarts[i] {
					t.Fatalf("expected starts %v, got %v", tc.wantStarts, m.starts)
				}
			}
			if m.stops != tc.wantStops {
				t.Fatalf("expected %d stops, got %d", tc.wantStops, m.stops)
			}
			if m.drops != tc.wantDrops {
				t.Fatalf("expected %d drops, got %d", tc.wantDrops, m.drops)
			}
			if n := len(ecs.Query(w, component.SoundRequestComponent.Kind())); n != tc.wantSounds {
				t.Fatalf("expected %d sound requests, got %d", tc.wantSounds, n)
			}
			if reset != tc.wantReset {
				t.Fatalf("expected restart=%v, got %v", tc.wantReset, reset)
			}
		})
	}
}

func TestInputControllerWithoutInputEntity(t *testing.T) {
	m := &fakeMover{}
	NewInputController(m).Update(ecs.NewWorld())
	if len(m.starts)+m.stops+m.drops != 0 {
		t.Fatalf("expected no commands without an input entity")
	}
}
