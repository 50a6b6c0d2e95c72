package session

import "fmt"

// Phase is the round state.
type Phase int

const (
	// PhaseReady: a current fruit floats at the spawn point awaiting a drop.
	PhaseReady Phase = iota
	// PhaseLocked: a fruit was just dropped; the next one is a preview until
	// the cooldown elapses.
	PhaseLocked
	// PhaseGameOver: the top line was crossed; waits for the prompt and alert.
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhaseReady:
		return "ready"
	case PhaseLocked:
		return "locked"
	case PhaseGameOver:
		return "game_over"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// State is a read-only snapshot of the session.
type State struct {
	Score       int
	Phase       Phase
	CurrentTier string
	LastSpawned string
	Generation  uint64
}
