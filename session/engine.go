package session

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/suika/ecs"
	"github.com/milk9111/suika/fruit"
	"github.com/milk9111/suika/score"
)

// SpawnMode selects how a new fruit body enters the physics world.
type SpawnMode int

const (
	// SpawnCurrent adds an inert body to the space: it collides but ignores
	// gravity until woken.
	SpawnCurrent SpawnMode = iota
	// SpawnPreview creates a drawable body outside the space.
	SpawnPreview
	// SpawnLoose adds a fully dynamic, awake body.
	SpawnLoose
)

// Engine is the physics boundary the session drives.
type Engine interface {
	SpawnFruit(tier fruit.Tier, at cp.Vector, mode SpawnMode) (ecs.Entity, error)
	// Admit moves a preview body into the space, still inert.
	Admit(e ecs.Entity)
	// Wake makes an inert body dynamic.
	Wake(e ecs.Entity)
	Remove(e ecs.Entity)
	Position(e ecs.Entity) (cp.Vector, bool)
	SetPosition(e ecs.Entity, at cp.Vector)
	// ClearDynamic removes every non-static body, previews included.
	ClearDynamic()
}

// Prompter is the player-facing dialog boundary. Both calls may answer
// asynchronously.
type Prompter interface {
	// PromptName asks for a pseudo; ok is false when the player cancelled.
	PromptName(message string, submit func(name string, ok bool))
	// Alert shows message and calls dismiss once acknowledged.
	Alert(message string, dismiss func())
}

// Ledger is the ranking the session records into.
type Ledger interface {
	Qualifies(score int) bool
	AddScore(e score.Entry) ([]score.Entry, error)
}
