// Package session runs one round of the game: the current fruit, the drop
// cooldown, merges, scoring and the game-over flow.
package session

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/suika/common"
	"github.com/milk9111/suika/ecs"
	"github.com/milk9111/suika/fruit"
	"github.com/milk9111/suika/score"
)

// Player-facing copy.
const (
	PromptMessage      = "Bravo ! Tu entres dans le top 5 ! Entre ton pseudo (8 caractères max) :"
	LeaderboardMessage = "Félicitations, tu es dans le classement !"
	GameOverMessage    = "Game Over"
)

var (
	ErrNilEngine   = errors.New("session: engine is nil")
	ErrNilPrompter = errors.New("session: prompter is nil")
	ErrNilSelector = errors.New("session: selector is nil")
)

// Config holds the round tuning.
type Config struct {
	Field        common.Field
	Cooldown     time.Duration
	MoveInterval time.Duration
	MoveStep     float64
	Debug        bool
}

// DefaultConfig returns the classic tuning: 1s drop cooldown, one unit of
// nudge every 5ms.
func DefaultConfig() Config {
	return Config{
		Field:        common.DefaultField(),
		Cooldown:     time.Second,
		MoveInterval: 5 * time.Millisecond,
		MoveStep:     1,
	}
}

// Deps are the collaborators a session drives. Ledger may be nil, in which
// case no score ever qualifies.
type Deps struct {
	Catalog  fruit.Catalog
	Selector *fruit.Selector
	Engine   Engine
	Prompter Prompter
	Ledger   Ledger
}

type pendingCatalog struct {
	catalog  fruit.Catalog
	selector *fruit.Selector
}

// Session owns the round state. It is not safe for concurrent use; every
// call happens on the game loop.
type Session struct {
	cfg      Config
	catalog  fruit.Catalog
	selector *fruit.Selector
	engine   Engine
	prompter Prompter
	ledger   Ledger

	timers Timers
	phase  Phase
	score  int
	gen    uint64

	current     ecs.Entity
	currentTier fruit.Tier
	preview     ecs.Entity
	previewTier fruit.Tier
	lastSpawned string

	moveTask TaskID
	moveDir  int

	pending *pendingCatalog
}

// New builds a session. Call Reset to spawn the first fruit.
func New(cfg Config, deps Deps) (*Session, error) {
	if deps.Engine == nil {
		return nil, ErrNilEngine
	}
	if deps.Prompter == nil {
		return nil, ErrNilPrompter
	}
	if deps.Selector == nil {
		return nil, ErrNilSelector
	}
	if deps.Catalog.Len() == 0 {
		return nil, fruit.ErrEmptyCatalog
	}
	if cfg.MoveInterval <= 0 {
		cfg.MoveInterval = DefaultConfig().MoveInterval
	}
	if cfg.MoveStep <= 0 {
		cfg.MoveStep = DefaultConfig().MoveStep
	}
	if cfg.Cooldown < 0 {
		cfg.Cooldown = 0
	}
	return &Session{
		cfg:      cfg,
		catalog:  deps.Catalog,
		selector: deps.Selector,
		engine:   deps.Engine,
		prompter: deps.Prompter,
		ledger:   deps.Ledger,
	}, nil
}

// State returns a snapshot for display.
func (s *Session) State() State {
	return State{
		Score:       s.score,
		Phase:       s.phase,
		CurrentTier: s.currentTier.Name,
		LastSpawned: s.lastSpawned,
		Generation:  s.gen,
	}
}

func (s *Session) Score() int             { return s.score }
func (s *Session) Phase() Phase           { return s.phase }
func (s *Session) Generation() uint64     { return s.gen }
func (s *Session) Config() Config         { return s.cfg }
func (s *Session) Catalog() fruit.Catalog { return s.catalog }

// Current is the undropped body at the spawn point, or the zero entity
// while a drop is cooling down.
func (s *Session) Current() ecs.Entity {
	return s.current
}

// Preview is the next body shown during the cooldown.
func (s *Session) Preview() ecs.Entity {
	return s.preview
}

// Moving reports whether a nudge task is armed.
func (s *Session) Moving() bool {
	return s.moveTask != 0
}

// Now is the session clock.
func (s *Session) Now() time.Duration {
	return s.timers.Now()
}

// SetCatalog swaps the tier list and selector at the next Reset.
func (s *Session) SetCatalog(c fruit.Catalog, sel *fruit.Selector) {
	if c.Len() == 0 || sel == nil {
		return
	}
	s.pending = &pendingCatalog{catalog: c, selector: sel}
}

// Update advances the session clock by dt.
func (s *Session) Update(dt time.Duration) {
	s.timers.Advance(dt, s.gen)
}

// StartMove begins nudging the current body; dir < 0 moves left.
func (s *Session) StartMove(dir int) {
	if s.phase != PhaseReady || s.moveTask != 0 || dir == 0 {
		return
	}
	if dir < 0 {
		s.moveDir = -1
	} else {
		s.moveDir = 1
	}
	s.moveTask = s.timers.Every(s.cfg.MoveInterval, s.gen, s.moveTick)
}

// StopMove cancels any nudge task.
func (s *Session) StopMove() {
	if s.moveTask != 0 {
		s.timers.Cancel(s.moveTask)
	}
	s.moveTask = 0
	s.moveDir = 0
}

func (s *Session) moveTick() {
	if s.phase != PhaseReady || !s.current.Valid() {
		return
	}
	pos, ok := s.engine.Position(s.current)
	if !ok {
		return
	}
	lo, hi := s.cfg.Field.HorizontalRange(s.currentTier.Radius)
	x := common.Clamp(pos.X+float64(s.moveDir)*s.cfg.MoveStep, lo, hi)
	if x == pos.X {
		return
	}
	s.engine.SetPosition(s.current, cp.Vector{X: x, Y: pos.Y})
}

// Drop releases the current body and starts the cooldown. It reports
// whether a fruit was released.
func (s *Session) Drop() bool {
	if s.phase != PhaseReady || !s.current.Valid() {
		return false
	}
	s.StopMove()
	dropped := s.currentTier
	s.engine.Wake(s.current)
	s.current = ecs.Entity(0)
	s.currentTier = fruit.Tier{}
	s.phase = PhaseLocked

	next := s.selector.Pick(dropped.Name)
	e, err := s.engine.SpawnFruit(next, s.cfg.Field.Spawn, SpawnPreview)
	if err != nil {
		log.Printf("session: spawn preview %s: %v", next.Name, err)
		s.phase = PhaseGameOver
		s.prompter.Alert(GameOverMessage, s.dismiss(s.gen))
		return true
	}
	s.preview = e
	s.previewTier = next
	s.lastSpawned = next.Name
	if s.cfg.Debug {
		log.Printf("session: dropped %s, next %s", dropped.Name, next.Name)
	}
	s.timers.After(s.cfg.Cooldown, s.gen, s.admit)
	return true
}

func (s *Session) admit() {
	if s.phase != PhaseLocked || !s.preview.Valid() {
		return
	}
	s.engine.Admit(s.preview)
	s.current = s.preview
	s.currentTier = s.previewTier
	s.preview = ecs.Entity(0)
	s.previewTier = fruit.Tier{}
	s.phase = PhaseReady
}

// OnSameTierCollision merges two bodies labelled with the same tier name.
// It reports whether the merge happened.
func (s *Session) OnSameTierCollision(a, b ecs.Entity, label string, at cp.Vector) bool {
	if a == b || s.phase == PhaseGameOver {
		return false
	}
	tier, ok := s.catalog.Lookup(label)
	if !ok {
		return false
	}
	s.engine.Remove(a)
	s.engine.Remove(b)
	s.score += tier.Points

	next, ok := s.catalog.Next(tier)
	if !ok {
		if s.cfg.Debug {
			log.Printf("session: %s pair vanished (+%d)", tier.Name, tier.Points)
		}
		return true
	}
	if _, err := s.engine.SpawnFruit(next, at, SpawnLoose); err != nil {
		log.Printf("session: spawn merged %s: %v", next.Name, err)
		return true
	}
	if s.cfg.Debug {
		log.Printf("session: merged %s into %s at (%.0f, %.0f) (+%d)", tier.Name, next.Name, at.X, at.Y, tier.Points)
	}
	return true
}

// OnTopBoundaryContact ends the round when a settled fruit reaches the top
// sensor. It is ignored during the post-drop cooldown.
func (s *Session) OnTopBoundaryContact() {
	if s.phase != PhaseReady {
		return
	}
	s.StopMove()
	s.phase = PhaseGameOver
	gen := s.gen
	final := s.score
	log.Printf("session: game over with %d points", final)

	if s.ledger == nil || !s.ledger.Qualifies(final) {
		s.prompter.Alert(GameOverMessage, s.dismiss(gen))
		return
	}
	s.prompter.PromptName(PromptMessage, func(name string, ok bool) {
		if gen != s.gen {
			return
		}
		entry := score.Entry{Pseudo: score.NormalizePseudo(name, ok), Score: final}
		if _, err := s.ledger.AddScore(entry); err != nil {
			log.Printf("session: record score: %v", err)
		}
		s.prompter.Alert(LeaderboardMessage, s.dismiss(gen))
	})
}

func (s *Session) dismiss(gen uint64) func() {
	return func() {
		if gen != s.gen {
			return
		}
		if err := s.Reset(); err != nil {
			log.Printf("session: reset: %v", err)
		}
	}
}

// Reset starts a new round. Tasks armed in the previous round never run.
func (s *Session) Reset() error {
	s.gen++
	s.StopMove()
	if s.pending != nil {
		s.catalog = s.pending.catalog
		s.selector = s.pending.selector
		s.pending = nil
	}
	s.score = 0
	s.engine.ClearDynamic()
	s.current = ecs.Entity(0)
	s.currentTier = fruit.Tier{}
	s.preview = ecs.Entity(0)
	s.previewTier = fruit.Tier{}
	s.lastSpawned = ""

	tier := s.selector.Pick("")
	e, err := s.engine.SpawnFruit(tier, s.cfg.Field.Spawn, SpawnCurrent)
	if err != nil {
		s.phase = PhaseGameOver
		return fmt.Errorf("session: spawn %s: %w", tier.Name, err)
	}
	s.current = e
	s.currentTier = tier
	s.lastSpawned = tier.Name
	s.phase = PhaseReady
	return nil
}
