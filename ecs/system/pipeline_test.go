package system

import (
	"image/color"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/suika/ecs"
	"github.com/milk9111/suika/ecs/component"
	"github.com/milk9111/suika/fruit"
	"github.com/milk9111/suika/score"
	"github.com/milk9111/suika/session"
)

type firstPicker struct{}

func (firstPicker) Pick(n int) int { return 0 }

type recordingPrompter struct {
	prompts []string
	alerts  []string
	submit  func(name string, ok bool)
	dismiss func()
}

func (p *recordingPrompter) PromptName(message string, submit func(name string, ok bool)) {
	p.prompts = append(p.prompts, message)
	p.submit = submit
}

func (p *recordingPrompter) Alert(message string, dismiss func()) {
	p.alerts = append(p.alerts, message)
	p.dismiss = dismiss
}

type gameRig struct {
	world     *ecs.World
	physics   *PhysicsSystem
	session   *session.Session
	scheduler *ecs.Scheduler
	prompter  *recordingPrompter
	catalog   fruit.Catalog
}

func newGameRig(t *testing.T) *gameRig {
	t.Helper()
	c, err := fruit.NewCatalog([]fruit.Tier{
		{Name: "cherry", Radius: 10, Points: 1, Color: color.White},
		{Name: "strawberry", Radius: 15, Points: 3, Color: color.White},
		{Name: "grape", Radius: 20, Points: 6, Color: color.White},
		{Name: "dekopon", Radius: 25, Points: 10, Color: color.White},
		{Name: "watermelon", Radius: 60, Points: 66, Color: color.White},
	}, 2)
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}

	w, ps := newTestPhysics(t)
	r := &gameRig{world: w, physics: ps, prompter: &recordingPrompter{}, catalog: c}
	cfg := session.DefaultConfig()
	cfg.Field = ps.Field()
	r.session, err = session.New(cfg, session.Deps{
		Catalog:  c,
		Selector: fruit.NewSelector(c, firstPicker{}, 0),
		Engine:   ps,
		Prompter: r.prompter,
		Ledger:   score.NewLedger(score.NewMemoryStore()),
	})
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	ps.Paused = func() bool { return r.session.Phase() == session.PhaseGameOver }
	r.scheduler = ecs.NewScheduler(
		NewClockSystem(r.session, 60),
		ps,
		NewCollisionReactor(r.session),
		NewMergePopSystem(),
	)
	if err := r.session.Reset(); err != nil {
		t.Fatalf("reset: %v", err)
	}
	return r
}

func (r *gameRig) step(n int) {
	for i := 0; i < n; i++ {
		r.scheduler.Update(r.world)
	}
}

func (r *gameRig) loose(t *testing.T, name string, x, y float64) ecs.Entity {
	t.Helper()
	tier, ok := r.catalog.Lookup(name)
	if !ok {
		t.Fatalf("unknown tier %q", name)
	}
	e, err := r.physics.SpawnFruit(tier, cp.Vector{X: x, Y: y}, session.SpawnLoose)
	if err != nil {
		t.Fatalf("spawn %s: %v", name, err)
	}
	return e
}

// fruits counts fruit entities by name, leaving out the undropped one.
func (r *gameRig) fruits() map[string]int {
	out := make(map[string]int)
	current := r.session.Current()
	ecs.ForEach(r.world, component.FruitComponent.Kind(), func(e ecs.Entity, f *component.Fruit) {
		if e == current {
			return
		}
		out[f.Name]++
	})
	return out
}

func TestGameDropAdmitsAfterCooldown(t *testing.T) {
	r := newGameRig(t)
	dropped := r.session.State().CurrentTier
	if !r.session.Drop() {
		t.Fatalf("expected drop to succeed")
	}

	r.step(59)
	if r.session.Phase() != session.PhaseLocked {
		t.Fatalf("expected locked before the cooldown ends, got %v", r.session.Phase())
	}
	r.step(1)
	if r.session.Phase() != session.PhaseReady {
		t.Fatalf("expected ready after 60 ticks, got %v", r.session.Phase())
	}
	if next := r.session.State().CurrentTier; next == "" || next == dropped {
		t.Fatalf("expected a new tier different from %s, got %q", dropped, next)
	}
	if len(r.prompter.prompts)+len(r.prompter.alerts) != 0 {
		t.Fatalf("expected the falling fruit not to end the round")
	}
}

func TestGameSameTierPairMerges(t *testing.T) {
	r := newGameRig(t)
	r.loose(t, "cherry", 200, 779)
	r.loose(t, "cherry", 215, 779)

	r.step(5)

	got := r.fruits()
	if got["cherry"] != 0 || got["strawberry"] != 1 {
		t.Fatalf("expected one strawberry and no cherries, got %v", got)
	}
	if r.session.Score() != 1 {
		t.Fatalf("expected score 1, got %d", r.session.Score())
	}
}

func TestGameChainMerge(t *testing.T) {
	r := newGameRig(t)
	r.loose(t, "cherry", 200, 779)
	r.loose(t, "cherry", 215, 779)
	r.loose(t, "strawberry", 232, 775)

	r.step(30)

	got := r.fruits()
	if got["cherry"] != 0 || got["strawberry"] != 0 || got["grape"] != 1 {
		t.Fatalf("expected a single grape, got %v", got)
	}
	if r.session.Score() != 4 {
		t.Fatalf("expected score 4, got %d", r.session.Score())
	}
}

func TestGamePileAtTopLinePromptsOnce(t *testing.T) {
	r := newGameRig(t)
	for _, x := range []float64{100, 200, 300, 420} {
		r.loose(t, "grape", x, 150)
	}

	r.step(10)

	if r.session.Phase() != session.PhaseGameOver {
		t.Fatalf("expected game over, got %v", r.session.Phase())
	}
	if len(r.prompter.prompts) != 1 || len(r.prompter.alerts) != 0 {
		t.Fatalf("expected exactly one prompt, got prompts=%v alerts=%v", r.prompter.prompts, r.prompter.alerts)
	}

	r.prompter.submit("Zoe", true)
	if len(r.prompter.alerts) != 1 || r.prompter.alerts[0] != session.LeaderboardMessage {
		t.Fatalf("expected leaderboard alert, got %v", r.prompter.alerts)
	}
	r.prompter.dismiss()
	r.step(1)
	if r.session.Phase() != session.PhaseReady || r.session.Score() != 0 {
		t.Fatalf("expected a fresh round, got %v score=%d", r.session.Phase(), r.session.Score())
	}
	if got := r.fruits(); len(got) != 0 {
		t.Fatalf("expected the field cleared, got %v", got)
	}
}
