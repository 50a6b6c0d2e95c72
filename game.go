package main

import (
	"fmt"
	"image/color"
	"log"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/suika/ecs"
	"github.com/milk9111/suika/ecs/component"
	"github.com/milk9111/suika/ecs/render"
	"github.com/milk9111/suika/ecs/system"
	"github.com/milk9111/suika/fruit"
	"github.com/milk9111/suika/prefabs"
	"github.com/milk9111/suika/score"
	"github.com/milk9111/suika/session"
	"github.com/milk9111/suika/ui"
)

const tps = 60

var (
	defaultBackground = color.NRGBA{R: 0xF7, G: 0xF4, B: 0xC8, A: 0xFF}
	defaultBoundary   = color.NRGBA{R: 0xE6, G: 0xB1, B: 0x43, A: 0xFF}
)

type options struct {
	debug  bool
	scores string
	seed   uint64
	watch  bool
	script string
}

type Game struct {
	opts options

	world     *ecs.World
	scheduler *ecs.Scheduler
	physics   *system.PhysicsSystem
	session   *session.Session
	ledger    *score.Ledger
	renderer  *render.RenderSystem
	sounds    *SoundSystem
	hud       *ui.HUD
	watcher   *prefabs.Watcher

	width, height int
	lastPhase     session.Phase
	lastScore     int
}

func NewGame(opts options) (*Game, error) {
	catalog, err := prefabs.LoadCatalog()
	if err != nil {
		return nil, err
	}
	tuning, err := prefabs.LoadTuning()
	if err != nil {
		return nil, err
	}

	g := &Game{opts: opts}
	g.ledger = score.NewLedger(openStore(opts.scores))

	g.world = ecs.NewWorld()
	physCfg := tuning.PhysicsConfig()
	physCfg.Debug = opts.debug
	field := tuning.FieldConfig()
	g.physics = system.NewPhysicsSystem(g.world, physCfg, field)
	g.physics.BuildField(component.Fill{Color: tuning.Colors.Boundary.Or(defaultBoundary)})

	g.width = int(field.Width) + ui.PanelWidth
	g.height = int(field.Height)
	g.hud = ui.NewHUD()

	sessCfg := tuning.SessionConfig()
	sessCfg.Debug = opts.debug
	g.session, err = session.New(sessCfg, session.Deps{
		Catalog:  catalog,
		Selector: g.newSelector(catalog),
		Engine:   g.physics,
		Prompter: g.hud,
		Ledger:   g.ledger,
	})
	if err != nil {
		return nil, err
	}
	g.physics.Paused = func() bool { return g.session.Phase() == session.PhaseGameOver }

	g.renderer = render.NewRenderSystem(tuning.Colors.Background.Or(defaultBackground))
	g.sounds = NewSoundSystem(tuning.Audio)

	input := ecs.CreateEntity(g.world)
	_ = ecs.Add(g.world, input, component.InputComponent.Kind(), &component.Input{})

	controller := system.NewInputController(g.session)
	controller.Blocked = g.hud.ModalOpen
	controller.OnRestart = g.restart
	g.hud.OnRestart = g.restart

	reactor := system.NewCollisionReactor(g.session)
	reactor.Debug = opts.debug

	g.scheduler = ecs.NewScheduler(
		NewKeyboardSystem(),
		controller,
		system.NewClockSystem(g.session, tps),
		g.physics,
		reactor,
		system.NewMergePopSystem(),
		g.sounds,
	)

	if opts.watch {
		g.watcher, err = prefabs.NewWatcher(prefabs.Dir, filepath.Join(prefabs.Dir, "scripts"))
		if err != nil {
			log.Printf("game: watch %s: %v", prefabs.Dir, err)
		}
	}

	if err := g.session.Reset(); err != nil {
		return nil, err
	}
	g.lastPhase = g.session.Phase()
	g.hud.SetRanking(g.ledger.BestScores())
	g.hud.SetScore(0)
	return g, nil
}

func openStore(path string) score.Store {
	if path == "" {
		p, err := score.DefaultPath()
		if err != nil {
			log.Printf("game: %v, scores kept in memory", err)
			return score.NewMemoryStore()
		}
		path = p
	}
	fs, err := score.OpenFileStore(path)
	if err != nil {
		log.Printf("game: open scores %s: %v, scores kept in memory", path, err)
		return score.NewMemoryStore()
	}
	return fs
}

func (g *Game) newSelector(c fruit.Catalog) *fruit.Selector {
	var picker fruit.Picker = fruit.NewRandPicker(g.opts.seed)
	if g.opts.script != "" {
		src, err := prefabs.LoadScript(g.opts.script)
		if err != nil {
			log.Printf("game: load spawn script %s: %v", g.opts.script, err)
		} else if sp, err := fruit.NewScriptPicker(g.opts.script, src, picker); err != nil {
			log.Printf("game: %v", err)
		} else {
			picker = sp
		}
	}
	return fruit.NewSelector(c, picker, fruit.DefaultMaxAttempts)
}

func (g *Game) restart() {
	if err := g.session.Reset(); err != nil {
		log.Printf("game: restart: %v", err)
	}
}

func (g *Game) Update() error {
	g.pollWatcher()
	g.hud.Update()
	g.scheduler.Update(g.world)

	st := g.session.State()
	if st.Score != g.lastScore {
		g.lastScore = st.Score
		g.hud.SetScore(st.Score)
	}
	if st.Phase != g.lastPhase {
		if st.Phase == session.PhaseGameOver {
			g.sounds.Play("gameover", 0)
		}
		g.lastPhase = st.Phase
		g.hud.SetRanking(g.ledger.BestScores())
	}
	g.hud.SetNext(st.LastSpawned)
	return nil
}

func (g *Game) pollWatcher() {
	if g.watcher == nil {
		return
	}
	for _, change := range g.watcher.Poll() {
		switch change.Kind {
		case prefabs.ChangeCatalog, prefabs.ChangeScript:
			catalog, err := prefabs.LoadCatalog()
			if err != nil {
				log.Printf("game: reload %s: %v", change.Name, err)
				continue
			}
			g.session.SetCatalog(catalog, g.newSelector(catalog))
			log.Printf("game: %s reloaded, applied on next restart", change.Name)
		case prefabs.ChangeTuning:
			tuning, err := prefabs.LoadTuning()
			if err != nil {
				log.Printf("game: reload %s: %v", change.Name, err)
				continue
			}
			g.renderer.Background = tuning.Colors.Background.Or(defaultBackground)
			g.sounds.SetTones(tuning.Audio)
			log.Printf("game: %s reloaded (colors and sounds)", change.Name)
		}
	}
	select {
	case err := <-g.watcher.Errors:
		log.Printf("game: watcher: %v", err)
	default:
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.renderer.Draw(g.world, screen)
	if g.opts.debug {
		render.DrawPhysicsDebug(g.physics.Space(), screen)
		render.DrawWorldStats(g.world, screen, fmt.Sprintf("%s t=%v", g.session.Phase(), g.session.Now()))
	}
	g.hud.Draw(screen)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.width, g.height
}

func (g *Game) Close() {
	if g.watcher != nil {
		if err := g.watcher.Close(); err != nil {
			log.Printf("game: close watcher: %v", err)
		}
	}
}
