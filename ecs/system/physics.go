package system

import (
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/suika/common"
	"github.com/milk9111/suika/ecs"
	"github.com/milk9111/suika/ecs/component"
	"github.com/milk9111/suika/fruit"
	"github.com/milk9111/suika/session"
)

const (
	collisionTypeFruit cp.CollisionType = iota + 1
	collisionTypeBoundary
	collisionTypeSensor
)

// PhysicsConfig tunes the cp space and the fruit material.
type PhysicsConfig struct {
	Gravity    float64
	Iterations int
	Step       float64
	Friction   float64
	Elasticity float64
	Debug      bool
}

func DefaultPhysicsConfig() PhysicsConfig {
	return PhysicsConfig{
		Gravity:    1000,
		Iterations: 20,
		Step:       1.0 / 60.0,
		Friction:   0.1,
		Elasticity: 0,
	}
}

// PhysicsSystem owns the cp space and mirrors it into the world. It is the
// session's Engine: bodies are created and mutated through it, never by
// touching cp directly.
type PhysicsSystem struct {
	world *ecs.World
	space *cp.Space
	cfg   PhysicsConfig
	field common.Field

	handlersReady bool

	entities map[ecs.Entity]*bodyInfo
	shapes   map[*cp.Shape]ecs.Entity
	contacts []ecs.Contact
	pending  []ecs.Contact

	// Paused, when set and true, skips the step. Bodies can still be
	// created and moved.
	Paused func() bool
}

type bodyInfo struct {
	body    *cp.Body
	shape   *cp.Shape
	static  bool
	inSpace bool
	mass    float64
	moment  float64
}

var _ session.Engine = (*PhysicsSystem)(nil)

func NewPhysicsSystem(w *ecs.World, cfg PhysicsConfig, field common.Field) *PhysicsSystem {
	if cfg.Iterations <= 0 {
		cfg.Iterations = DefaultPhysicsConfig().Iterations
	}
	if cfg.Step <= 0 {
		cfg.Step = DefaultPhysicsConfig().Step
	}
	space := cp.NewSpace()
	space.Iterations = uint(cfg.Iterations)
	space.SetGravity(cp.Vector{X: 0, Y: cfg.Gravity})
	return &PhysicsSystem{
		world:    w,
		space:    space,
		cfg:      cfg,
		field:    field,
		entities: make(map[ecs.Entity]*bodyInfo),
		shapes:   make(map[*cp.Shape]ecs.Entity),
	}
}

func (ps *PhysicsSystem) Space() *cp.Space {
	if ps == nil {
		return nil
	}
	return ps.space
}

func (ps *PhysicsSystem) Field() common.Field {
	return ps.field
}

// BuildField creates the ground, both walls and the top sensor.
func (ps *PhysicsSystem) BuildField(fill component.Fill) []ecs.Entity {
	f := ps.field
	wallHeight := f.Height - f.GroundHeight
	specs := []struct {
		label  string
		x, y   float64
		w, h   float64
		sensor bool
	}{
		{label: common.LabelGround, x: f.Width / 2, y: f.Height - f.GroundHeight/2, w: f.Width, h: f.GroundHeight},
		{label: common.LabelWall, x: f.WallThickness / 2, y: wallHeight / 2, w: f.WallThickness, h: wallHeight},
		{label: common.LabelWall, x: f.Width - f.WallThickness/2, y: wallHeight / 2, w: f.WallThickness, h: wallHeight},
		{label: common.LabelTopLine, x: f.Width / 2, y: f.TopLineY, w: f.Width, h: f.TopLineHeight, sensor: true},
	}

	out := make([]ecs.Entity, 0, len(specs))
	for _, s := range specs {
		e := ecs.CreateEntity(ps.world)
		_ = ecs.Add(ps.world, e, component.TransformComponent.Kind(), &component.Transform{X: s.x, Y: s.y})
		_ = ecs.Add(ps.world, e, component.BoundaryTagComponent.Kind(), &component.BoundaryTag{})
		_ = ecs.Add(ps.world, e, component.RenderLayerComponent.Kind(), &component.RenderLayer{Index: component.LayerBoundary})
		f := fill
		_ = ecs.Add(ps.world, e, component.FillComponent.Kind(), &f)
		pb := &component.PhysicsBody{
			Label:    s.label,
			Width:    s.w,
			Height:   s.h,
			Friction: ps.cfg.Friction,
			Static:   true,
			Sensor:   s.sensor,
			InSpace:  true,
		}
		info := ps.createBody(component.Transform{X: s.x, Y: s.y}, *pb)
		ps.attach(e, info, pb)
		out = append(out, e)
	}
	return out
}

// SpawnFruit creates a fruit entity for tier at the given center.
func (ps *PhysicsSystem) SpawnFruit(tier fruit.Tier, at cp.Vector, mode session.SpawnMode) (ecs.Entity, error) {
	if tier.Radius <= 0 {
		return 0, fmt.Errorf("%w: %q has radius %v", fruit.ErrInvalidTier, tier.Name, tier.Radius)
	}
	w := ps.world
	e := ecs.CreateEntity(w)
	tr := component.Transform{X: at.X, Y: at.Y}
	layer := component.LayerFruit
	if mode == session.SpawnPreview {
		layer = component.LayerPreview
	}

	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &tr); err != nil {
		return 0, fmt.Errorf("physics: spawn %s: %w", tier.Name, err)
	}
	_ = ecs.Add(w, e, component.FruitComponent.Kind(), &component.Fruit{Tier: tier.Index, Name: tier.Name})
	_ = ecs.Add(w, e, component.FillComponent.Kind(), &component.Fill{Color: tier.Color, Glyph: glyph(tier.Name)})
	_ = ecs.Add(w, e, component.RenderLayerComponent.Kind(), &component.RenderLayer{Index: layer})
	switch mode {
	case session.SpawnCurrent:
		_ = ecs.Add(w, e, component.CurrentTagComponent.Kind(), &component.CurrentTag{})
	case session.SpawnPreview:
		_ = ecs.Add(w, e, component.PreviewTagComponent.Kind(), &component.PreviewTag{})
	}

	pb := &component.PhysicsBody{
		Label:      tier.Name,
		Radius:     tier.Radius,
		Mass:       tier.Mass,
		Friction:   ps.cfg.Friction,
		Elasticity: ps.cfg.Elasticity,
		Inert:      mode != session.SpawnLoose,
		InSpace:    mode != session.SpawnPreview,
	}
	info := ps.createBody(tr, *pb)
	ps.attach(e, info, pb)

	if ps.cfg.Debug {
		log.Printf("physics: spawned %s %s at (%.0f, %.0f) mode=%d", tier.Name, e, at.X, at.Y, mode)
	}
	return e, nil
}

// Admit adds a preview body to the space. It stays inert and becomes the
// current fruit.
func (ps *PhysicsSystem) Admit(e ecs.Entity) {
	info := ps.entities[e]
	if info == nil || info.inSpace {
		return
	}
	ps.space.AddBody(info.body)
	ps.space.AddShape(info.shape)
	info.inSpace = true

	w := ps.world
	if pb, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind()); ok {
		pb.InSpace = true
	}
	ecs.Remove(w, e, component.PreviewTagComponent.Kind())
	_ = ecs.Add(w, e, component.CurrentTagComponent.Kind(), &component.CurrentTag{})
	if layer, ok := ecs.Get(w, e, component.RenderLayerComponent.Kind()); ok {
		layer.Index = component.LayerFruit
	}
}

// Wake turns an inert body into a dynamic one.
func (ps *PhysicsSystem) Wake(e ecs.Entity) {
	info := ps.entities[e]
	if info == nil || info.static {
		return
	}
	body := info.body
	if body.GetType() != cp.BODY_DYNAMIC {
		body.SetType(cp.BODY_DYNAMIC)
		body.SetMass(info.mass)
		body.SetMoment(info.moment)
	}
	body.SetVelocity(0, 0)
	body.SetAngularVelocity(0)
	body.Activate()

	if pb, ok := ecs.Get(ps.world, e, component.PhysicsBodyComponent.Kind()); ok {
		pb.Inert = false
	}
	ecs.Remove(ps.world, e, component.CurrentTagComponent.Kind())
	if info.inSpace {
		ps.queueOverlaps(e, info.shape)
	}
}

// queueOverlaps reports same-tier fruits already touching e. cp only calls
// Begin once per touching pair, so a pair formed while e was the current
// fruit would otherwise never reach the reactor.
func (ps *PhysicsSystem) queueOverlaps(e ecs.Entity, shape *cp.Shape) {
	label := ps.label(e)
	if label == "" || common.IsBoundaryLabel(label) {
		return
	}
	ps.space.ShapeQuery(shape, func(other *cp.Shape, points *cp.ContactPointSet) {
		o, ok := ps.shapes[other]
		if !ok || o == e || ps.label(o) != label {
			return
		}
		c := ecs.Contact{A: e, B: o, LabelA: label, LabelB: label}
		if points.Count > 0 {
			c.Point = points.Points[0].PointA
		} else {
			c.Point = shape.Body().Position().Lerp(other.Body().Position(), 0.5)
		}
		ps.pending = append(ps.pending, c)
	})
}

// Remove takes e out of the space and destroys it.
func (ps *PhysicsSystem) Remove(e ecs.Entity) {
	ps.detach(e)
	ecs.DestroyEntity(ps.world, e)
}

func (ps *PhysicsSystem) Position(e ecs.Entity) (cp.Vector, bool) {
	info := ps.entities[e]
	if info == nil || info.static {
		return cp.Vector{}, false
	}
	return info.body.Position(), true
}

func (ps *PhysicsSystem) SetPosition(e ecs.Entity, at cp.Vector) {
	info := ps.entities[e]
	if info == nil || info.static {
		return
	}
	info.body.SetPosition(at)
	info.shape.CacheBB()
	if tr, ok := ecs.Get(ps.world, e, component.TransformComponent.Kind()); ok {
		tr.X, tr.Y = at.X, at.Y
	}
}

// ClearDynamic removes every non-static body.
func (ps *PhysicsSystem) ClearDynamic() {
	for e, info := range ps.entities {
		if info.static {
			continue
		}
		ps.Remove(e)
	}
	ps.contacts = ps.contacts[:0]
	ps.pending = ps.pending[:0]
}

// Update steps the space and publishes this step's contact starts.
func (ps *PhysicsSystem) Update(w *ecs.World) {
	if ps == nil || w == nil {
		return
	}
	ps.ensureHandlers()
	ps.cleanupEntities(w)
	if ps.Paused != nil && ps.Paused() {
		return
	}

	ps.contacts = append(ps.contacts[:0], ps.pending...)
	ps.pending = ps.pending[:0]
	ps.space.Step(ps.cfg.Step)
	ps.syncTransforms(w)

	if len(ps.contacts) == 0 {
		return
	}
	batch := make([]ecs.Contact, len(ps.contacts))
	copy(batch, ps.contacts)
	w.Events().Push(ecs.Event{Type: ecs.EventContacts, Data: batch})
	if ps.cfg.Debug {
		log.Printf("physics: %d contact(s)", len(batch))
	}
}

func (ps *PhysicsSystem) ensureHandlers() {
	if ps.handlersReady {
		return
	}

	fruitHandler := ps.space.NewCollisionHandler(collisionTypeFruit, collisionTypeFruit)
	fruitHandler.UserData = ps
	fruitHandler.BeginFunc = recordContact

	sensorHandler := ps.space.NewCollisionHandler(collisionTypeFruit, collisionTypeSensor)
	sensorHandler.UserData = ps
	sensorHandler.BeginFunc = recordContact

	ps.handlersReady = true
}

func recordContact(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
	sys, ok := userData.(*PhysicsSystem)
	if !ok || sys == nil {
		return true
	}
	shapeA, shapeB := arb.Shapes()
	a, okA := sys.shapes[shapeA]
	b, okB := sys.shapes[shapeB]
	if !okA || !okB {
		return true
	}

	c := ecs.Contact{A: a, B: b, LabelA: sys.label(a), LabelB: sys.label(b)}
	if set := arb.ContactPointSet(); set.Count > 0 {
		c.Point = set.Points[0].PointA
	} else {
		c.Point = shapeA.Body().Position().Lerp(shapeB.Body().Position(), 0.5)
	}
	sys.contacts = append(sys.contacts, c)
	return true
}

func (ps *PhysicsSystem) label(e ecs.Entity) string {
	if pb, ok := ecs.Get(ps.world, e, component.PhysicsBodyComponent.Kind()); ok {
		return pb.Label
	}
	return ""
}

func (ps *PhysicsSystem) createBody(transform component.Transform, bodyComp component.PhysicsBody) *bodyInfo {
	center := cp.Vector{X: transform.X, Y: transform.Y}

	if bodyComp.Static {
		bb := cp.BB{
			L: center.X - bodyComp.Width/2,
			B: center.Y - bodyComp.Height/2,
			R: center.X + bodyComp.Width/2,
			T: center.Y + bodyComp.Height/2,
		}
		shape := cp.NewBox2(ps.space.StaticBody, bb, 0)
		shape.SetFriction(bodyComp.Friction)
		shape.SetElasticity(bodyComp.Elasticity)
		shape.SetCollisionType(collisionTypeBoundary)
		if bodyComp.Sensor {
			shape.SetSensor(true)
			shape.SetCollisionType(collisionTypeSensor)
		}
		ps.space.AddShape(shape)
		return &bodyInfo{body: ps.space.StaticBody, shape: shape, static: true, inSpace: true}
	}

	mass := bodyComp.Mass
	if mass <= 0 {
		mass = 1
	}
	moment := cp.MomentForCircle(mass, 0, bodyComp.Radius, cp.Vector{})

	body := cp.NewBody(mass, moment)
	body.SetPosition(center)
	body.SetAngle(transform.Rotation)
	if bodyComp.Inert {
		body.SetType(cp.BODY_KINEMATIC)
	}

	shape := cp.NewCircle(body, bodyComp.Radius, cp.Vector{})
	shape.SetFriction(bodyComp.Friction)
	shape.SetElasticity(bodyComp.Elasticity)
	shape.SetCollisionType(collisionTypeFruit)

	info := &bodyInfo{body: body, shape: shape, mass: mass, moment: moment}
	if bodyComp.InSpace {
		ps.space.AddBody(body)
		ps.space.AddShape(shape)
		info.inSpace = true
	}
	return info
}

func (ps *PhysicsSystem) attach(e ecs.Entity, info *bodyInfo, pb *component.PhysicsBody) {
	pb.Body = info.body
	pb.Shape = info.shape
	_ = ecs.Add(ps.world, e, component.PhysicsBodyComponent.Kind(), pb)
	ps.entities[e] = info
	ps.shapes[info.shape] = e
}

func (ps *PhysicsSystem) detach(e ecs.Entity) {
	info := ps.entities[e]
	if info == nil {
		return
	}
	delete(ps.shapes, info.shape)
	delete(ps.entities, e)
	if !info.inSpace {
		return
	}
	ps.space.RemoveShape(info.shape)
	if !info.static {
		ps.space.RemoveBody(info.body)
	}
}

func (ps *PhysicsSystem) syncTransforms(w *ecs.World) {
	ecs.ForEach2(w, component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, pb *component.PhysicsBody, tr *component.Transform) {
		if pb.Static || pb.Body == nil {
			return
		}
		pos := pb.Body.Position()
		tr.X = pos.X
		tr.Y = pos.Y
		tr.Rotation = pb.Body.Angle()
	})
}

// cleanupEntities drops bodies whose entity was destroyed outside Remove.
func (ps *PhysicsSystem) cleanupEntities(w *ecs.World) {
	for e := range ps.entities {
		if ecs.IsAlive(w, e) && ecs.Has(w, e, component.PhysicsBodyComponent.Kind()) {
			continue
		}
		ps.detach(e)
	}
}

func glyph(name string) string {
	r, _ := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return ""
	}
	return strings.ToUpper(string(r))
}
