package prefabs

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"
	"time"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/suika/common"
	"github.com/milk9111/suika/ecs/system"
	"github.com/milk9111/suika/fruit"
	"github.com/milk9111/suika/session"
	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"
)

const (
	FruitsFile = "fruits.yaml"
	TuningFile = "tuning.yaml"
)

var ErrInvalidTuning = errors.New("prefabs: invalid tuning")

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

type TierSpec struct {
	Name   string     `yaml:"name"`
	Radius float64    `yaml:"radius"`
	Color  *YAMLColor `yaml:"color"`
	Points int        `yaml:"points"`
	Mass   float64    `yaml:"mass"`
}

type FruitCatalogSpec struct {
	Droppable int        `yaml:"droppable"`
	Tiers     []TierSpec `yaml:"tiers"`
}

// Catalog validates the spec into a fruit catalog.
func (s FruitCatalogSpec) Catalog() (fruit.Catalog, error) {
	tiers := make([]fruit.Tier, 0, len(s.Tiers))
	for _, ts := range s.Tiers {
		t := fruit.Tier{Name: ts.Name, Radius: ts.Radius, Points: ts.Points, Mass: ts.Mass}
		if ts.Color != nil {
			t.Color = ts.Color.Color
		}
		tiers = append(tiers, t)
	}
	droppable := s.Droppable
	if droppable == 0 {
		droppable = fruit.DefaultDroppable
	}
	return fruit.NewCatalog(tiers, droppable)
}

// LoadCatalog reads and validates fruits.yaml.
func LoadCatalog() (fruit.Catalog, error) {
	spec, err := LoadSpec[FruitCatalogSpec](FruitsFile)
	if err != nil {
		return fruit.Catalog{}, err
	}
	c, err := spec.Catalog()
	if err != nil {
		return fruit.Catalog{}, fmt.Errorf("prefabs: %s: %w", FruitsFile, err)
	}
	return c, nil
}

type FieldSpec struct {
	Width         float64 `yaml:"width"`
	Height        float64 `yaml:"height"`
	WallThickness float64 `yaml:"wall_thickness"`
	GroundHeight  float64 `yaml:"ground_height"`
	TopLineY      float64 `yaml:"top_line_y"`
	TopLineHeight float64 `yaml:"top_line_height"`
	SpawnX        float64 `yaml:"spawn_x"`
	SpawnY        float64 `yaml:"spawn_y"`
}

type SessionSpec struct {
	CooldownMS     int     `yaml:"cooldown_ms"`
	MoveIntervalMS int     `yaml:"move_interval_ms"`
	MoveStep       float64 `yaml:"move_step"`
}

type PhysicsSpec struct {
	Gravity    float64 `yaml:"gravity"`
	Iterations int     `yaml:"iterations"`
	Friction   float64 `yaml:"friction"`
	Elasticity float64 `yaml:"elasticity"`
}

type ColorsSpec struct {
	Background *YAMLColor `yaml:"background"`
	Boundary   *YAMLColor `yaml:"boundary"`
}

// AudioSpec describes a generated tone.
type AudioSpec struct {
	Name       string  `yaml:"name"`
	Freq       float64 `yaml:"freq"`
	DurationMS int     `yaml:"duration_ms"`
	Volume     float64 `yaml:"volume"`
}

type TuningSpec struct {
	Field   FieldSpec   `yaml:"field"`
	Session SessionSpec `yaml:"session"`
	Physics PhysicsSpec `yaml:"physics"`
	Colors  ColorsSpec  `yaml:"colors"`
	Audio   []AudioSpec `yaml:"audio"`
}

// LoadTuning reads and validates tuning.yaml.
func LoadTuning() (TuningSpec, error) {
	spec, err := LoadSpec[TuningSpec](TuningFile)
	if err != nil {
		return TuningSpec{}, err
	}
	if err := spec.Validate(); err != nil {
		return TuningSpec{}, err
	}
	return spec, nil
}

func (s TuningSpec) Validate() error {
	f := s.Field
	switch {
	case f.Width <= 2*f.WallThickness:
		return fmt.Errorf("%w: width %v leaves no room between walls of %v", ErrInvalidTuning, f.Width, f.WallThickness)
	case f.Height <= f.GroundHeight:
		return fmt.Errorf("%w: height %v not above ground %v", ErrInvalidTuning, f.Height, f.GroundHeight)
	case f.TopLineY <= 0 || f.TopLineY >= f.Height-f.GroundHeight:
		return fmt.Errorf("%w: top line %v outside the field", ErrInvalidTuning, f.TopLineY)
	case f.SpawnY >= f.TopLineY:
		return fmt.Errorf("%w: spawn y %v must be above the top line %v", ErrInvalidTuning, f.SpawnY, f.TopLineY)
	case s.Session.CooldownMS < 0 || s.Session.MoveIntervalMS <= 0:
		return fmt.Errorf("%w: session timings %+v", ErrInvalidTuning, s.Session)
	}
	return nil
}

func (s TuningSpec) FieldConfig() common.Field {
	f := s.Field
	return common.Field{
		Width:         f.Width,
		Height:        f.Height,
		WallThickness: f.WallThickness,
		GroundHeight:  f.GroundHeight,
		TopLineY:      f.TopLineY,
		TopLineHeight: f.TopLineHeight,
		Spawn:         cp.Vector{X: f.SpawnX, Y: f.SpawnY},
	}
}

func (s TuningSpec) SessionConfig() session.Config {
	return session.Config{
		Field:        s.FieldConfig(),
		Cooldown:     time.Duration(s.Session.CooldownMS) * time.Millisecond,
		MoveInterval: time.Duration(s.Session.MoveIntervalMS) * time.Millisecond,
		MoveStep:     s.Session.MoveStep,
	}
}

func (s TuningSpec) PhysicsConfig() system.PhysicsConfig {
	cfg := system.DefaultPhysicsConfig()
	cfg.Gravity = s.Physics.Gravity
	if s.Physics.Iterations > 0 {
		cfg.Iterations = s.Physics.Iterations
	}
	cfg.Friction = s.Physics.Friction
	cfg.Elasticity = s.Physics.Elasticity
	return cfg
}

// YAMLColor accepts "#RRGGBB", "#RRGGBBAA" or an SVG color name.
type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	if named, ok := colornames.Map[strings.ToLower(value.Value)]; ok {
		c.Color = named
		return nil
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}

// Or returns the parsed color, or fallback when unset.
func (c *YAMLColor) Or(fallback color.Color) color.Color {
	if c == nil || c.Color == nil {
		return fallback
	}
	return c.Color
}
