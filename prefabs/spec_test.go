package prefabs

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/milk9111/suika/fruit"
	"gopkg.in/yaml.v3"
)

func useDir(t *testing.T, dir string) {
	t.Helper()
	prev := Dir
	Dir = dir
	t.Cleanup(func() { Dir = prev })
}

func TestEmbeddedCatalog(t *testing.T) {
	useDir(t, t.TempDir())

	c, err := LoadCatalog()
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	if c.Len() != 11 {
		t.Fatalf("expected 11 tiers, got %d", c.Len())
	}
	if len(c.Droppable()) != 5 {
		t.Fatalf("expected 5 droppable tiers, got %d", len(c.Droppable()))
	}
	first, _ := c.Tier(0)
	last, _ := c.Tier(c.Len() - 1)
	if first.Name != "cherry" || last.Name != "watermelon" {
		t.Fatalf("unexpected ends %q..%q", first.Name, last.Name)
	}
	if last.Color == nil {
		t.Fatalf("expected named color to parse")
	}
}

func TestDiskOverlayWins(t *testing.T) {
	dir := t.TempDir()
	useDir(t, dir)
	src := "droppable: 1\ntiers:\n  - name: plum\n    radius: 10\n    points: 2\n  - name: kiwi\n    radius: 20\n    points: 4\n"
	if err := os.WriteFile(filepath.Join(dir, FruitsFile), []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := LoadCatalog()
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	if c.Len() != 2 {
		t.Fatalf("expected overlay catalog, got %d tiers", c.Len())
	}
}

func TestInvalidCatalogOverlay(t *testing.T) {
	dir := t.TempDir()
	useDir(t, dir)
	src := "tiers:\n  - name: big\n    radius: 30\n  - name: small\n    radius: 10\n"
	if err := os.WriteFile(filepath.Join(dir, FruitsFile), []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadCatalog(); !errors.Is(err, fruit.ErrInvalidTier) {
		t.Fatalf("expected ErrInvalidTier, got %v", err)
	}
}

func TestEmbeddedTuning(t *testing.T) {
	useDir(t, t.TempDir())

	spec, err := LoadTuning()
	if err != nil {
		t.Fatalf("LoadTuning: %v", err)
	}
	f := spec.FieldConfig()
	if f.Width != 620 || f.Height != 850 || f.TopLineY != 150 || f.Spawn.X != 300 || f.Spawn.Y != 30 {
		t.Fatalf("unexpected field %+v", f)
	}
	cfg := spec.SessionConfig()
	if cfg.Cooldown != time.Second || cfg.MoveInterval != 5*time.Millisecond || cfg.MoveStep != 1 {
		t.Fatalf("unexpected session config %+v", cfg)
	}
	if pc := spec.PhysicsConfig(); pc.Iterations != 20 || pc.Gravity != 1000 {
		t.Fatalf("unexpected physics config %+v", pc)
	}
	if len(spec.Audio) != 3 {
		t.Fatalf("expected 3 tones, got %d", len(spec.Audio))
	}
	want := color.NRGBA{R: 0xF7, G: 0xF4, B: 0xC8, A: 0xFF}
	if spec.Colors.Background.Or(color.Black) != want {
		t.Fatalf("expected background %v, got %v", want, spec.Colors.Background.Color)
	}
}

func TestTuningValidate(t *testing.T) {
	base := func() TuningSpec {
		return TuningSpec{
			Field:   FieldSpec{Width: 620, Height: 850, WallThickness: 30, GroundHeight: 60, TopLineY: 150, TopLineHeight: 2, SpawnX: 300, SpawnY: 30},
			Session: SessionSpec{CooldownMS: 1000, MoveIntervalMS: 5, MoveStep: 1},
		}
	}
	tests := []struct {
		name    string
		mutate  func(*TuningSpec)
		wantErr bool
	}{
		{name: "valid", mutate: func(*TuningSpec) {}},
		{name: "walls_overlap", mutate: func(s *TuningSpec) { s.Field.WallThickness = 400 }, wantErr: true},
		{name: "ground_too_tall", mutate: func(s *TuningSpec) { s.Field.GroundHeight = 900 }, wantErr: true},
		{name: "top_line_below_ground", mutate: func(s *TuningSpec) { s.Field.TopLineY = 800 }, wantErr: true},
		{name: "spawn_under_top_line", mutate: func(s *TuningSpec) { s.Field.SpawnY = 200 }, wantErr: true},
		{name: "zero_move_interval", mutate: func(s *TuningSpec) { s.Session.MoveIntervalMS = 0 }, wantErr: true},
		{name: "zero_cooldown_ok", mutate: func(s *TuningSpec) { s.Session.CooldownMS = 0 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := base()
			tc.mutate(&s)
			err := s.Validate()
			if tc.wantErr && !errors.Is(err, ErrInvalidTuning) {
				t.Fatalf("expected ErrInvalidTuning, got %v", err)
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error %v", err)
			}
		})
	}
}

func TestYAMLColor(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		want    color.Color
		wantErr bool
	}{
		{name: "hex", src: `"#E6B143"`, want: color.NRGBA{R: 0xE6, G: 0xB1, B: 0x43, A: 0xFF}},
		{name: "hex_alpha", src: `"#00000080"`, want: color.NRGBA{A: 0x80}},
		{name: "bare_hex", src: `"ff0000"`, want: color.NRGBA{R: 0xFF, A: 0xFF}},
		{name: "named", src: `forestgreen`, want: color.RGBA{R: 0x22, G: 0x8b, B: 0x22, A: 0xff}},
		{name: "named_mixed_case", src: `ForestGreen`, want: color.RGBA{R: 0x22, G: 0x8b, B: 0x22, A: 0xff}},
		{name: "bad_length", src: `"#abc"`, wantErr: true},
		{name: "bad_digits", src: `"#zzzzzz"`, wantErr: true},
		{name: "not_scalar", src: `[1, 2]`, wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var c YAMLColor
			err := yaml.Unmarshal([]byte(tc.src), &c)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", c.Color)
				}
				return
			}
			if err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if c.Color != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, c.Color)
			}
		})
	}
}

func TestEmbeddedScriptsCompile(t *testing.T) {
	useDir(t, t.TempDir())
	for _, name := range []string{"spawn_uniform", "prefabs/scripts/spawn_small_bias.tengo"} {
		t.Run(filepath.Base(name), func(t *testing.T) {
			src, err := LoadScript(name)
			if err != nil {
				t.Fatalf("LoadScript: %v", err)
			}
			p, err := fruit.NewScriptPicker(name, src, nil)
			if err != nil {
				t.Fatalf("NewScriptPicker: %v", err)
			}
			for i := 0; i < 50; i++ {
				idx, err := p.Eval(5)
				if err != nil {
					t.Fatalf("Eval: %v", err)
				}
				if idx < 0 || idx >= 5 {
					t.Fatalf("index %d out of range", idx)
				}
			}
		})
	}
}

func TestCleanPaths(t *testing.T) {
	tests := []struct {
		in, prefab, script string
	}{
		{in: "fruits.yaml", prefab: "fruits.yaml", script: "scripts/fruits.yaml.tengo"},
		{in: "prefabs/tuning.yaml", prefab: "tuning.yaml", script: "scripts/tuning.yaml.tengo"},
		{in: "prefabs/scripts/a.tengo", prefab: "scripts/a.tengo", script: "scripts/a.tengo"},
		{in: "scripts/b", prefab: "scripts/b", script: "scripts/b.tengo"},
		{in: "", prefab: "", script: ""},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			if got := cleanPrefabPath(tc.in); got != tc.prefab {
				t.Fatalf("cleanPrefabPath(%q) = %q, want %q", tc.in, got, tc.prefab)
			}
			if got := cleanScriptPath(tc.in); got != tc.script {
				t.Fatalf("cleanScriptPath(%q) = %q, want %q", tc.in, got, tc.script)
			}
		})
	}
}
