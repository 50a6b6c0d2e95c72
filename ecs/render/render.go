// Package render draws the world with flat vector shapes.
package render

import (
	"bytes"
	"image/color"
	"log"
	"math"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/suika/common"
	"github.com/milk9111/suika/ecs"
	"github.com/milk9111/suika/ecs/component"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
)

const (
	previewAlpha = 0.55
	popGrowth    = 1.6
)

type RenderSystem struct {
	Background color.Color

	source *text.GoTextFaceSource
	faces  map[int]text.Face
	small  text.Face
}

func NewRenderSystem(background color.Color) *RenderSystem {
	r := &RenderSystem{
		Background: background,
		faces:      make(map[int]text.Face),
		small:      text.NewGoXFace(basicfont.Face7x13),
	}
	s, err := text.NewGoTextFaceSource(bytes.NewReader(gobold.TTF))
	if err != nil {
		log.Printf("render: load font: %v", err)
		return r
	}
	r.source = s
	return r
}

func (r *RenderSystem) Draw(w *ecs.World, screen *ebiten.Image) {
	if r == nil || w == nil || screen == nil {
		return
	}
	if r.Background != nil {
		screen.Fill(r.Background)
	}

	entities := ecs.Query(w, component.TransformComponent.Kind(), component.FillComponent.Kind())
	sort.SliceStable(entities, func(i, j int) bool {
		li, lj := layerOf(w, entities[i]), layerOf(w, entities[j])
		if li != lj {
			return li < lj
		}
		return uint64(entities[i]) < uint64(entities[j])
	})

	for _, e := range entities {
		t, _ := ecs.Get(w, e, component.TransformComponent.Kind())
		fill, _ := ecs.Get(w, e, component.FillComponent.Kind())
		pb, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
		if !ok {
			continue
		}
		if pb.Static {
			r.drawBoundary(screen, t, fill, pb)
			continue
		}
		alpha := 1.0
		if ecs.Has(w, e, component.PreviewTagComponent.Kind()) {
			alpha = previewAlpha
		}
		r.drawFruit(screen, t, fill, pb.Radius, alpha)
	}

	ecs.ForEach2(w, component.MergePopComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, pop *component.MergePop, t *component.Transform) {
		drawPop(screen, t, pop)
	})
}

func (r *RenderSystem) drawBoundary(screen *ebiten.Image, t *component.Transform, fill *component.Fill, pb *component.PhysicsBody) {
	x := float32(t.X - pb.Width/2)
	y := float32(t.Y - pb.Height/2)
	c := fill.Color
	if pb.Sensor {
		c = withAlpha(c, 0.8)
	}
	vector.DrawFilledRect(screen, x, y, float32(pb.Width), float32(pb.Height), c, false)
}

func (r *RenderSystem) drawFruit(screen *ebiten.Image, t *component.Transform, fill *component.Fill, radius, alpha float64) {
	cx, cy := float32(t.X), float32(t.Y)
	body := withAlpha(fill.Color, alpha)
	vector.DrawFilledCircle(screen, cx, cy, float32(radius), body, true)
	vector.StrokeCircle(screen, cx, cy, float32(radius), 2, withAlpha(shade(fill.Color, 0.7), alpha), true)

	if fill.Glyph == "" {
		return
	}
	face := r.face(radius)
	tw, th := text.Measure(fill.Glyph, face, 0)
	op := &text.DrawOptions{}
	op.GeoM.Translate(t.X-tw/2, t.Y-th/2)
	op.ColorScale.ScaleWithColor(withAlpha(color.White, alpha))
	text.Draw(screen, fill.Glyph, face, op)
}

func drawPop(screen *ebiten.Image, t *component.Transform, pop *component.MergePop) {
	if pop.Total <= 0 {
		return
	}
	p := 1 - float64(pop.Frames)/float64(pop.Total)
	radius := common.Lerp(pop.Radius, pop.Radius*popGrowth, p)
	alpha := common.Lerp(0.8, 0, p)
	c := pop.Color
	if c == nil {
		c = color.White
	}
	vector.StrokeCircle(screen, float32(t.X), float32(t.Y), float32(radius), 3, withAlpha(c, alpha), true)
}

// face returns a bold face sized to the fruit, cached per pixel size.
func (r *RenderSystem) face(radius float64) text.Face {
	if r.source == nil {
		return r.small
	}
	size := int(math.Max(8, math.Round(radius)))
	if f, ok := r.faces[size]; ok {
		return f
	}
	f := &text.GoTextFace{Source: r.source, Size: float64(size)}
	r.faces[size] = f
	return f
}

func layerOf(w *ecs.World, e ecs.Entity) int {
	if layer, ok := ecs.Get(w, e, component.RenderLayerComponent.Kind()); ok {
		return layer.Index
	}
	return 0
}

func withAlpha(c color.Color, a float64) color.NRGBA {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = uint8(common.Clamp(float64(n.A)*a, 0, 255))
	return n
}

func shade(c color.Color, f float64) color.NRGBA {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.R = uint8(common.Clamp(float64(n.R)*f, 0, 255))
	n.G = uint8(common.Clamp(float64(n.G)*f, 0, 255))
	n.B = uint8(common.Clamp(float64(n.B)*f, 0, 255))
	return n
}
