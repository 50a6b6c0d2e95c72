// Package fruit holds the tier progression and the spawn selection rules.
package fruit

import (
	"errors"
	"fmt"
	"image/color"
	"math"
)

var (
	ErrEmptyCatalog = errors.New("fruit: catalog is empty")
	ErrInvalidTier  = errors.New("fruit: invalid tier")
)

// DefaultDroppable is how many of the smallest tiers the player can be
// handed; larger tiers only appear through merges.
const DefaultDroppable = 5

// Tier is one rank of the size progression. Index is assigned by the
// catalog.
type Tier struct {
	Index  int
	Name   string
	Radius float64
	Color  color.Color
	Points int
	Mass   float64
}

// Catalog is an immutable, ordered tier list.
type Catalog struct {
	tiers     []Tier
	byName    map[string]int
	droppable int
}

// NewCatalog validates tiers and assigns indices. Missing masses default to
// the disc area so bigger fruits weigh more.
func NewCatalog(tiers []Tier, droppable int) (Catalog, error) {
	if len(tiers) == 0 {
		return Catalog{}, ErrEmptyCatalog
	}
	if droppable <= 0 || droppable > len(tiers) {
		return Catalog{}, fmt.Errorf("%w: droppable %d out of range 1..%d", ErrInvalidTier, droppable, len(tiers))
	}

	c := Catalog{
		tiers:     make([]Tier, len(tiers)),
		byName:    make(map[string]int, len(tiers)),
		droppable: droppable,
	}
	for i, t := range tiers {
		if t.Name == "" {
			return Catalog{}, fmt.Errorf("%w: tier %d has no name", ErrInvalidTier, i)
		}
		if _, dup := c.byName[t.Name]; dup {
			return Catalog{}, fmt.Errorf("%w: duplicate name %q", ErrInvalidTier, t.Name)
		}
		if t.Radius <= 0 {
			return Catalog{}, fmt.Errorf("%w: %q radius %v", ErrInvalidTier, t.Name, t.Radius)
		}
		if t.Points < 0 {
			return Catalog{}, fmt.Errorf("%w: %q points %d", ErrInvalidTier, t.Name, t.Points)
		}
		if i > 0 {
			prev := c.tiers[i-1]
			if t.Radius <= prev.Radius {
				return Catalog{}, fmt.Errorf("%w: %q radius %v not larger than %q", ErrInvalidTier, t.Name, t.Radius, prev.Name)
			}
			if t.Points < prev.Points {
				return Catalog{}, fmt.Errorf("%w: %q points %d below %q", ErrInvalidTier, t.Name, t.Points, prev.Name)
			}
		}
		if t.Mass <= 0 {
			t.Mass = math.Pi * t.Radius * t.Radius / 1000
		}
		if t.Color == nil {
			t.Color = color.White
		}
		t.Index = i
		c.tiers[i] = t
		c.byName[t.Name] = i
	}
	return c, nil
}

// Len returns the number of tiers.
func (c Catalog) Len() int {
	return len(c.tiers)
}

// Tier returns the tier at index i.
func (c Catalog) Tier(i int) (Tier, bool) {
	if i < 0 || i >= len(c.tiers) {
		return Tier{}, false
	}
	return c.tiers[i], true
}

// Lookup finds a tier by name.
func (c Catalog) Lookup(name string) (Tier, bool) {
	i, ok := c.byName[name]
	if !ok {
		return Tier{}, false
	}
	return c.tiers[i], true
}

// Next returns the tier a merge of t produces. ok is false for the last tier.
func (c Catalog) Next(t Tier) (Tier, bool) {
	return c.Tier(t.Index + 1)
}

// Tiers returns a copy of every tier in order.
func (c Catalog) Tiers() []Tier {
	out := make([]Tier, len(c.tiers))
	copy(out, c.tiers)
	return out
}

// Droppable returns the tiers a spawn may produce.
func (c Catalog) Droppable() []Tier {
	out := make([]Tier, c.droppable)
	copy(out, c.tiers[:c.droppable])
	return out
}
