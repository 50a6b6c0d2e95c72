package fruit

import (
	"math/rand/v2"
)

// DefaultMaxAttempts bounds the rejection sampling in Selector.Pick.
const DefaultMaxAttempts = 8

// Picker returns an index in [0, n).
type Picker interface {
	Pick(n int) int
}

// RandPicker draws uniformly from a seeded PCG source.
type RandPicker struct {
	rng *rand.Rand
}

func NewRandPicker(seed uint64) *RandPicker {
	return &RandPicker{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (p *RandPicker) Pick(n int) int {
	if n <= 1 {
		return 0
	}
	return p.rng.IntN(n)
}

// Selector hands out the next droppable tier, never repeating the previous
// one when at least two droppable tiers exist.
type Selector struct {
	tiers       []Tier
	picker      Picker
	maxAttempts int
}

func NewSelector(c Catalog, picker Picker, maxAttempts int) *Selector {
	if picker == nil {
		picker = NewRandPicker(0)
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Selector{tiers: c.Droppable(), picker: picker, maxAttempts: maxAttempts}
}

// Pick samples a droppable tier whose name differs from exclude. After
// maxAttempts rejected draws it picks among the remaining tiers directly.
func (s *Selector) Pick(exclude string) Tier {
	n := len(s.tiers)
	if n == 1 {
		return s.tiers[0]
	}

	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		t := s.tiers[s.pick(n)]
		if t.Name != exclude {
			return t
		}
	}

	rest := make([]Tier, 0, n)
	for _, t := range s.tiers {
		if t.Name != exclude {
			rest = append(rest, t)
		}
	}
	return rest[s.pick(len(rest))]
}

func (s *Selector) pick(n int) int {
	i := s.picker.Pick(n)
	if i < 0 || i >= n {
		return 0
	}
	return i
}
