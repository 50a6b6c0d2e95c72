package system

import (
	"time"

	"github.com/milk9111/suika/ecs"
)

// Ticker advances on a fixed timestep.
type Ticker interface {
	Update(dt time.Duration)
}

// ClockSystem advances a Ticker by one frame per update. Each dt is derived
// from the tick count so that tps ticks always add up to one second.
type ClockSystem struct {
	target  Ticker
	tps     int64
	ticks   int64
	elapsed time.Duration
}

// NewClockSystem ticks target at tps updates per second.
func NewClockSystem(target Ticker, tps int) *ClockSystem {
	if tps <= 0 {
		tps = 60
	}
	return &ClockSystem{target: target, tps: int64(tps)}
}

func (c *ClockSystem) Update(w *ecs.World) {
	if c == nil || c.target == nil {
		return
	}
	c.ticks++
	now := time.Duration(c.ticks * int64(time.Second) / c.tps)
	dt := now - c.elapsed
	c.elapsed = now
	c.target.Update(dt)
}
