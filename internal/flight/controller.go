// Package flight implements the sleigh autopilot: per-tick movement
// toward a randomly chosen undelivered waypoint, arrival detection, and
// full suspension while a compliance event is active.
package flight

import (
	"math"
	"math/rand"
	"time"

	"sleighwatch/internal/feed"
	"sleighwatch/internal/logging"
	"sleighwatch/internal/world"
)

// Position is the sleigh's coordinate in the normalized plane, clamped
// to [1,99] on both axes at all times.
type Position struct {
	X, Y float64
}

// Params are the autopilot tunables.
type Params struct {
	Speed         float64       // plane units per second
	ArrivalRadius float64       // plane units
	MaxTickStep   time.Duration // dt clamp against stalls
	StartX        float64
	StartY        float64
}

// DefaultParams returns the stock tuning.
func DefaultParams() Params {
	return Params{
		Speed:         22,
		ArrivalRadius: 1.4,
		MaxTickStep:   50 * time.Millisecond,
		StartX:        50,
		StartY:        8, // launch just south of the pole
	}
}

const (
	boundMin = 1.0
	boundMax = 99.0
)

// Controller owns the sleigh position and the current target. It runs
// once per animation frame on the owning loop; it never blocks and
// never performs I/O. Target selection uses an unseeded source on
// purpose: routes should differ between runs even though the waypoint
// set does not.
type Controller struct {
	pos       Position
	targetID  string // empty when idle
	waypoints []*world.Waypoint
	suspended bool
	params    Params
	rng       *rand.Rand
	feed      *feed.Feed
}

// New returns a controller at the configured start position.
func New(waypoints []*world.Waypoint, f *feed.Feed, p Params) *Controller {
	if p.Speed <= 0 {
		p.Speed = DefaultParams().Speed
	}
	if p.ArrivalRadius <= 0 {
		p.ArrivalRadius = DefaultParams().ArrivalRadius
	}
	if p.MaxTickStep <= 0 {
		p.MaxTickStep = DefaultParams().MaxTickStep
	}
	return &Controller{
		pos:       Position{X: clamp(p.StartX), Y: clamp(p.StartY)},
		waypoints: waypoints,
		params:    p,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		feed:      f,
	}
}

// Position returns the current sleigh position.
func (c *Controller) Position() Position { return c.pos }

// TargetID returns the currently pursued waypoint id, or "".
func (c *Controller) TargetID() string { return c.targetID }

// Waypoints returns the controller's waypoint collection.
func (c *Controller) Waypoints() []*world.Waypoint { return c.waypoints }

// Remaining counts undelivered waypoints.
func (c *Controller) Remaining() int {
	n := 0
	for _, wp := range c.waypoints {
		if !wp.Delivered {
			n++
		}
	}
	return n
}

// SetSuspended publishes the compliance gate. The next Tick reads the
// latest value; nothing is cached across ticks.
func (c *Controller) SetSuspended(v bool) { c.suspended = v }

// Suspended reports the current gate value.
func (c *Controller) Suspended() bool { return c.suspended }

// Tick advances the autopilot by dt. While suspended the tick is a full
// no-op: no movement and no target re-evaluation.
func (c *Controller) Tick(dt time.Duration) {
	if c.suspended {
		return
	}
	if dt > c.params.MaxTickStep {
		dt = c.params.MaxTickStep
	}
	if dt <= 0 {
		return
	}

	if c.targetID == "" {
		if !c.selectTarget() {
			return
		}
	}

	target := world.ByID(c.waypoints, c.targetID)
	if target == nil || target.Delivered {
		// Stale target: clear and reselect on the next tick.
		logging.FlightWarn("stale target %s cleared", c.targetID)
		c.targetID = ""
		return
	}

	dx := target.X - c.pos.X
	dy := target.Y - c.pos.Y
	dist := math.Hypot(dx, dy)

	if dist < c.params.ArrivalRadius {
		target.Delivered = true
		c.targetID = ""
		c.feed.Addf("🎁 Delivered to %s (%d stops remaining)", target.Label, c.Remaining())
		logging.Flight("delivered id=%s remaining=%d", target.ID, c.Remaining())
		return
	}

	step := c.params.Speed * dt.Seconds()
	c.pos.X = clamp(c.pos.X + dx/dist*step)
	c.pos.Y = clamp(c.pos.Y + dy/dist*step)
}

// selectTarget picks uniformly at random among undelivered waypoints.
// Returns false when every waypoint has been delivered.
func (c *Controller) selectTarget() bool {
	undelivered := world.Undelivered(c.waypoints)
	if len(undelivered) == 0 {
		return false
	}
	wp := undelivered[c.rng.Intn(len(undelivered))]
	c.targetID = wp.ID
	c.feed.Addf("Autopilot locked on %s (%d stops remaining)", wp.Label, len(undelivered))
	logging.Flight("target selected id=%s remaining=%d", wp.ID, len(undelivered))
	return true
}

func clamp(v float64) float64 {
	return math.Min(boundMax, math.Max(boundMin, v))
}
