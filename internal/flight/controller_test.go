package flight

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sleighwatch/internal/feed"
	"sleighwatch/internal/world"
)

const tick = 33 * time.Millisecond

func newTestController(count int) *Controller {
	wps := world.Generate(count, 7, nil)
	return New(wps, feed.New(50), DefaultParams())
}

func TestPositionStaysInBounds(t *testing.T) {
	c := newTestController(10)
	for i := 0; i < 5000; i++ {
		c.Tick(tick)
		pos := c.Position()
		require.GreaterOrEqual(t, pos.X, 1.0)
		require.LessOrEqual(t, pos.X, 99.0)
		require.GreaterOrEqual(t, pos.Y, 1.0)
		require.LessOrEqual(t, pos.Y, 99.0)
	}
}

func TestStartPositionClamped(t *testing.T) {
	p := DefaultParams()
	p.StartX, p.StartY = -40, 400
	c := New(world.Generate(1, 1, nil), nil, p)
	assert.Equal(t, Position{X: 1, Y: 99}, c.Position())
}

func TestDtClampedAgainstStalls(t *testing.T) {
	c := newTestController(1)
	c.Tick(tick) // acquire target
	before := c.Position()
	c.Tick(10 * time.Second) // e.g. the host was suspended
	after := c.Position()

	dx := after.X - before.X
	dy := after.Y - before.Y
	maxStep := DefaultParams().Speed * DefaultParams().MaxTickStep.Seconds()
	assert.LessOrEqual(t, dx*dx+dy*dy, maxStep*maxStep*1.0001)
}

func TestSuspensionFreezesEverything(t *testing.T) {
	c := newTestController(5)
	c.Tick(tick)
	target := c.TargetID()
	require.NotEmpty(t, target)

	c.SetSuspended(true)
	pos := c.Position()
	for i := 0; i < 100; i++ {
		c.Tick(tick)
		assert.Equal(t, pos, c.Position(), "position must not change while suspended")
		assert.Equal(t, target, c.TargetID(), "target must not be re-evaluated while suspended")
	}

	c.SetSuspended(false)
	c.Tick(tick)
	moved := c.Position() != pos
	arrived := c.TargetID() == "" // target was already inside the arrival radius
	assert.True(t, moved || arrived, "autopilot resumes once the gate clears")
}

func TestDeliveredFlagFlipsOnce(t *testing.T) {
	c := newTestController(5)
	flips := make(map[string]int)
	delivered := make(map[string]bool)

	for i := 0; i < 200000 && c.Remaining() > 0; i++ {
		c.Tick(tick)
		for _, wp := range c.Waypoints() {
			if wp.Delivered && !delivered[wp.ID] {
				delivered[wp.ID] = true
				flips[wp.ID]++
			}
			if !wp.Delivered && delivered[wp.ID] {
				t.Fatalf("waypoint %s reverted to undelivered", wp.ID)
			}
		}
	}

	for id, n := range flips {
		assert.Equal(t, 1, n, "waypoint %s delivered more than once", id)
	}
}

func TestNeverTargetsDeliveredWaypoint(t *testing.T) {
	c := newTestController(6)
	for i := 0; i < 200000 && c.Remaining() > 0; i++ {
		c.Tick(tick)
		if id := c.TargetID(); id != "" {
			wp := world.ByID(c.Waypoints(), id)
			require.NotNil(t, wp)
			require.False(t, wp.Delivered, "targeting delivered waypoint %s", id)
		}
	}
}

func TestStaleTargetRecovery(t *testing.T) {
	c := newTestController(3)
	c.Tick(tick)
	id := c.TargetID()
	require.NotEmpty(t, id)

	// Deliver the target out from under the controller.
	world.ByID(c.Waypoints(), id).Delivered = true

	c.Tick(tick)
	assert.Empty(t, c.TargetID(), "stale target must be cleared, not chased")

	c.Tick(tick)
	next := c.TargetID()
	assert.NotEmpty(t, next)
	assert.NotEqual(t, id, next)
}

func TestRunToCompletion(t *testing.T) {
	c := newTestController(5)

	for i := 0; i < 500000 && c.Remaining() > 0; i++ {
		c.Tick(tick)
	}

	assert.Zero(t, c.Remaining(), "all deliveries should complete")
	for _, wp := range c.Waypoints() {
		assert.True(t, wp.Delivered, "waypoint %s not delivered", wp.ID)
	}
	assert.Empty(t, c.TargetID())

	// Further ticks are harmless with nothing left to do.
	pos := c.Position()
	c.Tick(tick)
	assert.Equal(t, pos, c.Position())
}

func TestZeroAndNegativeDt(t *testing.T) {
	c := newTestController(2)
	c.Tick(tick)
	pos := c.Position()
	c.Tick(0)
	c.Tick(-time.Second)
	assert.Equal(t, pos, c.Position())
}
