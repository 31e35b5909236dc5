// Package world owns the delivery map: the waypoint set and the land
// predicate used to place it. Coordinates live in a normalized
// [0,100]x[0,100] plane; y grows downward, matching the screen.
package world

import "fmt"

// Waypoint is a single deliverable stop on the map. Created once at
// startup; only the autopilot flips Delivered, and only false->true.
type Waypoint struct {
	ID        string
	Label     string
	X, Y      float64
	Delivered bool
}

func waypointID(n int) string {
	return fmt.Sprintf("wp-%d", n)
}

// Undelivered returns the waypoints still awaiting delivery.
func Undelivered(wps []*Waypoint) []*Waypoint {
	out := make([]*Waypoint, 0, len(wps))
	for _, wp := range wps {
		if !wp.Delivered {
			out = append(out, wp)
		}
	}
	return out
}

// ByID resolves a waypoint by its stable identifier.
func ByID(wps []*Waypoint, id string) *Waypoint {
	for _, wp := range wps {
		if wp.ID == id {
			return wp
		}
	}
	return nil
}
