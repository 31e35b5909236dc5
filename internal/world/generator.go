package world

import (
	"math/rand"

	"sleighwatch/internal/logging"
)

// Predicate reports whether a candidate coordinate is a valid drop
// point. A nil predicate accepts everything.
type Predicate func(x, y float64) bool

const (
	// Candidates are drawn away from the extreme edges of the plane.
	genMin = 3.0
	genMax = 97.0

	// Attempt budget per requested waypoint. When a predicate is too
	// restrictive (or buggy) we stop validating instead of spinning
	// forever and fill the remaining slots unvalidated.
	attemptsPerWaypoint = 80
)

// Generate produces exactly count waypoints from a seeded stream, so a
// fixed seed yields the identical set on every run. Labels are
// sequential and every waypoint starts undelivered.
func Generate(count int, seed int64, valid Predicate) []*Waypoint {
	if count <= 0 {
		return nil
	}

	rng := rand.New(rand.NewSource(seed))
	wps := make([]*Waypoint, 0, count)

	budget := count * attemptsPerWaypoint
	for attempt := 0; attempt < budget && len(wps) < count; attempt++ {
		x := genMin + rng.Float64()*(genMax-genMin)
		y := genMin + rng.Float64()*(genMax-genMin)
		if valid != nil && !valid(x, y) {
			continue
		}
		wps = append(wps, newWaypoint(len(wps), x, y))
	}

	// Escape hatch: predicate exhausted the budget. Place the rest
	// unvalidated rather than failing startup.
	if len(wps) < count {
		logging.FlightWarn("waypoint generation exhausted %d attempts, placing %d of %d unvalidated",
			budget, count-len(wps), count)
		for len(wps) < count {
			x := genMin + rng.Float64()*(genMax-genMin)
			y := genMin + rng.Float64()*(genMax-genMin)
			wps = append(wps, newWaypoint(len(wps), x, y))
		}
	}

	return wps
}

func newWaypoint(idx int, x, y float64) *Waypoint {
	n := idx + 1
	return &Waypoint{
		ID:    waypointID(n),
		Label: labelFor(n),
		X:     x,
		Y:     y,
	}
}

var townNames = []string{
	"Holly Springs", "Tinselton", "Frostvale", "Garland Heights",
	"Mistlemoor", "Cocoa Harbor", "Everpine", "Sugarplum Flats",
	"Nutcracker Falls", "Gingerbrook", "Candlewick", "Snowcap City",
}

func labelFor(n int) string {
	name := townNames[(n-1)%len(townNames)]
	round := (n - 1) / len(townNames)
	if round == 0 {
		return name
	}
	// More waypoints than names: suffix keeps labels unique.
	return name + " " + romanNumeral(round+1)
}

func romanNumeral(n int) string {
	numerals := []string{"", "I", "II", "III", "IV", "V", "VI", "VII", "VIII", "IX", "X"}
	if n > 0 && n < len(numerals) {
		return numerals[n]
	}
	return "X+"
}
