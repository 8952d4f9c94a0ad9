package combat

import (
	"battlecode.ai/internal/sim/geom"
	"battlecode.ai/internal/sim/unit"
)

// Damage is what a target of the given type takes from an attack of strength
// attack. Only knights apply their defense; the result never goes negative.
func Damage(attack int, target unit.Type, defense int) int {
	if target == unit.Knight {
		attack -= defense
	}
	if attack < 0 {
		return 0
	}
	return attack
}

// InRange reports whether target lies in the ring (minRange, maxRange] around
// from, measured in squared distance. minRange 0 means no inner limit.
func InRange(from, target geom.MapLocation, minRange, maxRange int) bool {
	if from.Planet != target.Planet {
		return false
	}
	d := from.DistanceSquaredTo(target)
	if d > maxRange {
		return false
	}
	return minRange <= 0 || d > minRange
}

// Splash returns the squares within radiusSq of center that lie in bounds, the
// center first. A radius of 2 covers the center and its eight neighbors.
func Splash(center geom.MapLocation, radiusSq int, bounds geom.Rect) []geom.MapLocation {
	out := []geom.MapLocation{center}
	for _, l := range center.LocationsWithin(radiusSq, bounds) {
		if l != center {
			out = append(out, l)
		}
	}
	return out
}
