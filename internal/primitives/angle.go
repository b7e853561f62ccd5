// Package primitives holds the small geometric helpers shared by the
// template model and the matcher.
package primitives

import "math"

const (
	// Pi2 is a full turn in radians.
	Pi2 = 2 * math.Pi
)

// NormalizeAngle maps any finite angle into [0, 2π).
func NormalizeAngle(angle float64) float64 {
	angle = math.Mod(angle, Pi2)
	if angle < 0 {
		angle += Pi2
	}
	// math.Mod of a tiny negative value can round up to exactly 2π.
	if angle >= Pi2 {
		angle = 0
	}
	return angle
}

// AngleDifference returns first-second normalized into [0, 2π).
func AngleDifference(first, second float64) float64 {
	return NormalizeAngle(first - second)
}

// AngleDistance returns the unsigned shortest angular distance in [0, π].
func AngleDistance(first, second float64) float64 {
	delta := AngleDifference(first, second)
	if delta > math.Pi {
		return Pi2 - delta
	}
	return delta
}

// OppositeAngle rotates the angle by half a turn.
func OppositeAngle(angle float64) float64 {
	return NormalizeAngle(angle + math.Pi)
}

// Bearing is the direction of the vector in [0, 2π).
func Bearing(v IntPoint) float64 {
	return NormalizeAngle(math.Atan2(float64(v.Y), float64(v.X)))
}
