package matcher

import "math"

// SavingsFor computes the material saved by joining two mitred ends at the
// given angle with the given (already side-resolved) thickness, per
// spec.md §4.1: savings(angle, thickness) = min(thickness/sin(angle), cap).
// At 0 or 90 degrees the gap is undefined/zero, so savings is 0.
func SavingsFor(angle, thickness, cap float64) float64 {
	if angle <= 0 || angle >= 90 {
		return 0
	}
	s := thickness / math.Sin(angle*math.Pi/180)
	if s > cap {
		return cap
	}
	return s
}

// anglePenalty is a small tie-break penalty proportional to how far the two
// matched angles are from each other, keeping exact matches ranked above
// bridged ones of otherwise similar savings.
func anglePenalty(angleDiff float64) float64 {
	return angleDiff * 0.1
}
