package primitives

import "golang.org/x/exp/constraints"

// Clamp limits v to [lower, upper]. NaN float input is mapped to lower.
func Clamp[T constraints.Integer | constraints.Float](v, lower, upper T) T {
	if v != v {
		return lower
	}
	if v < lower {
		return lower
	}
	if v > upper {
		return upper
	}
	return v
}
