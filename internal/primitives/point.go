package primitives

import "math"

// IntPoint is a pixel position.
type IntPoint struct {
	X int `cbor:"x"`
	Y int `cbor:"y"`
}

// Minus returns p-o.
func (p IntPoint) Minus(o IntPoint) IntPoint {
	return IntPoint{p.X - o.X, p.Y - o.Y}
}

// Plus returns p+o.
func (p IntPoint) Plus(o IntPoint) IntPoint {
	return IntPoint{p.X + o.X, p.Y + o.Y}
}

// LengthSq is the squared euclidean length. It stays exact in integers.
func (p IntPoint) LengthSq() int {
	return p.X*p.X + p.Y*p.Y
}

// Length is the euclidean length.
func (p IntPoint) Length() float64 {
	return math.Sqrt(float64(p.LengthSq()))
}
