// Package templates defines the in-memory minutiae model consumed by the
// matcher and its serialized blob form.
package templates

import (
	"fmt"

	"github.com/high-horse/sourceafis/internal/primitives"
)

// MinutiaType distinguishes ridge endings from bifurcations.
type MinutiaType int

const (
	Ending MinutiaType = iota
	Bifurcation
)

func (t MinutiaType) String() string {
	switch t {
	case Ending:
		return "ending"
	case Bifurcation:
		return "bifurcation"
	default:
		return fmt.Sprintf("MinutiaType(%d)", int(t))
	}
}

// Valid reports whether t is one of the known types.
func (t MinutiaType) Valid() bool {
	return t == Ending || t == Bifurcation
}

// Minutia is a single ridge feature. Direction is in radians, [0, 2π).
type Minutia struct {
	Position  primitives.IntPoint
	Direction float64
	Type      MinutiaType
}

// NewMinutia builds a minutia with its direction normalized.
func NewMinutia(x, y int, direction float64, t MinutiaType) Minutia {
	return Minutia{
		Position:  primitives.IntPoint{X: x, Y: y},
		Direction: primitives.NormalizeAngle(direction),
		Type:      t,
	}
}

// Template is the ordered minutiae list of one fingerprint. The order is
// only an index space. Templates are read-only once handed to the matcher.
type Template struct {
	Width    int
	Height   int
	Minutiae []Minutia
}

// New wraps minutiae into a template.
func New(width, height int, minutiae ...Minutia) *Template {
	return &Template{Width: width, Height: height, Minutiae: minutiae}
}

// Len returns the number of minutiae.
func (t *Template) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Minutiae)
}

// Translate returns a copy shifted by (dx, dy).
func (t *Template) Translate(dx, dy int) *Template {
	shifted := make([]Minutia, len(t.Minutiae))
	for i, m := range t.Minutiae {
		m.Position = m.Position.Plus(primitives.IntPoint{X: dx, Y: dy})
		shifted[i] = m
	}
	return &Template{Width: t.Width, Height: t.Height, Minutiae: shifted}
}
