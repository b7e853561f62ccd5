package matcher

import (
	"github.com/high-horse/sourceafis/config"
	"github.com/high-horse/sourceafis/internal/primitives"
	"github.com/high-horse/sourceafis/templates"
)

// EdgeInfo describes an ordered pair of minutiae of one template. The angles
// are measured against the edge's own bearing, so the descriptor does not
// change when the whole template is rotated or shifted.
type EdgeInfo struct {
	Length         float64 `cbor:"length"`
	ReferenceAngle float64 `cbor:"reference_angle"`
	NeighborAngle  float64 `cbor:"neighbor_angle"`
}

// ConstructEdge builds the edge from minutia reference to minutia neighbor.
func ConstructEdge(t *templates.Template, reference, neighbor int) EdgeInfo {
	return edgeBetween(t.Minutiae[reference], t.Minutiae[neighbor])
}

func edgeBetween(reference, neighbor templates.Minutia) EdgeInfo {
	vector := neighbor.Position.Minus(reference.Position)
	bearing := primitives.Bearing(vector)
	return EdgeInfo{
		Length:         vector.Length(),
		ReferenceAngle: primitives.AngleDifference(reference.Direction, bearing),
		NeighborAngle:  primitives.AngleDifference(neighbor.Direction, primitives.OppositeAngle(bearing)),
	}
}

// edgeTolerance decides whether a probe edge and a candidate edge agree.
type edgeTolerance struct {
	maxLengthError float64
	maxAngleError  float64
}

func newEdgeTolerance(p config.EdgeParameters) edgeTolerance {
	return edgeTolerance{maxLengthError: p.MaxLengthError, maxAngleError: p.MaxAngleError}
}

// residual returns the length and angle deviation between two edges. The
// angle deviation is the worse of the two relative angles.
func residual(probe, candidate EdgeInfo) (lengthError, angleError float64) {
	lengthError = probe.Length - candidate.Length
	if lengthError < 0 {
		lengthError = -lengthError
	}
	angleError = max(
		primitives.AngleDistance(probe.ReferenceAngle, candidate.ReferenceAngle),
		primitives.AngleDistance(probe.NeighborAngle, candidate.NeighborAngle),
	)
	return lengthError, angleError
}

func (t edgeTolerance) matches(probe, candidate EdgeInfo) bool {
	lengthError, angleError := residual(probe, candidate)
	return lengthError <= t.maxLengthError && angleError <= t.maxAngleError
}
