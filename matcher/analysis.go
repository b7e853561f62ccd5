package matcher

import (
	"github.com/high-horse/sourceafis/config"
	"github.com/high-horse/sourceafis/internal/primitives"
	"github.com/high-horse/sourceafis/templates"
)

// MatchAnalysis summarizes a completed pairing.
type MatchAnalysis struct {
	PairCount int `cbor:"pair_count"`
	// SupportedCount counts pairs confirmed by at least one edge. A lone
	// root is not supported.
	SupportedCount   int     `cbor:"supported_count"`
	CorrectTypeCount int     `cbor:"correct_type_count"`
	EdgeCount        int     `cbor:"edge_count"`
	PairFraction     float64 `cbor:"pair_fraction"`

	DistanceErrorSum float64 `cbor:"distance_error_sum"`
	AngleErrorSum    float64 `cbor:"angle_error_sum"`
	MaxDistanceError float64 `cbor:"max_distance_error"`
	MaxAngleError    float64 `cbor:"max_angle_error"`

	DistanceAccuracy float64 `cbor:"distance_accuracy"`
	AngleAccuracy    float64 `cbor:"angle_accuracy"`
}

// Analyze computes the statistics of pairing between probe and candidate.
// It does not modify its inputs.
func Analyze(pairing *Pairing, probe, candidate *templates.Template, tolerance config.EdgeParameters) MatchAnalysis {
	var a MatchAnalysis
	a.PairCount = pairing.Count()
	if a.PairCount >= 2 {
		a.SupportedCount = a.PairCount
	}
	a.EdgeCount = max(a.PairCount-1, 0)

	if a.SupportedCount > 0 {
		for _, info := range pairing.Pairs() {
			if probe.Minutiae[info.Pair.Probe].Type == candidate.Minutiae[info.Pair.Candidate].Type {
				a.CorrectTypeCount++
			}
		}
		a.PairFraction = (float64(a.SupportedCount)/float64(probe.Len()) +
			float64(a.SupportedCount)/float64(candidate.Len())) / 2
	}

	for _, info := range pairing.Pairs()[min(1, a.PairCount):] {
		lengthError, angleError := residual(info.ProbeEdge, info.CandidateEdge)
		a.DistanceErrorSum += lengthError
		a.AngleErrorSum += angleError
		a.MaxDistanceError = max(a.MaxDistanceError, lengthError)
		a.MaxAngleError = max(a.MaxAngleError, angleError)
	}

	if a.EdgeCount > 0 {
		a.DistanceAccuracy = accuracy(a.DistanceErrorSum, tolerance.MaxLengthError, a.EdgeCount)
		a.AngleAccuracy = accuracy(a.AngleErrorSum, tolerance.MaxAngleError, a.EdgeCount)
	}
	return a
}

// accuracy maps an error sum to [0, 1], 1 being error free. Every accepted
// edge is within tolerance, so the sum never exceeds tolerance*edges.
func accuracy(errorSum, tolerance float64, edges int) float64 {
	budget := tolerance * float64(edges)
	if budget <= 0 {
		return 1
	}
	return primitives.Clamp(1-errorSum/budget, 0, 1)
}
