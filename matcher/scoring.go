package matcher

import (
	"github.com/high-horse/sourceafis/config"
	"github.com/high-horse/sourceafis/internal/primitives"
)

// MaxScore is the upper bound of Score. Callers divide by it to get a
// similarity in [0, 1].
const MaxScore = 100

// Score turns an analysis into a value in [0, MaxScore]. A pairing without
// supported pairs scores exactly 0. Type and accuracy terms are scaled by
// the saturated pair count so that a couple of lucky pairs cannot collect
// them in full.
func Score(a MatchAnalysis, p config.ScoringParameters) float64 {
	if a.SupportedCount == 0 {
		return 0
	}
	saturation := max(p.PairCountSaturation, 1)
	support := float64(min(a.SupportedCount, saturation)) / float64(saturation)

	score := p.PairCountWeight * support
	score += p.PairFractionWeight * a.PairFraction
	quality := p.CorrectTypeWeight * float64(a.CorrectTypeCount) / float64(a.SupportedCount)
	quality += p.DistanceAccuracyWeight * a.DistanceAccuracy
	quality += p.AngleAccuracyWeight * a.AngleAccuracy
	score += quality * support
	return primitives.Clamp(score, 0, MaxScore)
}
