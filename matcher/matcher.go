// Package matcher aligns two minutiae templates by growing pairings from
// root correspondences over local edges, and scores the best alignment.
package matcher

import (
	"context"

	"github.com/high-horse/sourceafis/config"
	"github.com/high-horse/sourceafis/templates"
)

// ProbeIndex is a probe template with its precomputed neighborhoods. It is
// immutable and may be shared by any number of matchers and goroutines.
type ProbeIndex struct {
	Template  *templates.Template
	Neighbors *NeighborIndex
}

// Result describes the outcome of one comparison.
type Result struct {
	Score float64
	// BestRootIndex is the position of BestRoot in the root sequence, -1
	// when no root scored above 0.
	BestRootIndex int
	BestRoot      MinutiaPair
	TriedRoots    int
	Analysis      MatchAnalysis
}

// Option configures a Matcher.
type Option func(*Matcher)

// WithTransparency reports intermediate data to t.
func WithTransparency(t Transparency) Option {
	return func(m *Matcher) {
		if t != nil {
			m.transparency = t
		}
	}
}

// Matcher compares candidates against the selected probe. It holds working
// state for the comparison in progress, so one Matcher must not be used by
// two goroutines at once. Give each worker its own Matcher and share the
// ProbeIndex instead.
type Matcher struct {
	params       config.MatcherParameters
	roots        *RootSelector
	tolerance    edgeTolerance
	transparency Transparency

	probe      *ProbeIndex
	comparison *comparison
}

// New builds a Matcher. Out-of-range parameters are clamped.
func New(params config.MatcherParameters, opts ...Option) *Matcher {
	params = params.Clamped()
	m := &Matcher{
		params:       params,
		roots:        NewRootSelector(params.Roots),
		tolerance:    newEdgeTolerance(params.Edges),
		transparency: noTransparency{},
		comparison:   newComparison(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Parameters returns the clamped parameters in use.
func (m *Matcher) Parameters() config.MatcherParameters {
	return m.params
}

// CreateIndex precomputes the probe side. It does not change the selected probe.
func (m *Matcher) CreateIndex(probe *templates.Template) *ProbeIndex {
	if probe == nil {
		probe = &templates.Template{}
	}
	return &ProbeIndex{
		Template:  probe,
		Neighbors: NewNeighborIndex(probe, m.params.Neighbors),
	}
}

// SelectProbe makes probe the target of subsequent Match calls.
func (m *Matcher) SelectProbe(probe *ProbeIndex) {
	m.probe = probe
}

// Probe returns the selected probe, nil if none.
func (m *Matcher) Probe() *ProbeIndex {
	return m.probe
}

// Match returns the best score among the tried roots. It panics when no
// probe was selected. Cancellation is checked between roots; on
// cancellation the best score so far is returned along with ctx.Err().
func (m *Matcher) Match(ctx context.Context, candidate *templates.Template) (float64, error) {
	result, err := m.MatchDetailed(ctx, candidate)
	return result.Score, err
}

// MatchDetailed is Match with the winning root and its analysis.
func (m *Matcher) MatchDetailed(ctx context.Context, candidate *templates.Template) (Result, error) {
	if m.probe == nil {
		panic("matcher: no probe selected")
	}
	if candidate == nil {
		candidate = &templates.Template{}
	}
	candidateNeighbors := NewNeighborIndex(candidate, m.params.Neighbors)
	c := m.comparison
	c.prepare(m.probe, candidate, candidateNeighbors, m.tolerance)

	result := Result{BestRootIndex: -1}
	var bestPairs []PairInfo
	logPairing := m.transparency.Accepts(PairingKey)
	logRoots := m.transparency.Accepts(RootKey)

	for root := range m.roots.Roots(m.probe, candidate, candidateNeighbors) {
		if result.TriedRoots >= m.params.MaxTriedRoots {
			break
		}
		if err := ctx.Err(); err != nil {
			m.report(result, bestPairs)
			return result, err
		}
		pairing := c.grow(root)
		analysis := Analyze(pairing, m.probe.Template, candidate, m.params.Edges)
		score := Score(analysis, m.params.Scoring)
		if logRoots {
			m.transparency.Log(RootKey, RootRecord{Index: result.TriedRoots, Root: root, Score: score})
		}
		if score > result.Score {
			result.Score = score
			result.BestRoot = root
			result.BestRootIndex = result.TriedRoots
			result.Analysis = analysis
			if logPairing {
				bestPairs = append(bestPairs[:0], pairing.Pairs()...)
			}
		}
		result.TriedRoots++
	}
	m.report(result, bestPairs)
	return result, nil
}

func (m *Matcher) report(result Result, bestPairs []PairInfo) {
	t := m.transparency
	if t.Accepts(BestRootKey) {
		t.Log(BestRootKey, BestRootRecord{Index: result.BestRootIndex, Root: result.BestRoot, TriedRoots: result.TriedRoots})
	}
	if bestPairs != nil && t.Accepts(PairingKey) {
		t.Log(PairingKey, bestPairs)
	}
	if t.Accepts(AnalysisKey) {
		t.Log(AnalysisKey, result.Analysis)
	}
	if t.Accepts(ScoreKey) {
		t.Log(ScoreKey, result.Score)
	}
}
