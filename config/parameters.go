package config

import (
	"errors"
	"fmt"
	"math"

	"github.com/high-horse/sourceafis/internal/primitives"
)

var (
	// ErrUnknownParameter is returned for a dotted path missing from the parameter table.
	ErrUnknownParameter = errors.New("unknown parameter")
)

// Parameter describes one tunable numeric field of MatcherParameters.
type Parameter struct {
	Path    string
	Lower   float64
	Upper   float64
	Integer bool

	get func(*MatcherParameters) float64
	set func(*MatcherParameters, float64)
}

func intParameter(path string, lower, upper int, field func(*MatcherParameters) *int) Parameter {
	return Parameter{
		Path:    path,
		Lower:   float64(lower),
		Upper:   float64(upper),
		Integer: true,
		get:     func(p *MatcherParameters) float64 { return float64(*field(p)) },
		set:     func(p *MatcherParameters, v float64) { *field(p) = int(math.Round(v)) },
	}
}

func floatParameter(path string, lower, upper float64, field func(*MatcherParameters) *float64) Parameter {
	return Parameter{
		Path:  path,
		Lower: lower,
		Upper: upper,
		get:   func(p *MatcherParameters) float64 { return *field(p) },
		set:   func(p *MatcherParameters, v float64) { *field(p) = v },
	}
}

// MaxTriedRootsCeiling is the hard upper bound on roots tried per comparison.
const MaxTriedRootsCeiling = 10000

var parameterTable = []Parameter{
	intParameter("Matcher.MaxTriedRoots", 1, MaxTriedRootsCeiling,
		func(p *MatcherParameters) *int { return &p.MaxTriedRoots }),
	intParameter("Matcher.Neighbors.MaxDistance", 10, 500,
		func(p *MatcherParameters) *int { return &p.Neighbors.MaxDistance }),
	intParameter("Matcher.Neighbors.MaxNeighbors", 1, 64,
		func(p *MatcherParameters) *int { return &p.Neighbors.MaxNeighbors }),
	floatParameter("Matcher.Edges.MaxLengthError", 0, 100,
		func(p *MatcherParameters) *float64 { return &p.Edges.MaxLengthError }),
	floatParameter("Matcher.Edges.MaxAngleError", 0, math.Pi,
		func(p *MatcherParameters) *float64 { return &p.Edges.MaxAngleError }),
	floatParameter("Matcher.Scoring.PairCountWeight", 0, 100,
		func(p *MatcherParameters) *float64 { return &p.Scoring.PairCountWeight }),
	floatParameter("Matcher.Scoring.PairFractionWeight", 0, 100,
		func(p *MatcherParameters) *float64 { return &p.Scoring.PairFractionWeight }),
	floatParameter("Matcher.Scoring.CorrectTypeWeight", 0, 100,
		func(p *MatcherParameters) *float64 { return &p.Scoring.CorrectTypeWeight }),
	floatParameter("Matcher.Scoring.DistanceAccuracyWeight", 0, 100,
		func(p *MatcherParameters) *float64 { return &p.Scoring.DistanceAccuracyWeight }),
	floatParameter("Matcher.Scoring.AngleAccuracyWeight", 0, 100,
		func(p *MatcherParameters) *float64 { return &p.Scoring.AngleAccuracyWeight }),
	intParameter("Matcher.Scoring.PairCountSaturation", 1, 1000,
		func(p *MatcherParameters) *int { return &p.Scoring.PairCountSaturation }),
}

var parameterIndex = func() map[string]int {
	index := make(map[string]int, len(parameterTable))
	for i, p := range parameterTable {
		if _, dup := index[p.Path]; dup {
			panic("config: duplicate parameter " + p.Path)
		}
		index[p.Path] = i
	}
	return index
}()

func (p Parameter) clamp(v float64) float64 {
	v = primitives.Clamp(v, p.Lower, p.Upper)
	if p.Integer {
		v = math.Round(v)
	}
	return v
}

// Clamped returns a copy with every tunable value inside its legal range.
func (p MatcherParameters) Clamped() MatcherParameters {
	for _, param := range parameterTable {
		param.set(&p, param.clamp(param.get(&p)))
	}
	if p.Roots.Order == "" {
		p.Roots.Order = ExhaustiveOrder
	}
	return p
}

// ParameterSet is a path-addressable view over MatcherParameters, used by
// external calibration tooling to mutate and diff parameter sets.
type ParameterSet struct {
	values MatcherParameters
}

// NewParameterSet copies params into a set, clamping them.
func NewParameterSet(params MatcherParameters) *ParameterSet {
	return &ParameterSet{values: params.Clamped()}
}

// Parameters returns a copy of the current values.
func (s *ParameterSet) Parameters() MatcherParameters {
	return s.values
}

// Paths lists every tunable path in table order.
func (s *ParameterSet) Paths() []string {
	paths := make([]string, len(parameterTable))
	for i, p := range parameterTable {
		paths[i] = p.Path
	}
	return paths
}

// Describe returns the declaration of the parameter at path.
func (s *ParameterSet) Describe(path string) (Parameter, error) {
	i, ok := parameterIndex[path]
	if !ok {
		return Parameter{}, fmt.Errorf("%w: %s", ErrUnknownParameter, path)
	}
	return parameterTable[i], nil
}

// Get reads the value at path.
func (s *ParameterSet) Get(path string) (float64, error) {
	p, err := s.Describe(path)
	if err != nil {
		return 0, err
	}
	return p.get(&s.values), nil
}

// Set writes the value at path, clamped to the declared range. It reports
// whether clamping changed the value.
func (s *ParameterSet) Set(path string, v float64) (clamped bool, err error) {
	p, err := s.Describe(path)
	if err != nil {
		return false, err
	}
	c := p.clamp(v)
	p.set(&s.values, c)
	return c != v, nil
}

// Clone returns an independent copy.
func (s *ParameterSet) Clone() *ParameterSet {
	return &ParameterSet{values: s.values}
}

// Difference lists the paths whose values differ from other, in table order.
func (s *ParameterSet) Difference(other *ParameterSet) []string {
	var diff []string
	for _, p := range parameterTable {
		if p.get(&s.values) != p.get(&other.values) {
			diff = append(diff, p.Path)
		}
	}
	return diff
}

// Clamp moves every value into its declared range and returns the paths
// that changed.
func (s *ParameterSet) Clamp() []string {
	before := s.values
	s.values = s.values.Clamped()
	return (&ParameterSet{values: before}).Difference(s)
}

// Replace overwrites the values without clamping. Call Clamp before use.
func (s *ParameterSet) Replace(params MatcherParameters) {
	s.values = params
}
