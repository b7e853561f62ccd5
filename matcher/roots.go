package matcher

import (
	"cmp"
	"iter"
	"slices"

	"github.com/high-horse/sourceafis/config"
	"github.com/high-horse/sourceafis/templates"
)

// MinutiaPair says probe minutia Probe corresponds to candidate minutia Candidate.
type MinutiaPair struct {
	Probe     int `cbor:"probe"`
	Candidate int `cbor:"candidate"`
}

// RootSelector enumerates the root pairs a comparison starts from. Each call
// to Roots starts a fresh sequence; nothing is carried between comparisons.
type RootSelector struct {
	requireTypeMatch bool
	order            config.RootOrder
}

func NewRootSelector(p config.RootParameters) *RootSelector {
	return &RootSelector{requireTypeMatch: p.RequireTypeMatch, order: p.Order}
}

// Roots yields probe×candidate pairs, probe-major. With density order both
// sides are first sorted by neighborhood size, largest first, ties by index.
// The sequence holds up to probe.Len()*candidate.Len() pairs; callers cap it.
func (s *RootSelector) Roots(probe *ProbeIndex, candidate *templates.Template, candidateNeighbors *NeighborIndex) iter.Seq[MinutiaPair] {
	probeOrder := identityOrder(probe.Template.Len())
	candidateOrder := identityOrder(candidate.Len())
	if s.order == config.DensityOrder {
		byDensity(probeOrder, probe.Neighbors)
		byDensity(candidateOrder, candidateNeighbors)
	}
	return func(yield func(MinutiaPair) bool) {
		for _, p := range probeOrder {
			probeType := probe.Template.Minutiae[p].Type
			for _, c := range candidateOrder {
				if s.requireTypeMatch && candidate.Minutiae[c].Type != probeType {
					continue
				}
				if !yield(MinutiaPair{Probe: p, Candidate: c}) {
					return
				}
			}
		}
	}
}

func identityOrder(n int) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	return order
}

func byDensity(order []int, neighbors *NeighborIndex) {
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(neighbors.Count(b), neighbors.Count(a))
	})
}
