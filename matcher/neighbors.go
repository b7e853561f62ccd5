package matcher

import (
	"cmp"
	"iter"
	"slices"
	"sort"

	"github.com/high-horse/sourceafis/config"
	"github.com/high-horse/sourceafis/templates"
)

// Neighbor is one entry of a minutia's neighborhood.
type Neighbor struct {
	Index int
	Edge  EdgeInfo
}

// NeighborIndex lists, for every minutia of a template, the nearby minutiae
// in ascending distance. Equidistant neighbors are ordered by index so the
// index is a pure function of the template geometry.
type NeighborIndex struct {
	neighbors [][]Neighbor
}

// NewNeighborIndex keeps at most MaxNeighbors minutiae within MaxDistance
// of each minutia.
func NewNeighborIndex(t *templates.Template, p config.NeighborParameters) *NeighborIndex {
	n := t.Len()
	maxDistanceSq := p.MaxDistance * p.MaxDistance
	index := &NeighborIndex{neighbors: make([][]Neighbor, n)}

	type near struct {
		index      int
		distanceSq int
	}
	scratch := make([]near, 0, n)
	for i := 0; i < n; i++ {
		scratch = scratch[:0]
		origin := t.Minutiae[i].Position
		for j := 0; j < n; j++ {
			if j == i {
				continue
			}
			d := t.Minutiae[j].Position.Minus(origin).LengthSq()
			if d <= maxDistanceSq {
				scratch = append(scratch, near{j, d})
			}
		}
		slices.SortFunc(scratch, func(a, b near) int {
			if c := cmp.Compare(a.distanceSq, b.distanceSq); c != 0 {
				return c
			}
			return cmp.Compare(a.index, b.index)
		})
		if len(scratch) > p.MaxNeighbors {
			scratch = scratch[:p.MaxNeighbors]
		}
		list := make([]Neighbor, len(scratch))
		for k, s := range scratch {
			list[k] = Neighbor{Index: s.index, Edge: ConstructEdge(t, i, s.index)}
		}
		index.neighbors[i] = list
	}
	return index
}

// Len is the number of minutiae covered.
func (x *NeighborIndex) Len() int {
	return len(x.neighbors)
}

// Neighbors returns the neighborhood of minutia i. The slice must not be modified.
func (x *NeighborIndex) Neighbors(i int) []Neighbor {
	return x.neighbors[i]
}

// Count returns the neighborhood size of minutia i.
func (x *NeighborIndex) Count(i int) int {
	return len(x.neighbors[i])
}

// matchingNeighbors yields the neighbors of minutia i whose edge agrees with
// candidateEdge within tolerance, shortest first. The neighbor lists are
// sorted by distance, which is also edge length, so the length window is
// found by binary search.
func (x *NeighborIndex) matchingNeighbors(i int, candidateEdge EdgeInfo, tolerance edgeTolerance) iter.Seq[Neighbor] {
	return func(yield func(Neighbor) bool) {
		list := x.neighbors[i]
		lower := candidateEdge.Length - tolerance.maxLengthError
		start := sort.Search(len(list), func(k int) bool { return list[k].Edge.Length >= lower })
		upper := candidateEdge.Length + tolerance.maxLengthError
		for _, n := range list[start:] {
			if n.Edge.Length > upper {
				return
			}
			if tolerance.matches(n.Edge, candidateEdge) && !yield(n) {
				return
			}
		}
	}
}
