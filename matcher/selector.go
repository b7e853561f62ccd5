package matcher

import (
	"cmp"

	"github.com/emirpasic/gods/trees/binaryheap"
)

type pendingPair struct {
	info        PairInfo
	lengthError float64
	angleError  float64
	seq         uint64
}

// comparePending orders by candidate edge length, then by how well the two
// edges agree, then by insertion. The last key makes the order total.
func comparePending(a, b interface{}) int {
	x := a.(*pendingPair)
	y := b.(*pendingPair)
	if c := cmp.Compare(x.info.CandidateEdge.Length, y.info.CandidateEdge.Length); c != 0 {
		return c
	}
	if c := cmp.Compare(x.lengthError, y.lengthError); c != 0 {
		return c
	}
	if c := cmp.Compare(x.angleError, y.angleError); c != 0 {
		return c
	}
	return cmp.Compare(x.seq, y.seq)
}

// PairSelector is a min-heap of pairs waiting to be added to a pairing.
// Entries that became stale are dropped when they reach the top.
type PairSelector struct {
	heap *binaryheap.Heap
	seq  uint64
}

func NewPairSelector() *PairSelector {
	return &PairSelector{heap: binaryheap.NewWith(comparePending)}
}

// Enqueue schedules info, keyed by its candidate edge length.
func (s *PairSelector) Enqueue(info PairInfo) {
	lengthError, angleError := residual(info.ProbeEdge, info.CandidateEdge)
	s.seq++
	s.heap.Push(&pendingPair{info: info, lengthError: lengthError, angleError: angleError, seq: s.seq})
}

// SkipPaired drops entries from the top whose probe or candidate minutia is
// already in pairing.
func (s *PairSelector) SkipPaired(pairing *Pairing) {
	for {
		top, ok := s.heap.Peek()
		if !ok {
			return
		}
		pair := top.(*pendingPair).info.Pair
		if !pairing.IsProbePaired(pair.Probe) && !pairing.IsCandidatePaired(pair.Candidate) {
			return
		}
		s.heap.Pop()
	}
}

// Dequeue removes the entry with the shortest candidate edge.
func (s *PairSelector) Dequeue() (PairInfo, bool) {
	top, ok := s.heap.Pop()
	if !ok {
		return PairInfo{}, false
	}
	return top.(*pendingPair).info, true
}

func (s *PairSelector) Len() int {
	return s.heap.Size()
}

func (s *PairSelector) Clear() {
	s.heap.Clear()
	s.seq = 0
}
