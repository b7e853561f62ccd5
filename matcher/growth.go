package matcher

import "github.com/high-horse/sourceafis/templates"

// comparison is the mutable state of one Match call. It belongs to exactly
// one Matcher and is reused between calls.
type comparison struct {
	probe              *ProbeIndex
	candidate          *templates.Template
	candidateNeighbors *NeighborIndex
	tolerance          edgeTolerance

	pairing  *Pairing
	selector *PairSelector

	// observe, when set, sees the pairing after every accepted pair.
	observe func(*Pairing)
}

func newComparison() *comparison {
	return &comparison{
		pairing:  NewPairing(0, 0),
		selector: NewPairSelector(),
	}
}

func (c *comparison) prepare(probe *ProbeIndex, candidate *templates.Template, candidateNeighbors *NeighborIndex, tolerance edgeTolerance) {
	c.probe = probe
	c.candidate = candidate
	c.candidateNeighbors = candidateNeighbors
	c.tolerance = tolerance
	c.pairing.Resize(probe.Template.Len(), candidate.Len())
	c.selector.Clear()
}

// grow builds the pairing from root. Growth is greedy: the shortest pending
// candidate edge whose minutiae are both still free is accepted, and the
// neighborhood of the newly accepted pair is explored next.
func (c *comparison) grow(root MinutiaPair) *Pairing {
	c.pairing.Reset()
	c.selector.Clear()
	c.pairing.AddRoot(root)
	if c.observe != nil {
		c.observe(c.pairing)
	}
	for {
		c.collectEdges()
		c.selector.SkipPaired(c.pairing)
		next, ok := c.selector.Dequeue()
		if !ok {
			break
		}
		c.pairing.Add(next)
		if c.observe != nil {
			c.observe(c.pairing)
		}
	}
	return c.pairing
}

// collectEdges enqueues every pair reachable from the last added pair over a
// candidate edge that has a matching probe edge.
func (c *comparison) collectEdges() {
	reference := c.pairing.LastAdded().Pair
	for _, candidateNeighbor := range c.candidateNeighbors.Neighbors(reference.Candidate) {
		if c.pairing.IsCandidatePaired(candidateNeighbor.Index) {
			continue
		}
		for probeNeighbor := range c.probe.Neighbors.matchingNeighbors(reference.Probe, candidateNeighbor.Edge, c.tolerance) {
			if c.pairing.IsProbePaired(probeNeighbor.Index) {
				continue
			}
			c.selector.Enqueue(PairInfo{
				Pair:          MinutiaPair{Probe: probeNeighbor.Index, Candidate: candidateNeighbor.Index},
				Reference:     reference,
				ProbeEdge:     probeNeighbor.Edge,
				CandidateEdge: candidateNeighbor.Edge,
			})
		}
	}
}
