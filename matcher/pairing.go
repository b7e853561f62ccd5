package matcher

// PairInfo is an accepted pair together with the edge that confirmed it.
// The root has no reference and zero edges.
type PairInfo struct {
	Pair          MinutiaPair `cbor:"pair"`
	Reference     MinutiaPair `cbor:"reference"`
	ProbeEdge     EdgeInfo    `cbor:"probe_edge"`
	CandidateEdge EdgeInfo    `cbor:"candidate_edge"`
}

// Pairing is the correspondence grown from one root. Each probe and each
// candidate minutia appears in at most one pair. Pairs are append-only.
type Pairing struct {
	pairs            []PairInfo
	probeByCandidate []int
	candidateByProbe []int
}

// NewPairing allocates a pairing for templates of the given sizes.
func NewPairing(probeLen, candidateLen int) *Pairing {
	p := &Pairing{}
	p.Resize(probeLen, candidateLen)
	return p
}

// Resize prepares the pairing for a new template pair. It also resets.
func (p *Pairing) Resize(probeLen, candidateLen int) {
	p.candidateByProbe = fill(p.candidateByProbe, probeLen)
	p.probeByCandidate = fill(p.probeByCandidate, candidateLen)
	p.pairs = p.pairs[:0]
}

func fill(s []int, n int) []int {
	if cap(s) < n {
		s = make([]int, n)
	}
	s = s[:n]
	for i := range s {
		s[i] = -1
	}
	return s
}

// Reset empties the pairing, touching only the slots that were used.
func (p *Pairing) Reset() {
	for _, info := range p.pairs {
		p.candidateByProbe[info.Pair.Probe] = -1
		p.probeByCandidate[info.Pair.Candidate] = -1
	}
	p.pairs = p.pairs[:0]
}

// AddRoot seeds an empty pairing.
func (p *Pairing) AddRoot(root MinutiaPair) {
	p.Add(PairInfo{Pair: root, Reference: root})
}

// Add appends a pair. Adding a pair whose probe or candidate side is already
// paired is a programming error.
func (p *Pairing) Add(info PairInfo) {
	if p.IsProbePaired(info.Pair.Probe) || p.IsCandidatePaired(info.Pair.Candidate) {
		panic("matcher: minutia paired twice")
	}
	p.candidateByProbe[info.Pair.Probe] = info.Pair.Candidate
	p.probeByCandidate[info.Pair.Candidate] = info.Pair.Probe
	p.pairs = append(p.pairs, info)
}

// Count is the number of pairs.
func (p *Pairing) Count() int {
	return len(p.pairs)
}

// LastAdded returns the most recently added pair. The pairing must not be empty.
func (p *Pairing) LastAdded() PairInfo {
	return p.pairs[len(p.pairs)-1]
}

// Pair returns the i-th pair in insertion order.
func (p *Pairing) Pair(i int) PairInfo {
	return p.pairs[i]
}

// Pairs returns the pairs in insertion order. The slice must not be modified.
func (p *Pairing) Pairs() []PairInfo {
	return p.pairs
}

func (p *Pairing) IsProbePaired(probe int) bool {
	return p.candidateByProbe[probe] >= 0
}

func (p *Pairing) IsCandidatePaired(candidate int) bool {
	return p.probeByCandidate[candidate] >= 0
}

// CandidateOf returns the candidate paired with probe, or -1.
func (p *Pairing) CandidateOf(probe int) int {
	return p.candidateByProbe[probe]
}
