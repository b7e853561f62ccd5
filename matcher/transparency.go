package matcher

// Keys under which the matcher reports intermediate data.
const (
	RootKey     = "root"
	PairingKey  = "pairing"
	AnalysisKey = "analysis"
	ScoreKey    = "score"
	BestRootKey = "best-root"
)

// Transparency receives intermediate matcher data. The matcher only builds
// the value for keys that Accepts approves. It must not alter matching.
type Transparency interface {
	Accepts(key string) bool
	Log(key string, value any)
}

type noTransparency struct{}

func (noTransparency) Accepts(string) bool { return false }
func (noTransparency) Log(string, any)     {}

// RootRecord is reported under RootKey for every tried root.
type RootRecord struct {
	Index int         `cbor:"index"`
	Root  MinutiaPair `cbor:"root"`
	Score float64     `cbor:"score"`
}

// BestRootRecord is reported under BestRootKey once per comparison.
type BestRootRecord struct {
	Index      int         `cbor:"index"`
	Root       MinutiaPair `cbor:"root"`
	TriedRoots int         `cbor:"tried_roots"`
}
