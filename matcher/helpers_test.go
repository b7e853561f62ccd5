package matcher

import (
	"math"
	"math/rand"

	"github.com/high-horse/sourceafis/config"
	"github.com/high-horse/sourceafis/templates"
)

// randomTemplate scatters n minutiae at least 12px apart over a 300x300 area.
func randomTemplate(seed int64, n int) *templates.Template {
	r := rand.New(rand.NewSource(seed))
	minutiae := make([]templates.Minutia, 0, n)
	for len(minutiae) < n {
		x, y := 20+r.Intn(260), 20+r.Intn(260)
		crowded := false
		for _, m := range minutiae {
			dx, dy := m.Position.X-x, m.Position.Y-y
			if dx*dx+dy*dy < 12*12 {
				crowded = true
				break
			}
		}
		if crowded {
			continue
		}
		minutiae = append(minutiae, templates.NewMinutia(x, y, r.Float64()*2*math.Pi, templates.MinutiaType(r.Intn(2))))
	}
	return templates.New(300, 300, minutiae...)
}

// distorted jitters positions and directions, drops every fifth minutia and
// adds a few spurious ones, roughly what a second impression looks like.
func distorted(t *templates.Template, seed int64) *templates.Template {
	r := rand.New(rand.NewSource(seed))
	var minutiae []templates.Minutia
	for i, m := range t.Minutiae {
		if i%5 == 4 {
			continue
		}
		minutiae = append(minutiae, templates.NewMinutia(
			m.Position.X+r.Intn(5)-2,
			m.Position.Y+r.Intn(5)-2,
			m.Direction+(r.Float64()-0.5)*0.1,
			m.Type,
		))
	}
	spurious := randomTemplate(seed+1000, 3)
	minutiae = append(minutiae, spurious.Minutiae...)
	return templates.New(t.Width, t.Height, minutiae...)
}

// rotated turns the template by 90 degrees around the origin. Integer
// coordinates stay exact.
func rotated(t *templates.Template) *templates.Template {
	minutiae := make([]templates.Minutia, len(t.Minutiae))
	for i, m := range t.Minutiae {
		minutiae[i] = templates.NewMinutia(-m.Position.Y, m.Position.X, m.Direction+math.Pi/2, m.Type)
	}
	return templates.New(t.Height, t.Width, minutiae...)
}

// completeGraphParameters makes every minutia of a 300x300 template a
// neighbor of every other one.
func completeGraphParameters() config.MatcherParameters {
	p := config.DefaultMatcherParameters()
	p.Neighbors.MaxDistance = 500
	p.Neighbors.MaxNeighbors = 64
	return p
}

// perfectScore is the score of a template of n minutiae against itself.
func perfectScore(n int, s config.ScoringParameters) float64 {
	support := float64(min(n, s.PairCountSaturation)) / float64(s.PairCountSaturation)
	return s.PairCountWeight*support + s.PairFractionWeight +
		(s.CorrectTypeWeight+s.DistanceAccuracyWeight+s.AngleAccuracyWeight)*support
}

func newMatcherFor(params config.MatcherParameters, probe *templates.Template, opts ...Option) *Matcher {
	m := New(params, opts...)
	m.SelectProbe(m.CreateIndex(probe))
	return m
}

type recordingTransparency struct {
	keys   map[string]bool
	logged map[string][]any
}

func newRecordingTransparency(keys ...string) *recordingTransparency {
	r := &recordingTransparency{keys: map[string]bool{}, logged: map[string][]any{}}
	for _, k := range keys {
		r.keys[k] = true
	}
	return r
}

func (r *recordingTransparency) Accepts(key string) bool { return r.keys[key] }

func (r *recordingTransparency) Log(key string, value any) {
	r.logged[key] = append(r.logged[key], value)
}
