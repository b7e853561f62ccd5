package matcher

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/high-horse/sourceafis/config"
	"github.com/high-horse/sourceafis/templates"
)

func TestMatchWithoutProbePanics(t *testing.T) {
	m := New(config.DefaultMatcherParameters())
	assert.PanicsWithValue(t, "matcher: no probe selected", func() {
		_, _ = m.Match(context.Background(), randomTemplate(1, 5))
	})
}

func TestCreateIndexDoesNotSelect(t *testing.T) {
	m := New(config.DefaultMatcherParameters())
	first := m.CreateIndex(randomTemplate(1, 5))
	m.SelectProbe(first)
	_ = m.CreateIndex(randomTemplate(2, 5))
	assert.Same(t, first, m.Probe())
}

func TestSelfMatch(t *testing.T) {
	params := completeGraphParameters()
	for _, n := range []int{2, 5, 12, 30} {
		tpl := randomTemplate(int64(n), n)
		m := newMatcherFor(params, tpl)
		result, err := m.MatchDetailed(context.Background(), tpl)
		require.NoError(t, err)

		assert.InDelta(t, perfectScore(n, params.Scoring), result.Score, 1e-9, "n=%d", n)
		assert.Equal(t, n, result.Analysis.PairCount)
		assert.Equal(t, n, result.Analysis.SupportedCount)
		assert.Equal(t, n, result.Analysis.CorrectTypeCount)
		assert.Zero(t, result.Analysis.DistanceErrorSum)
		assert.Zero(t, result.Analysis.AngleErrorSum)
		assert.Equal(t, MinutiaPair{0, 0}, result.BestRoot)
		assert.Equal(t, 0, result.BestRootIndex)
	}
}

func TestSelfMatchIsMaximal(t *testing.T) {
	params := config.DefaultMatcherParameters()
	tpl := randomTemplate(21, 25)
	m := newMatcherFor(params, tpl)
	ctx := context.Background()

	self, err := m.Match(ctx, tpl)
	require.NoError(t, err)
	for seed := int64(0); seed < 5; seed++ {
		other, err := m.Match(ctx, distorted(tpl, seed))
		require.NoError(t, err)
		assert.LessOrEqual(t, other, self)
		unrelated, err := m.Match(ctx, randomTemplate(100+seed, 25))
		require.NoError(t, err)
		assert.Less(t, unrelated, self)
	}
}

func TestTranslationScenario(t *testing.T) {
	probe := templates.New(100, 100,
		templates.NewMinutia(10, 10, 0, templates.Ending),
		templates.NewMinutia(20, 10, 0, templates.Ending),
	)
	candidate := probe.Translate(5, 5)
	params := config.DefaultMatcherParameters()
	ctx := context.Background()

	m := newMatcherFor(params, probe)
	self, err := m.Match(ctx, probe)
	require.NoError(t, err)
	result, err := m.MatchDetailed(ctx, candidate)
	require.NoError(t, err)

	assert.Greater(t, result.Score, 0.0)
	assert.Equal(t, self, result.Score)
	assert.InDelta(t, perfectScore(2, params.Scoring), result.Score, 1e-9)
	assert.Equal(t, 2, result.Analysis.PairCount)
	assert.Equal(t, 1.0, result.Analysis.PairFraction)
}

func TestTranslationAndRotationInvariance(t *testing.T) {
	params := completeGraphParameters()
	tpl := randomTemplate(5, 20)
	m := newMatcherFor(params, tpl)
	ctx := context.Background()

	self, err := m.Match(ctx, tpl)
	require.NoError(t, err)
	shifted, err := m.Match(ctx, tpl.Translate(37, -14))
	require.NoError(t, err)
	turned, err := m.Match(ctx, rotated(tpl).Translate(310, 0))
	require.NoError(t, err)

	assert.Equal(t, self, shifted)
	assert.InDelta(t, self, turned, 1e-6)
}

func TestDisjointScenario(t *testing.T) {
	probe := templates.New(300, 300,
		templates.NewMinutia(0, 0, 0, templates.Ending),
		templates.NewMinutia(20, 0, 1, templates.Ending),
		templates.NewMinutia(0, 20, 2, templates.Ending),
	)
	candidate := templates.New(300, 300,
		templates.NewMinutia(100, 100, 0, templates.Ending),
		templates.NewMinutia(160, 100, 1, templates.Ending),
		templates.NewMinutia(100, 160, 2, templates.Ending),
	)
	params := config.DefaultMatcherParameters()
	recorder := newRecordingTransparency(RootKey)
	m := newMatcherFor(params, probe, WithTransparency(recorder))

	sizes := map[int]int{}
	m.comparison.observe = func(p *Pairing) { sizes[p.Count()]++ }

	result, err := m.MatchDetailed(context.Background(), candidate)
	require.NoError(t, err)
	assert.Equal(t, 0.0, result.Score)
	assert.Less(t, result.Score, config.Default().Threshold)
	assert.Equal(t, -1, result.BestRootIndex)
	assert.Equal(t, 9, result.TriedRoots)
	assert.Equal(t, map[int]int{1: 9}, sizes, "every root stays alone")
	assert.Len(t, recorder.logged[RootKey], 9)
}

func TestEmptyTemplates(t *testing.T) {
	ctx := context.Background()
	params := config.DefaultMatcherParameters()
	empty := &templates.Template{}
	full := randomTemplate(9, 10)

	tests := []struct {
		name      string
		probe     *templates.Template
		candidate *templates.Template
	}{
		{"empty probe", empty, full},
		{"empty candidate", full, empty},
		{"both empty", empty, empty},
		{"nil candidate", full, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newMatcherFor(params, tt.probe)
			score, err := m.Match(ctx, tt.candidate)
			require.NoError(t, err)
			assert.Equal(t, 0.0, score)
		})
	}
}

func TestMatchIsDeterministic(t *testing.T) {
	params := config.DefaultMatcherParameters()
	probe := randomTemplate(31, 30)
	candidate := distorted(probe, 4)
	ctx := context.Background()

	m := newMatcherFor(params, probe)
	first, err := m.MatchDetailed(ctx, candidate)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		again, err := m.MatchDetailed(ctx, candidate)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
	fresh, err := newMatcherFor(params, probe).MatchDetailed(ctx, candidate)
	require.NoError(t, err)
	assert.Equal(t, first, fresh)
}

func TestMatchAsymmetryIsStable(t *testing.T) {
	params := config.DefaultMatcherParameters()
	a := randomTemplate(41, 25)
	b := distorted(a, 9)
	ctx := context.Background()

	forward := newMatcherFor(params, a)
	backward := newMatcherFor(params, b)
	ab, err := forward.Match(ctx, b)
	require.NoError(t, err)
	ba, err := backward.Match(ctx, a)
	require.NoError(t, err)

	// The two directions may differ, but each is reproducible.
	for i := 0; i < 3; i++ {
		again, _ := forward.Match(ctx, b)
		assert.Equal(t, ab, again)
		again, _ = backward.Match(ctx, a)
		assert.Equal(t, ba, again)
	}
	assert.Greater(t, ab, 0.0)
	assert.Greater(t, ba, 0.0)
}

func TestMatchIsMonotonicInRootBudget(t *testing.T) {
	probe := randomTemplate(51, 20)
	candidate := distorted(probe, 2)
	ctx := context.Background()

	prev := 0.0
	for _, budget := range []int{1, 2, 5, 20, 50, 100, 400, 10000} {
		params := config.DefaultMatcherParameters()
		params.MaxTriedRoots = budget
		m := newMatcherFor(params, probe)
		result, err := m.MatchDetailed(ctx, candidate)
		require.NoError(t, err)
		assert.LessOrEqual(t, result.TriedRoots, budget)
		assert.GreaterOrEqual(t, result.Score, prev, "budget %d", budget)
		prev = result.Score
	}
}

func TestMaxTriedRootsIsClamped(t *testing.T) {
	params := config.DefaultMatcherParameters()
	params.MaxTriedRoots = 1_000_000
	assert.Equal(t, config.MaxTriedRootsCeiling, New(params).Parameters().MaxTriedRoots)
}

func TestPairingInvariantDuringGrowth(t *testing.T) {
	params := config.DefaultMatcherParameters()
	params.Roots.RequireTypeMatch = false
	probe := randomTemplate(61, 30)
	m := newMatcherFor(params, probe)

	steps := 0
	m.comparison.observe = func(p *Pairing) {
		steps++
		probes := map[int]bool{}
		candidates := map[int]bool{}
		for _, info := range p.Pairs() {
			require.False(t, probes[info.Pair.Probe], "probe %d paired twice", info.Pair.Probe)
			require.False(t, candidates[info.Pair.Candidate], "candidate %d paired twice", info.Pair.Candidate)
			probes[info.Pair.Probe] = true
			candidates[info.Pair.Candidate] = true
			require.Equal(t, info.Pair.Candidate, p.CandidateOf(info.Pair.Probe))
		}
	}
	for seed := int64(0); seed < 3; seed++ {
		_, err := m.Match(context.Background(), distorted(probe, seed))
		require.NoError(t, err)
	}
	assert.Greater(t, steps, 0)
}

func TestMatchCancellation(t *testing.T) {
	tpl := randomTemplate(71, 10)
	m := newMatcherFor(config.DefaultMatcherParameters(), tpl)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := m.MatchDetailed(ctx, tpl)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, result.TriedRoots)
	assert.Equal(t, 0.0, result.Score)
}

func TestTransparencyReportsBestMatch(t *testing.T) {
	tpl := randomTemplate(81, 8)
	recorder := newRecordingTransparency(PairingKey, AnalysisKey, ScoreKey, BestRootKey)
	m := newMatcherFor(completeGraphParameters(), tpl, WithTransparency(recorder))

	score, err := m.Match(context.Background(), tpl)
	require.NoError(t, err)

	require.Len(t, recorder.logged[ScoreKey], 1)
	assert.Equal(t, score, recorder.logged[ScoreKey][0])
	require.Len(t, recorder.logged[PairingKey], 1)
	assert.Len(t, recorder.logged[PairingKey][0], 8)
	require.Len(t, recorder.logged[BestRootKey], 1)
	assert.Equal(t, 0, recorder.logged[BestRootKey][0].(BestRootRecord).Index)
	assert.Empty(t, recorder.logged[RootKey], "root key was not accepted")
}

func TestSharedProbeIndex(t *testing.T) {
	params := config.DefaultMatcherParameters()
	probe := randomTemplate(91, 20)
	candidate := distorted(probe, 1)
	ctx := context.Background()

	owner := New(params)
	index := owner.CreateIndex(probe)
	owner.SelectProbe(index)
	want, err := owner.Match(ctx, candidate)
	require.NoError(t, err)

	done := make(chan float64, 4)
	for i := 0; i < 4; i++ {
		go func() {
			m := New(params)
			m.SelectProbe(index)
			score, _ := m.Match(ctx, candidate)
			done <- score
		}()
	}
	for i := 0; i < 4; i++ {
		assert.Equal(t, want, <-done)
	}
}
