package sourceafis

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/high-horse/sourceafis/config"
	"github.com/high-horse/sourceafis/matcher"
	"github.com/high-horse/sourceafis/templates"
)

type options struct {
	params  *config.MatcherParameters
	workers int
	logger  *Logger
}

// Option configures NewMatcher.
type Option func(*options)

// WithParameters overrides config.Config.Matcher.
func WithParameters(p config.MatcherParameters) Option {
	return func(o *options) {
		o.params = &p
	}
}

// WithWorkers overrides config.Config.Workers for MatchAll.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithLogger sets the structured logger. Defaults to NoopLogger.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// Matcher compares candidates against one probe. Match reuses a single
// working state and must not be called concurrently; MatchAll gives every
// worker its own.
type Matcher struct {
	transparency *TransparencyLogger
	params       config.MatcherParameters
	workers      int
	threshold    float64
	logger       *Logger

	probe *matcher.ProbeIndex
	core  *matcher.Matcher
}

// NewMatcher indexes probe. logger may be nil.
func NewMatcher(logger *TransparencyLogger, probe *templates.Template, opts ...Option) (*Matcher, error) {
	if probe == nil {
		return nil, ErrNilTemplate
	}
	if config.Config == nil {
		config.LoadDefaultConfig()
	}
	o := options{
		workers: config.Config.Workers,
		logger:  NoopLogger(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	params := config.Config.Matcher
	if o.params != nil {
		params = *o.params
	}
	if o.workers <= 0 {
		o.workers = 1
	}

	core := matcher.New(params, matcher.WithTransparency(logger))
	index := core.CreateIndex(probe)
	core.SelectProbe(index)
	return &Matcher{
		transparency: logger,
		params:       core.Parameters(),
		workers:      o.workers,
		threshold:    config.Config.Threshold,
		logger:       o.logger,
		probe:        index,
		core:         core,
	}, nil
}

// Match returns the similarity score of candidate in [0, 100]. When ctx is
// cancelled mid-way the best score found so far is returned.
func (m *Matcher) Match(ctx context.Context, candidate *templates.Template) float64 {
	score, err := m.core.Match(ctx, candidate)
	m.logger.LogMatch(ctx, candidate.Len(), score, err)
	return score
}

// Verify reports the score and whether it exceeds the configured threshold.
func (m *Matcher) Verify(ctx context.Context, candidate *templates.Template) (float64, bool) {
	score := m.Match(ctx, candidate)
	return score, score > m.threshold
}

// MatchAll scores every candidate, spreading the work over the configured
// workers. Each worker owns a matcher; all of them share the probe index.
func (m *Matcher) MatchAll(ctx context.Context, candidates []*templates.Template) ([]float64, error) {
	scores := make([]float64, len(candidates))
	workers := min(m.workers, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			core := matcher.New(m.params, matcher.WithTransparency(m.transparency))
			core.SelectProbe(m.probe)
			for i := w; i < len(candidates); i += workers {
				score, err := core.Match(gctx, candidates[i])
				if err != nil {
					return fmt.Errorf("candidate %d: %w", i, err)
				}
				scores[i] = score
			}
			return nil
		})
	}
	err := g.Wait()
	m.logger.LogMatchAll(ctx, len(candidates), workers, err)
	if err != nil {
		return nil, err
	}
	return scores, nil
}

// LoadTemplate reads a serialized template from path.
func LoadTemplate(path string) (*templates.Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read template %s: %w", path, err)
	}
	t, err := templates.Deserialize(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode template %s: %w", path, err)
	}
	return t, nil
}

// SaveTemplate writes t to path in its serialized form.
func SaveTemplate(path string, t *templates.Template) error {
	data, err := templates.Serialize(t)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
