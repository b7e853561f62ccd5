package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/high-horse/sourceafis"
	"github.com/high-horse/sourceafis/templates"
)

// TransparencyContents tallies the size of every transparency record.
type TransparencyContents struct {
	mu    sync.Mutex
	sizes map[string]int
}

func (c *TransparencyContents) Accepts(key string) bool {
	return true
}

func (c *TransparencyContents) Accept(key, mime string, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sizes == nil {
		c.sizes = make(map[string]int)
	}
	c.sizes[key] += len(data)
	return nil
}

func (c *TransparencyContents) Sizes() map[string]int {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]int, len(c.sizes))
	for k, v := range c.sizes {
		out[k] = v
	}
	return out
}

func compareTemplates(ctx context.Context, probe, candidate *templates.Template) (float64, bool, map[string]int, error) {
	contents := new(TransparencyContents)
	l := sourceafis.NewTransparencyLogger(contents)

	matcher, err := sourceafis.NewMatcher(l, probe)
	if err != nil {
		return 0, false, nil, fmt.Errorf("failed to create matcher: %w", err)
	}

	score, matched := matcher.Verify(ctx, candidate)
	if err := l.Err(); err != nil {
		return 0, false, nil, fmt.Errorf("failed to record transparency data: %w", err)
	}
	return score, matched, contents.Sizes(), nil
}
