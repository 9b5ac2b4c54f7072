package fetch

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// ProbeResult reports how one strategy fared against a single target.
type ProbeResult struct {
	Strategy string
	Elapsed  time.Duration
	Bytes    int
	Err      error
}

// Probe asks every strategy for targetURL concurrently and returns one result
// per strategy in chain order. It is a diagnostic; Fetch never runs
// strategies in parallel.
func (c *Chain) Probe(ctx context.Context, targetURL, token string) []ProbeResult {
	results := make([]ProbeResult, len(c.strategies))

	var g errgroup.Group
	for i, s := range c.strategies {
		i, s := i, s
		g.Go(func() error {
			start := time.Now()
			body, err := s.Attempt(ctx, targetURL, token)
			results[i] = ProbeResult{
				Strategy: s.Name(),
				Elapsed:  time.Since(start),
				Bytes:    len(body),
				Err:      err,
			}
			return nil
		})
	}
	_ = g.Wait()

	return results
}
