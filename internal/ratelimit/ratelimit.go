package ratelimit

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/metarh/vagas/internal/model"
)

// HostLimiter enforces a minimum delay between requests to the same host.
type HostLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter // key: hostname
	limit    rate.Limit
}

// NewHostLimiter creates a limiter that spaces consecutive requests to one
// host by at least minDelay. A zero minDelay never waits.
func NewHostLimiter(minDelay time.Duration) *HostLimiter {
	limit := rate.Inf
	if minDelay > 0 {
		limit = rate.Every(minDelay)
	}
	return &HostLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    limit,
	}
}

func (h *HostLimiter) limiterFor(host string) *rate.Limiter {
	h.mu.Lock()
	defer h.mu.Unlock()

	if lim, ok := h.limiters[host]; ok {
		return lim
	}
	lim := rate.NewLimiter(h.limit, 1)
	h.limiters[host] = lim
	return lim
}

// Wait blocks until a request to rawURL's host is allowed.
// Returns an error if the context is cancelled while waiting.
func (h *HostLimiter) Wait(ctx context.Context, rawURL string) error {
	host := "_"
	if u, err := url.Parse(rawURL); err == nil && u.Host != "" {
		host = u.Host
	}
	if err := h.limiterFor(host).Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait for %s: %w", host, err)
	}
	return nil
}

// Ensure RateLimitedFetcher implements model.DocumentFetcher.
var _ model.DocumentFetcher = (*RateLimitedFetcher)(nil)

// RateLimitedFetcher is a decorator that paces calls to the wrapped
// DocumentFetcher. It never repeats a request.
type RateLimitedFetcher struct {
	inner   model.DocumentFetcher
	limiter *HostLimiter
}

// NewRateLimitedFetcher wraps a DocumentFetcher with host-level pacing.
func NewRateLimitedFetcher(inner model.DocumentFetcher, limiter *HostLimiter) *RateLimitedFetcher {
	return &RateLimitedFetcher{
		inner:   inner,
		limiter: limiter,
	}
}

// Fetch waits for the limiter, then delegates to the wrapped fetcher.
func (f *RateLimitedFetcher) Fetch(ctx context.Context, targetURL, token string) ([]byte, error) {
	if err := f.limiter.Wait(ctx, targetURL); err != nil {
		return nil, err
	}
	return f.inner.Fetch(ctx, targetURL, token)
}
