package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/metarh/vagas/internal/model"
)

// Ensure Chain implements model.DocumentFetcher.
var _ model.DocumentFetcher = (*Chain)(nil)

// Relay describes one configured relay service.
type Relay struct {
	Name     string
	Kind     RelayKind
	Endpoint string
}

// Options controls which strategies a chain is built with.
type Options struct {
	// IncludeProxy enables the same-origin proxy strategy. Only meaningful
	// where the job board is deployed behind its reverse proxy.
	IncludeProxy bool
	ProxyOrigin  string
	ProxyPrefix  string
	UpstreamBase string
	Relays       []Relay
}

// DefaultRelays are tried after the proxy, in this order.
var DefaultRelays = []Relay{
	{Name: "allorigins", Kind: RelayEnvelope, Endpoint: "https://api.allorigins.win/get"},
	{Name: "corsproxy", Kind: RelayPassthrough, Endpoint: "https://corsproxy.io/"},
}

// AttemptObserver is told the outcome of every strategy attempt.
type AttemptObserver interface {
	ObserveAttempt(strategy string, err error)
}

// Chain tries its strategies in order and returns the first document any of
// them produces. Strategies run one at a time and none is repeated.
type Chain struct {
	strategies []Strategy
	observer   AttemptObserver
	logger     *slog.Logger
}

// NewChain creates a chain over an explicit strategy list.
func NewChain(strategies []Strategy, logger *slog.Logger) *Chain {
	return &Chain{strategies: strategies, logger: logger}
}

// New builds the standard chain: same-origin proxy (when enabled), each
// relay in configured order, then a direct request.
func New(opts Options, client *http.Client, logger *slog.Logger) *Chain {
	var strategies []Strategy
	if opts.IncludeProxy {
		strategies = append(strategies, NewSameOriginProxy(opts.ProxyOrigin, opts.ProxyPrefix, opts.UpstreamBase, client))
	}
	for _, r := range opts.Relays {
		switch r.Kind {
		case RelayEnvelope:
			strategies = append(strategies, NewEnvelopeRelay(r.Name, r.Endpoint, client))
		case RelayPassthrough:
			strategies = append(strategies, NewPassthroughRelay(r.Name, r.Endpoint, client))
		default:
			logger.Warn("unknown relay kind, skipping", "relay", r.Name, "kind", r.Kind)
		}
	}
	strategies = append(strategies, NewDirect(client))
	return NewChain(strategies, logger)
}

// SetObserver registers an observer for strategy attempts made by Fetch.
func (c *Chain) SetObserver(o AttemptObserver) {
	c.observer = o
}

// Names returns the strategy names in the order they are attempted.
func (c *Chain) Names() []string {
	names := make([]string, len(c.strategies))
	for i, s := range c.strategies {
		names[i] = s.Name()
	}
	return names
}

// Fetch runs the chain for one target URL. A strategy fails on a transport
// error, a non-2xx status or an unparsable body; the chain then moves on.
// When every strategy fails it returns a *model.ConnectionError.
func (c *Chain) Fetch(ctx context.Context, targetURL, token string) ([]byte, error) {
	attempts := make([]error, 0, len(c.strategies))
	for _, s := range c.strategies {
		body, err := s.Attempt(ctx, targetURL, token)
		if c.observer != nil {
			c.observer.ObserveAttempt(s.Name(), err)
		}
		if err == nil {
			c.logger.Debug("access strategy succeeded", "strategy", s.Name())
			return body, nil
		}
		c.logger.Warn("access strategy failed, trying next", "strategy", s.Name(), "error", err)
		attempts = append(attempts, fmt.Errorf("%s: %w", s.Name(), err))
	}

	return nil, &model.ConnectionError{Message: model.ConnectionMessage, Attempts: attempts}
}
