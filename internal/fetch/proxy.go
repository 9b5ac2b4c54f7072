package fetch

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// SameOriginProxy routes the request through the job board's own reverse
// proxy, which forwards {origin}{prefix}/... to the upstream base URL.
// Only reachable where the front end is deployed behind that proxy.
type SameOriginProxy struct {
	origin       string
	prefix       string
	upstreamBase string
	client       *http.Client
}

// NewSameOriginProxy creates the proxy strategy. upstreamBase is the API base
// URL the proxy stands in for, e.g. https://api.selecty.app/v2.
func NewSameOriginProxy(origin, prefix, upstreamBase string, client *http.Client) *SameOriginProxy {
	return &SameOriginProxy{
		origin:       strings.TrimRight(origin, "/"),
		prefix:       "/" + strings.Trim(prefix, "/"),
		upstreamBase: strings.TrimRight(upstreamBase, "/"),
		client:       client,
	}
}

func (s *SameOriginProxy) Name() string { return "same-origin-proxy" }

// Attempt rewrites targetURL onto the proxy route and sends the token header.
func (s *SameOriginProxy) Attempt(ctx context.Context, targetURL, token string) ([]byte, error) {
	proxied, err := s.rewrite(targetURL)
	if err != nil {
		return nil, err
	}
	return getJSON(ctx, s.client, proxied, tokenHeader(token))
}

func (s *SameOriginProxy) rewrite(targetURL string) (string, error) {
	if !strings.HasPrefix(targetURL, s.upstreamBase) {
		return "", fmt.Errorf("target %q is outside upstream base %q", targetURL, s.upstreamBase)
	}
	return s.origin + s.prefix + strings.TrimPrefix(targetURL, s.upstreamBase), nil
}
