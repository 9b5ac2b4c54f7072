package fetch

import (
	"context"
	"net/http"
)

// Direct requests the upstream URL unmodified. Works wherever cross-origin
// restrictions do not apply.
type Direct struct {
	client *http.Client
}

func NewDirect(client *http.Client) *Direct {
	return &Direct{client: client}
}

func (d *Direct) Name() string { return "direct" }

func (d *Direct) Attempt(ctx context.Context, targetURL, token string) ([]byte, error) {
	return getJSON(ctx, d.client, targetURL, tokenHeader(token))
}
