package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/metarh/vagas/internal/model"
)

// TokenHeader carries the API token on paths that forward custom headers.
const TokenHeader = "X-Api-Key"

// TokenQueryParam carries the API token for relays that drop custom headers.
const TokenQueryParam = "api_key"

// maxBodyBytes caps a single upstream document.
const maxBodyBytes = 32 << 20

var errInvalidJSON = errors.New("response body is not valid JSON")

// Strategy is one access path to the upstream job feed.
type Strategy interface {
	Name() string
	// Attempt returns the upstream JSON document for targetURL.
	Attempt(ctx context.Context, targetURL, token string) ([]byte, error)
}

// getJSON issues a GET and returns the body when the status is 2xx and the
// body is valid JSON.
func getJSON(ctx context.Context, client *http.Client, rawURL string, header http.Header) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &model.HTTPError{
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("reading body: %w", err)
	}
	if !json.Valid(body) {
		return nil, errInvalidJSON
	}
	return body, nil
}

func tokenHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set(TokenHeader, token)
	}
	return h
}
