package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/metarh/vagas/internal/model"
)

// RelayKind selects a relay's request/response convention.
type RelayKind string

const (
	// RelayEnvelope relays take ?url=<target>, drop custom headers and wrap
	// the upstream body in {"contents": "..."} (AllOrigins).
	RelayEnvelope RelayKind = "envelope"
	// RelayPassthrough relays take ?<target>, forward headers and return the
	// upstream body unchanged (corsproxy.io).
	RelayPassthrough RelayKind = "passthrough"
)

// ParseRelayKind validates a configured relay kind.
func ParseRelayKind(s string) (RelayKind, error) {
	switch k := RelayKind(strings.ToLower(strings.TrimSpace(s))); k {
	case RelayEnvelope, RelayPassthrough:
		return k, nil
	default:
		return "", fmt.Errorf("unknown relay kind %q", s)
	}
}

// EnvelopeRelay fetches through a relay that wraps the upstream body.
type EnvelopeRelay struct {
	name     string
	endpoint string
	client   *http.Client
}

// NewEnvelopeRelay creates an envelope relay strategy for endpoint,
// e.g. https://api.allorigins.win/get.
func NewEnvelopeRelay(name, endpoint string, client *http.Client) *EnvelopeRelay {
	return &EnvelopeRelay{name: name, endpoint: endpoint, client: client}
}

func (r *EnvelopeRelay) Name() string { return r.name }

type envelope struct {
	Contents json.RawMessage `json:"contents"`
	Status   struct {
		HTTPCode int `json:"http_code"`
	} `json:"status"`
}

// Attempt embeds the token in the target URL, since the relay will not
// forward headers, then unwraps the envelope's contents.
func (r *EnvelopeRelay) Attempt(ctx context.Context, targetURL, token string) ([]byte, error) {
	withToken, err := withQueryParam(targetURL, TokenQueryParam, token)
	if err != nil {
		return nil, err
	}
	relayURL, err := withQueryParam(r.endpoint, "url", withToken)
	if err != nil {
		return nil, err
	}

	body, err := getJSON(ctx, r.client, relayURL, nil)
	if err != nil {
		return nil, err
	}
	return unwrapEnvelope(body)
}

// unwrapEnvelope returns the upstream document held in an envelope. The
// contents field is normally a JSON-encoded string and is parsed a second
// time; relays that embed the document directly are accepted as well.
func unwrapEnvelope(body []byte) ([]byte, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decoding envelope: %w", err)
	}
	if env.Status.HTTPCode != 0 && (env.Status.HTTPCode < 200 || env.Status.HTTPCode > 299) {
		return nil, &model.HTTPError{
			StatusCode: env.Status.HTTPCode,
			Err:        errors.New("upstream status reported by relay"),
		}
	}

	raw := []byte(strings.TrimSpace(string(env.Contents)))
	if len(raw) == 0 || string(raw) == "null" {
		return nil, errors.New("envelope has no contents")
	}
	if raw[0] != '"' {
		return raw, nil
	}

	var contents string
	if err := json.Unmarshal(raw, &contents); err != nil {
		return nil, fmt.Errorf("decoding envelope contents: %w", err)
	}
	if !json.Valid([]byte(contents)) {
		return nil, errInvalidJSON
	}
	return []byte(contents), nil
}

// PassthroughRelay fetches through a relay that returns the upstream body as-is.
type PassthroughRelay struct {
	name     string
	endpoint string
	client   *http.Client
}

// NewPassthroughRelay creates a passthrough relay strategy for endpoint,
// e.g. https://corsproxy.io/.
func NewPassthroughRelay(name, endpoint string, client *http.Client) *PassthroughRelay {
	return &PassthroughRelay{name: name, endpoint: endpoint, client: client}
}

func (r *PassthroughRelay) Name() string { return r.name }

// Attempt appends the escaped target as the relay's raw query and sends the
// token header.
func (r *PassthroughRelay) Attempt(ctx context.Context, targetURL, token string) ([]byte, error) {
	sep := "?"
	if strings.HasSuffix(r.endpoint, "?") {
		sep = ""
	}
	relayURL := r.endpoint + sep + url.QueryEscape(targetURL)
	return getJSON(ctx, r.client, relayURL, tokenHeader(token))
}

func withQueryParam(rawURL, key, value string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parsing %q: %w", rawURL, err)
	}
	if value == "" {
		return u.String(), nil
	}
	q := u.Query()
	q.Set(key, value)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
