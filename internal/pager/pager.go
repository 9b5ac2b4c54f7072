package pager

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/metarh/vagas/internal/model"
)

const (
	DefaultPageSize = 100
	// DefaultMaxPages stops a runaway loop against a misbehaving or mocked
	// API that keeps returning full pages.
	DefaultMaxPages = 20
	feedPath        = "/jobfeed/index"
)

// Config describes the job feed resource to walk.
type Config struct {
	BaseURL  string // e.g. https://api.selecty.app/v2
	Token    string
	Portal   string
	PageSize int
	MaxPages int
}

// Pager collects every page of the job feed through a DocumentFetcher. It
// relies only on page length, never on total-count metadata.
type Pager struct {
	cfg     Config
	fetcher model.DocumentFetcher
	now     func() time.Time
	logger  *slog.Logger
}

// New creates a pager. Zero PageSize or MaxPages fall back to the defaults.
func New(cfg Config, fetcher model.DocumentFetcher, logger *slog.Logger) *Pager {
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = DefaultMaxPages
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Pager{
		cfg:     cfg,
		fetcher: fetcher,
		now:     time.Now,
		logger:  logger,
	}
}

// SetClock replaces the clock used for the cache-busting _t parameter.
func (p *Pager) SetClock(now func() time.Time) {
	p.now = now
}

// FetchAll requests pages 1, 2, ... until a page is empty, a page is shorter
// than the page size, or MaxPages pages have been read. Items are returned
// undecoded, in upstream order. Any page failure aborts the whole walk.
func (p *Pager) FetchAll(ctx context.Context) ([]json.RawMessage, error) {
	var all []json.RawMessage

	for page := 1; page <= p.cfg.MaxPages; page++ {
		p.logger.Info("fetching job page", "page", page, "portal", p.cfg.Portal)

		body, err := p.fetcher.Fetch(ctx, p.PageURL(page), p.cfg.Token)
		if err != nil {
			return nil, err
		}

		items, err := extractItems(body)
		if err != nil {
			p.logger.Debug("page body has no item collection", "page", page, "error", err)
		}
		all = append(all, items...)

		if len(items) < p.cfg.PageSize {
			break
		}
		if page == p.cfg.MaxPages {
			p.logger.Warn("page limit reached, stopping", "max_pages", p.cfg.MaxPages)
		}
	}

	p.logger.Info("job feed collected", "items", len(all))
	return all, nil
}

// PageURL returns the feed URL for a 1-based page number.
func (p *Pager) PageURL(page int) string {
	q := url.Values{}
	q.Set("portal", p.cfg.Portal)
	q.Set("per_page", strconv.Itoa(p.cfg.PageSize))
	q.Set("page", strconv.Itoa(page))
	q.Set("_t", strconv.FormatInt(p.now().UnixMilli(), 10))
	return fmt.Sprintf("%s%s?%s", p.cfg.BaseURL, feedPath, q.Encode())
}

// extractItems pulls the item collection out of a page body: either a bare
// array or an object whose "data" field is an array. Any other shape is an
// empty page.
func extractItems(body []byte) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, nil
	}

	if trimmed[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("decoding page array: %w", err)
		}
		return items, nil
	}

	if trimmed[0] == '{' {
		var wrapped struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(trimmed, &wrapped); err != nil {
			return nil, fmt.Errorf("decoding page object: %w", err)
		}
		data := bytes.TrimSpace(wrapped.Data)
		if len(data) == 0 || data[0] != '[' {
			return nil, nil
		}
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, fmt.Errorf("decoding page data: %w", err)
		}
		return items, nil
	}

	return nil, nil
}
