package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/metarh/vagas/internal/fetch"
	"github.com/metarh/vagas/internal/pager"
)

// Config is the root configuration for the vagas feed client.
type Config struct {
	API             APIConfig
	Proxy           ProxyConfig
	Relays          []fetch.Relay
	Normalize       NormalizeConfig
	RateLimit       RateLimitConfig
	Store           StoreConfig
	Notification    NotificationConfig
	Server          ServerConfig
	RefreshInterval time.Duration
}

// APIConfig describes the upstream Selecty job feed.
type APIConfig struct {
	BaseURL  string
	Token    string // expanded from env var by Load
	Portal   string
	PageSize int
	MaxPages int
	Timeout  time.Duration // per-request HTTP timeout
}

// ProxyConfig controls the same-origin reverse proxy strategy.
type ProxyConfig struct {
	Enabled bool   `yaml:"enabled"` // only where the board is deployed behind the proxy
	Origin  string `yaml:"origin"`
	Prefix  string `yaml:"prefix"`
}

// NormalizeConfig tunes record normalization.
type NormalizeConfig struct {
	SummaryLimit int `yaml:"summary_limit"` // runes; 0 keeps the whole summary
}

// RateLimitConfig paces page requests.
type RateLimitConfig struct {
	PageDelay time.Duration // minimum gap between requests to the same host
}

// StoreConfig locates the snapshot database.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// NotificationConfig selects how watch announces new postings.
type NotificationConfig struct {
	Type       string `yaml:"type"` // "", "log" or "slack"
	WebhookURL string `yaml:"webhook_url"`
}

// ServerConfig enables the snapshot API in watch mode. An empty Listen
// disables it.
type ServerConfig struct {
	Listen  string `yaml:"listen"` // e.g. ":8080"
	Metrics bool   `yaml:"metrics"`
}

const (
	defaultBaseURL         = "https://api.selecty.app/v2"
	defaultPortal          = "metarh"
	defaultProxyPrefix     = "/selecty-api"
	defaultStorePath       = "vagas.db"
	defaultTimeout         = 30 * time.Second
	defaultRefreshInterval = 15 * time.Minute
	maxPageSize            = 1000
)

// rawConfig is used for YAML unmarshaling (snake_case fields and duration as string).
type rawConfig struct {
	API             rawAPIConfig       `yaml:"api"`
	Proxy           ProxyConfig        `yaml:"proxy"`
	Relays          *[]rawRelayConfig  `yaml:"relays"`
	Normalize       NormalizeConfig    `yaml:"normalize"`
	RateLimit       rawRateLimitConfig `yaml:"rate_limit"`
	Store           StoreConfig        `yaml:"store"`
	Notification    NotificationConfig `yaml:"notification"`
	Server          ServerConfig       `yaml:"server"`
	RefreshInterval string             `yaml:"refresh_interval"`
}

type rawAPIConfig struct {
	BaseURL  string `yaml:"base_url"`
	Token    string `yaml:"token"`
	Portal   string `yaml:"portal"`
	PageSize int    `yaml:"page_size"`
	MaxPages int    `yaml:"max_pages"`
	Timeout  string `yaml:"timeout"`
}

type rawRelayConfig struct {
	Name string `yaml:"name"`
	Kind string `yaml:"kind"`
	URL  string `yaml:"url"`
}

type rawRateLimitConfig struct {
	PageDelay string `yaml:"page_delay"`
}

// LoadEnvFile loads KEY=VALUE pairs from path into the process environment
// without overriding variables that are already set. A missing file is not
// an error.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

// Load reads and parses the YAML config file at path, validates it, and returns Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse expands environment variables in data, decodes it, applies defaults
// and validates the result.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	timeout := defaultTimeout
	if raw.API.Timeout != "" {
		d, err := time.ParseDuration(raw.API.Timeout)
		if err != nil {
			return nil, fmt.Errorf("parse api.timeout %q: %w", raw.API.Timeout, err)
		}
		timeout = d
	}

	var pageDelay time.Duration
	if raw.RateLimit.PageDelay != "" {
		d, err := time.ParseDuration(raw.RateLimit.PageDelay)
		if err != nil {
			return nil, fmt.Errorf("parse rate_limit.page_delay %q: %w", raw.RateLimit.PageDelay, err)
		}
		pageDelay = d
	}

	refresh := defaultRefreshInterval
	if raw.RefreshInterval != "" {
		d, err := time.ParseDuration(raw.RefreshInterval)
		if err != nil {
			return nil, fmt.Errorf("parse refresh_interval %q: %w", raw.RefreshInterval, err)
		}
		refresh = d
	}

	relays := append([]fetch.Relay(nil), fetch.DefaultRelays...)
	if raw.Relays != nil {
		relays = make([]fetch.Relay, 0, len(*raw.Relays))
		for i, r := range *raw.Relays {
			kind, err := fetch.ParseRelayKind(r.Kind)
			if err != nil {
				return nil, fmt.Errorf("parse relays[%d]: %w", i, err)
			}
			relays = append(relays, fetch.Relay{Name: r.Name, Kind: kind, Endpoint: r.URL})
		}
	}

	cfg := &Config{
		API: APIConfig{
			BaseURL:  orDefault(raw.API.BaseURL, defaultBaseURL),
			Token:    raw.API.Token,
			Portal:   orDefault(raw.API.Portal, defaultPortal),
			PageSize: raw.API.PageSize,
			MaxPages: raw.API.MaxPages,
			Timeout:  timeout,
		},
		Proxy: ProxyConfig{
			Enabled: raw.Proxy.Enabled,
			Origin:  raw.Proxy.Origin,
			Prefix:  orDefault(raw.Proxy.Prefix, defaultProxyPrefix),
		},
		Relays:          relays,
		Normalize:       raw.Normalize,
		RateLimit:       RateLimitConfig{PageDelay: pageDelay},
		Store:           StoreConfig{Path: orDefault(raw.Store.Path, defaultStorePath)},
		Notification:    raw.Notification,
		Server:          raw.Server,
		RefreshInterval: refresh,
	}
	if cfg.API.PageSize == 0 {
		cfg.API.PageSize = pager.DefaultPageSize
	}
	if cfg.API.MaxPages == 0 {
		cfg.API.MaxPages = pager.DefaultMaxPages
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ChainOptions maps the config onto strategy chain options.
func (c *Config) ChainOptions() fetch.Options {
	return fetch.Options{
		IncludeProxy: c.Proxy.Enabled,
		ProxyOrigin:  c.Proxy.Origin,
		ProxyPrefix:  c.Proxy.Prefix,
		UpstreamBase: c.API.BaseURL,
		Relays:       c.Relays,
	}
}

// PagerConfig maps the config onto pager settings.
func (c *Config) PagerConfig() pager.Config {
	return pager.Config{
		BaseURL:  c.API.BaseURL,
		Token:    c.API.Token,
		Portal:   c.API.Portal,
		PageSize: c.API.PageSize,
		MaxPages: c.API.MaxPages,
	}
}

func validate(cfg *Config) error {
	if err := validateHTTPURL("api.base_url", cfg.API.BaseURL); err != nil {
		return err
	}
	if cfg.API.Token == "" {
		return fmt.Errorf("api.token is required (set SELECTY_API_TOKEN or api.token)")
	}
	if cfg.API.PageSize < 1 || cfg.API.PageSize > maxPageSize {
		return fmt.Errorf("api.page_size must be between 1 and %d, got %d", maxPageSize, cfg.API.PageSize)
	}
	if cfg.API.MaxPages < 1 {
		return fmt.Errorf("api.max_pages must be positive, got %d", cfg.API.MaxPages)
	}
	if cfg.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive, got %v", cfg.API.Timeout)
	}

	if cfg.Proxy.Enabled {
		if err := validateHTTPURL("proxy.origin", cfg.Proxy.Origin); err != nil {
			return fmt.Errorf("%w (required when proxy.enabled is true)", err)
		}
	}

	for i, r := range cfg.Relays {
		if r.Name == "" {
			return fmt.Errorf("relays[%d].name is required", i)
		}
		if err := validateHTTPURL(fmt.Sprintf("relays[%d].url", i), r.Endpoint); err != nil {
			return err
		}
	}

	if cfg.Normalize.SummaryLimit < 0 {
		return fmt.Errorf("normalize.summary_limit must not be negative, got %d", cfg.Normalize.SummaryLimit)
	}
	if cfg.RateLimit.PageDelay < 0 {
		return fmt.Errorf("rate_limit.page_delay must not be negative, got %v", cfg.RateLimit.PageDelay)
	}
	switch cfg.Notification.Type {
	case "", "log":
	case "slack":
		if err := validateHTTPURL("notification.webhook_url", cfg.Notification.WebhookURL); err != nil {
			return fmt.Errorf("%w (required when notification.type is slack)", err)
		}
	default:
		return fmt.Errorf("notification.type must be log or slack, got %q", cfg.Notification.Type)
	}

	if cfg.Server.Metrics && cfg.Server.Listen == "" {
		return fmt.Errorf("server.metrics requires server.listen")
	}

	if cfg.RefreshInterval <= 0 {
		return fmt.Errorf("refresh_interval must be positive, got %v", cfg.RefreshInterval)
	}

	return nil
}

func validateHTTPURL(field, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%s must be an absolute http(s) URL, got %q", field, raw)
	}
	return nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
