package main

import (
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/metarh/vagas/internal/config"
	"github.com/metarh/vagas/internal/fetch"
	"github.com/metarh/vagas/internal/jobs"
	"github.com/metarh/vagas/internal/model"
	"github.com/metarh/vagas/internal/normalize"
	"github.com/metarh/vagas/internal/notifier"
	"github.com/metarh/vagas/internal/pager"
	"github.com/metarh/vagas/internal/ratelimit"
)

var (
	cfgPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:           "vagas",
	Short:         "Selecty job feed client",
	Long:          "vagas retrieves the Selecty job feed, normalizes every posting and lists them newest first.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: VAGAS_CONFIG env var or ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// loadConfig loads .env, resolves the config path and parses it.
// Priority: explicit path arg > VAGAS_CONFIG env var > "./config.yaml"
func loadConfig(path string) (*config.Config, error) {
	if err := config.LoadEnvFile(".env"); err != nil {
		return nil, err
	}
	if path == "" {
		if env := os.Getenv("VAGAS_CONFIG"); env != "" {
			path = env
		} else {
			path = "config.yaml"
		}
	}
	return config.Load(path)
}

// setupLogger writes text logs to w. Commands that print data on stdout pass stderr.
func setupLogger(dbg bool, w io.Writer) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: logLevel}))
}

func setupNotifier(cfg *config.Config, logger *slog.Logger) model.Notifier {
	switch cfg.Notification.Type {
	case "slack":
		logger.Info("using slack notifier")
		return notifier.NewSlackNotifier(cfg.Notification.WebhookURL, &http.Client{Timeout: cfg.API.Timeout}, logger)
	default:
		return notifier.NewLogNotifier(logger)
	}
}

// buildChain assembles the strategy chain behind the per-host rate limiter.
func buildChain(cfg *config.Config, logger *slog.Logger) (*fetch.Chain, *ratelimit.RateLimitedFetcher) {
	httpClient := &http.Client{Timeout: cfg.API.Timeout}
	chain := fetch.New(cfg.ChainOptions(), httpClient, logger)
	limiter := ratelimit.NewHostLimiter(cfg.RateLimit.PageDelay)
	return chain, ratelimit.NewRateLimitedFetcher(chain, limiter)
}

// buildService wires chain, pager and normalizer into the feed service. The
// chain is returned so callers can observe it.
func buildService(cfg *config.Config, logger *slog.Logger) (*jobs.Service, *fetch.Chain) {
	chain, fetcher := buildChain(cfg, logger)
	p := pager.New(cfg.PagerConfig(), fetcher, logger)
	n := normalize.NewNormalizer(normalize.UUIDGenerator{}, cfg.Normalize.SummaryLimit, logger)
	return jobs.NewService(p, n, logger), chain
}

// feedTimeout bounds a whole retrieval: every page may fall through the full chain.
func feedTimeout(cfg *config.Config) time.Duration {
	strategies := len(cfg.Relays) + 1
	if cfg.Proxy.Enabled {
		strategies++
	}
	return cfg.API.Timeout * time.Duration(cfg.API.MaxPages*strategies)
}
