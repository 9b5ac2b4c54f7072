package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/metarh/vagas/internal/api"
	"github.com/metarh/vagas/internal/config"
	"github.com/metarh/vagas/internal/metrics"
	"github.com/metarh/vagas/internal/scheduler"
	"github.com/metarh/vagas/internal/store"
)

const shutdownTimeout = 10 * time.Second

var watchListen string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Refresh the job snapshot on an interval",
	Long:  "Start the refresh loop; every successful retrieval replaces the stored snapshot. With server.listen set, also serves the snapshot over HTTP. Blocks until SIGINT/SIGTERM.",
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchListen, "listen", "", "serve the snapshot API on this address (overrides server.listen)")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug, os.Stdout)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if watchListen != "" {
		cfg.Server.Listen = watchListen
	}

	logger.Info("config loaded",
		"portal", cfg.API.Portal,
		"interval", cfg.RefreshInterval.String(),
		"page_size", cfg.API.PageSize,
		"max_pages", cfg.API.MaxPages,
		"relays", len(cfg.Relays),
		"proxy", cfg.Proxy.Enabled,
		"notification", cfg.Notification.Type,
		"listen", cfg.Server.Listen,
	)

	unlock, err := store.LockPath(cfg.Store.Path)
	if err != nil {
		return err
	}
	defer unlock()

	sqlStore, err := store.NewSQLiteStore(cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer sqlStore.Close()

	svc, chain := buildService(cfg, logger)
	sched := scheduler.NewScheduler(svc, sqlStore, cfg.RefreshInterval, logger)
	sched.SetNotifier(setupNotifier(cfg, logger))

	var recorder *metrics.Recorder
	if cfg.Server.Metrics {
		recorder = metrics.New()
		chain.SetObserver(recorder)
		sched.SetObserver(recorder)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return sched.Run(ctx)
	})
	if cfg.Server.Listen != "" {
		srv := newHTTPServer(cfg, sqlStore, recorder, logger)
		g.Go(func() error {
			return serve(ctx, srv, logger)
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("watch: %w", err)
	}

	logger.Info("goodbye")
	return nil
}

func newHTTPServer(cfg *config.Config, snapshots *store.SQLiteStore, recorder *metrics.Recorder, logger *slog.Logger) *http.Server {
	var (
		observer api.RequestObserver
		handler  http.Handler
	)
	if recorder != nil {
		observer, handler = recorder, recorder.Handler()
	}
	return &http.Server{
		Addr:              cfg.Server.Listen,
		Handler:           api.NewServer(snapshots, observer, handler, logger).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// serve runs srv until ctx is cancelled, then shuts it down gracefully.
func serve(ctx context.Context, srv *http.Server, logger *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("snapshot api listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	logger.Info("snapshot api stopped")
	return nil
}
