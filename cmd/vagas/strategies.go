package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/metarh/vagas/internal/pager"
)

var probe bool

var strategiesCmd = &cobra.Command{
	Use:   "strategies",
	Short: "List the fetch strategies in the order they are tried",
	Long:  "Lists the access strategies in chain order. With --probe, requests the first feed page through every strategy at once and reports which ones work.",
	RunE:  runStrategies,
}

func init() {
	strategiesCmd.Flags().BoolVar(&probe, "probe", false, "request page 1 through every strategy and report the outcome")
	rootCmd.AddCommand(strategiesCmd)
}

func runStrategies(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	silent := slog.New(slog.NewTextHandler(io.Discard, nil))
	chain, _ := buildChain(cfg, silent)
	w := cmd.OutOrStdout()

	if !probe {
		for i, name := range chain.Names() {
			fmt.Fprintf(w, "%d. %s\n", i+1, name)
		}
		fmt.Fprintf(w, "\nUpstream: %s (portal %s)\n", cfg.API.BaseURL, cfg.API.Portal)
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	target := pager.New(cfg.PagerConfig(), nil, silent).PageURL(1)
	for i, r := range chain.Probe(ctx, target, cfg.API.Token) {
		status := fmt.Sprintf("ok (%d bytes)", r.Bytes)
		if r.Err != nil {
			status = "failed: " + r.Err.Error()
		}
		fmt.Fprintf(w, "%d. %-20s %-8s %s\n", i+1, r.Strategy, r.Elapsed.Round(time.Millisecond), status)
	}
	return nil
}
