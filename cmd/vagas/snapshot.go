package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/metarh/vagas/internal/filter"
	"github.com/metarh/vagas/internal/store"
)

var snapshotOpts struct {
	format string
	remote bool
	states []string
}

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Print the stored job snapshot",
	Long:  "Reads the last snapshot written by `watch` or `fetch --save` without contacting the feed.",
	RunE:  runSnapshot,
}

func init() {
	f := snapshotCmd.Flags()
	f.StringVar(&snapshotOpts.format, "format", "json", "output format: json or table")
	f.BoolVar(&snapshotOpts.remote, "remote", false, "only remote jobs")
	f.StringSliceVar(&snapshotOpts.states, "state", nil, "only jobs in these states (e.g. SP,PR)")
	rootCmd.AddCommand(snapshotCmd)
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	if snapshotOpts.format != "json" && snapshotOpts.format != "table" {
		return fmt.Errorf("unknown format %q (want json or table)", snapshotOpts.format)
	}

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	sqlStore, err := store.NewSQLiteStore(cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer sqlStore.Close()

	jobs, fetchedAt, err := sqlStore.LoadSnapshot(context.Background())
	if errors.Is(err, store.ErrNoSnapshot) {
		fmt.Fprintln(os.Stderr, "No snapshot stored yet. Run `vagas watch` or `vagas fetch --save` first.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Snapshot from %s (%d jobs)\n", fetchedAt.Local().Format(time.DateTime), len(jobs))

	jf := filter.NewJobFilter(nil, snapshotOpts.states, nil, snapshotOpts.remote)
	return printJobs(cmd.OutOrStdout(), filter.Apply(jf, jobs), snapshotOpts.format)
}
