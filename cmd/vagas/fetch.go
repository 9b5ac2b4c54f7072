package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/metarh/vagas/internal/filter"
	"github.com/metarh/vagas/internal/model"
	"github.com/metarh/vagas/internal/store"
	"github.com/metarh/vagas/internal/tui"
)

var fetchOpts struct {
	format      string
	remote      bool
	states      []string
	keywords    []string
	departments []string
	save        bool
	noSpinner   bool
}

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch the job feed once and print it",
	Long:  "One-shot retrieval: walks every page through the strategy chain, normalizes and sorts the jobs, prints them and exits.",
	RunE:  runFetch,
}

func init() {
	f := fetchCmd.Flags()
	f.StringVar(&fetchOpts.format, "format", "json", "output format: json or table")
	f.BoolVar(&fetchOpts.remote, "remote", false, "only remote jobs")
	f.StringSliceVar(&fetchOpts.states, "state", nil, "only jobs in these states (e.g. SP,PR)")
	f.StringSliceVar(&fetchOpts.keywords, "keyword", nil, "only jobs whose title mentions a keyword")
	f.StringSliceVar(&fetchOpts.departments, "department", nil, "only jobs in these departments")
	f.BoolVar(&fetchOpts.save, "save", false, "store the full result as the current snapshot")
	f.BoolVar(&fetchOpts.noSpinner, "no-spinner", false, "never show the progress spinner")
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	if fetchOpts.format != "json" && fetchOpts.format != "table" {
		return fmt.Errorf("unknown format %q (want json or table)", fetchOpts.format)
	}

	interactive := !fetchOpts.noSpinner && isatty.IsTerminal(os.Stderr.Fd())

	// The spinner owns the terminal; logs before it exits would corrupt it.
	var logOut io.Writer = os.Stderr
	if interactive && !debug {
		logOut = io.Discard
	}
	logger := setupLogger(debug, logOut)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	svc, _ := buildService(cfg, logger)

	var jobs []model.NormalizedJob
	if interactive {
		jobs, err = tui.RunLoader("Buscando vagas na Selecty", feedTimeout(cfg), svc.FetchJobs)
	} else {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		jobs, err = svc.FetchJobs(ctx)
	}
	if err != nil {
		var connErr *model.ConnectionError
		if errors.As(err, &connErr) {
			logger.Debug("connection failure detail", "detail", connErr.Detail())
			fmt.Fprintln(os.Stderr, connErr.Error())
			os.Exit(1)
		}
		return err
	}

	if fetchOpts.save {
		if err := saveSnapshot(cfg.Store.Path, jobs); err != nil {
			return err
		}
		logger.Info("snapshot saved", "path", cfg.Store.Path, "jobs", len(jobs))
	}

	jf := filter.NewJobFilter(fetchOpts.keywords, fetchOpts.states, fetchOpts.departments, fetchOpts.remote)
	return printJobs(cmd.OutOrStdout(), filter.Apply(jf, jobs), fetchOpts.format)
}

func saveSnapshot(path string, jobs []model.NormalizedJob) error {
	sqlStore, err := store.NewSQLiteStore(path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer sqlStore.Close()

	if err := sqlStore.SaveSnapshot(context.Background(), jobs); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func printJobs(w io.Writer, jobs []model.NormalizedJob, format string) error {
	if format == "table" {
		fmt.Fprintln(w, tui.JobTable(jobs))
		fmt.Fprintf(w, "%d vagas\n", len(jobs))
		return nil
	}
	if jobs == nil {
		jobs = []model.NormalizedJob{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(jobs)
}
