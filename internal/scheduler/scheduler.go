package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/metarh/vagas/internal/model"
)

// Scheduler owns the refresh loop: it retrieves the job list on an interval
// and stores every successful result as the current snapshot.
type Scheduler struct {
	fetcher  model.JobFetcher
	store    model.SnapshotStore
	interval time.Duration
	notifier model.Notifier
	observer RefreshObserver
	logger   *slog.Logger
}

// RefreshObserver is told the outcome of every refresh.
type RefreshObserver interface {
	ObserveRefresh(ok bool, jobs int, elapsed time.Duration)
}

// NewScheduler creates a scheduler that refreshes the snapshot at the given interval.
func NewScheduler(fetcher model.JobFetcher, store model.SnapshotStore, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		fetcher:  fetcher,
		store:    store,
		interval: interval,
		logger:   logger,
	}
}

// SetNotifier announces postings that were absent from the previous snapshot.
// Nothing is announced on the refresh that creates the first snapshot.
func (s *Scheduler) SetNotifier(n model.Notifier) {
	s.notifier = n
}

// SetObserver registers an observer for refresh outcomes.
func (s *Scheduler) SetObserver(o RefreshObserver) {
	s.observer = o
}

// Run starts the refresh loop. It runs one immediate refresh, then ticks on
// the configured interval. It returns nil when ctx is cancelled (graceful shutdown).
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("starting scheduler", "interval", s.interval.String())

	s.Refresh(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("shutting down scheduler")
			return nil
		case <-time.After(s.interval):
			s.Refresh(ctx)
		}
	}
}

// Refresh performs one retrieval. A failed retrieval leaves the previous
// snapshot in place.
func (s *Scheduler) Refresh(ctx context.Context) bool {
	start := time.Now()
	ok, count := s.refresh(ctx)
	if s.observer != nil && ctx.Err() == nil {
		s.observer.ObserveRefresh(ok, count, time.Since(start))
	}
	return ok
}

func (s *Scheduler) refresh(ctx context.Context) (bool, int) {
	jobs, err := s.fetcher.FetchJobs(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return false, 0
		}
		args := []any{"error", err}
		var connErr *model.ConnectionError
		if errors.As(err, &connErr) {
			args = append(args, "detail", connErr.Detail())
		}
		s.logger.Error("refresh failed, keeping previous snapshot", args...)
		return false, 0
	}

	var previous []model.NormalizedJob
	baseline := true
	if s.notifier != nil {
		if prev, _, err := s.store.LoadSnapshot(ctx); err == nil {
			previous, baseline = prev, false
		}
	}

	if err := s.store.SaveSnapshot(ctx, jobs); err != nil {
		s.logger.Error("saving snapshot failed", "error", err)
		return false, 0
	}

	s.logger.Info("snapshot refreshed", "jobs", len(jobs))

	if s.notifier != nil && !baseline {
		if added := NewJobs(previous, jobs); len(added) > 0 {
			s.logger.Info("new jobs since last snapshot", "count", len(added))
			if err := s.notifier.Notify(ctx, added); err != nil {
				s.logger.Error("notification failed", "error", err)
			}
		}
	}
	return true, len(jobs)
}

// NewJobs returns the jobs in current whose ID does not appear in previous,
// in current's order.
func NewJobs(previous, current []model.NormalizedJob) []model.NormalizedJob {
	seen := make(map[string]struct{}, len(previous))
	for _, j := range previous {
		seen[j.ID] = struct{}{}
	}
	var added []model.NormalizedJob
	for _, j := range current {
		if _, ok := seen[j.ID]; !ok {
			added = append(added, j)
		}
	}
	return added
}
