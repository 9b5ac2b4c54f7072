package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/metarh/vagas/internal/model"
	"github.com/metarh/vagas/internal/normalize"
)

// Ensure Service implements model.JobFetcher.
var _ model.JobFetcher = (*Service)(nil)

// RawLister returns every raw feed item in upstream order.
type RawLister interface {
	FetchAll(ctx context.Context) ([]json.RawMessage, error)
}

// Service owns the retrieval pipeline: page → normalize → sort.
// Each call keeps its state local, so one Service can serve concurrent callers.
type Service struct {
	pager      RawLister
	normalizer *normalize.Normalizer
	logger     *slog.Logger
}

// NewService creates a service wired with all its dependencies.
func NewService(pager RawLister, normalizer *normalize.Normalizer, logger *slog.Logger) *Service {
	return &Service{
		pager:      pager,
		normalizer: normalizer,
		logger:     logger,
	}
}

// FetchJobs returns every job on the feed, most recent first. On failure it
// returns the pager's error, a *model.ConnectionError when every access
// strategy failed, and never a partial list. An empty feed is a nil error
// with zero jobs.
func (s *Service) FetchJobs(ctx context.Context) ([]model.NormalizedJob, error) {
	raw, err := s.pager.FetchAll(ctx)
	if err != nil {
		return nil, err
	}

	jobs, dropped := s.normalizer.NormalizeAll(raw)
	normalize.SortByPublished(jobs)

	s.logger.Info("jobs retrieved",
		"raw", len(raw),
		"jobs", len(jobs),
		"dropped", dropped,
	)
	return jobs, nil
}
