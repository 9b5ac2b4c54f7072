package notifier

import (
	"context"
	"log/slog"

	"github.com/metarh/vagas/internal/model"
)

var _ model.Notifier = (*LogNotifier)(nil)

// LogNotifier writes new postings to the given logger as structured messages.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs one line per job. It never fails.
func (n *LogNotifier) Notify(_ context.Context, jobs []model.NormalizedJob) error {
	for _, j := range jobs {
		args := []any{"id", j.ID, "title", j.Title, "city", j.City, "state", j.State, "url", j.URLApply}
		if j.Remote {
			args = append(args, "remote", true)
		}
		if j.PublishedAt != "" {
			args = append(args, "published_at", j.PublishedAt)
		}
		n.logger.Info("new job", args...)
	}
	return nil
}
