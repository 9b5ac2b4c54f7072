package normalize

import (
	"sort"
	"time"

	"github.com/metarh/vagas/internal/model"
)

var publishedLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParsePublished parses a feed timestamp. Missing or unparsable values yield
// the Unix epoch so they sort as the oldest.
func ParsePublished(s string) time.Time {
	for _, layout := range publishedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Unix(0, 0).UTC()
}

// SortByPublished orders jobs most recent first. Equal timestamps keep their
// input order.
func SortByPublished(jobs []model.NormalizedJob) {
	keys := make([]time.Time, len(jobs))
	for i, j := range jobs {
		keys[i] = ParsePublished(j.PublishedAt)
	}
	idx := make([]int, len(jobs))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return keys[idx[a]].After(keys[idx[b]])
	})

	sorted := make([]model.NormalizedJob, len(jobs))
	for i, k := range idx {
		sorted[i] = jobs[k]
	}
	copy(jobs, sorted)
}
