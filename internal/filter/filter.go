package filter

import (
	"strings"

	"github.com/metarh/vagas/internal/model"
)

// Ensure JobFilter implements model.JobFilter.
var _ model.JobFilter = (*JobFilter)(nil)

// JobFilter narrows the normalized job list for display. Matching is
// case-insensitive and empty lists are treated as "match all".
type JobFilter struct {
	keywords    []string // any must appear in the title
	states      []string // exact state match
	departments []string // exact department match
	remoteOnly  bool
}

// NewJobFilter returns a filter requiring a title keyword, a state and a
// department match, and optionally the remote flag.
func NewJobFilter(keywords, states, departments []string, remoteOnly bool) *JobFilter {
	return &JobFilter{
		keywords:    lowerAll(keywords),
		states:      lowerAll(states),
		departments: lowerAll(departments),
		remoteOnly:  remoteOnly,
	}
}

// Match returns true if the job passes every configured criterion.
func (f *JobFilter) Match(job model.NormalizedJob) bool {
	if f.remoteOnly && !job.Remote {
		return false
	}

	if len(f.keywords) > 0 {
		titleLower := strings.ToLower(job.Title)
		matched := false
		for _, kw := range f.keywords {
			if strings.Contains(titleLower, kw) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	if len(f.states) > 0 && !contains(f.states, strings.ToLower(job.State)) {
		return false
	}
	if len(f.departments) > 0 && !contains(f.departments, strings.ToLower(job.Department)) {
		return false
	}

	return true
}

// Apply returns the jobs that match, preserving order.
func Apply(f model.JobFilter, jobs []model.NormalizedJob) []model.NormalizedJob {
	var out []model.NormalizedJob
	for _, j := range jobs {
		if f.Match(j) {
			out = append(out, j)
		}
	}
	return out
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func lowerAll(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, strings.ToLower(s))
		}
	}
	return out
}
