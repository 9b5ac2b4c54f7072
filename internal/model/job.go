package model

import (
	"context"
	"time"
)

// RawJobRecord is a single item from the Selecty job feed. The feed has no
// fixed schema; every field is optional and an empty Field means absent.
type RawJobRecord struct {
	ID              Field `json:"id"`
	Title           Field `json:"title"`
	Location        Field `json:"location"` // "city - state"
	ContractType    Field `json:"contractType"`
	Description     Field `json:"description"`
	Requirements    Field `json:"requirements"`
	Education       Field `json:"education"`
	Qualification   Field `json:"qualification"`
	Benefits        Field `json:"benefits"`
	WorkSchedule    Field `json:"workSchedule"`
	ActingArea      Field `json:"actingArea"`
	Occupation      Field `json:"occupation"`
	PublicationDate Field `json:"publicationDate"`
	CreatedAt       Field `json:"created_at"`
	SubscriptionURL Field `json:"subscriptionUrl"`
	URL             Field `json:"url"`
}

// NormalizedJob is the display-ready shape handed to the job board.
type NormalizedJob struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"` // HTML
	Summary      string `json:"summary"`     // plain text
	City         string `json:"city"`
	State        string `json:"state"`
	Department   string `json:"department"`
	ContractType string `json:"contract_type"`
	PublishedAt  string `json:"published_at"`
	URLApply     string `json:"url_apply"`
	Remote       bool   `json:"remote"`
}

// DocumentFetcher retrieves one upstream JSON document.
// The strategy chain implements it; decorators wrap it.
type DocumentFetcher interface {
	Fetch(ctx context.Context, targetURL, token string) ([]byte, error)
}

// JobFetcher returns the full, normalized and sorted job list.
type JobFetcher interface {
	FetchJobs(ctx context.Context) ([]NormalizedJob, error)
}

// IDGenerator supplies identifiers for records that arrive without one.
type IDGenerator interface {
	NewID() string
}

// SnapshotStore keeps the last successful retrieval.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, jobs []NormalizedJob) error
	LoadSnapshot(ctx context.Context) ([]NormalizedJob, time.Time, error)
}

// JobFilter decides whether a job matches the user's criteria.
type JobFilter interface {
	Match(job NormalizedJob) bool
}

// Notifier announces postings that appeared since the previous snapshot.
type Notifier interface {
	Notify(ctx context.Context, jobs []NormalizedJob) error
}
