package store

import (
	"context"
	"time"

	"github.com/metarh/vagas/internal/model"
)

// Ensure NopStore implements model.SnapshotStore.
var _ model.SnapshotStore = (*NopStore)(nil)

// NopStore is a no-op store used when persistence is off. It discards saves
// and never has a snapshot.
type NopStore struct{}

func NewNopStore() *NopStore { return &NopStore{} }

func (s *NopStore) SaveSnapshot(context.Context, []model.NormalizedJob) error { return nil }
func (s *NopStore) LoadSnapshot(context.Context) ([]model.NormalizedJob, time.Time, error) {
	return nil, time.Time{}, ErrNoSnapshot
}
