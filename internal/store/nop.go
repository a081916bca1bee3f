package store

import "github.com/amishk599/jobpulse/internal/model"

// NopStore is used when run history is disabled. It records nothing.
type NopStore struct{}

func NewNopStore() *NopStore { return &NopStore{} }

func (s *NopStore) RecordRun(run model.RunSummary) error { return nil }
func (s *NopStore) RecentRuns(limit int) ([]model.RunSummary, error) { return nil, nil }
