package pipeline

import (
	"context"
	"errors"
	"sync/atomic"
)

// Store publishes the current Dataset to concurrent readers. A dataset is
// swapped in whole, so readers never see a partial rebuild.
type Store struct {
	current atomic.Pointer[Dataset]
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{}
}

// Swap publishes ds and returns the dataset it replaced.
func (s *Store) Swap(ds *Dataset) *Dataset {
	return s.current.Swap(ds)
}

// Current returns the published dataset, or nil before the first Swap.
func (s *Store) Current() *Dataset {
	return s.current.Load()
}

// CheckReadiness returns nil once a dataset has been published.
func (s *Store) CheckReadiness(_ context.Context) error {
	if s.current.Load() == nil {
		return errors.New("no dataset has been prepared yet")
	}
	return nil
}

// ReadinessDetail describes the published dataset for the readiness endpoint.
func (s *Store) ReadinessDetail() map[string]any {
	ds := s.current.Load()
	if ds == nil {
		return nil
	}
	return map[string]any{
		"id":          ds.ID,
		"prepared_at": ds.PreparedAt,
		"games":       len(ds.Games),
		"empty_teams": len(ds.Report.EmptyTeams),
	}
}
