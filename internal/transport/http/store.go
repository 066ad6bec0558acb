package http

import (
	"sync"

	"courieraudit/pkg/contracts/domain"
)

// RunStore keeps completed run results in memory, keyed by run ID.
// It is safe for concurrent use.
type RunStore struct {
	mu   sync.RWMutex
	runs map[string]*domain.RunResult
}

// NewRunStore creates an empty run store.
func NewRunStore() *RunStore {
	return &RunStore{
		runs: make(map[string]*domain.RunResult),
	}
}

// Put stores a completed run result under its run ID.
func (s *RunStore) Put(result *domain.RunResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[result.RunID] = result
}

// Get returns the run result for the given ID, if present.
func (s *RunStore) Get(runID string) (*domain.RunResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result, ok := s.runs[runID]
	return result, ok
}

// Len returns the number of stored runs.
func (s *RunStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.runs)
}
