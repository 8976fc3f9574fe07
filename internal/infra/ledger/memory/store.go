// Package memory keeps the run ledger in process memory.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"hcroi/internal/ledger/core"
)

// Store implements core.Store. Runs are stored as JSON so callers never
// share slices or maps with the ledger.
type Store struct {
	mu   sync.RWMutex
	runs map[string][]byte
}

// New returns an empty ledger.
func New() *Store { return &Store{runs: make(map[string][]byte)} }

func (s *Store) Driver() core.Driver { return core.DriverMemory }

func (s *Store) SaveRun(_ context.Context, run core.Run) error {
	if run.ID == "" {
		return core.ErrInvalidRun
	}
	payload, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("encode run %s: %w", run.ID, err)
	}
	s.mu.Lock()
	s.runs[run.ID] = payload
	s.mu.Unlock()
	return nil
}

func (s *Store) GetRun(_ context.Context, id string) (core.Run, error) {
	s.mu.RLock()
	payload, ok := s.runs[id]
	s.mu.RUnlock()
	if !ok {
		return core.Run{}, fmt.Errorf("%w: %s", core.ErrNotFound, id)
	}
	var run core.Run
	if err := json.Unmarshal(payload, &run); err != nil {
		return core.Run{}, fmt.Errorf("decode run %s: %w", id, err)
	}
	return run, nil
}

func (s *Store) ListRuns(_ context.Context) ([]core.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	runs := make([]core.Run, 0, len(s.runs))
	for id, payload := range s.runs {
		var run core.Run
		if err := json.Unmarshal(payload, &run); err != nil {
			return nil, fmt.Errorf("decode run %s: %w", id, err)
		}
		runs = append(runs, run)
	}
	core.SortRuns(runs)
	return runs, nil
}

func (s *Store) Close() error { return nil }
