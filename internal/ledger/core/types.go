// Package core defines the run ledger records and the store contract shared
// by the ledger drivers.
package core

import (
	"context"
	"errors"
	"sort"
	"time"
)

// Driver identifies a ledger backend.
type Driver string

const (
	DriverMemory   Driver = "memory"
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// Run summarises one pipeline execution.
type Run struct {
	ID        string         `json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	Duration  time.Duration  `json:"duration_ns"`
	Benchmark string         `json:"benchmark"`
	Records   int            `json:"records"`
	Folds     int            `json:"folds"`
	Seed      uint64         `json:"seed"`
	Models    []ModelSummary `json:"models"`
	Scenarios []Scenario     `json:"scenarios,omitempty"`
	Artifacts []Artifact     `json:"artifacts"`
}

// ModelSummary is one candidate's cross-validation record for a target.
type ModelSummary struct {
	Target     string    `json:"target"`
	Model      string    `json:"model"`
	Selected   bool      `json:"selected"`
	FoldR2     []float64 `json:"fold_r2"`
	MeanR2     float64   `json:"mean_r2"`
	StdR2      float64   `json:"std_r2"`
	MSE        float64   `json:"mse"`
	MAE        float64   `json:"mae"`
	Importance []Weight  `json:"importance,omitempty"`
}

// Weight is a feature importance entry of a selected model.
type Weight struct {
	Feature    string  `json:"feature"`
	Importance float64 `json:"importance"`
}

// Scenario holds mean predictions per target for one policy scenario.
type Scenario struct {
	Name  string             `json:"name"`
	Means map[string]float64 `json:"means"`
}

// Artifact references a report written to the blob store.
type Artifact struct {
	Name   string `json:"name"`
	Key    string `json:"key"`
	Format string `json:"format"`
	Size   int64  `json:"size_bytes"`
	ETag   string `json:"etag,omitempty"`
}

// Selected returns the chosen model summary for target.
func (r Run) Selected(target string) (ModelSummary, bool) {
	for _, m := range r.Models {
		if m.Target == target && m.Selected {
			return m, true
		}
	}
	return ModelSummary{}, false
}

// Store persists run summaries. SaveRun replaces an existing run with the
// same ID.
type Store interface {
	SaveRun(ctx context.Context, run Run) error
	GetRun(ctx context.Context, id string) (Run, error)
	// ListRuns returns runs oldest first, ties broken by ID.
	ListRuns(ctx context.Context) ([]Run, error)
	Close() error
	Driver() Driver
}

var (
	// ErrNotFound is returned by GetRun for unknown IDs.
	ErrNotFound = errors.New("ledger: run not found")
	// ErrInvalidRun is returned when saving a run without an ID.
	ErrInvalidRun = errors.New("ledger: run id required")
)

// SortRuns orders runs oldest first, ties broken by ID.
func SortRuns(runs []Run) {
	sort.SliceStable(runs, func(i, j int) bool {
		if !runs[i].CreatedAt.Equal(runs[j].CreatedAt) {
			return runs[i].CreatedAt.Before(runs[j].CreatedAt)
		}
		return runs[i].ID < runs[j].ID
	})
}
