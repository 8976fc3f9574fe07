// Package ledger records a summary of every pipeline run. Callers depend on
// the Store interface and obtain an implementation through Open.
package ledger

import (
	"context"
	"fmt"

	"hcroi/internal/infra/ledger/memory"
	"hcroi/internal/infra/ledger/postgres"
	"hcroi/internal/infra/ledger/sqlite"
	"hcroi/internal/ledger/core"
)

type (
	Driver       = core.Driver
	Run          = core.Run
	ModelSummary = core.ModelSummary
	Weight       = core.Weight
	Scenario     = core.Scenario
	Artifact     = core.Artifact
	Store        = core.Store
)

const (
	DriverMemory   = core.DriverMemory
	DriverSQLite   = core.DriverSQLite
	DriverPostgres = core.DriverPostgres
)

var (
	ErrNotFound   = core.ErrNotFound
	ErrInvalidRun = core.ErrInvalidRun
)

// Config selects and configures a ledger driver.
type Config struct {
	Driver Driver
	Path   string // sqlite database file
	DSN    string // postgres connection string
}

// Open constructs the configured ledger. An empty driver selects memory.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Driver {
	case "", DriverMemory:
		return memory.New(), nil
	case DriverSQLite:
		return sqlite.NewStore(ctx, cfg.Path)
	case DriverPostgres:
		return postgres.NewStore(ctx, cfg.DSN)
	default:
		return nil, fmt.Errorf("unknown ledger driver %q", cfg.Driver)
	}
}
