// Package blob is the only entry point to the artifact store drivers. Other
// packages depend on the Store interface and obtain one through Open.
package blob

import (
	"context"
	"fmt"

	"hcroi/internal/blob/core"
	"hcroi/internal/infra/blob/fs"
	memorystore "hcroi/internal/infra/blob/memory"
	infraS3 "hcroi/internal/infra/blob/s3"
)

type (
	// Driver identifies a blob backend driver.
	Driver = core.Driver
	// PutOptions configures a blob write.
	PutOptions = core.PutOptions
	// SignedURLOptions configures URL pre-signing.
	SignedURLOptions = core.SignedURLOptions
	// Info describes stored blob metadata.
	Info = core.Info
	// Store is the interface for blob storage backends.
	Store = core.Store
	// S3Config configures the S3 driver.
	S3Config = infraS3.Config
)

const (
	DriverFilesystem = core.DriverFilesystem
	DriverS3         = core.DriverS3
	DriverMemory     = core.DriverMemory
)

var (
	ErrUnsupported = core.ErrUnsupported
	ErrExists      = core.ErrExists
	ErrNotFound    = core.ErrNotFound
	ErrTooLarge    = core.ErrTooLarge
	ErrInvalidKey  = core.ErrInvalidKey
)

// CleanKey validates and normalises an object key.
func CleanKey(key string) (string, error) { return core.CleanKey(key) }

// Config selects and configures a driver.
type Config struct {
	Driver Driver
	FSRoot string
	S3     S3Config
}

// Open constructs the configured store. An empty driver selects the
// filesystem.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Driver {
	case "", DriverFilesystem:
		return fs.New(cfg.FSRoot)
	case DriverS3:
		return infraS3.New(ctx, cfg.S3)
	case DriverMemory:
		return memorystore.New(), nil
	default:
		return nil, fmt.Errorf("unknown blob driver %q", cfg.Driver)
	}
}

// NewMemory returns an in-memory store.
func NewMemory() Store { return memorystore.New() }

// NewMockS3ForTests exposes the fake-bucket S3 store for cross-package tests.
func NewMockS3ForTests() Store { return infraS3.NewMockForTests() }
