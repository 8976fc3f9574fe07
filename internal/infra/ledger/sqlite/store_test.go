package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"hcroi/internal/ledger/core"
)

func TestStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "ledger.db")
	store, err := NewStore(ctx, path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	run := core.Run{
		ID:        "run-1",
		CreatedAt: created,
		Benchmark: "MA",
		Records:   50,
		Models:    []core.ModelSummary{{Target: "projected_roi_20yr", Model: "ridge", Selected: true, MeanR2: 0.9}},
		Artifacts: []core.Artifact{{Name: "derived.csv", Key: "run-1/derived.csv", Format: "csv", Size: 10}},
	}
	if err := store.SaveRun(ctx, run); err != nil {
		t.Fatalf("save: %v", err)
	}
	run.Records = 49
	if err := store.SaveRun(ctx, run); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if store.Path() != path || store.Driver() != core.DriverSQLite {
		t.Fatalf("unexpected path or driver")
	}
	var rows int
	if err := store.DB().QueryRowContext(ctx, `SELECT COUNT(*) FROM runs`).Scan(&rows); err != nil || rows != 1 {
		t.Fatalf("expected upsert to keep one row, got %d (%v)", rows, err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := NewStore(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = reopened.Close() }()
	got, err := reopened.GetRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Records != 49 || !got.CreatedAt.Equal(created) || len(got.Artifacts) != 1 {
		t.Fatalf("unexpected run %+v", got)
	}
	list, err := reopened.ListRuns(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("list: %v %d", err, len(list))
	}
	if _, err := reopened.GetRun(ctx, "nope"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_RejectsRunWithoutID(t *testing.T) {
	store, err := NewStore(context.Background(), filepath.Join(t.TempDir(), "l.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = store.Close() }()
	if err := store.SaveRun(context.Background(), core.Run{}); !errors.Is(err, core.ErrInvalidRun) {
		t.Fatalf("expected ErrInvalidRun, got %v", err)
	}
}

func TestStore_DecodeFailure(t *testing.T) {
	ctx := context.Background()
	store, err := NewStore(ctx, filepath.Join(t.TempDir(), "l.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = store.Close() }()
	if _, err := store.DB().ExecContext(ctx, `INSERT INTO runs(id,created_at,payload) VALUES('bad','x','{')`); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := store.GetRun(ctx, "bad"); err == nil {
		t.Fatal("expected decode error")
	}
	if _, err := store.ListRuns(ctx); err == nil {
		t.Fatal("expected decode error from list")
	}
}
