package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"hcroi/internal/ledger/core"
)

func TestStore_SaveGetList(t *testing.T) {
	ctx := context.Background()
	store := New()
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	runs := []core.Run{
		{ID: "b", CreatedAt: base},
		{ID: "a", CreatedAt: base},
		{ID: "c", CreatedAt: base.Add(-time.Hour), Models: []core.ModelSummary{{Target: "t", Model: "ridge", Selected: true}}},
	}
	for _, r := range runs {
		if err := store.SaveRun(ctx, r); err != nil {
			t.Fatalf("save %s: %v", r.ID, err)
		}
	}
	got, err := store.GetRun(ctx, "c")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if m, ok := got.Selected("t"); !ok || m.Model != "ridge" {
		t.Fatalf("unexpected selected model %+v", m)
	}
	list, err := store.ListRuns(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 || list[0].ID != "c" || list[1].ID != "a" || list[2].ID != "b" {
		t.Fatalf("unexpected order %v", list)
	}
	if _, err := store.GetRun(ctx, "missing"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := store.SaveRun(ctx, core.Run{}); !errors.Is(err, core.ErrInvalidRun) {
		t.Fatalf("expected ErrInvalidRun, got %v", err)
	}
	if store.Driver() != core.DriverMemory || store.Close() != nil {
		t.Fatal("unexpected driver or close error")
	}
}

func TestStore_ReturnsIndependentCopies(t *testing.T) {
	ctx := context.Background()
	store := New()
	run := core.Run{ID: "r", Artifacts: []core.Artifact{{Name: "derived.csv"}}}
	if err := store.SaveRun(ctx, run); err != nil {
		t.Fatalf("save: %v", err)
	}
	run.Artifacts[0].Name = "mutated"
	got, _ := store.GetRun(ctx, "r")
	if got.Artifacts[0].Name != "derived.csv" {
		t.Fatalf("ledger aliases caller slice: %v", got.Artifacts)
	}
}
