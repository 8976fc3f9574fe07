package pipeline

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"hcroi/internal/blob"
	"hcroi/internal/config"
	"hcroi/internal/ctxlog"
	"hcroi/internal/features"
	"hcroi/internal/ledger"
	"hcroi/internal/report"
)

func testConfig(t *testing.T, models ...string) config.Config {
	t.Helper()
	cfg, err := config.Load("", []string{"HCROI_MODELS=" + strings.Join(models, ",")}, config.Overrides{OutDir: t.TempDir()})
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	cfg.Ledger = ledger.Config{Driver: ledger.DriverMemory}
	cfg.Blob = blob.Config{Driver: blob.DriverMemory}
	return cfg
}

func testDeps(t *testing.T) Deps {
	t.Helper()
	led, err := ledger.Open(context.Background(), ledger.Config{Driver: ledger.DriverMemory})
	if err != nil {
		t.Fatalf("ledger: %v", err)
	}
	clock := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	return Deps{
		Blob:   blob.NewMemory(),
		Ledger: led,
		Audit:  &report.MemoryAuditLog{},
		Now:    func() time.Time { return clock },
	}
}

func readBlob(t *testing.T, store blob.Store, key string) []byte {
	t.Helper()
	_, rc, err := store.Get(context.Background(), key)
	if err != nil {
		t.Fatalf("get %s: %v", key, err)
	}
	defer rc.Close()
	b, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read %s: %v", key, err)
	}
	return b
}

func TestRunIsIdempotentOnStaticInput(t *testing.T) {
	ctx := ctxlog.WithLogger(context.Background(), ctxlog.Discard())
	cfg := testConfig(t, "ridge", "elastic_net")
	deps := testDeps(t)

	cfg.RunID = "first"
	first, err := Run(ctx, cfg, deps)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	cfg.RunID = "second"
	second, err := Run(ctx, cfg, deps)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	a := readBlob(t, deps.Blob, "first/derived_table.csv")
	b := readBlob(t, deps.Blob, "second/derived_table.csv")
	if !bytes.Equal(a, b) {
		t.Fatalf("derived table csv differs between runs")
	}
	if first.Selections[0].BestScore().Model != second.Selections[0].BestScore().Model {
		t.Fatalf("model selection is not deterministic")
	}
	for i, s := range first.Selections[0].Scores {
		if s.MeanR2 != second.Selections[0].Scores[i].MeanR2 {
			t.Fatalf("cross-validation scores differ for %s", s.Model)
		}
	}
}

func TestRunRecordsLedgerAndArtifacts(t *testing.T) {
	ctx := ctxlog.WithLogger(context.Background(), ctxlog.Discard())
	cfg := testConfig(t, "ridge", "elastic_net")
	deps := testDeps(t)
	deps.NewID = func() string { return "generated-id" }

	res, err := Run(ctx, cfg, deps)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.RunID != "generated-id" {
		t.Fatalf("expected generated run id, got %s", res.RunID)
	}
	if len(res.Selections) != len(features.Targets) {
		t.Fatalf("expected one selection per target, got %d", len(res.Selections))
	}

	names := make(map[string]bool)
	for _, a := range res.Artifacts {
		names[a.Name] = true
		if !strings.HasPrefix(a.Key, "generated-id/") {
			t.Fatalf("artifact %s stored outside the run prefix: %s", a.Name, a.Key)
		}
	}
	for _, want := range []string{"derived_table.csv", "summary.txt", "dashboard.html", "scenarios.html", "roi_by_state.png", "workbook.xlsx", "model_summary.json", metricsArtifact} {
		if !names[want] {
			t.Fatalf("missing artifact %s", want)
		}
	}

	run, err := deps.Ledger.GetRun(ctx, "generated-id")
	if err != nil {
		t.Fatalf("get run: %v", err)
	}
	if run.Records != 50 || run.Benchmark != "MA" || run.Folds != 5 {
		t.Fatalf("unexpected run header %+v", run)
	}
	if len(run.Models) != len(features.Targets)*2 {
		t.Fatalf("expected %d model summaries, got %d", len(features.Targets)*2, len(run.Models))
	}
	if len(run.Artifacts) != len(res.Artifacts) {
		t.Fatalf("ledger artifacts %d != stored %d", len(run.Artifacts), len(res.Artifacts))
	}
	for _, sel := range res.Selections {
		chosen, ok := run.Selected(sel.Target)
		if !ok {
			t.Fatalf("no selected model recorded for %s", sel.Target)
		}
		if chosen.Model != sel.BestScore().Model || len(chosen.Importance) == 0 {
			t.Fatalf("ledger selection mismatch for %s: %+v", sel.Target, chosen)
		}
		for _, m := range run.Models {
			if m.Target == sel.Target && m.MeanR2 > chosen.MeanR2 {
				t.Fatalf("%s: %s scored %v above selected %s %v", sel.Target, m.Model, m.MeanR2, chosen.Model, chosen.MeanR2)
			}
		}
	}
	if len(run.Scenarios) != 4 {
		t.Fatalf("expected 4 scenario summaries, got %d", len(run.Scenarios))
	}

	prom := string(readBlob(t, deps.Blob, "generated-id/"+metricsArtifact))
	for _, want := range []string{"hcroi_stage_duration_seconds", "hcroi_cv_r2", `stage="ledger"`, `run_id="generated-id"`} {
		if !strings.Contains(prom, want) {
			t.Fatalf("metrics exposition missing %q", want)
		}
	}

	audit := deps.Audit.(*report.MemoryAuditLog).Entries()
	if len(audit) != len(res.Artifacts) {
		t.Fatalf("expected one audit entry per artifact, got %d", len(audit))
	}
}

func TestRunWithDefaultModels(t *testing.T) {
	ctx := ctxlog.WithLogger(context.Background(), ctxlog.Discard())
	cfg := testConfig(t)
	cfg.Artifacts = []report.Format{report.FormatCSV, report.FormatText}
	deps := testDeps(t)
	res, err := Run(ctx, cfg, deps)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, sel := range res.Selections {
		if len(sel.Scores) != 4 {
			t.Fatalf("%s: expected 4 candidates scored, got %d", sel.Target, len(sel.Scores))
		}
		best := sel.BestScore()
		for _, s := range sel.Scores {
			if s.MeanR2 > best.MeanR2 {
				t.Fatalf("%s: %s beats selected %s", sel.Target, s.Model, best.Model)
			}
		}
	}
}

func TestRunFailsOnUnknownBenchmark(t *testing.T) {
	ctx := ctxlog.WithLogger(context.Background(), ctxlog.Discard())
	cfg := testConfig(t, "ridge")
	cfg.Benchmark = "ZZ"
	_, err := Run(ctx, cfg, testDeps(t))
	if err == nil || !strings.HasPrefix(err.Error(), StageDerive+":") {
		t.Fatalf("expected derive failure, got %v", err)
	}
}

func TestRunRejectsReusedRunID(t *testing.T) {
	ctx := ctxlog.WithLogger(context.Background(), ctxlog.Discard())
	cfg := testConfig(t, "ridge")
	cfg.RunID = "fixed"
	cfg.Artifacts = []report.Format{report.FormatCSV}
	deps := testDeps(t)
	if _, err := Run(ctx, cfg, deps); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if _, err := Run(ctx, cfg, deps); !errors.Is(err, blob.ErrExists) {
		t.Fatalf("expected ErrExists for reused run id, got %v", err)
	}
}

func TestRunHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(ctxlog.WithLogger(context.Background(), ctxlog.Discard()))
	cancel()
	_, err := Run(ctx, testConfig(t, "ridge"), testDeps(t))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRunRequiresDeps(t *testing.T) {
	if _, err := Run(context.Background(), testConfig(t, "ridge"), Deps{}); err == nil {
		t.Fatalf("expected error without blob store and ledger")
	}
}

func TestOpenUsesConfiguredDrivers(t *testing.T) {
	cfg, err := config.Load("", nil, config.Overrides{OutDir: t.TempDir()})
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	deps, closeFn, err := Open(context.Background(), cfg)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer closeFn()
	if deps.Blob.Driver() != blob.DriverFilesystem || deps.Ledger.Driver() != ledger.DriverSQLite {
		t.Fatalf("unexpected drivers %s / %s", deps.Blob.Driver(), deps.Ledger.Driver())
	}
}
