// Package pipeline runs the batch: load the state table, derive features,
// select a model per target, predict policy scenarios, render the reports
// and record the run.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"hcroi/internal/blob"
	"hcroi/internal/config"
	"hcroi/internal/ctxlog"
	"hcroi/internal/features"
	"hcroi/internal/learn"
	"hcroi/internal/ledger"
	"hcroi/internal/metrics"
	"hcroi/internal/report"
	"hcroi/internal/scenario"
	"hcroi/internal/states"
)

// Stage names used in logs and the stage duration histogram.
const (
	StageLoad      = "load"
	StageDerive    = "derive"
	StageValidate  = "validate"
	StageSelect    = "select"
	StageScenarios = "scenarios"
	StageRender    = "render"
	StageExport    = "export"
	StageLedger    = "ledger"
)

const metricsArtifact = "metrics.prom"

// Deps are the run's collaborators. Blob and Ledger are required.
type Deps struct {
	Blob   blob.Store
	Ledger ledger.Store
	Audit  report.AuditLogger
	Now    func() time.Time
	NewID  func() string
}

// Result is what a completed run produced.
type Result struct {
	RunID      string
	Frame      features.Frame
	Selections []learn.Selection
	Summaries  []scenario.Summary
	Artifacts  []report.StoredArtifact
	Run        ledger.Run
	Metrics    *metrics.Recorder
}

type runner struct {
	cfg     config.Config
	deps    Deps
	runID   string
	metrics *metrics.Recorder
}

// Run executes every stage in order on the calling goroutine. The first
// failing stage aborts the run.
func Run(ctx context.Context, cfg config.Config, deps Deps) (Result, error) {
	if deps.Blob == nil || deps.Ledger == nil {
		return Result{}, errors.New("pipeline: blob store and ledger are required")
	}
	if deps.Now == nil {
		deps.Now = func() time.Time { return time.Now().UTC() }
	}
	if deps.NewID == nil {
		deps.NewID = uuid.NewString
	}
	runID := cfg.RunID
	if runID == "" {
		runID = deps.NewID()
	}
	r := &runner{cfg: cfg, deps: deps, runID: runID, metrics: metrics.NewRecorder(runID)}
	ctx = ctxlog.WithLogger(ctx, ctxlog.FromContext(ctx).With("run_id", runID))
	started := deps.Now()
	logger := ctxlog.FromContext(ctx)
	logger.Info("run started", "benchmark", cfg.Benchmark, "folds", cfg.Folds, "seed", cfg.Seed, "blob", deps.Blob.Driver(), "ledger", deps.Ledger.Driver())

	res := Result{RunID: runID, Metrics: r.metrics}
	var table states.Table
	err := r.stage(ctx, StageLoad, func() (err error) {
		table, err = states.Load()
		if err == nil {
			r.metrics.SetRecords(table.Len())
		}
		return err
	})
	if err != nil {
		return res, err
	}

	err = r.stage(ctx, StageDerive, func() (err error) {
		res.Frame, err = features.Derive(table, features.Options{Benchmark: cfg.Benchmark})
		return err
	})
	if err != nil {
		return res, err
	}

	if err := r.stage(ctx, StageValidate, res.Frame.CheckScales); err != nil {
		return res, err
	}

	err = r.stage(ctx, StageSelect, func() (err error) {
		res.Selections, err = r.selectModels(ctx, res.Frame)
		return err
	})
	if err != nil {
		return res, err
	}

	var outcomes []scenario.Outcome
	err = r.stage(ctx, StageScenarios, func() (err error) {
		outcomes, err = scenario.Run(res.Frame, res.Selections, scenario.Defaults())
		res.Summaries = scenario.Summarise(outcomes)
		return err
	})
	if err != nil {
		return res, err
	}

	var artifacts []report.Artifact
	err = r.stage(ctx, StageRender, func() (err error) {
		artifacts, err = report.Render(report.Input{
			RunID:      runID,
			Frame:      res.Frame,
			Selections: res.Selections,
			Outcomes:   outcomes,
			Summaries:  res.Summaries,
			Sources:    states.Sources(),
		}, cfg.Artifacts)
		return err
	})
	if err != nil {
		return res, err
	}

	exporter := report.NewExporter(deps.Blob, deps.Audit)
	err = r.stage(ctx, StageExport, func() error {
		stored, err := exporter.Export(ctx, runID, artifacts)
		res.Artifacts = append(res.Artifacts, stored...)
		for _, a := range stored {
			r.metrics.AddArtifact(string(a.Format), a.SizeBytes)
		}
		return err
	})
	if err != nil {
		return res, err
	}

	err = r.stage(ctx, StageLedger, func() error {
		res.Run = r.ledgerRun(res, started)
		return deps.Ledger.SaveRun(ctx, res.Run)
	})
	if err != nil {
		return res, err
	}

	// The exposition is written last so it covers every stage above.
	prom, err := r.metrics.Encode()
	if err != nil {
		return res, fmt.Errorf("encode metrics: %w", err)
	}
	stored, err := exporter.Export(ctx, runID, []report.Artifact{{Name: metricsArtifact, Format: report.FormatProm, Payload: prom}})
	if err != nil {
		return res, fmt.Errorf("export metrics: %w", err)
	}
	res.Artifacts = append(res.Artifacts, stored...)
	res.Run.Artifacts = append(res.Run.Artifacts, ledgerArtifacts(stored)...)
	if err := deps.Ledger.SaveRun(ctx, res.Run); err != nil {
		return res, fmt.Errorf("ledger: %w", err)
	}

	logger.Info("run finished", "artifacts", len(res.Artifacts), "duration", deps.Now().Sub(started))
	return res, nil
}

func (r *runner) stage(ctx context.Context, name string, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	logger := ctxlog.FromContext(ctx).With("stage", name)
	logger.Debug("stage started")
	start := time.Now()
	err := fn()
	elapsed := time.Since(start)
	r.metrics.ObserveStage(name, elapsed)
	if err != nil {
		logger.Error("stage failed", "duration", elapsed, "error", err)
		return fmt.Errorf("%s: %w", name, err)
	}
	logger.Info("stage finished", "duration", elapsed)
	return nil
}

func (r *runner) selectModels(ctx context.Context, frame features.Frame) ([]learn.Selection, error) {
	candidates := r.cfg.Candidates()
	folds, err := learn.KFold(frame.Len(), r.cfg.Folds, r.cfg.Seed)
	if err != nil {
		return nil, err
	}
	x := frame.FeatureMatrix()
	logger := ctxlog.FromContext(ctx)
	out := make([]learn.Selection, 0, len(features.Targets))
	for _, target := range features.Targets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		y, err := frame.Target(target)
		if err != nil {
			return nil, err
		}
		sel, err := learn.Select(target, candidates, x, y, folds)
		if err != nil {
			return nil, err
		}
		for _, s := range sel.Scores {
			r.metrics.SetScore(target, s.Model, s.MeanR2)
			logger.Debug("model scored", "target", target, "model", s.Model, "mean_r2", s.MeanR2, "std_r2", s.StdR2)
		}
		best := sel.BestScore()
		r.metrics.MarkSelected(target, best.Model)
		logger.Info("model selected", "target", target, "model", best.Model, "mean_r2", best.MeanR2)
		out = append(out, sel)
	}
	return out, nil
}

func (r *runner) ledgerRun(res Result, started time.Time) ledger.Run {
	run := ledger.Run{
		ID:        r.runID,
		CreatedAt: started,
		Duration:  r.deps.Now().Sub(started),
		Benchmark: res.Frame.Benchmark(),
		Records:   res.Frame.Len(),
		Folds:     r.cfg.Folds,
		Seed:      r.cfg.Seed,
		Artifacts: ledgerArtifacts(res.Artifacts),
	}
	names := features.FeatureNames()
	for _, sel := range res.Selections {
		for i, s := range sel.Scores {
			m := ledger.ModelSummary{
				Target:   sel.Target,
				Model:    s.Model,
				Selected: i == sel.Best,
				FoldR2:   s.FoldR2,
				MeanR2:   s.MeanR2,
				StdR2:    s.StdR2,
				MSE:      s.MSE,
				MAE:      s.MAE,
			}
			if m.Selected {
				for _, w := range learn.Rank(names, sel.Importance) {
					m.Importance = append(m.Importance, ledger.Weight{Feature: w.Feature, Importance: w.Importance})
				}
			}
			run.Models = append(run.Models, m)
		}
	}
	for _, s := range res.Summaries {
		run.Scenarios = append(run.Scenarios, ledger.Scenario{Name: s.Scenario, Means: s.Means})
	}
	return run
}

func ledgerArtifacts(stored []report.StoredArtifact) []ledger.Artifact {
	out := make([]ledger.Artifact, 0, len(stored))
	for _, a := range stored {
		out = append(out, ledger.Artifact{Name: a.Name, Key: a.Key, Format: string(a.Format), Size: a.SizeBytes, ETag: a.ETag})
	}
	return out
}

// Open builds the blob store and ledger named by cfg. The returned close
// function releases the ledger.
func Open(ctx context.Context, cfg config.Config) (Deps, func() error, error) {
	store, err := blob.Open(ctx, cfg.Blob)
	if err != nil {
		return Deps{}, nil, fmt.Errorf("open blob store: %w", err)
	}
	led, err := ledger.Open(ctx, cfg.Ledger)
	if err != nil {
		return Deps{}, nil, fmt.Errorf("open ledger: %w", err)
	}
	return Deps{Blob: store, Ledger: led, Audit: report.SlogAudit{}}, led.Close, nil
}
