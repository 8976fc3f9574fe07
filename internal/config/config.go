// Package config resolves the pipeline settings. Values are layered:
// built-in defaults, then an optional HCL file, then HCROI_* environment
// variables, then command-line flags applied by the caller.
//
// Environment variables:
//
//	HCROI_RUN_ID, HCROI_OUT, HCROI_BENCHMARK, HCROI_FOLDS, HCROI_SEED
//	HCROI_MODELS: comma separated subset of the configured models
//	HCROI_ARTIFACTS: comma separated formats (csv,text,png,html,xlsx,json)
//	HCROI_BLOB_DRIVER: fs|s3|memory (default fs, rooted at the output dir)
//	HCROI_BLOB_S3_BUCKET, HCROI_BLOB_S3_REGION, HCROI_BLOB_S3_PREFIX,
//	HCROI_BLOB_S3_ENDPOINT, HCROI_BLOB_S3_PATH_STYLE,
//	HCROI_BLOB_S3_ACCESS_KEY_ID, HCROI_BLOB_S3_SECRET_ACCESS_KEY
//	HCROI_LEDGER_DRIVER: memory|sqlite|postgres (default sqlite)
//	HCROI_LEDGER_PATH, HCROI_LEDGER_DSN
//	HCROI_LOG_LEVEL, HCROI_LOG_FORMAT
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"hcroi/internal/blob"
	"hcroi/internal/ctxlog"
	"hcroi/internal/features"
	"hcroi/internal/learn"
	"hcroi/internal/ledger"
	"hcroi/internal/report"
	"hcroi/internal/states"
)

// Model names accepted in configuration, in tie-break order.
const (
	ModelRandomForest     = "random_forest"
	ModelGradientBoosting = "gradient_boosting"
	ModelRidge            = "ridge"
	ModelElasticNet       = "elastic_net"
)

var modelOrder = []string{ModelRandomForest, ModelGradientBoosting, ModelRidge, ModelElasticNet}

// Model holds one estimator's hyper-parameters. Only the fields relevant to
// Name are read.
type Model struct {
	Name         string
	Trees        int
	MaxDepth     int
	Stages       int
	LearningRate float64
	Alpha        float64
	L1Ratio      float64
}

// Config is the resolved pipeline configuration.
type Config struct {
	RunID     string
	OutDir    string
	Benchmark string
	Folds     int
	Seed      uint64
	Models    []Model
	Artifacts []report.Format
	Blob      blob.Config
	Ledger    ledger.Config
	LogLevel  string
	LogFormat string
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		OutDir:    "./out",
		Benchmark: features.DefaultBenchmark,
		Folds:     5,
		Seed:      learn.DefaultSeed,
		Models: []Model{
			{Name: ModelRandomForest, Trees: 100, MaxDepth: 3},
			{Name: ModelGradientBoosting, Stages: 100, MaxDepth: 3, LearningRate: 0.1},
			{Name: ModelRidge, Alpha: 1.0},
			{Name: ModelElasticNet, Alpha: 0.1, L1Ratio: 0.5},
		},
		Artifacts: slices.Clone(report.Formats),
		Blob:      blob.Config{Driver: blob.DriverFilesystem},
		Ledger:    ledger.Config{Driver: ledger.DriverSQLite},
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// Overrides carries command-line flags; empty fields leave the lower layers
// in place.
type Overrides struct {
	RunID     string
	OutDir    string
	LogLevel  string
	LogFormat string
}

// Load resolves defaults, the HCL file at path (skipped when empty), the
// HCROI_* variables found in environ and the flag overrides, then validates
// the result. environ uses the os.Environ format.
func Load(path string, environ []string, flags Overrides) (Config, error) {
	cfg := Default()
	env := envMap(environ)
	if path != "" {
		if err := applyFile(&cfg, path, env); err != nil {
			return Config{}, err
		}
	}
	if err := applyEnv(&cfg, env); err != nil {
		return Config{}, err
	}
	flags.apply(&cfg)
	cfg.finalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (o Overrides) apply(cfg *Config) {
	for dst, v := range map[*string]string{
		&cfg.RunID:     o.RunID,
		&cfg.OutDir:    o.OutDir,
		&cfg.LogLevel:  o.LogLevel,
		&cfg.LogFormat: o.LogFormat,
	} {
		if v != "" {
			*dst = v
		}
	}
}

// finalize fills values derived from other settings.
func (c *Config) finalize() {
	c.Benchmark = strings.ToUpper(strings.TrimSpace(c.Benchmark))
	if c.Blob.Driver == blob.DriverFilesystem || c.Blob.Driver == "" {
		c.Blob.FSRoot = c.OutDir
	}
	if c.Ledger.Driver == ledger.DriverSQLite && c.Ledger.Path == "" {
		c.Ledger.Path = filepath.Join(c.OutDir, "hcroi.db")
	}
}

// Validate reports every invalid setting.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.OutDir) == "" {
		errs = append(errs, errors.New("out: must not be empty"))
	}
	if len(c.Benchmark) != 2 {
		errs = append(errs, fmt.Errorf("benchmark: %q is not a two-letter state code", c.Benchmark))
	}
	if c.Folds < 2 || c.Folds > states.ExpectedCount {
		errs = append(errs, fmt.Errorf("folds: %d outside [2,%d]", c.Folds, states.ExpectedCount))
	}
	if len(c.Models) == 0 {
		errs = append(errs, errors.New("models: at least one model must be enabled"))
	}
	for _, m := range c.Models {
		errs = append(errs, m.validate()...)
	}
	if len(c.Artifacts) == 0 {
		errs = append(errs, errors.New("artifacts: at least one format must be enabled"))
	}
	switch c.Blob.Driver {
	case blob.DriverFilesystem, blob.DriverMemory, "":
	case blob.DriverS3:
		if c.Blob.S3.Bucket == "" {
			errs = append(errs, errors.New("blob: bucket required for s3 driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("blob: unknown driver %q", c.Blob.Driver))
	}
	switch c.Ledger.Driver {
	case ledger.DriverMemory, ledger.DriverSQLite, "":
	case ledger.DriverPostgres:
		if c.Ledger.DSN == "" {
			errs = append(errs, errors.New("ledger: dsn required for postgres driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("ledger: unknown driver %q", c.Ledger.Driver))
	}
	if _, err := ctxlog.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if f := strings.ToLower(c.LogFormat); f != "text" && f != "json" {
		errs = append(errs, fmt.Errorf("invalid log format %q: must be 'text' or 'json'", c.LogFormat))
	}
	return errors.Join(errs...)
}

func (m Model) validate() []error {
	var errs []error
	bad := func(field string, v any) {
		errs = append(errs, fmt.Errorf("model %s: invalid %s %v", m.Name, field, v))
	}
	switch m.Name {
	case ModelRandomForest:
		if m.Trees < 1 {
			bad("trees", m.Trees)
		}
		if m.MaxDepth < 1 {
			bad("max_depth", m.MaxDepth)
		}
	case ModelGradientBoosting:
		if m.Stages < 1 {
			bad("stages", m.Stages)
		}
		if m.MaxDepth < 1 {
			bad("max_depth", m.MaxDepth)
		}
		if m.LearningRate <= 0 || m.LearningRate > 1 {
			bad("learning_rate", m.LearningRate)
		}
	case ModelRidge:
		if m.Alpha < 0 {
			bad("alpha", m.Alpha)
		}
	case ModelElasticNet:
		if m.Alpha <= 0 {
			bad("alpha", m.Alpha)
		}
		if m.L1Ratio < 0 || m.L1Ratio > 1 {
			bad("l1_ratio", m.L1Ratio)
		}
	default:
		errs = append(errs, fmt.Errorf("model %q: unknown (want one of %s)", m.Name, strings.Join(modelOrder, ", ")))
	}
	return errs
}

// Candidates builds the estimator factories in tie-break order.
func (c Config) Candidates() []learn.Candidate {
	out := make([]learn.Candidate, 0, len(c.Models))
	seed := c.Seed
	for _, m := range c.Models {
		var build func() learn.Regressor
		switch m.Name {
		case ModelRandomForest:
			build = func() learn.Regressor { return learn.NewRandomForest(m.Trees, m.MaxDepth, seed) }
		case ModelGradientBoosting:
			build = func() learn.Regressor { return learn.NewGradientBoosting(m.Stages, m.MaxDepth, m.LearningRate) }
		case ModelRidge:
			build = func() learn.Regressor { return learn.NewRidge(m.Alpha) }
		case ModelElasticNet:
			build = func() learn.Regressor { return learn.NewElasticNet(m.Alpha, m.L1Ratio) }
		default:
			continue
		}
		out = append(out, learn.Candidate{Name: m.Name, New: build})
	}
	return out
}

// sortModels orders models by tie-break position.
func sortModels(models []Model) {
	slices.SortStableFunc(models, func(a, b Model) int {
		return slices.Index(modelOrder, a.Name) - slices.Index(modelOrder, b.Name)
	})
}
