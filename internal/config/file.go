package config

import (
	"fmt"
	"slices"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"hcroi/internal/blob"
	"hcroi/internal/ledger"
	"hcroi/internal/report"
)

// fileConfig mirrors the HCL layout:
//
//	run { benchmark = "MA"  folds = 5  artifacts = ["csv", "html"] }
//	model "ridge" { alpha = 1.0 }
//	blob { driver = "s3"  bucket = env.HCROI_BUCKET }
//	ledger { driver = "sqlite"  path = "runs.db" }
//	log { level = "debug" }
type fileConfig struct {
	Run    *runBlock    `hcl:"run,block"`
	Models []modelBlock `hcl:"model,block"`
	Blob   *blobBlock   `hcl:"blob,block"`
	Ledger *ledgerBlock `hcl:"ledger,block"`
	Log    *logBlock    `hcl:"log,block"`
}

type runBlock struct {
	ID        *string  `hcl:"id,optional"`
	Out       *string  `hcl:"out,optional"`
	Benchmark *string  `hcl:"benchmark,optional"`
	Folds     *int     `hcl:"folds,optional"`
	Seed      *int     `hcl:"seed,optional"`
	Artifacts []string `hcl:"artifacts,optional"`
}

type modelBlock struct {
	Name         string   `hcl:"name,label"`
	Enabled      *bool    `hcl:"enabled,optional"`
	Trees        *int     `hcl:"trees,optional"`
	MaxDepth     *int     `hcl:"max_depth,optional"`
	Stages       *int     `hcl:"stages,optional"`
	LearningRate *float64 `hcl:"learning_rate,optional"`
	Alpha        *float64 `hcl:"alpha,optional"`
	L1Ratio      *float64 `hcl:"l1_ratio,optional"`
}

type blobBlock struct {
	Driver          *string `hcl:"driver,optional"`
	Bucket          *string `hcl:"bucket,optional"`
	Region          *string `hcl:"region,optional"`
	Prefix          *string `hcl:"prefix,optional"`
	Endpoint        *string `hcl:"endpoint,optional"`
	PathStyle       *bool   `hcl:"path_style,optional"`
	AccessKeyID     *string `hcl:"access_key_id,optional"`
	SecretAccessKey *string `hcl:"secret_access_key,optional"`
}

type ledgerBlock struct {
	Driver *string `hcl:"driver,optional"`
	Path   *string `hcl:"path,optional"`
	DSN    *string `hcl:"dsn,optional"`
}

type logBlock struct {
	Level  *string `hcl:"level,optional"`
	Format *string `hcl:"format,optional"`
}

// evalContext exposes the process environment to expressions as env.NAME.
func evalContext(env map[string]string) *hcl.EvalContext {
	vars := make(map[string]cty.Value, len(env))
	for k, v := range env {
		vars[k] = cty.StringVal(v)
	}
	envVal := cty.EmptyObjectVal
	if len(vars) > 0 {
		envVal = cty.ObjectVal(vars)
	}
	return &hcl.EvalContext{Variables: map[string]cty.Value{"env": envVal}}
}

func applyFile(cfg *Config, path string, env map[string]string) error {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return fmt.Errorf("failed to parse config file %s: %s", path, diags.Error())
	}
	var fc fileConfig
	if diags := gohcl.DecodeBody(file.Body, evalContext(env), &fc); diags.HasErrors() {
		return fmt.Errorf("failed to decode config file %s: %s", path, diags.Error())
	}

	if r := fc.Run; r != nil {
		setString(&cfg.RunID, r.ID)
		setString(&cfg.OutDir, r.Out)
		setString(&cfg.Benchmark, r.Benchmark)
		if r.Folds != nil {
			cfg.Folds = *r.Folds
		}
		if r.Seed != nil {
			if *r.Seed < 0 {
				return fmt.Errorf("config file %s: seed must not be negative", path)
			}
			cfg.Seed = uint64(*r.Seed)
		}
		if r.Artifacts != nil {
			formats, err := report.ParseFormats(r.Artifacts)
			if err != nil {
				return fmt.Errorf("config file %s: %w", path, err)
			}
			cfg.Artifacts = formats
		}
	}

	if len(fc.Models) > 0 {
		models, err := fileModels(fc.Models)
		if err != nil {
			return fmt.Errorf("config file %s: %w", path, err)
		}
		cfg.Models = models
	}

	if b := fc.Blob; b != nil {
		if b.Driver != nil {
			cfg.Blob.Driver = blob.Driver(*b.Driver)
		}
		setString(&cfg.Blob.S3.Bucket, b.Bucket)
		setString(&cfg.Blob.S3.Region, b.Region)
		setString(&cfg.Blob.S3.Prefix, b.Prefix)
		setString(&cfg.Blob.S3.Endpoint, b.Endpoint)
		setString(&cfg.Blob.S3.AccessKeyID, b.AccessKeyID)
		setString(&cfg.Blob.S3.SecretAccessKey, b.SecretAccessKey)
		if b.PathStyle != nil {
			cfg.Blob.S3.PathStyle = *b.PathStyle
		}
	}

	if l := fc.Ledger; l != nil {
		if l.Driver != nil {
			cfg.Ledger.Driver = ledger.Driver(*l.Driver)
		}
		setString(&cfg.Ledger.Path, l.Path)
		setString(&cfg.Ledger.DSN, l.DSN)
	}

	if l := fc.Log; l != nil {
		setString(&cfg.LogLevel, l.Level)
		setString(&cfg.LogFormat, l.Format)
	}
	return nil
}

// fileModels starts each declared model from its defaults, applies the
// block's overrides and drops disabled models.
func fileModels(blocks []modelBlock) ([]Model, error) {
	defaults := Default().Models
	var out []Model
	seen := make(map[string]bool)
	for _, b := range blocks {
		if seen[b.Name] {
			return nil, fmt.Errorf("model %q declared twice", b.Name)
		}
		seen[b.Name] = true
		i := slices.IndexFunc(defaults, func(m Model) bool { return m.Name == b.Name })
		if i < 0 {
			return nil, fmt.Errorf("model %q: unknown", b.Name)
		}
		if b.Enabled != nil && !*b.Enabled {
			continue
		}
		m := defaults[i]
		setInt(&m.Trees, b.Trees)
		setInt(&m.MaxDepth, b.MaxDepth)
		setInt(&m.Stages, b.Stages)
		setFloat(&m.LearningRate, b.LearningRate)
		setFloat(&m.Alpha, b.Alpha)
		setFloat(&m.L1Ratio, b.L1Ratio)
		out = append(out, m)
	}
	sortModels(out)
	return out, nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}
