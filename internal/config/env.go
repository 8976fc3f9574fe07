package config

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"hcroi/internal/blob"
	"hcroi/internal/ledger"
	"hcroi/internal/report"
)

const envPrefix = "HCROI_"

func envMap(environ []string) map[string]string {
	out := make(map[string]string, len(environ))
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if ok && k != "" {
			out[k] = v
		}
	}
	return out
}

func applyEnv(cfg *Config, env map[string]string) error {
	get := func(name string) (string, bool) {
		v, ok := env[envPrefix+name]
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}
	str := func(dst *string, name string) {
		if v, ok := get(name); ok {
			*dst = v
		}
	}

	str(&cfg.RunID, "RUN_ID")
	str(&cfg.OutDir, "OUT")
	str(&cfg.Benchmark, "BENCHMARK")
	if v, ok := get("FOLDS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sFOLDS: %w", envPrefix, err)
		}
		cfg.Folds = n
	}
	if v, ok := get("SEED"); ok {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%sSEED: %w", envPrefix, err)
		}
		cfg.Seed = n
	}
	if v, ok := get("MODELS"); ok {
		models, err := filterModels(cfg.Models, splitList(v))
		if err != nil {
			return fmt.Errorf("%sMODELS: %w", envPrefix, err)
		}
		cfg.Models = models
	}
	if v, ok := get("ARTIFACTS"); ok {
		formats, err := report.ParseFormats(splitList(v))
		if err != nil {
			return fmt.Errorf("%sARTIFACTS: %w", envPrefix, err)
		}
		cfg.Artifacts = formats
	}

	if v, ok := get("BLOB_DRIVER"); ok {
		cfg.Blob.Driver = blob.Driver(strings.ToLower(v))
	}
	str(&cfg.Blob.S3.Bucket, "BLOB_S3_BUCKET")
	str(&cfg.Blob.S3.Region, "BLOB_S3_REGION")
	str(&cfg.Blob.S3.Prefix, "BLOB_S3_PREFIX")
	str(&cfg.Blob.S3.Endpoint, "BLOB_S3_ENDPOINT")
	str(&cfg.Blob.S3.AccessKeyID, "BLOB_S3_ACCESS_KEY_ID")
	str(&cfg.Blob.S3.SecretAccessKey, "BLOB_S3_SECRET_ACCESS_KEY")
	if v, ok := get("BLOB_S3_PATH_STYLE"); ok {
		cfg.Blob.S3.PathStyle = strings.EqualFold(v, "true")
	}

	if v, ok := get("LEDGER_DRIVER"); ok {
		cfg.Ledger.Driver = ledger.Driver(strings.ToLower(v))
	}
	str(&cfg.Ledger.Path, "LEDGER_PATH")
	str(&cfg.Ledger.DSN, "LEDGER_DSN")

	str(&cfg.LogLevel, "LOG_LEVEL")
	str(&cfg.LogFormat, "LOG_FORMAT")
	return nil
}

// filterModels keeps the configured models named in names, preserving
// tie-break order.
func filterModels(models []Model, names []string) ([]Model, error) {
	var out []Model
	for _, n := range names {
		if !slices.Contains(modelOrder, n) {
			return nil, fmt.Errorf("model %q: unknown", n)
		}
	}
	for _, m := range models {
		if slices.Contains(names, m.Name) {
			out = append(out, m)
		}
	}
	return out, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.ToLower(strings.TrimSpace(part)); p != "" {
			out = append(out, p)
		}
	}
	return out
}
