// Command hcroi runs the human capital ROI batch: it derives the state
// indices, selects a model per target, predicts the policy scenarios and
// stores the rendered reports in the configured blob store.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"hcroi/internal/config"
	"hcroi/internal/ctxlog"
	"hcroi/internal/pipeline"
)

var exitFunc = os.Exit

// ExitError carries the process status for failures detected before the
// pipeline starts.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string { return e.Message }

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli(ctx, os.Args[1:], os.Environ(), os.Stdout, os.Stderr)
	stop()
	exitFunc(code)
}

func cli(ctx context.Context, args, environ []string, stdout, stderr io.Writer) int {
	if err := run(ctx, args, environ, stdout, stderr); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			_, _ = fmt.Fprintln(stderr, exitErr.Message)
			return exitErr.Code
		}
		_, _ = fmt.Fprintf(stderr, "hcroi: %v\n", err)
		return 1
	}
	return 0
}

func run(ctx context.Context, args, environ []string, stdout, stderr io.Writer) (err error) {
	fs := flag.NewFlagSet("hcroi", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		_, _ = fmt.Fprintln(fs.Output(), "Usage: hcroi [flags]")
		_, _ = fmt.Fprintln(fs.Output(), "Settings are read from the config file, then HCROI_* variables, then flags.")
		fs.PrintDefaults()
	}
	var (
		configPath string
		listRuns   bool
		overrides  config.Overrides
	)
	fs.StringVar(&configPath, "config", "", "path to an HCL pipeline config")
	fs.BoolVar(&listRuns, "list", false, "print the runs recorded in the ledger and exit")
	fs.StringVar(&overrides.OutDir, "out", "", "output directory for the fs blob driver and sqlite ledger")
	fs.StringVar(&overrides.RunID, "run-id", "", "run identifier (default: random UUID)")
	fs.StringVar(&overrides.LogLevel, "log-level", "", "debug, info, warn or error")
	fs.StringVar(&overrides.LogFormat, "log-format", "", "text or json")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return &ExitError{Code: 2, Message: err.Error()}
	}
	if fs.NArg() > 0 {
		return &ExitError{Code: 2, Message: fmt.Sprintf("unexpected arguments: %v", fs.Args())}
	}

	cfg, err := config.Load(configPath, environ, overrides)
	if err != nil {
		return &ExitError{Code: 2, Message: fmt.Sprintf("invalid configuration: %v", err)}
	}
	logger, err := ctxlog.New(stderr, cfg.LogFormat, cfg.LogLevel)
	if err != nil {
		return &ExitError{Code: 2, Message: err.Error()}
	}
	ctx = ctxlog.WithLogger(ctx, logger)

	defer func() {
		if r := recover(); r != nil {
			logger.Error("run panicked", "panic", r)
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	deps, closeFn, err := pipeline.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeFn(); cerr != nil && err == nil {
			err = fmt.Errorf("close ledger: %w", cerr)
		}
	}()

	if listRuns {
		return printRuns(ctx, stdout, deps)
	}

	res, err := pipeline.Run(ctx, cfg, deps)
	if err != nil {
		return fmt.Errorf("run failed: %w", err)
	}
	if _, err := fmt.Fprintf(stdout, "run %s stored %d artifacts\n", res.RunID, len(res.Artifacts)); err != nil {
		return err
	}
	for _, a := range res.Artifacts {
		if _, err := fmt.Fprintf(stdout, "  %s\t%d bytes\n", a.Key, a.SizeBytes); err != nil {
			return err
		}
	}
	return nil
}

func printRuns(ctx context.Context, stdout io.Writer, deps pipeline.Deps) error {
	runs, err := deps.Ledger.ListRuns(ctx)
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}
	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "RUN\tCREATED\tBENCHMARK\tSELECTED\tARTIFACTS")
	for _, run := range runs {
		var selected []string
		for _, m := range run.Models {
			if m.Selected {
				selected = append(selected, m.Target+"="+m.Model)
			}
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n", run.ID, run.CreatedAt.Format(time.RFC3339), run.Benchmark, strings.Join(selected, ","), len(run.Artifacts))
	}
	return tw.Flush()
}
