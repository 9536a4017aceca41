// Package main implements the issuelens CLI: one subcommand per analytical
// operation, each a thin wrapper over the corresponding internal
// package, printing an errs.Result envelope as JSON to stdout. File layout
// mirrors cmd/nerd/main.go's command-tree split across cmd_*.go files.
//
// # File Index
//
//   - main.go            - entry point, rootCmd, global flags, PersistentPreRunE
//   - cmd_ingest.go      - ingestCmd
//   - cmd_index.go       - indexCmd (build/query/stats)
//   - cmd_keywords.go    - keywordsCmd
//   - cmd_trend.go       - trendCmd
//   - cmd_overview.go    - overviewCmd
//   - cmd_evaluate.go    - evaluateCmd
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"issuelens/internal/config"
	"issuelens/internal/errs"
	"issuelens/internal/logging"
	"issuelens/internal/metrics"
)

var (
	verbose     bool
	metricsAddr string

	paths *config.Paths
	cfg   *config.Config
	zlog  *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "issuelens",
	Short: "issuelens - semantic search and LLM analysis over an issue tracker export",
	Long: `issuelens ingests issue-tracker data (stories and bugs), builds a semantic
search index over it, extracts keywords and time trends, and drives
LLM-backed project overviews and rubric-based test-case evaluation.

Each subcommand is a single analytical operation; it reads its flat-file
inputs, does its work, and prints a JSON result envelope to stdout.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zapCfg := zap.NewProductionConfig()
		if verbose {
			zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		zlog, err = zapCfg.Build()
		if err != nil {
			return fmt.Errorf("initialize logger: %w", err)
		}

		paths, err = config.DiscoverPaths()
		if err != nil {
			return err
		}
		if err := paths.EnsureDirs(); err != nil {
			return err
		}

		cfg, err = config.Load(paths)
		if err != nil {
			return err
		}

		if err := logging.Initialize(paths.LogsDir(), cfg.Logging.DebugMode, cfg.Logging.Level, cfg.Logging.Format == "json", cfg.Logging.Categories); err != nil {
			return err
		}

		if metricsAddr != "" {
			go func() {
				if err := metrics.Serve(metricsAddr); err != nil {
					zlog.Warn("metrics server stopped", zap.Error(err))
				}
			}()
		}

		zlog.Debug("issuelens starting", zap.String("root", paths.Root))
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		logging.CloseAll()
		if zlog != nil {
			_ = zlog.Sync()
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug-level logging")
	rootCmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "serve prometheus /metrics on this address (e.g. :9090); empty disables it")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// printResult serializes an errs.Result to stdout and sets the process
// exit status: 0 on success, 1 on error.
func printResult(res errs.Result) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return err
	}
	if res.Status != "success" {
		os.Exit(1)
	}
	return nil
}

// fail converts any error into the Failure envelope, classifying it
// through errs if it isn't already a *ClassifiedError.
func fail(err error) errs.Result {
	if ce, ok := errs.As(err); ok {
		return errs.Failure(ce)
	}
	return errs.Failure(&errs.ClassifiedError{
		Kind:    errs.KindInputMalformed,
		Summary: "unclassified error",
		Err:     err,
	})
}
