// Command exporter runs the full DBD analytics export pipeline: it loads
// the case dataset, trains the partition models, and materializes every
// JSON artifact into the output directory.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"dbdcli/internal/config"
	"dbdcli/internal/infrastructure"
	"dbdcli/internal/pipeline"
	"dbdcli/pkg/contracts"
)

func main() {
	inPath := flag.String("in", "", "dataset file (.csv or .xlsx); defaults to the configured dataset path")
	outDir := flag.String("out", "", "artifact output directory; defaults to the configured output path")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := infrastructure.MustInitializeLogger(cfg.Logging)
	defer infrastructure.CloseLogFile()
	logger.Info(contracts.FullVersionString())

	dataset := cfg.Paths.DatasetFile
	if *inPath != "" {
		dataset = *inPath
	}
	output := cfg.Paths.OutputDir
	if *outDir != "" {
		output = *outDir
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary, err := pipeline.NewRunner(cfg, logger).Run(ctx, dataset, output)
	if err != nil {
		logger.Error("pipeline run failed", "error", err)
		os.Exit(1)
	}

	for _, skipped := range summary.Skipped {
		logger.Warn("partition skipped",
			slog.Int("year", skipped.Year),
			slog.String("reason", skipped.Reason))
	}
	logger.Info("export finished",
		slog.String("run_id", summary.RunID),
		slog.Duration("duration", summary.Duration),
		slog.Int("artifacts", summary.ArtifactsWritten),
		slog.Int64("bytes", summary.BytesWritten),
		slog.String("output_dir", output))
}
