// Package pipeline orchestrates one full export run: load the dataset,
// engineer features, train one model per partition, aggregate, enumerate
// the artifact space, and export it. Loader and integrity failures abort
// the run before anything is written; partitions that cannot train are
// skipped, recorded in the run summary, and only suppress their own
// model-dependent artifacts.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"dbdcli/internal/aggregate"
	"dbdcli/internal/artifacts"
	"dbdcli/internal/config"
	"dbdcli/internal/dataset"
	dberrors "dbdcli/internal/errors"
	"dbdcli/internal/exporter"
	"dbdcli/internal/features"
	"dbdcli/internal/forest"
	"dbdcli/internal/infrastructure"
	"dbdcli/internal/validation"
	"dbdcli/pkg/contracts/domain"
)

// SkippedPartition records a partition whose model-dependent artifacts were
// suppressed, with the training failure that caused it.
type SkippedPartition struct {
	Year   int
	Reason string
}

// RunSummary reports what one run did. It is logged and returned to the
// caller but never exported: artifact bytes must not vary between runs on
// identical input.
type RunSummary struct {
	RunID            string
	Duration         time.Duration
	Records          int
	Regions          int
	Years            int
	ModelsTrained    int
	ArtifactsWritten int
	BytesWritten     int64
	Skipped          []SkippedPartition
}

// Runner executes export runs with one fixed configuration.
type Runner struct {
	cfg    *config.Config
	logger *slog.Logger
}

// NewRunner creates a runner.
func NewRunner(cfg *config.Config, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{cfg: cfg, logger: logger}
}

// Run executes the full pipeline against the dataset at datasetPath and
// writes every artifact into outDir. Cancellation is whole-run: the context
// aborts training and export, never checkpoints.
func (r *Runner) Run(ctx context.Context, datasetPath, outDir string) (*RunSummary, error) {
	runID := uuid.NewString()
	ctx = infrastructure.WithRunID(ctx, runID)
	start := time.Now()

	r.logger.InfoContext(ctx, "pipeline run starting",
		slog.String("dataset", datasetPath),
		slog.String("output_dir", outDir))

	validator := validation.NewInputValidator(r.logger)
	if err := validator.ValidateDatasetFile(datasetPath); err != nil {
		return nil, err
	}
	if err := validator.ValidateOutputDir(outDir); err != nil {
		return nil, err
	}

	panel, err := dataset.NewLoader(r.cfg.Pipeline, r.logger).Load(datasetPath)
	if err != nil {
		return nil, err
	}
	rows := features.NewEngineer(r.cfg.Pipeline, r.logger).Engineer(panel)

	models, skipped, err := r.trainPartitions(ctx, panel, rows)
	if err != nil {
		return nil, err
	}

	trained := make(map[int]bool, len(models))
	for year := range models {
		trained[year] = true
	}

	agg := aggregate.NewAggregator(panel, models, r.logger)
	enum := artifacts.NewEnumerator(panel, trained, r.logger)
	writer := exporter.NewWriter(outDir, r.logger)
	if err := writer.Clean(); err != nil {
		return nil, err
	}

	var written int
	var bytes int64
	for _, key := range enum.Enumerate() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		payload, err := buildPayload(agg, enum, key)
		if err != nil {
			return nil, err
		}
		n, err := writer.Write(key.Address(), payload)
		if err != nil {
			return nil, err
		}
		written++
		bytes += n
	}

	summary := &RunSummary{
		RunID:            runID,
		Duration:         time.Since(start),
		Records:          panel.Len(),
		Regions:          len(panel.Regions),
		Years:            len(panel.Years),
		ModelsTrained:    len(models),
		ArtifactsWritten: written,
		BytesWritten:     bytes,
		Skipped:          skipped,
	}
	r.logger.InfoContext(ctx, "pipeline run complete",
		slog.Duration("duration", summary.Duration),
		slog.Int("records", summary.Records),
		slog.Int("models_trained", summary.ModelsTrained),
		slog.Int("artifacts_written", summary.ArtifactsWritten),
		slog.Int64("bytes_written", summary.BytesWritten),
		slog.Int("partitions_skipped", len(summary.Skipped)))
	return summary, nil
}

// trainPartitions trains the all-years model plus one model per year,
// bounded by MaxConcurrency. Partition-level failures (insufficient data,
// importance validation) are collected, not fatal; anything else aborts.
func (r *Runner) trainPartitions(ctx context.Context, panel *domain.Panel, rows []domain.FeatureRow) (map[int]domain.ModelReport, []SkippedPartition, error) {
	trainer := forest.NewTrainer(r.cfg.Pipeline, r.logger)

	partitions := make([]int, 0, len(panel.Years)+1)
	partitions = append(partitions, domain.AllYears)
	partitions = append(partitions, panel.Years...)

	var mu sync.Mutex
	models := make(map[int]domain.ModelReport, len(partitions))
	var skipped []SkippedPartition

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Pipeline.MaxConcurrency)
	for _, year := range partitions {
		year := year
		part := partitionRows(rows, year)
		g.Go(func() error {
			report, err := trainer.Train(gctx, year, part)
			if err != nil {
				if dberrors.IsPartitionError(err) {
					mu.Lock()
					skipped = append(skipped, SkippedPartition{Year: year, Reason: err.Error()})
					mu.Unlock()
					r.logger.WarnContext(gctx, "partition skipped",
						slog.Int("year", year),
						slog.String("reason", err.Error()))
					return nil
				}
				return err
			}
			mu.Lock()
			models[year] = report
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	sort.Slice(skipped, func(i, j int) bool { return skipped[i].Year < skipped[j].Year })
	return models, skipped, nil
}

// partitionRows selects the feature rows of one training partition.
func partitionRows(rows []domain.FeatureRow, year int) []domain.FeatureRow {
	if year == domain.AllYears {
		return rows
	}
	var out []domain.FeatureRow
	for _, row := range rows {
		if row.Year == year {
			out = append(out, row)
		}
	}
	return out
}

// buildPayload materializes one artifact key. The switch is exhaustive over
// the closed kind set.
func buildPayload(agg *aggregate.Aggregator, enum *artifacts.Enumerator, key artifacts.Key) (any, error) {
	switch key.Kind {
	case artifacts.KindMonthlyResults:
		return agg.MonthlyResults(key.Year)
	case artifacts.KindMonthlyByMonth:
		return agg.MonthlyResultsByMonth(key.Year)
	case artifacts.KindRegionalData:
		return agg.RegionalData(key.Year)
	case artifacts.KindLineChart:
		return agg.LineChart(key.Year), nil
	case artifacts.KindBarChart:
		return agg.BarChart(key.Year)
	case artifacts.KindScatterPlot:
		return agg.ScatterByFactor(key.Factor, key.Year), nil
	case artifacts.KindScatterRainfallByRegion:
		return agg.ScatterRegionRainfall(key.Region, key.Year), nil
	case artifacts.KindScatterPopulationAllRegions:
		return agg.ScatterPopulationAllRegions(key.Year), nil
	case artifacts.KindStatistics:
		return agg.Statistics(key.Year)
	case artifacts.KindFactorSummary:
		return agg.FactorSummary(key.Year)
	case artifacts.KindModelInfo:
		return agg.ModelInfo(key.Year)
	case artifacts.KindRawData:
		if key.Year == domain.AllYears {
			return agg.RawData(key.Page*artifacts.RawPageLimit, artifacts.RawPageLimit), nil
		}
		return agg.YearRawData(key.Year), nil
	case artifacts.KindRawDataSummary:
		return agg.RawDataSummary(), nil
	case artifacts.KindAvailableYears:
		return enum.AvailableYears(), nil
	case artifacts.KindAvailableRegions:
		return enum.AvailableRegions(key.Year), nil
	}
	return nil, dberrors.NewIntegrityError(
		fmt.Sprintf("unknown artifact kind %q", key.Kind), nil)
}
