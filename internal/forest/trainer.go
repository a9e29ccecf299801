// Package forest fits the per-partition regression models and extracts
// factor importances.
//
// The model is a bagged ensemble of CART regression trees with pinned
// hyperparameters and seeds, so repeated runs over identical input
// reproduce the importance ranking to floating tolerance.
package forest

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/montanaflynn/stats"

	"dbdcli/internal/config"
	"dbdcli/internal/errors"
	"dbdcli/pkg/contracts/domain"
)

// ModelType is the exported model_info label.
const ModelType = "Random Forest Regressor"

// Trainer fits one model per training partition.
type Trainer struct {
	cfg    config.PipelineConfig
	logger *slog.Logger
}

// NewTrainer creates a trainer with pinned hyperparameters.
func NewTrainer(cfg config.PipelineConfig, logger *slog.Logger) *Trainer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Trainer{cfg: cfg, logger: logger}
}

// Train fits the model for one partition and returns its report. year is
// domain.AllYears for the global partition. Partitions smaller than the
// configured minimum fail with INSUFFICIENT_DATA; invariant violations in
// the fitted model fail with VALIDATION_FAILED. Both degrade only this
// partition.
func (t *Trainer) Train(ctx context.Context, year int, rows []domain.FeatureRow) (domain.ModelReport, error) {
	if err := ctx.Err(); err != nil {
		return domain.ModelReport{}, err
	}

	label := partitionLabel(year)
	if len(rows) < t.cfg.MinTrainingSamples {
		return domain.ModelReport{}, errors.NewInsufficientDataError(
			fmt.Sprintf("partition %s has %d rows, need at least %d",
				label, len(rows), t.cfg.MinTrainingSamples), nil)
	}

	featureKeys := domain.FeatureKeys()
	X, y := buildMatrix(rows, featureKeys)
	imputeMedians(X)

	trainIdx, testIdx := splitIndices(len(rows), t.cfg.TestFraction, t.cfg.SplitSeed)

	trainX := subset(X, trainIdx)
	trainY := subsetVec(y, trainIdx)

	f := growForest(trainX, trainY, t.cfg.TreeCount, treeParams{
		maxDepth:        t.cfg.MaxDepth,
		minSamplesSplit: t.cfg.MinSamplesSplit,
	}, t.cfg.ForestSeed)

	report := domain.ModelReport{
		Year:        year,
		ModelType:   ModelType,
		Features:    featureKeys,
		SampleCount: len(rows),
		TrainScore:  rSquared(f, trainX, trainY),
		TestScore:   rSquared(f, subset(X, testIdx), subsetVec(y, testIdx)),
	}

	importances, err := rankImportances(f, featureKeys, label)
	if err != nil {
		return domain.ModelReport{}, err
	}
	report.Importances = importances

	t.logger.InfoContext(ctx, "trained partition model",
		slog.String("partition", label),
		slog.Int("samples", report.SampleCount),
		slog.Float64("train_r2", report.TrainScore),
		slog.Float64("test_r2", report.TestScore),
		slog.String("top_factor", importances[0].Feature))

	return report, nil
}

// partitionLabel formats a partition for errors and logs.
func partitionLabel(year int) string {
	if year == domain.AllYears {
		return "all-years"
	}
	return fmt.Sprintf("%d", year)
}

// buildMatrix lays the feature rows out as a dense matrix, marking absent
// values (the lag at each series head) as NaN for the imputation pass.
func buildMatrix(rows []domain.FeatureRow, featureKeys []string) ([][]float64, []float64) {
	X := make([][]float64, len(rows))
	y := make([]float64, len(rows))
	for i, row := range rows {
		vec := make([]float64, len(featureKeys))
		for j, key := range featureKeys {
			if v, ok := row.FeatureValue(key); ok {
				vec[j] = v
			} else {
				vec[j] = math.NaN()
			}
		}
		X[i] = vec
		y[i] = float64(row.Cases)
	}
	return X, y
}

// imputeMedians replaces NaN cells with the per-feature median over the
// partition, matching the reference preprocessing. A feature with no
// observed values at all imputes to zero.
func imputeMedians(X [][]float64) {
	if len(X) == 0 {
		return
	}
	for f := 0; f < len(X[0]); f++ {
		var present []float64
		for i := range X {
			if !math.IsNaN(X[i][f]) {
				present = append(present, X[i][f])
			}
		}
		median := 0.0
		if len(present) > 0 {
			median, _ = stats.Median(present)
		}
		for i := range X {
			if math.IsNaN(X[i][f]) {
				X[i][f] = median
			}
		}
	}
}

// splitIndices deterministically shuffles row indices and carves off the
// held-out fraction. The test set takes the ceiling so it is never empty
// for any positive fraction.
func splitIndices(n int, testFraction float64, seed int64) (train, test []int) {
	indices := shuffledIndices(n, seed)
	testCount := int(math.Ceil(float64(n) * testFraction))
	if testCount >= n {
		testCount = n - 1
	}
	return indices[testCount:], indices[:testCount]
}

func subset(X [][]float64, indices []int) [][]float64 {
	out := make([][]float64, len(indices))
	for i, idx := range indices {
		out[i] = X[idx]
	}
	return out
}

func subsetVec(y []float64, indices []int) []float64 {
	out := make([]float64, len(indices))
	for i, idx := range indices {
		out[i] = y[idx]
	}
	return out
}

// rSquared scores predictions against targets. A constant target scores 1
// when predictions are exact and 0 otherwise.
func rSquared(f *forest, X [][]float64, y []float64) float64 {
	if len(y) == 0 {
		return 0
	}
	mean := 0.0
	for _, v := range y {
		mean += v
	}
	mean /= float64(len(y))

	var ssRes, ssTot float64
	for i, x := range X {
		d := y[i] - f.predict(x)
		ssRes += d * d
		t := y[i] - mean
		ssTot += t * t
	}
	if ssTot == 0 {
		if ssRes < 1e-12 {
			return 1
		}
		return 0
	}
	return 1 - ssRes/ssTot
}

// rankImportances normalizes and orders the ensemble importances:
// importance descending, then feature name ascending lexical — the single
// documented tie-break.
func rankImportances(f *forest, featureKeys []string, label string) ([]domain.FeatureImportance, error) {
	raw := f.featureImportances(len(featureKeys))

	sum := 0.0
	for _, v := range raw {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, errors.NewValidationError(
				fmt.Sprintf("partition %s produced a non-finite importance", label), nil)
		}
		sum += v
	}
	if sum <= 0 {
		return nil, errors.NewValidationError(
			fmt.Sprintf("partition %s produced no informative splits", label), nil)
	}

	ranked := make([]domain.FeatureImportance, len(featureKeys))
	for i, key := range featureKeys {
		ranked[i] = domain.FeatureImportance{Feature: key, Importance: raw[i] / sum}
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Importance != ranked[j].Importance {
			return ranked[i].Importance > ranked[j].Importance
		}
		return ranked[i].Feature < ranked[j].Feature
	})

	return ranked, nil
}
