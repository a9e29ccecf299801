package forest

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dbdcli/internal/config"
	"dbdcli/internal/errors"
	"dbdcli/pkg/contracts/domain"
)

// syntheticRows builds a partition where the case count is a strong
// function of rainfall, so rainfall-derived features must dominate the
// importance ranking.
func syntheticRows(n int) []domain.FeatureRow {
	rows := make([]domain.FeatureRow, n)
	for i := 0; i < n; i++ {
		rain := float64((i*37)%200) + 1
		rec := domain.Record{
			Year:     2020,
			Month:    i%12 + 1,
			Region:   "Kota Bandung",
			Rainfall: rain,
			Density:  50, // constant: carries no signal
			Cases:    int(rain*3) + (i % 2),
		}
		row := domain.FeatureRow{Record: rec}
		if i > 0 {
			lag := rows[i-1].Rainfall
			row.RainLag1 = &lag
		}
		row.Rain3M = rain
		row.RainXDens = rain * rec.Density
		rows[i] = row
	}
	return rows
}

func testTrainer(mutate func(*config.PipelineConfig)) *Trainer {
	cfg := config.Default().Pipeline
	cfg.TreeCount = 25 // keep tests fast; determinism is seed-driven
	if mutate != nil {
		mutate(&cfg)
	}
	return NewTrainer(cfg, nil)
}

func TestTrainImportancesSumToOne(t *testing.T) {
	report, err := testTrainer(nil).Train(context.Background(), 2020, syntheticRows(60))
	require.NoError(t, err)

	sum := 0.0
	for _, fi := range report.Importances {
		assert.GreaterOrEqual(t, fi.Importance, 0.0)
		sum += fi.Importance
	}
	assert.InDelta(t, 1.0, sum, 1e-6)
}

func TestTrainIsDeterministic(t *testing.T) {
	first, err := testTrainer(nil).Train(context.Background(), 2020, syntheticRows(60))
	require.NoError(t, err)
	second, err := testTrainer(nil).Train(context.Background(), 2020, syntheticRows(60))
	require.NoError(t, err)

	assert.Equal(t, first.TrainScore, second.TrainScore)
	assert.Equal(t, first.TestScore, second.TestScore)
	require.Equal(t, len(first.Importances), len(second.Importances))
	for i := range first.Importances {
		assert.Equal(t, first.Importances[i].Feature, second.Importances[i].Feature)
		rel := math.Abs(first.Importances[i].Importance - second.Importances[i].Importance)
		assert.LessOrEqual(t, rel, 1e-6*math.Max(first.Importances[i].Importance, 1e-12))
	}
}

func TestTrainFindsDominantFactor(t *testing.T) {
	report, err := testTrainer(nil).Train(context.Background(), 2020, syntheticRows(80))
	require.NoError(t, err)

	// Cases are a linear function of rainfall; a rainfall-derived feature
	// must rank first and the constant density must carry ~no importance.
	top := report.Importances[0].Feature
	assert.Contains(t, []string{
		domain.FeatureRainfall, domain.FeatureRain3M, domain.FeatureRainXDens,
	}, top)

	for _, fi := range report.Importances {
		if fi.Feature == domain.FeatureDensity {
			assert.Less(t, fi.Importance, 0.05)
		}
	}

	assert.Greater(t, report.TrainScore, 0.8)
	assert.Equal(t, ModelType, report.ModelType)
	assert.Equal(t, 80, report.SampleCount)
}

func TestTrainRejectsSmallPartition(t *testing.T) {
	_, err := testTrainer(nil).Train(context.Background(), 2020, syntheticRows(9))
	require.Error(t, err)
	assert.True(t, errors.IsInsufficientData(err))
	assert.True(t, errors.IsPartitionError(err))
}

func TestTrainConstantTargetFailsValidation(t *testing.T) {
	rows := syntheticRows(30)
	for i := range rows {
		rows[i].Cases = 7
	}
	_, err := testTrainer(nil).Train(context.Background(), 2020, rows)
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
	assert.True(t, errors.IsPartitionError(err))
}

func TestTrainHandlesMissingLag(t *testing.T) {
	rows := syntheticRows(40)
	rows[0].RainLag1 = nil // series head

	report, err := testTrainer(nil).Train(context.Background(), 2020, rows)
	require.NoError(t, err)
	require.NotEmpty(t, report.Importances)
}

func TestTrainCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := testTrainer(nil).Train(ctx, 2020, syntheticRows(40))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSplitIndices(t *testing.T) {
	train, test := splitIndices(10, 0.2, 42)
	assert.Len(t, test, 2)
	assert.Len(t, train, 8)

	// Deterministic for a fixed seed.
	train2, test2 := splitIndices(10, 0.2, 42)
	assert.Equal(t, train, train2)
	assert.Equal(t, test, test2)

	// No overlap, full coverage.
	seen := map[int]bool{}
	for _, i := range append(append([]int{}, train...), test...) {
		assert.False(t, seen[i])
		seen[i] = true
	}
	assert.Len(t, seen, 10)

	// The held-out set never swallows the whole partition.
	train, test = splitIndices(3, 0.9, 42)
	assert.Len(t, train, 1)
	assert.Len(t, test, 2)
}

func TestImputeMedians(t *testing.T) {
	X := [][]float64{
		{1, math.NaN()},
		{3, 10},
		{math.NaN(), 20},
		{5, 30},
	}
	imputeMedians(X)

	assert.Equal(t, 3.0, X[2][0]) // median of 1,3,5
	assert.Equal(t, 20.0, X[0][1])
	for i := range X {
		for j := range X[i] {
			assert.False(t, math.IsNaN(X[i][j]))
		}
	}
}
