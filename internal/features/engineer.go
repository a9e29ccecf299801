// Package features derives the engineered model inputs from the panel.
//
// All derivations are causal: the value at an observation depends only on
// the same region's observations at or before it. The engineer is
// deterministic and keeps no state between runs.
package features

import (
	"log/slog"

	"dbdcli/internal/config"
	"dbdcli/pkg/contracts/domain"
)

// Engineer derives lag, rolling, and interaction features.
type Engineer struct {
	window int
	logger *slog.Logger
}

// NewEngineer creates an engineer using the configured rolling window.
func NewEngineer(cfg config.PipelineConfig, logger *slog.Logger) *Engineer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engineer{window: cfg.RollingWindow, logger: logger}
}

// Engineer computes the feature rows for the whole panel, ordered by
// region name and then time. The lag feature is nil at each region's
// first observation; rolling means use a partial window at the series
// head rather than going null.
func (e *Engineer) Engineer(panel *domain.Panel) []domain.FeatureRow {
	rows := make([]domain.FeatureRow, 0, panel.Len())
	for _, region := range panel.Regions {
		rows = append(rows, e.engineerSeries(panel.Series[region])...)
	}

	e.logger.Info("engineered features",
		slog.Int("rows", len(rows)),
		slog.Int("rolling_window", e.window))

	return rows
}

// engineerSeries derives features for one region's time-ordered sub-series.
func (e *Engineer) engineerSeries(series []domain.Record) []domain.FeatureRow {
	rows := make([]domain.FeatureRow, len(series))
	for t, rec := range series {
		row := domain.FeatureRow{Record: rec}

		if t > 0 {
			lag := series[t-1].Rainfall
			row.RainLag1 = &lag
		}

		row.Rain3M = rollingMean(series, t, e.window)
		row.RainXDens = rec.Rainfall * rec.Density

		rows[t] = row
	}
	return rows
}

// rollingMean averages rainfall over the last window observations ending
// at index t, using however many points exist when t+1 < window.
func rollingMean(series []domain.Record, t, window int) float64 {
	start := t - window + 1
	if start < 0 {
		start = 0
	}
	sum := 0.0
	for i := start; i <= t; i++ {
		sum += series[i].Rainfall
	}
	return sum / float64(t-start+1)
}
