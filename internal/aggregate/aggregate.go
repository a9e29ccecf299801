// Package aggregate derives the exported summaries from a loaded panel and
// the trained partition models. Every method is a pure function of the
// aggregator's inputs: nothing here retrains a model or mutates the panel,
// so repeated calls on the same inputs produce identical payloads.
package aggregate

import (
	"fmt"
	"log/slog"

	"github.com/montanaflynn/stats"

	dberrors "dbdcli/internal/errors"
	"dbdcli/pkg/contracts/domain"
)

// monthNames holds the Indonesian month display names, indexed by month-1.
var monthNames = [12]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

// shortMonthNames is the abbreviated form used in scatter point labels.
var shortMonthNames = [12]string{
	"Jan", "Feb", "Mar", "Apr", "Mei", "Jun",
	"Jul", "Agu", "Sep", "Oct", "Nov", "Des",
}

// MonthName returns the Indonesian display name for a 1-based month.
func MonthName(month int) string {
	return monthNames[month-1]
}

// Aggregator computes artifact payloads over one panel and the models map
// produced by the trainer, keyed by partition year (domain.AllYears for the
// full-panel model).
type Aggregator struct {
	panel  *domain.Panel
	models map[int]domain.ModelReport
	logger *slog.Logger
}

// NewAggregator builds an aggregator over the given panel and trained models.
func NewAggregator(panel *domain.Panel, models map[int]domain.ModelReport, logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{panel: panel, models: models, logger: logger}
}

// modelFor resolves the trained model for a partition. Callers enumerate
// artifacts only for partitions that trained, so a miss is a defect.
func (a *Aggregator) modelFor(year int) (domain.ModelReport, error) {
	model, ok := a.models[year]
	if !ok {
		return domain.ModelReport{}, dberrors.NewValidationError(
			fmt.Sprintf("no trained model for partition %s", partitionLabel(year)), nil)
	}
	return model, nil
}

func partitionLabel(year int) string {
	if year == domain.AllYears {
		return "all-years"
	}
	return fmt.Sprintf("%d", year)
}

// recordsFor returns the partition's observations, ordered by region then
// time.
func (a *Aggregator) recordsFor(year int) []domain.Record {
	if year == domain.AllYears {
		return a.panel.Records()
	}
	return a.panel.YearRecords(year)
}

// regionsFor returns the regions observed in the partition, sorted.
func (a *Aggregator) regionsFor(year int) []string {
	if year == domain.AllYears {
		return a.panel.Regions
	}
	return a.panel.RegionsForYear(year)
}

// monthlyTotal is one month's panel-wide aggregate before model factors are
// attached.
type monthlyTotal struct {
	month    int
	year     int
	cases    int
	rainfall float64
	density  float64
}

// monthlyTotals sums cases and averages covariates per calendar month over
// the partition. Months with no observations are omitted, never zero-filled.
func (a *Aggregator) monthlyTotals(year int) []monthlyTotal {
	records := a.recordsFor(year)

	var out []monthlyTotal
	for month := 1; month <= 12; month++ {
		var subset []domain.Record
		for _, rec := range records {
			if rec.Month == month {
				subset = append(subset, rec)
			}
		}
		if len(subset) == 0 {
			continue
		}

		cases := 0
		rain := make([]float64, 0, len(subset))
		dens := make([]float64, 0, len(subset))
		for _, rec := range subset {
			cases += rec.Cases
			rain = append(rain, rec.Rainfall)
			dens = append(dens, rec.Density)
		}
		avgRain, _ := stats.Mean(rain)
		avgDens, _ := stats.Mean(dens)

		label := year
		if label == domain.AllYears {
			label = modeYear(subset)
		}
		out = append(out, monthlyTotal{
			month:    month,
			year:     label,
			cases:    cases,
			rainfall: round(avgRain, 2),
			density:  formatDensity(avgDens),
		})
	}
	return out
}

// modeYear returns the most frequent year among the records, the smaller
// year on ties.
func modeYear(records []domain.Record) int {
	counts := make(map[int]int, len(records))
	for _, rec := range records {
		counts[rec.Year]++
	}
	best, bestCount := 0, 0
	for year, count := range counts {
		if count > bestCount || (count == bestCount && year < best) {
			best, bestCount = year, count
		}
	}
	return best
}

// MonthlyResults returns the per-month summary for a partition, decorated
// with the partition model's three strongest factors. The prediction
// accuracy reported is the model's held-out score, identical for every
// month of the partition.
func (a *Aggregator) MonthlyResults(year int) ([]MonthlyResult, error) {
	model, err := a.modelFor(year)
	if err != nil {
		return nil, err
	}

	top := model.TopFactors(3)
	factorName := func(i int) string {
		if i >= len(top) {
			return "N/A"
		}
		return domain.DisplayName(top[i].Feature)
	}
	factorWeight := func(i int) float64 {
		if i >= len(top) {
			return 0
		}
		return top[i].Importance
	}

	totals := a.monthlyTotals(year)
	out := make([]MonthlyResult, 0, len(totals))
	for _, mt := range totals {
		out = append(out, MonthlyResult{
			Month:                 MonthName(mt.month),
			Year:                  mt.year,
			TotalCases:            mt.cases,
			MostInfluentialFactor: factorName(0),
			FactorImportance:      factorWeight(0),
			SecondaryFactor:       factorName(1),
			SecondaryImportance:   factorWeight(1),
			TertiaryFactor:        factorName(2),
			TertiaryImportance:    factorWeight(2),
			RainfallMM:            mt.rainfall,
			PopulationDensity:     mt.density,
			PredictionAccuracy:    model.TestScore,
		})
	}
	return out, nil
}

// MonthlyResultsByMonth re-indexes the partition's monthly results by
// lowercase month name. Months absent from the results stay nil and are
// omitted from the payload.
func (a *Aggregator) MonthlyResultsByMonth(year int) (MonthlyResultIndex, error) {
	results, err := a.MonthlyResults(year)
	if err != nil {
		return MonthlyResultIndex{}, err
	}

	var index MonthlyResultIndex
	slots := index.slots()
	for i := range results {
		for m, name := range monthNames {
			if results[i].Month == name {
				*slots[m] = &results[i]
			}
		}
	}
	return index, nil
}

// RegionalData returns one entry per region observed in the partition:
// total cases, mean rainfall, the region's density, and the partition's
// dominant factor. Density is constant within a region, so the first
// observation's value is used.
func (a *Aggregator) RegionalData(year int) ([]RegionalEntry, error) {
	model, err := a.modelFor(year)
	if err != nil {
		return nil, err
	}

	var dominant domain.FeatureImportance
	if len(model.Importances) > 0 {
		dominant = model.Importances[0]
	}

	regions := a.regionsFor(year)
	out := make([]RegionalEntry, 0, len(regions))
	for _, region := range regions {
		var subset []domain.Record
		for _, rec := range a.panel.Series[region] {
			if year != domain.AllYears && rec.Year != year {
				continue
			}
			subset = append(subset, rec)
		}
		if len(subset) == 0 {
			continue
		}

		cases := 0
		rain := make([]float64, 0, len(subset))
		for _, rec := range subset {
			cases += rec.Cases
			rain = append(rain, rec.Rainfall)
		}
		avgRain, _ := stats.Mean(rain)

		out = append(out, RegionalEntry{
			Region:            region,
			TotalCases:        cases,
			DominantFactor:    domain.DisplayName(dominant.Feature),
			FactorImportance:  dominant.Importance,
			PopulationDensity: formatDensity(subset[0].Density),
			AvgRainfall:       round(avgRain, 2),
		})
	}
	return out, nil
}
