package aggregate

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"dbdcli/internal/dataset"
	dberrors "dbdcli/internal/errors"
	"dbdcli/pkg/contracts/domain"
)

// Statistics returns the headline numbers for a partition: case totals,
// extreme months, and how often each factor dominated. Ties on the extreme
// months resolve to the earliest month because the scan uses strict
// comparisons over the calendar-ordered results.
func (a *Aggregator) Statistics(year int) (StatisticsData, error) {
	results, err := a.MonthlyResults(year)
	if err != nil {
		return StatisticsData{}, err
	}
	if len(results) == 0 {
		return StatisticsData{}, dberrors.NewValidationError(
			fmt.Sprintf("partition %s has no monthly data for statistics", partitionLabel(year)), nil)
	}
	model, err := a.modelFor(year)
	if err != nil {
		return StatisticsData{}, err
	}

	total := 0
	accuracy := 0.0
	high, low := results[0], results[0]
	for _, r := range results {
		total += r.TotalCases
		accuracy += r.PredictionAccuracy
		if r.TotalCases > high.TotalCases {
			high = r
		}
		if r.TotalCases < low.TotalCases {
			low = r
		}
	}

	counts := make(map[string]int)
	for _, r := range results {
		counts[r.MostInfluentialFactor]++
	}
	freq := make([]FactorCount, 0, len(counts))
	for factor, n := range counts {
		freq = append(freq, FactorCount{Factor: factor, Count: n})
	}
	sort.Slice(freq, func(i, j int) bool {
		if freq[i].Count != freq[j].Count {
			return freq[i].Count > freq[j].Count
		}
		return freq[i].Factor < freq[j].Factor
	})

	return StatisticsData{
		TotalCases:          total,
		AverageMonthlyCases: round(float64(total)/float64(len(results)), 2),
		HighestMonth: MonthExtreme{
			Month:          high.Month,
			Cases:          high.TotalCases,
			DominantFactor: high.MostInfluentialFactor,
		},
		LowestMonth: MonthExtreme{
			Month:          low.Month,
			Cases:          low.TotalCases,
			DominantFactor: low.MostInfluentialFactor,
		},
		DominantFactorFrequency:   freq,
		AveragePredictionAccuracy: round(accuracy/float64(len(results)), 4),
		ModelType:                 model.ModelType,
	}, nil
}

// FactorSummary lists every factor of the partition model in ranked order
// with its Indonesian display name and description.
func (a *Aggregator) FactorSummary(year int) (FactorSummaryData, error) {
	model, err := a.modelFor(year)
	if err != nil {
		return FactorSummaryData{}, err
	}

	factors := make([]FactorEntry, 0, len(model.Importances))
	for _, fi := range model.Importances {
		description, ok := domain.FeatureDescriptions[fi.Feature]
		if !ok {
			description = "Deskripsi tidak tersedia"
		}
		factors = append(factors, FactorEntry{
			Name:          domain.DisplayName(fi.Feature),
			AvgImportance: fi.Importance,
			Description:   description,
		})
	}
	return FactorSummaryData{Factors: factors}, nil
}

// ModelInfo describes the partition's trained model. The held-out score
// doubles as the cross-validation field for artifact compatibility.
func (a *Aggregator) ModelInfo(year int) (ModelInfoData, error) {
	model, err := a.modelFor(year)
	if err != nil {
		return ModelInfoData{}, err
	}

	return ModelInfoData{
		ModelType:            model.ModelType,
		FeaturesUsed:         model.Features,
		TrainingAccuracy:     model.TrainScore,
		TestAccuracy:         model.TestScore,
		CrossValidationScore: model.TestScore,
		TotalDataPoints:      model.SampleCount,
		TrainingPeriod:       a.trainingPeriod(year),
	}, nil
}

// trainingPeriod formats the year span a partition model was trained on.
func (a *Aggregator) trainingPeriod(year int) string {
	if year != domain.AllYears {
		return strconv.Itoa(year)
	}
	years := a.panel.Years
	if len(years) == 0 {
		return ""
	}
	return fmt.Sprintf("%d-%d", years[0], years[len(years)-1])
}

// RawData returns one page of the full raw dataset dump, ordered by region
// then time. Total counts the whole dump; Count the rows on this page.
func (a *Aggregator) RawData(offset, limit int) RawDataPage {
	records := a.panel.Records()

	start := offset
	if start > len(records) {
		start = len(records)
	}
	end := start + limit
	if end > len(records) {
		end = len(records)
	}

	page := records[start:end]
	return RawDataPage{
		Total:  len(records),
		Limit:  limit,
		Offset: offset,
		Count:  len(page),
		Data:   page,
	}
}

// YearRawData returns one year's raw records as a single unpaginated dump.
func (a *Aggregator) YearRawData(year int) RawDataPage {
	records := a.panel.YearRecords(year)
	return RawDataPage{
		Total:  len(records),
		Limit:  len(records),
		Offset: 0,
		Count:  len(records),
		Data:   records,
	}
}

// RawDataSummary describes the loaded dataset: record counts, year and
// province coverage, and the case-count distribution.
func (a *Aggregator) RawDataSummary() RawSummaryData {
	records := a.panel.Records()

	provinces := make(map[string]bool)
	totalCases, minCases, maxCases := 0, 0, 0
	for i, rec := range records {
		provinces[rec.Province] = true
		totalCases += rec.Cases
		if i == 0 || rec.Cases < minCases {
			minCases = rec.Cases
		}
		if i == 0 || rec.Cases > maxCases {
			maxCases = rec.Cases
		}
	}

	provinceList := make([]string, 0, len(provinces))
	for name := range provinces {
		provinceList = append(provinceList, name)
	}
	sort.Strings(provinceList)

	years := YearsSummary{Unique: a.panel.Years}
	if len(a.panel.Years) > 0 {
		years.Min = a.panel.Years[0]
		years.Max = a.panel.Years[len(a.panel.Years)-1]
	}

	mean := 0.0
	if len(records) > 0 {
		mean = float64(totalCases) / float64(len(records))
	}

	return RawSummaryData{
		TotalRecords: len(records),
		Years:        years,
		Provinces:    ProvinceSummary{Count: len(provinceList), List: provinceList},
		Districts:    DistrictSummary{Count: len(a.panel.Regions)},
		Cases: CasesSummary{
			Total: totalCases,
			Min:   minCases,
			Max:   maxCases,
			Mean:  mean,
		},
		Columns: dataset.RequiredColumns(),
	}
}

// formatDensity renders a population density to roughly three significant
// figures: integers from 100 up, then one, two, or three decimals as the
// magnitude drops.
func formatDensity(value float64) float64 {
	switch {
	case value >= 100:
		return math.Round(value)
	case value >= 10:
		return round(value, 1)
	case value >= 1:
		return round(value, 2)
	default:
		return round(value, 3)
	}
}

// round rounds half away from zero to the given number of decimal places.
func round(value float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(value*scale) / scale
}
