package aggregate

import (
	"fmt"
	"sort"

	"dbdcli/pkg/contracts/domain"
)

const (
	rainfallAxisLabel = "Curah Hujan (mm)"
	densityAxisLabel  = "Kepadatan Penduduk (per km²)"
	casesAxisLabel    = "Kasus Bulanan"
	annualAxisLabel   = "Total Kasus Tahunan"
)

// LineChart returns the month-by-month case and rainfall series for a
// partition. It reads only the panel, so it is available even when the
// partition's model was skipped.
func (a *Aggregator) LineChart(year int) LineChartData {
	totals := a.monthlyTotals(year)

	data := LineChartData{
		Labels: make([]string, 0, len(totals)),
		Datasets: LineChartSeries{
			TotalCases: make([]int, 0, len(totals)),
			Rainfall:   make([]float64, 0, len(totals)),
		},
	}
	for _, mt := range totals {
		data.Labels = append(data.Labels, MonthName(mt.month))
		data.Datasets.TotalCases = append(data.Datasets.TotalCases, mt.cases)
		data.Datasets.Rainfall = append(data.Datasets.Rainfall, mt.rainfall)
	}
	return data
}

// BarChart returns the per-month top-3 importance bars for a partition.
func (a *Aggregator) BarChart(year int) (BarChartData, error) {
	results, err := a.MonthlyResults(year)
	if err != nil {
		return BarChartData{}, err
	}

	data := BarChartData{
		Labels:              make([]string, 0, len(results)),
		PrimaryImportance:   make([]float64, 0, len(results)),
		SecondaryImportance: make([]float64, 0, len(results)),
		TertiaryImportance:  make([]float64, 0, len(results)),
		PrimaryFactors:      make([]string, 0, len(results)),
	}
	for _, r := range results {
		data.Labels = append(data.Labels, r.Month)
		data.PrimaryImportance = append(data.PrimaryImportance, r.FactorImportance)
		data.SecondaryImportance = append(data.SecondaryImportance, r.SecondaryImportance)
		data.TertiaryImportance = append(data.TertiaryImportance, r.TertiaryImportance)
		data.PrimaryFactors = append(data.PrimaryFactors, r.MostInfluentialFactor)
	}
	return data, nil
}

// ScatterByFactor plots monthly case totals against one covariate axis,
// sorted by the covariate ascending. The sort is stable so equal x values
// stay in calendar order.
func (a *Aggregator) ScatterByFactor(factor domain.ScatterFactor, year int) ScatterData {
	totals := a.monthlyTotals(year)

	xValue := func(mt monthlyTotal) float64 {
		if factor == domain.ScatterFactorDensity {
			return mt.density
		}
		return mt.rainfall
	}
	xLabel := rainfallAxisLabel
	if factor == domain.ScatterFactorDensity {
		xLabel = densityAxisLabel
	}

	sort.SliceStable(totals, func(i, j int) bool {
		return xValue(totals[i]) < xValue(totals[j])
	})

	data := ScatterData{
		X:      make([]float64, 0, len(totals)),
		Y:      make([]int, 0, len(totals)),
		Labels: make([]string, 0, len(totals)),
		XLabel: xLabel,
		YLabel: casesAxisLabel,
	}
	for _, mt := range totals {
		data.X = append(data.X, xValue(mt))
		data.Y = append(data.Y, mt.cases)
		data.Labels = append(data.Labels, MonthName(mt.month))
	}
	return data
}

// ScatterRegionRainfall plots one region's observations as (rainfall, cases)
// points sorted by rainfall, labeled with the abbreviated month and year.
func (a *Aggregator) ScatterRegionRainfall(region string, year int) ScatterData {
	var subset []domain.Record
	for _, rec := range a.panel.Series[region] {
		if year != domain.AllYears && rec.Year != year {
			continue
		}
		subset = append(subset, rec)
	}
	sort.SliceStable(subset, func(i, j int) bool {
		return subset[i].Rainfall < subset[j].Rainfall
	})

	data := ScatterData{
		X:      make([]float64, 0, len(subset)),
		Y:      make([]int, 0, len(subset)),
		Labels: make([]string, 0, len(subset)),
		XLabel: rainfallAxisLabel,
		YLabel: casesAxisLabel,
	}
	for _, rec := range subset {
		data.X = append(data.X, round(rec.Rainfall, 2))
		data.Y = append(data.Y, rec.Cases)
		data.Labels = append(data.Labels,
			fmt.Sprintf("%s %d", shortMonthNames[rec.Month-1], rec.Year))
	}
	return data
}

// ScatterPopulationAllRegions plots each region as a single-point series of
// (density, total cases) so chart consumers can color per region. Density is
// constant within a region.
func (a *Aggregator) ScatterPopulationAllRegions(year int) ScatterSeriesData {
	regions := a.regionsFor(year)

	data := ScatterSeriesData{
		Series: make([]ScatterSeries, 0, len(regions)),
		XLabel: densityAxisLabel,
		YLabel: annualAxisLabel,
	}
	for _, region := range regions {
		cases := 0
		density := 0.0
		seen := false
		for _, rec := range a.panel.Series[region] {
			if year != domain.AllYears && rec.Year != year {
				continue
			}
			if !seen {
				density = rec.Density
				seen = true
			}
			cases += rec.Cases
		}
		if !seen {
			continue
		}
		data.Series = append(data.Series, ScatterSeries{
			Name: region,
			Data: []ScatterSeriesPoint{{X: density, Y: cases, Name: region}},
		})
	}
	return data
}
