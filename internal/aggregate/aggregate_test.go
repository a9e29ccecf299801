package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dberrors "dbdcli/internal/errors"
	"dbdcli/pkg/contracts/domain"
)

// testPanel builds a 2-region panel: Kota Bandung observed 2020 (3 months)
// and 2021 (2 months), Kabupaten Bogor observed 2020 only.
func testPanel() *domain.Panel {
	bandung := []domain.Record{
		{Year: 2020, Month: 1, Province: "Jawa Barat", Region: "Kota Bandung", Cases: 10, Rainfall: 100, Density: 250.4},
		{Year: 2020, Month: 2, Province: "Jawa Barat", Region: "Kota Bandung", Cases: 20, Rainfall: 200, Density: 250.4},
		{Year: 2020, Month: 3, Province: "Jawa Barat", Region: "Kota Bandung", Cases: 20, Rainfall: 300, Density: 250.4},
		{Year: 2021, Month: 1, Province: "Jawa Barat", Region: "Kota Bandung", Cases: 5, Rainfall: 50, Density: 250.4},
		{Year: 2021, Month: 2, Province: "Jawa Barat", Region: "Kota Bandung", Cases: 5, Rainfall: 150, Density: 250.4},
	}
	bogor := []domain.Record{
		{Year: 2020, Month: 1, Province: "Jawa Barat", Region: "Kabupaten Bogor", Cases: 1, Rainfall: 10, Density: 15.64},
		{Year: 2020, Month: 2, Province: "Jawa Barat", Region: "Kabupaten Bogor", Cases: 2, Rainfall: 20, Density: 15.64},
		{Year: 2020, Month: 3, Province: "Jawa Barat", Region: "Kabupaten Bogor", Cases: 3, Rainfall: 30, Density: 15.64},
	}
	return &domain.Panel{
		Series: map[string][]domain.Record{
			"Kota Bandung":    bandung,
			"Kabupaten Bogor": bogor,
		},
		Years:   []int{2020, 2021},
		Regions: []string{"Kabupaten Bogor", "Kota Bandung"},
		Observed: map[domain.RegionYear]bool{
			{Region: "Kota Bandung", Year: 2020}:    true,
			{Region: "Kota Bandung", Year: 2021}:    true,
			{Region: "Kabupaten Bogor", Year: 2020}: true,
		},
	}
}

func testReport(year int, testScore float64) domain.ModelReport {
	return domain.ModelReport{
		Year:        year,
		ModelType:   "Random Forest Regressor",
		Features:    domain.FeatureKeys(),
		TrainScore:  0.9,
		TestScore:   testScore,
		SampleCount: 8,
		Importances: []domain.FeatureImportance{
			{Feature: domain.FeatureRainfall, Importance: 0.40},
			{Feature: domain.FeatureRain3M, Importance: 0.25},
			{Feature: domain.FeatureDensity, Importance: 0.15},
			{Feature: domain.FeatureRainXDens, Importance: 0.10},
			{Feature: domain.FeatureRainLag1, Importance: 0.07},
			{Feature: domain.FeatureMonth, Importance: 0.03},
		},
	}
}

func testAggregator() *Aggregator {
	models := map[int]domain.ModelReport{
		domain.AllYears: testReport(domain.AllYears, 0.80),
		2020:            testReport(2020, 0.75),
		2021:            testReport(2021, 0.70),
	}
	return NewAggregator(testPanel(), models, nil)
}

func TestMonthlyResultsSingleYear(t *testing.T) {
	results, err := testAggregator().MonthlyResults(2020)
	require.NoError(t, err)
	require.Len(t, results, 3)

	jan := results[0]
	assert.Equal(t, "Januari", jan.Month)
	assert.Equal(t, 2020, jan.Year)
	assert.Equal(t, 11, jan.TotalCases)
	assert.Equal(t, 55.0, jan.RainfallMM)
	// mean(250.4, 15.64) = 133.02 renders as an integer above 100
	assert.Equal(t, 133.0, jan.PopulationDensity)

	assert.Equal(t, "Curah Hujan", jan.MostInfluentialFactor)
	assert.Equal(t, 0.40, jan.FactorImportance)
	assert.Equal(t, "Rata-rata Curah Hujan 3 Bulan", jan.SecondaryFactor)
	assert.Equal(t, 0.25, jan.SecondaryImportance)
	assert.Equal(t, "Kepadatan Penduduk", jan.TertiaryFactor)
	assert.Equal(t, 0.15, jan.TertiaryImportance)
	assert.Equal(t, 0.75, jan.PredictionAccuracy)

	assert.Equal(t, 22, results[1].TotalCases)
	assert.Equal(t, 23, results[2].TotalCases)
}

func TestMonthlyResultsAllYearsPoolsPartitions(t *testing.T) {
	results, err := testAggregator().MonthlyResults(domain.AllYears)
	require.NoError(t, err)
	require.Len(t, results, 3)

	// January pools two 2020 observations with one from 2021; the year
	// column reports the most frequent year in the pool.
	assert.Equal(t, 16, results[0].TotalCases)
	assert.Equal(t, 2020, results[0].Year)

	// March is observed in 2020 only.
	assert.Equal(t, 23, results[2].TotalCases)
	assert.Equal(t, 2020, results[2].Year)
}

func TestMonthlyResultsMissingModel(t *testing.T) {
	_, err := testAggregator().MonthlyResults(1999)
	require.Error(t, err)
	assert.True(t, dberrors.IsValidationError(err))
}

func TestMonthlyResultsByMonth(t *testing.T) {
	agg := testAggregator()
	index, err := agg.MonthlyResultsByMonth(domain.AllYears)
	require.NoError(t, err)

	results, err := agg.MonthlyResults(domain.AllYears)
	require.NoError(t, err)

	require.NotNil(t, index.Januari)
	require.NotNil(t, index.Februari)
	require.NotNil(t, index.Maret)
	assert.Equal(t, results[0], *index.Januari)
	assert.Equal(t, results[2], *index.Maret)

	// Months with no observations stay nil and drop out of the payload.
	assert.Nil(t, index.April)
	assert.Nil(t, index.Desember)
}

func TestMonthlyResultsByMonthMissingModel(t *testing.T) {
	_, err := testAggregator().MonthlyResultsByMonth(1999)
	require.Error(t, err)
	assert.True(t, dberrors.IsValidationError(err))
}

func TestRegionalData(t *testing.T) {
	entries, err := testAggregator().RegionalData(2020)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	bogor := entries[0]
	assert.Equal(t, "Kabupaten Bogor", bogor.Region)
	assert.Equal(t, 6, bogor.TotalCases)
	assert.Equal(t, 20.0, bogor.AvgRainfall)
	assert.Equal(t, 15.6, bogor.PopulationDensity)
	assert.Equal(t, "Curah Hujan", bogor.DominantFactor)
	assert.Equal(t, 0.40, bogor.FactorImportance)

	bandung := entries[1]
	assert.Equal(t, "Kota Bandung", bandung.Region)
	assert.Equal(t, 50, bandung.TotalCases)
	assert.Equal(t, 200.0, bandung.AvgRainfall)
	assert.Equal(t, 250.0, bandung.PopulationDensity)
}

func TestRegionalDataExcludesUnobservedRegion(t *testing.T) {
	entries, err := testAggregator().RegionalData(2021)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Kota Bandung", entries[0].Region)
	assert.Equal(t, 10, entries[0].TotalCases)
}

func TestModeYearTieBreaksLower(t *testing.T) {
	records := []domain.Record{
		{Year: 2021}, {Year: 2019}, {Year: 2021}, {Year: 2019},
	}
	assert.Equal(t, 2019, modeYear(records))
}
