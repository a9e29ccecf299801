package aggregate

import "dbdcli/pkg/contracts/domain"

// MonthlyResult is one month's panel-wide summary decorated with the
// partition model's top factors. Field names are the artifact contract;
// consumers key on them.
type MonthlyResult struct {
	Month                 string  `json:"month"`
	Year                  int     `json:"year"`
	TotalCases            int     `json:"total_cases"`
	MostInfluentialFactor string  `json:"most_influential_factor"`
	FactorImportance      float64 `json:"factor_importance"`
	SecondaryFactor       string  `json:"secondary_factor"`
	SecondaryImportance   float64 `json:"secondary_importance"`
	TertiaryFactor        string  `json:"tertiary_factor"`
	TertiaryImportance    float64 `json:"tertiary_importance"`
	RainfallMM            float64 `json:"rainfall_mm"`
	PopulationDensity     float64 `json:"population_density"`
	PredictionAccuracy    float64 `json:"prediction_accuracy"`
}

// MonthlyResultIndex re-keys the monthly results by lowercase month name.
// Fields stay in calendar order so the artifact bytes are stable; months
// with no observations are omitted.
type MonthlyResultIndex struct {
	Januari   *MonthlyResult `json:"januari,omitempty"`
	Februari  *MonthlyResult `json:"februari,omitempty"`
	Maret     *MonthlyResult `json:"maret,omitempty"`
	April     *MonthlyResult `json:"april,omitempty"`
	Mei       *MonthlyResult `json:"mei,omitempty"`
	Juni      *MonthlyResult `json:"juni,omitempty"`
	Juli      *MonthlyResult `json:"juli,omitempty"`
	Agustus   *MonthlyResult `json:"agustus,omitempty"`
	September *MonthlyResult `json:"september,omitempty"`
	Oktober   *MonthlyResult `json:"oktober,omitempty"`
	November  *MonthlyResult `json:"november,omitempty"`
	Desember  *MonthlyResult `json:"desember,omitempty"`
}

// slots returns the index's month fields in calendar order, for assignment
// by month number.
func (x *MonthlyResultIndex) slots() [12]**MonthlyResult {
	return [12]**MonthlyResult{
		&x.Januari, &x.Februari, &x.Maret, &x.April, &x.Mei, &x.Juni,
		&x.Juli, &x.Agustus, &x.September, &x.Oktober, &x.November, &x.Desember,
	}
}

// RegionalEntry is one region's aggregate for a partition.
type RegionalEntry struct {
	Region            string  `json:"region"`
	TotalCases        int     `json:"total_cases"`
	DominantFactor    string  `json:"dominant_factor"`
	FactorImportance  float64 `json:"factor_importance"`
	PopulationDensity float64 `json:"population_density"`
	AvgRainfall       float64 `json:"avg_rainfall"`
}

// LineChartData pairs month labels with the case and rainfall series.
type LineChartData struct {
	Labels   []string        `json:"labels"`
	Datasets LineChartSeries `json:"datasets"`
}

// LineChartSeries holds the two plotted series in label order.
type LineChartSeries struct {
	TotalCases []int     `json:"total_cases"`
	Rainfall   []float64 `json:"rainfall"`
}

// BarChartData holds the per-month top-3 importance bars.
type BarChartData struct {
	Labels              []string  `json:"labels"`
	PrimaryImportance   []float64 `json:"primary_importance"`
	SecondaryImportance []float64 `json:"secondary_importance"`
	TertiaryImportance  []float64 `json:"tertiary_importance"`
	PrimaryFactors      []string  `json:"primary_factors"`
}

// ScatterData is a flat scatter series sorted by x ascending.
type ScatterData struct {
	X      []float64 `json:"x"`
	Y      []int     `json:"y"`
	Labels []string  `json:"labels"`
	XLabel string    `json:"x_label"`
	YLabel string    `json:"y_label"`
}

// ScatterSeriesData is a multi-series scatter, one series per region.
type ScatterSeriesData struct {
	Series []ScatterSeries `json:"series"`
	XLabel string          `json:"x_label"`
	YLabel string          `json:"y_label"`
}

// ScatterSeries is one named region series.
type ScatterSeries struct {
	Name string               `json:"name"`
	Data []ScatterSeriesPoint `json:"data"`
}

// ScatterSeriesPoint is one (density, total cases) point.
type ScatterSeriesPoint struct {
	X    float64 `json:"x"`
	Y    int     `json:"y"`
	Name string  `json:"name"`
}

// StatisticsData is the partition-wide headline statistics artifact.
type StatisticsData struct {
	TotalCases                int           `json:"total_cases"`
	AverageMonthlyCases       float64       `json:"average_monthly_cases"`
	HighestMonth              MonthExtreme  `json:"highest_month"`
	LowestMonth               MonthExtreme  `json:"lowest_month"`
	DominantFactorFrequency   []FactorCount `json:"dominant_factor_frequency"`
	AveragePredictionAccuracy float64       `json:"average_prediction_accuracy"`
	ModelType                 string        `json:"model_type"`
}

// MonthExtreme names the month holding an extreme case count.
type MonthExtreme struct {
	Month          string `json:"month"`
	Cases          int    `json:"cases"`
	DominantFactor string `json:"dominant_factor"`
}

// FactorCount is one dominant-factor frequency entry, most frequent first.
type FactorCount struct {
	Factor string `json:"factor"`
	Count  int    `json:"count"`
}

// FactorSummaryData lists every factor with its importance and description.
type FactorSummaryData struct {
	Factors []FactorEntry `json:"factors"`
}

// FactorEntry is one factor in the summary, ranked by importance.
type FactorEntry struct {
	Name          string  `json:"name"`
	AvgImportance float64 `json:"avg_importance"`
	Description   string  `json:"description"`
}

// ModelInfoData describes a trained partition model.
type ModelInfoData struct {
	ModelType            string   `json:"model_type"`
	FeaturesUsed         []string `json:"features_used"`
	TrainingAccuracy     float64  `json:"training_accuracy"`
	TestAccuracy         float64  `json:"test_accuracy"`
	CrossValidationScore float64  `json:"cross_validation_score"`
	TotalDataPoints      int      `json:"total_data_points"`
	TrainingPeriod       string   `json:"training_period"`
}

// RawDataPage is one slice of the raw dataset dump. Total counts the rows
// of the whole dump the page belongs to; Count the rows on this page.
type RawDataPage struct {
	Total  int             `json:"total"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
	Count  int             `json:"count"`
	Data   []domain.Record `json:"data"`
}

// RawSummaryData describes the loaded dataset as a whole.
type RawSummaryData struct {
	TotalRecords int             `json:"total_records"`
	Years        YearsSummary    `json:"years"`
	Provinces    ProvinceSummary `json:"provinces"`
	Districts    DistrictSummary `json:"districts"`
	Cases        CasesSummary    `json:"cases"`
	Columns      []string        `json:"columns"`
}

// YearsSummary is the year coverage of the dataset.
type YearsSummary struct {
	Min    int   `json:"min"`
	Max    int   `json:"max"`
	Unique []int `json:"unique"`
}

// ProvinceSummary lists the distinct provinces.
type ProvinceSummary struct {
	Count int      `json:"count"`
	List  []string `json:"list"`
}

// DistrictSummary counts the distinct regions.
type DistrictSummary struct {
	Count int `json:"count"`
}

// CasesSummary is the case-count distribution over all records.
type CasesSummary struct {
	Total int     `json:"total"`
	Min   int     `json:"min"`
	Max   int     `json:"max"`
	Mean  float64 `json:"mean"`
}
