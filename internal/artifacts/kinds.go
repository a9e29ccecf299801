// Package artifacts enumerates the export key-space for one pipeline run
// and maps each key to its file address. Enumeration is total over the
// panel's observed (region, year) pairs and never emits a key for a
// combination absent from the data.
package artifacts

import (
	"strconv"
	"strings"

	"dbdcli/pkg/contracts/domain"
)

// Kind identifies one artifact family. The set is closed; switches over
// Kind are exhaustive.
type Kind string

const (
	KindMonthlyResults              Kind = "monthly-results"
	KindMonthlyByMonth              Kind = "monthly-results-by-month"
	KindRegionalData                Kind = "regional-data"
	KindLineChart                   Kind = "line-chart-data"
	KindBarChart                    Kind = "bar-chart-data"
	KindScatterPlot                 Kind = "scatter-plot"
	KindScatterRainfallByRegion     Kind = "scatter-rainfall-by-region"
	KindScatterPopulationAllRegions Kind = "scatter-population-all-regions"
	KindStatistics                  Kind = "statistics"
	KindFactorSummary               Kind = "factor-summary"
	KindModelInfo                   Kind = "model-info"
	KindRawData                     Kind = "raw-data"
	KindRawDataSummary              Kind = "raw-data-summary"
	KindAvailableYears              Kind = "available-years"
	KindAvailableRegions            Kind = "available-regions"
)

// Kinds lists every artifact kind in export order.
func Kinds() []Kind {
	return []Kind{
		KindMonthlyResults,
		KindMonthlyByMonth,
		KindRegionalData,
		KindLineChart,
		KindBarChart,
		KindScatterPlot,
		KindScatterRainfallByRegion,
		KindScatterPopulationAllRegions,
		KindStatistics,
		KindFactorSummary,
		KindModelInfo,
		KindRawData,
		KindRawDataSummary,
		KindAvailableYears,
		KindAvailableRegions,
	}
}

// ModelDependent reports whether artifacts of this kind read a trained
// model. Model-dependent keys are only enumerated for partitions that
// trained successfully; the rest read the panel alone.
func (k Kind) ModelDependent() bool {
	switch k {
	case KindMonthlyResults, KindMonthlyByMonth, KindRegionalData,
		KindBarChart, KindStatistics, KindFactorSummary, KindModelInfo:
		return true
	case KindLineChart, KindScatterPlot, KindScatterRainfallByRegion,
		KindScatterPopulationAllRegions, KindRawData, KindRawDataSummary,
		KindAvailableYears, KindAvailableRegions:
		return false
	}
	return false
}

// Raw dataset dump pagination: the no-filter variant is split into pages of
// RawPageLimit records, capped at rawPageCap records in total. Per-year
// dumps are never paginated.
const (
	RawPageLimit = 100
	rawPageCap   = 1000
)

// Key is the logical identity of one artifact. Year is domain.AllYears for
// the no-filter variant; Region and Factor are set only for kinds scoped to
// them; Page is set only for the paginated no-filter raw-data dump.
type Key struct {
	Kind   Kind
	Year   int
	Region string
	Factor domain.ScatterFactor
	Page   int
}

// Address maps the key to its file name:
// {kind}[-{factor}][-{region-sanitized}][-{year}].json. The paginated raw
// dump is the one exception, addressed as
// raw-data-limit{limit}-offset{offset}.json. The mapping is pure and
// injective over the enumerated space as long as SanitizeRegion never
// collapses two enumerated region names.
func (k Key) Address() string {
	if k.Kind == KindRawData && k.Year == domain.AllYears {
		return "raw-data-limit" + strconv.Itoa(RawPageLimit) +
			"-offset" + strconv.Itoa(k.Page*RawPageLimit) + ".json"
	}
	parts := []string{string(k.Kind)}
	if k.Factor != "" {
		parts = append(parts, string(k.Factor))
	}
	if k.Region != "" {
		parts = append(parts, SanitizeRegion(k.Region))
	}
	if k.Year != domain.AllYears {
		parts = append(parts, strconv.Itoa(k.Year))
	}
	return strings.Join(parts, "-") + ".json"
}

var regionSanitizer = strings.NewReplacer(" ", "-", "/", "-")

// SanitizeRegion makes a region name address-safe: each space and each "/"
// becomes "-"; nothing else is altered.
func SanitizeRegion(region string) string {
	return regionSanitizer.Replace(region)
}
