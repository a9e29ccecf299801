package artifacts

import (
	"log/slog"

	"dbdcli/pkg/contracts/domain"
)

// YearsIndex is the available-years reverse-index payload.
type YearsIndex struct {
	Years   []int `json:"years"`
	Min     int   `json:"min"`
	Max     int   `json:"max"`
	Default int   `json:"default"`
}

// RegionsIndex is the available-regions reverse-index payload.
type RegionsIndex struct {
	Regions []string `json:"regions"`
	Count   int      `json:"count"`
}

// Enumerator produces the complete, non-overlapping key-space for one run.
type Enumerator struct {
	panel   *domain.Panel
	trained map[int]bool
	logger  *slog.Logger
}

// NewEnumerator builds an enumerator over the panel. trained marks the
// partitions (year, or domain.AllYears) whose model trained successfully;
// model-dependent keys are emitted only for those.
func NewEnumerator(panel *domain.Panel, trained map[int]bool, logger *slog.Logger) *Enumerator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Enumerator{panel: panel, trained: trained, logger: logger}
}

// Enumerate returns every artifact key for the run, default variants first,
// then per-year variants in ascending year order. Each enumerated key is
// distinct; region- and year-scoped keys exist only for observed
// combinations.
func (e *Enumerator) Enumerate() []Key {
	var keys []Key
	keys = append(keys, e.partitionKeys(domain.AllYears)...)
	keys = append(keys,
		Key{Kind: KindRawDataSummary, Year: domain.AllYears},
		Key{Kind: KindAvailableYears, Year: domain.AllYears},
	)
	for _, year := range e.panel.Years {
		keys = append(keys, e.partitionKeys(year)...)
	}

	e.logger.Info("artifact space enumerated",
		slog.Int("keys", len(keys)),
		slog.Int("years", len(e.panel.Years)),
		slog.Int("regions", len(e.panel.Regions)))
	return keys
}

// partitionKeys returns the keys scoped to one partition (a year, or the
// no-filter variant for domain.AllYears).
func (e *Enumerator) partitionKeys(year int) []Key {
	var keys []Key

	if e.trained[year] {
		keys = append(keys,
			Key{Kind: KindMonthlyResults, Year: year},
			Key{Kind: KindRegionalData, Year: year},
			Key{Kind: KindBarChart, Year: year},
			Key{Kind: KindStatistics, Year: year},
			Key{Kind: KindFactorSummary, Year: year},
			Key{Kind: KindModelInfo, Year: year},
		)
		// The month-keyed re-index only exists for the no-filter variant.
		if year == domain.AllYears {
			keys = append(keys, Key{Kind: KindMonthlyByMonth, Year: year})
		}
	}

	keys = append(keys, e.rawDataKeys(year)...)

	keys = append(keys, Key{Kind: KindLineChart, Year: year})
	for _, factor := range domain.ScatterFactors() {
		keys = append(keys, Key{Kind: KindScatterPlot, Year: year, Factor: factor})
	}
	for _, region := range e.regionsFor(year) {
		keys = append(keys, Key{Kind: KindScatterRainfallByRegion, Year: year, Region: region})
	}
	keys = append(keys,
		Key{Kind: KindScatterPopulationAllRegions, Year: year},
		Key{Kind: KindAvailableRegions, Year: year},
	)
	return keys
}

// rawDataKeys enumerates the raw dataset dumps for one partition: a single
// unpaginated file per year, and for the no-filter variant one page per
// RawPageLimit records up to the rawPageCap cap.
func (e *Enumerator) rawDataKeys(year int) []Key {
	if year != domain.AllYears {
		return []Key{{Kind: KindRawData, Year: year}}
	}
	total := e.panel.Len()
	if total > rawPageCap {
		total = rawPageCap
	}
	var keys []Key
	for page := 0; page*RawPageLimit < total; page++ {
		keys = append(keys, Key{Kind: KindRawData, Year: domain.AllYears, Page: page})
	}
	return keys
}

func (e *Enumerator) regionsFor(year int) []string {
	if year == domain.AllYears {
		return e.panel.Regions
	}
	return e.panel.RegionsForYear(year)
}

// AvailableYears builds the available-years index. Default is the latest
// year, matching what consumers show before any filter is picked.
func (e *Enumerator) AvailableYears() YearsIndex {
	years := e.panel.Years
	index := YearsIndex{Years: years}
	if len(years) > 0 {
		index.Min = years[0]
		index.Max = years[len(years)-1]
		index.Default = years[len(years)-1]
	}
	return index
}

// AvailableRegions builds the available-regions index for a partition. Its
// content mirrors the region-scoped keys Enumerate emits for that
// partition, so the index and the realized artifact set always agree.
func (e *Enumerator) AvailableRegions(year int) RegionsIndex {
	regions := e.regionsFor(year)
	return RegionsIndex{Regions: regions, Count: len(regions)}
}
