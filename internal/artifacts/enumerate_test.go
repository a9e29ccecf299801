package artifacts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dbdcli/pkg/contracts/domain"
)

// enumPanel has Kota Bandung observed in 2016 and 2020 and Kabupaten Bogor
// in 2016 only.
func enumPanel() *domain.Panel {
	record := func(region string, year, month int) domain.Record {
		return domain.Record{
			Year: year, Month: month, Province: "Jawa Barat", Region: region,
			Cases: 1, Rainfall: 10, Density: 100,
		}
	}
	return &domain.Panel{
		Series: map[string][]domain.Record{
			"Kota Bandung": {
				record("Kota Bandung", 2016, 1),
				record("Kota Bandung", 2016, 2),
				record("Kota Bandung", 2020, 1),
			},
			"Kabupaten Bogor": {
				record("Kabupaten Bogor", 2016, 1),
			},
		},
		Years:   []int{2016, 2020},
		Regions: []string{"Kabupaten Bogor", "Kota Bandung"},
		Observed: map[domain.RegionYear]bool{
			{Region: "Kota Bandung", Year: 2016}:    true,
			{Region: "Kota Bandung", Year: 2020}:    true,
			{Region: "Kabupaten Bogor", Year: 2016}: true,
		},
	}
}

func allTrained() map[int]bool {
	return map[int]bool{domain.AllYears: true, 2016: true, 2020: true}
}

func TestEnumerateKeysAreDistinct(t *testing.T) {
	keys := NewEnumerator(enumPanel(), allTrained(), nil).Enumerate()

	byKey := make(map[Key]bool, len(keys))
	byAddress := make(map[string]Key, len(keys))
	for _, key := range keys {
		assert.False(t, byKey[key], "duplicate key %+v", key)
		byKey[key] = true

		address := key.Address()
		other, dup := byAddress[address]
		assert.False(t, dup, "keys %+v and %+v collide on %s", key, other, address)
		byAddress[address] = key
	}
}

func TestEnumerateTotalityOverObservedPairs(t *testing.T) {
	panel := enumPanel()
	keys := NewEnumerator(panel, allTrained(), nil).Enumerate()

	// The per-region, per-year keys must cover exactly the observed
	// (region, year) pairs.
	exported := make(map[domain.RegionYear]bool)
	for _, key := range keys {
		if key.Kind == KindScatterRainfallByRegion && key.Year != domain.AllYears {
			exported[domain.RegionYear{Region: key.Region, Year: key.Year}] = true
		}
	}
	assert.Equal(t, panel.Observed, exported)
}

func TestEnumerateSkipsUnobservedRegionYear(t *testing.T) {
	keys := NewEnumerator(enumPanel(), allTrained(), nil).Enumerate()

	for _, key := range keys {
		assert.NotEqual(t,
			Key{Kind: KindScatterRainfallByRegion, Year: 2020, Region: "Kabupaten Bogor"},
			key)
	}
}

func TestEnumerateGatesModelDependentKinds(t *testing.T) {
	trained := map[int]bool{domain.AllYears: true, 2016: true} // 2020 skipped
	keys := NewEnumerator(enumPanel(), trained, nil).Enumerate()

	var has2020LineChart, has2020Monthly, has2016Monthly bool
	for _, key := range keys {
		switch key {
		case Key{Kind: KindLineChart, Year: 2020}:
			has2020LineChart = true
		case Key{Kind: KindMonthlyResults, Year: 2020}:
			has2020Monthly = true
		case Key{Kind: KindMonthlyResults, Year: 2016}:
			has2016Monthly = true
		}
	}
	assert.True(t, has2020LineChart, "panel-only kinds survive a skipped partition")
	assert.False(t, has2020Monthly, "model-dependent kinds are gated on training")
	assert.True(t, has2016Monthly)
}

func TestEnumerateSingletonKinds(t *testing.T) {
	keys := NewEnumerator(enumPanel(), allTrained(), nil).Enumerate()

	counts := make(map[Kind]int)
	for _, key := range keys {
		counts[key.Kind]++
	}
	assert.Equal(t, 1, counts[KindRawDataSummary])
	assert.Equal(t, 1, counts[KindAvailableYears])
	assert.Equal(t, 1, counts[KindMonthlyByMonth])
	// default + one per year
	assert.Equal(t, 3, counts[KindAvailableRegions])
	assert.Equal(t, 3, counts[KindMonthlyResults])
	// one default page + one per year
	assert.Equal(t, 3, counts[KindRawData])
	// two factors per partition
	assert.Equal(t, 6, counts[KindScatterPlot])
}

func TestEnumerateMonthlyByMonthOnlyForDefault(t *testing.T) {
	trained := map[int]bool{2016: true, 2020: true} // all-years model skipped
	keys := NewEnumerator(enumPanel(), trained, nil).Enumerate()

	for _, key := range keys {
		assert.NotEqual(t, KindMonthlyByMonth, key.Kind,
			"month index requires the all-years model")
	}
}

func TestEnumerateRawDataPages(t *testing.T) {
	tests := []struct {
		name    string
		records int
		pages   int
	}{
		{name: "one partial page", records: 48, pages: 1},
		{name: "several pages", records: 250, pages: 3},
		{name: "capped at one thousand rows", records: 1200, pages: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			series := make([]domain.Record, 0, tt.records)
			for i := 0; i < tt.records; i++ {
				series = append(series, domain.Record{
					Year: 2016 + i, Month: 1, Province: "Jawa Barat",
					Region: "Kota Bandung", Cases: 1, Rainfall: 10, Density: 100,
				})
			}
			panel := &domain.Panel{
				Series:  map[string][]domain.Record{"Kota Bandung": series},
				Regions: []string{"Kota Bandung"},
			}

			keys := NewEnumerator(panel, nil, nil).rawDataKeys(domain.AllYears)
			require.Len(t, keys, tt.pages)
			for page, key := range keys {
				assert.Equal(t, Key{Kind: KindRawData, Year: domain.AllYears, Page: page}, key)
			}
		})
	}
}

func TestAvailableYears(t *testing.T) {
	index := NewEnumerator(enumPanel(), allTrained(), nil).AvailableYears()

	assert.Equal(t, []int{2016, 2020}, index.Years)
	assert.Equal(t, 2016, index.Min)
	assert.Equal(t, 2020, index.Max)
	assert.Equal(t, 2020, index.Default)
}

func TestAvailableRegionsMatchesEnumeratedKeys(t *testing.T) {
	enum := NewEnumerator(enumPanel(), allTrained(), nil)
	keys := enum.Enumerate()

	for _, year := range []int{domain.AllYears, 2016, 2020} {
		index := enum.AvailableRegions(year)
		require.Equal(t, index.Count, len(index.Regions))

		var enumerated []string
		for _, key := range keys {
			if key.Kind == KindScatterRainfallByRegion && key.Year == year {
				enumerated = append(enumerated, key.Region)
			}
		}
		assert.Equal(t, index.Regions, enumerated, "year %d", year)
	}
}

func TestAvailableRegionsExcludesAbsentRegion(t *testing.T) {
	index := NewEnumerator(enumPanel(), allTrained(), nil).AvailableRegions(2020)

	assert.Equal(t, []string{"Kota Bandung"}, index.Regions)
	assert.Equal(t, 1, index.Count)
}
