package domain

import (
	"fmt"
	"sort"
)

// Record represents one (region, year, month) observation from the DBD
// case dataset. The pipeline key is (Region, Year, Month); the loader
// rejects duplicates.
type Record struct {
	Year        int     `json:"tahun" validate:"required"`
	Month       int     `json:"bulan" validate:"required,min=1,max=12"`
	Province    string  `json:"nama_provinsi" validate:"required"`
	Region      string  `json:"nama_kabupaten_kota" validate:"required"`
	Cases       int     `json:"kasus_bulanan" validate:"min=0"`
	AnnualCases int     `json:"kasus_tahunan" validate:"min=0"`
	Rainfall    float64 `json:"jumlah_curah_hujan" validate:"min=0"`
	Density     float64 `json:"kepadatan_penduduk" validate:"min=0"`
}

// Key returns the unique panel key for the record.
func (r Record) Key() RecordKey {
	return RecordKey{Region: r.Region, Year: r.Year, Month: r.Month}
}

// Before reports whether the record's timestamp precedes other's.
func (r Record) Before(other Record) bool {
	if r.Year != other.Year {
		return r.Year < other.Year
	}
	return r.Month < other.Month
}

// RecordKey identifies a single observation in the panel.
type RecordKey struct {
	Region string
	Year   int
	Month  int
}

// String formats the key for error messages and logs.
func (k RecordKey) String() string {
	return fmt.Sprintf("%s/%04d-%02d", k.Region, k.Year, k.Month)
}

// RegionYear identifies one observed (region, year) combination.
type RegionYear struct {
	Region string
	Year   int
}

// Panel is the full ordered set of observations, grouped per region and
// sorted by (year, month) ascending within each region. A Panel is built
// once by the dataset loader and is read-only afterwards.
type Panel struct {
	// Series maps region name to its time-ordered sub-series.
	Series map[string][]Record

	// Years holds every distinct year in ascending order.
	Years []int

	// Regions holds every distinct region name in ascending lexical order.
	Regions []string

	// Observed holds every (region, year) combination present in the data.
	Observed map[RegionYear]bool
}

// Records returns all observations across regions, ordered by region name
// then time. The slice is rebuilt on each call; callers own it.
func (p *Panel) Records() []Record {
	out := make([]Record, 0, p.Len())
	for _, region := range p.Regions {
		out = append(out, p.Series[region]...)
	}
	return out
}

// Len returns the total number of observations in the panel.
func (p *Panel) Len() int {
	n := 0
	for _, series := range p.Series {
		n += len(series)
	}
	return n
}

// YearRecords returns all observations for one year, ordered by region
// name then month.
func (p *Panel) YearRecords(year int) []Record {
	var out []Record
	for _, region := range p.Regions {
		for _, rec := range p.Series[region] {
			if rec.Year == year {
				out = append(out, rec)
			}
		}
	}
	return out
}

// RegionsForYear returns the regions observed in the given year, sorted
// lexically.
func (p *Panel) RegionsForYear(year int) []string {
	var out []string
	for _, region := range p.Regions {
		if p.Observed[RegionYear{Region: region, Year: year}] {
			out = append(out, region)
		}
	}
	sort.Strings(out)
	return out
}
