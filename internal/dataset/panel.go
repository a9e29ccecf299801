package dataset

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/go-playground/validator/v10"

	"dbdcli/internal/errors"
	"dbdcli/pkg/contracts/domain"
)

// BuildPanel validates parsed records and assembles the region-grouped,
// time-ordered panel. Validation rejects duplicate keys, out-of-range
// values, and month gaps inside a region's observed range — gaps are an
// integrity failure, never interpolated.
func (l *Loader) BuildPanel(records []domain.Record) (*domain.Panel, error) {
	if len(records) == 0 {
		return nil, errors.NewIntegrityError("dataset contains no observations", nil)
	}

	validate := validator.New()
	seen := make(map[domain.RecordKey]int, len(records))
	series := make(map[string][]domain.Record)
	yearSet := make(map[int]bool)
	observed := make(map[domain.RegionYear]bool)

	for i, rec := range records {
		if err := validate.Struct(rec); err != nil {
			return nil, errors.NewIntegrityError(
				fmt.Sprintf("record %d (%s) failed validation", i+1, rec.Key()), err)
		}
		if rec.Year < l.cfg.MinYear || rec.Year > l.cfg.MaxYear {
			return nil, errors.NewIntegrityError(
				fmt.Sprintf("record %d: year %d outside allowed range %d-%d",
					i+1, rec.Year, l.cfg.MinYear, l.cfg.MaxYear), nil)
		}

		key := rec.Key()
		if prev, dup := seen[key]; dup {
			return nil, errors.NewIntegrityError(
				fmt.Sprintf("duplicate key %s (records %d and %d)", key, prev+1, i+1), nil)
		}
		seen[key] = i

		series[rec.Region] = append(series[rec.Region], rec)
		yearSet[rec.Year] = true
		observed[domain.RegionYear{Region: rec.Region, Year: rec.Year}] = true
	}

	regions := make([]string, 0, len(series))
	for region := range series {
		regions = append(regions, region)
		sub := series[region]
		sort.Slice(sub, func(i, j int) bool { return sub[i].Before(sub[j]) })
		if err := checkContiguity(region, sub); err != nil {
			return nil, err
		}
	}
	sort.Strings(regions)

	years := make([]int, 0, len(yearSet))
	for year := range yearSet {
		years = append(years, year)
	}
	sort.Ints(years)

	l.logger.Info("panel assembled",
		slog.Int("records", len(records)),
		slog.Int("regions", len(regions)),
		slog.Int("years", len(years)))

	return &domain.Panel{
		Series:   series,
		Years:    years,
		Regions:  regions,
		Observed: observed,
	}, nil
}

// checkContiguity verifies that a region's sorted sub-series has no month
// gaps inside any observed year. A year that is absent entirely is fine
// (the region simply has no partition there), and year boundaries are never
// checked: a series may end one year in November and resume the next in
// February without constituting a gap. Only a missing month between two
// observed months of the same year is an integrity failure.
func checkContiguity(region string, sub []domain.Record) error {
	for i := 1; i < len(sub); i++ {
		prev, cur := sub[i-1], sub[i]
		if cur.Year != prev.Year {
			continue
		}
		if cur.Month != prev.Month+1 {
			return errors.NewIntegrityError(
				fmt.Sprintf("region %s: gap between %04d-%02d and %04d-%02d",
					region, prev.Year, prev.Month, cur.Year, cur.Month), nil)
		}
	}
	return nil
}
