// Package dataset loads the raw DBD case table into a validated Panel.
//
// Loading is all-or-nothing: any schema, type, or integrity failure aborts
// the whole load, so downstream stages never see a partial panel.
package dataset

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"dbdcli/internal/config"
	"dbdcli/internal/errors"
	"dbdcli/pkg/contracts/domain"
)

// Required dataset columns. Header matching is exact after trimming and
// lowercasing; a renamed column is a schema failure, not a fuzzy match.
const (
	ColYear     = "tahun"
	ColMonth    = "bulan"
	ColProvince = "nama_provinsi"
	ColRegion   = "nama_kabupaten_kota"
	ColCases    = "kasus_bulanan"
	ColAnnual   = "kasus_tahunan"
	ColRainfall = "jumlah_curah_hujan"
	ColDensity  = "kepadatan_penduduk"
)

// RequiredColumns lists every column the loader must find in the header,
// in dataset order.
func RequiredColumns() []string {
	return []string{
		ColYear, ColMonth, ColProvince, ColRegion,
		ColCases, ColAnnual, ColRainfall, ColDensity,
	}
}

// Loader parses tabular sources into validated panels.
type Loader struct {
	cfg    config.PipelineConfig
	logger *slog.Logger
}

// NewLoader creates a loader with the given pipeline configuration.
func NewLoader(cfg config.PipelineConfig, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{cfg: cfg, logger: logger}
}

// Load dispatches on the file extension: .xlsx goes through the Excel
// reader, everything else is treated as CSV.
func (l *Loader) Load(path string) (*domain.Panel, error) {
	if strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		return l.LoadXLSX(path)
	}
	return l.LoadCSV(path)
}

// LoadCSV reads a CSV dataset and returns the validated panel.
func (l *Loader) LoadCSV(path string) (*domain.Panel, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.NewSchemaError(fmt.Sprintf("open dataset %s", path), err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.NewSchemaError("read CSV records", err)
	}

	l.logger.Info("loaded CSV dataset",
		slog.String("path", path),
		slog.Int("row_count", len(rows)))

	return l.buildFromRows(rows)
}

// buildFromRows parses header + data rows shared by the CSV and XLSX paths.
func (l *Loader) buildFromRows(rows [][]string) (*domain.Panel, error) {
	if len(rows) == 0 {
		return nil, errors.NewSchemaError("dataset has no header row", nil)
	}

	columns, err := mapColumns(rows[0])
	if err != nil {
		return nil, err
	}

	if len(rows) == 1 {
		return nil, errors.NewIntegrityError("dataset contains a header but no observations", nil)
	}

	records := make([]domain.Record, 0, len(rows)-1)
	for i, row := range rows[1:] {
		line := i + 2 // 1-based, after the header
		rec, err := parseRow(row, columns, line)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return l.BuildPanel(records)
}

// mapColumns locates every required column in the header row.
func mapColumns(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}

	columns := make(map[string]int, len(RequiredColumns()))
	var missing []string
	for _, name := range RequiredColumns() {
		pos, ok := index[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		columns[name] = pos
	}
	if len(missing) > 0 {
		return nil, errors.NewSchemaError(
			fmt.Sprintf("missing required columns: %s", strings.Join(missing, ", ")), nil)
	}
	return columns, nil
}

// parseRow converts one data row into a Record, failing with TYPE_ERROR on
// any non-numeric value in a numeric column.
func parseRow(row []string, columns map[string]int, line int) (domain.Record, error) {
	cell := func(name string) (string, error) {
		pos := columns[name]
		if pos >= len(row) {
			return "", errors.NewSchemaError(
				fmt.Sprintf("row %d has %d cells, column %q expects index %d", line, len(row), name, pos), nil)
		}
		return strings.TrimSpace(row[pos]), nil
	}

	parseInt := func(name string) (int, error) {
		raw, err := cell(name)
		if err != nil {
			return 0, err
		}
		v, convErr := strconv.Atoi(raw)
		if convErr != nil {
			return 0, errors.NewParseError(
				fmt.Sprintf("column %q row %d: non-integer value %q", name, line, raw), convErr)
		}
		return v, nil
	}

	parseFloat := func(name string) (float64, error) {
		raw, err := cell(name)
		if err != nil {
			return 0, err
		}
		v, convErr := strconv.ParseFloat(raw, 64)
		if convErr != nil {
			return 0, errors.NewParseError(
				fmt.Sprintf("column %q row %d: non-numeric value %q", name, line, raw), convErr)
		}
		return v, nil
	}

	var rec domain.Record
	var err error

	if rec.Year, err = parseInt(ColYear); err != nil {
		return domain.Record{}, err
	}
	if rec.Month, err = parseInt(ColMonth); err != nil {
		return domain.Record{}, err
	}
	if rec.Province, err = cell(ColProvince); err != nil {
		return domain.Record{}, err
	}
	if rec.Region, err = cell(ColRegion); err != nil {
		return domain.Record{}, err
	}
	if rec.Cases, err = parseInt(ColCases); err != nil {
		return domain.Record{}, err
	}
	if rec.AnnualCases, err = parseInt(ColAnnual); err != nil {
		return domain.Record{}, err
	}
	if rec.Rainfall, err = parseFloat(ColRainfall); err != nil {
		return domain.Record{}, err
	}
	if rec.Density, err = parseFloat(ColDensity); err != nil {
		return domain.Record{}, err
	}

	return rec, nil
}
