package dataset

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"

	"dbdcli/internal/errors"
	"dbdcli/pkg/contracts/domain"
)

// LoadXLSX reads an Excel workbook export of the dataset. The sheet is
// located by scanning for the row that carries the required headers, so
// workbooks with title rows or renamed sheets still load.
func (l *Loader) LoadXLSX(path string) (*domain.Panel, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.NewSchemaError(fmt.Sprintf("open workbook %s", path), err)
	}
	defer f.Close()

	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil || len(rows) == 0 {
			continue
		}
		headerIdx := findHeaderRow(rows)
		if headerIdx < 0 {
			continue
		}

		l.logger.Info("found dataset sheet",
			slog.String("path", path),
			slog.String("sheet", sheet),
			slog.Int("header_row", headerIdx+1),
			slog.Int("total_rows", len(rows)))

		return l.buildFromRows(trimEmptyRows(rows[headerIdx:]))
	}

	return nil, errors.NewSchemaError(
		fmt.Sprintf("no sheet in %s carries the required dataset columns", path), nil)
}

// findHeaderRow returns the index of the first row containing every
// required column name, or -1.
func findHeaderRow(rows [][]string) int {
	for i, row := range rows {
		if i > 10 {
			break // headers live near the top
		}
		rowText := strings.ToLower(strings.Join(row, " "))
		found := true
		for _, col := range RequiredColumns() {
			if !strings.Contains(rowText, col) {
				found = false
				break
			}
		}
		if found {
			return i
		}
	}
	return -1
}

// trimEmptyRows drops trailing all-blank rows that excelize reports for
// formatted-but-empty cells.
func trimEmptyRows(rows [][]string) [][]string {
	end := len(rows)
	for end > 0 {
		blank := true
		for _, cell := range rows[end-1] {
			if strings.TrimSpace(cell) != "" {
				blank = false
				break
			}
		}
		if !blank {
			break
		}
		end--
	}
	return rows[:end]
}
