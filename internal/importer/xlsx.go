package importer

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ZanzyTHEbar/troupe-insights/internal/analysis"
)

// ParseXLSX reads the first worksheet with the same positional columns as the
// CSV format. The first row is a header; fully empty rows are skipped.
func ParseXLSX(r io.Reader) ([]analysis.Activity, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	out := []analysis.Activity{}
	for i, row := range rows {
		if i == 0 || blank(row) {
			continue
		}
		out = append(out, FromFields(row))
	}
	return out, nil
}

func blank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// Parse picks the reader from the file extension. Anything that is not .xlsx is treated as CSV.
func Parse(fileName string, r io.Reader) ([]analysis.Activity, error) {
	if strings.EqualFold(filepath.Ext(fileName), ".xlsx") {
		return ParseXLSX(r)
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", fileName, err)
	}
	return ParseCSV(string(body)), nil
}
