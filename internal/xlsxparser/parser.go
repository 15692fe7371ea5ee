// =============================================================================
// tagfill - XLSX Data Parser Module
// =============================================================================
//
// Reads label data from a workbook instead of a CSV file. The sheet holds the
// same three columns (qty, price, upc) with the same header handling, and
// rows are validated with csvparser.ParseRecord so a bad quantity fails the
// same way regardless of the input format.
//
// =============================================================================

package xlsxparser

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/tagfill/internal/csvparser"
)

// Options controls workbook parsing.
type Options struct {
	// Sheet is the sheet to read. Empty means the first sheet.
	Sheet string

	// HeaderRows is the number of leading rows skipped.
	HeaderRows int
}

// Load reads data rows from the workbook at path.
func Load(path string, opts Options) ([]csvparser.Row, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet := opts.Sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
		if sheet == "" {
			return nil, fmt.Errorf("%s: workbook has no sheets", path)
		}
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read sheet %q: %w", path, sheet, err)
	}

	var result []csvparser.Row
	for i, raw := range rows {
		if i < opts.HeaderRows {
			continue
		}
		if isRowEmpty(raw) {
			continue
		}

		// GetRows trims trailing empty cells; pad so a blank UPC is a blank
		// value rather than a short row.
		if len(raw) > 0 && len(raw) < csvparser.MinColumns {
			padded := make([]string, csvparser.MinColumns)
			copy(padded, raw)
			raw = padded
		}

		row, err := csvparser.ParseRecord(raw, i+1)
		if err != nil {
			return nil, fmt.Errorf("%s: sheet %q: %w", path, sheet, err)
		}
		result = append(result, row)
	}

	return result, nil
}

// isRowEmpty checks if a row contains only empty values.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
