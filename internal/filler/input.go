package filler

import (
	"path/filepath"
	"strings"

	"github.com/ginjaninja78/tagfill/internal/config"
	"github.com/ginjaninja78/tagfill/internal/csvparser"
	"github.com/ginjaninja78/tagfill/internal/types"
	"github.com/ginjaninja78/tagfill/internal/xlsxparser"
)

// LoadRows reads data rows from path, choosing the workbook reader for
// .xlsx files and the CSV reader otherwise.
func LoadRows(cfg *config.Config, path string) ([]csvparser.Row, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return xlsxparser.Load(path, xlsxparser.Options{
			Sheet:      cfg.Data.Sheet,
			HeaderRows: cfg.Data.HeaderRows,
		})
	default:
		opts := csvparser.DefaultOptions()
		opts.HeaderRows = cfg.Data.HeaderRows
		return csvparser.Load(path, opts)
	}
}

// LoadRecords reads path and expands it into label records. The second
// result counts labels a fixed sheet has no room for.
func LoadRecords(cfg *config.Config, path string) ([]types.LabelRecord, int, error) {
	rows, err := LoadRows(cfg, path)
	if err != nil {
		return nil, 0, err
	}
	return Expand(cfg, rows)
}
