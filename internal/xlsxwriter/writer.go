// =============================================================================
// tagfill - Plan Workbook Writer
// =============================================================================
//
// Writes an allocation plan as an Excel workbook so a run can be checked
// before anything is printed.
//
// WORKBOOK LAYOUT:
//   Plan     one row per command in emission order:
//            #, action, page, row, col, price frame, upc frame, price, upc
//   Page N   one sheet per page, laid out like the tag sheet; each cell
//            holds "price / upc" for a filled slot and is blank otherwise
//
// =============================================================================

package xlsxwriter

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/tagfill/internal/grid"
)

// PlanSheet is the name of the command listing sheet.
const PlanSheet = "Plan"

// PlanHeader is the header row of the Plan sheet.
var PlanHeader = []interface{}{"#", "action", "page", "row", "col", "price frame", "upc frame", "price", "upc"}

// PageSheet returns the sheet name for a page.
func PageSheet(page int) string {
	return fmt.Sprintf("Page %d", page)
}

// Write saves plan as a workbook at path.
func Write(path string, plan *grid.Plan) error {
	f, err := build(plan)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// WriteTo streams the workbook for plan to w.
func WriteTo(w io.Writer, plan *grid.Plan) error {
	f, err := build(plan)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func build(plan *grid.Plan) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", PlanSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to name plan sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create style: %w", err)
	}

	if err := writePlanSheet(f, plan, bold); err != nil {
		f.Close()
		return nil, err
	}
	for page := 1; page <= plan.Pages; page++ {
		if err := writePageSheet(f, plan, page, bold); err != nil {
			f.Close()
			return nil, err
		}
	}
	return f, nil
}

func writePlanSheet(f *excelize.File, plan *grid.Plan, headerStyle int) error {
	header := PlanHeader
	if err := f.SetSheetRow(PlanSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write plan header: %w", err)
	}
	if err := f.SetCellStyle(PlanSheet, "A1", "I1", headerStyle); err != nil {
		return fmt.Errorf("failed to style plan header: %w", err)
	}

	for i, c := range plan.Commands {
		row := []interface{}{i + 1, c.Kind.String(), c.Position.Page, c.Position.Row, c.Position.Col}
		if c.Kind != grid.CreatePage {
			price, upc := grid.FrameNames(c.Position.Row, c.Position.Col)
			row = append(row, price, upc)
		}
		if c.Kind == grid.Fill {
			row = append(row, c.Record.Price, c.Record.UPC)
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(PlanSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write plan row %d: %w", i+1, err)
		}
	}

	return f.SetColWidth(PlanSheet, "F", "G", 14)
}

func writePageSheet(f *excelize.File, plan *grid.Plan, page, headerStyle int) error {
	sheet := PageSheet(page)
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to add sheet %q: %w", sheet, err)
	}

	for col := 1; col <= plan.Cols; col++ {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, fmt.Sprintf("col %d", col)); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return err
		}
	}
	for row := 1; row <= plan.Rows; row++ {
		cell, err := excelize.CoordinatesToCellName(1, row+1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, fmt.Sprintf("row %d", row)); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return err
		}
	}

	for _, c := range plan.Commands {
		if c.Kind != grid.Fill || c.Position.Page != page {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(c.Position.Col+1, c.Position.Row+1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, c.Record.Price+" / "+c.Record.UPC); err != nil {
			return fmt.Errorf("failed to write %s %s: %w", sheet, cell, err)
		}
	}
	return nil
}
