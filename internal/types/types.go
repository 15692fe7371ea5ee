// =============================================================================
// tagfill - Shared Types
// =============================================================================
//
// This package contains shared types used across multiple modules to avoid
// import cycles. Types defined here are used by:
//   - csvparser / xlsxparser (producers of label records)
//   - grid (the allocator)
//   - filler, validation, xlsxwriter (consumers)
//
// =============================================================================

package types

import "fmt"

// =============================================================================
// LABEL TYPES
// =============================================================================

// LabelRecord is one physical tag to print.
// A data row with quantity N expands into N identical records.
type LabelRecord struct {
	// Price is the sale price as read from the data file.
	// It may or may not carry a leading "$"; the tag writer normalizes it.
	Price string

	// UPC is the product code printed under the price.
	UPC string
}

// GridPosition is one slot in the printing grid.
// Page, Row and Col are all 1-indexed.
type GridPosition struct {
	Page int
	Row  int
	Col  int
}

// String renders the position as "(page,row,col)".
func (p GridPosition) String() string {
	return fmt.Sprintf("(%d,%d,%d)", p.Page, p.Row, p.Col)
}

// Less reports whether p comes before other in page-then-row-major order.
func (p GridPosition) Less(other GridPosition) bool {
	if p.Page != other.Page {
		return p.Page < other.Page
	}
	if p.Row != other.Row {
		return p.Row < other.Row
	}
	return p.Col < other.Col
}
