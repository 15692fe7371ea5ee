package grid

import (
	"fmt"
	"math"

	"github.com/ginjaninja78/tagfill/internal/types"
)

// Frame name prefixes for the pre-placed objects of a fixed sheet.
const (
	PricePrefix = "price"
	UPCPrefix   = "upc"
)

// FrameNames returns the price and UPC frame names for a slot,
// "price_{row}_{col}" and "upc_{row}_{col}".
func FrameNames(row, col int) (price, upc string) {
	return fmt.Sprintf("%s_%d_%d", PricePrefix, row, col),
		fmt.Sprintf("%s_%d_%d", UPCPrefix, row, col)
}

// Geometry holds the physical layout of the grid, in centimetres.
type Geometry struct {
	StartX     float64 `yaml:"start_x"`
	StartY     float64 `yaml:"start_y"`
	HSpacing   float64 `yaml:"h_spacing"`
	VSpacing   float64 `yaml:"v_spacing"`
	PageHeight float64 `yaml:"page_height"`
}

// DefaultGeometry is the layout of the stock 7x8 tag sheet.
func DefaultGeometry() Geometry {
	return Geometry{
		StartX:     4.1,
		StartY:     3.2,
		HSpacing:   3.1,
		VSpacing:   2.6,
		PageHeight: 23,
	}
}

// Offset is the document-space origin of a slot. Pages are stacked
// vertically at PageHeight pitch.
func (g Geometry) Offset(pos types.GridPosition) (x, y float64) {
	x = g.StartX + float64(pos.Col-1)*g.HSpacing
	y = g.StartY + float64(pos.Page-1)*g.PageHeight + float64(pos.Row-1)*g.VSpacing
	return x, y
}

// Delta is Offset relative to slot (1,1,1). A clone of a template placed at
// the grid origin is moved by Delta to land on pos.
func (g Geometry) Delta(pos types.GridPosition) (dx, dy float64) {
	x, y := g.Offset(pos)
	return x - g.StartX, y - g.StartY
}

// Slot is the inverse of Delta: the slot whose offset from (1,1,1) is
// (dx, dy). ok is false when no slot lies there.
func (g Geometry) Slot(dx, dy float64) (pos types.GridPosition, ok bool) {
	const tolerance = 1e-3
	if g.HSpacing <= 0 || g.VSpacing <= 0 || g.PageHeight <= 0 {
		return pos, false
	}

	page := int(math.Floor((dy+tolerance)/g.PageHeight)) + 1
	pos = types.GridPosition{
		Page: page,
		Row:  int(math.Round((dy-float64(page-1)*g.PageHeight)/g.VSpacing)) + 1,
		Col:  int(math.Round(dx/g.HSpacing)) + 1,
	}
	if pos.Page < 1 || pos.Row < 1 || pos.Col < 1 {
		return pos, false
	}

	ex, ey := g.Delta(pos)
	if math.Abs(ex-dx) > tolerance || math.Abs(ey-dy) > tolerance {
		return pos, false
	}
	return pos, true
}
