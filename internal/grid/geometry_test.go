package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/tagfill/internal/types"
)

func TestFrameNames(t *testing.T) {
	price, upc := FrameNames(3, 7)
	assert.Equal(t, "price_3_7", price)
	assert.Equal(t, "upc_3_7", upc)
}

func TestFrameNamesDoNotCollide(t *testing.T) {
	// Multi-digit rows and columns are where naive concatenation would clash
	// ("1_11" vs "11_1").
	seen := make(map[string]types.GridPosition)
	for row := 1; row <= 12; row++ {
		for col := 1; col <= 12; col++ {
			price, upc := FrameNames(row, col)
			pos := types.GridPosition{Row: row, Col: col}
			for _, name := range []string{price, upc} {
				prev, dup := seen[name]
				assert.False(t, dup, "%s used by %v and %v", name, prev, pos)
				seen[name] = pos
			}
		}
	}
	assert.Len(t, seen, 2*12*12)
}

func TestGeometryOffset(t *testing.T) {
	g := DefaultGeometry()

	x, y := g.Offset(types.GridPosition{Page: 1, Row: 1, Col: 1})
	assert.InDelta(t, 4.1, x, 1e-9)
	assert.InDelta(t, 3.2, y, 1e-9)

	x, y = g.Offset(types.GridPosition{Page: 2, Row: 3, Col: 4})
	assert.InDelta(t, 4.1+3*3.1, x, 1e-9)
	assert.InDelta(t, 3.2+23+2*2.6, y, 1e-9)
}

func TestGeometryDelta(t *testing.T) {
	g := DefaultGeometry()

	dx, dy := g.Delta(types.GridPosition{Page: 1, Row: 1, Col: 1})
	assert.Zero(t, dx)
	assert.Zero(t, dy)

	dx, dy = g.Delta(types.GridPosition{Page: 3, Row: 7, Col: 8})
	assert.InDelta(t, 7*3.1, dx, 1e-9)
	assert.InDelta(t, 2*23+6*2.6, dy, 1e-9)
}

func TestGeometrySlotInvertsDelta(t *testing.T) {
	g := DefaultGeometry()

	for page := 1; page <= 3; page++ {
		for row := 1; row <= 7; row++ {
			for col := 1; col <= 8; col++ {
				want := types.GridPosition{Page: page, Row: row, Col: col}
				dx, dy := g.Delta(want)
				got, ok := g.Slot(dx, dy)
				require.True(t, ok, want.String())
				assert.Equal(t, want, got)
			}
		}
	}
}

func TestGeometrySlotRejectsOffGridPoints(t *testing.T) {
	g := DefaultGeometry()

	_, ok := g.Slot(1.0, 0)
	assert.False(t, ok)
	_, ok = g.Slot(-3.1, 0)
	assert.False(t, ok)
	_, ok = (Geometry{}).Slot(0, 0)
	assert.False(t, ok)
}
