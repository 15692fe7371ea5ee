package xlsxwriter

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/tagfill/internal/grid"
	"github.com/ginjaninja78/tagfill/internal/types"
)

func samplePlan(t *testing.T) *grid.Plan {
	t.Helper()
	records := []types.LabelRecord{
		{Price: "1", UPC: "a"},
		{Price: "2", UPC: "b"},
		{Price: "3", UPC: "c"},
	}
	plan, err := grid.Allocate(records, 1, 2, grid.MultiPage)
	require.NoError(t, err)
	return plan
}

func TestWriteRoundTrip(t *testing.T) {
	plan := samplePlan(t)
	path := filepath.Join(t.TempDir(), "plan.xlsx")
	require.NoError(t, Write(path, plan))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{PlanSheet, "Page 1", "Page 2"}, f.GetSheetList())

	rows, err := f.GetRows(PlanSheet)
	require.NoError(t, err)
	require.Len(t, rows, 1+len(plan.Commands))
	assert.Equal(t, []string{"#", "action", "page", "row", "col", "price frame", "upc frame", "price", "upc"}, rows[0])
	assert.Equal(t, []string{"1", "fill", "1", "1", "1", "price_1_1", "upc_1_1", "1", "a"}, rows[1])
	assert.Equal(t, []string{"3", "create_page", "2", "1", "1"}, rows[3])
	assert.Equal(t, []string{"5", "clear", "2", "1", "2", "price_1_2", "upc_1_2"}, rows[5])

	v, err := f.GetCellValue("Page 2", "B2")
	require.NoError(t, err)
	assert.Equal(t, "3 / c", v)
	v, err = f.GetCellValue("Page 2", "C2")
	require.NoError(t, err)
	assert.Empty(t, v)
}

func TestWriteToStream(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTo(&buf, samplePlan(t)))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	v, err := f.GetCellValue("Page 1", "C2")
	require.NoError(t, err)
	assert.Equal(t, "2 / b", v)
}
