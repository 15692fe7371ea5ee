package csvparser

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/tagfill/internal/types"
)

func TestReadSkipsHeaderAndParsesRows(t *testing.T) {
	input := "qty,sale price,upc\n2,5,111\n1,$7.50,222\n"

	rows, err := Read(strings.NewReader(input), DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, []Row{
		{Quantity: 2, Price: "5", UPC: "111", Line: 2},
		{Quantity: 1, Price: "$7.50", UPC: "222", Line: 3},
	}, rows)
}

func TestReadSkipsBlankLinesAndExtraColumns(t *testing.T) {
	input := "qty,price,upc,notes\n\n 3 , 4.99 , 0123 ,clearance\n,,\n1,2,3\n"

	rows, err := Read(strings.NewReader(input), DefaultOptions())
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, Row{Quantity: 3, Price: "4.99", UPC: "0123", Line: 3}, rows[0])
	assert.Equal(t, 5, rows[1].Line)
}

func TestReadRejectsBadQuantity(t *testing.T) {
	for _, qty := range []string{"abc", "0", "-2", "1.5", ""} {
		input := "qty,price,upc\n1,1.00,111\n" + qty + ",2.00,222\n"

		_, err := Read(strings.NewReader(input), DefaultOptions())

		var pe *ParseError
		require.True(t, errors.As(err, &pe), "qty %q: %v", qty, err)
		assert.Equal(t, 3, pe.Line)
		assert.Equal(t, "qty", pe.Column)
		assert.Equal(t, qty, pe.Value)
		assert.True(t, errors.Is(err, ErrInvalidQuantity))
	}
}

func TestReadRejectsShortRow(t *testing.T) {
	_, err := Read(strings.NewReader("qty,price,upc\n1,2\n"), DefaultOptions())
	assert.True(t, errors.Is(err, ErrTooFewColumns))
}

func TestReadCustomDelimiterAndNoHeader(t *testing.T) {
	rows, err := Read(strings.NewReader("4;1.25;999\n"), Options{Delimiter: ';'})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 4, rows[0].Quantity)
	assert.Equal(t, 1, rows[0].Line)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "data.csv"), DefaultOptions())
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoadFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte("qty,price,upc\n2,5,111\n"), 0644))

	rows, err := Load(path, DefaultOptions())
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestExpandRepeatsByQuantity(t *testing.T) {
	records, dropped, err := Expand([]Row{
		{Quantity: 2, Price: "5", UPC: "111"},
		{Quantity: 1, Price: "$7.50", UPC: "222"},
	}, 0)
	require.NoError(t, err)
	assert.Zero(t, dropped)

	assert.Equal(t, []types.LabelRecord{
		{Price: "5", UPC: "111"},
		{Price: "5", UPC: "111"},
		{Price: "$7.50", UPC: "222"},
	}, records)
}

func TestExpandEmpty(t *testing.T) {
	records, dropped, err := Expand(nil, 56)
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Zero(t, dropped)
}

func TestExpandStopsAtLimit(t *testing.T) {
	records, dropped, err := Expand([]Row{
		{Quantity: 3, Price: "5", UPC: "111"},
		{Quantity: 2, Price: "6", UPC: "222"},
	}, 4)
	require.NoError(t, err)
	assert.Equal(t, []types.LabelRecord{
		{Price: "5", UPC: "111"},
		{Price: "5", UPC: "111"},
		{Price: "5", UPC: "111"},
		{Price: "6", UPC: "222"},
	}, records)
	assert.Equal(t, 1, dropped)
}

func TestExpandHugeQuantity(t *testing.T) {
	rows, err := Read(strings.NewReader("qty,price,upc\n9223372036854775807,5,111\n1,6,222\n"), DefaultOptions())
	require.NoError(t, err)

	var (
		records []types.LabelRecord
		dropped int
	)
	require.NotPanics(t, func() {
		records, dropped, err = Expand(rows, 56)
	})
	require.NoError(t, err)
	assert.Len(t, records, 56)
	assert.Equal(t, math.MaxInt-55, dropped)

	// without a limit the request is refused instead of allocated
	_, _, err = Expand(rows, 0)
	assert.ErrorIs(t, err, ErrTooManyLabels)
}
