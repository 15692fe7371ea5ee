package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/tagfill/internal/csvparser"
)

func TestUPCACheckDigit(t *testing.T) {
	assert.True(t, UPCACheckDigitValid("036000291452"))
	assert.True(t, UPCACheckDigitValid("012345678905"))
	assert.False(t, UPCACheckDigitValid("036000291453"))
	assert.False(t, UPCACheckDigitValid("12345"))
}

func TestValidateCleanRows(t *testing.T) {
	res := Validate([]csvparser.Row{
		{Quantity: 1, Price: "5", UPC: "036000291452", Line: 2},
		{Quantity: 2, Price: "$7.50", UPC: "111", Line: 3},
	}, Options{PricePrefix: "$"})

	assert.Empty(t, res.Errors)
	assert.Equal(t, 2, res.RowsChecked)
	assert.True(t, res.IsValid())
}

func TestValidateFindsProblems(t *testing.T) {
	res := Validate([]csvparser.Row{
		{Quantity: 1, Price: "five", UPC: "036000291452", Line: 2},
		{Quantity: 1, Price: "1.00", UPC: "12-34", Line: 3},
		{Quantity: 1, Price: "1.00", UPC: "036000291453", Line: 4},
		{Quantity: 1, Price: "", UPC: "", Line: 5},
	}, Options{PricePrefix: "$"})

	require.Len(t, res.Errors, 5)
	assert.Equal(t, 5, res.WarningCount)
	assert.True(t, res.IsValid())

	assert.Equal(t, "price", res.Errors[0].Field)
	assert.Equal(t, 2, res.Errors[0].Line)
	assert.Equal(t, "upc must contain only digits", res.Errors[1].Message)
	assert.Equal(t, "upc check digit does not match", res.Errors[2].Message)
	assert.Contains(t, FormatErrors(res.Errors), "[WARNING] line 5")
}

func TestValidateStrictPromotesToErrors(t *testing.T) {
	res := Validate([]csvparser.Row{{Quantity: 1, Price: "abc", UPC: "1", Line: 2}}, Options{Strict: true})

	assert.Equal(t, 1, res.ErrorCount)
	assert.False(t, res.IsValid())
	assert.Equal(t, SeverityError, res.Errors[0].Severity)
}
