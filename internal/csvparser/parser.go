// =============================================================================
// tagfill - CSV Parser Module
// =============================================================================
//
// This module reads the label data file. Each data row carries three fields:
//
//   qty, price, upc
//
// FEATURES:
//   - Configurable number of header rows (default 1), skipped unread
//   - Blank lines skipped, fields trimmed
//   - Extra columns ignored
//   - Strict quantity: anything that is not a positive integer is a fatal
//     ParseError naming the line, so a bad file never reaches the document
//
// =============================================================================

package csvparser

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/ginjaninja78/tagfill/internal/types"
)

// Column positions in a data row.
const (
	ColQuantity = iota
	ColPrice
	ColUPC

	// MinColumns is the number of columns a data row must have.
	MinColumns
)

// ColumnNames names each column for error messages.
var ColumnNames = [MinColumns]string{"qty", "price", "upc"}

// ErrInvalidQuantity is wrapped by ParseError when the quantity column does
// not hold a positive integer.
var ErrInvalidQuantity = errors.New("quantity must be a positive integer")

// ErrTooFewColumns is wrapped by ParseError when a row is short.
var ErrTooFewColumns = errors.New("row has fewer than 3 columns")

// =============================================================================
// DATA STRUCTURES
// =============================================================================

// Row is one data row before expansion.
type Row struct {
	Quantity int
	Price    string
	UPC      string

	// Line is the 1-indexed line (or sheet row) the data came from.
	Line int
}

// Options controls parsing.
type Options struct {
	// HeaderRows is the number of leading rows skipped. Default 1.
	HeaderRows int

	// Delimiter is the field separator. Default ','.
	Delimiter rune
}

// DefaultOptions matches the stock data file.
func DefaultOptions() Options {
	return Options{HeaderRows: 1, Delimiter: ','}
}

// ParseError reports a malformed data row.
type ParseError struct {
	// Line is the 1-indexed source line.
	Line int

	// Column is the column name, empty for row-level errors.
	Column string

	// Value is the offending raw value.
	Value string

	Err error
}

func (e *ParseError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("line %d, column %s: %v (value: %q)", e.Line, e.Column, e.Err, e.Value)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Load opens the data file at filePath and parses it. The file is closed
// before Load returns, whether parsing succeeds or not.
func Load(filePath string, opts Options) ([]Row, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open data file: %w", err)
	}
	defer file.Close()

	rows, err := Read(bufio.NewReader(file), opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}
	return rows, nil
}

// Read parses data rows from r.
func Read(r io.Reader, opts Options) ([]Row, error) {
	reader := csv.NewReader(r)
	configureReader(reader, opts)

	var rows []Row
	seen := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}

		seen++
		if seen <= opts.HeaderRows {
			continue
		}
		if isRowEmpty(record) {
			continue
		}

		// encoding/csv skips blank lines, so ask it where this record started.
		line, _ := reader.FieldPos(0)

		row, err := ParseRecord(record, line)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// ParseRecord converts one raw record into a Row. It is shared with the
// workbook reader so both inputs fail the same way.
func ParseRecord(record []string, line int) (Row, error) {
	if len(record) < MinColumns {
		return Row{}, &ParseError{Line: line, Err: ErrTooFewColumns}
	}

	raw := strings.TrimSpace(record[ColQuantity])
	qty, err := strconv.Atoi(raw)
	if err != nil || qty <= 0 {
		return Row{}, &ParseError{
			Line:   line,
			Column: ColumnNames[ColQuantity],
			Value:  raw,
			Err:    ErrInvalidQuantity,
		}
	}

	return Row{
		Quantity: qty,
		Price:    strings.TrimSpace(record[ColPrice]),
		UPC:      strings.TrimSpace(record[ColUPC]),
		Line:     line,
	}, nil
}

// configureReader configures the CSV reader from the options.
func configureReader(reader *csv.Reader, opts Options) {
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}

	// Allow variable number of fields per row; short rows are reported by
	// ParseRecord with a line number instead.
	reader.FieldsPerRecord = -1

	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
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

// =============================================================================
// EXPANSION
// =============================================================================

// MaxLabels bounds an unlimited expansion.
const MaxLabels = 1 << 20

// ErrTooManyLabels is returned when an unlimited expansion exceeds MaxLabels.
var ErrTooManyLabels = errors.New("too many labels")

// Expand turns rows into label records, repeating each row Quantity times.
//
// With limit > 0 at most limit records are produced and the rest are only
// counted: dropped is the number of labels left out, saturating at
// math.MaxInt. With limit <= 0 every label is produced, up to MaxLabels.
func Expand(rows []Row, limit int) (records []types.LabelRecord, dropped int, err error) {
	total := 0
	for _, r := range rows {
		total = addSaturating(total, r.Quantity)
	}

	if limit <= 0 {
		if total > MaxLabels {
			return nil, 0, fmt.Errorf("%w: %d labels requested, at most %d", ErrTooManyLabels, total, MaxLabels)
		}
		limit = total
	}

	records = make([]types.LabelRecord, 0, min(total, limit))
	for _, r := range rows {
		n := min(r.Quantity, limit-len(records))
		rec := types.LabelRecord{Price: r.Price, UPC: r.UPC}
		for i := 0; i < n; i++ {
			records = append(records, rec)
		}
		dropped = addSaturating(dropped, r.Quantity-n)
	}
	return records, dropped, nil
}

// addSaturating adds two non-negative ints, clamping at math.MaxInt.
func addSaturating(a, b int) int {
	if b > math.MaxInt-a {
		return math.MaxInt
	}
	return a + b
}
