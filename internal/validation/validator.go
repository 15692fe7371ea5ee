// =============================================================================
// tagfill - Validation Engine
// =============================================================================
//
// Checks data rows for values that will print badly. Nothing here stops the
// allocator: every finding is a warning, and the caller decides (via
// validation.strict) whether warnings abort the run.
//
// CHECKS:
//   - price: a decimal amount once the currency prefix is removed
//   - upc:   digits only
//   - upc:   12-digit codes carry a correct UPC-A check digit
//
// =============================================================================

package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ginjaninja78/tagfill/internal/csvparser"
)

// Severity levels.
const (
	SeverityWarning = "warning"
	SeverityError   = "error"
)

// ValidationError is a single finding.
type ValidationError struct {
	Severity string
	Field    string
	Value    string
	Message  string

	// Line is the source line of the row.
	Line int
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("[%s] line %d, field '%s': %s (value: '%s')",
		strings.ToUpper(e.Severity), e.Line, e.Field, e.Message, e.Value)
}

// ValidationResult collects findings for a batch of rows.
type ValidationResult struct {
	Errors       []*ValidationError
	ErrorCount   int
	WarningCount int
	RowsChecked  int
}

// IsValid is true when there are no error-severity findings.
func (r *ValidationResult) IsValid() bool {
	return r.ErrorCount == 0
}

// Options controls validation.
type Options struct {
	// PricePrefix is stripped before the price is checked.
	PricePrefix string

	// Strict reports every finding with error severity.
	Strict bool
}

var priceRe = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)

// Validate checks each row.
func Validate(rows []csvparser.Row, opts Options) *ValidationResult {
	res := &ValidationResult{}
	severity := SeverityWarning
	if opts.Strict {
		severity = SeverityError
	}

	add := func(row csvparser.Row, field, value, msg string) {
		res.Errors = append(res.Errors, &ValidationError{
			Severity: severity,
			Field:    field,
			Value:    value,
			Message:  msg,
			Line:     row.Line,
		})
		if severity == SeverityError {
			res.ErrorCount++
		} else {
			res.WarningCount++
		}
	}

	for _, row := range rows {
		res.RowsChecked++

		if msg := validatePrice(row.Price, opts.PricePrefix); msg != "" {
			add(row, "price", row.Price, msg)
		}
		if msg := validateUPC(row.UPC); msg != "" {
			add(row, "upc", row.UPC, msg)
		}
	}

	return res
}

func validatePrice(price, prefix string) string {
	if price == "" {
		return "price is empty"
	}
	amount := price
	if prefix != "" {
		amount = strings.TrimPrefix(amount, prefix)
	}
	if !priceRe.MatchString(amount) {
		return "price is not a decimal amount"
	}
	return ""
}

func validateUPC(upc string) string {
	if upc == "" {
		return "upc is empty"
	}
	for _, r := range upc {
		if r < '0' || r > '9' {
			return "upc must contain only digits"
		}
	}
	if len(upc) == 12 && !UPCACheckDigitValid(upc) {
		return "upc check digit does not match"
	}
	return ""
}

// UPCACheckDigitValid reports whether a 12-digit UPC-A code has the right
// check digit. The caller guarantees digits only.
func UPCACheckDigitValid(upc string) bool {
	if len(upc) != 12 {
		return false
	}
	sum := 0
	for i := 0; i < 11; i++ {
		d := int(upc[i] - '0')
		if i%2 == 0 {
			sum += 3 * d
		} else {
			sum += d
		}
	}
	check := (10 - sum%10) % 10
	return check == int(upc[11]-'0')
}

// FormatErrors renders findings one per line.
func FormatErrors(errs []*ValidationError) string {
	var b strings.Builder
	for _, e := range errs {
		b.WriteString(e.Error())
		b.WriteByte('\n')
	}
	return b.String()
}
