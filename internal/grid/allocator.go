// =============================================================================
// tagfill - Grid Allocator
// =============================================================================
//
// The allocator maps a flat, quantity-expanded sequence of label records onto
// a fixed rows x cols grid. It produces a Plan: an ordered stream of commands
// that covers every slot of every touched page exactly once.
//
// TRAVERSAL:
//   Row-major. The column advances fastest; when it passes cols it wraps to 1
//   and the row advances.
//
// MODES:
//   - FixedSinglePage: one page only. Records beyond capacity are dropped and
//     counted in Plan.Dropped.
//   - MultiPage: when a page is full and another record arrives, a CreatePage
//     command is emitted and filling continues on the new page.
//
// In both modes the final page is padded with Clear commands up to capacity.
//
// =============================================================================

package grid

import (
	"fmt"
	"strings"

	"github.com/ginjaninja78/tagfill/internal/types"
)

// Mode selects how the allocator handles overflow.
type Mode int

const (
	// FixedSinglePage never creates pages and drops records past capacity.
	FixedSinglePage Mode = iota

	// MultiPage creates a new page whenever the current one is full.
	MultiPage
)

// String returns the configuration spelling of the mode.
func (m Mode) String() string {
	switch m {
	case FixedSinglePage:
		return "fixed"
	case MultiPage:
		return "multi"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode accepts "fixed" or "multi" (case-insensitive) plus a few aliases.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fixed", "single", "fixed_single_page":
		return FixedSinglePage, nil
	case "multi", "multipage", "multi_page":
		return MultiPage, nil
	default:
		return FixedSinglePage, fmt.Errorf("unknown grid mode %q (want \"fixed\" or \"multi\")", s)
	}
}

// ConfigurationError is returned when the grid dimensions are unusable.
type ConfigurationError struct {
	Rows int
	Cols int
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid grid dimensions %dx%d: rows and cols must be positive", e.Rows, e.Cols)
}

// Allocator holds the grid cursor for one allocation run.
type Allocator struct {
	rows int
	cols int
	mode Mode

	// cursor
	page   int
	row    int
	col    int
	filled int // slots decided on the current page
	total  int // records placed across all pages
}

// NewAllocator validates the dimensions and returns an allocator.
func NewAllocator(rows, cols int, mode Mode) (*Allocator, error) {
	if rows <= 0 || cols <= 0 {
		return nil, &ConfigurationError{Rows: rows, Cols: cols}
	}
	return &Allocator{rows: rows, cols: cols, mode: mode}, nil
}

// Capacity is the number of slots per page.
func (a *Allocator) Capacity() int {
	return a.rows * a.cols
}

// Allocate computes the plan for records. Each call starts from a fresh
// cursor at (1,1,1).
func (a *Allocator) Allocate(records []types.LabelRecord) *Plan {
	a.reset()
	capacity := a.Capacity()

	plan := &Plan{
		Rows:     a.rows,
		Cols:     a.cols,
		Mode:     a.mode,
		Commands: make([]Command, 0, capacity+len(records)),
	}

	for i, rec := range records {
		if a.filled == capacity {
			if a.mode == FixedSinglePage {
				plan.Dropped = len(records) - i
				break
			}
			a.page++
			a.row, a.col, a.filled = 1, 1, 0
			plan.Commands = append(plan.Commands, Command{
				Kind:     CreatePage,
				Position: types.GridPosition{Page: a.page, Row: 1, Col: 1},
			})
		}

		plan.Commands = append(plan.Commands, Command{
			Kind:     Fill,
			Position: a.position(),
			Record:   rec,
		})
		a.total++
		a.advance()
	}

	for a.filled < capacity {
		plan.Commands = append(plan.Commands, Command{
			Kind:     Clear,
			Position: a.position(),
		})
		a.advance()
	}

	plan.Pages = a.page
	plan.Filled = a.total
	plan.Cleared = len(plan.Commands) - a.total - (a.page - 1)
	return plan
}

// Allocate is a convenience wrapper around NewAllocator and Allocate.
func Allocate(records []types.LabelRecord, rows, cols int, mode Mode) (*Plan, error) {
	a, err := NewAllocator(rows, cols, mode)
	if err != nil {
		return nil, err
	}
	return a.Allocate(records), nil
}

func (a *Allocator) reset() {
	a.page, a.row, a.col = 1, 1, 1
	a.filled, a.total = 0, 0
}

func (a *Allocator) position() types.GridPosition {
	return types.GridPosition{Page: a.page, Row: a.row, Col: a.col}
}

// advance moves the cursor one slot forward, wrapping the column.
func (a *Allocator) advance() {
	a.filled++
	a.col++
	if a.col > a.cols {
		a.col = 1
		a.row++
	}
}
