// =============================================================================
// tagfill - Filler Module
// =============================================================================
//
// This module contains the fill pipeline. It takes expanded label records,
// runs the grid allocator and replays the resulting plan against a document
// host.
//
// PIPELINE:
//   1. Allocate records onto the grid (fixed or multi mode)
//   2. Warn about records dropped by a full fixed sheet
//   3. Pick the sink for the mode (pre-placed frames or template clones)
//   4. Replay the plan: fill, clear and create pages in order
//
// REFILLING:
//   A document saved by an earlier multi-page run keeps its clones. They are
//   reused for the slots of this run; leftovers are blanked and surplus
//   pages removed.
//
// FAILURES:
//   A missing frame is skipped and counted. Any other host error stops the
//   replay; changes already made to the document are kept.
//
// =============================================================================

package filler

import (
	"fmt"
	"math"
	"time"

	"github.com/ginjaninja78/tagfill/internal/config"
	"github.com/ginjaninja78/tagfill/internal/csvparser"
	"github.com/ginjaninja78/tagfill/internal/grid"
	"github.com/ginjaninja78/tagfill/internal/host"
	"github.com/ginjaninja78/tagfill/internal/types"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result is the outcome of one fill run.
type Result struct {
	// Plan is the allocation that was replayed.
	Plan *grid.Plan

	Stats Stats
}

// Stats summarises a run.
type Stats struct {
	// Records is the number of labels requested, including any that were
	// dropped before expansion.
	Records int

	Filled  int
	Cleared int
	Pages   int

	// PagesCreated counts pages added to the document.
	PagesCreated int

	// PagesRemoved counts surplus pages of an earlier run that were deleted.
	PagesRemoved int

	// Dropped counts records that did not fit a fixed sheet.
	Dropped int

	// MissingFrames counts fields skipped because their frame is absent.
	MissingFrames int

	// Clones counts slots that received a new copy of the template.
	Clones int

	Duration time.Duration
}

// =============================================================================
// LOGGING
// =============================================================================

// Logger is the logging interface used by the pipeline. *zap.SugaredLogger
// satisfies it.
type Logger interface {
	Debugf(template string, args ...interface{})
	Infof(template string, args ...interface{})
	Warnf(template string, args ...interface{})
	Errorf(template string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...interface{}) {}
func (nopLogger) Infof(string, ...interface{})  {}
func (nopLogger) Warnf(string, ...interface{})  {}
func (nopLogger) Errorf(string, ...interface{}) {}

func loggerOrNop(l Logger) Logger {
	if l == nil {
		return nopLogger{}
	}
	return l
}

// =============================================================================
// FILLER
// =============================================================================

// Filler runs the fill pipeline against one host.
type Filler struct {
	cfg    *config.Config
	host   host.Host
	logger Logger
}

// New creates a Filler. A nil logger discards output.
func New(cfg *config.Config, h host.Host, logger Logger) *Filler {
	return &Filler{cfg: cfg, host: h, logger: loggerOrNop(logger)}
}

// Plan allocates records without touching the host.
func Plan(cfg *config.Config, records []types.LabelRecord) (*grid.Plan, error) {
	alloc, err := grid.NewAllocator(cfg.Grid.Rows, cfg.Grid.Cols, cfg.GridMode())
	if err != nil {
		return nil, err
	}
	return alloc.Allocate(records), nil
}

// PlanRows expands rows for the configured mode and allocates them. Labels
// a fixed sheet cannot take are counted in Plan.Dropped without being
// expanded.
func PlanRows(cfg *config.Config, rows []csvparser.Row) (*grid.Plan, error) {
	records, dropped, err := Expand(cfg, rows)
	if err != nil {
		return nil, err
	}
	plan, err := Plan(cfg, records)
	if err != nil {
		return nil, err
	}
	plan.Dropped += dropped
	return plan, nil
}

// Expand turns rows into label records. In fixed mode expansion stops at
// the sheet capacity and the number of labels left out is returned.
func Expand(cfg *config.Config, rows []csvparser.Row) ([]types.LabelRecord, int, error) {
	limit := 0
	if cfg.GridMode() == grid.FixedSinglePage {
		limit = cfg.Grid.Rows * cfg.Grid.Cols
	}
	records, dropped, err := csvparser.Expand(rows, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to expand rows: %w", err)
	}
	return records, dropped, nil
}

// Run allocates records and replays the plan against the host. On a host
// error the partial Result is returned alongside the error.
func (f *Filler) Run(records []types.LabelRecord) (Result, error) {
	return f.run(records, 0)
}

// RunRows expands rows with Expand and runs the result.
func (f *Filler) RunRows(rows []csvparser.Row) (Result, error) {
	records, dropped, err := Expand(f.cfg, rows)
	if err != nil {
		return Result{}, err
	}
	return f.run(records, dropped)
}

// run is Run for records that already had dropped labels cut off.
func (f *Filler) run(records []types.LabelRecord, dropped int) (Result, error) {
	start := time.Now()
	requested := len(records)
	if dropped > math.MaxInt-requested {
		requested = math.MaxInt
	} else {
		requested += dropped
	}
	result := Result{Stats: Stats{Records: requested}}

	plan, err := Plan(f.cfg, records)
	if err != nil {
		return result, fmt.Errorf("failed to allocate: %w", err)
	}
	plan.Dropped += dropped
	result.Plan = plan
	result.Stats.Filled = plan.Filled
	result.Stats.Cleared = plan.Cleared
	result.Stats.Pages = plan.Pages
	result.Stats.Dropped = plan.Dropped

	f.logger.Debugf("allocated %d records onto %d page(s) of %dx%d (%s mode)",
		plan.Filled, plan.Pages, plan.Rows, plan.Cols, plan.Mode)

	if plan.Dropped > 0 {
		f.logger.Warnf("sheet holds %d tags; %d record(s) were not placed", plan.Capacity(), plan.Dropped)
	}

	writer := NewTagWriter(f.host, f.cfg, f.logger)

	var sink grid.Sink
	var clones *CloneSink
	switch plan.Mode {
	case grid.MultiPage:
		clones, err = NewCloneSink(writer, Template{
			Objects: f.cfg.Template.Objects,
			Price:   f.cfg.Template.Price,
			UPC:     f.cfg.Template.UPC,
		}, f.cfg.Geometry)
		if err != nil {
			return result, err
		}
		sink = clones
	default:
		sink = &FixedSink{Writer: writer}
	}

	err = plan.Replay(sink)
	if err == nil && clones != nil {
		err = clones.Finish(plan.Pages)
	}

	result.Stats.MissingFrames = writer.Missing
	if clones != nil {
		result.Stats.PagesCreated = clones.PagesCreated
		result.Stats.PagesRemoved = clones.PagesRemoved
		result.Stats.Clones = clones.Created
	}
	result.Stats.Duration = time.Since(start)

	if err != nil {
		return result, fmt.Errorf("failed to fill document: %w", err)
	}

	if result.Stats.PagesRemoved > 0 {
		f.logger.Infof("removed %d page(s) left over from an earlier run", result.Stats.PagesRemoved)
	}
	if writer.Missing > 0 {
		f.logger.Infof("%d frame(s) were missing and skipped", writer.Missing)
	}
	return result, nil
}
