package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ginjaninja78/tagfill/internal/config"
	"github.com/ginjaninja78/tagfill/internal/document"
	"github.com/ginjaninja78/tagfill/internal/grid"
	"github.com/ginjaninja78/tagfill/internal/logging"
	"github.com/ginjaninja78/tagfill/internal/types"
)

func testSetup(t *testing.T, data string) (*config.Config, string) {
	t.Helper()
	root := t.TempDir()

	cfg := config.Default()
	cfg.Output.Dir = filepath.Join(root, "out")
	cfg.Output.ArchiveDir = filepath.Join(root, "archive")

	path := filepath.Join(root, "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))
	return cfg, path
}

func glob(t *testing.T, dir, pattern string) []string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	require.NoError(t, err)
	return matches
}

func TestRunFillWritesOutputsAndArchives(t *testing.T) {
	cfg, path := testSetup(t, "qty,price,upc\n2,5,036000291452\n1,abc,222\n")
	cfg.Output.PDF = true
	cfg.Output.Barcodes = true
	cfg.Output.PlanXLSX = true
	cfg.ArchiveInput = true

	require.NoError(t, runFill(cfg, path, false, zap.NewNop()))

	docs := glob(t, cfg.Output.Dir, "tags_*.yaml")
	require.Len(t, docs, 1)
	assert.Len(t, glob(t, cfg.Output.Dir, "tags_*.pdf"), 1)
	assert.Len(t, glob(t, cfg.Output.Dir, "tags_*_plan.xlsx"), 1)
	assert.Len(t, glob(t, cfg.Output.Dir, "validation_log_*.txt"), 1)
	assert.Len(t, glob(t, cfg.Output.Dir, "run_summary_*.txt"), 1)

	assert.NoFileExists(t, path)
	assert.FileExists(t, filepath.Join(cfg.Output.ArchiveDir, "data.csv"))

	doc, err := document.Load(docs[0])
	require.NoError(t, err)
	o, ok := doc.Object("price_1_2")
	require.True(t, ok)
	assert.Equal(t, "$5", o.Text)
	o, _ = doc.Object("price_1_3")
	assert.Equal(t, "$abc", o.Text)
}

func TestRunFillStrictValidationStops(t *testing.T) {
	cfg, path := testSetup(t, "qty,price,upc\n1,abc,222\n")
	cfg.Validation.Strict = true

	err := runFill(cfg, path, false, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
	assert.Empty(t, glob(t, cfg.Output.Dir, "tags_*"))
	assert.FileExists(t, path)
}

func TestRunFillDryRunWritesNothing(t *testing.T) {
	cfg, path := testSetup(t, "qty,price,upc\n3,1.00,111\n")

	require.NoError(t, runFill(cfg, path, true, zap.NewNop()))
	assert.NoDirExists(t, cfg.Output.Dir)
}

func TestRunFillBadQuantity(t *testing.T) {
	cfg, path := testSetup(t, "qty,price,upc\nx,1.00,111\n")

	err := runFill(cfg, path, false, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read data file")
}

func TestRunFillMultiMode(t *testing.T) {
	cfg, path := testSetup(t, "qty,price,upc\n60,2.00,111\n")
	cfg.Mode = "multi"

	require.NoError(t, runFill(cfg, path, false, zap.NewNop()))

	docs := glob(t, cfg.Output.Dir, "tags_*.yaml")
	require.Len(t, docs, 1)
	doc, err := document.Load(docs[0])
	require.NoError(t, err)
	assert.Equal(t, 2, doc.Pages)
}

func TestPrintPlan(t *testing.T) {
	plan, err := grid.Allocate([]types.LabelRecord{{Price: "5", UPC: "111"}}, 1, 2, grid.FixedSinglePage)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, printPlan(&buf, plan))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, []string{"1", "fill", "(1,1,1)", "5", "111"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"2", "clear", "(1,1,2)"}, strings.Fields(lines[2]))

	buf.Reset()
	printPlanSummary(&buf, plan)
	assert.Contains(t, buf.String(), "1x2 (2 per page)")
}

func TestRunPlanReportsValidationFindings(t *testing.T) {
	cfg, path := testSetup(t, "qty,price,upc\n1,abc,222\n2,5,111\n")

	var logs, out bytes.Buffer
	logger, err := logging.NewWithWriter(&logs, "info", logging.FormatJSON)
	require.NoError(t, err)

	require.NoError(t, runPlan(cfg, path, &out, logger))
	assert.Contains(t, logs.String(), `"field":"price"`)
	assert.Contains(t, out.String(), "Warnings:        1")
	assert.Contains(t, out.String(), "Fills:           3")
}

func TestRunPlanStrictValidationStops(t *testing.T) {
	cfg, path := testSetup(t, "qty,price,upc\n1,abc,222\n")
	cfg.Validation.Strict = true

	var out bytes.Buffer
	err := runPlan(cfg, path, &out, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
	assert.Empty(t, out.String())
}

func TestRunPlanHugeQuantity(t *testing.T) {
	cfg, path := testSetup(t, "qty,price,upc\n9223372036854775807,5,111\n1,6,222\n")

	var out bytes.Buffer
	require.NoError(t, runPlan(cfg, path, &out, zap.NewNop()))
	assert.Contains(t, out.String(), "Fills:           56")
	assert.Contains(t, out.String(), "Dropped:         9223372036854775752 (sheet is full)")
}

func TestWriteNewRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tagfill.yaml")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	called := false
	err := writeNew(path, func() error { called = true; return nil })
	assert.Error(t, err)
	assert.False(t, called)

	initForce = true
	defer func() { initForce = false }()
	assert.NoError(t, writeNew(path, func() error { called = true; return nil }))
	assert.True(t, called)
}
