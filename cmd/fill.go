// =============================================================================
// tagfill - Fill Command
// =============================================================================
//
// This file defines the 'fill' command, the main command of tagfill. It runs
// the whole pipeline for one data file.
//
// COMMAND USAGE:
//   tagfill fill [flags]
//
// PROCESSING PIPELINE:
//   1. Load configuration (file, environment, flags)
//   2. Read and validate the data file
//   3. Expand rows by quantity into label records
//   4. Load the document, or generate a starter sheet
//   5. Allocate and replay the plan against the document
//   6. Save the filled document, plus the PDF proof and plan workbook
//   7. Write the run summary and archive the data file
//
// On error the data file stays where it is. A document that was partly
// filled is still saved so the changes made before the failure are kept.
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ginjaninja78/tagfill/internal/config"
	"github.com/ginjaninja78/tagfill/internal/csvparser"
	"github.com/ginjaninja78/tagfill/internal/document"
	"github.com/ginjaninja78/tagfill/internal/filler"
	"github.com/ginjaninja78/tagfill/internal/logging"
	"github.com/ginjaninja78/tagfill/internal/render"
	"github.com/ginjaninja78/tagfill/internal/validation"
	"github.com/ginjaninja78/tagfill/internal/xlsxwriter"
	"github.com/ginjaninja78/tagfill/pkg/utils"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// fillFlags holds the local flags shared by fill and plan.
type fillFlags struct {
	dataDir   string
	dataFile  string
	mode      string
	document  string
	outputDir string
	dryRun    bool
}

var fillOpts fillFlags

// =============================================================================
// FILL COMMAND DEFINITION
// =============================================================================

var fillCmd = &cobra.Command{
	Use:   "fill",
	Short: "Fill a tag sheet from the data file",
	Long: `The fill command reads the data file, places every label on the tag grid
and saves the filled document to the output directory.

The data file is <data dir>/<data.file>. The data directory comes from
--data-dir, TAGFILL_DATA_DIR, the SCRIBUS_DATA_PATH environment variable or the
configured default, in that order. --data names a file directly.

On success:
  - The filled document is written to the output directory
  - A PDF proof and a plan workbook are written when enabled
  - The data file is moved to the archive when archive_input is set

With --dry-run nothing is written; the plan summary is printed instead.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(config.Overrides{
			DataDir:   fillOpts.dataDir,
			Mode:      fillOpts.mode,
			Document:  fillOpts.document,
			OutputDir: fillOpts.outputDir,
			PDF:       boolFlag(cmd, "pdf"),
			PlanXLSX:  boolFlag(cmd, "plan-xlsx"),
			Strict:    boolFlag(cmd, "strict"),
		})
		if err != nil {
			return err
		}
		if v := boolFlag(cmd, "barcodes"); v != nil {
			cfg.Output.Barcodes = *v
		}
		if v := boolFlag(cmd, "archive"); v != nil {
			cfg.ArchiveInput = *v
		}

		logger, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer logging.Sync(logger)

		return runFill(cfg, fillOpts.path(cfg), fillOpts.dryRun, logger)
	},
}

func init() {
	rootCmd.AddCommand(fillCmd)
	addDataFlags(fillCmd, &fillOpts)

	fillCmd.Flags().StringVar(&fillOpts.document, "document", "", "Document file to fill (default: generate a starter sheet)")
	fillCmd.Flags().StringVar(&fillOpts.outputDir, "output-dir", "", "Directory for output files")
	fillCmd.Flags().BoolVar(&fillOpts.dryRun, "dry-run", false, "Allocate and report without writing anything")
	fillCmd.Flags().Bool("pdf", false, "Render a PDF proof of the filled document")
	fillCmd.Flags().Bool("barcodes", false, "Draw UPC bars on the PDF proof")
	fillCmd.Flags().Bool("plan-xlsx", false, "Write the allocation plan as an Excel workbook")
	fillCmd.Flags().Bool("strict", false, "Treat validation warnings as errors")
	fillCmd.Flags().Bool("archive", false, "Move the data file to the archive after a successful run")
}

// addDataFlags registers the data selection flags.
func addDataFlags(cmd *cobra.Command, f *fillFlags) {
	cmd.Flags().StringVar(&f.dataDir, "data-dir", "", "Directory holding the data file")
	cmd.Flags().StringVar(&f.dataFile, "data", "", "Path to the data file (overrides --data-dir)")
	cmd.Flags().StringVar(&f.mode, "mode", "", "Grid mode: fixed or multi")
}

// path returns the data file to read.
func (f *fillFlags) path(cfg *config.Config) string {
	if f.dataFile != "" {
		return f.dataFile
	}
	return cfg.DataPath(os.Getenv)
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

func runFill(cfg *config.Config, path string, dryRun bool, logger *zap.Logger) error {
	start := time.Now()
	runID := uuid.New().String()
	logger = logger.With(zap.String("run_id", runID))
	log := logger.Sugar()

	// =========================================================================
	// STEP 1: READ AND VALIDATE THE DATA FILE
	// =========================================================================

	log.Infof("reading %s", path)
	rows, err := filler.LoadRows(cfg, path)
	if err != nil {
		return fmt.Errorf("failed to read data file: %w", err)
	}

	report := checkRows(cfg, rows, logger)

	fm := utils.NewFileManager(cfg.Output.Dir, cfg.Output.ArchiveDir)
	if !dryRun {
		if err := fm.EnsureDirectories(); err != nil {
			return err
		}
		if logPath, err := fm.WriteValidationLog(path, report.Errors); err != nil {
			log.Warnf("could not write validation log: %v", err)
		} else if logPath != "" {
			log.Infof("validation findings written to %s", logPath)
		}
	}
	if !report.IsValid() {
		return fmt.Errorf("validation failed with %d error(s)", report.ErrorCount)
	}

	// =========================================================================
	// STEP 2: DRY RUN
	// =========================================================================

	if dryRun {
		plan, err := filler.PlanRows(cfg, rows)
		if err != nil {
			return err
		}
		printPlanSummary(os.Stdout, plan)
		return nil
	}

	// =========================================================================
	// STEP 3: FILL THE DOCUMENT
	// =========================================================================

	doc, err := openDocument(cfg)
	if err != nil {
		return err
	}

	result, runErr := filler.New(cfg, doc, log).RunRows(rows)
	log.Infof("%d row(s) expanded to %d label(s)", len(rows), result.Stats.Records)

	params := map[string]string{"mode": cfg.GridMode().String()}
	docPath := fm.OutputPath(cfg.Output.NameFormat, ".yaml", params)
	if err := doc.Save(docPath); err != nil {
		return err
	}
	outputs := []string{docPath}

	if runErr != nil {
		log.Errorf("fill stopped: %v (partial document saved to %s)", runErr, docPath)
		return runErr
	}

	// =========================================================================
	// STEP 4: PROOF AND PLAN OUTPUTS
	// =========================================================================

	if cfg.Output.PDF {
		pdfPath := fm.OutputPath(cfg.Output.NameFormat, ".pdf", params)
		if err := writePDF(pdfPath, doc, cfg.Output.Barcodes); err != nil {
			return err
		}
		outputs = append(outputs, pdfPath)
	}

	if cfg.Output.PlanXLSX {
		planPath := fm.OutputPath(cfg.Output.NameFormat+"_plan", ".xlsx", params)
		if err := xlsxwriter.Write(planPath, result.Plan); err != nil {
			return err
		}
		outputs = append(outputs, planPath)
	}

	// =========================================================================
	// STEP 5: SUMMARY AND ARCHIVAL
	// =========================================================================

	if cfg.ArchiveInput {
		archived, err := fm.ArchiveInputFile(path)
		if err != nil {
			return err
		}
		log.Infof("data file archived to %s", archived)
	}

	s := result.Stats
	summary := utils.RunSummary{
		StartTime:     start,
		EndTime:       time.Now(),
		RunID:         runID,
		DataFile:      path,
		Mode:          cfg.GridMode().String(),
		Records:       s.Records,
		Filled:        s.Filled,
		Cleared:       s.Cleared,
		Pages:         s.Pages,
		PagesCreated:  s.PagesCreated,
		Dropped:       s.Dropped,
		MissingFrames: s.MissingFrames,
		Warnings:      report.WarningCount,
		Outputs:       outputs,
	}
	if summaryPath, err := fm.WriteRunSummary(summary); err != nil {
		log.Warnf("could not write run summary: %v", err)
	} else {
		log.Debugf("run summary written to %s", summaryPath)
	}

	printSummary(summary)
	return nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// checkRows validates rows and logs every finding.
func checkRows(cfg *config.Config, rows []csvparser.Row, logger *zap.Logger) *validation.ValidationResult {
	report := validation.Validate(rows, validation.Options{
		PricePrefix: cfg.PricePrefix,
		Strict:      cfg.Validation.Strict,
	})
	for _, f := range report.Errors {
		logger.Warn(f.Message,
			zap.Int("line", f.Line),
			zap.String("field", f.Field),
			zap.String("value", f.Value))
	}
	return report
}

func openDocument(cfg *config.Config) (*document.Document, error) {
	if cfg.Document.Path != "" {
		doc, err := document.Load(cfg.Document.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open document: %w", err)
		}
		return doc, nil
	}
	return document.NewTagSheet(cfg)
}

func writePDF(path string, doc *document.Document, barcodes bool) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := render.PDF(f, doc, render.Options{Barcodes: barcodes}); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func printSummary(s utils.RunSummary) {
	fmt.Println("\n=== Fill Complete ===")
	fmt.Printf("Data file:       %s\n", filepath.Base(s.DataFile))
	fmt.Printf("Mode:            %s\n", s.Mode)
	fmt.Printf("Labels:          %d\n", s.Records)
	fmt.Printf("Filled:          %d\n", s.Filled)
	fmt.Printf("Cleared:         %d\n", s.Cleared)
	fmt.Printf("Pages:           %d\n", s.Pages)
	if s.Dropped > 0 {
		fmt.Printf("Dropped:         %d\n", s.Dropped)
	}
	if s.MissingFrames > 0 {
		fmt.Printf("Missing frames:  %d\n", s.MissingFrames)
	}
	fmt.Printf("Time elapsed:    %s\n", s.EndTime.Sub(s.StartTime))
	for _, o := range s.Outputs {
		fmt.Printf("  -> %s\n", o)
	}
}
