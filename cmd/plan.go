// =============================================================================
// tagfill - Plan Command
// =============================================================================
//
// This file defines the 'plan' command, which shows where every label will
// go without touching a document.
//
// COMMAND USAGE:
//   tagfill plan [flags]
//
// OUTPUT:
//   One line per command (fill, clear, create_page) followed by totals.
//   The data file is validated first, exactly as fill does it.
//   With --xlsx the plan is also written as a workbook.
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ginjaninja78/tagfill/internal/config"
	"github.com/ginjaninja78/tagfill/internal/filler"
	"github.com/ginjaninja78/tagfill/internal/grid"
	"github.com/ginjaninja78/tagfill/internal/logging"
	"github.com/ginjaninja78/tagfill/internal/xlsxwriter"
)

var planOpts fillFlags

// planXLSX is the workbook path for --xlsx.
var planXLSX string

// planQuiet prints totals only.
var planQuiet bool

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show the allocation plan for the data file",
	Long: `The plan command reads the data file and prints the commands a fill run
would replay: one fill per label, a clear for every unused slot and a
create_page where a new page begins in multi mode.

The data file is validated first. Findings are logged; with --strict (or
validation.strict) they fail the command.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(config.Overrides{
			DataDir: planOpts.dataDir,
			Mode:    planOpts.mode,
			Strict:  boolFlag(cmd, "strict"),
		})
		if err != nil {
			return err
		}

		logger, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer logging.Sync(logger)

		return runPlan(cfg, planOpts.path(cfg), os.Stdout, logger)
	},
}

func init() {
	rootCmd.AddCommand(planCmd)
	addDataFlags(planCmd, &planOpts)

	planCmd.Flags().StringVar(&planXLSX, "xlsx", "", "Also write the plan to this workbook")
	planCmd.Flags().BoolVarP(&planQuiet, "quiet", "q", false, "Print totals only")
	planCmd.Flags().Bool("strict", false, "Treat validation warnings as errors")
}

// runPlan validates the data file like fill does and writes its plan to w.
// Validation findings are logged and counted in the summary; with strict
// validation they stop the command before anything is printed.
func runPlan(cfg *config.Config, path string, w io.Writer, logger *zap.Logger) error {
	rows, err := filler.LoadRows(cfg, path)
	if err != nil {
		return fmt.Errorf("failed to read data file: %w", err)
	}

	report := checkRows(cfg, rows, logger)
	if !report.IsValid() {
		return fmt.Errorf("validation failed with %d error(s)", report.ErrorCount)
	}

	plan, err := filler.PlanRows(cfg, rows)
	if err != nil {
		return err
	}

	if !planQuiet {
		if err := printPlan(w, plan); err != nil {
			return err
		}
	}
	printPlanSummary(w, plan)
	if report.WarningCount > 0 {
		fmt.Fprintf(w, "Warnings:        %d (see log)\n", report.WarningCount)
	}

	if planXLSX != "" {
		if err := xlsxwriter.Write(planXLSX, plan); err != nil {
			return err
		}
		logger.Sugar().Infof("plan written to %s", planXLSX)
	}
	return nil
}

// printPlan writes one aligned line per command.
func printPlan(w io.Writer, plan *grid.Plan) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tACTION\tSLOT\tPRICE\tUPC")
	for i, c := range plan.Commands {
		price, upc := "", ""
		if c.Kind == grid.Fill {
			price, upc = c.Record.Price, c.Record.UPC
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", i+1, c.Kind, c.Position, price, upc)
	}
	return tw.Flush()
}

// printPlanSummary writes the totals of plan.
func printPlanSummary(w io.Writer, plan *grid.Plan) {
	fmt.Fprintln(w, "\n=== Plan ===")
	fmt.Fprintf(w, "Mode:            %s\n", plan.Mode)
	fmt.Fprintf(w, "Grid:            %dx%d (%d per page)\n", plan.Rows, plan.Cols, plan.Capacity())
	fmt.Fprintf(w, "Pages:           %d\n", plan.Pages)
	fmt.Fprintf(w, "Fills:           %d\n", plan.Filled)
	fmt.Fprintf(w, "Clears:          %d\n", plan.Cleared)
	if plan.Dropped > 0 {
		fmt.Fprintf(w, "Dropped:         %d (sheet is full)\n", plan.Dropped)
	}
}
