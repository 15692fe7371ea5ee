// =============================================================================
// tagfill - Init Command
// =============================================================================
//
// This file defines the 'init' command, which writes a configuration file
// with every default spelled out and, optionally, a starter tag sheet.
//
// COMMAND USAGE:
//   tagfill init [path] [--sheet sheet.yaml] [--mode multi] [--force]
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/tagfill/internal/config"
	"github.com/ginjaninja78/tagfill/internal/document"
	"github.com/ginjaninja78/tagfill/pkg/utils"
)

var (
	initSheet string
	initMode  string
	initForce bool
)

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a default configuration file",
	Long: `The init command writes tagfill.yaml (or the given path) with the built-in
defaults. With --sheet it also writes a starter document: a page of
price_R_C / upc_R_C frames in fixed mode, or the template tag in multi mode.`,
	Args: cobra.MaximumNArgs(1),

	RunE: func(cmd *cobra.Command, args []string) error {
		path := "tagfill.yaml"
		if len(args) == 1 {
			path = args[0]
		}

		cfg := config.Default()
		if err := cfg.Apply(config.Overrides{Mode: initMode}); err != nil {
			return err
		}

		if err := writeNew(path, func() error { return config.Save(cfg, path) }); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", path)

		if initSheet == "" {
			return nil
		}
		doc, err := document.NewTagSheet(cfg)
		if err != nil {
			return err
		}
		if err := writeNew(initSheet, func() error { return doc.Save(initSheet) }); err != nil {
			return err
		}
		fmt.Printf("Wrote %s (%d objects)\n", initSheet, len(doc.Objects()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().StringVar(&initSheet, "sheet", "", "Also write a starter document to this path")
	initCmd.Flags().StringVar(&initMode, "mode", "", "Grid mode for the written files: fixed or multi")
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite existing files")
}

// writeNew runs write unless path exists and --force is off.
func writeNew(path string, write func() error) error {
	if utils.FileExists(path) && !initForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	return write()
}
