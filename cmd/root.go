// =============================================================================
// tagfill - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. All other commands
// are attached to it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (tagfill)
//   ├── fillCmd    (tagfill fill)
//   ├── planCmd    (tagfill plan)
//   ├── initCmd    (tagfill init)
//   └── versionCmd (tagfill version)
//
// CONFIGURATION:
//   The root command is responsible for:
//   1. Setting up global flags (--config, --verbose, --log-format)
//   2. Loading .env and locating the configuration file (viper)
//   3. Building the logger (zap)
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ginjaninja78/tagfill/internal/config"
	"github.com/ginjaninja78/tagfill/internal/logging"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the configuration file. When empty, tagfill.yaml
// is looked up in the working directory and $HOME/.tagfill.
var cfgFile string

// verbose enables debug logging.
var verbose bool

// logFormat overrides the configured log format.
var logFormat string

// envPrefix is the prefix of environment overrides, e.g. TAGFILL_MODE.
const envPrefix = "TAGFILL"

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

var rootCmd = &cobra.Command{
	Use:   "tagfill",
	Short: "tagfill - Fill price tag sheets from a data file",
	Long: `tagfill reads label data (quantity, price, UPC) from a CSV or Excel file,
expands each row by its quantity and places the labels onto a grid of price
tags.

Two modes are supported:
  fixed  fill the pre-placed price_R_C / upc_R_C frames of a single page;
         labels beyond the page capacity are reported and dropped
  multi  clone a template tag across as many pages as the data needs

Example Usage:
  tagfill init                          # Write tagfill.yaml with defaults
  tagfill plan                          # Show where each label will go
  tagfill fill --pdf                    # Fill a tag sheet and render a proof
  tagfill fill --mode multi --plan-xlsx # Multi-page run with a plan workbook`,

	SilenceUsage: true,

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. It is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"",
		"Path to the configuration file (default is ./tagfill.yaml)",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)

	rootCmd.PersistentFlags().StringVar(
		&logFormat,
		"log-format",
		"",
		"Log output format: console or json (overrides log_format)",
	)
}

// initConfig loads .env into the environment and locates the config file.
func initConfig() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Warning: failed to load .env: %v\n", err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("tagfill")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.tagfill")
	}

	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv()
	for _, key := range []string{"mode", "data_dir", "output_dir", "document", "log_level"} {
		_ = viper.BindEnv(key)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			fmt.Fprintf(os.Stderr, "Warning: failed to read config: %v\n", err)
		}
	}
}

// =============================================================================
// SHARED HELPERS
// =============================================================================

// loadConfig reads the config file found by initConfig and applies
// environment overrides, then o (command flags) on top.
func loadConfig(o config.Overrides) (*config.Config, error) {
	cfg, err := config.Load(viper.ConfigFileUsed())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	env := config.Overrides{
		Mode:      viper.GetString("mode"),
		DataDir:   viper.GetString("data_dir"),
		OutputDir: viper.GetString("output_dir"),
		Document:  viper.GetString("document"),
		LogLevel:  viper.GetString("log_level"),
	}
	if err := cfg.Apply(env); err != nil {
		return nil, err
	}

	o.LogFormat = firstNonEmpty(o.LogFormat, logFormat)
	if verbose {
		o.LogLevel = "debug"
	}
	if err := cfg.Apply(o); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger builds the logger described by cfg.
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, err
	}
	if path := viper.ConfigFileUsed(); path != "" {
		logger.Debug("using config file", zap.String("path", path))
	}
	return logger, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// boolFlag returns a pointer to the flag's value when it was set on the
// command line, nil otherwise.
func boolFlag(cmd *cobra.Command, name string) *bool {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, err := cmd.Flags().GetBool(name)
	if err != nil {
		return nil
	}
	return &v
}
