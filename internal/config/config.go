// =============================================================================
// tagfill - Configuration Module
// =============================================================================
//
// This module is responsible for loading and validating the tagfill
// configuration file. The file is optional: with no path the defaults below
// reproduce the stock 7x8 tag sheet.
//
// CONFIGURATION SOURCES (lowest to highest precedence):
//   1. Built-in defaults (Default)
//   2. The YAML file passed with --config; every key present in it wins,
//      zero values included
//   3. Overrides from flags and environment (applied by the cmd package)
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ginjaninja78/tagfill/internal/grid"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// DefaultDataDirEnv is the environment variable naming the data directory.
const DefaultDataDirEnv = "SCRIBUS_DATA_PATH"

// DefaultDataDir is used when DefaultDataDirEnv is unset.
const DefaultDataDir = "default_path_if_not_set"

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the complete tagfill configuration.
type Config struct {
	// Mode is "fixed" (fill pre-placed frames on one page) or "multi"
	// (clone a template across as many pages as needed).
	Mode string `yaml:"mode"`

	// Grid is the label grid size.
	Grid GridConfig `yaml:"grid"`

	// Geometry is the physical layout used when cloning in multi mode and
	// when generating a starter sheet.
	Geometry grid.Geometry `yaml:"geometry"`

	// Styles controls how price and UPC text is formatted.
	Styles Styles `yaml:"styles"`

	// PricePrefix is prepended to prices that do not already start with it.
	PricePrefix string `yaml:"price_prefix"`

	Data     DataConfig     `yaml:"data"`
	Document DocumentConfig `yaml:"document"`
	Template TemplateConfig `yaml:"template"`
	Output   OutputConfig   `yaml:"output"`

	Validation ValidationConfig `yaml:"validation"`

	// ArchiveInput moves the data file to Output.ArchiveDir after a
	// successful run.
	ArchiveInput bool `yaml:"archive_input"`

	// LogLevel is one of "debug", "info", "warn", "error".
	LogLevel string `yaml:"log_level"`

	// LogFormat is "console" or "json".
	LogFormat string `yaml:"log_format"`
}

// GridConfig is the label grid size.
type GridConfig struct {
	Rows int `yaml:"rows"`
	Cols int `yaml:"cols"`
}

// Styles holds the text style for each field of a tag.
type Styles struct {
	Price TextStyle `yaml:"price"`
	UPC   TextStyle `yaml:"upc"`
}

// TextStyle is a font, a point size and an alignment.
type TextStyle struct {
	Font string  `yaml:"font"`
	Size float64 `yaml:"size"`

	// Align is "left", "center", "right" or "justify".
	Align string `yaml:"align"`
}

// DataConfig describes where the label data lives.
type DataConfig struct {
	// Dir is an explicit data directory. When set it wins over DirEnv.
	Dir string `yaml:"dir,omitempty"`

	// DirEnv names the environment variable holding the data directory.
	DirEnv string `yaml:"dir_env"`

	// DefaultDir is used when DirEnv is unset.
	DefaultDir string `yaml:"default_dir"`

	// File is the data file name inside the directory. A ".xlsx" extension
	// selects the workbook reader.
	File string `yaml:"file"`

	// HeaderRows is the number of rows skipped at the top of the file.
	HeaderRows int `yaml:"header_rows"`

	// Sheet is the workbook sheet to read. Empty means the first sheet.
	Sheet string `yaml:"sheet,omitempty"`
}

// DocumentConfig describes the document being filled.
type DocumentConfig struct {
	// Path is the document file to load. Empty means a starter sheet is
	// generated for the configured mode.
	Path string `yaml:"path"`

	PageWidth  float64 `yaml:"page_width"`
	PageHeight float64 `yaml:"page_height"`

	// FrameWidth and FrameHeight size the tag frames of a generated sheet.
	FrameWidth  float64 `yaml:"frame_width"`
	FrameHeight float64 `yaml:"frame_height"`
}

// TemplateConfig names the template group cloned in multi mode.
type TemplateConfig struct {
	// Objects is every object of the template group, in paste order.
	Objects []string `yaml:"objects"`

	// Price and UPC name the template's text frames. Both must be listed
	// in Objects.
	Price string `yaml:"price"`
	UPC   string `yaml:"upc"`
}

// OutputConfig controls what a run writes.
type OutputConfig struct {
	Dir        string `yaml:"dir"`
	ArchiveDir string `yaml:"archive_dir"`

	// NameFormat is the base name of output files. Placeholders:
	//   {uuid}      - a random UUID
	//   {timestamp} - YYYYMMDD_HHMMSS
	//   {mode}      - the grid mode
	NameFormat string `yaml:"name_format"`

	// PDF renders a proof of the filled document.
	PDF bool `yaml:"pdf"`

	// Barcodes draws UPC bars on the PDF proof.
	Barcodes bool `yaml:"barcodes"`

	// PlanXLSX writes the allocation plan as a workbook.
	PlanXLSX bool `yaml:"plan_xlsx"`
}

// ValidationConfig controls record validation.
type ValidationConfig struct {
	// Strict turns validation warnings into a fatal error.
	Strict bool `yaml:"strict"`
}

// =============================================================================
// LOADING
// =============================================================================

// Default returns the built-in configuration.
func Default() *Config {
	cfg := defaults()
	fillDerived(cfg)
	return cfg
}

// Load reads the configuration at path. An empty path returns Default.
//
// The file is decoded over the defaults, so a key that is present wins
// even when its value is zero or empty (header_rows: 0, price_prefix: "").
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	fillDerived(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes cfg as YAML to path.
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// defaults returns the built-in values of every option that does not
// depend on another.
func defaults() *Config {
	return &Config{
		Mode:     grid.FixedSinglePage.String(),
		Grid:     GridConfig{Rows: 7, Cols: 8},
		Geometry: grid.DefaultGeometry(),
		Styles: Styles{
			Price: TextStyle{Font: "Verdana Bold", Size: 17, Align: "center"},
			UPC:   TextStyle{Font: "Tahoma Regular", Size: 8, Align: "center"},
		},
		PricePrefix: "$",
		Data: DataConfig{
			DirEnv:     DefaultDataDirEnv,
			DefaultDir: DefaultDataDir,
			File:       "data.csv",
			HeaderRows: 1,
		},
		Document: DocumentConfig{PageWidth: 30},
		Template: TemplateConfig{
			Objects: []string{"tag_template", "price_template", "upc_template"},
			Price:   "price_template",
			UPC:     "upc_template",
		},
		Output: OutputConfig{
			Dir:        "./output",
			ArchiveDir: "./input_archive",
			NameFormat: "tags_{timestamp}",
		},
		LogLevel:  "info",
		LogFormat: "console",
	}
}

// fillDerived sizes the document from the geometry where the file did not,
// and puts the defaults back for names left empty. Numbers are not touched:
// a zero a file asks for stays zero and Validate judges it.
func fillDerived(cfg *Config) {
	def := defaults()

	orDefault(&cfg.Mode, def.Mode)
	orDefault(&cfg.Styles.Price.Font, def.Styles.Price.Font)
	orDefault(&cfg.Styles.Price.Align, def.Styles.Price.Align)
	orDefault(&cfg.Styles.UPC.Font, def.Styles.UPC.Font)
	orDefault(&cfg.Styles.UPC.Align, def.Styles.UPC.Align)

	orDefault(&cfg.Data.DirEnv, def.Data.DirEnv)
	orDefault(&cfg.Data.DefaultDir, def.Data.DefaultDir)
	orDefault(&cfg.Data.File, def.Data.File)

	if cfg.Document.PageWidth == 0 {
		cfg.Document.PageWidth = def.Document.PageWidth
	}
	if cfg.Document.PageHeight == 0 {
		cfg.Document.PageHeight = cfg.Geometry.PageHeight
	}
	if cfg.Document.FrameWidth == 0 {
		cfg.Document.FrameWidth = cfg.Geometry.HSpacing - 0.2
	}
	if cfg.Document.FrameHeight == 0 {
		cfg.Document.FrameHeight = cfg.Geometry.VSpacing - 0.2
	}

	if len(cfg.Template.Objects) == 0 {
		cfg.Template.Objects = def.Template.Objects
	}
	orDefault(&cfg.Template.Price, def.Template.Price)
	orDefault(&cfg.Template.UPC, def.Template.UPC)

	orDefault(&cfg.Output.Dir, def.Output.Dir)
	orDefault(&cfg.Output.ArchiveDir, def.Output.ArchiveDir)
	orDefault(&cfg.Output.NameFormat, def.Output.NameFormat)

	orDefault(&cfg.LogLevel, def.LogLevel)
	orDefault(&cfg.LogFormat, def.LogFormat)
}

func orDefault(s *string, def string) {
	if *s == "" {
		*s = def
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validate checks the configuration for values no run could use.
func (c *Config) Validate() error {
	mode, err := grid.ParseMode(c.Mode)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if c.Grid.Rows <= 0 || c.Grid.Cols <= 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, &grid.ConfigurationError{Rows: c.Grid.Rows, Cols: c.Grid.Cols})
	}

	g := c.Geometry
	if g.HSpacing <= 0 || g.VSpacing <= 0 || g.PageHeight <= 0 {
		return fmt.Errorf("%w: geometry spacing and page_height must be positive", ErrInvalidConfig)
	}

	for name, s := range map[string]TextStyle{"price": c.Styles.Price, "upc": c.Styles.UPC} {
		if s.Size <= 0 {
			return fmt.Errorf("%w: styles.%s.size must be positive", ErrInvalidConfig, name)
		}
		if _, ok := alignments[strings.ToLower(s.Align)]; !ok {
			return fmt.Errorf("%w: styles.%s.align %q is not one of left, center, right, justify", ErrInvalidConfig, name, s.Align)
		}
	}

	if c.Data.HeaderRows < 0 {
		return fmt.Errorf("%w: data.header_rows must not be negative", ErrInvalidConfig)
	}

	if mode == grid.MultiPage {
		if !contains(c.Template.Objects, c.Template.Price) {
			return fmt.Errorf("%w: template.price %q is not listed in template.objects", ErrInvalidConfig, c.Template.Price)
		}
		if !contains(c.Template.Objects, c.Template.UPC) {
			return fmt.Errorf("%w: template.upc %q is not listed in template.objects", ErrInvalidConfig, c.Template.UPC)
		}
	}

	return nil
}

// GridMode returns the parsed Mode. Validate guarantees it parses.
func (c *Config) GridMode() grid.Mode {
	mode, _ := grid.ParseMode(c.Mode)
	return mode
}

// alignments maps style names to the host's alignment codes.
var alignments = map[string]int{
	"left":    0,
	"center":  1,
	"right":   2,
	"justify": 3,
}

// AlignmentCode returns the host alignment code for a style name,
// defaulting to center.
func AlignmentCode(align string) int {
	if code, ok := alignments[strings.ToLower(align)]; ok {
		return code
	}
	return 1
}

// =============================================================================
// DATA PATH RESOLUTION
// =============================================================================

// DataDir returns the data directory: Data.Dir if set, else the value of
// the configured environment variable, else DefaultDir.
func (c *Config) DataDir(getenv func(string) string) string {
	if c.Data.Dir != "" {
		return c.Data.Dir
	}
	if getenv == nil {
		getenv = os.Getenv
	}
	if dir := getenv(c.Data.DirEnv); dir != "" {
		return dir
	}
	return c.Data.DefaultDir
}

// DataPath joins DataDir and the data file name.
func (c *Config) DataPath(getenv func(string) string) string {
	return filepath.Join(c.DataDir(getenv), c.Data.File)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
