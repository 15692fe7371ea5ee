package config

// Overrides carries values from flags and environment that take precedence
// over the configuration file. Zero values leave the file's setting alone.
type Overrides struct {
	DataDir   string
	Mode      string
	Document  string
	OutputDir string
	LogLevel  string
	LogFormat string

	// Pointers so that an explicit "false" can switch a file setting off.
	PDF      *bool
	PlanXLSX *bool
	Strict   *bool
}

// Apply merges o into c and re-validates.
func (c *Config) Apply(o Overrides) error {
	if o.DataDir != "" {
		c.Data.Dir = o.DataDir
	}
	if o.Mode != "" {
		c.Mode = o.Mode
	}
	if o.Document != "" {
		c.Document.Path = o.Document
	}
	if o.OutputDir != "" {
		c.Output.Dir = o.OutputDir
	}
	if o.LogLevel != "" {
		c.LogLevel = o.LogLevel
	}
	if o.LogFormat != "" {
		c.LogFormat = o.LogFormat
	}
	if o.PDF != nil {
		c.Output.PDF = *o.PDF
	}
	if o.PlanXLSX != nil {
		c.Output.PlanXLSX = *o.PlanXLSX
	}
	if o.Strict != nil {
		c.Validation.Strict = *o.Strict
	}
	return c.Validate()
}
