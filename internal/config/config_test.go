package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/tagfill/internal/grid"
)

func TestDefaultMatchesStockSheet(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "fixed", cfg.Mode)
	assert.Equal(t, 7, cfg.Grid.Rows)
	assert.Equal(t, 8, cfg.Grid.Cols)
	assert.Equal(t, grid.DefaultGeometry(), cfg.Geometry)
	assert.Equal(t, TextStyle{Font: "Verdana Bold", Size: 17, Align: "center"}, cfg.Styles.Price)
	assert.Equal(t, TextStyle{Font: "Tahoma Regular", Size: 8, Align: "center"}, cfg.Styles.UPC)
	assert.Equal(t, "$", cfg.PricePrefix)
	assert.Equal(t, "data.csv", cfg.Data.File)
	assert.NoError(t, cfg.Validate())
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadAppliesDefaultsToPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tagfill.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
mode: multi
grid:
  rows: 2
  cols: 3
styles:
  price:
    size: 20
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, grid.MultiPage, cfg.GridMode())
	assert.Equal(t, 2, cfg.Grid.Rows)
	assert.Equal(t, 3, cfg.Grid.Cols)
	assert.Equal(t, 20.0, cfg.Styles.Price.Size)
	assert.Equal(t, "Verdana Bold", cfg.Styles.Price.Font)
	assert.Equal(t, "price_template", cfg.Template.Price)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"negative rows": "grid:\n  rows: -1\n",
		"zero rows":     "grid:\n  rows: 0\n",
		"zero cols":     "grid:\n  cols: 0\n",
		"zero size":     "styles:\n  price:\n    size: 0\n",
		"zero spacing":  "geometry:\n  h_spacing: 0\n",
		"bad mode":      "mode: spiral\n",
		"bad align":     "styles:\n  upc:\n    align: diagonal\n",
		"template":      "mode: multi\ntemplate:\n  objects: [a, b]\n  price: a\n  upc: c\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "tagfill.yaml")
			require.NoError(t, os.WriteFile(path, []byte(body), 0644))

			_, err := Load(path)
			assert.True(t, errors.Is(err, ErrInvalidConfig), "got %v", err)
		})
	}
}

func TestLoadKeepsExplicitZeroValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tagfill.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
price_prefix: ""
data:
  header_rows: 0
geometry:
  start_x: 0
  start_y: 0
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Empty(t, cfg.PricePrefix)
	assert.Zero(t, cfg.Data.HeaderRows)
	assert.Zero(t, cfg.Geometry.StartX)
	assert.Zero(t, cfg.Geometry.StartY)
	assert.Equal(t, 3.1, cfg.Geometry.HSpacing)
	assert.Equal(t, "data.csv", cfg.Data.File)
}

func TestLoadZeroRowsIsAConfigurationError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tagfill.yaml")
	require.NoError(t, os.WriteFile(path, []byte("grid:\n  rows: 0\n  cols: 8\n"), 0644))

	_, err := Load(path)
	var ce *grid.ConfigurationError
	require.True(t, errors.As(err, &ce), "got %v", err)
	assert.Equal(t, 0, ce.Rows)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tagfill.yaml")
	cfg := Default()
	cfg.Mode = "multi"
	cfg.Output.PDF = true

	require.NoError(t, Save(cfg, path))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestDataPathResolution(t *testing.T) {
	cfg := Default()

	env := map[string]string{}
	getenv := func(k string) string { return env[k] }

	assert.Equal(t, filepath.Join("default_path_if_not_set", "data.csv"), cfg.DataPath(getenv))

	env["SCRIBUS_DATA_PATH"] = "/srv/tags"
	assert.Equal(t, filepath.Join("/srv/tags", "data.csv"), cfg.DataPath(getenv))

	cfg.Data.Dir = "/explicit"
	assert.Equal(t, filepath.Join("/explicit", "data.csv"), cfg.DataPath(getenv))
}

func TestApplyOverrides(t *testing.T) {
	cfg := Default()
	on := true

	require.NoError(t, cfg.Apply(Overrides{Mode: "multi", OutputDir: "/tmp/out", PDF: &on}))
	assert.Equal(t, grid.MultiPage, cfg.GridMode())
	assert.Equal(t, "/tmp/out", cfg.Output.Dir)
	assert.True(t, cfg.Output.PDF)

	err := cfg.Apply(Overrides{Mode: "nope"})
	assert.True(t, errors.Is(err, ErrInvalidConfig))
}

func TestAlignmentCode(t *testing.T) {
	assert.Equal(t, 1, AlignmentCode("center"))
	assert.Equal(t, 0, AlignmentCode("LEFT"))
	assert.Equal(t, 2, AlignmentCode("right"))
	assert.Equal(t, 1, AlignmentCode("unknown"))
}
