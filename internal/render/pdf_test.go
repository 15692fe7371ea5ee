package render

import (
	"bytes"
	"testing"

	"github.com/boombuler/barcode/ean"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/tagfill/internal/config"
	"github.com/ginjaninja78/tagfill/internal/document"
	"github.com/ginjaninja78/tagfill/internal/host"
)

func TestPDFRendersEveryPage(t *testing.T) {
	doc, err := document.NewTagSheet(config.Default())
	require.NoError(t, err)
	require.NoError(t, doc.SetText("$4.99", "price_1_1"))
	require.NoError(t, doc.SetText("036000291452", "upc_1_1"))
	require.NoError(t, doc.SetText("€2", "price_1_2"))
	require.NoError(t, doc.NewPage(host.AppendPage))

	var buf bytes.Buffer
	require.NoError(t, PDF(&buf, doc, Options{Barcodes: true}))

	out := buf.Bytes()
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.Equal(t, 2, bytes.Count(out, []byte("/Type /Page\n")))
}

func TestPDFRejectsEmptyPageSize(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, PDF(&buf, document.New(0, 23), Options{}))
}

func TestCoreFont(t *testing.T) {
	cases := []struct {
		in, family, style string
	}{
		{"Verdana Bold", "Helvetica", "B"},
		{"Tahoma Regular", "Helvetica", ""},
		{"Times New Roman Bold Italic", "Times", "BI"},
		{"Courier New", "Courier", ""},
		{"DejaVu Sans Oblique", "Helvetica", "I"},
		{"", "Helvetica", ""},
	}
	for _, c := range cases {
		family, style := coreFont(c.in)
		assert.Equal(t, c.family, family, c.in)
		assert.Equal(t, c.style, style, c.in)
	}
}

func TestEANCode(t *testing.T) {
	code, ok := EANCode("036000291452")
	assert.True(t, ok)
	assert.Equal(t, "0036000291452", code)

	code, ok = EANCode("03600029145")
	assert.True(t, ok)
	assert.Equal(t, "003600029145", code)

	_, ok = EANCode("111")
	assert.False(t, ok)
	_, ok = EANCode("03600029145X")
	assert.False(t, ok)
}

func TestDarkRunsCoverGuardBars(t *testing.T) {
	bc, err := ean.Encode("0036000291452")
	require.NoError(t, err)

	runs := darkRuns(bc)
	require.NotEmpty(t, runs)
	// start guard is bar-space-bar
	assert.Equal(t, [2]int{0, 1}, runs[0])
	assert.Equal(t, [2]int{2, 1}, runs[1])

	last := runs[len(runs)-1]
	assert.Equal(t, bc.Bounds().Dx(), last[0]+last[1])
}

func TestPlainUPCFrames(t *testing.T) {
	o := Options{}
	assert.True(t, o.upcFrame("upc_3_4"))
	assert.True(t, o.upcFrame("upc_template_copy2"))
	assert.False(t, o.upcFrame("price_1_1"))

	o.IsUPCFrame = func(name string) bool { return name == "code" }
	assert.True(t, o.upcFrame("code"))
}
