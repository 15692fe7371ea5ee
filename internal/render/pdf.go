// Package render draws a filled document as a PDF proof.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/ean"
	"github.com/jung-kurt/gofpdf"

	"github.com/ginjaninja78/tagfill/internal/document"
	"github.com/ginjaninja78/tagfill/internal/grid"
	"github.com/ginjaninja78/tagfill/internal/host"
)

const (
	defaultFontSize = 10.0
	lineWidth       = 0.02

	// barShare is the part of a UPC frame's height taken by bars; the
	// digits print underneath.
	barShare = 0.65
)

// Options controls rendering.
type Options struct {
	// Barcodes draws EAN-13 bars in UPC frames holding 11, 12 or 13 digits.
	Barcodes bool

	// IsUPCFrame picks the frames that get bars. Defaults to names
	// starting with "upc_".
	IsUPCFrame func(name string) bool
}

func (o Options) upcFrame(name string) bool {
	if o.IsUPCFrame != nil {
		return o.IsUPCFrame(name)
	}
	return strings.HasPrefix(name, grid.UPCPrefix+"_")
}

// PDF writes doc to w, one PDF page per document page. Units are
// centimetres, matching the document.
func PDF(w io.Writer, doc *document.Document, opts Options) error {
	if doc.PageWidth <= 0 || doc.PageHeight <= 0 {
		return fmt.Errorf("invalid page size %gx%g", doc.PageWidth, doc.PageHeight)
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "cm",
		Size:           gofpdf.SizeType{Wd: doc.PageWidth, Ht: doc.PageHeight},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetLineWidth(lineWidth)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	byPage := make(map[int][]document.Object)
	for _, o := range doc.Objects() {
		p := doc.PageOf(o)
		byPage[p] = append(byPage[p], o)
	}

	for page := 1; page <= doc.Pages; page++ {
		pdf.AddPage()
		top := float64(page-1) * doc.PageHeight

		for _, o := range byPage[page] {
			y := o.Y - top
			switch o.Kind {
			case document.KindRect:
				pdf.Rect(o.X, y, o.W, o.H, "D")
			default:
				if o.Text == "" {
					continue
				}
				textY, textH := y, o.H
				if opts.Barcodes && opts.upcFrame(o.Name) {
					if drawn := drawBars(pdf, o.Text, o.X, y, o.W, o.H*barShare); drawn {
						textY = y + o.H*barShare
						textH = o.H - o.H*barShare
					}
				}
				family, style := coreFont(o.Font)
				size := o.FontSize
				if size <= 0 {
					size = defaultFontSize
				}
				pdf.SetFont(family, style, size)
				pdf.SetXY(o.X, textY)
				pdf.CellFormat(o.W, textH, tr(o.Text), "", 0, cellAlign(o.Align), false, 0, "")
			}
		}
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("failed to render pdf: %w", err)
	}
	return pdf.Output(w)
}

// coreFont maps a document font name such as "Verdana Bold" onto one of
// the PDF core fonts.
func coreFont(name string) (family, style string) {
	n := strings.ToLower(name)

	switch {
	case strings.Contains(n, "courier") || strings.Contains(n, "mono"):
		family = "Courier"
	case strings.Contains(n, "times") || (strings.Contains(n, "serif") && !strings.Contains(n, "sans")):
		family = "Times"
	default:
		family = "Helvetica"
	}

	if strings.Contains(n, "bold") {
		style += "B"
	}
	if strings.Contains(n, "italic") || strings.Contains(n, "oblique") {
		style += "I"
	}
	return family, style
}

func cellAlign(a host.Alignment) string {
	switch a {
	case host.AlignLeft, host.AlignJustify:
		return "LM"
	case host.AlignRight:
		return "RM"
	default:
		return "CM"
	}
}

// EANCode turns a UPC into a code the EAN-13 encoder accepts. UPC-A codes
// get a leading zero; 11 digits leave the check digit to the encoder.
func EANCode(upc string) (string, bool) {
	for _, r := range upc {
		if r < '0' || r > '9' {
			return "", false
		}
	}
	switch len(upc) {
	case 11, 12:
		return "0" + upc, true
	case 13:
		return upc, true
	default:
		return "", false
	}
}

// drawBars fills black modules of the code for upc inside the box. It
// reports false when upc cannot be encoded.
func drawBars(pdf *gofpdf.Fpdf, upc string, x, y, w, h float64) bool {
	code, ok := EANCode(upc)
	if !ok {
		return false
	}
	bc, err := ean.Encode(code)
	if err != nil {
		return false
	}

	runs := darkRuns(bc)
	modules := bc.Bounds().Dx()
	if modules == 0 {
		return false
	}
	unit := w / float64(modules)

	pdf.SetFillColor(0, 0, 0)
	for _, r := range runs {
		pdf.Rect(x+float64(r[0])*unit, y, float64(r[1])*unit, h, "F")
	}
	return true
}

// darkRuns returns [start, length] pairs of consecutive dark modules.
func darkRuns(bc barcode.Barcode) [][2]int {
	var runs [][2]int
	b := bc.Bounds()
	start := -1
	for i := b.Min.X; i < b.Max.X; i++ {
		r, _, _, _ := bc.At(i, b.Min.Y).RGBA()
		dark := r < 0x8000
		switch {
		case dark && start < 0:
			start = i
		case !dark && start >= 0:
			runs = append(runs, [2]int{start - b.Min.X, i - start})
			start = -1
		}
	}
	if start >= 0 {
		runs = append(runs, [2]int{start - b.Min.X, b.Max.X - start})
	}
	return runs
}
