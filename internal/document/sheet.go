package document

import (
	"fmt"

	"github.com/ginjaninja78/tagfill/internal/config"
	"github.com/ginjaninja78/tagfill/internal/grid"
	"github.com/ginjaninja78/tagfill/internal/host"
	"github.com/ginjaninja78/tagfill/internal/types"
)

// priceShare is the fraction of a tag's height given to the price frame;
// the UPC frame takes the rest.
const priceShare = 0.6

// NewTagSheet builds a starter document for cfg's mode.
//
// Fixed mode gets one page with a border rectangle and a named price/UPC
// frame pair per slot. Multi mode gets the template group at slot (1,1,1),
// ready to be cloned: the first template object is the border, the price
// and UPC objects are text frames and any others are rectangles.
func NewTagSheet(cfg *config.Config) (*Document, error) {
	doc := New(cfg.Document.PageWidth, cfg.Document.PageHeight)

	if cfg.GridMode() == grid.MultiPage {
		origin := types.GridPosition{Page: 1, Row: 1, Col: 1}
		if err := addTag(doc, cfg, origin, cfg.Template.Objects[0], cfg.Template.Price, cfg.Template.UPC); err != nil {
			return nil, err
		}

		// any further template objects are plain shapes over the tag
		x, y := cfg.Geometry.Offset(origin)
		for _, name := range cfg.Template.Objects[1:] {
			if doc.ObjectExists(name) {
				continue
			}
			o := Object{Name: name, Kind: KindRect, X: x, Y: y, W: cfg.Document.FrameWidth, H: cfg.Document.FrameHeight}
			if err := doc.Add(o); err != nil {
				return nil, err
			}
		}
		return doc, nil
	}

	for row := 1; row <= cfg.Grid.Rows; row++ {
		for col := 1; col <= cfg.Grid.Cols; col++ {
			pos := types.GridPosition{Page: 1, Row: row, Col: col}
			price, upc := grid.FrameNames(row, col)
			border := fmt.Sprintf("tag_%d_%d", row, col)
			if err := addTag(doc, cfg, pos, border, price, upc); err != nil {
				return nil, err
			}
		}
	}
	return doc, nil
}

// addTag adds a border and the two text frames for one slot. If border is
// also the price or UPC name it is skipped.
func addTag(doc *Document, cfg *config.Config, pos types.GridPosition, border, price, upc string) error {
	x, y := cfg.Geometry.Offset(pos)
	w, h := cfg.Document.FrameWidth, cfg.Document.FrameHeight
	priceH := h * priceShare

	objs := []Object{
		{
			Name: price, Kind: KindText,
			X: x, Y: y, W: w, H: priceH,
			Font: cfg.Styles.Price.Font, FontSize: cfg.Styles.Price.Size,
			Align: host.Alignment(config.AlignmentCode(cfg.Styles.Price.Align)),
		},
		{
			Name: upc, Kind: KindText,
			X: x, Y: y + priceH, W: w, H: h - priceH,
			Font: cfg.Styles.UPC.Font, FontSize: cfg.Styles.UPC.Size,
			Align: host.Alignment(config.AlignmentCode(cfg.Styles.UPC.Align)),
		},
	}
	if border != price && border != upc {
		objs = append([]Object{{Name: border, Kind: KindRect, X: x, Y: y, W: w, H: h}}, objs...)
	}

	for _, o := range objs {
		if err := doc.Add(o); err != nil {
			return err
		}
	}
	return nil
}
