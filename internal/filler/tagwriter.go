package filler

import (
	"fmt"
	"strings"

	"github.com/ginjaninja78/tagfill/internal/config"
	"github.com/ginjaninja78/tagfill/internal/host"
	"github.com/ginjaninja78/tagfill/internal/types"
)

// Style is a resolved text style.
type Style struct {
	Font  string
	Size  float64
	Align host.Alignment
}

// TagWriter formats label records into a pair of text frames.
type TagWriter struct {
	Host        host.Host
	PricePrefix string
	Price       Style
	UPC         Style

	// Missing counts frames that were skipped because they do not exist.
	Missing int

	logger Logger
}

// NewTagWriter builds a TagWriter from the configured styles.
func NewTagWriter(h host.Host, cfg *config.Config, logger Logger) *TagWriter {
	return &TagWriter{
		Host:        h,
		PricePrefix: cfg.PricePrefix,
		Price:       styleFrom(cfg.Styles.Price),
		UPC:         styleFrom(cfg.Styles.UPC),
		logger:      loggerOrNop(logger),
	}
}

func styleFrom(s config.TextStyle) Style {
	return Style{Font: s.Font, Size: s.Size, Align: host.Alignment(config.AlignmentCode(s.Align))}
}

// FormatPrice prepends prefix unless price already starts with it.
func FormatPrice(price, prefix string) string {
	if prefix == "" || strings.HasPrefix(price, prefix) {
		return price
	}
	return prefix + price
}

// Write sets the price and UPC text and styles. A frame that does not exist
// is skipped; any other host failure is returned.
func (w *TagWriter) Write(priceFrame, upcFrame string, rec types.LabelRecord) error {
	if err := w.writeField(priceFrame, FormatPrice(rec.Price, w.PricePrefix), w.Price); err != nil {
		return err
	}
	return w.writeField(upcFrame, rec.UPC, w.UPC)
}

// Clear deletes the text of both frames, skipping missing ones.
func (w *TagWriter) Clear(priceFrame, upcFrame string) error {
	for _, name := range []string{priceFrame, upcFrame} {
		if !w.exists(name) {
			continue
		}
		if err := w.Host.DeleteText(name); err != nil {
			return fmt.Errorf("clear %s: %w", name, err)
		}
	}
	return nil
}

func (w *TagWriter) writeField(name, text string, style Style) error {
	if !w.exists(name) {
		return nil
	}
	if err := w.Host.SetText(text, name); err != nil {
		return fmt.Errorf("set text on %s: %w", name, err)
	}
	if err := w.Host.SetFontSize(style.Size, name); err != nil {
		return fmt.Errorf("set font size on %s: %w", name, err)
	}
	if err := w.Host.SetFont(style.Font, name); err != nil {
		return fmt.Errorf("set font on %s: %w", name, err)
	}
	if err := w.Host.SetTextAlignment(style.Align, name); err != nil {
		return fmt.Errorf("set alignment on %s: %w", name, err)
	}
	return nil
}

func (w *TagWriter) exists(name string) bool {
	if w.Host.ObjectExists(name) {
		return true
	}
	w.Missing++
	w.logger.Debugf("frame %s not found, skipping", name)
	return false
}
