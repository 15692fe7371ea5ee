package filler

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/ginjaninja78/tagfill/internal/grid"
	"github.com/ginjaninja78/tagfill/internal/host"
	"github.com/ginjaninja78/tagfill/internal/types"
)

// ErrUnexpectedPage is returned when a fixed sheet is asked for a new page.
var ErrUnexpectedPage = errors.New("fixed sheet cannot create pages")

// =============================================================================
// FIXED SHEET
// =============================================================================

// FixedSink fills the pre-placed price_{row}_{col} / upc_{row}_{col} frames
// of a single page.
type FixedSink struct {
	Writer *TagWriter
}

var _ grid.Sink = (*FixedSink)(nil)

func (s *FixedSink) CreatePage(page int) error {
	return fmt.Errorf("%w (page %d)", ErrUnexpectedPage, page)
}

func (s *FixedSink) FillSlot(pos types.GridPosition, rec types.LabelRecord) error {
	price, upc := grid.FrameNames(pos.Row, pos.Col)
	return s.Writer.Write(price, upc, rec)
}

func (s *FixedSink) ClearSlot(pos types.GridPosition) error {
	price, upc := grid.FrameNames(pos.Row, pos.Col)
	return s.Writer.Clear(price, upc)
}

// =============================================================================
// CLONED TEMPLATE
// =============================================================================

// Template names the group of objects cloned for each tag.
type Template struct {
	Objects []string
	Price   string
	UPC     string
}

// CloneSink fills a grid by cloning a template group placed at slot (1,1,1).
// The template itself is the first tag; every other filled slot gets a copy
// of each template object moved into place.
//
// When the host is a host.Inspector, clones saved by an earlier run are
// found by name ("<template>_copy<N>") and position, then reused for the
// slots this run fills or clears. Finish blanks the ones left over.
type CloneSink struct {
	Writer   *TagWriter
	Template Template
	Geometry grid.Geometry

	// Clones maps a slot to the names of its price and UPC frames.
	Clones map[types.GridPosition][2]string

	// Created counts slots cloned by this run.
	Created int

	// PagesCreated counts successful NewPage calls.
	PagesCreated int

	// PagesRemoved counts pages Finish deleted.
	PagesRemoved int

	// stale holds slots of an earlier run not yet visited.
	stale map[types.GridPosition]bool
}

var _ grid.Sink = (*CloneSink)(nil)

// NewCloneSink checks that the template exists on the host and indexes any
// clones already placed.
func NewCloneSink(w *TagWriter, tpl Template, geom grid.Geometry) (*CloneSink, error) {
	for _, name := range tpl.Objects {
		if !w.Host.ObjectExists(name) {
			return nil, fmt.Errorf("template object %s not found", name)
		}
	}
	s := &CloneSink{
		Writer:   w,
		Template: tpl,
		Geometry: geom,
		Clones:   make(map[types.GridPosition][2]string),
		stale:    make(map[types.GridPosition]bool),
	}
	if err := s.adopt(); err != nil {
		return nil, err
	}
	return s, nil
}

// adopt indexes the price and UPC clones of an earlier run by the slot their
// offset from the template points at.
func (s *CloneSink) adopt() error {
	in, ok := s.Writer.Host.(host.Inspector)
	if !ok {
		return nil
	}

	names := in.ObjectNames()
	for i, tpl := range []string{s.Template.Price, s.Template.UPC} {
		tx, ty, err := in.ObjectPosition(tpl)
		if err != nil {
			return fmt.Errorf("locate template %s: %w", tpl, err)
		}

		prefix := tpl + "_copy"
		for _, name := range names {
			if !strings.HasPrefix(name, prefix) {
				continue
			}
			if _, err := strconv.Atoi(strings.TrimPrefix(name, prefix)); err != nil {
				continue
			}
			x, y, err := in.ObjectPosition(name)
			if err != nil {
				return fmt.Errorf("locate %s: %w", name, err)
			}
			pos, ok := s.Geometry.Slot(x-tx, y-ty)
			if !ok || isOrigin(pos) {
				continue
			}

			frames := s.Clones[pos]
			if frames[i] != "" {
				continue
			}
			frames[i] = name
			s.Clones[pos] = frames
			s.stale[pos] = true
		}
	}

	if len(s.stale) > 0 {
		s.Writer.logger.Debugf("found clones of an earlier run in %d slot(s)", len(s.stale))
	}
	return nil
}

// CreatePage adds a page unless the document already has it.
func (s *CloneSink) CreatePage(page int) error {
	if in, ok := s.Writer.Host.(host.Inspector); ok && page <= in.PageCount() {
		return nil
	}
	if err := s.Writer.Host.NewPage(host.AppendPage); err != nil {
		return fmt.Errorf("create page %d: %w", page, err)
	}
	s.PagesCreated++
	return nil
}

func (s *CloneSink) FillSlot(pos types.GridPosition, rec types.LabelRecord) error {
	price, upc, err := s.frames(pos)
	if err != nil {
		return err
	}
	return s.Writer.Write(price, upc, rec)
}

// ClearSlot blanks a slot. Slots without clones have nothing to clear except
// canonical frames a hand-built document may carry.
func (s *CloneSink) ClearSlot(pos types.GridPosition) error {
	if names, ok := s.Clones[pos]; ok {
		delete(s.stale, pos)
		return s.Writer.Clear(names[0], names[1])
	}
	if isOrigin(pos) {
		return s.Writer.Clear(s.Template.Price, s.Template.UPC)
	}

	price, upc := grid.FrameNames(pos.Row, pos.Col)
	h := s.Writer.Host
	if pos.Page == 1 && (h.ObjectExists(price) || h.ObjectExists(upc)) {
		return s.Writer.Clear(price, upc)
	}
	return nil
}

// frames returns the price and UPC frame names for pos, cloning the template
// the first time the slot is seen.
func (s *CloneSink) frames(pos types.GridPosition) (string, string, error) {
	if isOrigin(pos) {
		return s.Template.Price, s.Template.UPC, nil
	}
	if names, ok := s.Clones[pos]; ok {
		delete(s.stale, pos)
		return names[0], names[1], nil
	}

	h := s.Writer.Host
	dx, dy := s.Geometry.Delta(pos)

	var names [2]string
	for _, src := range s.Template.Objects {
		if err := h.CopyObject(src); err != nil {
			return "", "", fmt.Errorf("copy %s: %w", src, err)
		}
		clone, err := h.PasteObject()
		if err != nil {
			return "", "", fmt.Errorf("paste %s: %w", src, err)
		}
		if err := h.MoveObject(dx, dy, clone); err != nil {
			return "", "", fmt.Errorf("move %s to %s: %w", clone, pos, err)
		}

		switch src {
		case s.Template.Price:
			names[0] = clone
		case s.Template.UPC:
			names[1] = clone
		}
	}

	s.Clones[pos] = names
	s.Created++
	return names[0], names[1], nil
}

// Finish ends a replay that used pages pages. Pages past the last one are
// deleted when the host supports it; clones of an earlier run the replay did
// not reach are blanked.
func (s *CloneSink) Finish(pages int) error {
	in, canList := s.Writer.Host.(host.Inspector)
	del, canDelete := s.Writer.Host.(host.PageDeleter)
	if canList && canDelete {
		for p := in.PageCount(); p > pages; p-- {
			if err := del.DeletePage(p); err != nil {
				return fmt.Errorf("delete page %d: %w", p, err)
			}
			s.PagesRemoved++
		}
		for pos := range s.Clones {
			if pos.Page > pages {
				delete(s.Clones, pos)
				delete(s.stale, pos)
			}
		}
	}

	left := make([]types.GridPosition, 0, len(s.stale))
	for pos := range s.stale {
		left = append(left, pos)
	}
	sort.Slice(left, func(i, j int) bool { return left[i].Less(left[j]) })

	for _, pos := range left {
		names := s.Clones[pos]
		if err := s.Writer.Clear(names[0], names[1]); err != nil {
			return fmt.Errorf("slot %s: %w", pos, err)
		}
		delete(s.stale, pos)
	}
	return nil
}

func isOrigin(pos types.GridPosition) bool {
	return pos.Page == 1 && pos.Row == 1 && pos.Col == 1
}
