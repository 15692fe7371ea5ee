// =============================================================================
// tagfill - In-Memory Document
// =============================================================================
//
// Document is a small page-layout model that implements host.Host. It stands
// in for a desktop publishing session: named objects with a position, a size
// and text attributes, a clipboard for copy/paste, and a page count.
//
// COORDINATES:
//   All values are centimetres in document space. Pages are stacked
//   vertically at PageHeight pitch, so an object at Y belongs to page
//   int(Y/PageHeight)+1.
//
// PERSISTENCE:
//   Documents are stored as YAML (see Load and Save).
//
// =============================================================================

package document

import (
	"errors"
	"fmt"
	"math"

	"github.com/ginjaninja78/tagfill/internal/host"
)

var (
	// ErrObjectNotFound is returned when a named object does not exist.
	ErrObjectNotFound = errors.New("object not found")

	// ErrNotText is returned when a text operation targets a shape.
	ErrNotText = errors.New("object is not a text frame")

	// ErrEmptyClipboard is returned by PasteObject before any CopyObject.
	ErrEmptyClipboard = errors.New("clipboard is empty")

	// ErrInvalidPage is returned for a NewPage position outside the document.
	ErrInvalidPage = errors.New("invalid page position")

	// ErrDuplicateName is returned when adding an object whose name is taken.
	ErrDuplicateName = errors.New("duplicate object name")
)

// Kind is the type of a document object.
type Kind string

const (
	KindText Kind = "text"
	KindRect Kind = "rect"
)

// Object is one named item on the document.
type Object struct {
	Name string  `yaml:"name"`
	Kind Kind    `yaml:"kind"`
	X    float64 `yaml:"x"`
	Y    float64 `yaml:"y"`
	W    float64 `yaml:"w"`
	H    float64 `yaml:"h"`

	Text     string         `yaml:"text,omitempty"`
	Font     string         `yaml:"font,omitempty"`
	FontSize float64        `yaml:"font_size,omitempty"`
	Align    host.Alignment `yaml:"align,omitempty"`
}

// Document holds pages and named objects in insertion order.
type Document struct {
	PageWidth  float64
	PageHeight float64
	Pages      int

	objects   map[string]*Object
	order     []string
	clipboard *Object
	pasted    int
}

var (
	_ host.Host        = (*Document)(nil)
	_ host.Inspector   = (*Document)(nil)
	_ host.PageDeleter = (*Document)(nil)
)

// New creates an empty single-page document.
func New(pageWidth, pageHeight float64) *Document {
	return &Document{
		PageWidth:  pageWidth,
		PageHeight: pageHeight,
		Pages:      1,
		objects:    make(map[string]*Object),
	}
}

// Add places obj on the document. The name must be unused.
func (d *Document) Add(obj Object) error {
	if obj.Name == "" {
		return fmt.Errorf("object has no name")
	}
	if _, ok := d.objects[obj.Name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateName, obj.Name)
	}
	o := obj
	d.objects[o.Name] = &o
	d.order = append(d.order, o.Name)
	return nil
}

// Object returns a copy of the named object.
func (d *Document) Object(name string) (Object, bool) {
	o, ok := d.objects[name]
	if !ok {
		return Object{}, false
	}
	return *o, true
}

// Objects returns copies of all objects in insertion order.
func (d *Document) Objects() []Object {
	out := make([]Object, 0, len(d.order))
	for _, name := range d.order {
		out = append(out, *d.objects[name])
	}
	return out
}

// PageOf returns the 1-indexed page an object sits on.
func (d *Document) PageOf(o Object) int {
	if d.PageHeight <= 0 {
		return 1
	}
	return int(math.Floor(o.Y/d.PageHeight)) + 1
}

// =============================================================================
// host.Host
// =============================================================================

func (d *Document) ObjectExists(name string) bool {
	_, ok := d.objects[name]
	return ok
}

func (d *Document) SetText(text, name string) error {
	o, err := d.text(name)
	if err != nil {
		return err
	}
	o.Text = text
	return nil
}

func (d *Document) SetFontSize(points float64, name string) error {
	o, err := d.text(name)
	if err != nil {
		return err
	}
	if points <= 0 {
		return fmt.Errorf("font size %.1f for %s: must be positive", points, name)
	}
	o.FontSize = points
	return nil
}

func (d *Document) SetFont(font, name string) error {
	o, err := d.text(name)
	if err != nil {
		return err
	}
	o.Font = font
	return nil
}

func (d *Document) SetTextAlignment(align host.Alignment, name string) error {
	o, err := d.text(name)
	if err != nil {
		return err
	}
	if align < host.AlignLeft || align > host.AlignJustify {
		return fmt.Errorf("alignment %d for %s: out of range", int(align), name)
	}
	o.Align = align
	return nil
}

func (d *Document) DeleteText(name string) error {
	o, err := d.text(name)
	if err != nil {
		return err
	}
	o.Text = ""
	return nil
}

// NewPage appends a page (AppendPage or Pages+1) or inserts one before an
// existing page, shifting every object on or after it down one page.
func (d *Document) NewPage(position int) error {
	if position == host.AppendPage || position == d.Pages+1 {
		d.Pages++
		return nil
	}
	if position < 1 || position > d.Pages {
		return fmt.Errorf("%w: %d (document has %d pages)", ErrInvalidPage, position, d.Pages)
	}

	cut := float64(position-1) * d.PageHeight
	for _, o := range d.objects {
		if o.Y >= cut {
			o.Y += d.PageHeight
		}
	}
	d.Pages++
	return nil
}

func (d *Document) CopyObject(name string) error {
	o, ok := d.objects[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrObjectNotFound, name)
	}
	c := *o
	d.clipboard = &c
	return nil
}

// PasteObject adds the clipboard object at its original position under a
// fresh name "<source>_copy<N>".
func (d *Document) PasteObject() (string, error) {
	if d.clipboard == nil {
		return "", ErrEmptyClipboard
	}

	o := *d.clipboard
	for {
		d.pasted++
		o.Name = fmt.Sprintf("%s_copy%d", d.clipboard.Name, d.pasted)
		if _, taken := d.objects[o.Name]; !taken {
			break
		}
	}

	if err := d.Add(o); err != nil {
		return "", err
	}
	return o.Name, nil
}

func (d *Document) MoveObject(dx, dy float64, name string) error {
	o, ok := d.objects[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrObjectNotFound, name)
	}
	moved := *o
	moved.X += dx
	moved.Y += dy
	if p := d.PageOf(moved); p < 1 || p > d.Pages {
		return fmt.Errorf("%w: %s would move to page %d of %d", ErrInvalidPage, name, p, d.Pages)
	}
	o.X, o.Y = moved.X, moved.Y
	return nil
}

// =============================================================================
// host.Inspector and host.PageDeleter
// =============================================================================

func (d *Document) PageCount() int {
	return d.Pages
}

// ObjectNames returns object names in insertion order.
func (d *Document) ObjectNames() []string {
	return append([]string(nil), d.order...)
}

func (d *Document) ObjectPosition(name string) (float64, float64, error) {
	o, ok := d.objects[name]
	if !ok {
		return 0, 0, fmt.Errorf("%w: %s", ErrObjectNotFound, name)
	}
	return o.X, o.Y, nil
}

// DeletePage removes a page with its objects and moves later pages up. The
// last remaining page cannot be deleted.
func (d *Document) DeletePage(page int) error {
	if page < 1 || page > d.Pages || d.Pages == 1 {
		return fmt.Errorf("%w: cannot delete page %d of %d", ErrInvalidPage, page, d.Pages)
	}

	kept := d.order[:0]
	for _, name := range d.order {
		o := d.objects[name]
		switch p := d.PageOf(*o); {
		case p == page:
			delete(d.objects, name)
			continue
		case p > page:
			o.Y -= d.PageHeight
		}
		kept = append(kept, name)
	}
	d.order = kept
	d.Pages--
	return nil
}

func (d *Document) text(name string) (*Object, error) {
	o, ok := d.objects[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrObjectNotFound, name)
	}
	if o.Kind != KindText {
		return nil, fmt.Errorf("%w: %s", ErrNotText, name)
	}
	return o, nil
}
