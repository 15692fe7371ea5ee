// Package host defines the document-editing capabilities the tag writer
// drives. A desktop publishing session, the in-memory document and test
// fakes all implement Host.
package host

// Alignment is a paragraph alignment code.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
	AlignJustify
)

func (a Alignment) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	case AlignJustify:
		return "justify"
	default:
		return "unknown"
	}
}

// AppendPage is the NewPage position that adds a page after the last one.
const AppendPage = -1

// Host is the set of document operations used to fill tags. Objects are
// addressed by name; positions and distances are in centimetres.
type Host interface {
	ObjectExists(name string) bool

	SetText(text, name string) error
	SetFontSize(points float64, name string) error
	SetFont(font, name string) error
	SetTextAlignment(align Alignment, name string) error
	DeleteText(name string) error

	// NewPage inserts a page at position (1-indexed) or appends with
	// AppendPage.
	NewPage(position int) error

	// CopyObject places a copy of the named object on the clipboard.
	CopyObject(name string) error

	// PasteObject creates a new object from the clipboard and returns its
	// name.
	PasteObject() (string, error)

	// MoveObject moves the named object by (dx, dy).
	MoveObject(dx, dy float64, name string) error
}

// Inspector is implemented by hosts that can report what a document already
// holds. Refilling a saved multi-page sheet uses it to find the clones of an
// earlier run.
type Inspector interface {
	PageCount() int
	ObjectNames() []string

	// ObjectPosition returns the top-left corner of the named object.
	ObjectPosition(name string) (x, y float64, err error)
}

// PageDeleter is implemented by hosts that can remove pages.
type PageDeleter interface {
	// DeletePage removes a page (1-indexed) and every object on it.
	DeletePage(page int) error
}
