package layout

import "github.com/ingobeans/toad/pkg/css"

type ActualKind int

const (
	// ActualPixels is a fully resolved size.
	ActualPixels ActualKind = iota
	// ActualPercentOfUnknown is a fraction of a deferred-table entry.
	ActualPercentOfUnknown
	// ActualWaiting points at a deferred-table entry not yet measured.
	ActualWaiting
)

// ActualMeasurement is a size during layout: either resolved pixels or
// a reference into the deferred-resolution table. By the time a frame
// is rasterized every table entry must be pixels.
type ActualMeasurement struct {
	Kind     ActualKind
	Pixels   uint16
	Index    int
	Fraction float32
}

func ActualPx(p uint16) ActualMeasurement {
	return ActualMeasurement{Kind: ActualPixels, Pixels: p}
}

func PercentOfUnknown(index int, fraction float32) ActualMeasurement {
	return ActualMeasurement{Kind: ActualPercentOfUnknown, Index: index, Fraction: fraction}
}

func Waiting(index int) ActualMeasurement {
	return ActualMeasurement{Kind: ActualWaiting, Index: index}
}

// GetPixels returns the resolved size, if this is already pixels.
func (a ActualMeasurement) GetPixels() (uint16, bool) {
	if a.Kind == ActualPixels {
		return a.Pixels, true
	}
	return 0, false
}

// Actualize resolves a measurement against the deferred table.
// PercentOfUnknown may chain through entries that are themselves
// resolvable; chains deeper than the table produce zero. A Waiting
// entry that never got filled in is a layout bug.
func Actualize(a ActualMeasurement, table []ActualMeasurement) uint16 {
	return actualize(a, table, len(table)+1)
}

func actualize(a ActualMeasurement, table []ActualMeasurement, depth int) uint16 {
	if depth < 0 {
		return 0
	}
	switch a.Kind {
	case ActualPixels:
		return a.Pixels
	case ActualPercentOfUnknown:
		return uint16(float32(actualize(table[a.Index], table, depth-1)) * a.Fraction)
	default:
		entry := table[a.Index]
		if entry.Kind != ActualPixels {
			panic("layout: unresolved Waiting measurement at render time")
		}
		return entry.Pixels
	}
}

type CallKind int

const (
	CallClearColor CallKind = iota
	CallRect
	CallImage
	CallInput
	CallText
)

// DrawCall is one atomic rendering instruction. X and Y are in pixels
// relative to the page origin; sizes may still reference the deferred
// table. Interactable is an index into DrawData.Interactables, -1 for
// none.
type DrawCall struct {
	Kind  CallKind
	X, Y  uint16
	W, H  ActualMeasurement
	Color css.Color
	// Source is the image URL for CallImage.
	Source string
	// Text is the line content for CallText, the placeholder for
	// CallInput.
	Text  string
	Style css.Style
	// ParentWidth is the containing width a CallText aligns within.
	ParentWidth  ActualMeasurement
	Interactable int
}

// Order is the paint layer: backgrounds first, text last. The sorter
// is stable, so calls within a layer keep their input order.
func (c DrawCall) Order() int {
	switch c.Kind {
	case CallClearColor:
		return 0
	case CallRect:
		return 1
	case CallImage:
		return 2
	case CallInput:
		return 3
	default:
		return 4
	}
}

type InteractableKind int

const (
	InteractLink InteractableKind = iota
	InteractInputText
	InteractInputSubmit
)

// Interactable is a clickable region: a link, a text field, or a
// submit control. Text fields record where they last rasterized so the
// modal input box can open over them.
type Interactable struct {
	Kind InteractableKind
	// Href is set for links.
	Href string
	// Form indexes DrawData.Forms for input kinds.
	Form int
	// Name is the form field name for text inputs.
	Name string
	// Width is the field's inner width in cells.
	Width uint16

	ScreenX, ScreenY uint16
	OnScreen         bool
}

// Form collects the text fields of one <form> for submission.
type Form struct {
	Action     string
	Method     string
	TextFields map[string]string
}

// DrawData is the output of a layout pass, cached per page until its
// style or content changes.
type DrawData struct {
	Calls         []DrawCall
	Unknown       []ActualMeasurement
	Interactables []Interactable
	Forms         []Form
	ContentWidth  uint16
	ContentHeight uint16
}

// Actualize resolves a measurement against this frame's deferred
// table.
func (d *DrawData) Actualize(a ActualMeasurement) uint16 {
	return Actualize(a, d.Unknown)
}
