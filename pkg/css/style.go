package css

// One abstract "pixel" unit maps to a fraction of a terminal cell.
// EM is pixels per cell horizontally, LH pixels per cell vertically.
// These constants are the only bridge between layout's pixel space and
// the character grid.
const (
	EM uint16 = 8
	LH uint16 = 16
)

type TextAlignment int

const (
	AlignLeft TextAlignment = iota
	AlignCentre
	AlignRight
)

type Display int

const (
	DisplayInline Display = iota
	DisplayBlock
	DisplayNone
)

// TextPrefix marks list contexts: items inside <ul> get a bullet,
// items inside <ol> get a number.
type TextPrefix int

const (
	PrefixDot TextPrefix = iota
	PrefixNumber
)

type MeasurementKind int

const (
	MeasurePixels MeasurementKind = iota
	MeasurePercentWidth
	MeasurePercentHeight
	MeasureFitContentWidth
	MeasureFitContentHeight
)

// Measurement is a size as written in a stylesheet: absolute pixels, a
// fraction of the parent's width or height, or fit-content. Resolution
// to actual pixels happens during layout.
type Measurement struct {
	Kind     MeasurementKind
	Pixels   uint16
	Fraction float32
}

func Px(v uint16) Measurement       { return Measurement{Kind: MeasurePixels, Pixels: v} }
func PercentW(f float32) Measurement { return Measurement{Kind: MeasurePercentWidth, Fraction: f} }
func PercentH(f float32) Measurement { return Measurement{Kind: MeasurePercentHeight, Fraction: f} }
func FitContentW() Measurement       { return Measurement{Kind: MeasureFitContentWidth} }
func FitContentH() Measurement       { return Measurement{Kind: MeasureFitContentHeight} }

// Opt is a value that may be unset. Used for the inherited style
// fields, which automatically take the parent's value when unset.
type Opt[T any] struct {
	value T
	ok    bool
}

func Some[T any](v T) Opt[T] { return Opt[T]{value: v, ok: true} }

func (o Opt[T]) Get() (T, bool) { return o.value, o.ok }

func (o Opt[T]) IsSet() bool { return o.ok }

// Or returns the contained value, or fallback when unset.
func (o Opt[T]) Or(fallback T) T {
	if o.ok {
		return o.value
	}
	return fallback
}

// or returns o when set, otherwise other.
func (o Opt[T]) or(other Opt[T]) Opt[T] {
	if o.ok {
		return o
	}
	return other
}

type fieldState int

const (
	fieldUnset fieldState = iota
	fieldInherit
	fieldSpecified
)

// Field is the tri-state value for style properties that are not
// inherited by default: unset, explicitly "inherit", or specified.
type Field[T any] struct {
	state fieldState
	value T
}

func Specified[T any](v T) Field[T] { return Field[T]{state: fieldSpecified, value: v} }

func Inherit[T any]() Field[T] { return Field[T]{state: fieldInherit} }

func (f Field[T]) IsSpecified() bool { return f.state == fieldSpecified }

func (f Field[T]) IsUnset() bool { return f.state == fieldUnset }

// Get returns the specified value, if any.
func (f Field[T]) Get() (T, bool) {
	if f.state == fieldSpecified {
		return f.value, true
	}
	var zero T
	return zero, false
}

// Or returns the specified value, or fallback when unset or inheriting.
func (f Field[T]) Or(fallback T) T {
	if f.state == fieldSpecified {
		return f.value
	}
	return fallback
}

// setOr returns f unless it is unset, in which case it returns other.
func (f Field[T]) setOr(other Field[T]) Field[T] {
	if f.state == fieldUnset {
		return other
	}
	return f
}

// InheritFrom replaces an "inherit" state with the parent's field.
func (f *Field[T]) InheritFrom(parent Field[T]) {
	if f.state == fieldInherit {
		*f = parent
	}
}

// Style is the property record every element carries. The first group
// of fields is inherited (unset means "take the parent's value"); the
// Field values are non-inherited tri-states.
type Style struct {
	TextAlign         Opt[TextAlignment]
	Foreground        Opt[Color]
	TextPrefix        Opt[TextPrefix]
	Bold              bool
	Italics           bool
	RespectWhitespace bool

	Background Field[Color]
	Display    Field[Display]
	Width      Field[Measurement]
	Height     Field[Measurement]
}

// MergeInherit overlays other's inherited fields onto s. Fields set in
// other win; boolean attributes accumulate.
func (s *Style) MergeInherit(other Style) {
	s.TextAlign = other.TextAlign.or(s.TextAlign)
	s.Foreground = other.Foreground.or(s.Foreground)
	s.TextPrefix = other.TextPrefix.or(s.TextPrefix)
	s.Bold = s.Bold || other.Bold
	s.Italics = s.Italics || other.Italics
	s.RespectWhitespace = s.RespectWhitespace || other.RespectWhitespace
}

// MergeAll overlays every field of other onto s, inherited and
// non-inherited alike. Fields left unset in other keep s's value.
func (s *Style) MergeAll(other Style) {
	s.MergeInherit(other)
	s.Display = other.Display.setOr(s.Display)
	s.Height = other.Height.setOr(s.Height)
	s.Width = other.Width.setOr(s.Width)
	s.Background = other.Background.setOr(s.Background)
}

// ResolveInherit replaces any non-inherited field in the "inherit"
// state with the parent's value. Must run after all merges.
func (s *Style) ResolveInherit(parent Style) {
	s.Background.InheritFrom(parent.Background)
	s.Width.InheritFrom(parent.Width)
	s.Height.InheritFrom(parent.Height)
	s.Display.InheritFrom(parent.Display)
}
