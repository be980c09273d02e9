package render

import (
	"image"
	"image/color"

	"github.com/mattn/go-runewidth"

	"github.com/ingobeans/toad/pkg/css"
)

// Cell is one character position of the grid: a glyph plus its style.
type Cell struct {
	Ch      rune
	Fg, Bg  css.Color
	Bold    bool
	Italics bool
}

// SameStyle compares everything but the glyph.
func (c Cell) SameStyle(o Cell) bool {
	return c.Fg == o.Fg && c.Bg == o.Bg && c.Bold == o.Bold && c.Italics == o.Italics
}

// Buffer is a double-bufferable cell grid plus the parallel
// interactable map: for every cell, the index of the interactable
// covering it, or -1.
type Buffer struct {
	w, h  int
	cells []Cell
	inter []int

	// textColor is the fallback foreground for styles that leave it
	// unset; accentColor highlights hovered interactables.
	textColor   css.Color
	accentColor css.Color
	fill        Cell
}

// NewBuffer creates a cleared buffer. text and background become the
// default cell style; accent is the hover highlight.
func NewBuffer(w, h int, text, background, accent css.Color) *Buffer {
	b := &Buffer{
		w:           w,
		h:           h,
		cells:       make([]Cell, w*h),
		inter:       make([]int, w*h),
		textColor:   text,
		accentColor: accent,
		fill:        Cell{Ch: ' ', Fg: text, Bg: background},
	}
	for i := range b.cells {
		b.cells[i] = b.fill
		b.inter[i] = -1
	}
	return b
}

func (b *Buffer) Width() int  { return b.w }
func (b *Buffer) Height() int { return b.h }

// CellAt returns the cell at (x, y); out-of-range positions yield the
// fill cell.
func (b *Buffer) CellAt(x, y int) Cell {
	if x < 0 || y < 0 || x >= b.w || y >= b.h {
		return b.fill
	}
	return b.cells[x+y*b.w]
}

// InteractableAt returns the interactable index covering (x, y), or
// -1.
func (b *Buffer) InteractableAt(x, y int) int {
	if x < 0 || y < 0 || x >= b.w || y >= b.h {
		return -1
	}
	return b.inter[x+y*b.w]
}

// ClearColor repaints every cell with the given background and drops
// all interactable tags.
func (b *Buffer) ClearColor(c css.Color) {
	cell := b.fill
	cell.Bg = c
	for i := range b.cells {
		b.cells[i] = cell
		b.inter[i] = -1
	}
}

// DrawRect paints the background of the enclosed cells, clipped to the
// buffer.
func (b *Buffer) DrawRect(x, y, w, h int, c css.Color) {
	for i := 0; i < h; i++ {
		if y+i < 0 || y+i >= b.h {
			continue
		}
		for j := 0; j < w; j++ {
			if x+j < 0 || x+j >= b.w {
				continue
			}
			cell := &b.cells[x+j+(y+i)*b.w]
			cell.Ch = ' '
			cell.Bg = c
		}
	}
}

// SetPixel paints a single cell's background (the scrollbar knob).
func (b *Buffer) SetPixel(x, y int, c css.Color) {
	if x < 0 || y < 0 || x >= b.w || y >= b.h {
		return
	}
	cell := b.fill
	cell.Bg = c
	b.cells[x+y*b.w] = cell
}

func (b *Buffer) applyStyle(cell *Cell, style css.Style) {
	cell.Fg = style.Foreground.Or(b.textColor)
	if bg, ok := style.Background.Get(); ok {
		cell.Bg = bg
	}
	cell.Bold = style.Bold
	cell.Italics = style.Italics
}

// DrawString writes one line of text (newlines not permitted). Wide
// runes occupy two cells, the second a space of the same style. Cells
// written are tagged with the interactable index.
func (b *Buffer) DrawString(x, y int, text string, style css.Style, interactable int) {
	if y < 0 || y >= b.h {
		return
	}
	for _, ch := range text {
		if x >= b.w {
			break
		}
		width := runewidth.RuneWidth(ch)
		if x >= 0 {
			cell := &b.cells[x+y*b.w]
			cell.Ch = ch
			b.applyStyle(cell, style)
			b.inter[x+y*b.w] = interactable
			if width > 1 && x+1 < b.w {
				next := &b.cells[x+1+y*b.w]
				next.Ch = ' '
				b.applyStyle(next, style)
				b.inter[x+1+y*b.w] = interactable
			}
		}
		x += width
	}
}

// DrawImageRow renders two image rows into one terminal row using the
// upper-half-block glyph: the top pixel colors the foreground, the
// pixel below colors the background. Fully transparent pixels let the
// existing cell background through.
func (b *Buffer) DrawImageRow(x, y, row int, img image.Image) {
	if y < 0 || y >= b.h {
		return
	}
	bounds := img.Bounds()
	for col := 0; col < bounds.Dx(); col++ {
		if x+col < 0 || x+col >= b.w {
			continue
		}
		idx := x + col + y*b.w
		existing := b.cells[idx].Bg

		top := existing
		if c, opaque := pixelColor(img, col, row); opaque {
			top = c
		}
		bottom := existing
		if row+1 < bounds.Dy() {
			if c, opaque := pixelColor(img, col, row+1); opaque {
				bottom = c
			}
		}
		b.cells[idx] = Cell{Ch: '▀', Fg: top, Bg: bottom}
	}
}

func pixelColor(img image.Image, x, y int) (css.Color, bool) {
	bounds := img.Bounds()
	if y >= bounds.Dy() {
		return css.Color{}, false
	}
	c := color.NRGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
	if c.A == 0 {
		return css.Color{}, false
	}
	return css.Color{R: c.R, G: c.G, B: c.B}, true
}

const (
	boxTopLeft     = '╔'
	boxTopRight    = '╗'
	boxBottomLeft  = '╚'
	boxBottomRight = '╝'
	boxHorizontal  = '═'
	boxVertical    = '║'
)

// DrawInputRow draws row srcRow of a w-by-totalH input box at screen
// position (x, y): a double-line border with the field text on the
// first inner row. All covered cells are tagged with the interactable.
func (b *Buffer) DrawInputRow(x, y, srcRow, w, totalH int, text string, hovered bool, interactable int) {
	if y < 0 || y >= b.h || w < 2 {
		return
	}
	style := css.Style{}
	if hovered {
		style.Background = css.Specified(b.accentColor)
	}

	line := make([]rune, 0, w)
	switch srcRow {
	case 0:
		line = append(line, boxTopLeft)
		for i := 0; i < w-2; i++ {
			line = append(line, boxHorizontal)
		}
		line = append(line, boxTopRight)
	case totalH - 1:
		line = append(line, boxBottomLeft)
		for i := 0; i < w-2; i++ {
			line = append(line, boxHorizontal)
		}
		line = append(line, boxBottomRight)
	default:
		content := ""
		if srcRow == 1 {
			content = runewidth.Truncate(text, w-2, "")
		}
		line = append(line, boxVertical)
		line = append(line, []rune(runewidth.FillRight(content, w-2))...)
		line = append(line, boxVertical)
	}
	b.DrawString(x, y, string(line), style, interactable)
}
