package render

import (
	"image"
	"image/color"
	"testing"

	"github.com/ingobeans/toad/pkg/css"
)

var (
	testText   = css.Color{R: 0, G: 0, B: 0}
	testBg     = css.Color{R: 255, G: 255, B: 255}
	testAccent = css.Color{R: 129, G: 154, B: 255}
)

func newTestBuffer(w, h int) *Buffer {
	return NewBuffer(w, h, testText, testBg, testAccent)
}

func TestBuffer_NewIsBlank(t *testing.T) {
	b := newTestBuffer(4, 2)
	for y := 0; y < 2; y++ {
		for x := 0; x < 4; x++ {
			c := b.CellAt(x, y)
			if c.Ch != ' ' || c.Bg != testBg {
				t.Errorf("cell (%d,%d) = %+v, want blank", x, y, c)
			}
			if b.InteractableAt(x, y) != -1 {
				t.Errorf("cell (%d,%d) tagged interactable", x, y)
			}
		}
	}
}

func TestBuffer_DrawString(t *testing.T) {
	b := newTestBuffer(10, 2)
	style := css.Style{Bold: true}
	b.DrawString(2, 1, "hi", style, 3)

	c := b.CellAt(2, 1)
	if c.Ch != 'h' || !c.Bold {
		t.Errorf("cell = %+v, want bold 'h'", c)
	}
	if c.Fg != testText {
		t.Errorf("foreground = %v, want default text color", c.Fg)
	}
	if got := b.InteractableAt(3, 1); got != 3 {
		t.Errorf("interactable = %d, want 3", got)
	}
	if got := b.InteractableAt(4, 1); got != -1 {
		t.Errorf("cell past text tagged %d", got)
	}
}

func TestBuffer_DrawStringWideRunes(t *testing.T) {
	b := newTestBuffer(10, 1)
	b.DrawString(0, 0, "あx", css.Style{}, 7)

	if c := b.CellAt(0, 0); c.Ch != 'あ' {
		t.Errorf("cell 0 = %q", c.Ch)
	}
	// second half of the wide glyph is a styled space
	if c := b.CellAt(1, 0); c.Ch != ' ' {
		t.Errorf("cell 1 = %q, want space", c.Ch)
	}
	if c := b.CellAt(2, 0); c.Ch != 'x' {
		t.Errorf("cell 2 = %q, want 'x'", c.Ch)
	}
	for x := 0; x < 3; x++ {
		if got := b.InteractableAt(x, 0); got != 7 {
			t.Errorf("interactable at %d = %d, want 7", x, got)
		}
	}
}

func TestBuffer_DrawStringClipsRight(t *testing.T) {
	b := newTestBuffer(3, 1)
	b.DrawString(1, 0, "abcdef", css.Style{}, -1)
	if c := b.CellAt(2, 0); c.Ch != 'b' {
		t.Errorf("last cell = %q, want 'b'", c.Ch)
	}
}

func TestBuffer_DrawRect(t *testing.T) {
	b := newTestBuffer(5, 5)
	red := css.Color{R: 255}
	b.DrawRect(1, 1, 2, 2, red)

	if c := b.CellAt(1, 1); c.Bg != red {
		t.Errorf("inside rect bg = %v", c.Bg)
	}
	if c := b.CellAt(3, 3); c.Bg != testBg {
		t.Errorf("outside rect bg = %v", c.Bg)
	}
	// clipping, no panic
	b.DrawRect(4, 4, 10, 10, red)
	if c := b.CellAt(4, 4); c.Bg != red {
		t.Errorf("clipped rect corner bg = %v", c.Bg)
	}
}

func TestBuffer_ClearColorDropsInteractables(t *testing.T) {
	b := newTestBuffer(4, 1)
	b.DrawString(0, 0, "link", css.Style{}, 2)
	b.ClearColor(css.Color{R: 10, G: 20, B: 30})
	if got := b.InteractableAt(0, 0); got != -1 {
		t.Errorf("interactable survived clear: %d", got)
	}
	if c := b.CellAt(0, 0); c.Bg != (css.Color{R: 10, G: 20, B: 30}) {
		t.Errorf("bg = %v", c.Bg)
	}
}

func TestBuffer_DrawImageRow(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	img.SetNRGBA(0, 1, color.NRGBA{G: 255, A: 255})
	// column 1 fully transparent

	b := newTestBuffer(4, 1)
	b.DrawImageRow(0, 0, 0, img)

	c := b.CellAt(0, 0)
	if c.Ch != '▀' {
		t.Fatalf("glyph = %q, want upper half block", c.Ch)
	}
	if c.Fg != (css.Color{R: 255}) || c.Bg != (css.Color{G: 255}) {
		t.Errorf("fg/bg = %v/%v", c.Fg, c.Bg)
	}
	// transparent pixels keep the existing background
	c = b.CellAt(1, 0)
	if c.Fg != testBg || c.Bg != testBg {
		t.Errorf("transparent column fg/bg = %v/%v, want background", c.Fg, c.Bg)
	}
}

func TestBuffer_DrawInputRow(t *testing.T) {
	b := newTestBuffer(10, 3)
	for row := 0; row < 3; row++ {
		b.DrawInputRow(0, row, row, 6, 3, "hey", false, 5)
	}

	if c := b.CellAt(0, 0); c.Ch != '╔' {
		t.Errorf("top left = %q", c.Ch)
	}
	if c := b.CellAt(5, 0); c.Ch != '╗' {
		t.Errorf("top right = %q", c.Ch)
	}
	if c := b.CellAt(0, 1); c.Ch != '║' {
		t.Errorf("left border = %q", c.Ch)
	}
	if c := b.CellAt(1, 1); c.Ch != 'h' {
		t.Errorf("content = %q", c.Ch)
	}
	if c := b.CellAt(5, 2); c.Ch != '╝' {
		t.Errorf("bottom right = %q", c.Ch)
	}
	if got := b.InteractableAt(3, 1); got != 5 {
		t.Errorf("interactable = %d, want 5", got)
	}
}

func TestBuffer_DrawInputRowHovered(t *testing.T) {
	b := newTestBuffer(10, 3)
	b.DrawInputRow(0, 1, 1, 6, 3, "", true, 0)
	if c := b.CellAt(2, 1); c.Bg != testAccent {
		t.Errorf("hovered bg = %v, want accent", c.Bg)
	}
}
