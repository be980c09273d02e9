package render

import (
	"image"
	"image/color"
	"testing"

	"github.com/ingobeans/toad/pkg/css"
	"github.com/ingobeans/toad/pkg/layout"
)

func TestRasterize_ClearAndRect(t *testing.T) {
	red := css.Color{R: 255}
	blue := css.Color{B: 255}
	d := &layout.DrawData{
		Calls: []layout.DrawCall{
			{Kind: layout.CallClearColor, Color: blue, Interactable: -1},
			{
				Kind: layout.CallRect,
				X:    2 * css.EM, Y: 1 * css.LH,
				W: layout.ActualPx(3 * css.EM), H: layout.ActualPx(2 * css.LH),
				Color:        red,
				Interactable: -1,
			},
		},
	}
	b := newTestBuffer(10, 5)
	Rasterize(b, d, Options{Selected: -1})

	if c := b.CellAt(0, 0); c.Bg != blue {
		t.Errorf("cleared bg = %v", c.Bg)
	}
	if c := b.CellAt(2, 1); c.Bg != red {
		t.Errorf("rect bg = %v", c.Bg)
	}
	if c := b.CellAt(5, 1); c.Bg != blue {
		t.Errorf("right of rect bg = %v", c.Bg)
	}
}

func TestRasterize_ScrollClipsRect(t *testing.T) {
	red := css.Color{R: 255}
	d := &layout.DrawData{
		Calls: []layout.DrawCall{{
			Kind: layout.CallRect,
			X:    0, Y: 2 * css.LH,
			W: layout.ActualPx(2 * css.EM), H: layout.ActualPx(3 * css.LH),
			Color:        red,
			Interactable: -1,
		}},
	}
	b := newTestBuffer(10, 5)
	Rasterize(b, d, Options{ScrollY: 3, Selected: -1})

	// rect spans page rows 2..4; scrolled by 3 leaves rows 3..4 on
	// screen rows 0..1
	if c := b.CellAt(0, 0); c.Bg != red {
		t.Errorf("clipped rect top bg = %v", c.Bg)
	}
	if c := b.CellAt(0, 1); c.Bg != red {
		t.Errorf("clipped rect bottom bg = %v", c.Bg)
	}
	if c := b.CellAt(0, 2); c.Bg == red {
		t.Error("rect painted past its clipped height")
	}
}

func TestRasterize_ScrolledOffTextSkipped(t *testing.T) {
	d := &layout.DrawData{
		Calls: []layout.DrawCall{{
			Kind: layout.CallText,
			X:    0, Y: 0,
			Text:         "gone",
			ParentWidth:  layout.ActualPx(10 * css.EM),
			Interactable: -1,
		}},
	}
	b := newTestBuffer(10, 5)
	Rasterize(b, d, Options{ScrollY: 2, Selected: -1})
	if c := b.CellAt(0, 0); c.Ch != ' ' {
		t.Errorf("scrolled-off text drawn: %q", c.Ch)
	}
}

func TestRasterize_TextCentred(t *testing.T) {
	style := css.Style{TextAlign: css.Some(css.AlignCentre)}
	d := &layout.DrawData{
		Calls: []layout.DrawCall{{
			Kind: layout.CallText,
			X:    0, Y: 0,
			Text:         "hi",
			Style:        style,
			ParentWidth:  layout.ActualPx(10 * css.EM),
			Interactable: -1,
		}},
	}
	b := newTestBuffer(10, 2)
	Rasterize(b, d, Options{Selected: -1})

	// (10-0)/2 - 2/2 = 4
	if c := b.CellAt(4, 0); c.Ch != 'h' {
		t.Errorf("cell 4 = %q, want centred text", c.Ch)
	}
}

func TestRasterize_TextRightAligned(t *testing.T) {
	style := css.Style{TextAlign: css.Some(css.AlignRight)}
	d := &layout.DrawData{
		Calls: []layout.DrawCall{{
			Kind: layout.CallText,
			X:    0, Y: 0,
			Text:         "end",
			Style:        style,
			ParentWidth:  layout.ActualPx(10 * css.EM),
			Interactable: -1,
		}},
	}
	b := newTestBuffer(10, 1)
	Rasterize(b, d, Options{Selected: -1})

	if c := b.CellAt(7, 0); c.Ch != 'e' {
		t.Errorf("cell 7 = %q, want right-aligned text", c.Ch)
	}
	if c := b.CellAt(9, 0); c.Ch != 'd' {
		t.Errorf("cell 9 = %q", c.Ch)
	}
}

func TestRasterize_SelectedLinkHighlighted(t *testing.T) {
	d := &layout.DrawData{
		Calls: []layout.DrawCall{{
			Kind: layout.CallText,
			X:    0, Y: 0,
			Text:         "click",
			ParentWidth:  layout.ActualPx(20 * css.EM),
			Interactable: 0,
		}},
		Interactables: []layout.Interactable{{Kind: layout.InteractLink, Href: "/x"}},
	}
	b := newTestBuffer(20, 1)
	got := Rasterize(b, d, Options{Selected: 0})

	if got != 0 {
		t.Errorf("selected = %d, want 0", got)
	}
	if c := b.CellAt(0, 0); c.Bg != testAccent {
		t.Errorf("selected link bg = %v, want accent", c.Bg)
	}
	if b.InteractableAt(2, 0) != 0 {
		t.Error("link cells not tagged")
	}
}

func TestRasterize_InputRecordsScreenPosition(t *testing.T) {
	d := &layout.DrawData{
		Calls: []layout.DrawCall{{
			Kind: layout.CallInput,
			X:    1 * css.EM, Y: 4 * css.LH,
			W: layout.ActualPx(8 * css.EM), H: layout.ActualPx(3 * css.LH),
			Text:         "name",
			Interactable: 0,
		}},
		Interactables: []layout.Interactable{{Kind: layout.InteractInputText, Name: "q", Width: 6}},
		Forms:         []layout.Form{{Method: "GET", TextFields: map[string]string{}}},
	}
	b := newTestBuffer(20, 10)
	Rasterize(b, d, Options{ScrollY: 2, Selected: -1})

	it := d.Interactables[0]
	if !it.OnScreen {
		t.Fatal("input not marked on screen")
	}
	if it.ScreenX != 1 || it.ScreenY != 2 {
		t.Errorf("screen position = (%d,%d), want (1,2)", it.ScreenX, it.ScreenY)
	}
	if c := b.CellAt(1, 2); c.Ch != '╔' {
		t.Errorf("input corner = %q", c.Ch)
	}
}

func TestRasterize_InputShowsFormValue(t *testing.T) {
	d := &layout.DrawData{
		Calls: []layout.DrawCall{{
			Kind: layout.CallInput,
			X:    0, Y: 0,
			W: layout.ActualPx(10 * css.EM), H: layout.ActualPx(3 * css.LH),
			Text:         "placeholder",
			Interactable: 0,
		}},
		Interactables: []layout.Interactable{{Kind: layout.InteractInputText, Name: "q", Width: 8}},
		Forms:         []layout.Form{{Method: "GET", TextFields: map[string]string{"q": "typed"}}},
	}
	b := newTestBuffer(20, 5)
	Rasterize(b, d, Options{Selected: -1})

	if c := b.CellAt(1, 1); c.Ch != 't' {
		t.Errorf("content = %q, want the typed value", c.Ch)
	}
}

func TestRasterize_ImageScrollOffset(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 1, 4))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	img.SetNRGBA(0, 1, color.NRGBA{R: 255, A: 255})
	img.SetNRGBA(0, 2, color.NRGBA{G: 255, A: 255})
	img.SetNRGBA(0, 3, color.NRGBA{G: 255, A: 255})

	d := &layout.DrawData{
		Calls: []layout.DrawCall{{
			Kind: layout.CallImage,
			X:    0, Y: 0,
			W: layout.ActualPx(1 * css.EM), H: layout.ActualPx(2 * css.LH),
			Source:       "a.png",
			Interactable: -1,
		}},
	}
	b := newTestBuffer(5, 5)
	Rasterize(b, d, Options{
		ScrollY:  1,
		Selected: -1,
		Image: func(string, uint16, uint16) image.Image {
			return img
		},
	})

	// the first cell row is scrolled away; row 0 on screen shows
	// source rows 2 and 3
	c := b.CellAt(0, 0)
	if c.Fg != (css.Color{G: 255}) || c.Bg != (css.Color{G: 255}) {
		t.Errorf("offset image row fg/bg = %v/%v", c.Fg, c.Bg)
	}
}

func TestRasterize_ScrollbarOnlyWhenOverflowing(t *testing.T) {
	short := &layout.DrawData{ContentHeight: 3 * css.LH}
	b := newTestBuffer(10, 5)
	Rasterize(b, short, Options{Selected: -1})
	if c := b.CellAt(9, 0); c.Bg != testBg {
		t.Error("scrollbar drawn for short content")
	}

	long := &layout.DrawData{ContentHeight: 40 * css.LH}
	b = newTestBuffer(10, 5)
	Rasterize(b, long, Options{Selected: -1})
	found := false
	for y := 0; y < 5; y++ {
		if b.CellAt(9, y).Bg == testText {
			found = true
		}
	}
	if !found {
		t.Error("no scrollbar knob for overflowing content")
	}
}
