package render

import (
	"image"

	"github.com/mattn/go-runewidth"

	"github.com/ingobeans/toad/pkg/css"
	"github.com/ingobeans/toad/pkg/layout"
)

// Options configures one rasterization pass.
type Options struct {
	// ScrollY is the page scroll offset in cells.
	ScrollY uint16
	// Selected is the interactable index the user has tabbed or moved
	// the mouse to, -1 for none. Matching text and inputs are drawn
	// highlighted.
	Selected int
	// ChromeRows is the number of rows the top bar occupies; the
	// scrollbar stays below it.
	ChromeRows int
	// Image resolves an image source to a bitmap already resized to
	// w cells by 2*h pixel rows. Nil (or a nil result) skips the call.
	Image func(source string, wCells, hCells uint16) image.Image
}

// Rasterize paints the frame's draw calls into the buffer, clipping
// each against the scroll window. Input fields record their on-screen
// position back into the interactables table. Returns the interactable
// that ended up selected, or -1.
func Rasterize(buf *Buffer, d *layout.DrawData, opts Options) int {
	selected := -1
	screenH := uint16(buf.Height())

	for _, call := range d.Calls {
		switch call.Kind {
		case layout.CallClearColor:
			buf.ClearColor(call.Color)

		case layout.CallRect:
			x := call.X / css.EM
			y := call.Y / css.LH
			w := d.Actualize(call.W) / css.EM
			h := d.Actualize(call.H) / css.LH
			y, h, _, visible := clipRows(y, h, opts.ScrollY, screenH)
			if !visible {
				continue
			}
			buf.DrawRect(int(x), int(y), int(w), int(h), call.Color)

		case layout.CallImage:
			x := call.X / css.EM
			y := call.Y / css.LH
			w := d.Actualize(call.W) / css.EM
			h := d.Actualize(call.H) / css.LH
			y, visH, srcOff, visible := clipRows(y, h, opts.ScrollY, screenH)
			if !visible || opts.Image == nil {
				continue
			}
			img := opts.Image(call.Source, w, h)
			if img == nil {
				continue
			}
			// two source rows per terminal row
			for i := uint16(0); i < visH; i++ {
				buf.DrawImageRow(int(x), int(y+i), int((i+srcOff)*2), img)
			}

		case layout.CallInput:
			x := call.X / css.EM
			y := call.Y / css.LH
			w := d.Actualize(call.W) / css.EM
			h := d.Actualize(call.H) / css.LH
			y, visH, srcOff, visible := clipRows(y, h, opts.ScrollY, screenH)
			if !visible {
				continue
			}
			it := &d.Interactables[call.Interactable]
			it.ScreenX, it.ScreenY = x, y
			it.OnScreen = true
			hovered := call.Interactable == opts.Selected
			if hovered {
				selected = call.Interactable
			}
			text := call.Text
			if it.Kind == layout.InteractInputText {
				if value, ok := d.Forms[it.Form].TextFields[it.Name]; ok {
					text = value
				}
			}
			for i := uint16(0); i < visH; i++ {
				buf.DrawInputRow(int(x), int(y+i), int(i+srcOff), int(w), int(h), text, hovered, call.Interactable)
			}

		case layout.CallText:
			style := call.Style
			if call.Interactable >= 0 && call.Interactable == opts.Selected {
				selected = call.Interactable
				style.Background = css.Specified(buf.accentColor)
			}
			x := call.X / css.EM
			y := call.Y / css.LH
			if y < opts.ScrollY {
				continue
			}
			y -= opts.ScrollY
			if y >= screenH {
				continue
			}
			parentW := d.Actualize(call.ParentWidth) / css.EM
			textLen := uint16(runewidth.StringWidth(call.Text))
			var offset uint16
			if align, ok := style.TextAlign.Get(); ok {
				switch align {
				case css.AlignCentre:
					if parentW > x+textLen {
						offset = (parentW-x)/2 - textLen/2
					}
				case css.AlignRight:
					if parentW > textLen {
						offset = parentW - textLen
					}
				}
			}
			buf.DrawString(int(x+offset), int(y), call.Text, style, call.Interactable)
		}
	}

	drawScrollbar(buf, d, opts)
	return selected
}

// clipRows clips a run of rows against the scroll window. Returns the
// on-screen start row, the visible height, how many source rows were
// cut off the top, and whether anything is visible at all.
func clipRows(y, h, scrollY, screenH uint16) (uint16, uint16, uint16, bool) {
	if y < scrollY {
		if y+h < scrollY {
			return 0, 0, 0, false
		}
		cut := scrollY - y
		return 0, h - cut, cut, true
	}
	y -= scrollY
	if y >= screenH {
		return 0, 0, 0, false
	}
	if y+h > screenH {
		h = screenH - y
	}
	return y, h, 0, true
}

// drawScrollbar plots a one-cell knob on the right edge, positioned
// proportionally to the scroll offset, when the content overflows the
// screen.
func drawScrollbar(buf *Buffer, d *layout.DrawData, opts Options) {
	screenH := uint16(buf.Height())
	if d.ContentHeight/css.LH <= screenH {
		return
	}
	pageRows := screenH - uint16(opts.ChromeRows)
	if pageRows == 0 || d.ContentHeight <= pageRows*css.LH {
		return
	}
	ratio := float32(opts.ScrollY*css.LH) / float32(d.ContentHeight-pageRows*css.LH)
	if ratio > 1 {
		ratio = 1
	}
	knob := ratio * float32(pageRows)
	if knob > float32(pageRows)-1 {
		knob = float32(pageRows) - 1
	}
	buf.SetPixel(buf.Width()-1, int(knob)+opts.ChromeRows, buf.textColor)
}
