package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Flush writes the difference between cur and prev to w as terminal
// escapes: cells identical to the previous frame are skipped, the
// cursor only moves when a changed cell isn't adjacent to the last
// write, and style codes are only emitted when the style changes.
// startX and startY offset the buffer's origin on the real screen.
// Identical buffers produce no output at all. A nil prev repaints
// everything.
func Flush(w io.Writer, cur, prev *Buffer, startX, startY int) error {
	var out strings.Builder
	// cursor position after the last write, -1 forces a move
	curX, curY := -1, -1
	var lastStyle Cell
	lastValid := false

	for y := 0; y < cur.h; y++ {
		for x := 0; x < cur.w; x++ {
			cell := cur.cells[x+y*cur.w]
			if prev != nil && cell == prev.cells[x+y*cur.w] {
				continue
			}
			if x != curX || y != curY {
				// rows and columns are 1-based on the wire
				fmt.Fprintf(&out, "\x1b[%d;%dH", y+startY+1, x+startX+1)
			}
			if !lastValid || !cell.SameStyle(lastStyle) {
				writeStyle(&out, cell, lastStyle, lastValid)
				lastStyle = cell
				lastValid = true
			}
			out.WriteRune(cell.Ch)
			width := runewidth.RuneWidth(cell.Ch)
			if width < 1 {
				width = 1
			}
			// the second cell of a wide glyph holds no glyph of
			// its own, skip it in both frames
			x += width - 1
			curX, curY = x+1, y
		}
	}

	if out.Len() == 0 {
		return nil
	}
	_, err := io.WriteString(w, out.String())
	return err
}

// writeStyle emits the SGR sequence switching from prev to next. Bold
// and italics have no clean "off" short of a full reset, so turning
// either off resets first and re-emits everything.
func writeStyle(out *strings.Builder, next, prev Cell, prevValid bool) {
	if prevValid && ((prev.Bold && !next.Bold) || (prev.Italics && !next.Italics)) {
		out.WriteString("\x1b[0m")
		prevValid = false
	}
	out.WriteString("\x1b[")
	sep := false
	attr := func(code string) {
		if sep {
			out.WriteByte(';')
		}
		out.WriteString(code)
		sep = true
	}
	if next.Bold && (!prevValid || !prev.Bold) {
		attr("1")
	}
	if next.Italics && (!prevValid || !prev.Italics) {
		attr("3")
	}
	if !prevValid || next.Fg != prev.Fg {
		attr(fmt.Sprintf("38;2;%d;%d;%d", next.Fg.R, next.Fg.G, next.Fg.B))
	}
	if !prevValid || next.Bg != prev.Bg {
		attr(fmt.Sprintf("48;2;%d;%d;%d", next.Bg.R, next.Bg.G, next.Bg.B))
	}
	out.WriteByte('m')
}
