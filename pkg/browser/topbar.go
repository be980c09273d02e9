package browser

import (
	"github.com/mattn/go-runewidth"

	"github.com/ingobeans/toad/pkg/css"
	"github.com/ingobeans/toad/pkg/render"
)

// ChromeRows is the height of the top bar: the tab row, the
// navigation row, and a separator.
const ChromeRows = 3

const (
	backLabel    = "[←]"
	forwardLabel = "[→]"
	refreshLabel = "[↻]"
)

type span struct {
	x0, x1 int // [x0, x1)
}

func (s span) contains(x int) bool { return x >= s.x0 && x < s.x1 }

// topbar draws the chrome rows and remembers the click regions it
// drew, so mouse hits resolve against what is actually on screen.
type topbar struct {
	tabs    []span
	back    span
	forward span
	refresh span
	address span
}

type hitKind int

const (
	hitNone hitKind = iota
	hitTab
	hitBack
	hitForward
	hitRefresh
	hitAddress
)

// Hit resolves a click in the chrome rows. index is only meaningful
// for hitTab.
func (tb *topbar) Hit(x, y int) (hitKind, int) {
	switch y {
	case 0:
		for i, s := range tb.tabs {
			if s.contains(x) {
				return hitTab, i
			}
		}
	case 1:
		switch {
		case tb.back.contains(x):
			return hitBack, 0
		case tb.forward.contains(x):
			return hitForward, 0
		case tb.refresh.contains(x):
			return hitRefresh, 0
		case tb.address.contains(x):
			return hitAddress, 0
		}
	}
	return hitNone, 0
}

// Draw paints the chrome onto the buffer's top rows. mouseX and
// mouseY highlight the hovered button or tab.
func (tb *topbar) Draw(buf *render.Buffer, tabs *Tabs, theme Theme, mouseX, mouseY int) {
	w := buf.Width()
	buf.DrawRect(0, 0, w, ChromeRows-1, theme.UI)
	buf.DrawRect(0, ChromeRows-1, w, 1, theme.Background)

	tb.drawTabs(buf, tabs, theme, mouseX, mouseY)
	tb.drawNav(buf, tabs, theme, mouseX, mouseY)
}

// drawTabs lays the tab captions across row 0. Every tab gets an
// equal share of the row; captions longer than their share are
// truncated with the closing bracket kept.
func (tb *topbar) drawTabs(buf *render.Buffer, tabs *Tabs, theme Theme, mouseX, mouseY int) {
	w := buf.Width()
	tb.tabs = tb.tabs[:0]

	share := w / len(tabs.List)
	if share < 4 {
		share = 4
	}
	x := 0
	for i, tab := range tabs.List {
		if x >= w {
			tb.tabs = append(tb.tabs, span{x, x})
			continue
		}
		caption := "[" + tab.Current().DisplayTitle() + "]"
		if runewidth.StringWidth(caption) > share {
			caption = runewidth.Truncate(caption, share-1, "") + "]"
		}
		style := css.Style{}
		if i == tabs.Active {
			style.Background = css.Specified(theme.Interactive)
		} else if mouseY == 0 && mouseX >= x && mouseX < x+runewidth.StringWidth(caption) {
			style.Background = css.Specified(theme.Background)
		}
		buf.DrawString(x, 0, caption, style, -1)
		end := x + runewidth.StringWidth(caption)
		tb.tabs = append(tb.tabs, span{x, end})
		x = end + 1
	}
}

// drawNav draws the history buttons and the address bar on row 1.
func (tb *topbar) drawNav(buf *render.Buffer, tabs *Tabs, theme Theme, mouseX, mouseY int) {
	w := buf.Width()
	tab := tabs.ActiveTab()

	x := 0
	draw := func(label string, enabled bool) span {
		style := css.Style{}
		if !enabled {
			style.Italics = true
		}
		if mouseY == 1 && enabled && mouseX >= x && mouseX < x+runewidth.StringWidth(label) {
			style.Background = css.Specified(theme.Interactive)
		}
		buf.DrawString(x, 1, label, style, -1)
		s := span{x, x + runewidth.StringWidth(label)}
		x = s.x1
		return s
	}

	tb.back = draw(backLabel, len(tab.History) > 1)
	tb.forward = draw(forwardLabel, len(tab.Future) > 0)
	x++
	tb.refresh = draw(refreshLabel, true)
	x++

	tb.address = span{x, w}
	url := tab.Current().URL
	avail := w - x
	if avail > 0 {
		style := css.Style{Background: css.Specified(theme.Background)}
		buf.DrawString(x, 1, runewidth.FillRight(runewidth.Truncate(url, avail, ""), avail), style, -1)
	}
}
