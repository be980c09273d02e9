package browser

import (
	"net/url"
	"testing"

	"github.com/ingobeans/toad/pkg/css"
	"github.com/ingobeans/toad/pkg/layout"
	"github.com/ingobeans/toad/pkg/render"
	"github.com/ingobeans/toad/pkg/term"
)

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parsing %q: %v", raw, err)
	}
	return u
}

func newTestBrowser(page *Webpage) *Browser {
	return &Browser{
		tabs: NewTabs(NewTab(page)),
		w:    20,
		h:    10,
	}
}

func fieldPage() *Webpage {
	return &Webpage{
		Hovered: -1,
		Draw: &layout.DrawData{
			Interactables: []layout.Interactable{{
				Kind:     layout.InteractInputText,
				Form:     0,
				Name:     "q",
				Width:    5,
				OnScreen: true,
			}},
			Forms: []layout.Form{{Method: "GET", TextFields: map[string]string{}}},
		},
	}
}

func TestHandleMouse_SeparatorRowIsChrome(t *testing.T) {
	page := fieldPage()
	b := newTestBrowser(page)
	b.prev = render.NewBuffer(b.w, b.h, css.Hex(0), css.Hex(0xFFFFFF), css.Hex(0x8080FF))
	// tagged cells both on the separator row and the first page row
	b.prev.DrawString(0, ChromeRows-1, "x", css.Style{}, 0)
	b.prev.DrawString(0, ChromeRows, "x", css.Style{}, 0)

	b.handleMouse(term.MouseEvent{Kind: term.MouseMove, X: 0, Y: ChromeRows - 1})
	if page.Hovered != -1 {
		t.Errorf("hover through the separator row, got %d", page.Hovered)
	}
	b.handleMouse(term.MouseEvent{Kind: term.MouseMove, X: 0, Y: ChromeRows})
	if page.Hovered != 0 {
		t.Errorf("first page row not hoverable, got %d", page.Hovered)
	}

	b.handleMouse(term.MouseEvent{Kind: term.MousePress, X: 0, Y: ChromeRows - 1})
	if b.input != nil {
		t.Error("click through the separator row activated a field")
	}
	b.handleMouse(term.MouseEvent{Kind: term.MousePress, X: 0, Y: ChromeRows})
	if b.input == nil {
		t.Error("click on the first page row did not open the field editor")
	}
}

func TestHandleKey_NewTabOpensOnSubmitOnly(t *testing.T) {
	b := newTestBrowser(&Webpage{Hovered: -1})
	b.topbar.address = span{4, 18}

	ctrlT := term.KeyEvent{Key: term.KeyRune, Rune: 't', Ctrl: true}
	b.handleKey(ctrlT)
	if b.input == nil || b.input.target != targetNewTab {
		t.Fatal("ctrl-t did not open the new-tab address box")
	}
	if len(b.tabs.List) != 1 {
		t.Fatalf("tab opened before submit, have %d", len(b.tabs.List))
	}

	b.handleKey(term.KeyEvent{Key: term.KeyEscape})
	if b.input != nil {
		t.Fatal("escape did not close the box")
	}
	if len(b.tabs.List) != 1 {
		t.Errorf("cancel left %d tabs", len(b.tabs.List))
	}

	b.handleKey(ctrlT)
	for _, r := range "toad://home" {
		b.handleKey(term.KeyEvent{Key: term.KeyRune, Rune: r})
	}
	b.handleKey(term.KeyEvent{Key: term.KeyEnter})
	if len(b.tabs.List) != 2 {
		t.Errorf("submit opened %d tabs, want 2", len(b.tabs.List))
	}
	if got := b.tabs.ActiveTab().Current().URL; got != "toad://home" {
		t.Errorf("new tab url = %q", got)
	}
}

func TestCycleHovered_FromNoSelection(t *testing.T) {
	page := &Webpage{
		Hovered: -1,
		Draw:    &layout.DrawData{Interactables: make([]layout.Interactable, 3)},
	}
	b := newTestBrowser(page)

	b.cycleHovered(page, -1)
	if page.Hovered != 2 {
		t.Errorf("left from none = %d, want the last", page.Hovered)
	}
	page.Hovered = -1
	b.cycleHovered(page, 1)
	if page.Hovered != 0 {
		t.Errorf("right from none = %d, want the first", page.Hovered)
	}
	b.cycleHovered(page, 1)
	if page.Hovered != 1 {
		t.Errorf("right again = %d", page.Hovered)
	}
}

func TestMaxScroll_ChromeOriginNotScrollable(t *testing.T) {
	b := newTestBrowser(&Webpage{Hovered: -1})
	page := &Webpage{Draw: &layout.DrawData{
		ContentHeight: (ChromeRows + 12) * css.LH,
	}}
	// last of the 12 content rows must reach the screen bottom exactly
	if got := b.maxScroll(page); got != 5 {
		t.Errorf("maxScroll = %d, want 5", got)
	}
	page.Draw.ContentHeight = (ChromeRows + 7) * css.LH
	if got := b.maxScroll(page); got != 0 {
		t.Errorf("maxScroll for a fitting page = %d", got)
	}
}

func TestInternalStatic_NoSettingsOffLoop(t *testing.T) {
	if _, ok := internalStatic(mustURL(t, "toad://home")); !ok {
		t.Error("home page not served")
	}
	if _, ok := internalStatic(mustURL(t, "toad://settings")); ok {
		t.Error("settings page served outside the event loop")
	}
	if _, ok := internalStatic(mustURL(t, "toad://set?theme=next")); ok {
		t.Error("settings mutation served outside the event loop")
	}
}
