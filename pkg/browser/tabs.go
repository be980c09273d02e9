package browser

import (
	"github.com/ingobeans/toad/pkg/css"
	"github.com/ingobeans/toad/pkg/html"
	"github.com/ingobeans/toad/pkg/layout"
)

// Webpage is the state of one loaded (or loading) page.
type Webpage struct {
	// ID ties async fetch results back to this page. Results carrying
	// an id that no longer resolves to a live page are dropped.
	ID    uint64
	URL   string
	Title string

	Root  *html.Element
	Debug *html.DebugInfo
	// Rules is the page's accumulated global stylesheet: inline
	// <style> blocks plus fetched linked sheets, in document order.
	Rules []css.Rule
	// ExtraCSS holds fetched linked stylesheets, appended as their
	// fetches complete.
	ExtraCSS []string

	ScrollY uint16
	// Hovered is the interactable index under the cursor, -1 none.
	Hovered int
	// Draw caches the layout pass; nil forces a relayout.
	Draw *layout.DrawData
	// Loading is set while the page body fetch is in flight.
	Loading bool
}

// DisplayTitle picks the tab caption: the <title> text, else the URL,
// else "unknown".
func (p *Webpage) DisplayTitle() string {
	if p.Title != "" {
		return p.Title
	}
	if p.URL != "" {
		return p.URL
	}
	return "unknown"
}

// Invalidate drops the cached layout.
func (p *Webpage) Invalidate() {
	p.Draw = nil
}

// Tab is a history stack plus a future stack. The current page is the
// top of History; going back moves it onto Future.
type Tab struct {
	History []*Webpage
	Future  []*Webpage
}

func NewTab(page *Webpage) *Tab {
	return &Tab{History: []*Webpage{page}}
}

// Current returns the visible page.
func (t *Tab) Current() *Webpage {
	return t.History[len(t.History)-1]
}

// Navigate pushes a new page and discards the future stack.
func (t *Tab) Navigate(page *Webpage) {
	t.History = append(t.History, page)
	t.Future = t.Future[:0]
}

// Back moves the current page onto the future stack. Reports whether
// there was anywhere to go.
func (t *Tab) Back() bool {
	if len(t.History) < 2 {
		return false
	}
	last := len(t.History) - 1
	t.Future = append(t.Future, t.History[last])
	t.History = t.History[:last]
	return true
}

// Forward undoes a Back.
func (t *Tab) Forward() bool {
	if len(t.Future) == 0 {
		return false
	}
	last := len(t.Future) - 1
	t.History = append(t.History, t.Future[last])
	t.Future = t.Future[:last]
	return true
}

// Tabs is the ordered tab list plus the active index.
type Tabs struct {
	List   []*Tab
	Active int
}

func NewTabs(first *Tab) *Tabs {
	return &Tabs{List: []*Tab{first}}
}

// ActiveTab returns the selected tab.
func (ts *Tabs) ActiveTab() *Tab {
	return ts.List[ts.Active]
}

// CurrentPage returns the visible page of the selected tab.
func (ts *Tabs) CurrentPage() *Webpage {
	return ts.ActiveTab().Current()
}

// Open appends a tab after the active one and selects it.
func (ts *Tabs) Open(tab *Tab) {
	at := ts.Active + 1
	ts.List = append(ts.List, nil)
	copy(ts.List[at+1:], ts.List[at:])
	ts.List[at] = tab
	ts.Active = at
}

// Next cycles the selection forward.
func (ts *Tabs) Next() {
	ts.Active = (ts.Active + 1) % len(ts.List)
}

// CloseActive removes the selected tab. Reports false when it was the
// last one, in which case the browser exits instead.
func (ts *Tabs) CloseActive() bool {
	if len(ts.List) == 1 {
		return false
	}
	ts.List = append(ts.List[:ts.Active], ts.List[ts.Active+1:]...)
	if ts.Active >= len(ts.List) {
		ts.Active = len(ts.List) - 1
	}
	return true
}

// FindPage resolves a page id to a live page in any tab's history or
// future stack. Late results for closed pages resolve to nil.
func (ts *Tabs) FindPage(id uint64) *Webpage {
	for _, tab := range ts.List {
		for _, page := range tab.History {
			if page.ID == id {
				return page
			}
		}
		for _, page := range tab.Future {
			if page.ID == id {
				return page
			}
		}
	}
	return nil
}
