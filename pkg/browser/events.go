package browser

import (
	"image"

	"github.com/mattn/go-runewidth"

	"github.com/ingobeans/toad/pkg/css"
	"github.com/ingobeans/toad/pkg/layout"
	"github.com/ingobeans/toad/pkg/render"
	"github.com/ingobeans/toad/pkg/resource"
	"github.com/ingobeans/toad/pkg/term"
)

// Run is the event loop. It owns every piece of browser state; the
// only other goroutines are the input reader and the fetches, both of
// which communicate over channels. Returns when the user quits or the
// terminal fails.
func (b *Browser) Run() error {
	events := b.term.ReadEvents()
	full := true
	for !b.quit {
		if err := b.draw(full); err != nil {
			return err
		}
		full = false

		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			b.handleEvent(ev)
		case <-b.term.Resized:
			b.resize()
			full = true
		case res := <-b.fetcher.Results:
			b.handleResult(res)
			// drain whatever else finished before redrawing
			for more := true; more; {
				select {
				case res := <-b.fetcher.Results:
					b.handleResult(res)
				default:
					more = false
				}
			}
		}
	}
	return nil
}

func (b *Browser) resize() {
	w, h, err := b.term.Size()
	if err != nil {
		return
	}
	b.w, b.h = w, h
	b.prev = nil
	b.input = nil
	for _, tab := range b.tabs.List {
		for _, page := range tab.History {
			page.Invalidate()
		}
		for _, page := range tab.Future {
			page.Invalidate()
		}
	}
}

func (b *Browser) handleEvent(ev term.Event) {
	switch ev := ev.(type) {
	case term.KeyEvent:
		b.handleKey(ev)
	case term.MouseEvent:
		b.handleMouse(ev)
	}
}

func (b *Browser) handleKey(ev term.KeyEvent) {
	if b.input != nil {
		b.input.Handle(ev)
		switch b.input.state {
		case inputSubmitted:
			box := b.input
			b.input = nil
			b.submitInput(box)
		case inputCancelled:
			b.input = nil
		}
		return
	}

	page := b.tabs.CurrentPage()
	tab := b.tabs.ActiveTab()
	switch {
	case ev.Key == term.KeyRune && !ev.Ctrl && ev.Rune == 'q':
		b.quit = true
	case ev.Key == term.KeyTab:
		b.tabs.Next()
	case ev.Key == term.KeyUp:
		b.scrollBy(page, -1)
	case ev.Key == term.KeyDown:
		b.scrollBy(page, 1)
	case ev.Key == term.KeyPageUp:
		b.scrollBy(page, -(b.h - ChromeRows))
	case ev.Key == term.KeyPageDown:
		b.scrollBy(page, b.h-ChromeRows)
	case ev.Key == term.KeyLeft && ev.Ctrl:
		tab.Back()
	case ev.Key == term.KeyRight && ev.Ctrl:
		tab.Forward()
	case ev.Key == term.KeyLeft:
		b.cycleHovered(page, -1)
	case ev.Key == term.KeyRight:
		b.cycleHovered(page, 1)
	case ev.Key == term.KeyEnter:
		if page.Hovered >= 0 {
			b.activate(page, page.Hovered, false)
		}
	case ev.Key == term.KeyRune && ev.Ctrl && ev.Rune == 'w':
		if !b.tabs.CloseActive() {
			b.quit = true
		}
	case ev.Key == term.KeyRune && ev.Ctrl && ev.Rune == 't':
		// the tab itself opens on submit, so cancelling leaves nothing
		b.openAddressBox(targetNewTab, "")
	case ev.Key == term.KeyRune && ev.Ctrl && ev.Rune == 'r':
		b.refreshPage(tab)
	case ev.Key == term.KeyF12:
		b.openDebugTab(page)
	}
}

func (b *Browser) handleMouse(ev term.MouseEvent) {
	b.mouseX, b.mouseY = ev.X, ev.Y
	page := b.tabs.CurrentPage()

	switch ev.Kind {
	case term.MouseScrollUp:
		b.scrollBy(page, -1)
	case term.MouseScrollDown:
		b.scrollBy(page, 1)
	case term.MouseMove:
		if b.prev != nil && ev.Y >= ChromeRows {
			page.Hovered = b.prev.InteractableAt(ev.X, ev.Y)
		}
	case term.MousePress:
		if b.input != nil {
			// clicking away cancels the modal editor
			b.input = nil
		}
		if ev.Y < ChromeRows {
			b.clickChrome(ev.X, ev.Y)
			return
		}
		if b.prev == nil {
			return
		}
		if idx := b.prev.InteractableAt(ev.X, ev.Y); idx >= 0 {
			b.activate(page, idx, ev.Ctrl)
		}
	}
}

func (b *Browser) clickChrome(x, y int) {
	tab := b.tabs.ActiveTab()
	kind, index := b.topbar.Hit(x, y)
	switch kind {
	case hitTab:
		if index < len(b.tabs.List) {
			b.tabs.Active = index
		}
	case hitBack:
		tab.Back()
	case hitForward:
		tab.Forward()
	case hitRefresh:
		b.refreshPage(tab)
	case hitAddress:
		b.openAddressBox(targetAddress, tab.Current().URL)
	}
}

func (b *Browser) scrollBy(page *Webpage, rows int) {
	b.ensureLayout(page)
	max := int(b.maxScroll(page))
	next := int(page.ScrollY) + rows
	if next < 0 {
		next = 0
	}
	if next > max {
		next = max
	}
	page.ScrollY = uint16(next)
}

func (b *Browser) cycleHovered(page *Webpage, dir int) {
	if page.Draw == nil || len(page.Draw.Interactables) == 0 {
		return
	}
	n := len(page.Draw.Interactables)
	if page.Hovered < 0 {
		if dir < 0 {
			page.Hovered = n - 1
		} else {
			page.Hovered = 0
		}
		return
	}
	page.Hovered = ((page.Hovered+dir)%n + n) % n
}

// activate triggers the interactable: follow a link, edit a text
// field, or submit a form.
func (b *Browser) activate(page *Webpage, idx int, newTab bool) {
	if page.Draw == nil || idx >= len(page.Draw.Interactables) {
		return
	}
	it := page.Draw.Interactables[idx]
	switch it.Kind {
	case layout.InteractLink:
		target, err := resource.Resolve(page.URL, it.Href)
		if err != nil {
			return
		}
		if newTab {
			b.openTab(target)
		} else {
			b.navigate(b.tabs.ActiveTab(), target)
		}
	case layout.InteractInputText:
		if !it.OnScreen {
			return
		}
		value := page.Draw.Forms[it.Form].TextFields[it.Name]
		b.input = newFieldBox(it.Form, it.Name, value,
			int(it.ScreenX)+1, int(it.ScreenY)+1, int(it.Width))
	case layout.InteractInputSubmit:
		form := page.Draw.Forms[it.Form]
		action, err := resource.Resolve(page.URL, orPage(form.Action, page.URL))
		if err != nil {
			return
		}
		next := b.newPage(action)
		b.tabs.ActiveTab().Navigate(next)
		b.fetcher.FetchForm(next.ID, action, form.Method, form.TextFields)
	}
}

func orPage(action, fallback string) string {
	if action == "" {
		return fallback
	}
	return action
}

func (b *Browser) openTab(rawURL string) {
	page := b.newPage(rawURL)
	b.tabs.Open(NewTab(page))
	b.startLoad(page, rawURL)
}

// refreshPage replaces the current page in place with a fresh load of
// the same URL.
func (b *Browser) refreshPage(tab *Tab) {
	current := tab.Current()
	page := b.newPage(current.URL)
	tab.History[len(tab.History)-1] = page
	b.startLoad(page, current.URL)
}

func (b *Browser) openDebugTab(page *Webpage) {
	debug := b.newPage("toad://debug")
	b.tabs.Open(NewTab(debug))
	b.integratePage(debug, parsedEntry(debugHTML(page), "toad://debug"))
}

// openAddressBox overlays the modal editor on the address bar.
func (b *Browser) openAddressBox(target inputTarget, initial string) {
	s := b.topbar.address
	width := s.x1 - s.x0
	if width <= 0 {
		return
	}
	b.input = newAddressBox(target, initial, s.x0, 1, width)
}

func (b *Browser) submitInput(box *InputBox) {
	switch box.target {
	case targetAddress:
		if u := normalizeURL(box.Text()); u != "" {
			b.navigate(b.tabs.ActiveTab(), u)
		}
	case targetNewTab:
		if u := normalizeURL(box.Text()); u != "" {
			b.openTab(u)
		}
	case targetFormField:
		page := b.tabs.CurrentPage()
		if page.Draw != nil && box.form < len(page.Draw.Forms) {
			page.Draw.Forms[box.form].TextFields[box.field] = box.Text()
		}
	}
}

// draw renders the whole screen: page, chrome, and the modal editor,
// then diff-flushes against the previous frame.
func (b *Browser) draw(full bool) error {
	page := b.tabs.CurrentPage()
	b.ensureLayout(page)
	theme := b.settings.Theme()

	buf := render.NewBuffer(b.w, b.h, theme.Text, theme.Background, theme.Interactive)
	if page.Draw != nil {
		for i := range page.Draw.Interactables {
			page.Draw.Interactables[i].OnScreen = false
		}
		var imgFn func(string, uint16, uint16) image.Image
		if b.settings.ImagesEnabled {
			imgFn = b.images.Get
		}
		render.Rasterize(buf, page.Draw, render.Options{
			ScrollY:    page.ScrollY,
			Selected:   page.Hovered,
			ChromeRows: ChromeRows,
			Image:      imgFn,
		})
	} else if page.Loading {
		buf.DrawString(0, ChromeRows, "loading "+page.URL, css.Style{Italics: true}, -1)
	}

	b.topbar.Draw(buf, b.tabs, theme, b.mouseX, b.mouseY)
	if b.input != nil {
		b.drawInput(buf, theme)
	}

	prev := b.prev
	if full {
		prev = nil
	}
	if err := render.Flush(b.term, buf, prev, 0, 0); err != nil {
		return err
	}
	b.prev = buf

	if b.input != nil {
		b.term.ShowCursorAt(b.input.screenX+b.cursorColumn(), b.input.screenY)
	} else {
		b.term.HideCursor()
	}
	return nil
}

// cursorColumn is the display offset of the editor cursor, windowed so
// the cursor stays visible in a long line.
func (b *Browser) cursorColumn() int {
	box := b.input
	col := runewidth.StringWidth(string(box.text[:box.cursor]))
	if col >= box.width {
		col = box.width - 1
	}
	return col
}

// drawInput overlays the modal editor: the text, then the pending
// autocompletion after the cursor in the chrome color.
func (b *Browser) drawInput(buf *render.Buffer, theme Theme) {
	box := b.input
	text := string(box.text)
	suggestion := box.Suggestion()

	// window long input so the cursor end stays visible
	for runewidth.StringWidth(text) >= box.width && len(text) > 0 {
		r := []rune(text)
		text = string(r[1:])
	}

	line := runewidth.FillRight(text+suggestion, box.width)
	line = runewidth.Truncate(line, box.width, "")

	style := css.Style{Background: css.Specified(theme.Background)}
	buf.DrawString(box.screenX, box.screenY, line, style, -1)
	if suggestion != "" {
		style.Foreground = css.Some(theme.UI)
		buf.DrawString(box.screenX+runewidth.StringWidth(text), box.screenY, suggestion, style, -1)
	}
}
