package browser

import (
	"fmt"
	gohtml "html"
	"net/url"
	"strings"

	"github.com/ingobeans/toad/pkg/css"
	"github.com/ingobeans/toad/pkg/html"
	"github.com/ingobeans/toad/pkg/images"
	"github.com/ingobeans/toad/pkg/layout"
	"github.com/ingobeans/toad/pkg/render"
	"github.com/ingobeans/toad/pkg/resource"
	"github.com/ingobeans/toad/pkg/term"
)

// Browser owns all mutable state: tabs, settings, caches, and the
// screen. Everything is touched only from the event loop goroutine;
// fetches run elsewhere and report back over the fetcher's channel.
type Browser struct {
	term     *term.Terminal
	fetcher  *resource.Fetcher
	settings Settings
	tabs     *Tabs
	images   *images.Cache
	topbar   topbar
	input    *InputBox

	nextID uint64
	w, h   int
	// prev is the last flushed frame, diffed against on redraw and
	// consulted for mouse hit testing.
	prev           *render.Buffer
	mouseX, mouseY int
	quit           bool
}

// New creates a browser showing the home page. The terminal must
// already be open.
func New(t *term.Terminal, settings Settings) (*Browser, error) {
	b := &Browser{
		term:     t,
		settings: settings,
		images:   images.NewCache(),
	}
	b.fetcher = resource.NewFetcher(internalStatic)
	if err := b.images.Add(logoURL, logoPNG); err != nil {
		return nil, fmt.Errorf("loading embedded logo: %w", err)
	}

	w, h, err := t.Size()
	if err != nil {
		return nil, fmt.Errorf("reading terminal size: %w", err)
	}
	b.w, b.h = w, h

	home := b.newPage(HomeURL)
	b.tabs = NewTabs(NewTab(home))
	b.loadInternal(home, HomeURL)
	return b, nil
}

func (b *Browser) newPage(rawURL string) *Webpage {
	b.nextID++
	return &Webpage{ID: b.nextID, URL: rawURL, Hovered: -1, Loading: true}
}

// navigate pushes a placeholder page onto the tab and starts its
// fetch. Internal pages load synchronously.
func (b *Browser) navigate(tab *Tab, rawURL string) {
	base := tab.Current().URL
	resolved, err := resource.Resolve(base, rawURL)
	if err != nil {
		resolved = rawURL
	}
	page := b.newPage(resolved)
	tab.Navigate(page)
	b.startLoad(page, resolved)
}

// startLoad begins fetching a page's body into the given page record.
func (b *Browser) startLoad(page *Webpage, rawURL string) {
	if strings.HasPrefix(rawURL, "toad:") {
		b.loadInternal(page, rawURL)
		return
	}
	page.Loading = true
	b.fetcher.Fetch(page.ID, rawURL, resource.KindPage)
}

func (b *Browser) loadInternal(page *Webpage, rawURL string) {
	u, err := url.Parse(rawURL)
	if err == nil {
		if entry, ok := b.internalEntry(u); ok {
			b.integratePage(page, entry)
			return
		}
	}
	b.integratePage(page, errorEntry(rawURL, fmt.Errorf("unknown internal page")))
}

// integratePage installs a fetched document into its page record:
// title, stylesheet rules, queued sub-fetches, and the meta-refresh
// redirect.
func (b *Browser) integratePage(page *Webpage, entry resource.Entry) {
	page.Loading = false
	page.Root = entry.Root
	page.Debug = entry.Debug
	page.URL = entry.URL
	page.Title = findTitle(entry.Root)
	page.ExtraCSS = nil
	page.ScrollY = 0
	page.Hovered = -1
	b.refreshStyle(page)

	if entry.Debug == nil {
		return
	}
	for _, res := range entry.Debug.FetchQueue {
		source, err := resource.Resolve(page.URL, res.Source)
		if err != nil {
			entry.Debug.Log(fmt.Sprintf("bad resource url %q: %v", res.Source, err))
			continue
		}
		switch res.Kind {
		case html.ResourcePlainText:
			b.fetcher.Fetch(page.ID, source, resource.KindPlainText)
		case html.ResourceImage:
			if b.settings.ImagesEnabled && !b.images.Has(source) {
				b.fetcher.Fetch(page.ID, source, resource.KindImage)
			}
		}
	}
	if entry.Debug.RedirectTo != "" {
		target, err := resource.Resolve(page.URL, entry.Debug.RedirectTo)
		if err == nil {
			b.startLoad(page, target)
		}
	}
}

// handleResult integrates one async fetch completion. Results whose
// page id no longer resolves are dropped.
func (b *Browser) handleResult(res resource.Result) {
	page := b.tabs.FindPage(res.PageID)
	if page == nil {
		return
	}
	if res.Err != nil {
		if res.Kind == resource.KindPage {
			b.integratePage(page, errorEntry(res.Source, res.Err))
			return
		}
		if page.Debug != nil {
			page.Debug.Log(fmt.Sprintf("fetch failed: %v", res.Err))
		}
		return
	}
	switch res.Entry.Kind {
	case resource.KindPage:
		b.integratePage(page, res.Entry)
	case resource.KindPlainText:
		page.ExtraCSS = append(page.ExtraCSS, res.Entry.Text)
		b.refreshStyle(page)
	case resource.KindImage:
		if err := b.images.Add(res.Source, res.Entry.Data); err != nil {
			if page.Debug != nil {
				page.Debug.Log(fmt.Sprintf("image %s: %v", res.Source, err))
			}
			return
		}
		page.Invalidate()
	}
}

// refreshStyle rebuilds the page's rule list: the theme's body
// background first so page CSS can override it, then every <style>
// block in document order, then fetched linked sheets.
func (b *Browser) refreshStyle(page *Webpage) {
	theme := b.settings.Theme()
	rules := []css.Rule{themeBodyRule(theme)}
	for _, text := range collectStyleText(page.Root) {
		rules = css.ParseStylesheet(text, rules)
	}
	for _, text := range page.ExtraCSS {
		rules = css.ParseStylesheet(text, rules)
	}
	page.Rules = rules
	page.Invalidate()
}

func themeBodyRule(theme Theme) css.Rule {
	sel, _ := css.ParseSelector("body")
	style := css.Style{Background: css.Specified(theme.Background)}
	return css.Rule{Selector: sel, Style: style}
}

// collectStyleText gathers the text of every <style> element.
func collectStyleText(root *html.Element) []string {
	var texts []string
	var walk func(e *html.Element)
	walk = func(e *html.Element) {
		if e == nil {
			return
		}
		if e.Type.Name == "style" {
			// stops-parsing elements hold their raw text directly
			texts = append(texts, e.Text)
			return
		}
		for _, child := range e.Children {
			walk(child)
		}
	}
	walk(root)
	return texts
}

// findTitle returns the text of the first <title> element.
func findTitle(root *html.Element) string {
	var title string
	var walk func(e *html.Element) bool
	walk = func(e *html.Element) bool {
		if e == nil {
			return false
		}
		if e.Type.Name == "title" {
			title = strings.TrimSpace(e.Text)
			return true
		}
		for _, child := range e.Children {
			if walk(child) {
				return true
			}
		}
		return false
	}
	walk(root)
	return title
}

// errorEntry builds the substitute page shown when a fetch fails.
func errorEntry(rawURL string, cause error) resource.Entry {
	body := "<html><head><title>error</title></head><body>" +
		"<h1>failed to load page</h1>" +
		"<p>" + gohtml.EscapeString(rawURL) + "</p>" +
		"<p><code>" + gohtml.EscapeString(cause.Error()) + "</code></p>" +
		"</body></html>"
	return parsedEntry(body, rawURL)
}

// ensureLayout runs the layout pass if the cached draw list is stale.
func (b *Browser) ensureLayout(page *Webpage) {
	if page.Draw != nil || page.Root == nil {
		return
	}
	theme := b.settings.Theme()
	base := css.Style{Foreground: css.Some(theme.Text)}
	page.Draw = layout.Layout(page.Root, page.Rules, base,
		uint16(b.w), uint16(b.h), ChromeRows*css.LH)
}

// maxScroll clamps scrolling so the last content row can reach the
// bottom of the screen.
func (b *Browser) maxScroll(page *Webpage) uint16 {
	if page.Draw == nil {
		return 0
	}
	// ContentHeight counts from the page origin above the chrome, so
	// the window it scrolls through is the full screen height
	content := page.Draw.ContentHeight / css.LH
	visible := uint16(b.h)
	if content <= visible {
		return 0
	}
	return content - visible
}

// normalizeURL completes an address-bar entry: anything without a
// scheme gets https.
func normalizeURL(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return text
	}
	if strings.Contains(text, "://") || strings.HasPrefix(text, "toad:") || strings.HasPrefix(text, "data:") {
		return text
	}
	return "https://" + text
}
