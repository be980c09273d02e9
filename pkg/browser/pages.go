package browser

import (
	_ "embed"
	gohtml "html"
	"net/url"
	"strings"

	"github.com/ingobeans/toad/pkg/html"
	"github.com/ingobeans/toad/pkg/resource"
)

//go:embed home.html
var homeHTML string

//go:embed logo.png
var logoPNG []byte

// HomeURL is the internal page opened on launch.
const HomeURL = "toad://home"

// logoURL is the asset name the home page's image resolves to. The
// bytes are seeded into the image cache at startup, never fetched.
const logoURL = "toad://toad.png"

// internalStatic serves the internal pages that carry no browser
// state. This is the fetcher's hook: fetches run off the event loop,
// so anything that reads or mutates settings is refused here and only
// reachable through the synchronous load path.
func internalStatic(u *url.URL) (resource.Entry, bool) {
	if u.Host == "home" {
		return parsedEntry(homeHTML, u.String()), true
	}
	return resource.Entry{}, false
}

// internalEntry serves the toad:// scheme: the home page, the
// settings page, and the setting-toggle actions. Runs on the event
// loop; toggle actions mutate settings and persist them.
func (b *Browser) internalEntry(u *url.URL) (resource.Entry, bool) {
	switch u.Host {
	case "home":
		return parsedEntry(homeHTML, u.String()), true
	case "settings":
		return parsedEntry(settingsHTML(b.settings), u.String()), true
	case "set":
		q := u.Query()
		if q.Get("images") == "toggle" {
			b.settings.ImagesEnabled = !b.settings.ImagesEnabled
		}
		if q.Get("theme") == "next" {
			b.settings.CycleTheme()
		}
		b.settings.Save()
		return parsedEntry(settingsHTML(b.settings), "toad://settings"), true
	}
	return resource.Entry{}, false
}

func parsedEntry(text, finalURL string) resource.Entry {
	root, debug := html.Parse(text)
	return resource.Entry{Kind: resource.KindPage, Root: root, Debug: debug, URL: finalURL}
}

func settingsHTML(s Settings) string {
	onOff := func(v bool) string {
		if v {
			return "on"
		}
		return "off"
	}
	var sb strings.Builder
	sb.WriteString("<html><head><title>settings</title></head><body>")
	sb.WriteString("<h1>settings</h1>")
	sb.WriteString("<p>images: " + onOff(s.ImagesEnabled) +
		" <a href=\"toad://set?images=toggle\">[toggle]</a></p>")
	sb.WriteString("<p>theme: " + s.Theme().Name +
		" <a href=\"toad://set?theme=next\">[next]</a></p>")
	sb.WriteString("</body></html>")
	return sb.String()
}

// debugHTML renders the F12 page for a loaded page: its parse log,
// unknown tags, queued resources, and accumulated style rules.
func debugHTML(page *Webpage) string {
	esc := gohtml.EscapeString
	var sb strings.Builder
	sb.WriteString("<html><head><title>debug</title></head><body>")
	sb.WriteString("<h1>debug: " + esc(page.DisplayTitle()) + "</h1>")
	sb.WriteString("<p>url: " + esc(page.URL) + "</p>")

	if page.Debug != nil {
		d := page.Debug
		sb.WriteString("<h2>info log</h2><ul>")
		for _, line := range d.InfoLog {
			sb.WriteString("<li>" + esc(line) + "</li>")
		}
		sb.WriteString("</ul>")

		sb.WriteString("<h2>unknown elements</h2><ul>")
		for _, name := range d.UnknownElements {
			sb.WriteString("<li>" + esc(name) + "</li>")
		}
		sb.WriteString("</ul>")

		sb.WriteString("<h2>fetched resources</h2><ul>")
		for _, res := range d.FetchQueue {
			sb.WriteString("<li>" + esc(res.Source) + "</li>")
		}
		sb.WriteString("</ul>")

		if d.RedirectTo != "" {
			sb.WriteString("<p>redirect: " + esc(d.RedirectTo) + "</p>")
		}
	}

	sb.WriteString("<h2>style rules</h2><ul>")
	for _, rule := range page.Rules {
		sb.WriteString("<li><code>" + esc(rule.Selector.String()) + "</code></li>")
	}
	sb.WriteString("</ul>")

	sb.WriteString("</body></html>")
	return sb.String()
}
