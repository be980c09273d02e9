package resource

import (
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ingobeans/toad/pkg/html"
)

// UserAgent identifies the browser to servers.
const UserAgent = "toad/0.1"

type Kind int

const (
	// KindPage is a document to parse and display.
	KindPage Kind = iota
	// KindPlainText is a linked stylesheet.
	KindPlainText
	// KindImage is raw image data.
	KindImage
)

// Entry is one fetched resource. Which fields are set depends on Kind:
// pages carry a parsed tree and its debug info, stylesheets their
// text, images their raw bytes.
type Entry struct {
	Kind  Kind
	Text  string
	Data  []byte
	Root  *html.Element
	Debug *html.DebugInfo
	// URL is the final URL after any HTTP redirects.
	URL string
}

// Result is delivered on the fetcher's channel when a fetch finishes.
// PageID ties the result to the page that requested it; results for
// pages the user has already navigated away from are dropped by the
// receiver. Source is the URL as requested, used as the cache key.
type Result struct {
	PageID uint64
	Source string
	// Kind is the kind as requested, set even when the fetch failed.
	Kind  Kind
	Entry Entry
	Err   error
}

// Internal serves URLs the network never sees (the toad:// scheme).
// It returns false when the URL isn't internal.
type Internal func(u *url.URL) (Entry, bool)

// Fetcher retrieves resources concurrently. Every fetch runs in its
// own goroutine and posts a Result to Results; the event loop is the
// sole receiver.
type Fetcher struct {
	Results  chan Result
	client   *http.Client
	internal Internal
}

// NewFetcher creates a Fetcher. internal may be nil.
func NewFetcher(internal Internal) *Fetcher {
	return &Fetcher{
		Results:  make(chan Result, 16),
		client:   &http.Client{Timeout: 30 * time.Second},
		internal: internal,
	}
}

// Resolve resolves a possibly-relative reference against a base URL.
// An empty base passes absolute references through unchanged.
func Resolve(base, ref string) (string, error) {
	r, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("parsing url %q: %w", ref, err)
	}
	if base == "" || r.IsAbs() {
		return r.String(), nil
	}
	b, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parsing base url %q: %w", base, err)
	}
	return b.ResolveReference(r).String(), nil
}

// Fetch retrieves rawURL in the background and posts a Result tagged
// with pageID.
func (f *Fetcher) Fetch(pageID uint64, rawURL string, kind Kind) {
	go func() {
		entry, err := f.get(rawURL, kind)
		f.Results <- Result{PageID: pageID, Source: rawURL, Kind: kind, Entry: entry, Err: err}
	}()
}

// FetchForm submits a form in the background. GET encodes the fields
// into the query string, anything else posts a urlencoded body.
func (f *Fetcher) FetchForm(pageID uint64, action, method string, fields map[string]string) {
	go func() {
		entry, err := f.submit(action, method, fields)
		f.Results <- Result{PageID: pageID, Source: action, Kind: KindPage, Entry: entry, Err: err}
	}()
}

func (f *Fetcher) get(rawURL string, kind Kind) (Entry, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return Entry{}, fmt.Errorf("parsing url %q: %w", rawURL, err)
	}
	switch u.Scheme {
	case "data":
		data, err := decodeDataURL(rawURL)
		if err != nil {
			return Entry{}, err
		}
		return makeEntry(kind, data, rawURL), nil
	case "toad":
		if f.internal != nil {
			if entry, ok := f.internal(u); ok {
				return entry, nil
			}
		}
		return Entry{}, fmt.Errorf("unknown internal page %q", rawURL)
	}

	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		return Entry{}, fmt.Errorf("building request for %q: %w", rawURL, err)
	}
	return f.do(req, kind)
}

func (f *Fetcher) submit(action, method string, fields map[string]string) (Entry, error) {
	values := url.Values{}
	for name, value := range fields {
		values.Set(name, value)
	}

	var req *http.Request
	var err error
	if strings.EqualFold(method, http.MethodPost) {
		req, err = http.NewRequest(http.MethodPost, action, strings.NewReader(values.Encode()))
		if err == nil {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
	} else {
		target := action
		if encoded := values.Encode(); encoded != "" {
			if strings.Contains(target, "?") {
				target += "&" + encoded
			} else {
				target += "?" + encoded
			}
		}
		req, err = http.NewRequest(http.MethodGet, target, nil)
	}
	if err != nil {
		return Entry{}, fmt.Errorf("building form request for %q: %w", action, err)
	}
	return f.do(req, KindPage)
}

func (f *Fetcher) do(req *http.Request, kind Kind) (Entry, error) {
	req.Header.Set("User-Agent", UserAgent)
	resp, err := f.client.Do(req)
	if err != nil {
		return Entry{}, fmt.Errorf("fetching %q: %w", req.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return Entry{}, fmt.Errorf("fetching %q: %s", req.URL, resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Entry{}, fmt.Errorf("reading %q: %w", req.URL, err)
	}
	// the redirect-followed URL, so relative links resolve correctly
	final := resp.Request.URL.String()
	return makeEntry(kind, body, final), nil
}

func makeEntry(kind Kind, body []byte, finalURL string) Entry {
	switch kind {
	case KindPage:
		root, debug := html.Parse(string(body))
		return Entry{Kind: KindPage, Root: root, Debug: debug, URL: finalURL}
	case KindPlainText:
		return Entry{Kind: KindPlainText, Text: string(body), URL: finalURL}
	default:
		return Entry{Kind: KindImage, Data: body, URL: finalURL}
	}
}

// decodeDataURL extracts the payload of a data: URL, base64 or
// percent-encoded. Whitespace inside the data is ignored.
func decodeDataURL(raw string) ([]byte, error) {
	comma := strings.IndexByte(raw, ',')
	if comma < 0 {
		return nil, fmt.Errorf("data url without payload")
	}
	meta, payload := raw[:comma], raw[comma+1:]
	payload = strings.Map(func(r rune) rune {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			return -1
		}
		return r
	}, payload)
	if !strings.HasSuffix(meta, ";base64") {
		decoded, err := url.PathUnescape(payload)
		if err != nil {
			return nil, fmt.Errorf("decoding data url: %w", err)
		}
		return []byte(decoded), nil
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decoding data url: %w", err)
	}
	return data, nil
}
