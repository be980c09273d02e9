package html

import (
	gohtml "html"
	"strings"
)

// ResourceKind classifies an external reference found during parsing.
type ResourceKind int

const (
	ResourcePlainText ResourceKind = iota
	ResourceImage
)

// Resource is an external reference the page needs fetched.
type Resource struct {
	Kind   ResourceKind
	Source string
}

// DebugInfo is the parse sidechannel: everything the parser noticed
// that is not part of the tree itself. It backs the F12 debug page.
type DebugInfo struct {
	InfoLog         []string
	UnknownElements []string
	FetchQueue      []Resource
	RedirectTo      string
}

// Log appends a line to the page's info log.
func (d *DebugInfo) Log(msg string) {
	d.InfoLog = append(d.InfoLog, msg)
}

// Parse parses HTML text into an element tree. Malformed input is
// absorbed: unknown tags map to the default type, stray end tags close
// the current scope, truncated input yields whatever was accumulated.
// The returned root is the last top-level element (nil if none).
func Parse(text string) (*Element, *DebugInfo) {
	p := &parser{input: text, lower: strings.ToLower(text), debug: &DebugInfo{}}
	siblings := p.parseSiblings()
	if len(siblings) == 0 {
		return nil, p.debug
	}
	return siblings[len(siblings)-1], p.debug
}

type parser struct {
	input string
	// lower is a lowercased copy for case-insensitive end-tag search
	lower string
	pos   int
	debug *DebugInfo
}

func (p *parser) done() bool { return p.pos >= len(p.input) }

// parseSiblings consumes elements and text until an end tag closes the
// current scope or input runs out.
func (p *parser) parseSiblings() []*Element {
	var siblings []*Element
	for !p.done() {
		if p.input[p.pos] != '<' {
			p.readText(&siblings)
			continue
		}
		p.pos++
		switch {
		case !p.done() && p.input[p.pos] == '/':
			// any end tag returns from the current scope, tolerant of
			// mismatched names
			p.skipPast('>')
			return siblings
		case !p.done() && p.input[p.pos] == '!':
			if strings.HasPrefix(p.input[p.pos+1:], "--") {
				p.skipPastString("-->")
			} else {
				// declaration such as DOCTYPE
				p.skipPast('>')
			}
		default:
			if e := p.parseElement(); e != nil {
				siblings = append(siblings, e)
			}
		}
	}
	return siblings
}

// readText consumes a run of characters up to the next tag and appends
// it to the last sibling if that is a text node, otherwise starts one.
func (p *parser) readText(siblings *[]*Element) {
	start := p.pos
	for !p.done() && p.input[p.pos] != '<' {
		p.pos++
	}
	text := gohtml.UnescapeString(p.input[start:p.pos])
	if n := len(*siblings); n > 0 && (*siblings)[n-1].IsText() {
		(*siblings)[n-1].Text += text
		return
	}
	node, _ := Lookup(TextNodeName)
	e := NewElement(node)
	e.Text = text
	*siblings = append(*siblings, e)
}

// parseElement parses one element starting just after '<'. Returns nil
// if input is truncated before the tag closes.
func (p *parser) parseElement() *Element {
	name := strings.ToLower(p.readName())
	attrs := make(map[string]string)
	selfClosing := false
	closed := false
	for !p.done() {
		ch := p.input[p.pos]
		if ch == '>' {
			p.pos++
			closed = true
			break
		}
		if ch == '/' {
			p.pos++
			if !p.done() && p.input[p.pos] == '>' {
				p.pos++
				selfClosing = true
				closed = true
				break
			}
			continue
		}
		if isSpaceByte(ch) {
			p.pos++
			continue
		}
		key, value := p.readAttribute()
		if key != "" {
			attrs[key] = value
		}
	}
	if !closed {
		return nil
	}

	ty, known := Lookup(name)
	if !known {
		ty = DefaultType
		p.debug.UnknownElements = append(p.debug.UnknownElements, name)
	}
	e := NewElement(ty)
	e.SetAttributes(attrs)
	p.recordResources(e)

	switch {
	case selfClosing || ty.Void:
		// no children, no end tag
	case ty.StopsParsing:
		e.Text = p.readRawUntilEndTag(name)
	default:
		e.Children = p.parseSiblings()
	}
	return e
}

func (p *parser) readName() string {
	start := p.pos
	for !p.done() {
		ch := p.input[p.pos]
		if ch == '>' || ch == '/' || isSpaceByte(ch) {
			break
		}
		p.pos++
	}
	return p.input[start:p.pos]
}

// readAttribute parses key[=value]. Quoted values run to the matching
// quote; unquoted values run to whitespace or '>'. A bare key gets an
// empty value.
func (p *parser) readAttribute() (string, string) {
	start := p.pos
	for !p.done() {
		ch := p.input[p.pos]
		if ch == '=' || ch == '/' || ch == '>' || isSpaceByte(ch) {
			break
		}
		p.pos++
	}
	key := strings.ToLower(strings.TrimSpace(p.input[start:p.pos]))
	if p.done() || p.input[p.pos] != '=' {
		return key, ""
	}
	p.pos++
	if p.done() {
		return key, ""
	}
	if q := p.input[p.pos]; q == '"' || q == '\'' {
		p.pos++
		valueStart := p.pos
		for !p.done() && p.input[p.pos] != q {
			p.pos++
		}
		value := p.input[valueStart:p.pos]
		if !p.done() {
			p.pos++
		}
		return key, gohtml.UnescapeString(value)
	}
	valueStart := p.pos
	for !p.done() && p.input[p.pos] != '>' && !isSpaceByte(p.input[p.pos]) {
		p.pos++
	}
	return key, gohtml.UnescapeString(p.input[valueStart:p.pos])
}

// readRawUntilEndTag captures raw text up to the literal end tag of a
// stops-parsing element (style, script, title).
func (p *parser) readRawUntilEndTag(name string) string {
	end := "</" + name + ">"
	i := strings.Index(p.lower[p.pos:], end)
	if i == -1 {
		raw := p.input[p.pos:]
		p.pos = len(p.input)
		return raw
	}
	raw := p.input[p.pos : p.pos+i]
	p.pos += i + len(end)
	return raw
}

func (p *parser) skipPast(delim byte) {
	for !p.done() {
		if p.input[p.pos] == delim {
			p.pos++
			return
		}
		p.pos++
	}
}

func (p *parser) skipPastString(s string) {
	i := strings.Index(p.input[p.pos:], s)
	if i == -1 {
		p.pos = len(p.input)
		return
	}
	p.pos += i + len(s)
}

// recordResources notes external references so the page loader can
// schedule their fetches.
func (p *parser) recordResources(e *Element) {
	switch e.Type.Name {
	case "img":
		if src, ok := e.Attr("src"); ok && src != "" {
			p.debug.FetchQueue = append(p.debug.FetchQueue, Resource{Kind: ResourceImage, Source: src})
		}
	case "link":
		rel, _ := e.Attr("rel")
		if href, ok := e.Attr("href"); ok && strings.Contains(rel, "stylesheet") {
			p.debug.FetchQueue = append(p.debug.FetchQueue, Resource{Kind: ResourcePlainText, Source: href})
		}
	case "meta":
		if equiv, _ := e.Attr("http-equiv"); strings.EqualFold(equiv, "refresh") {
			if content, ok := e.Attr("content"); ok {
				if url := refreshTarget(content); url != "" {
					p.debug.RedirectTo = url
				}
			}
		}
	}
}

func isSpaceByte(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f'
}

// refreshTarget extracts the url= part of a meta refresh content value.
func refreshTarget(content string) string {
	for _, part := range strings.Split(content, ";") {
		part = strings.TrimSpace(part)
		if rest, ok := strings.CutPrefix(strings.ToLower(part), "url="); ok {
			// preserve the original casing of the URL itself
			return strings.Trim(part[len(part)-len(rest):], `"'`)
		}
	}
	return ""
}
