package css

import (
	"strconv"
	"strings"
)

// Rule pairs a selector with the style it applies. Rules live in one
// ordered list; later rules win on conflict. There is no specificity
// calculus, deliberately.
type Rule struct {
	Selector Selector
	Style    Style
}

// ParseStylesheet parses stylesheet text and appends the resulting
// rules to rules, returning the extended list. Malformed rulesets are
// skipped; unknown at-rules are discarded after consuming their block.
func ParseStylesheet(text string, rules []Rule) []Rule {
	p := &sheetParser{input: text}
	for {
		p.skipWhitespace()
		if p.done() {
			return rules
		}
		if p.peek() == '@' {
			p.pos++
			header, block := p.readAtRule()
			// the inner content of @media screen is a stylesheet again
			if strings.TrimSpace(header) == "media screen" {
				rules = ParseStylesheet(block, rules)
			}
			continue
		}
		selectors := p.readUntil('{')
		block := p.readUntil('}')
		var style Style
		ParseDeclarations(block, &style)
		for _, selectorText := range strings.Split(selectors, ",") {
			if sel, ok := ParseSelector(strings.TrimSpace(selectorText)); ok {
				rules = append(rules, Rule{Selector: sel, Style: style})
			}
		}
	}
}

// ParseDeclarations parses a "prop: value; prop: value" block into
// style. Unknown properties and unparsable values are ignored.
func ParseDeclarations(text string, style *Style) {
	for _, decl := range strings.Split(text, ";") {
		key, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		applyDeclaration(style, strings.TrimSpace(key), strings.TrimSpace(value))
	}
}

func applyDeclaration(style *Style, key, value string) {
	switch key {
	case "color":
		if c, ok := ParseColor(value); ok {
			style.Foreground = Some(c)
		}
	case "background", "background-color":
		if value == "inherit" {
			style.Background = Inherit[Color]()
		} else if c, ok := ParseColor(value); ok {
			style.Background = Specified(c)
		}
	case "text-align":
		if a, ok := parseAlignment(value); ok {
			style.TextAlign = Some(a)
		}
	case "display":
		if value == "inherit" {
			style.Display = Inherit[Display]()
		} else if d, ok := parseDisplay(value); ok {
			style.Display = Specified(d)
		}
	case "width":
		if value == "inherit" {
			style.Width = Inherit[Measurement]()
		} else if m, ok := parseWidth(value); ok {
			style.Width = Specified(m)
		}
	case "height":
		if value == "inherit" {
			style.Height = Inherit[Measurement]()
		} else if m, ok := parseHeight(value); ok {
			style.Height = Specified(m)
		}
	}
}

func parseAlignment(value string) (TextAlignment, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "center":
		return AlignCentre, true
	case "left", "start":
		return AlignLeft, true
	case "right", "end":
		return AlignRight, true
	}
	return 0, false
}

func parseDisplay(value string) (Display, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "inline":
		return DisplayInline, true
	case "block":
		return DisplayBlock, true
	case "none":
		return DisplayNone, true
	}
	return 0, false
}

// parseAbsolute parses px/em/lh values, which resolve immediately.
func parseAbsolute(value string) (Measurement, bool) {
	scale := uint16(1)
	switch {
	case strings.HasSuffix(value, "px"):
		value = strings.TrimSuffix(value, "px")
	case strings.HasSuffix(value, "em"):
		value, scale = strings.TrimSuffix(value, "em"), EM
	case strings.HasSuffix(value, "lh"):
		value, scale = strings.TrimSuffix(value, "lh"), LH
	default:
		return Measurement{}, false
	}
	v, err := strconv.ParseUint(value, 10, 16)
	if err != nil {
		return Measurement{}, false
	}
	return Px(uint16(v) * scale), true
}

func parsePercent(value string) (float32, bool) {
	if !strings.HasSuffix(value, "%") {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSuffix(value, "%"), 32)
	if err != nil {
		return 0, false
	}
	return float32(f) / 100, true
}

func parseWidth(value string) (Measurement, bool) {
	if value == "fit-content" {
		return FitContentW(), true
	}
	if f, ok := parsePercent(value); ok {
		return PercentW(f), true
	}
	return parseAbsolute(value)
}

func parseHeight(value string) (Measurement, bool) {
	if value == "fit-content" {
		return FitContentH(), true
	}
	if f, ok := parsePercent(value); ok {
		return PercentH(f), true
	}
	return parseAbsolute(value)
}

type sheetParser struct {
	input string
	pos   int
}

func (p *sheetParser) done() bool { return p.pos >= len(p.input) }

func (p *sheetParser) peek() byte { return p.input[p.pos] }

func (p *sheetParser) skipWhitespace() {
	for !p.done() && isSpace(p.input[p.pos]) {
		p.pos++
	}
}

// readUntil consumes up to and including the delimiter, returning the
// text before it. A missing delimiter consumes the rest of the input.
func (p *sheetParser) readUntil(delim byte) string {
	start := p.pos
	for !p.done() {
		if p.input[p.pos] == delim {
			text := p.input[start:p.pos]
			p.pos++
			return text
		}
		p.pos++
	}
	return p.input[start:]
}

// readAtRule consumes an at-rule after the '@': the header up to the
// first brace, then a balanced-brace block. Returns both parts.
func (p *sheetParser) readAtRule() (header, block string) {
	header = p.readUntil('{')
	depth := 1
	start := p.pos
	for !p.done() {
		switch p.input[p.pos] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				block = p.input[start:p.pos]
				p.pos++
				return header, block
			}
		}
		p.pos++
	}
	return header, p.input[start:]
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f'
}
