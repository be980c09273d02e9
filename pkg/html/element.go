package html

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ingobeans/toad/pkg/css"
)

// ElementType is the static descriptor for a tag name. StopsParsing
// elements capture their content as raw text until the matching end
// tag; Void elements have no end tag at all.
type ElementType struct {
	Name         string
	Void         bool
	StopsParsing bool
	Style        css.Style
}

// TextNodeName is the type name given to leaf text nodes.
const TextNodeName = "node"

// DefaultType is what unknown tag names map to: an inline,
// fit-content element that renders its children normally.
var DefaultType = &ElementType{Name: "unknown"}

// headingStyle is shared by h1 through h6.
var headingStyle = css.Style{
	Bold:       true,
	Foreground: css.Some(css.Hex(0xFF0000)),
	Display:    css.Specified(css.DisplayBlock),
}

var elementTypes = buildElementTypes()

func buildElementTypes() map[string]*ElementType {
	types := []*ElementType{
		{Name: TextNodeName, Style: css.Style{Background: css.Inherit[css.Color]()}},
		{Name: "html"},
		{Name: "head"},
		{Name: "body", Style: css.Style{
			Width:      css.Specified(css.PercentW(1)),
			Height:     css.Specified(css.PercentH(1)),
			Background: css.Specified(css.Hex(0xFFFFFF)),
			Display:    css.Specified(css.DisplayBlock),
		}},
		{Name: "title", StopsParsing: true},
		{Name: "style", StopsParsing: true},
		{Name: "script", StopsParsing: true},
		{Name: "img", Void: true},
		{Name: "br", Void: true, Style: css.Style{Display: css.Specified(css.DisplayBlock)}},
		{Name: "hr", Void: true},
		{Name: "input", Void: true},
		{Name: "meta", Void: true},
		{Name: "link", Void: true},
		{Name: "p", Style: css.Style{Display: css.Specified(css.DisplayBlock)}},
		{Name: "pre", Style: css.Style{
			RespectWhitespace: true,
			Display:           css.Specified(css.DisplayBlock),
		}},
		{Name: "code", Style: css.Style{RespectWhitespace: true}},
		{Name: "div", Style: css.Style{
			Display: css.Specified(css.DisplayBlock),
			Height:  css.Specified(css.FitContentH()),
		}},
		{Name: "span"},
		{Name: "a"},
		{Name: "font"},
		{Name: "b", Style: css.Style{Bold: true}},
		{Name: "strong", Style: css.Style{Bold: true}},
		{Name: "i", Style: css.Style{Italics: true}},
		{Name: "em", Style: css.Style{Italics: true}},
		{Name: "form", Style: css.Style{Display: css.Specified(css.DisplayBlock)}},
		{Name: "button"},
		{Name: "ul", Style: css.Style{
			Display:    css.Specified(css.DisplayBlock),
			TextPrefix: css.Some(css.PrefixDot),
		}},
		{Name: "ol", Style: css.Style{
			Display:    css.Specified(css.DisplayBlock),
			TextPrefix: css.Some(css.PrefixNumber),
		}},
		{Name: "li", Style: css.Style{Display: css.Specified(css.DisplayBlock)}},
	}
	for i := 1; i <= 6; i++ {
		types = append(types, &ElementType{
			Name:  fmt.Sprintf("h%d", i),
			Style: headingStyle,
		})
	}
	byName := make(map[string]*ElementType, len(types))
	for _, ty := range types {
		byName[ty.Name] = ty
	}
	return byName
}

// Lookup finds the element type for a tag name.
func Lookup(name string) (*ElementType, bool) {
	ty, ok := elementTypes[name]
	return ty, ok
}

// Element is one node of the parsed tree. Text nodes are leaves with
// Text set; StopsParsing elements hold their raw content in Text.
type Element struct {
	Type        *ElementType
	Attributes  map[string]string
	Classes     []string
	Text        string
	InlineStyle css.Style
	Children    []*Element
}

func NewElement(ty *ElementType) *Element {
	return &Element{Type: ty}
}

// Attr returns the value of an attribute, if present.
func (e *Element) Attr(name string) (string, bool) {
	v, ok := e.Attributes[name]
	return v, ok
}

// SetAttributes installs the attribute map, parsing the inline style=
// and class= values into their dedicated fields.
func (e *Element) SetAttributes(attrs map[string]string) {
	if style, ok := attrs["style"]; ok {
		css.ParseDeclarations(style, &e.InlineStyle)
	}
	if class, ok := attrs["class"]; ok {
		e.Classes = strings.Fields(class)
	}
	e.Attributes = attrs
}

// TargetInfo returns the selector-matching view of this element.
func (e *Element) TargetInfo() css.TargetInfo {
	id, _ := e.Attr("id")
	return css.TargetInfo{TypeName: e.Type.Name, ID: id, Classes: e.Classes}
}

// IsText reports whether this is a leaf text node.
func (e *Element) IsText() bool {
	return e.Type.Name == TextNodeName
}

// ActiveStyle computes the element's effective style: element-type
// defaults, then inherited parent fields, then matching global rules
// in list order, then the inline style attribute, then the element
// attribute overrides. Ancestors are the target-info chain from the
// root down to (and excluding) this element.
func (e *Element) ActiveStyle(parent css.Style, rules []css.Rule, ancestors []css.TargetInfo) css.Style {
	style := e.Type.Style
	style.MergeInherit(parent)

	chain := append(append(make([]css.TargetInfo, 0, len(ancestors)+1), ancestors...), e.TargetInfo())
	for _, rule := range rules {
		if rule.Selector.Matches(chain) {
			style.MergeAll(rule.Style)
		}
	}
	style.MergeAll(e.InlineStyle)
	style.ResolveInherit(parent)
	e.applyAttributeOverrides(&style)
	return style
}

// applyAttributeOverrides handles the HTML presentation attributes
// that beat CSS: <font color>, and <img width/height>. The height
// attribute is halved because half-block rendering packs two image
// rows into each terminal row.
func (e *Element) applyAttributeOverrides(style *css.Style) {
	switch e.Type.Name {
	case "font":
		if v, ok := e.Attr("color"); ok {
			if c, ok := css.ParseColor(v); ok {
				style.Foreground = css.Some(c)
			}
		}
	case "img":
		if v, ok := e.Attr("width"); ok {
			if px, err := strconv.ParseUint(v, 10, 16); err == nil {
				style.Width = css.Specified(css.Px(uint16(px)))
			}
		}
		if v, ok := e.Attr("height"); ok {
			if px, err := strconv.ParseUint(v, 10, 16); err == nil {
				style.Height = css.Specified(css.Px(uint16(px) / 2))
			}
		}
	}
}

// String renders the subtree as indented HTML, for the debug page.
func (e *Element) String() string {
	var b strings.Builder
	e.printRecursive(&b, 0)
	return b.String()
}

func (e *Element) printRecursive(b *strings.Builder, depth int) {
	pad := strings.Repeat("\t", depth)
	if e.IsText() {
		b.WriteString(pad)
		b.WriteString(e.Text)
		b.WriteByte('\n')
		return
	}
	b.WriteString(pad)
	b.WriteByte('<')
	b.WriteString(e.Type.Name)
	for k, v := range e.Attributes {
		fmt.Fprintf(b, " %s=%q", k, v)
	}
	b.WriteString(">\n")
	if e.Text != "" {
		b.WriteString(pad)
		b.WriteString(e.Text)
		b.WriteByte('\n')
	}
	for _, child := range e.Children {
		child.printRecursive(b, depth+1)
	}
	fmt.Fprintf(b, "%s</%s>\n", pad, e.Type.Name)
}

// CollapseWhitespace removes newlines and squeezes repeated runs of
// the same whitespace character down to one.
func CollapseWhitespace(text string) string {
	text = strings.ReplaceAll(text, "\n", "")
	text = strings.ReplaceAll(text, "\r", "")
	var b strings.Builder
	b.Grow(len(text))
	var last rune
	for _, ch := range text {
		if isWhitespaceRune(ch) {
			if ch == last {
				continue
			}
			last = ch
		} else {
			last = 0
		}
		b.WriteRune(ch)
	}
	return b.String()
}

// IsWhitespace reports whether text is entirely whitespace.
func IsWhitespace(text string) bool {
	return strings.TrimSpace(text) == ""
}

func isWhitespaceRune(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\f' || r == '\v'
}
