package layout

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/ingobeans/toad/pkg/css"
	"github.com/ingobeans/toad/pkg/html"
)

// Layout walks the element tree and produces the frame's draw calls.
// base is the style the root inherits from (the theme's text color
// lives there); the viewport is given in cells and originY in pixels,
// so chrome above the page simply offsets the start cursor.
func Layout(root *html.Element, rules []css.Rule, base css.Style, screenW, screenH, originY uint16) *DrawData {
	g := &engine{rules: rules}
	f := &flow{
		parentW:      ActualPx(screenW * css.EM),
		parentH:      ActualPx(screenH * css.LH),
		y:            originY,
		interactable: -1,
		form:         -1,
	}
	g.layoutElement(root, base, f)
	sort.SliceStable(f.calls, func(i, j int) bool {
		return f.calls[i].Order() < f.calls[j].Order()
	})
	return &DrawData{
		Calls:         f.calls,
		Unknown:       g.unknown,
		Interactables: g.interactables,
		Forms:         g.forms,
		ContentWidth:  f.maxX,
		ContentHeight: f.maxY,
	}
}

type engine struct {
	rules         []css.Rule
	unknown       []ActualMeasurement
	interactables []Interactable
	forms         []Form
}

// flow is the per-subtree layout state: a pixel cursor, the containing
// sizes, and everything descendants inherit (interactable index, form
// index, ancestor chain for selector matching).
type flow struct {
	calls            []DrawCall
	x, y             uint16
	parentW, parentH ActualMeasurement
	maxX, maxY       uint16
	lastItemHeight   uint16
	// lastWasInlineAndSized keeps the leading space of text following
	// a sized inline element (an image, an input).
	lastWasInlineAndSized bool
	interactable          int
	form                  int
	chain                 []css.TargetInfo
}

func (g *engine) addUnknown() int {
	g.unknown = append(g.unknown, Waiting(-1))
	return len(g.unknown) - 1
}

func (g *engine) addInteractable(it Interactable) int {
	g.interactables = append(g.interactables, it)
	return len(g.interactables) - 1
}

// ensureForm returns the flow's form index, allocating an anonymous
// form for controls that appear outside any <form>.
func (g *engine) ensureForm(f *flow) int {
	if f.form >= 0 {
		return f.form
	}
	g.forms = append(g.forms, Form{Method: "GET", TextFields: map[string]string{}})
	f.form = len(g.forms) - 1
	return f.form
}

// resolve turns a stylesheet measurement into an actual one. Percent
// of a known parent resolves immediately; percent of a deferred parent
// chains into the table; fit-content allocates a fresh table entry to
// be filled once the content is measured.
func (g *engine) resolve(m css.Measurement, f *flow) ActualMeasurement {
	switch m.Kind {
	case css.MeasurePixels:
		return ActualPx(m.Pixels)
	case css.MeasurePercentWidth, css.MeasurePercentHeight:
		base := f.parentW
		if m.Kind == css.MeasurePercentHeight {
			base = f.parentH
		}
		switch base.Kind {
		case ActualPixels:
			return ActualPx(uint16(float32(base.Pixels) * m.Fraction))
		case ActualWaiting:
			return PercentOfUnknown(base.Index, m.Fraction)
		default:
			return PercentOfUnknown(base.Index, m.Fraction*base.Fraction)
		}
	default:
		return Waiting(g.addUnknown())
	}
}

// actualizeLossy resolves what it can against the table so far,
// yielding zero for anything still deferred. Used for cursor movement
// during the pass itself; the renderer uses the strict Actualize.
func (g *engine) actualizeLossy(a ActualMeasurement) uint16 {
	switch a.Kind {
	case ActualPixels:
		return a.Pixels
	case ActualPercentOfUnknown:
		return uint16(float32(g.actualizeLossy(g.unknown[a.Index])) * a.Fraction)
	default:
		if a.Index >= 0 && a.Index < len(g.unknown) {
			if entry := g.unknown[a.Index]; entry.Kind == ActualPixels {
				return entry.Pixels
			}
		}
		return 0
	}
}

func (g *engine) layoutElement(e *html.Element, parentStyle css.Style, f *flow) {
	style := e.ActiveStyle(parentStyle, g.rules, f.chain)
	if e.Type.StopsParsing {
		return
	}
	if d, ok := style.Display.Get(); ok && d == css.DisplayNone {
		return
	}
	if e.IsText() {
		g.layoutText(e.Text, style, f)
		return
	}

	isBody := e.Type.Name == "body"
	block := style.Display.Or(css.DisplayInline) == css.DisplayBlock
	if block && f.x != 0 {
		f.y += maxU16(f.lastItemHeight, css.LH)
		f.x = 0
		f.lastItemHeight = 0
		f.lastWasInlineAndSized = false
	}

	var width, height ActualMeasurement
	hasW, hasH := false, false
	if m, ok := style.Width.Get(); ok {
		width, hasW = g.resolve(m, f), true
	}
	if m, ok := style.Height.Get(); ok {
		height, hasH = g.resolve(m, f), true
	}

	switch e.Type.Name {
	case "img":
		g.layoutImage(e, f, width, height, hasW, hasH)
		return
	case "input", "button":
		g.layoutInput(e, f, width, height, hasW, hasH)
		return
	}

	inherited := f.interactable
	if e.Type.Name == "a" {
		if href, ok := e.Attr("href"); ok && href != "" {
			inherited = g.addInteractable(Interactable{Kind: InteractLink, Href: href})
		}
	}
	form := f.form
	if e.Type.Name == "form" {
		action, _ := e.Attr("action")
		method := strings.ToUpper(strings.TrimSpace(orDefault(e.Attributes["method"], "GET")))
		g.forms = append(g.forms, Form{Action: action, Method: method, TextFields: map[string]string{}})
		form = len(g.forms) - 1
	}

	cf := &flow{
		parentW:      pick(hasW, width, f.parentW),
		parentH:      pick(hasH, height, f.parentH),
		interactable: inherited,
		form:         form,
		chain:        appendChain(f.chain, e.TargetInfo()),
	}

	if e.Type.Name == "li" {
		g.layoutListPrefix(style, f, cf)
	}
	for _, child := range e.Children {
		g.layoutElement(child, style, cf)
	}

	contentW, contentH := cf.maxX, cf.maxY

	// fit-content promises are due now that the content is measured
	if hasW && width.Kind == ActualWaiting {
		g.unknown[width.Index] = ActualPx(contentW)
		width = ActualPx(contentW)
	}
	if hasH && height.Kind == ActualWaiting {
		g.unknown[height.Index] = ActualPx(contentH)
		height = ActualPx(contentH)
	}

	if bg, ok := style.Background.Get(); ok && block {
		if isBody {
			f.calls = append(f.calls, DrawCall{Kind: CallClearColor, Color: bg})
		} else if hasW && hasH {
			f.calls = append(f.calls, DrawCall{Kind: CallRect, X: f.x, Y: f.y, W: width, H: height, Color: bg})
		}
	}

	for i := range cf.calls {
		cf.calls[i].X += f.x
		cf.calls[i].Y += f.y
	}
	f.calls = append(f.calls, cf.calls...)

	wpx := contentW
	if hasW {
		wpx = g.actualizeLossy(width)
	}
	hpx := contentH
	if hasH {
		hpx = g.actualizeLossy(height)
	}
	f.maxX = maxU16(f.maxX, f.x+wpx)
	f.maxY = maxU16(f.maxY, f.y+hpx)

	switch {
	case hasH:
		f.y += hpx
		f.x = 0
		f.lastItemHeight = 0
		f.lastWasInlineAndSized = false
	case block:
		f.y += maxU16(contentH, css.LH)
		f.x = 0
		f.lastItemHeight = 0
		f.lastWasInlineAndSized = false
	case hasW:
		f.x += wpx
		f.lastItemHeight = maxU16(f.lastItemHeight, hpx)
		f.lastWasInlineAndSized = true
	default:
		// unsized inline: adopt the child flow's end cursor
		if cf.y == 0 {
			f.x += cf.x
		} else {
			f.y += cf.y
			f.x = cf.x
		}
		f.lastItemHeight = maxU16(f.lastItemHeight, cf.lastItemHeight)
		f.lastWasInlineAndSized = false
	}
}

// layoutListPrefix emits the "• " or "N. " marker at a list item's
// origin. The ordinal comes from the item's row within the list.
func (g *engine) layoutListPrefix(style css.Style, f, cf *flow) {
	prefix, ok := style.TextPrefix.Get()
	if !ok {
		return
	}
	marker := "• "
	if prefix == css.PrefixNumber {
		marker = fmt.Sprintf("%d. ", f.y/css.LH+1)
	}
	g.layoutText(marker, style, cf)
	cf.lastWasInlineAndSized = true
}

// layoutText wraps a text node into lines bounded by the containing
// width and emits one Text call per line.
func (g *engine) layoutText(raw string, style css.Style, f *flow) {
	if html.IsWhitespace(raw) && !style.RespectWhitespace {
		return
	}
	text := raw
	if !style.RespectWhitespace {
		text = html.CollapseWhitespace(text)
		if f.x == 0 && !f.lastWasInlineAndSized {
			text = strings.TrimLeft(text, " \t")
		}
	}

	limit := int(^uint16(0))
	if px, ok := f.parentW.GetPixels(); ok {
		limit = int(px / css.EM)
	}
	first := true
	for _, line := range wrapLines(text, limit) {
		if !first {
			f.y += css.LH
			f.x = 0
		}
		first = false
		lineW := uint16(runewidth.StringWidth(line)) * css.EM
		if line != "" {
			f.calls = append(f.calls, DrawCall{
				Kind:         CallText,
				X:            f.x,
				Y:            f.y,
				Text:         line,
				Style:        style,
				ParentWidth:  f.parentW,
				Interactable: f.interactable,
			})
		}
		f.maxX = maxU16(f.maxX, f.x+lineW)
		f.maxY = maxU16(f.maxY, f.y+css.LH)
		f.x += lineW
	}
	f.lastItemHeight = maxU16(f.lastItemHeight, css.LH)
	f.lastWasInlineAndSized = false
}

// wrapLines splits text on newlines and at the cell limit. Characters
// already in progress at the boundary stay on their line; wide runes
// count their display width.
func wrapLines(text string, limit int) []string {
	var lines []string
	var line strings.Builder
	width := 0
	flush := func() {
		lines = append(lines, line.String())
		line.Reset()
		width = 0
	}
	for _, ch := range text {
		if ch == '\n' {
			flush()
			continue
		}
		rw := runewidth.RuneWidth(ch)
		if width+rw > limit && width > 0 {
			flush()
		}
		line.WriteRune(ch)
		width += rw
	}
	if line.Len() > 0 || len(lines) == 0 {
		flush()
	}
	return lines
}

// layoutImage emits an Image call when the element has a known source
// and a positive size. Fit-content has no meaning for images whose
// data lives elsewhere, so any deferred size is settled to zero here;
// nothing may leave an unfulfilled promise behind.
func (g *engine) layoutImage(e *html.Element, f *flow, width, height ActualMeasurement, hasW, hasH bool) {
	if width.Kind == ActualWaiting {
		g.unknown[width.Index] = ActualPx(0)
		width = ActualPx(0)
	}
	if height.Kind == ActualWaiting {
		g.unknown[height.Index] = ActualPx(0)
		height = ActualPx(0)
	}
	src, ok := e.Attr("src")
	if !ok || src == "" || !hasW || !hasH {
		return
	}
	wpx := g.actualizeLossy(width)
	hpx := g.actualizeLossy(height)
	if w, known := width.GetPixels(); known && w == 0 {
		return
	}
	if h, known := height.GetPixels(); known && h == 0 {
		return
	}
	f.calls = append(f.calls, DrawCall{Kind: CallImage, X: f.x, Y: f.y, W: width, H: height, Source: src})
	f.maxX = maxU16(f.maxX, f.x+wpx)
	f.maxY = maxU16(f.maxY, f.y+hpx)
	f.x += wpx
	f.lastItemHeight = maxU16(f.lastItemHeight, hpx)
	f.lastWasInlineAndSized = true
}

// textInputTypes are the <input type=...> values rendered as text
// fields.
var textInputTypes = map[string]bool{
	"text":     true,
	"search":   true,
	"email":    true,
	"number":   true,
	"password": true,
}

const (
	defaultInputCols = 20
	defaultInputRows = 3
)

// layoutInput allocates an interactable for an <input> or <button> and
// emits its Input call. Fit-content has no meaning for a control with
// no flowed children, so any deferred size settles to the default;
// nothing may leave an unfulfilled promise behind.
func (g *engine) layoutInput(e *html.Element, f *flow, width, height ActualMeasurement, hasW, hasH bool) {
	if width.Kind == ActualWaiting {
		g.unknown[width.Index] = ActualPx(defaultInputCols * css.EM)
		width = ActualPx(defaultInputCols * css.EM)
	}
	if height.Kind == ActualWaiting {
		g.unknown[height.Index] = ActualPx(defaultInputRows * css.LH)
		height = ActualPx(defaultInputRows * css.LH)
	}
	inputType := "text"
	if e.Type.Name == "button" {
		inputType = "submit"
	}
	if v, ok := e.Attr("type"); ok && v != "" {
		inputType = strings.ToLower(v)
	}

	if !hasW {
		width = ActualPx(defaultInputCols * css.EM)
	}
	if !hasH {
		height = ActualPx(defaultInputRows * css.LH)
	}

	var idx int
	var placeholder string
	switch {
	case textInputTypes[inputType]:
		name, _ := e.Attr("name")
		cols := g.actualizeLossy(width) / css.EM
		if cols > 2 {
			cols -= 2 // border columns
		}
		idx = g.addInteractable(Interactable{
			Kind:  InteractInputText,
			Form:  g.ensureForm(f),
			Name:  name,
			Width: cols,
		})
		placeholder = e.Attributes["placeholder"]
	case inputType == "submit":
		idx = g.addInteractable(Interactable{Kind: InteractInputSubmit, Form: g.ensureForm(f)})
		placeholder = orDefault(e.Attributes["value"], "Submit")
	default:
		return
	}

	f.calls = append(f.calls, DrawCall{
		Kind:         CallInput,
		X:            f.x,
		Y:            f.y,
		W:            width,
		H:            height,
		Interactable: idx,
		Text:         placeholder,
	})
	wpx := g.actualizeLossy(width)
	hpx := g.actualizeLossy(height)
	f.maxX = maxU16(f.maxX, f.x+wpx)
	f.maxY = maxU16(f.maxY, f.y+hpx)
	f.x += wpx
	f.lastItemHeight = maxU16(f.lastItemHeight, hpx)
	f.lastWasInlineAndSized = true
}

func appendChain(chain []css.TargetInfo, info css.TargetInfo) []css.TargetInfo {
	out := make([]css.TargetInfo, 0, len(chain)+1)
	return append(append(out, chain...), info)
}

func pick(ok bool, a, b ActualMeasurement) ActualMeasurement {
	if ok {
		return a
	}
	return b
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func maxU16(a, b uint16) uint16 {
	if a > b {
		return a
	}
	return b
}
