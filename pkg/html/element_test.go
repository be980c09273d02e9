package html

import (
	"testing"

	"github.com/ingobeans/toad/pkg/css"
)

func mustParse(t *testing.T, text string) *Element {
	t.Helper()
	root, _ := Parse(text)
	if root == nil {
		t.Fatalf("parse produced no root for %q", text)
	}
	return root
}

func TestActiveStyle_TypeDefaults(t *testing.T) {
	e := mustParse(t, "<h1>x</h1>")
	style := e.ActiveStyle(css.Style{}, nil, nil)
	if !style.Bold {
		t.Error("heading not bold")
	}
	if v, _ := style.Foreground.Get(); v != css.Hex(0xFF0000) {
		t.Errorf("heading color = %v", v)
	}
	if d, _ := style.Display.Get(); d != css.DisplayBlock {
		t.Error("heading not block")
	}
}

func TestActiveStyle_InheritsFromParent(t *testing.T) {
	e := mustParse(t, "<span>x</span>")
	parent := css.Style{Foreground: css.Some(css.Hex(0x123456)), Italics: true}
	style := e.ActiveStyle(parent, nil, nil)
	if v, _ := style.Foreground.Get(); v != css.Hex(0x123456) {
		t.Errorf("foreground = %v", v)
	}
	if !style.Italics {
		t.Error("italics not inherited")
	}
	// non-inherited fields stay unset
	if !style.Background.IsUnset() {
		t.Error("background leaked from parent")
	}
}

func TestActiveStyle_RuleOrderWins(t *testing.T) {
	e := mustParse(t, "<p>x</p>")
	rules := css.ParseStylesheet("p { color: red } p { color: blue }", nil)
	style := e.ActiveStyle(css.Style{}, rules, nil)
	if v, _ := style.Foreground.Get(); v != css.Hex(0x0000FF) {
		t.Errorf("color = %v, later rule should win", v)
	}
}

func TestActiveStyle_NoSpecificity(t *testing.T) {
	// a plain type rule later in the list beats an id rule before it
	e := mustParse(t, `<p id="x">t</p>`)
	rules := css.ParseStylesheet("#x { color: red } p { color: blue }", nil)
	style := e.ActiveStyle(css.Style{}, rules, nil)
	if v, _ := style.Foreground.Get(); v != css.Hex(0x0000FF) {
		t.Errorf("color = %v, list order must decide", v)
	}
}

func TestActiveStyle_InlineBeatsRules(t *testing.T) {
	e := mustParse(t, `<p style="color: lime">x</p>`)
	rules := css.ParseStylesheet("p { color: red }", nil)
	style := e.ActiveStyle(css.Style{}, rules, nil)
	if v, _ := style.Foreground.Get(); v != css.Hex(0x00FF00) {
		t.Errorf("color = %v", v)
	}
}

func TestActiveStyle_DescendantRule(t *testing.T) {
	e := mustParse(t, "<p>x</p>")
	rules := css.ParseStylesheet("div p { color: red }", nil)
	ancestors := []css.TargetInfo{{TypeName: "div"}, {TypeName: "span"}}
	style := e.ActiveStyle(css.Style{}, rules, ancestors)
	if v, _ := style.Foreground.Get(); v != css.Hex(0xFF0000) {
		t.Error("descendant rule did not apply through span")
	}
	style = e.ActiveStyle(css.Style{}, rules, nil)
	if style.Foreground.IsSet() {
		t.Error("descendant rule applied without the ancestor")
	}
}

func TestActiveStyle_BackgroundInherit(t *testing.T) {
	child := mustParse(t, `<div style="background: inherit">x</div>`)
	parent := css.Style{Background: css.Specified(css.Hex(0x0000FF))}
	style := child.ActiveStyle(parent, nil, nil)
	if v, _ := style.Background.Get(); v != css.Hex(0x0000FF) {
		t.Errorf("background = %v, want the parent's blue", v)
	}
}

func TestActiveStyle_FontColorAttribute(t *testing.T) {
	e := mustParse(t, `<font color="#00FF00">x</font>`)
	rules := css.ParseStylesheet("font { color: red }", nil)
	style := e.ActiveStyle(css.Style{}, rules, nil)
	if v, _ := style.Foreground.Get(); v != css.Hex(0x00FF00) {
		t.Errorf("color = %v, attribute must beat the rule", v)
	}
}

func TestActiveStyle_ImgSizeAttributes(t *testing.T) {
	e := mustParse(t, `<img src="a.png" width="64" height="64">`)
	style := e.ActiveStyle(css.Style{}, nil, nil)
	if m, _ := style.Width.Get(); m != css.Px(64) {
		t.Errorf("width = %+v", m)
	}
	// height is halved: two image rows per terminal cell row
	if m, _ := style.Height.Get(); m != css.Px(32) {
		t.Errorf("height = %+v", m)
	}
}

func TestActiveStyle_TextNodeBackgroundInheritsParent(t *testing.T) {
	node, _ := Lookup(TextNodeName)
	e := NewElement(node)
	parent := css.Style{Background: css.Specified(css.Hex(0xABCDEF))}
	style := e.ActiveStyle(parent, nil, nil)
	if v, _ := style.Background.Get(); v != css.Hex(0xABCDEF) {
		t.Errorf("text node background = %v", v)
	}
}

func TestTargetInfo(t *testing.T) {
	e := mustParse(t, `<div id="main" class="a b">x</div>`)
	info := e.TargetInfo()
	if info.TypeName != "div" || info.ID != "main" || len(info.Classes) != 2 {
		t.Errorf("info = %+v", info)
	}
}
