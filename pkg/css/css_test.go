package css

import "testing"

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want Color
		ok   bool
	}{
		{"#FF0000", Color{255, 0, 0}, true},
		{"#00ff00", Color{0, 255, 0}, true},
		{"#F0A", Color{255, 0, 170}, true},
		{"rgb(1, 2, 3)", Color{1, 2, 3}, true},
		{"rgb(1,2,3)", Color{1, 2, 3}, true},
		{"red", Color{255, 0, 0}, true},
		{"fuchsia", Color{255, 0, 255}, true},
		{"cyan", Color{0, 255, 255}, true},
		{"AQUA", Color{0, 255, 255}, true},
		{"#12345", Color{}, false},
		{"rgb(1,2)", Color{}, false},
		{"nonsense", Color{}, false},
		{"", Color{}, false},
	}
	for _, tt := range tests {
		got, ok := ParseColor(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ParseColor(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestHex(t *testing.T) {
	if got := Hex(0xFF8000); got != (Color{255, 128, 0}) {
		t.Errorf("Hex(0xFF8000) = %v", got)
	}
}

func TestField_States(t *testing.T) {
	var f Field[Color]
	if !f.IsUnset() {
		t.Error("zero field not unset")
	}
	f = Specified(Color{1, 2, 3})
	if v, ok := f.Get(); !ok || v != (Color{1, 2, 3}) {
		t.Errorf("specified get = %v, %v", v, ok)
	}
	f = Inherit[Color]()
	if f.IsUnset() || f.IsSpecified() {
		t.Error("inherit field misclassified")
	}
}

func TestField_InheritFrom(t *testing.T) {
	child := Inherit[Color]()
	child.InheritFrom(Specified(Color{9, 9, 9}))
	if v, _ := child.Get(); v != (Color{9, 9, 9}) {
		t.Errorf("inherited value = %v", v)
	}

	set := Specified(Color{1, 1, 1})
	set.InheritFrom(Specified(Color{9, 9, 9}))
	if v, _ := set.Get(); v != (Color{1, 1, 1}) {
		t.Error("specified field overwritten by inherit resolution")
	}
}

func TestStyle_MergeInherit(t *testing.T) {
	base := Style{Foreground: Some(Color{1, 1, 1}), Bold: true}
	var s Style
	s.MergeInherit(base)
	if v, _ := s.Foreground.Get(); v != (Color{1, 1, 1}) {
		t.Errorf("foreground = %v", v)
	}
	if !s.Bold {
		t.Error("bold not accumulated")
	}

	// the other style's set fields win
	s = Style{Foreground: Some(Color{2, 2, 2})}
	s.MergeInherit(Style{Foreground: Some(Color{3, 3, 3})})
	if v, _ := s.Foreground.Get(); v != (Color{3, 3, 3}) {
		t.Errorf("foreground after merge = %v", v)
	}
}

func TestStyle_MergeAllKeepsUnset(t *testing.T) {
	s := Style{Background: Specified(Color{5, 5, 5})}
	s.MergeAll(Style{})
	if v, _ := s.Background.Get(); v != (Color{5, 5, 5}) {
		t.Error("unset other field clobbered background")
	}
}

func TestSelector_Parse(t *testing.T) {
	sel, ok := ParseSelector("div p")
	if !ok || len(sel.Segments) != 2 {
		t.Fatalf("sel = %+v, %v", sel, ok)
	}
	if sel.String() != "div p" {
		t.Errorf("String() = %q", sel.String())
	}

	sel, ok = ParseSelector("h1.title")
	if !ok || sel.Segments[0].Kind != SegmentClass || sel.Segments[0].Type != "h1" {
		t.Errorf("qualified class = %+v", sel.Segments)
	}

	sel, ok = ParseSelector("#main")
	if !ok || sel.Segments[0].Kind != SegmentID || sel.Segments[0].Name != "main" {
		t.Errorf("id segment = %+v", sel.Segments)
	}

	if _, ok := ParseSelector("   "); ok {
		t.Error("empty selector accepted")
	}
}

func chain(names ...string) []TargetInfo {
	infos := make([]TargetInfo, len(names))
	for i, n := range names {
		infos[i] = TargetInfo{TypeName: n}
	}
	return infos
}

func TestSelector_MatchesDescendants(t *testing.T) {
	sel, _ := ParseSelector("div p")
	// descendant, not child-only
	if !sel.Matches(chain("div", "span", "p")) {
		t.Error("div p should match p nested through span")
	}
	if sel.Matches(chain("span", "p")) {
		t.Error("matched without the div ancestor")
	}
	if sel.Matches(chain("p", "div")) {
		t.Error("matched with ancestors in the wrong order")
	}
}

func TestSelector_MatchesClassAndID(t *testing.T) {
	sel, _ := ParseSelector(".warn")
	if !sel.Matches([]TargetInfo{{TypeName: "p", Classes: []string{"note", "warn"}}}) {
		t.Error("class selector missed")
	}
	sel, _ = ParseSelector("#x")
	if sel.Matches([]TargetInfo{{TypeName: "p"}}) {
		t.Error("id selector matched element without id")
	}
}

func TestParseStylesheet(t *testing.T) {
	rules := ParseStylesheet("p { color: red } div, span { display: block }", nil)
	if len(rules) != 3 {
		t.Fatalf("rules = %d, want 3", len(rules))
	}
	if v, _ := rules[0].Style.Foreground.Get(); v != (Color{255, 0, 0}) {
		t.Errorf("p color = %v", v)
	}
	if d, _ := rules[1].Style.Display.Get(); d != DisplayBlock {
		t.Error("div display not block")
	}
}

func TestParseStylesheet_MediaScreen(t *testing.T) {
	rules := ParseStylesheet("@media screen { p { color: red } }", nil)
	if len(rules) != 1 {
		t.Fatalf("rules = %d, want 1", len(rules))
	}
	rules = ParseStylesheet("@media print { p { color: red } } span { color: blue }", nil)
	if len(rules) != 1 || rules[0].Selector.String() != "span" {
		t.Errorf("print media not discarded: %+v", rules)
	}
}

func TestParseStylesheet_AppendOrder(t *testing.T) {
	rules := ParseStylesheet("p { color: red }", nil)
	rules = ParseStylesheet("p { color: blue }", rules)
	if len(rules) != 2 {
		t.Fatalf("rules = %d", len(rules))
	}
	// later rules win by list position during the cascade
	if v, _ := rules[1].Style.Foreground.Get(); v != (Color{0, 0, 255}) {
		t.Errorf("last rule color = %v", v)
	}
}

func TestParseDeclarations(t *testing.T) {
	var s Style
	ParseDeclarations("width: 10px; height: 2lh; text-align: center; nonsense: 4; display: none", &s)
	if m, _ := s.Width.Get(); m != Px(10) {
		t.Errorf("width = %+v", m)
	}
	if m, _ := s.Height.Get(); m != Px(2*LH) {
		t.Errorf("height = %+v", m)
	}
	if a, _ := s.TextAlign.Get(); a != AlignCentre {
		t.Error("alignment not centred")
	}
	if d, _ := s.Display.Get(); d != DisplayNone {
		t.Error("display not none")
	}
}

func TestParseDeclarations_Units(t *testing.T) {
	var s Style
	ParseDeclarations("width: 50%", &s)
	m, _ := s.Width.Get()
	if m.Kind != MeasurePercentWidth || m.Fraction != 0.5 {
		t.Errorf("width = %+v", m)
	}

	s = Style{}
	ParseDeclarations("width: fit-content; height: fit-content", &s)
	if m, _ := s.Width.Get(); m.Kind != MeasureFitContentWidth {
		t.Errorf("width = %+v", m)
	}
	if m, _ := s.Height.Get(); m.Kind != MeasureFitContentHeight {
		t.Errorf("height = %+v", m)
	}

	s = Style{}
	ParseDeclarations("width: 3em", &s)
	if m, _ := s.Width.Get(); m != Px(3*EM) {
		t.Errorf("width = %+v", m)
	}
}

func TestParseDeclarations_BackgroundInherit(t *testing.T) {
	var s Style
	ParseDeclarations("background: inherit", &s)
	if s.Background.IsUnset() || s.Background.IsSpecified() {
		t.Error("background not in inherit state")
	}
}
