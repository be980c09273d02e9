package css

import "strings"

type SegmentKind int

const (
	SegmentType SegmentKind = iota
	SegmentClass
	SegmentID
)

// Segment is one step of a descendant selector: a tag name, a class,
// or an id. Class and id segments may additionally require a tag name
// (e.g. "h1.title").
type Segment struct {
	Kind SegmentKind
	Name string
	// Type is the optional tag-name qualifier for class/id segments.
	Type string
}

// Selector matches a descendant chain right to left: the last segment
// must match the candidate element, each earlier segment must match
// some ancestor, preserving order but not adjacency.
type Selector struct {
	Segments []Segment
}

// TargetInfo is the slice of an element the matcher needs: its tag
// name, id, and classes. Layout carries a chain of these from the root
// down to the element being styled.
type TargetInfo struct {
	TypeName string
	ID       string
	Classes  []string
}

func (seg Segment) matchesOne(info TargetInfo) bool {
	switch seg.Kind {
	case SegmentType:
		return info.TypeName == seg.Name
	case SegmentClass:
		if seg.Type != "" && seg.Type != info.TypeName {
			return false
		}
		for _, class := range info.Classes {
			if class == seg.Name {
				return true
			}
		}
		return false
	case SegmentID:
		if seg.Type != "" && seg.Type != info.TypeName {
			return false
		}
		return info.ID != "" && info.ID == seg.Name
	}
	return false
}

// Matches reports whether the selector matches the element described
// by the last entry of chain, with the preceding entries as its
// ancestors ordered root first.
func (s Selector) Matches(chain []TargetInfo) bool {
	if len(chain) == 0 || len(s.Segments) == 0 {
		return false
	}
	last := len(s.Segments) - 1
	if !s.Segments[last].matchesOne(chain[len(chain)-1]) {
		return false
	}
	ancestor := len(chain) - 2
	for i := last - 1; i >= 0; i-- {
		matched := false
		for ; ancestor >= 0; ancestor-- {
			if s.Segments[i].matchesOne(chain[ancestor]) {
				matched = true
				ancestor--
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

// String reconstructs the selector's source text.
func (s Selector) String() string {
	parts := make([]string, 0, len(s.Segments))
	for _, seg := range s.Segments {
		text := seg.Type
		switch seg.Kind {
		case SegmentClass:
			text += "." + seg.Name
		case SegmentID:
			text += "#" + seg.Name
		default:
			text = seg.Name
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, " ")
}

// parseSegment parses one whitespace-delimited selector segment.
func parseSegment(text string) (Segment, bool) {
	if text == "" {
		return Segment{}, false
	}
	switch text[0] {
	case '#':
		if len(text) == 1 {
			return Segment{}, false
		}
		return Segment{Kind: SegmentID, Name: text[1:]}, true
	case '.':
		if len(text) == 1 {
			return Segment{}, false
		}
		return Segment{Kind: SegmentClass, Name: text[1:]}, true
	}
	if i := strings.IndexAny(text, ".#"); i > 0 {
		seg, ok := parseSegment(text[i:])
		if !ok {
			return Segment{}, false
		}
		seg.Type = text[:i]
		return seg, true
	}
	return Segment{Kind: SegmentType, Name: text}, true
}

// ParseSelector parses a single comma-free selector into descendant
// segments. Returns false if no valid segment is present.
func ParseSelector(text string) (Selector, bool) {
	var sel Selector
	for _, part := range strings.Fields(text) {
		if seg, ok := parseSegment(part); ok {
			sel.Segments = append(sel.Segments, seg)
		}
	}
	return sel, len(sel.Segments) > 0
}
