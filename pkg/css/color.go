package css

import (
	"strconv"
	"strings"
)

// Color is a 24-bit RGB color. The terminal backend renders all colors
// as truecolor SGR sequences, so there is no palette indirection here.
type Color struct {
	R, G, B uint8
}

// Hex builds a Color from a 0xRRGGBB value.
func Hex(v uint32) Color {
	return Color{
		R: uint8((v >> 16) & 0xFF),
		G: uint8((v >> 8) & 0xFF),
		B: uint8(v & 0xFF),
	}
}

// namedColors is the basic web color table. Both "aqua" and "cyan" map
// to #00FFFF; otherwise names follow the 16-color web-safe set.
var namedColors = map[string]Color{
	"white":   Hex(0xFFFFFF),
	"silver":  Hex(0xC0C0C0),
	"gray":    Hex(0x808080),
	"black":   Hex(0x000000),
	"red":     Hex(0xFF0000),
	"maroon":  Hex(0x800000),
	"yellow":  Hex(0xFFFF00),
	"olive":   Hex(0x808000),
	"lime":    Hex(0x00FF00),
	"green":   Hex(0x008000),
	"aqua":    Hex(0x00FFFF),
	"cyan":    Hex(0x00FFFF),
	"teal":    Hex(0x008080),
	"blue":    Hex(0x0000FF),
	"navy":    Hex(0x000080),
	"fuchsia": Hex(0xFF00FF),
	"purple":  Hex(0x800080),
}

// ParseColor parses a CSS color value: #RRGGBB, #RGB (each digit
// doubled), rgb(r,g,b), or a named color. Returns false for anything
// it does not recognize.
func ParseColor(text string) (Color, bool) {
	text = strings.TrimSpace(text)
	switch {
	case strings.HasPrefix(text, "#"):
		return parseHexColor(text[1:])
	case strings.HasPrefix(text, "rgb"):
		return parseRGBColor(text)
	default:
		c, ok := namedColors[strings.ToLower(text)]
		return c, ok
	}
}

func parseHexColor(text string) (Color, bool) {
	if len(text) == 3 {
		var expanded strings.Builder
		for _, ch := range text {
			expanded.WriteRune(ch)
			expanded.WriteRune(ch)
		}
		text = expanded.String()
	}
	if len(text) != 6 {
		return Color{}, false
	}
	v, err := strconv.ParseUint(text, 16, 32)
	if err != nil {
		return Color{}, false
	}
	return Hex(uint32(v)), true
}

func parseRGBColor(text string) (Color, bool) {
	open := strings.IndexByte(text, '(')
	close := strings.IndexByte(text, ')')
	if open == -1 || close == -1 || close < open {
		return Color{}, false
	}
	parts := strings.Split(text[open+1:close], ",")
	if len(parts) != 3 {
		return Color{}, false
	}
	var channels [3]uint8
	for i, part := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(part), 10, 8)
		if err != nil {
			return Color{}, false
		}
		channels[i] = uint8(v)
	}
	return Color{R: channels[0], G: channels[1], B: channels[2]}, true
}
