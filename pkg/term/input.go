package term

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

type Key int

const (
	KeyRune Key = iota
	KeyEnter
	KeyEscape
	KeyBackspace
	KeyDelete
	KeyTab
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyF12
)

// KeyEvent is one decoded key press. Rune is only meaningful for
// KeyRune; Ctrl-letter chords arrive as KeyRune with Ctrl set.
type KeyEvent struct {
	Key  Key
	Rune rune
	Ctrl bool
}

type MouseKind int

const (
	MousePress MouseKind = iota
	MouseRelease
	MouseMove
	MouseScrollUp
	MouseScrollDown
)

// MouseEvent is one decoded SGR mouse report. X and Y are zero-based
// cell coordinates.
type MouseEvent struct {
	Kind MouseKind
	X, Y int
	Ctrl bool
}

// Event is a KeyEvent or a MouseEvent.
type Event interface{ isEvent() }

func (KeyEvent) isEvent()   {}
func (MouseEvent) isEvent() {}

// ReadEvents decodes terminal input into events on the returned
// channel. It runs until stdin closes.
func (t *Terminal) ReadEvents() <-chan Event {
	ch := make(chan Event, 16)
	go func() {
		defer close(ch)
		buf := make([]byte, 256)
		for {
			n, err := t.in.Read(buf)
			if err != nil {
				return
			}
			for _, ev := range decodeInput(buf[:n]) {
				ch <- ev
			}
		}
	}()
	return ch
}

// decodeInput parses one chunk of raw terminal input. A lone ESC at
// the end of a chunk is the escape key; sequences never straddle
// chunks in practice.
func decodeInput(data []byte) []Event {
	var events []Event
	for len(data) > 0 {
		ev, n := decodeOne(data)
		if n == 0 {
			break
		}
		if ev != nil {
			events = append(events, ev)
		}
		data = data[n:]
	}
	return events
}

func decodeOne(data []byte) (Event, int) {
	b := data[0]
	switch {
	case b == 0x1b:
		if len(data) == 1 {
			return KeyEvent{Key: KeyEscape}, 1
		}
		if data[1] == '[' {
			return decodeCSI(data)
		}
		// alt-chord, drop the modifier
		return KeyEvent{Key: KeyEscape}, 1
	case b == '\r' || b == '\n':
		return KeyEvent{Key: KeyEnter}, 1
	case b == '\t':
		return KeyEvent{Key: KeyTab}, 1
	case b == 0x7f || b == 0x08:
		return KeyEvent{Key: KeyBackspace}, 1
	case b < 0x20:
		// control chord, 0x01 is ctrl-a
		return KeyEvent{Key: KeyRune, Rune: rune('a' + b - 1), Ctrl: true}, 1
	default:
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size <= 1 {
			return nil, 1
		}
		return KeyEvent{Key: KeyRune, Rune: r}, size
	}
}

// decodeCSI parses an escape sequence starting "\x1b[". Returns nil
// with the consumed length for sequences the browser doesn't use.
func decodeCSI(data []byte) (Event, int) {
	if len(data) >= 3 && data[2] == '<' {
		return decodeMouse(data)
	}
	// parameters run until the final byte in 0x40..0x7e
	i := 2
	for i < len(data) && (data[i] < 0x40 || data[i] > 0x7e) {
		i++
	}
	if i >= len(data) {
		// truncated, treat the ESC alone
		return KeyEvent{Key: KeyEscape}, 1
	}
	final := data[i]
	params := strings.Split(string(data[2:i]), ";")
	length := i + 1

	ctrl := len(params) >= 2 && params[1] == "5"
	key := func(k Key) (Event, int) {
		return KeyEvent{Key: k, Ctrl: ctrl}, length
	}

	switch final {
	case 'A':
		return key(KeyUp)
	case 'B':
		return key(KeyDown)
	case 'C':
		return key(KeyRight)
	case 'D':
		return key(KeyLeft)
	case 'H':
		return key(KeyHome)
	case 'F':
		return key(KeyEnd)
	case '~':
		switch params[0] {
		case "1", "7":
			return key(KeyHome)
		case "3":
			return key(KeyDelete)
		case "4", "8":
			return key(KeyEnd)
		case "5":
			return key(KeyPageUp)
		case "6":
			return key(KeyPageDown)
		case "24":
			return key(KeyF12)
		}
	}
	return nil, length
}

// decodeMouse parses an SGR mouse report "\x1b[<b;x;yM" (press or
// motion) or "...m" (release).
func decodeMouse(data []byte) (Event, int) {
	i := 3
	for i < len(data) && data[i] != 'M' && data[i] != 'm' {
		i++
	}
	if i >= len(data) {
		return KeyEvent{Key: KeyEscape}, 1
	}
	release := data[i] == 'm'
	length := i + 1

	parts := strings.Split(string(data[3:i]), ";")
	if len(parts) != 3 {
		return nil, length
	}
	button, err1 := strconv.Atoi(parts[0])
	x, err2 := strconv.Atoi(parts[1])
	y, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return nil, length
	}

	ev := MouseEvent{X: x - 1, Y: y - 1, Ctrl: button&16 != 0}
	switch {
	case button&64 != 0:
		if button&1 != 0 {
			ev.Kind = MouseScrollDown
		} else {
			ev.Kind = MouseScrollUp
		}
	case button&32 != 0:
		ev.Kind = MouseMove
	case release:
		ev.Kind = MouseRelease
	default:
		ev.Kind = MousePress
	}
	return ev, length
}
