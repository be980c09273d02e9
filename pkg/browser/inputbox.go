package browser

import (
	"strings"

	"github.com/ingobeans/toad/pkg/term"
)

type inputTarget int

const (
	// targetAddress navigates the current tab on submit.
	targetAddress inputTarget = iota
	// targetNewTab opens the submitted URL in a new tab.
	targetNewTab
	// targetFormField writes the text into a form's field.
	targetFormField
)

type inputState int

const (
	inputActive inputState = iota
	inputSubmitted
	inputCancelled
)

// InputBox is the modal single-line editor used for the address bar
// and form text fields. While active it captures all key events.
type InputBox struct {
	state  inputState
	target inputTarget
	text   []rune
	cursor int

	// suggest enables the https:// autocompletion for URL targets.
	suggest bool
	// form and field say where targetFormField submits to.
	form  int
	field string
	// screenX and screenY are where the editor overlays, in cells.
	screenX, screenY int
	width            int
}

func newAddressBox(target inputTarget, initial string, x, y, width int) *InputBox {
	return &InputBox{
		target:  target,
		text:    []rune(initial),
		cursor:  len([]rune(initial)),
		suggest: true,
		screenX: x,
		screenY: y,
		width:   width,
	}
}

func newFieldBox(form int, field, initial string, x, y, width int) *InputBox {
	return &InputBox{
		target:  targetFormField,
		text:    []rune(initial),
		cursor:  len([]rune(initial)),
		form:    form,
		field:   field,
		screenX: x,
		screenY: y,
		width:   width,
	}
}

func (b *InputBox) Text() string { return string(b.text) }

// Suggestion returns the completion drawn after the cursor, empty when
// none applies. Only URL boxes suggest, and only a scheme prefix.
func (b *InputBox) Suggestion() string {
	if !b.suggest || len(b.text) == 0 {
		return ""
	}
	s := string(b.text)
	if strings.Contains(s, "://") || strings.HasPrefix(s, "toad:") {
		return ""
	}
	const scheme = "https://"
	if strings.HasPrefix(scheme, s) {
		return scheme[len(s):]
	}
	return ""
}

// acceptSuggestion realizes the pending completion.
func (b *InputBox) acceptSuggestion() {
	if s := b.Suggestion(); s != "" {
		b.text = append(b.text, []rune(s)...)
		b.cursor = len(b.text)
	}
}

// Handle feeds one key event through the state machine.
func (b *InputBox) Handle(ev term.KeyEvent) {
	switch {
	case ev.Key == term.KeyEnter:
		b.acceptSuggestion()
		b.state = inputSubmitted
	case ev.Key == term.KeyEscape:
		b.state = inputCancelled
	case ev.Key == term.KeyRune && ev.Ctrl && ev.Rune == 'c':
		b.state = inputCancelled
	case ev.Key == term.KeyBackspace:
		if b.cursor > 0 {
			b.text = append(b.text[:b.cursor-1], b.text[b.cursor:]...)
			b.cursor--
		}
	case ev.Key == term.KeyDelete:
		if b.cursor < len(b.text) {
			b.text = append(b.text[:b.cursor], b.text[b.cursor+1:]...)
		}
	case ev.Key == term.KeyLeft && ev.Ctrl:
		b.cursor = b.wordLeft()
	case ev.Key == term.KeyRight && ev.Ctrl:
		b.cursor = b.wordRight()
	case ev.Key == term.KeyLeft:
		if b.cursor > 0 {
			b.cursor--
		}
	case ev.Key == term.KeyRight:
		if b.cursor == len(b.text) {
			b.acceptSuggestion()
		} else {
			b.cursor++
		}
	case ev.Key == term.KeyHome:
		b.cursor = 0
	case ev.Key == term.KeyEnd:
		if b.cursor == len(b.text) {
			b.acceptSuggestion()
		}
		b.cursor = len(b.text)
	case ev.Key == term.KeyRune && !ev.Ctrl:
		b.text = append(b.text[:b.cursor], append([]rune{ev.Rune}, b.text[b.cursor:]...)...)
		b.cursor++
	}
}

func (b *InputBox) wordLeft() int {
	i := b.cursor
	for i > 0 && b.text[i-1] == ' ' {
		i--
	}
	for i > 0 && b.text[i-1] != ' ' {
		i--
	}
	return i
}

func (b *InputBox) wordRight() int {
	i := b.cursor
	for i < len(b.text) && b.text[i] != ' ' {
		i++
	}
	for i < len(b.text) && b.text[i] == ' ' {
		i++
	}
	return i
}
