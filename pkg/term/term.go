package term

import (
	"fmt"
	"os"
	"os/signal"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

const (
	enterAltScreen = "\x1b[?1049h"
	leaveAltScreen = "\x1b[?1049l"
	hideCursor     = "\x1b[?25l"
	showCursor     = "\x1b[?25h"
	// button presses, drag motion and SGR encoding
	enableMouse  = "\x1b[?1000h\x1b[?1002h\x1b[?1006h"
	disableMouse = "\x1b[?1006l\x1b[?1002l\x1b[?1000l"
)

// Terminal owns the controlling terminal: raw mode, the alternate
// screen, mouse reporting and resize signals.
type Terminal struct {
	in      *os.File
	out     *os.File
	oldMode *term.State
	resize  chan os.Signal
	// Resized fires after the terminal changes size.
	Resized chan struct{}
}

// Open puts the terminal into raw mode, switches to the alternate
// screen and enables mouse reporting. Call Close before exiting, the
// terminal is unusable otherwise.
func Open() (*Terminal, error) {
	t := &Terminal{
		in:      os.Stdin,
		out:     os.Stdout,
		resize:  make(chan os.Signal, 1),
		Resized: make(chan struct{}, 1),
	}
	state, err := term.MakeRaw(int(t.in.Fd()))
	if err != nil {
		return nil, fmt.Errorf("entering raw mode: %w", err)
	}
	t.oldMode = state

	fmt.Fprint(t.out, enterAltScreen+hideCursor+enableMouse)

	signal.Notify(t.resize, unix.SIGWINCH)
	go func() {
		for range t.resize {
			select {
			case t.Resized <- struct{}{}:
			default:
			}
		}
	}()
	return t, nil
}

// Close restores the terminal. Safe to call more than once.
func (t *Terminal) Close() {
	if t.oldMode == nil {
		return
	}
	signal.Stop(t.resize)
	fmt.Fprint(t.out, disableMouse+showCursor+leaveAltScreen)
	term.Restore(int(t.in.Fd()), t.oldMode)
	t.oldMode = nil
}

// Size returns the terminal dimensions in cells.
func (t *Terminal) Size() (w, h int, err error) {
	return term.GetSize(int(t.out.Fd()))
}

// Write sends raw escape output to the terminal.
func (t *Terminal) Write(p []byte) (int, error) {
	return t.out.Write(p)
}

// ShowCursorAt places and reveals the cursor, for the modal text
// input. Row and col are zero-based.
func (t *Terminal) ShowCursorAt(col, row int) {
	fmt.Fprintf(t.out, "\x1b[%d;%dH%s", row+1, col+1, showCursor)
}

// HideCursor hides the cursor again after modal input ends.
func (t *Terminal) HideCursor() {
	fmt.Fprint(t.out, hideCursor)
}

// Restore re-applies raw mode state after a panic unwound it, used by
// the crash handler so the report isn't garbled.
func Restore() {
	fmt.Fprint(os.Stdout, disableMouse+showCursor+leaveAltScreen)
}
