// Package term owns the terminal session for the pager: acquiring a tty,
// switching raw mode on and off, querying size and writing the small set of
// ANSI control sequences the renderer needs.
package term

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"golang.org/x/term"
)

// Terminal wraps the tty the pager controls while a session is running.
type Terminal struct {
	input    *os.File
	output   io.Writer
	reader   *bufio.Reader
	writer   *bufio.Writer
	restore  *term.State
	ownsFile bool
}

// Open acquires /dev/tty for both input and output, falling back to
// stdin/stdout on Windows where the device node does not exist.
func Open() (*Terminal, error) {
	t := &Terminal{}
	tty, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err != nil {
		if runtime.GOOS != "windows" {
			return nil, err
		}
		t.input = os.Stdin
		t.output = os.Stdout
	} else {
		t.input = tty
		t.output = tty
		t.ownsFile = true
	}

	if t.input == nil {
		return nil, errors.New("no tty available")
	}
	t.reader = bufio.NewReader(t.input)
	t.writer = bufio.NewWriter(t.output)
	return t, nil
}

// MakeRaw switches the tty into raw mode, remembering the previous state.
func (t *Terminal) MakeRaw() error {
	state, err := term.MakeRaw(int(t.input.Fd()))
	if err != nil {
		return err
	}
	t.restore = state
	return nil
}

// Restore leaves raw mode and releases the tty. Safe to call more than once.
func (t *Terminal) Restore() {
	if t.restore != nil {
		_ = term.Restore(int(t.input.Fd()), t.restore)
		t.restore = nil
	}
	if t.writer != nil {
		_ = t.writer.Flush()
	}
	if t.ownsFile {
		_ = t.input.Close()
		t.ownsFile = false
	}
}

// Size reports the current terminal dimensions.
func (t *Terminal) Size() (cols, rows int, err error) {
	return term.GetSize(int(t.input.Fd()))
}

// Reader exposes the buffered input stream. The caller is responsible for
// making sure only one goroutine reads from it at a time.
func (t *Terminal) Reader() *bufio.Reader {
	return t.reader
}

// Writer exposes the buffered output stream.
func (t *Terminal) Writer() *bufio.Writer {
	return t.writer
}

func (t *Terminal) Fd() int {
	return int(t.input.Fd())
}

// ANSI control sequences used by the renderer.
const (
	HideCursor     = "\x1b[?25l"
	ShowCursor     = "\x1b[?25h"
	EnterAltScreen = "\x1b[?1049h"
	ExitAltScreen  = "\x1b[?1049l"
	ClearScreen    = "\x1b[2J"
	ClearLine      = "\x1b[2K"
	CursorHome     = "\x1b[H"
	EnableMouse    = "\x1b[?1000h\x1b[?1006h"
	DisableMouse   = "\x1b[?1006l\x1b[?1000l"
	WrapOff        = "\x1b[?7l"
	WrapOn         = "\x1b[?7h"
	ResetRegion    = "\x1b[r"
	AttrReverse    = "\x1b[7m"
	AttrReset      = "\x1b[0m"
)

// MoveTo positions the cursor at a one-based row and column.
func MoveTo(out io.Writer, row, col int) {
	fmt.Fprintf(out, "\x1b[%d;%dH", row, col)
}

// SetScrollRegion restricts scrolling to rows top..bottom (one-based).
func SetScrollRegion(out io.Writer, top, bottom int) {
	fmt.Fprintf(out, "\x1b[%d;%dr", top, bottom)
}

// ScrollUp scrolls the region up by n rows (content moves up).
func ScrollUp(out io.Writer, n int) {
	fmt.Fprintf(out, "\x1b[%dS", n)
}

// ScrollDown scrolls the region down by n rows (content moves down).
func ScrollDown(out io.Writer, n int) {
	fmt.Fprintf(out, "\x1b[%dT", n)
}
