package lesser

import (
	"io"
	"strings"

	"github.com/kk-code-lab/lesser/internal/term"
	"github.com/kk-code-lab/lesser/internal/textwrap"
)

// errWriter batches terminal writes and remembers the first failure, so draw
// code stays linear instead of checking every Fprintf.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) Write(b []byte) (int, error) {
	if ew.err != nil {
		return len(b), nil
	}
	n, err := ew.w.Write(b)
	if err != nil {
		ew.err = err
	}
	return n, nil
}

func (ew *errWriter) str(s string) {
	_, _ = ew.Write([]byte(s))
}

// contentHeight is the number of rows available for content; the last row
// belongs to the prompt.
func (p *PagerState) contentHeight() int {
	h := p.Rows - 1
	if h < 1 {
		h = 1
	}
	return h
}

// maxMark is the largest useful upper mark: the one that shows the final
// page. Sentinel marks clamp here, which is what "jump to end" relies on.
func (p *PagerState) maxMark() int {
	m := len(p.FormattedLines) - p.contentHeight()
	if m < 0 {
		return 0
	}
	return m
}

func clampMark(p *PagerState, mark int) int {
	if mark < 0 {
		return 0
	}
	if m := p.maxMark(); mark > m {
		return m
	}
	return mark
}

// drawFull repaints the whole viewport and the prompt line.
func drawFull(out io.Writer, p *PagerState) error {
	p.UpperMark = clampMark(p, p.UpperMark)

	ew := &errWriter{w: out}
	ew.str(term.HideCursor)
	ew.str(term.CursorHome)

	h := p.contentHeight()
	for i := 0; i < h; i++ {
		ew.str(term.ClearLine)
		if idx := p.UpperMark + i; idx < len(p.FormattedLines) {
			ew.str(p.FormattedLines[idx])
		}
		ew.str("\r\n")
	}
	drawPrompt(ew, p)
	return ew.err
}

// drawForChange repaints only what a move of the upper mark exposes: the
// viewport scrolls and the newly visible rows are painted. Jumps of a screen
// or more fall back to a full repaint. The mark is clamped in place so the
// caller commits the value that was actually drawn.
func drawForChange(out io.Writer, p *PagerState, newMark *int) error {
	*newMark = clampMark(p, *newMark)
	delta := *newMark - p.UpperMark
	if delta == 0 {
		return nil
	}

	h := p.contentHeight()
	if delta >= h || -delta >= h {
		p.UpperMark = *newMark
		return drawFull(out, p)
	}

	ew := &errWriter{w: out}
	ew.str(term.HideCursor)
	term.SetScrollRegion(ew, 1, h)
	if delta > 0 {
		term.ScrollUp(ew, delta)
		for i := 0; i < delta; i++ {
			term.MoveTo(ew, h-delta+i+1, 1)
			ew.str(term.ClearLine)
			if idx := *newMark + h - delta + i; idx < len(p.FormattedLines) {
				ew.str(p.FormattedLines[idx])
			}
		}
	} else {
		term.ScrollDown(ew, -delta)
		for i := 0; i < -delta; i++ {
			term.MoveTo(ew, i+1, 1)
			ew.str(term.ClearLine)
			if idx := *newMark + i; idx < len(p.FormattedLines) {
				ew.str(p.FormattedLines[idx])
			}
		}
	}
	ew.str(term.ResetRegion)
	drawPrompt(ew, p)
	return ew.err
}

// drawPrompt paints the reverse-video status line on the bottom row.
func drawPrompt(ew *errWriter, p *PagerState) {
	term.MoveTo(ew, p.Rows, 1)
	ew.str(term.ClearLine)
	ew.str(term.AttrReverse)
	line := p.displayPrompt
	if pad := p.Cols - textwrap.DisplayWidth(line); pad > 0 {
		line += strings.Repeat(" ", pad)
	}
	ew.str(line)
	ew.str(term.AttrReset)
}
