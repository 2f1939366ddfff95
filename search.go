package lesser

import (
	"bufio"
	"io"
	"sort"

	"github.com/kk-code-lab/lesser/event"
	"github.com/kk-code-lab/lesser/internal/term"
)

// nextNthMatch moves the match cursor to the nth match beyond the current
// view, saturating at the last match, and scrolls the view to it. It reports
// whether the view moved.
func nextNthMatch(p *PagerState, n int) bool {
	if len(p.SearchIdx) == 0 {
		return false
	}
	if n < 1 {
		n = 1
	}

	// First match strictly below the current view, then n-1 further.
	pos := sort.SearchInts(p.SearchIdx, p.UpperMark+1)
	if pos < len(p.SearchIdx) {
		p.SearchMark = pos + n - 1
		if p.SearchMark >= len(p.SearchIdx) {
			p.SearchMark = len(p.SearchIdx) - 1
		}
	} else {
		p.SearchMark = len(p.SearchIdx) - 1
	}

	y := p.SearchIdx[p.SearchMark]
	p.formatPrompt()
	if y != p.UpperMark {
		p.UpperMark = y
		return true
	}
	return false
}

// prevNthMatch moves the match cursor back by n, saturating at zero, and
// scrolls up when the match sits above the current view. Empty match set is
// a no-op. Reports whether the view moved.
func prevNthMatch(p *PagerState, n int) bool {
	if len(p.SearchIdx) == 0 {
		return false
	}
	p.SearchMark = saturatingSub(p.SearchMark, n)
	y := p.SearchIdx[p.SearchMark]
	p.formatPrompt()
	if y < p.UpperMark {
		p.UpperMark = y
		return true
	}
	return false
}

// fetchInput reads the search query with a line editor on the prompt row:
// printable keys echo, backspace edits, Enter submits, Esc or Ctrl+C abort
// with an empty query. The input-polling goroutine must be paused while this
// runs; it is the only other reader of the same stream.
func fetchInput(out io.Writer, in io.Reader, mode SearchMode, rows int) (string, error) {
	if in == nil {
		return "", nil
	}

	marker := "/"
	if mode == SearchModeReverse {
		marker = "?"
	}

	query := make([]rune, 0, 32)
	redraw := func() {
		ew := &errWriter{w: out}
		term.MoveTo(ew, rows, 1)
		ew.str(term.ClearLine)
		ew.str(term.ShowCursor)
		ew.str(marker)
		ew.str(string(query))
		flush(out)
	}
	redraw()
	defer func() {
		ew := &errWriter{w: out}
		ew.str(term.HideCursor)
		flush(out)
	}()

	dec := event.NewDecoder(in)
	for {
		ev, err := dec.ReadEvent()
		if err != nil {
			return "", err
		}
		k, ok := ev.(event.Key)
		if !ok {
			continue
		}
		switch {
		case k.Code == event.KeyEnter:
			return string(query), nil
		case k.Code == event.KeyEsc,
			k.Code == event.KeyRune && k.Rune == 'c' && k.Mod == event.ModCtrl:
			return "", nil
		case k.Code == event.KeyBackspace:
			if len(query) > 0 {
				query = query[:len(query)-1]
				redraw()
			}
		case k.Code == event.KeyRune && k.Mod&event.ModCtrl == 0:
			query = append(query, k.Rune)
			redraw()
		}
	}
}

func flush(out io.Writer) {
	if bw, ok := out.(*bufio.Writer); ok {
		_ = bw.Flush()
	}
}
