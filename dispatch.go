package lesser

import (
	"io"
	"os"
	"regexp"
	"sync/atomic"

	"github.com/kk-code-lab/lesser/internal/term"
)

// invalidPatternMessage is shown on the prompt row when a search query does
// not compile. Enter restores the prompt.
const invalidPatternMessage = "Invalid regular expression. Press Enter"

// osExit is swapped out by tests that exercise ProcessQuit.
var osExit = os.Exit

// session carries the per-run collaborators the dispatcher needs beyond the
// state itself: the terminal streams, the raw-mode restore hook and the
// pause flag shared with the input-polling goroutine. Tests run with buffers
// and nil hooks.
type session struct {
	out     io.Writer
	in      io.Reader
	restore func()
	uia     *userInputActive
	exited  *atomic.Bool
}

func (s *session) markExited() {
	if s.exited != nil {
		s.exited.Store(true)
	}
}

// handleEvent applies one Command to the state: exactly one transition per
// variant plus whatever derived recomputation it requires. It runs on the
// dispatcher goroutine only, strictly in arrival order.
func handleEvent(ev Command, s *session, p *PagerState) error {
	switch c := ev.(type) {
	case SetData:
		p.lines = c.Text
		p.formatLines()
		return drawLive(s, p)
	case AppendData:
		if p.appendStr(c.Text) == appendPartialUpdate {
			p.appendStrOnUnterminated()
		} else {
			p.formatLines()
		}
		return drawLive(s, p)
	case SetPrompt:
		p.Prompt = c.Text
		p.formatPrompt()
		return drawPromptLive(s, p)
	case SendMessage:
		p.Message = c.Text
		p.formatPrompt()
		return drawPromptLive(s, p)
	case SetLineNumbers:
		p.LineNumbers = c.Mode
		p.formatLines()
		return drawLive(s, p)
	case SetExitStrategy:
		p.ExitStrategy = c.Strategy
	case SetRunNoOverflow:
		p.RunNoOverflow = c.Value
	case SetInputClassifier:
		p.inputClassifier = c.Classifier
	case AddExitCallback:
		p.exitCallbacks = append(p.exitCallbacks, c.Callback)
	case UserInput:
		return handleInput(c.Event, s, p)
	}
	return nil
}

// drawLive repaints the viewport after a host command changed the content.
// Streamed appends must show up without waiting for a keypress. Once the
// session has exited nothing is written.
func drawLive(s *session, p *PagerState) error {
	if p.exited {
		return nil
	}
	return drawFull(s.out, p)
}

// drawPromptLive repaints only the prompt row for prompt/message commands.
func drawPromptLive(s *session, p *PagerState) error {
	if p.exited {
		return nil
	}
	ew := &errWriter{w: s.out}
	drawPrompt(ew, p)
	return ew.err
}

// handleInput applies one classified user input. Digits accumulate into the
// prefix buffer; every other input consumes and resets it.
func handleInput(ev InputEvent, s *session, p *PagerState) error {
	if n, ok := ev.(Number); ok {
		p.PrefixNum += string(n.Digit)
		return nil
	}
	defer func() { p.PrefixNum = "" }()

	switch e := ev.(type) {
	case Exit:
		p.exit()
		s.markExited()
		return cleanup(s, p.ExitStrategy, true)

	case UpdateUpperMark:
		mark := e.Mark
		if err := drawForChange(s.out, p, &mark); err != nil {
			return err
		}
		p.UpperMark = mark

	case RestorePrompt:
		p.Message = ""
		p.formatPrompt()
		ew := &errWriter{w: s.out}
		drawPrompt(ew, p)
		return ew.err

	case UpdateTermArea:
		p.Cols = e.Cols
		p.Rows = e.Rows
		p.formatLines()
		p.formatPrompt()
		return drawFull(s.out, p)

	case UpdateLineNumber:
		p.LineNumbers = e.Mode
		p.formatLines()
		return drawFull(s.out, p)

	case Search:
		return enterSearch(e.Mode, s, p)

	case NextMatch:
		if p.SearchTerm == nil {
			return nil
		}
		if nextNthMatch(p, 1) {
			return drawFull(s.out, p)
		}

	case MoveToNextMatch:
		if p.SearchTerm == nil {
			return nil
		}
		if nextNthMatch(p, e.Count) {
			return drawFull(s.out, p)
		}

	case PrevMatch:
		if p.SearchTerm == nil {
			return nil
		}
		if prevNthMatch(p, 1) {
			return drawFull(s.out, p)
		}

	case MoveToPrevMatch:
		if p.SearchTerm == nil {
			return nil
		}
		if prevNthMatch(p, e.Count) {
			return drawFull(s.out, p)
		}

	case Ignore:
	}
	return nil
}

// enterSearch pauses the polling goroutine, borrows the terminal for a
// blocking query read, resumes polling, then applies the query. An invalid
// pattern becomes a transient message and touches nothing else; an empty
// query is a no-op. An exit request arriving while the read is in flight
// waits in the event channel and takes effect right after.
func enterSearch(mode SearchMode, s *session, p *PagerState) error {
	p.SearchMode = mode

	if s.uia != nil {
		s.uia.pause()
	}
	query, err := fetchInput(s.out, s.in, mode, p.Rows)
	if s.uia != nil {
		s.uia.resume()
	}
	if err != nil {
		return err
	}
	if query == "" {
		return drawFull(s.out, p)
	}

	re, cerr := regexp.Compile(query)
	if cerr != nil {
		p.Message = invalidPatternMessage
		p.formatPrompt()
		ew := &errWriter{w: s.out}
		drawPrompt(ew, p)
		return ew.err
	}

	p.SearchTerm = re
	// Reformatting regenerates the match index for the new pattern.
	p.formatLines()
	p.SearchMark = 0
	nextNthMatch(p, 1)
	p.formatPrompt()
	return drawFull(s.out, p)
}

// cleanup restores the terminal on exit: mouse capture off, cursor back,
// raw mode undone. The in-memory exit transition has already completed by
// the time this runs, so a write failure here is reported without undoing
// it. With ProcessQuit the process ends here, after the terminal is sane
// again.
func cleanup(s *session, strategy ExitStrategy, dueToUserExit bool) error {
	ew := &errWriter{w: s.out}
	ew.str(term.DisableMouse)
	ew.str(term.ShowCursor)
	ew.str(term.WrapOn)
	ew.str(term.ExitAltScreen)
	flush(s.out)
	if s.restore != nil {
		s.restore()
	}
	if strategy == ProcessQuit && dueToUserExit {
		osExit(0)
	}
	return ew.err
}
