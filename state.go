// Package lesser is an embeddable terminal pager engine. A host streams text
// into a Pager while the engine handles scrolling, wrapping, search, resizes
// and clean exit on its own goroutines.
//
// Default keybindings: arrows/j/k scroll (with numeric prefix), u/d half
// screens, PageUp/PageDown/Space whole screens, g/G jump to top/bottom,
// mouse wheel scrolls by five, Ctrl+L toggles line numbers, / and ? search
// forward and backward with n/p for match navigation, q or Ctrl+C quits.
package lesser

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"golang.org/x/term"

	"github.com/kk-code-lab/lesser/internal/textwrap"
)

// LineNumbers controls the line-number gutter. The Enabled/Disabled pair can
// be flipped by the user with Ctrl+L; the AlwaysOn/AlwaysOff pair locks the
// display against that toggle.
type LineNumbers int

const (
	LineNumbersDisabled LineNumbers = iota
	LineNumbersEnabled
	LineNumbersAlwaysOff
	LineNumbersAlwaysOn
)

// IsOn reports whether line numbers are currently displayed.
func (l LineNumbers) IsOn() bool {
	return l == LineNumbersEnabled || l == LineNumbersAlwaysOn
}

// toggled flips the user-controllable pair and leaves the locked pair alone.
func (l LineNumbers) toggled() LineNumbers {
	switch l {
	case LineNumbersEnabled:
		return LineNumbersDisabled
	case LineNumbersDisabled:
		return LineNumbersEnabled
	default:
		return l
	}
}

// ExitStrategy describes what a user-requested quit does beyond ending the
// pager session.
type ExitStrategy int

const (
	// PagerQuit ends the pager session and returns control to the host.
	PagerQuit ExitStrategy = iota
	// ProcessQuit ends the whole process once the terminal is restored.
	ProcessQuit
)

// SearchMode is the direction of the active search.
type SearchMode int

const (
	SearchModeForward SearchMode = iota
	SearchModeReverse
)

// PagerState is the single mutable aggregate behind a pager session. The
// dispatcher owns all mutation; classifiers receive it as a read-only view.
// Exported fields are what classifiers legitimately inspect.
type PagerState struct {
	lines string // raw content, newline separated, possibly unterminated

	// FormattedLines is the display-ready form of the content: wrapped to
	// the terminal width, sanitized, with the line-number gutter applied.
	// Always consistent with lines, Cols and LineNumbers.
	FormattedLines []string

	// UpperMark is the index into FormattedLines of the first visible row.
	// It may exceed the content length; draws clamp it.
	UpperMark int

	Cols int
	Rows int

	LineNumbers LineNumbers

	// Prompt is the status line text. Message, when non-empty, overlays it
	// until a RestorePrompt input clears it.
	Prompt  string
	Message string

	ExitStrategy  ExitStrategy
	RunNoOverflow bool

	// PrefixNum is the pending digit buffer for count-prefixed movement.
	PrefixNum string

	SearchMode SearchMode
	SearchTerm *regexp.Regexp
	// SearchIdx lists the FormattedLines indices matching SearchTerm, in
	// ascending order. SearchMark is the cursor into it.
	SearchIdx  []int
	SearchMark int

	inputClassifier  InputClassifier
	exitCallbacks    []func()
	exited           bool
	unterminatedRows int // rows of FormattedLines owned by an open last line
	displayPrompt    string
}

// NewPagerState builds a state sized to the attached terminal, falling back
// to 80x25 when none is available (tests, pipelines).
func NewPagerState() *PagerState {
	cols, rows := 80, 25
	if c, r, err := term.GetSize(int(os.Stdout.Fd())); err == nil && c > 0 && r > 0 {
		cols, rows = c, r
	}
	p := &PagerState{
		Cols:            cols,
		Rows:            rows,
		Prompt:          "lesser",
		inputClassifier: DefaultInputClassifier{},
	}
	p.formatLines()
	p.formatPrompt()
	return p
}

// Exited reports whether the session has ended.
func (p *PagerState) Exited() bool {
	return p.exited
}

// exit marks the session terminated and runs the exit callbacks once, in
// registration order.
func (p *PagerState) exit() {
	if p.exited {
		return
	}
	p.exited = true
	for _, cb := range p.exitCallbacks {
		cb()
	}
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	s = strings.TrimSuffix(s, "\n")
	return strings.Split(s, "\n")
}

// formatLines recomputes FormattedLines from the raw buffer, the terminal
// width and the line-number mode, and regenerates the search index when a
// pattern is active.
func (p *PagerState) formatLines() {
	width := p.Cols
	if width < 1 {
		width = 1
	}

	raw := splitLines(p.lines)
	gutter := 0
	if p.LineNumbers.IsOn() && len(raw) > 0 {
		gutter = textwrap.GutterWidth(len(raw))
	}

	formatted := make([]string, 0, len(raw))
	lastStart := 0
	for i, line := range raw {
		lastStart = len(formatted)
		formatted = append(formatted, textwrap.FormatLine(line, width, i+1, gutter)...)
	}
	p.FormattedLines = formatted

	if p.lines == "" || strings.HasSuffix(p.lines, "\n") {
		p.unterminatedRows = 0
	} else {
		p.unterminatedRows = len(formatted) - lastStart
	}

	p.populateSearchIdx()
}

func (p *PagerState) populateSearchIdx() {
	if p.SearchTerm == nil {
		p.SearchIdx = nil
		return
	}
	idx := make([]int, 0, 16)
	for i, row := range p.FormattedLines {
		if p.SearchTerm.MatchString(row) {
			idx = append(idx, i)
		}
	}
	p.SearchIdx = idx
	if p.SearchMark >= len(idx) {
		p.SearchMark = saturatingSub(len(idx), 1)
	}
}

type appendStyle int

const (
	appendFullReformat appendStyle = iota
	appendPartialUpdate
)

// appendStr merges text into the raw buffer and classifies the display
// update: a partial update when the text merely extends an open last line, a
// full reformat when it adds lines or when a search index would go stale.
func (p *PagerState) appendStr(text string) appendStyle {
	partial := p.lines != "" &&
		!strings.HasSuffix(p.lines, "\n") &&
		!strings.Contains(text, "\n") &&
		p.SearchTerm == nil
	p.lines += text
	if partial {
		return appendPartialUpdate
	}
	return appendFullReformat
}

// appendStrOnUnterminated rewraps only the open last line, replacing the rows
// it previously occupied.
func (p *PagerState) appendStrOnUnterminated() {
	raw := splitLines(p.lines)
	if len(raw) == 0 {
		return
	}
	width := p.Cols
	if width < 1 {
		width = 1
	}
	gutter := 0
	if p.LineNumbers.IsOn() {
		gutter = textwrap.GutterWidth(len(raw))
	}
	rows := textwrap.FormatLine(raw[len(raw)-1], width, len(raw), gutter)
	keep := len(p.FormattedLines) - p.unterminatedRows
	p.FormattedLines = append(p.FormattedLines[:keep], rows...)
	p.unterminatedRows = len(rows)
}

// formatPrompt recomputes the status line: message over prompt on the left,
// search position on the right, fitted to the terminal width.
func (p *PagerState) formatPrompt() {
	width := p.Cols
	if width < 1 {
		width = 1
	}

	left := p.Prompt
	if p.Message != "" {
		left = p.Message
	}

	right := ""
	if p.SearchTerm != nil {
		if len(p.SearchIdx) == 0 {
			right = "no matches"
		} else {
			right = fmt.Sprintf("%d/%d", p.SearchMark+1, len(p.SearchIdx))
		}
	}

	line := left
	if right != "" {
		pad := width - textwrap.DisplayWidth(left) - textwrap.DisplayWidth(right)
		if pad < 1 {
			pad = 1
		}
		line = left + strings.Repeat(" ", pad) + right
	}
	p.displayPrompt = textwrap.Truncate(line, width)
}
