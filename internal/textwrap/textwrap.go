// Package textwrap turns raw content lines into display rows: tab expansion,
// terminal-width wrapping, sanitizing of control characters and the optional
// line-number gutter.
package textwrap

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

const DefaultTabWidth = 4

// ExpandTabs replaces tab characters with spaces respecting terminal column width.
func ExpandTabs(text string, tabWidth int) string {
	if tabWidth <= 0 || !strings.ContainsRune(text, '\t') {
		return text
	}

	var builder strings.Builder
	column := 0
	for _, ru := range text {
		if ru == '\t' {
			spaces := tabWidth - (column % tabWidth)
			for i := 0; i < spaces; i++ {
				builder.WriteByte(' ')
			}
			column += spaces
			continue
		}
		builder.WriteRune(ru)
		width := runewidth.RuneWidth(ru)
		if width < 1 {
			width = 1
		}
		column += width
	}
	return builder.String()
}

// DisplayWidth reports the printable width of text accounting for wide runes.
func DisplayWidth(text string) int {
	width := 0
	for _, ru := range text {
		w := runewidth.RuneWidth(ru)
		if w <= 0 {
			w = 1
		}
		width += w
	}
	return width
}

// Sanitize replaces control characters so content cannot inject terminal
// escape sequences when rendered. Tabs survive (they are expanded later).
func Sanitize(text string) string {
	clean := true
	for _, r := range text {
		if r != '\t' && (r < 0x20 || r == 0x7f) {
			clean = false
			break
		}
	}
	if clean {
		return text
	}

	var b strings.Builder
	for _, r := range text {
		if r != '\t' && (r < 0x20 || r == 0x7f) {
			b.WriteByte('?')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// WrapLine splits a single content line into rows no wider than width,
// breaking on grapheme-cluster boundaries so combining sequences and emoji
// never straddle a row break. An empty line yields one empty row.
func WrapLine(line string, width int) []string {
	if width < 1 {
		width = 1
	}
	if line == "" {
		return []string{""}
	}

	rows := make([]string, 0, DisplayWidth(line)/width+1)
	var row strings.Builder
	col := 0

	state := -1
	remaining := line
	for len(remaining) > 0 {
		var cluster string
		cluster, remaining, _, state = uniseg.FirstGraphemeClusterInString(remaining, state)
		w := DisplayWidth(cluster)
		if w < 1 {
			w = 1
		}
		if col+w > width && col > 0 {
			rows = append(rows, row.String())
			row.Reset()
			col = 0
		}
		row.WriteString(cluster)
		col += w
	}
	rows = append(rows, row.String())
	return rows
}

// Truncate cuts text to fit width, appending an ellipsis when anything was
// dropped. Grapheme-aware for the same reason WrapLine is.
func Truncate(text string, width int) string {
	if width <= 0 {
		return ""
	}
	if DisplayWidth(text) <= width {
		return text
	}

	const ellipsis = "…"
	target := width - 1
	if target < 1 {
		return ellipsis
	}

	var builder strings.Builder
	col := 0
	state := -1
	remaining := text
	for len(remaining) > 0 {
		var cluster string
		cluster, remaining, _, state = uniseg.FirstGraphemeClusterInString(remaining, state)
		w := DisplayWidth(cluster)
		if w < 1 {
			w = 1
		}
		if col+w > target {
			break
		}
		builder.WriteString(cluster)
		col += w
	}
	builder.WriteString(ellipsis)
	return builder.String()
}

// GutterWidth reports the width of the line-number gutter for a buffer of
// lineCount lines, including the trailing ". " separator.
func GutterWidth(lineCount int) int {
	digits := 1
	for lineCount >= 10 {
		lineCount /= 10
		digits++
	}
	return digits + 2
}

// FormatLine wraps one content line for display. When gutter > 0 the first
// row is prefixed with the one-based line number and continuation rows with
// matching padding, wrapping the text within the remaining width.
func FormatLine(line string, width, number, gutter int) []string {
	line = ExpandTabs(Sanitize(line), DefaultTabWidth)
	if gutter <= 0 {
		return WrapLine(line, width)
	}

	textWidth := width - gutter
	if textWidth < 1 {
		textWidth = 1
	}
	wrapped := WrapLine(line, textWidth)
	rows := make([]string, len(wrapped))
	pad := strings.Repeat(" ", gutter)
	for i, w := range wrapped {
		if i == 0 {
			rows[i] = fmt.Sprintf("%*d. %s", gutter-2, number, w)
		} else {
			rows[i] = pad + w
		}
	}
	return rows
}
