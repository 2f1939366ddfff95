package lesser

import (
	"math"
	"strconv"
	"sync"

	"github.com/kk-code-lab/lesser/event"
)

// InputEvent is a semantic interpretation of one raw terminal input. The
// variants below form a closed set; all of them are comparable so they can be
// tested with == and used in guard conditions.
type InputEvent interface{}

// Exit quits the pager session.
type Exit struct{}

// UpdateTermArea carries new terminal dimensions.
type UpdateTermArea struct {
	Cols int
	Rows int
}

// UpdateUpperMark moves the view so Mark becomes the first visible row. Marks
// past end of content are clamped at draw time, which is how "jump to end"
// works: the sentinel math.MaxInt always clamps to the last page.
type UpdateUpperMark struct {
	Mark int
}

// UpdateLineNumber switches the line-number display mode.
type UpdateLineNumber struct {
	Mode LineNumbers
}

// Number accumulates one digit into the prefix-count buffer.
type Number struct {
	Digit byte
}

// RestorePrompt clears a transient message and restores the prompt.
type RestorePrompt struct{}

// Ignore is an explicit no-op, useful for wildcard bindings that want to
// swallow input.
type Ignore struct{}

// Search enters search-entry mode in the given direction.
type Search struct {
	Mode SearchMode
}

// NextMatch moves to the next search match in the current direction.
type NextMatch struct{}

// PrevMatch moves to the previous search match.
type PrevMatch struct{}

// MoveToNextMatch moves forward by Count matches.
type MoveToNextMatch struct {
	Count int
}

// MoveToPrevMatch moves backward by Count matches.
type MoveToPrevMatch struct {
	Count int
}

// InputClassifier maps a raw terminal input plus a read-only view of the
// pager state to a semantic event. Returning nil means the input has no
// meaning under the current state and the dispatcher does nothing.
// Implementations must not mutate the state.
type InputClassifier interface {
	ClassifyInput(ev event.Event, ps *PagerState) InputEvent
}

// DefaultInputClassifier is the built-in binding policy described in the
// package documentation. It delegates to a process-wide immutable register
// built once on first use.
type DefaultInputClassifier struct{}

var defaultRegister = sync.OnceValue(DefaultEventRegister)

func (DefaultInputClassifier) ClassifyInput(ev event.Event, ps *PagerState) InputEvent {
	return defaultRegister().ClassifyInput(ev, ps)
}

// PrefixCount parses the accumulated digit buffer as the repeat count for
// movement keys, defaulting to 1 when empty or unparsable.
func (p *PagerState) PrefixCount() int {
	n, err := strconv.Atoi(p.PrefixNum)
	if err != nil {
		return 1
	}
	return n
}

// prefixTarget resolves the digit buffer for "go to line": the prefix-count-th
// line as a zero-based mark, or the end-of-content sentinel when the buffer is
// empty, unparsable or zero.
func (p *PagerState) prefixTarget() int {
	n, err := strconv.Atoi(p.PrefixNum)
	if err != nil || n == 0 {
		return math.MaxInt
	}
	return n - 1
}

func saturatingSub(a, b int) int {
	if b >= a {
		return 0
	}
	return a - b
}

func saturatingAdd(a, b int) int {
	if s := a + b; s >= a {
		return s
	}
	return math.MaxInt
}
