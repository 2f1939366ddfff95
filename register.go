package lesser

import (
	"fmt"

	"github.com/kk-code-lab/lesser/event"
)

// CallbackFn produces the semantic event for a raw input that matched a
// binding. It receives the concrete input (bindings on a mouse action still
// see the coordinates) and a read-only view of the pager state.
type CallbackFn func(ev event.Event, ps *PagerState) InputEvent

// BindType selects which pattern parser an Insert call goes through.
type BindType int

const (
	BindKey BindType = iota
	BindMouse
	BindResize
)

type registerKind int

const (
	bindWild registerKind = iota
	bindKeyEvent
	bindMouseEvent
	bindResizeEvent
)

// registerKey is the canonical binding identity of a raw input. Mouse events
// collapse to (kind, modifiers) so one binding fires wherever the pointer
// was; resize collapses to a single identity regardless of the new size.
// Keys keep full structural identity. Normalizing before the map lookup keeps
// equality and hashing consistent by construction.
type registerKey struct {
	kind      registerKind
	key       event.Key
	mouseKind event.MouseKind
	mouseMod  event.Modifiers
}

func canonicalKey(ev event.Event) registerKey {
	switch e := ev.(type) {
	case event.Key:
		return registerKey{kind: bindKeyEvent, key: e}
	case event.Mouse:
		return registerKey{kind: bindMouseEvent, mouseKind: e.Kind, mouseMod: e.Mod}
	case event.Resize:
		return registerKey{kind: bindResizeEvent}
	default:
		return registerKey{kind: bindWild}
	}
}

// EventRegister is a keybinding table implementing InputClassifier: exact
// entries first, then the wildcard entry if one was registered, else no
// classification. Hosts populate one and install it with SetInputClassifier.
//
// Construction-time misuse (an unparsable pattern, or Insert with BindResize,
// which has no textual pattern) panics: bindings are programmer data, not
// runtime input. Lookup never panics.
type EventRegister struct {
	table map[registerKey]CallbackFn
}

func NewEventRegister() *EventRegister {
	return &EventRegister{table: make(map[registerKey]CallbackFn)}
}

// Insert registers fn for one binding pattern.
func (r *EventRegister) Insert(bind BindType, pattern string, fn CallbackFn) {
	switch bind {
	case BindKey:
		k, err := event.ParseKeyPattern(pattern)
		if err != nil {
			panic(fmt.Sprintf("lesser: bad key binding: %v", err))
		}
		r.table[registerKey{kind: bindKeyEvent, key: k}] = fn
	case BindMouse:
		m, err := event.ParseMousePattern(pattern)
		if err != nil {
			panic(fmt.Sprintf("lesser: bad mouse binding: %v", err))
		}
		r.table[canonicalKey(m)] = fn
	case BindResize:
		panic("lesser: resize bindings have no textual pattern; use InsertResizeHandler")
	default:
		panic(fmt.Sprintf("lesser: unknown bind type %d", bind))
	}
}

// InsertAll registers the same callback for several patterns at once.
func (r *EventRegister) InsertAll(bind BindType, patterns []string, fn CallbackFn) {
	for _, p := range patterns {
		r.Insert(bind, p, fn)
	}
}

// InsertWildEventMatcher registers the fallback callback used when no exact
// entry matches.
func (r *EventRegister) InsertWildEventMatcher(fn CallbackFn) {
	r.table[registerKey{kind: bindWild}] = fn
}

// InsertResizeHandler registers the callback for terminal resize inputs. All
// resizes share one binding identity; the callback reads the dimensions off
// the event itself.
func (r *EventRegister) InsertResizeHandler(fn CallbackFn) {
	r.table[registerKey{kind: bindResizeEvent}] = fn
}

func (r *EventRegister) get(ev event.Event) CallbackFn {
	if fn, ok := r.table[canonicalKey(ev)]; ok {
		return fn
	}
	return r.table[registerKey{kind: bindWild}]
}

// ClassifyInput implements InputClassifier.
func (r *EventRegister) ClassifyInput(ev event.Event, ps *PagerState) InputEvent {
	fn := r.get(ev)
	if fn == nil {
		return nil
	}
	return fn(ev, ps)
}

// DefaultEventRegister returns a register pre-populated with the default
// bindings, for hosts that want the stock behavior with a few keys changed.
func DefaultEventRegister() *EventRegister {
	r := NewEventRegister()

	r.InsertAll(BindKey, []string{"up", "k"}, func(_ event.Event, ps *PagerState) InputEvent {
		return UpdateUpperMark{saturatingSub(ps.UpperMark, ps.PrefixCount())}
	})
	r.InsertAll(BindKey, []string{"down", "j"}, func(_ event.Event, ps *PagerState) InputEvent {
		return UpdateUpperMark{saturatingAdd(ps.UpperMark, ps.PrefixCount())}
	})
	r.InsertAll(BindKey, []string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9"},
		func(ev event.Event, _ *PagerState) InputEvent {
			return Number{Digit: byte(ev.(event.Key).Rune)}
		})
	r.Insert(BindKey, "enter", func(_ event.Event, ps *PagerState) InputEvent {
		if ps.Message != "" {
			return RestorePrompt{}
		}
		return UpdateUpperMark{saturatingAdd(ps.UpperMark, ps.PrefixCount())}
	})
	r.InsertAll(BindKey, []string{"u", "c-u"}, func(_ event.Event, ps *PagerState) InputEvent {
		return UpdateUpperMark{saturatingSub(ps.UpperMark, ps.Rows/2)}
	})
	r.InsertAll(BindKey, []string{"d", "c-d"}, func(_ event.Event, ps *PagerState) InputEvent {
		return UpdateUpperMark{saturatingAdd(ps.UpperMark, ps.Rows/2)}
	})
	r.Insert(BindMouse, "scrollup", func(_ event.Event, ps *PagerState) InputEvent {
		return UpdateUpperMark{saturatingSub(ps.UpperMark, 5)}
	})
	r.Insert(BindMouse, "scrolldown", func(_ event.Event, ps *PagerState) InputEvent {
		return UpdateUpperMark{saturatingAdd(ps.UpperMark, 5)}
	})
	r.Insert(BindKey, "g", func(_ event.Event, _ *PagerState) InputEvent {
		return UpdateUpperMark{0}
	})
	r.InsertAll(BindKey, []string{"G", "s-G", "s-g"}, func(_ event.Event, ps *PagerState) InputEvent {
		return UpdateUpperMark{ps.prefixTarget()}
	})
	r.Insert(BindKey, "pageup", func(_ event.Event, ps *PagerState) InputEvent {
		return UpdateUpperMark{saturatingSub(ps.UpperMark, screenJump(ps.Rows))}
	})
	r.InsertAll(BindKey, []string{"pagedown", "space"}, func(_ event.Event, ps *PagerState) InputEvent {
		return UpdateUpperMark{saturatingAdd(ps.UpperMark, screenJump(ps.Rows))}
	})
	r.InsertResizeHandler(func(ev event.Event, _ *PagerState) InputEvent {
		rs := ev.(event.Resize)
		return UpdateTermArea{Cols: rs.Cols, Rows: rs.Rows}
	})
	r.Insert(BindKey, "c-l", func(_ event.Event, ps *PagerState) InputEvent {
		return UpdateLineNumber{ps.LineNumbers.toggled()}
	})
	r.InsertAll(BindKey, []string{"q", "c-c"}, func(_ event.Event, _ *PagerState) InputEvent {
		return Exit{}
	})
	r.Insert(BindKey, "/", func(_ event.Event, _ *PagerState) InputEvent {
		return Search{Mode: SearchModeForward}
	})
	r.Insert(BindKey, "?", func(_ event.Event, _ *PagerState) InputEvent {
		return Search{Mode: SearchModeReverse}
	})
	r.Insert(BindKey, "n", func(_ event.Event, ps *PagerState) InputEvent {
		if ps.SearchMode == SearchModeReverse {
			return MoveToPrevMatch{ps.PrefixCount()}
		}
		return MoveToNextMatch{ps.PrefixCount()}
	})
	r.Insert(BindKey, "p", func(_ event.Event, ps *PagerState) InputEvent {
		if ps.SearchMode == SearchModeReverse {
			return MoveToNextMatch{ps.PrefixCount()}
		}
		return MoveToPrevMatch{ps.PrefixCount()}
	})

	return r
}

// screenJump is the distance PageUp/PageDown move: a full screen less one
// row of overlap.
func screenJump(rows int) int {
	if rows <= 1 {
		return 1
	}
	return rows - 1
}
