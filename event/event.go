// Package event defines the raw terminal input model consumed by the pager:
// key presses, mouse actions and resize notifications. Values are small,
// comparable and produced fresh per input, so they can be matched against
// keybinding patterns and used in guard conditions.
package event

// Modifiers is a bitmask of the modifier keys held during an input.
type Modifiers uint8

const (
	ModCtrl Modifiers = 1 << iota
	ModAlt
	ModShift
)

// KeyCode identifies a non-printable key. Printable keys use KeyRune with the
// Rune field carrying the character.
type KeyCode int

const (
	KeyRune KeyCode = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyEnter
	KeyTab
	KeyBacktab
	KeyBackspace
	KeyDelete
	KeyInsert
	KeyEsc
)

// MouseKind identifies the action of a mouse event independent of where on
// the screen it happened.
type MouseKind int

const (
	MouseScrollUp MouseKind = iota
	MouseScrollDown
	MouseLeft
	MouseMiddle
	MouseRight
	MouseRelease
	MouseMotion
)

// Event is one raw terminal input. The closed set of implementations is Key,
// Mouse and Resize.
type Event interface {
	isEvent()
}

// Key is a single key press, optionally with modifiers.
type Key struct {
	Code KeyCode
	Rune rune
	Mod  Modifiers
}

// Mouse is a pointer action. X and Y are zero-based screen coordinates; they
// identify where the action happened, not which action it was.
type Mouse struct {
	Kind MouseKind
	Mod  Modifiers
	X    int
	Y    int
}

// Resize reports the new terminal dimensions.
type Resize struct {
	Cols int
	Rows int
}

func (Key) isEvent()    {}
func (Mouse) isEvent()  {}
func (Resize) isEvent() {}
