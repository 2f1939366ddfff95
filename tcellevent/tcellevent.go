// Package tcellevent converts tcell events into the pager's raw event model,
// for hosts that embed the pager inside a tcell application and want to feed
// it input from their own polling loop instead of giving it the terminal.
package tcellevent

import (
	"github.com/gdamore/tcell/v2"

	"github.com/kk-code-lab/lesser/event"
)

// From translates a tcell event. The second return is false for event types
// the pager has no use for (paste, focus, interrupt).
func From(ev tcell.Event) (event.Event, bool) {
	switch e := ev.(type) {
	case *tcell.EventKey:
		return fromKey(e)
	case *tcell.EventMouse:
		return fromMouse(e)
	case *tcell.EventResize:
		w, h := e.Size()
		return event.Resize{Cols: w, Rows: h}, true
	}
	return nil, false
}

func fromKey(e *tcell.EventKey) (event.Event, bool) {
	mod := fromModifiers(e.Modifiers())

	switch e.Key() {
	case tcell.KeyUp:
		return event.Key{Code: event.KeyUp, Mod: mod}, true
	case tcell.KeyDown:
		return event.Key{Code: event.KeyDown, Mod: mod}, true
	case tcell.KeyLeft:
		return event.Key{Code: event.KeyLeft, Mod: mod}, true
	case tcell.KeyRight:
		return event.Key{Code: event.KeyRight, Mod: mod}, true
	case tcell.KeyHome:
		return event.Key{Code: event.KeyHome, Mod: mod}, true
	case tcell.KeyEnd:
		return event.Key{Code: event.KeyEnd, Mod: mod}, true
	case tcell.KeyPgUp:
		return event.Key{Code: event.KeyPageUp, Mod: mod}, true
	case tcell.KeyPgDn:
		return event.Key{Code: event.KeyPageDown, Mod: mod}, true
	case tcell.KeyEnter:
		return event.Key{Code: event.KeyEnter, Mod: mod &^ event.ModCtrl}, true
	case tcell.KeyTab:
		return event.Key{Code: event.KeyTab, Mod: mod &^ event.ModCtrl}, true
	case tcell.KeyBacktab:
		return event.Key{Code: event.KeyBacktab, Mod: mod | event.ModShift}, true
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return event.Key{Code: event.KeyBackspace, Mod: mod &^ event.ModCtrl}, true
	case tcell.KeyDelete:
		return event.Key{Code: event.KeyDelete, Mod: mod}, true
	case tcell.KeyInsert:
		return event.Key{Code: event.KeyInsert, Mod: mod}, true
	case tcell.KeyEscape:
		return event.Key{Code: event.KeyEsc, Mod: mod &^ event.ModCtrl}, true
	case tcell.KeyRune:
		return event.Key{Code: event.KeyRune, Rune: e.Rune(), Mod: mod}, true
	}

	// Ctrl+letter arrives as a dedicated key constant with the control
	// byte's value; map it back to the letter plus the modifier bit.
	if k := e.Key(); k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
		r := rune('a' + (k - tcell.KeyCtrlA))
		return event.Key{Code: event.KeyRune, Rune: r, Mod: mod | event.ModCtrl}, true
	}
	return nil, false
}

func fromMouse(e *tcell.EventMouse) (event.Event, bool) {
	x, y := e.Position()
	m := event.Mouse{Mod: fromModifiers(e.Modifiers()), X: x, Y: y}

	btns := e.Buttons()
	switch {
	case btns&tcell.WheelUp != 0:
		m.Kind = event.MouseScrollUp
	case btns&tcell.WheelDown != 0:
		m.Kind = event.MouseScrollDown
	case btns&tcell.Button1 != 0:
		m.Kind = event.MouseLeft
	case btns&tcell.Button2 != 0:
		m.Kind = event.MouseRight
	case btns&tcell.Button3 != 0:
		m.Kind = event.MouseMiddle
	case btns == tcell.ButtonNone:
		m.Kind = event.MouseMotion
	default:
		return nil, false
	}
	return m, true
}

func fromModifiers(m tcell.ModMask) event.Modifiers {
	var mod event.Modifiers
	if m&tcell.ModCtrl != 0 {
		mod |= event.ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		mod |= event.ModAlt
	}
	if m&tcell.ModShift != 0 {
		mod |= event.ModShift
	}
	return mod
}
