package event

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// modifierAbbrevs maps the single-letter modifier prefixes used in binding
// patterns ("c-u", "m-left", "s-tab") to modifier bits. Process-wide constant
// data; never mutated after init.
var modifierAbbrevs = map[string]Modifiers{
	"c": ModCtrl,
	"m": ModAlt,
	"s": ModShift,
}

var keyNames = map[string]KeyCode{
	"up":        KeyUp,
	"down":      KeyDown,
	"left":      KeyLeft,
	"right":     KeyRight,
	"home":      KeyHome,
	"end":       KeyEnd,
	"pageup":    KeyPageUp,
	"pagedown":  KeyPageDown,
	"enter":     KeyEnter,
	"tab":       KeyTab,
	"backtab":   KeyBacktab,
	"backspace": KeyBackspace,
	"delete":    KeyDelete,
	"insert":    KeyInsert,
	"esc":       KeyEsc,
}

var mouseNames = map[string]MouseKind{
	"scrollup":   MouseScrollUp,
	"scrolldown": MouseScrollDown,
	"left":       MouseLeft,
	"middle":     MouseMiddle,
	"right":      MouseRight,
	"release":    MouseRelease,
	"motion":     MouseMotion,
}

// ParseKeyPattern parses a textual key binding pattern like "q", "G", "c-u",
// "m-s-left" or "space" into a Key. The final dash-separated token names the
// key; every preceding token must be a modifier abbreviation.
func ParseKeyPattern(pattern string) (Key, error) {
	tokens := strings.Split(pattern, "-")
	if len(tokens) == 0 || tokens[len(tokens)-1] == "" {
		return Key{}, fmt.Errorf("empty key pattern %q", pattern)
	}

	var mod Modifiers
	for _, tok := range tokens[:len(tokens)-1] {
		m, ok := modifierAbbrevs[strings.ToLower(tok)]
		if !ok {
			return Key{}, fmt.Errorf("unknown modifier %q in pattern %q", tok, pattern)
		}
		mod |= m
	}

	name := tokens[len(tokens)-1]
	if code, ok := keyNames[strings.ToLower(name)]; ok {
		return Key{Code: code, Mod: mod}, nil
	}
	if name == "space" {
		return Key{Code: KeyRune, Rune: ' ', Mod: mod}, nil
	}
	if utf8.RuneCountInString(name) == 1 {
		r, _ := utf8.DecodeRuneInString(name)
		return Key{Code: KeyRune, Rune: r, Mod: mod}, nil
	}
	return Key{}, fmt.Errorf("unknown key name %q in pattern %q", name, pattern)
}

// ParseMousePattern parses a mouse binding pattern like "scrollup" or
// "c-left". Coordinates never appear in patterns; a mouse binding matches the
// action wherever it happens.
func ParseMousePattern(pattern string) (Mouse, error) {
	tokens := strings.Split(pattern, "-")
	if len(tokens) == 0 || tokens[len(tokens)-1] == "" {
		return Mouse{}, fmt.Errorf("empty mouse pattern %q", pattern)
	}

	var mod Modifiers
	for _, tok := range tokens[:len(tokens)-1] {
		m, ok := modifierAbbrevs[strings.ToLower(tok)]
		if !ok {
			return Mouse{}, fmt.Errorf("unknown modifier %q in pattern %q", tok, pattern)
		}
		mod |= m
	}

	kind, ok := mouseNames[strings.ToLower(tokens[len(tokens)-1])]
	if !ok {
		return Mouse{}, fmt.Errorf("unknown mouse action %q in pattern %q", tokens[len(tokens)-1], pattern)
	}
	return Mouse{Kind: kind, Mod: mod}, nil
}
