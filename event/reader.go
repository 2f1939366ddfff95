package event

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Decoder turns the raw byte stream of a terminal in raw mode into Events.
// It understands CSI and SS3 sequences for navigation keys, SGR mouse
// reports, Alt-prefixed keys, control bytes and multibyte UTF-8 runes.
type Decoder struct {
	r *bufio.Reader
}

func NewDecoder(r io.Reader) *Decoder {
	if br, ok := r.(*bufio.Reader); ok {
		return &Decoder{r: br}
	}
	return &Decoder{r: bufio.NewReader(r)}
}

// Buffered reports how many decoded-but-unread bytes are pending.
func (d *Decoder) Buffered() int {
	return d.r.Buffered()
}

// ReadEvent blocks for the next raw input and decodes it. Unrecognized
// sequences decode to a zero Key rather than an error so a stray byte never
// kills the polling loop.
func (d *Decoder) ReadEvent() (Event, error) {
	b, err := d.r.ReadByte()
	if err != nil {
		return nil, err
	}

	switch {
	case b == 0x1b:
		return d.readEscape()
	case b == '\r' || b == '\n':
		return Key{Code: KeyEnter}, nil
	case b == '\t':
		return Key{Code: KeyTab}, nil
	case b == 0x7f:
		return Key{Code: KeyBackspace}, nil
	case b < 0x20:
		// Control byte: Ctrl+letter. 0x01..0x1a map back onto 'a'..'z'.
		return Key{Code: KeyRune, Rune: rune(b) + 0x60, Mod: ModCtrl}, nil
	case b < utf8.RuneSelf:
		return Key{Code: KeyRune, Rune: rune(b)}, nil
	}

	return d.readRune(b)
}

func (d *Decoder) readRune(first byte) (Event, error) {
	buf := []byte{first}
	for !utf8.FullRune(buf) && len(buf) < utf8.UTFMax {
		b, err := d.r.ReadByte()
		if err != nil {
			break
		}
		buf = append(buf, b)
	}
	r, _ := utf8.DecodeRune(buf)
	if r == utf8.RuneError {
		return Key{}, nil
	}
	return Key{Code: KeyRune, Rune: r}, nil
}

func (d *Decoder) readEscape() (Event, error) {
	if d.r.Buffered() == 0 {
		return Key{Code: KeyEsc}, nil
	}
	next, err := d.r.ReadByte()
	if err != nil {
		return Key{Code: KeyEsc}, nil
	}

	switch next {
	case '[':
		return d.readCSI()
	case 'O':
		final, err := d.r.ReadByte()
		if err != nil {
			return Key{Code: KeyEsc}, nil
		}
		switch final {
		case 'A':
			return Key{Code: KeyUp}, nil
		case 'B':
			return Key{Code: KeyDown}, nil
		case 'C':
			return Key{Code: KeyRight}, nil
		case 'D':
			return Key{Code: KeyLeft}, nil
		case 'H':
			return Key{Code: KeyHome}, nil
		case 'F':
			return Key{Code: KeyEnd}, nil
		}
		return Key{}, nil
	default:
		// Alt-prefixed key: decode the remainder and add the modifier.
		if err := d.r.UnreadByte(); err != nil {
			return Key{Code: KeyEsc}, nil
		}
		ev, err := d.ReadEvent()
		if err != nil {
			return Key{Code: KeyEsc}, nil
		}
		if k, ok := ev.(Key); ok {
			k.Mod |= ModAlt
			return k, nil
		}
		return ev, nil
	}
}

func (d *Decoder) readCSI() (Event, error) {
	seq := make([]byte, 0, 16)
	for {
		b, err := d.r.ReadByte()
		if err != nil {
			return Key{Code: KeyEsc}, nil
		}
		seq = append(seq, b)
		if b >= 0x40 && b <= 0x7e {
			break
		}
		if len(seq) > 24 {
			return Key{}, nil
		}
	}

	final := seq[len(seq)-1]
	body := string(seq[:len(seq)-1])

	if strings.HasPrefix(body, "<") && (final == 'M' || final == 'm') {
		return decodeSGRMouse(body[1:], final == 'm'), nil
	}

	mod := csiModifiers(body)
	switch final {
	case 'A':
		return Key{Code: KeyUp, Mod: mod}, nil
	case 'B':
		return Key{Code: KeyDown, Mod: mod}, nil
	case 'C':
		return Key{Code: KeyRight, Mod: mod}, nil
	case 'D':
		return Key{Code: KeyLeft, Mod: mod}, nil
	case 'H':
		return Key{Code: KeyHome, Mod: mod}, nil
	case 'F':
		return Key{Code: KeyEnd, Mod: mod}, nil
	case 'Z':
		return Key{Code: KeyBacktab, Mod: mod | ModShift}, nil
	case '~':
		switch strings.SplitN(body, ";", 2)[0] {
		case "1", "7":
			return Key{Code: KeyHome, Mod: mod}, nil
		case "2":
			return Key{Code: KeyInsert, Mod: mod}, nil
		case "3":
			return Key{Code: KeyDelete, Mod: mod}, nil
		case "4", "8":
			return Key{Code: KeyEnd, Mod: mod}, nil
		case "5":
			return Key{Code: KeyPageUp, Mod: mod}, nil
		case "6":
			return Key{Code: KeyPageDown, Mod: mod}, nil
		}
	}
	return Key{}, nil
}

// csiModifiers extracts the xterm modifier parameter ("1;5A" style). The
// encoded value is modifier bits plus one: shift=1, alt=2, ctrl=4.
func csiModifiers(body string) Modifiers {
	parts := strings.Split(body, ";")
	if len(parts) < 2 {
		return 0
	}
	n, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil || n < 2 {
		return 0
	}
	bits := n - 1
	var mod Modifiers
	if bits&1 != 0 {
		mod |= ModShift
	}
	if bits&2 != 0 {
		mod |= ModAlt
	}
	if bits&4 != 0 {
		mod |= ModCtrl
	}
	return mod
}

// decodeSGRMouse decodes an SGR (1006) mouse report "b;x;y".
func decodeSGRMouse(body string, release bool) Event {
	parts := strings.Split(body, ";")
	if len(parts) != 3 {
		return Key{}
	}
	b, err1 := strconv.Atoi(parts[0])
	x, err2 := strconv.Atoi(parts[1])
	y, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return Key{}
	}

	var mod Modifiers
	if b&4 != 0 {
		mod |= ModShift
	}
	if b&8 != 0 {
		mod |= ModAlt
	}
	if b&16 != 0 {
		mod |= ModCtrl
	}

	m := Mouse{Mod: mod, X: x - 1, Y: y - 1}
	switch {
	case b&64 != 0:
		if b&1 != 0 {
			m.Kind = MouseScrollDown
		} else {
			m.Kind = MouseScrollUp
		}
	case release:
		m.Kind = MouseRelease
	case b&32 != 0:
		m.Kind = MouseMotion
	default:
		switch b & 3 {
		case 0:
			m.Kind = MouseLeft
		case 1:
			m.Kind = MouseMiddle
		case 2:
			m.Kind = MouseRight
		default:
			m.Kind = MouseMotion
		}
	}
	return m
}
