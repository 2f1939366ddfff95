package event

import (
	"io"
	"strings"
	"testing"
)

func decodeOne(t *testing.T, input string) Event {
	t.Helper()
	ev, err := NewDecoder(strings.NewReader(input)).ReadEvent()
	if err != nil {
		t.Fatalf("ReadEvent(%q) failed: %v", input, err)
	}
	return ev
}

func TestReadEventPlainBytes(t *testing.T) {
	cases := []struct {
		input string
		want  Event
	}{
		{"q", Key{Code: KeyRune, Rune: 'q'}},
		{"G", Key{Code: KeyRune, Rune: 'G'}},
		{" ", Key{Code: KeyRune, Rune: ' '}},
		{"\r", Key{Code: KeyEnter}},
		{"\n", Key{Code: KeyEnter}},
		{"\t", Key{Code: KeyTab}},
		{"\x7f", Key{Code: KeyBackspace}},
		{"\x03", Key{Code: KeyRune, Rune: 'c', Mod: ModCtrl}},
		{"\x15", Key{Code: KeyRune, Rune: 'u', Mod: ModCtrl}},
	}
	for _, tc := range cases {
		if got := decodeOne(t, tc.input); got != tc.want {
			t.Fatalf("ReadEvent(%q) = %+v, want %+v", tc.input, got, tc.want)
		}
	}
}

func TestReadEventMultibyteRune(t *testing.T) {
	if got := decodeOne(t, "é"); got != (Key{Code: KeyRune, Rune: 'é'}) {
		t.Fatalf("expected é, got %+v", got)
	}
	if got := decodeOne(t, "世"); got != (Key{Code: KeyRune, Rune: '世'}) {
		t.Fatalf("expected 世, got %+v", got)
	}
}

func TestReadEventEscapeSequences(t *testing.T) {
	cases := []struct {
		input string
		want  Event
	}{
		{"\x1b[A", Key{Code: KeyUp}},
		{"\x1b[B", Key{Code: KeyDown}},
		{"\x1bOC", Key{Code: KeyRight}},
		{"\x1bOH", Key{Code: KeyHome}},
		{"\x1b[1;5A", Key{Code: KeyUp, Mod: ModCtrl}},
		{"\x1b[1;2D", Key{Code: KeyLeft, Mod: ModShift}},
		{"\x1b[5~", Key{Code: KeyPageUp}},
		{"\x1b[6~", Key{Code: KeyPageDown}},
		{"\x1b[3~", Key{Code: KeyDelete}},
		{"\x1b[Z", Key{Code: KeyBacktab, Mod: ModShift}},
	}
	for _, tc := range cases {
		if got := decodeOne(t, tc.input); got != tc.want {
			t.Fatalf("ReadEvent(%q) = %+v, want %+v", tc.input, got, tc.want)
		}
	}
}

func TestReadEventBareEscape(t *testing.T) {
	if got := decodeOne(t, "\x1b"); got != (Key{Code: KeyEsc}) {
		t.Fatalf("expected bare Esc, got %+v", got)
	}
}

func TestReadEventAltPrefix(t *testing.T) {
	if got := decodeOne(t, "\x1bx"); got != (Key{Code: KeyRune, Rune: 'x', Mod: ModAlt}) {
		t.Fatalf("expected Alt+x, got %+v", got)
	}
}

func TestReadEventSGRMouse(t *testing.T) {
	cases := []struct {
		input string
		want  Event
	}{
		{"\x1b[<64;10;5M", Mouse{Kind: MouseScrollUp, X: 9, Y: 4}},
		{"\x1b[<65;1;1M", Mouse{Kind: MouseScrollDown, X: 0, Y: 0}},
		{"\x1b[<0;3;4M", Mouse{Kind: MouseLeft, X: 2, Y: 3}},
		{"\x1b[<1;3;4M", Mouse{Kind: MouseMiddle, X: 2, Y: 3}},
		{"\x1b[<2;3;4M", Mouse{Kind: MouseRight, X: 2, Y: 3}},
		{"\x1b[<0;3;4m", Mouse{Kind: MouseRelease, X: 2, Y: 3}},
		{"\x1b[<16;1;1M", Mouse{Kind: MouseLeft, Mod: ModCtrl, X: 0, Y: 0}},
		{"\x1b[<68;1;1M", Mouse{Kind: MouseScrollUp, Mod: ModShift, X: 0, Y: 0}},
	}
	for _, tc := range cases {
		if got := decodeOne(t, tc.input); got != tc.want {
			t.Fatalf("ReadEvent(%q) = %+v, want %+v", tc.input, got, tc.want)
		}
	}
}

func TestReadEventSequentialStream(t *testing.T) {
	dec := NewDecoder(strings.NewReader("j\x1b[Aq"))
	want := []Event{
		Key{Code: KeyRune, Rune: 'j'},
		Key{Code: KeyUp},
		Key{Code: KeyRune, Rune: 'q'},
	}
	for i, w := range want {
		got, err := dec.ReadEvent()
		if err != nil {
			t.Fatalf("event %d failed: %v", i, err)
		}
		if got != w {
			t.Fatalf("event %d = %+v, want %+v", i, got, w)
		}
	}
	if _, err := dec.ReadEvent(); err != io.EOF {
		t.Fatalf("expected EOF after stream drained, got %v", err)
	}
}

func TestReadEventUnknownSequenceDoesNotError(t *testing.T) {
	dec := NewDecoder(strings.NewReader("\x1b[99~q"))
	if _, err := dec.ReadEvent(); err != nil {
		t.Fatalf("unknown sequence should decode without error, got %v", err)
	}
	got, err := dec.ReadEvent()
	if err != nil {
		t.Fatalf("stream should continue past unknown sequence: %v", err)
	}
	if got != (Key{Code: KeyRune, Rune: 'q'}) {
		t.Fatalf("expected q after unknown sequence, got %+v", got)
	}
}
