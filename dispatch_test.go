package lesser

import (
	"bytes"
	"reflect"
	"strings"
	"testing"
)

func newTestSession() (*session, *bytes.Buffer) {
	var buf bytes.Buffer
	return &session{out: &buf}, &buf
}

func apply(t *testing.T, s *session, ps *PagerState, cmds ...Command) {
	t.Helper()
	for _, c := range cmds {
		if err := handleEvent(c, s, ps); err != nil {
			t.Fatalf("handleEvent(%T) failed: %v", c, err)
		}
	}
}

func TestSetDataReplacesContent(t *testing.T) {
	s, _ := newTestSession()
	ps := newTestState(t, 80, 25)

	apply(t, s, ps, SetData{Text: testContent})
	if ps.lines != testContent {
		t.Fatalf("lines = %q, want %q", ps.lines, testContent)
	}
	if !reflect.DeepEqual(ps.FormattedLines, []string{testContent}) {
		t.Fatalf("FormattedLines = %v", ps.FormattedLines)
	}

	apply(t, s, ps, SetData{Text: "replacement"})
	if ps.lines != "replacement" {
		t.Fatalf("SetData should replace, got %q", ps.lines)
	}
}

func TestAppendDataExtendsContent(t *testing.T) {
	s, _ := newTestSession()
	ps := newTestState(t, 80, 25)

	apply(t, s, ps, AppendData{Text: "X\n"}, AppendData{Text: "Y"})

	other := newTestState(t, 80, 25)
	apply(t, s, other, SetData{Text: "X\nY"})

	if ps.lines != other.lines {
		t.Fatalf("append and set diverge: %q vs %q", ps.lines, other.lines)
	}
	if !reflect.DeepEqual(ps.FormattedLines, other.FormattedLines) {
		t.Fatalf("formatted rows diverge: %v vs %v", ps.FormattedLines, other.FormattedLines)
	}
}

func TestAppendDataExtendsOpenLine(t *testing.T) {
	s, _ := newTestSession()
	ps := newTestState(t, 80, 25)

	apply(t, s, ps, AppendData{Text: "part"}, AppendData{Text: "ial"})
	if !reflect.DeepEqual(ps.FormattedLines, []string{"partial"}) {
		t.Fatalf("FormattedLines = %v, want [partial]", ps.FormattedLines)
	}
}

func TestStreamedContentRepaintsWithoutInput(t *testing.T) {
	s, buf := newTestSession()
	ps := newTestState(t, 80, 25)

	apply(t, s, ps, SetData{Text: "first chunk\n"})
	if !strings.Contains(buf.String(), "first chunk") {
		t.Fatalf("SetData wrote %q, want the new content on screen", buf.String())
	}

	buf.Reset()
	apply(t, s, ps, AppendData{Text: "second chunk\n"})
	if !strings.Contains(buf.String(), "second chunk") {
		t.Fatalf("AppendData wrote %q, want the appended content on screen", buf.String())
	}

	buf.Reset()
	apply(t, s, ps, AppendData{Text: "open"}, AppendData{Text: " line"})
	if !strings.Contains(buf.String(), "open line") {
		t.Fatalf("partial append wrote %q, want the extended line on screen", buf.String())
	}
}

func TestPromptCommandsRepaintPromptRow(t *testing.T) {
	s, buf := newTestSession()
	ps := newTestState(t, 80, 25)
	apply(t, s, ps, SetData{Text: testContent})
	buf.Reset()

	apply(t, s, ps, SetPrompt{Text: "report.txt"})
	out := buf.String()
	if !strings.Contains(out, "report.txt") {
		t.Fatalf("SetPrompt wrote %q, want the prompt row repainted", out)
	}
	if strings.Contains(out, testContent) {
		t.Fatalf("SetPrompt should repaint only the prompt row, wrote %q", out)
	}

	buf.Reset()
	apply(t, s, ps, SendMessage{Text: "loading done"})
	if !strings.Contains(buf.String(), "loading done") {
		t.Fatalf("SendMessage wrote %q, want the message on the prompt row", buf.String())
	}
}

func TestSetLineNumbersRepaints(t *testing.T) {
	s, buf := newTestSession()
	ps := newTestState(t, 80, 25)
	apply(t, s, ps, SetData{Text: "alpha\nbeta\n"})
	buf.Reset()

	apply(t, s, ps, SetLineNumbers{Mode: LineNumbersEnabled})
	if !strings.Contains(buf.String(), "1. alpha") {
		t.Fatalf("SetLineNumbers wrote %q, want the gutter on screen", buf.String())
	}
}

func TestSetPromptAndSendMessage(t *testing.T) {
	s, _ := newTestSession()
	ps := newTestState(t, 80, 25)

	apply(t, s, ps, SetPrompt{Text: "report.txt"})
	if ps.Prompt != "report.txt" || ps.displayPrompt != "report.txt" {
		t.Fatalf("prompt = %q / %q", ps.Prompt, ps.displayPrompt)
	}

	apply(t, s, ps, SendMessage{Text: "done loading"})
	if ps.Message != "done loading" {
		t.Fatalf("Message = %q", ps.Message)
	}
	if ps.displayPrompt != "done loading" {
		t.Fatalf("message should overlay the prompt, displayPrompt = %q", ps.displayPrompt)
	}
}

func TestRestorePromptClearsMessage(t *testing.T) {
	s, _ := newTestSession()
	ps := newTestState(t, 80, 25)

	apply(t, s, ps,
		SetPrompt{Text: "report.txt"},
		SendMessage{Text: "done loading"},
		UserInput{Event: RestorePrompt{}},
	)
	if ps.Message != "" {
		t.Fatalf("Message = %q, want cleared", ps.Message)
	}
	if ps.displayPrompt != "report.txt" {
		t.Fatalf("displayPrompt = %q, want prompt back", ps.displayPrompt)
	}
}

func TestSetLineNumbersReformats(t *testing.T) {
	s, _ := newTestSession()
	ps := newTestState(t, 80, 25)

	apply(t, s, ps,
		SetData{Text: "alpha\nbeta\n"},
		SetLineNumbers{Mode: LineNumbersEnabled},
	)
	if !strings.HasPrefix(ps.FormattedLines[0], "1. ") {
		t.Fatalf("expected gutter after SetLineNumbers, rows = %v", ps.FormattedLines)
	}

	apply(t, s, ps, SetLineNumbers{Mode: LineNumbersDisabled})
	if ps.FormattedLines[0] != "alpha" {
		t.Fatalf("expected gutter removed, rows = %v", ps.FormattedLines)
	}
}

func TestSimpleSetters(t *testing.T) {
	s, _ := newTestSession()
	ps := newTestState(t, 80, 25)

	apply(t, s, ps,
		SetExitStrategy{Strategy: ProcessQuit},
		SetRunNoOverflow{Value: true},
	)
	if ps.ExitStrategy != ProcessQuit {
		t.Fatalf("ExitStrategy = %v", ps.ExitStrategy)
	}
	if !ps.RunNoOverflow {
		t.Fatalf("RunNoOverflow should be set")
	}
}

func TestDigitInputAccumulatesAndResets(t *testing.T) {
	s, _ := newTestSession()
	ps := newTestState(t, 80, 25)
	apply(t, s, ps, SetData{Text: strings.Repeat("line\n", 100)})

	apply(t, s, ps,
		UserInput{Event: Number{Digit: '5'}},
		UserInput{Event: Number{Digit: '2'}},
	)
	if ps.PrefixNum != "52" {
		t.Fatalf("PrefixNum = %q, want 52", ps.PrefixNum)
	}

	apply(t, s, ps, UserInput{Event: UpdateUpperMark{Mark: 10}})
	if ps.PrefixNum != "" {
		t.Fatalf("PrefixNum = %q, want consumed", ps.PrefixNum)
	}
	if ps.UpperMark != 10 {
		t.Fatalf("UpperMark = %d, want 10", ps.UpperMark)
	}
}

func TestUpdateUpperMarkClampsToContent(t *testing.T) {
	s, _ := newTestSession()
	ps := newTestState(t, 80, 5)
	apply(t, s, ps, SetData{Text: strings.Repeat("line\n", 10)})

	apply(t, s, ps, UserInput{Event: UpdateUpperMark{Mark: 999}})
	if want := 10 - ps.contentHeight(); ps.UpperMark != want {
		t.Fatalf("UpperMark = %d, want clamp at %d", ps.UpperMark, want)
	}
}

func TestUpdateTermAreaReformats(t *testing.T) {
	s, _ := newTestSession()
	ps := newTestState(t, 80, 25)
	apply(t, s, ps, SetData{Text: "abcdefghijklmno\n"})

	apply(t, s, ps, UserInput{Event: UpdateTermArea{Cols: 10, Rows: 12}})
	if ps.Cols != 10 || ps.Rows != 12 {
		t.Fatalf("dims = %dx%d, want 10x12", ps.Cols, ps.Rows)
	}
	if !reflect.DeepEqual(ps.FormattedLines, []string{"abcdefghij", "klmno"}) {
		t.Fatalf("rows not rewrapped: %v", ps.FormattedLines)
	}
}

func TestExitRunsCallbacksAndSignalsSession(t *testing.T) {
	s, _ := newTestSession()
	ps := newTestState(t, 80, 25)

	var order []string
	restored := false
	s.restore = func() { restored = true }
	apply(t, s, ps,
		AddExitCallback{Callback: func() { order = append(order, "first") }},
		AddExitCallback{Callback: func() { order = append(order, "second") }},
		UserInput{Event: Exit{}},
	)

	if !ps.Exited() {
		t.Fatalf("expected exited state")
	}
	if !reflect.DeepEqual(order, []string{"first", "second"}) {
		t.Fatalf("callbacks ran %v", order)
	}
	if !restored {
		t.Fatalf("expected terminal restore on exit")
	}
}

func TestExitIsIdempotent(t *testing.T) {
	s, _ := newTestSession()
	ps := newTestState(t, 80, 25)

	runs := 0
	apply(t, s, ps,
		AddExitCallback{Callback: func() { runs++ }},
		UserInput{Event: Exit{}},
		UserInput{Event: Exit{}},
	)
	if runs != 1 {
		t.Fatalf("exit callbacks ran %d times, want 1", runs)
	}
}

func TestProcessQuitEndsProcessAfterRestore(t *testing.T) {
	s, _ := newTestSession()
	ps := newTestState(t, 80, 25)

	exitCode := -1
	restoredFirst := false
	restored := false
	s.restore = func() { restored = true }
	orig := osExit
	osExit = func(code int) {
		exitCode = code
		restoredFirst = restored
	}
	defer func() { osExit = orig }()

	apply(t, s, ps,
		SetExitStrategy{Strategy: ProcessQuit},
		UserInput{Event: Exit{}},
	)
	if exitCode != 0 {
		t.Fatalf("exit code = %d, want 0", exitCode)
	}
	if !restoredFirst {
		t.Fatalf("process exit must come after the terminal is restored")
	}
}

func TestPostExitCommandsProduceNoOutput(t *testing.T) {
	s, buf := newTestSession()
	ps := newTestState(t, 80, 25)
	apply(t, s, ps, SetData{Text: testContent}, UserInput{Event: Exit{}})
	buf.Reset()

	apply(t, s, ps,
		SetData{Text: "late content"},
		AppendData{Text: "more"},
		SendMessage{Text: "late message"},
	)
	if buf.Len() != 0 {
		t.Fatalf("commands after exit must not touch the terminal, wrote %q", buf.String())
	}
	if !ps.Exited() {
		t.Fatalf("exit flag must stay set")
	}
}

func TestIgnoreInputDoesNothing(t *testing.T) {
	s, buf := newTestSession()
	ps := newTestState(t, 80, 25)
	apply(t, s, ps, SetData{Text: testContent})
	buf.Reset()

	apply(t, s, ps, UserInput{Event: Ignore{}})
	if buf.Len() != 0 {
		t.Fatalf("Ignore should not draw, wrote %q", buf.String())
	}
}

func TestNilClassifiedInputNeverReachesDispatcher(t *testing.T) {
	ps := newTestState(t, 80, 25)
	if got := classifyDefault(ps, keyRune('z')); got != nil {
		t.Fatalf("unbound key should classify to nil, got %+v", got)
	}
}
