package lesser

import (
	"github.com/kk-code-lab/lesser/internal/textenc"
)

// Pager is the host-facing handle on a pager session. Its methods enqueue
// commands onto the ordered event stream the dispatcher consumes; they are
// safe to call from any goroutine, before or during a run. The channel
// applies backpressure rather than dropping: a send blocks briefly if the
// dispatcher is behind, and delivery order is preserved.
type Pager struct {
	events chan Command
}

const eventBuffer = 64

func NewPager() *Pager {
	return &Pager{events: make(chan Command, eventBuffer)}
}

// Run starts an interactive session and blocks until it ends.
func (p *Pager) Run() error {
	return RunDynamic(p)
}

// SetText replaces the whole content. BOM-marked UTF-16 input is decoded and
// CRLF line endings folded before the text enters the buffer.
func (p *Pager) SetText(text string) {
	p.events <- SetData{Text: textenc.NormalizeString(text)}
}

// AppendText adds text to the end of the content. Text without a trailing
// newline leaves the last line open; a later append can extend it.
func (p *Pager) AppendText(text string) {
	p.events <- AppendData{Text: textenc.FoldLineEndings(text)}
}

// Write implements io.Writer so hosts can stream into the pager with fmt and
// friends. It never fails; the data is queued for the dispatcher.
func (p *Pager) Write(b []byte) (int, error) {
	p.events <- AppendData{Text: textenc.FoldLineEndings(string(b))}
	return len(b), nil
}

// SetPrompt replaces the status-line prompt.
func (p *Pager) SetPrompt(text string) {
	p.events <- SetPrompt{Text: text}
}

// SendMessage overlays the prompt with a transient notice.
func (p *Pager) SendMessage(text string) {
	p.events <- SendMessage{Text: text}
}

func (p *Pager) SetLineNumbers(mode LineNumbers) {
	p.events <- SetLineNumbers{Mode: mode}
}

func (p *Pager) SetExitStrategy(strategy ExitStrategy) {
	p.events <- SetExitStrategy{Strategy: strategy}
}

// SetRunNoOverflow controls whether Page bypasses interaction when the
// content fits on one screen.
func (p *Pager) SetRunNoOverflow(v bool) {
	p.events <- SetRunNoOverflow{Value: v}
}

// SetInputClassifier installs a custom classifier, replacing the default
// bindings wholesale.
func (p *Pager) SetInputClassifier(c InputClassifier) {
	p.events <- SetInputClassifier{Classifier: c}
}

// AddExitCallback registers fn to run when the session exits cleanly.
func (p *Pager) AddExitCallback(fn func()) {
	p.events <- AddExitCallback{Callback: fn}
}
