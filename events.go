package lesser

// Command is the base interface for everything the dispatcher consumes: host
// instructions and wrapped user input. The set of variants below is closed;
// hosts customize behavior by installing their own InputClassifier, not by
// inventing new commands.
type Command interface{}

// SetData replaces the entire content buffer.
type SetData struct {
	Text string
}

// AppendData adds text to the end of the content buffer. Text without a
// trailing newline leaves the last line open for further appends.
type AppendData struct {
	Text string
}

// SetPrompt replaces the prompt shown on the status line.
type SetPrompt struct {
	Text string
}

// SendMessage temporarily overlays the prompt with a notice. A RestorePrompt
// input clears it again.
type SendMessage struct {
	Text string
}

// SetLineNumbers switches the line-number display mode.
type SetLineNumbers struct {
	Mode LineNumbers
}

// SetExitStrategy controls what a user-requested quit does to the process.
type SetExitStrategy struct {
	Strategy ExitStrategy
}

// SetRunNoOverflow controls whether static mode bypasses paging when the
// content fits on one screen.
type SetRunNoOverflow struct {
	Value bool
}

// SetInputClassifier swaps the active input classifier.
type SetInputClassifier struct {
	Classifier InputClassifier
}

// AddExitCallback registers a function to run when the session exits.
// Callbacks accumulate and run in registration order.
type AddExitCallback struct {
	Callback func()
}

// UserInput wraps a classified input event into the command stream so host
// commands and user input share one ordered channel.
type UserInput struct {
	Event InputEvent
}
