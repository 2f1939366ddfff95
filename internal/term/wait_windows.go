//go:build windows || plan9 || js || wasip1

package term

import "errors"

var ErrWaitCancelled = errors.New("input wait cancelled")

// InputWaiter on platforms without select(2) support degrades to an
// uncancellable wait: Wait returns immediately and the subsequent read
// blocks. Exit then takes effect on the next keystroke.
type InputWaiter struct {
	cancelled chan struct{}
}

func NewInputWaiter(t *Terminal) (*InputWaiter, error) {
	return &InputWaiter{cancelled: make(chan struct{})}, nil
}

func (iw *InputWaiter) Cancel() {
	select {
	case <-iw.cancelled:
	default:
		close(iw.cancelled)
	}
}

func (iw *InputWaiter) Close() {}

func (iw *InputWaiter) Wait() error {
	select {
	case <-iw.cancelled:
		return ErrWaitCancelled
	default:
		return nil
	}
}
