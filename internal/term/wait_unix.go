//go:build !windows && !plan9 && !js && !wasip1

package term

import (
	"errors"
	"os"
	"sync"

	"golang.org/x/sys/unix"
)

// ErrWaitCancelled is returned by WaitInput when the cancel side fired before
// any terminal input arrived.
var ErrWaitCancelled = errors.New("input wait cancelled")

// InputWaiter blocks until the tty has input to read, or until cancelled.
// The select+pipe pairing lets the session unblock a polling goroutine that
// would otherwise sit in a blocking read forever.
type InputWaiter struct {
	fd         int
	cancelR    *os.File
	cancelW    *os.File
	cancelOnce sync.Once
}

func NewInputWaiter(t *Terminal) (*InputWaiter, error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, err
	}
	return &InputWaiter{fd: t.Fd(), cancelR: r, cancelW: w}, nil
}

// Cancel wakes any pending Wait and poisons future ones. Idempotent.
func (iw *InputWaiter) Cancel() {
	iw.cancelOnce.Do(func() {
		_, _ = iw.cancelW.Write([]byte{1})
		_ = iw.cancelW.Close()
	})
}

func (iw *InputWaiter) Close() {
	_ = iw.cancelR.Close()
}

// Wait blocks until terminal input is readable. Buffered bytes already held
// by the decoder must be checked by the caller first.
func (iw *InputWaiter) Wait() error {
	cancelFd := int(iw.cancelR.Fd())
	for {
		var readfds unix.FdSet
		fdSetAdd(&readfds, iw.fd)
		fdSetAdd(&readfds, cancelFd)
		maxfd := iw.fd
		if cancelFd > maxfd {
			maxfd = cancelFd
		}
		n, err := unix.Select(maxfd+1, &readfds, nil, nil, nil)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return err
		}
		if n == 0 {
			continue
		}
		if fdSetHas(&readfds, cancelFd) {
			return ErrWaitCancelled
		}
		if fdSetHas(&readfds, iw.fd) {
			return nil
		}
	}
}

func fdSetAdd(set *unix.FdSet, fd int) {
	if fd < 0 {
		return
	}
	set.Bits[fd/64] |= 1 << (uint(fd) % 64)
}

func fdSetHas(set *unix.FdSet, fd int) bool {
	if fd < 0 {
		return false
	}
	return set.Bits[fd/64]&(1<<(uint(fd)%64)) != 0
}
