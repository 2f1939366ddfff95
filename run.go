package lesser

import (
	"io"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"

	"github.com/kk-code-lab/lesser/event"
	"github.com/kk-code-lab/lesser/internal/term"
)

// userInputActive is the coordination point between the dispatcher and the
// input-polling goroutine. While active is false the poller must not touch
// the terminal: the dispatcher is reading the search query from it. The
// dispatcher clears the flag before the read and signals the condition after
// restoring it; the poller re-checks before every poll and waits on the
// condition while paused. A pause landing between the poller's re-check and
// its decode can still hand one type-ahead event to the poller instead of
// the query reader; the flag protocol tolerates that narrow window rather
// than holding a read token across every decode.
type userInputActive struct {
	mu     sync.Mutex
	cond   *sync.Cond
	active bool
}

func newUserInputActive() *userInputActive {
	u := &userInputActive{active: true}
	u.cond = sync.NewCond(&u.mu)
	return u
}

func (u *userInputActive) pause() {
	u.mu.Lock()
	u.active = false
	u.mu.Unlock()
}

func (u *userInputActive) resume() {
	u.mu.Lock()
	u.active = true
	u.mu.Unlock()
	u.cond.Signal()
}

func (u *userInputActive) isActive() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.active
}

// waitActive blocks until the poller is allowed to read input again.
func (u *userInputActive) waitActive() {
	u.mu.Lock()
	for !u.active {
		u.cond.Wait()
	}
	u.mu.Unlock()
}

// RunDynamic runs an interactive paging session: raw mode on the tty, a
// polling goroutine classifying input, a resize watcher, and the dispatcher
// loop consuming the pager's ordered event stream. It returns when the user
// quits (PagerQuit), the host delivers an exit, or terminal I/O fails.
func RunDynamic(p *Pager) error {
	return runDynamic(p, NewPagerState())
}

func runDynamic(p *Pager, ps *PagerState) error {
	t, err := term.Open()
	if err != nil {
		return err
	}
	if err := t.MakeRaw(); err != nil {
		t.Restore()
		return err
	}
	defer t.Restore()

	w := t.Writer()

	var exited atomic.Bool
	// On the user-exit path the dispatcher has already unwound the screen
	// state; every other way out still owes the terminal these sequences.
	defer func() {
		if !exited.Load() {
			_, _ = io.WriteString(w, term.DisableMouse+term.ShowCursor+term.WrapOn+term.ExitAltScreen)
			_ = w.Flush()
		}
	}()

	if cols, rows, err := t.Size(); err == nil && cols > 0 && rows > 0 {
		ps.Cols, ps.Rows = cols, rows
	}
	ps.formatLines()
	ps.formatPrompt()

	_, _ = io.WriteString(w, term.EnterAltScreen+term.EnableMouse+term.WrapOff+term.ClearScreen)
	if err := drawFull(w, ps); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return err
	}

	uia := newUserInputActive()
	var stateMu sync.Mutex
	errCh := make(chan error, 1)

	waiter, err := term.NewInputWaiter(t)
	if err != nil {
		return err
	}
	defer waiter.Close()
	defer waiter.Cancel()

	// classify runs a raw input through whichever classifier is currently
	// installed and funnels the result into the shared event stream. The
	// state lock makes the classifier's read-only view safe against the
	// dispatcher mutating underneath it.
	classify := func(raw event.Event) {
		stateMu.Lock()
		clf := ps.inputClassifier
		var ie InputEvent
		if clf != nil {
			ie = clf.ClassifyInput(raw, ps)
		}
		stateMu.Unlock()
		if ie != nil {
			p.events <- UserInput{Event: ie}
		}
	}

	dec := event.NewDecoder(t.Reader())
	go func() {
		for {
			uia.waitActive()
			if exited.Load() {
				return
			}
			if dec.Buffered() == 0 {
				if err := waiter.Wait(); err != nil {
					if err != term.ErrWaitCancelled {
						errCh <- err
					}
					return
				}
			}
			// The dispatcher may have paused us between the wait and
			// now; the pending bytes belong to the search read then.
			// A pause can still land between this check and the decode
			// below, losing one type-ahead event to the poller; see the
			// userInputActive doc for why that window is accepted.
			if !uia.isActive() {
				continue
			}
			raw, err := dec.ReadEvent()
			if err != nil {
				errCh <- err
				return
			}
			classify(raw)
		}
	}()

	if sigs := term.ResizeSignals(); len(sigs) > 0 {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, sigs...)
		defer signal.Stop(sigCh)
		go func() {
			for range sigCh {
				if cols, rows, err := t.Size(); err == nil {
					classify(event.Resize{Cols: cols, Rows: rows})
				}
			}
		}()
	}

	s := &session{
		out:     w,
		in:      t.Reader(),
		restore: t.Restore,
		uia:     uia,
		exited:  &exited,
	}

	for {
		select {
		case ev := <-p.events:
			stateMu.Lock()
			err := handleEvent(ev, s, ps)
			stateMu.Unlock()
			if ferr := w.Flush(); err == nil {
				err = ferr
			}
			if err != nil {
				return err
			}
			if exited.Load() {
				waiter.Cancel()
				uia.resume() // release a poller parked on the condition
				return nil
			}
		case err := <-errCh:
			return err
		}
	}
}
