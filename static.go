package lesser

import (
	"fmt"
	"io"
	"os"
)

// Page runs the pager in static mode: every command the host queued before
// the call is applied first, and when overflow bypass is enabled and the
// content fits on one screen, the content is written straight to stdout with
// no raw mode and no interaction. Otherwise it falls through to a normal
// interactive session over the already-built state.
func Page(p *Pager) error {
	ps := NewPagerState()
	s := &session{out: io.Discard}

	for {
		var ev Command
		select {
		case ev = <-p.events:
		default:
			ev = nil
		}
		if ev == nil {
			break
		}
		if err := handleEvent(ev, s, ps); err != nil {
			return err
		}
	}
	if ps.Exited() {
		return nil
	}

	if ps.RunNoOverflow && len(ps.FormattedLines) <= ps.contentHeight() {
		for _, line := range ps.FormattedLines {
			if _, err := fmt.Fprintln(os.Stdout, line); err != nil {
				return err
			}
		}
		ps.exit()
		return nil
	}
	return runDynamic(p, ps)
}
