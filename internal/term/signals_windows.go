//go:build windows || plan9 || js || wasip1

package term

import "os"

// ResizeSignals returns nil on platforms without SIGWINCH; resize detection
// is unavailable there and the pager keeps its initial dimensions.
func ResizeSignals() []os.Signal {
	return nil
}
