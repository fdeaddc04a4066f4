// Package warnings writes non-fatal diagnostics (failed cleanup, unreadable
// report targets) to a swappable writer, stderr by default.
package warnings

import (
	"fmt"
	"io"
	"os"
	"sync"
)

var (
	mu         sync.RWMutex
	warnWriter io.Writer = os.Stderr
)

// Warnf writes a formatted warning. A trailing newline is added when the
// format does not end with one.
//
// Parameters:
//   - format: Printf-style format string for the warning message
//   - args: Variadic arguments to format into the string
func Warnf(format string, args ...any) {
	mu.RLock()
	w := warnWriter
	mu.RUnlock()

	msg := fmt.Sprintf(format, args...)
	if len(msg) == 0 || msg[len(msg)-1] != '\n' {
		msg += "\n"
	}
	_, _ = io.WriteString(w, "warning: "+msg)
}

// SetWarningWriter swaps the warning writer and returns a restore function.
//
// Parameters:
//   - w: The new io.Writer to use; if nil, defaults to os.Stderr
//
// Returns:
//   - func(): Restores the previous writer when called
func SetWarningWriter(w io.Writer) func() {
	mu.Lock()
	defer mu.Unlock()

	previous := warnWriter
	if w == nil {
		w = os.Stderr
	}
	warnWriter = w

	return func() {
		mu.Lock()
		defer mu.Unlock()
		warnWriter = previous
	}
}
