// Package prompt implements the operator acknowledgment taken before a
// long-running suite starts.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

// WaitForEnter prints message and blocks until one line is read from r.
// Any line acknowledges, whatever it contains.
//
// Reaching EOF also counts as acknowledgment so that piped or closed stdin
// (CI, `acerun < /dev/null`) does not hang or abort the run.
//
// Parameters:
//   - r: Input to read the acknowledgment from (usually os.Stdin)
//   - w: Output to print the message to
//   - message: Text shown to the operator
//
// Returns:
//   - error: A read error other than EOF; nil otherwise
func WaitForEnter(r io.Reader, w io.Writer, message string) error {
	if message != "" {
		_, _ = fmt.Fprint(w, message)
	}

	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("read acknowledgment: %w", err)
	}
	if errors.Is(err, io.EOF) && line == "" {
		// Keep the following output off the prompt line.
		_, _ = fmt.Fprintln(w)
	}
	return nil
}
