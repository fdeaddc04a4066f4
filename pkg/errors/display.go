package errors

import (
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// hint maps an error substring to an actionable suggestion.
type hint struct {
	pattern string
	text    string
}

var hints = []hint{
	{"executable file not found", "Check that the program is installed and on PATH (e.g. python3, docker)"},
	{"permission denied", "Make the test program executable (chmod +x) or run it through an interpreter"},
	{"yaml:", "Check the YAML syntax of your .acerun.yml"},
	{"toml:", "Check the TOML syntax of your .acerun.toml"},
	{"Cannot connect to the Docker daemon", "Start the Docker daemon or check your docker context"},
	{"could not select device driver", "Install the NVIDIA container toolkit to pass --gpus to docker"},
}

// GetHint returns an actionable hint for err, or an empty string.
func GetHint(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, exec.ErrNotFound) {
		return hints[0].text
	}
	msg := err.Error()
	for _, h := range hints {
		if strings.Contains(msg, h.pattern) {
			return h.text
		}
	}
	return ""
}

// PrintErrorWithHints prints an error with an actionable hint when one is known.
//
// Output format:
//
//	Error: <error message>
//	  Hint: <actionable hint if available>
//
// Parameters:
//   - w: Writer to output to (typically os.Stderr)
//   - err: The error to display; nil and silent ExitErrors print nothing
//   - verbose: If true, validation errors include expected values and hints
func PrintErrorWithHints(w io.Writer, err error, verbose bool) {
	if err == nil {
		return
	}
	if exitErr, ok := IsExitError(err); ok && exitErr.Silent {
		return
	}

	var ves ValidationErrors
	if errors.As(err, &ves) && verbose {
		_, _ = fmt.Fprintf(w, "Error: %d configuration error(s)\n%s\n", len(ves), ves.VerboseError())
		return
	}
	if ve, ok := IsValidationError(err); ok && verbose {
		_, _ = fmt.Fprintf(w, "Error: %s\n", ve.VerboseError())
		return
	}

	_, _ = fmt.Fprintf(w, "Error: %s\n", err)
	if h := GetHint(err); h != "" {
		_, _ = fmt.Fprintf(w, "  Hint: %s\n", h)
	}
}
