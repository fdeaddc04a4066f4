// Package verbose provides debug logging for acerun, gated by the --verbose flag.
package verbose

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

var (
	mu         sync.RWMutex
	enabled    bool
	suppressed int
	writer     io.Writer = os.Stderr
)

// Enable turns on verbose logging.
func Enable() {
	mu.Lock()
	defer mu.Unlock()
	enabled = true
}

// Disable turns off verbose logging.
func Disable() {
	mu.Lock()
	defer mu.Unlock()
	enabled = false
}

// IsEnabled returns whether verbose logging is currently enabled.
//
// Returns:
//   - bool: true if verbose logging is enabled, false otherwise
func IsEnabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return enabled
}

// SetWriter sets the output writer for verbose messages.
//
// Parameters:
//   - w: The io.Writer to use for output; if nil, the writer remains unchanged
func SetWriter(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if w != nil {
		writer = w
	}
}

// Suppress temporarily silences verbose output. Calls nest; each Suppress
// must be paired with an Unsuppress.
func Suppress() {
	mu.Lock()
	defer mu.Unlock()
	suppressed++
}

// Unsuppress reverses one Suppress call.
func Unsuppress() {
	mu.Lock()
	defer mu.Unlock()
	if suppressed > 0 {
		suppressed--
	}
}

// active reports whether a message should be written and returns the writer to use.
func active() (io.Writer, bool) {
	mu.RLock()
	defer mu.RUnlock()
	return writer, enabled && suppressed == 0
}

// Printf prints a formatted verbose message if enabled.
//
// Parameters:
//   - format: Printf-style format string
//   - args: Variadic arguments to format into the string
func Printf(format string, args ...any) {
	if w, ok := active(); ok {
		_, _ = fmt.Fprintf(w, "[DEBUG] "+format+"\n", args...)
	}
}

// Info prints an informational verbose message if enabled.
func Info(msg string) {
	if w, ok := active(); ok {
		_, _ = fmt.Fprintf(w, "[DEBUG] %s\n", msg)
	}
}

// Infof prints a formatted informational verbose message if enabled.
func Infof(format string, args ...any) {
	Printf(format, args...)
}

// DocRef represents a documentation reference for a specific topic.
//
// Fields:
//   - Topic: A human-readable name for the documentation topic
//   - DocPath: The relative path to the documentation file or section
//   - Hint: A brief description of what the documentation covers
type DocRef struct {
	Topic   string
	DocPath string
	Hint    string
}

var docRefs = map[string]DocRef{
	"config": {
		Topic:   "Configuration",
		DocPath: "docs/configuration.md",
		Hint:    "Define the suite in .acerun.yml or .acerun.toml",
	},
	"tests": {
		Topic:   "Test Programs",
		DocPath: "docs/configuration.md#tests",
		Hint:    "Each test is a program whose exit status decides pass or fail",
	},
	"container": {
		Topic:   "Container",
		DocPath: "docs/container.md",
		Hint:    "Build and run the GPU image with acerun container build|run",
	},
	"cli": {
		Topic:   "CLI Reference",
		DocPath: "docs/cli.md",
		Hint:    "See all available commands and flags",
	},
}

// WithDocRef prints a verbose message followed by a documentation reference
// when the topic is known.
//
// Parameters:
//   - topic: The documentation topic key (e.g., "config", "tests", "container")
//   - message: The main message to print
func WithDocRef(topic, message string) {
	w, ok := active()
	if !ok {
		return
	}
	_, _ = fmt.Fprintf(w, "[DEBUG] %s\n", message)
	if ref, found := docRefs[strings.ToLower(topic)]; found {
		_, _ = fmt.Fprintf(w, "        See %s: %s\n", ref.Topic, ref.DocPath)
		_, _ = fmt.Fprintf(w, "        Hint: %s\n", ref.Hint)
	}
}

// CommandExec logs the argv and working directory of a program about to start.
//
// Parameters:
//   - argv: Program and arguments as they will be passed to exec
//   - workDir: The working directory, or empty for the current one
func CommandExec(argv []string, workDir string) {
	w, ok := active()
	if !ok {
		return
	}
	if workDir == "" {
		workDir = "."
	}
	_, _ = fmt.Fprintf(w, "[DEBUG] Executing: %s\n", strings.Join(argv, " "))
	_, _ = fmt.Fprintf(w, "        Working dir: %s\n", workDir)
}

// CommandResult logs how a program finished.
//
// Parameters:
//   - name: Display name of the program or test
//   - exitCode: Exit status (0 for success)
//   - elapsed: Wall-clock time the program ran
func CommandResult(name string, exitCode int, elapsed time.Duration) {
	w, ok := active()
	if !ok {
		return
	}
	if exitCode == 0 {
		_, _ = fmt.Fprintf(w, "[DEBUG] %s exited 0 after %s\n", truncate(name, 60), elapsed.Round(time.Millisecond))
		return
	}
	_, _ = fmt.Fprintf(w, "[DEBUG] %s failed (exit %d) after %s\n", truncate(name, 60), exitCode, elapsed.Round(time.Millisecond))
}

// ConfigLoaded logs which config file was loaded and how it was parsed.
//
// Parameters:
//   - path: The config file path, or empty when built-in defaults are used
//   - format: The decoder used ("yaml", "toml", or "defaults")
func ConfigLoaded(path, format string) {
	w, ok := active()
	if !ok {
		return
	}
	if path == "" {
		_, _ = fmt.Fprintf(w, "[DEBUG] Config loaded: built-in defaults\n")
		return
	}
	_, _ = fmt.Fprintf(w, "[DEBUG] Config loaded: %s (%s)\n", path, format)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
