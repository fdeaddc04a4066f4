// Package preflight checks that the programs a run will launch can be found
// before anything starts.
//
// Missing programs are reported as warnings only. A test whose program cannot
// be started still runs and is counted as a failure, so preflight never
// changes the outcome of a run.
package preflight

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/ajxudir/acerun/pkg/cmdexec"
	"github.com/ajxudir/acerun/pkg/verbose"
	"github.com/ajxudir/acerun/pkg/warnings"
)

// CommandResolutionHints maps command names to installation instructions.
//
// Keys are command names, values are human-readable installation instructions with URLs.
var CommandResolutionHints = map[string]string{
	// Game runtime
	"python":  "Install Python: https://python.org/downloads/",
	"python3": "Install Python: https://python.org/downloads/",
	"pip":     "Install Python: https://python.org/downloads/",
	"pip3":    "Install Python: https://python.org/downloads/",
	"pytest":  "Install pytest: pip install pytest",

	// Container tooling
	"docker":     "Install Docker: https://docs.docker.com/get-docker/",
	"nvidia-smi": "Install the NVIDIA driver: https://www.nvidia.com/Download/index.aspx",

	// Shells
	"bash": "Unix tool - typically pre-installed on Linux/macOS",
	"sh":   "Unix tool - typically pre-installed on Linux/macOS",
}

var (
	lookPathFunc = exec.LookPath
	statFunc     = os.Stat
	// shellExecFunc runs the `command -v` fallback. Tests replace it.
	shellExecFunc cmdexec.RunFunc = cmdexec.Run
)

// ValidationError represents a missing command with resolution hints.
//
// Fields:
//   - Command: The command as written in the configuration
//   - Hint: Installation instructions, empty if none are known
type ValidationError struct {
	Command string
	Hint    string
}

// Error returns a formatted error message with resolution instructions.
func (e *ValidationError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("command not found: %s\n  Resolution: %s", e.Command, e.Hint)
	}
	return fmt.Sprintf("command not found: %s\n  Resolution: Ensure '%s' is installed and available in your PATH,\n             or fix the command in your configuration.", e.Command, e.Command)
}

// ValidateResult holds the result of pre-flight validation.
type ValidateResult struct {
	Errors []ValidationError
}

// HasErrors returns true if there are validation errors.
func (r *ValidateResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// ErrorMessage returns a formatted message for all validation errors.
//
// Returns:
//   - string: Multi-line message with header and one entry per error; empty string if no errors
func (r *ValidateResult) ErrorMessage() string {
	if len(r.Errors) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("Pre-flight check found missing commands:\n")
	for _, err := range r.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Warn prints one warning per missing command.
func (r *ValidateResult) Warn() {
	for _, err := range r.Errors {
		warnings.Warnf("%s", err.Error())
	}
}

// ValidateSpecs checks that every program the given invocations need exists.
//
// It performs the following operations:
//   - Takes Command from direct invocations, or every command named in a Shell line
//   - Resolves commands containing a path separator against the invocation's Dir
//   - Looks up bare names in PATH, then through the user's shell to find aliases
//   - Checks each unique command once
//
// Parameters:
//   - ctx: Context for the shell fallback
//   - specs: Invocations that are about to run
//
// Returns:
//   - *ValidateResult: Result containing any validation errors; never nil
func ValidateSpecs(ctx context.Context, specs []cmdexec.Spec) *ValidateResult {
	verbose.Printf("Preflight: validating commands for %d invocations", len(specs))
	result := &ValidateResult{}
	checked := make(map[string]bool)

	for _, spec := range specs {
		for _, cmd := range specCommands(spec) {
			key := cmd
			if hasPathSeparator(cmd) {
				key = resolvePath(cmd, spec.Dir)
			}
			if checked[key] {
				continue
			}
			checked[key] = true
			if err := validateCommand(ctx, cmd, spec.Dir); err != nil {
				result.Errors = append(result.Errors, *err)
			}
		}
	}

	verbose.Printf("Preflight: %d unique commands checked, %d missing", len(checked), len(result.Errors))
	return result
}

// specCommands returns the program names an invocation depends on.
func specCommands(spec cmdexec.Spec) []string {
	if spec.Shell != "" {
		return extractCommands(spec.Shell)
	}
	if spec.Command == "" {
		return nil
	}
	return []string{spec.Command}
}

// extractCommands extracts all command names from a shell command line.
//
// It performs the following operations:
//   - Normalizes line endings (CRLF to LF)
//   - Skips empty lines and comment lines (starting with #)
//   - Handles line continuation backslashes
//   - Splits on pipes and the ;, &&, and || separators
//   - Skips leading VAR=value assignments
//   - Deduplicates command names
//
// Parameters:
//   - line: Shell command line, possibly spanning several lines
//
// Returns:
//   - []string: Unique command names in order of first appearance; empty slice if none found
func extractCommands(line string) []string {
	var result []string
	seen := make(map[string]bool)

	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return result
	}

	normalized := strings.ReplaceAll(trimmed, "\r\n", "\n")
	separators := strings.NewReplacer("&&", "\n", "||", "\n", ";", "\n", "|", "\n")
	for _, l := range strings.Split(normalized, "\n") {
		l = strings.TrimSpace(l)
		if l == "" || strings.HasPrefix(l, "#") {
			continue
		}
		l = strings.TrimSpace(strings.TrimSuffix(l, "\\"))

		for _, part := range strings.Split(separators.Replace(l), "\n") {
			cmd := firstCommand(strings.Fields(part))
			if cmd != "" && !seen[cmd] {
				seen[cmd] = true
				result = append(result, cmd)
			}
		}
	}

	return result
}

// firstCommand returns the first field that is not an environment assignment.
func firstCommand(fields []string) string {
	for _, f := range fields {
		if !strings.Contains(f, "=") {
			return f
		}
	}
	return ""
}

func hasPathSeparator(cmd string) bool {
	return strings.ContainsAny(cmd, `/\`)
}

func resolvePath(cmd, dir string) string {
	if filepath.IsAbs(cmd) || dir == "" {
		return cmd
	}
	return filepath.Join(dir, cmd)
}

// validateCommand checks if a command exists.
//
// Parameters:
//   - ctx: Context for the shell fallback
//   - cmd: The command name or path to validate
//   - dir: Directory relative paths are resolved against
//
// Returns:
//   - *ValidationError: Error with resolution hint if the command was not found; nil otherwise
func validateCommand(ctx context.Context, cmd, dir string) *ValidationError {
	if cmd == "" {
		return nil
	}

	verbose.Printf("Preflight: checking command %q", cmd)

	if hasPathSeparator(cmd) {
		path := resolvePath(cmd, dir)
		if info, err := statFunc(path); err == nil && !info.IsDir() {
			return nil
		}
		verbose.Printf("Preflight ERROR: %s does not exist", path)
		return &ValidationError{Command: cmd}
	}

	if _, err := lookPathFunc(cmd); err == nil {
		verbose.Printf("Preflight: command %q found in PATH", cmd)
		return nil
	}

	verbose.Printf("Preflight: command %q not in PATH, checking shell aliases", cmd)
	if commandExistsInShell(ctx, cmd) {
		verbose.Printf("Preflight: command %q found as shell alias/function", cmd)
		return nil
	}

	hint := CommandResolutionHints[cmd]
	if hint != "" {
		verbose.Printf("Preflight ERROR: command %q not found - hint: %s", cmd, hint)
	} else {
		verbose.Printf("Preflight ERROR: command %q not found (no resolution hint available)", cmd)
	}
	return &ValidationError{
		Command: cmd,
		Hint:    hint,
	}
}

// commandExistsInShell asks the user's shell whether cmd is a command, alias,
// function, or builtin.
func commandExistsInShell(ctx context.Context, cmd string) bool {
	spec := cmdexec.Spec{Shell: "command -v " + cmdexec.Quote(cmd)}
	outcome := shellExecFunc(ctx, spec, io.Discard, io.Discard)
	return outcome.Err == nil && outcome.ExitCode == 0
}

// GetResolutionHint returns the installation hint for a command, if available.
func GetResolutionHint(cmd string) string {
	return CommandResolutionHints[cmd]
}
