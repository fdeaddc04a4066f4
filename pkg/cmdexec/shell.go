package cmdexec

import (
	"os"
	"strings"
)

// getShell returns the user's shell and the flags needed to run a command
// string with it. SHELL is honoured so aliases and profile settings apply.
func getShell() (shell string, args []string) {
	if sh := os.Getenv("SHELL"); sh != "" {
		return sh, []string{"-l", "-c"}
	}
	return getDefaultShell()
}

// Join quotes each argument as needed and joins them with spaces, producing
// a line that a POSIX shell would split back into the same argv.
func Join(argv []string) string {
	quoted := make([]string, len(argv))
	for i, a := range argv {
		quoted[i] = Quote(a)
	}
	return strings.Join(quoted, " ")
}

// Quote escapes s for safe use in a POSIX shell command line. Strings made
// only of safe characters are returned unchanged.
func Quote(s string) string {
	if s == "" {
		return "''"
	}

	safe := true
	for _, r := range s {
		if !isShellSafe(r) {
			safe = false
			break
		}
	}
	if safe {
		return s
	}

	// Single quotes keep everything literal except single quotes themselves,
	// which are closed, escaped, and reopened.
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func isShellSafe(r rune) bool {
	return (r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9') ||
		r == '-' || r == '_' || r == '.' ||
		r == '/' || r == '@' || r == ':' ||
		r == '+' || r == '=' || r == ','
}
