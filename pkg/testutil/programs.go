package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// SkipIfNoShell skips tests that rely on POSIX shell scripts.
func SkipIfNoShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("test programs are POSIX shell scripts")
	}
}

// WriteScript writes an executable /bin/sh script into dir and returns its path.
//
// Parameters:
//   - t: Testing instance for helper marking
//   - dir: Directory to create the script in (usually t.TempDir())
//   - name: File name of the script
//   - body: Script body without the shebang line
//
// Returns:
//   - string: Absolute path of the script
func WriteScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	SkipIfNoShell(t)

	path := filepath.Join(dir, name)
	content := "#!/bin/sh\n" + body + "\n"
	if err := os.WriteFile(path, []byte(content), 0o755); err != nil {
		t.Fatalf("write script %s: %v", path, err)
	}
	return path
}

// ExitScript writes a test program that prints its name and exits with code.
func ExitScript(t *testing.T, dir, name string, code int) string {
	t.Helper()
	return WriteScript(t, dir, name, fmt.Sprintf("echo %q\nexit %d", "running "+name, code))
}

// RecordingScript writes a test program that appends its name to logPath
// and exits with code, so tests can assert on execution order.
func RecordingScript(t *testing.T, dir, name, logPath string, code int) string {
	t.Helper()
	return WriteScript(t, dir, name, fmt.Sprintf("echo %s >> %q\nexit %d", name, logPath, code))
}
