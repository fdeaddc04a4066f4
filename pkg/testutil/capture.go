// Package testutil provides shared test helpers for acerun packages.
package testutil

import (
	"bytes"
	"io"
	"os"
	"testing"
)

// CaptureStdout captures stdout during the execution of fn and returns it.
//
// The original stdout is restored after fn returns. Output is drained
// concurrently so fn cannot block on a full pipe.
//
// Parameters:
//   - t: Testing instance for helper marking
//   - fn: Function to execute while capturing stdout
//
// Returns:
//   - string: All content written to stdout during fn execution
func CaptureStdout(t *testing.T, fn func()) string {
	t.Helper()
	out, _ := capture(t, true, false, fn)
	return out
}

// CaptureStderr captures stderr during the execution of fn and returns it.
func CaptureStderr(t *testing.T, fn func()) string {
	t.Helper()
	_, errOut := capture(t, false, true, fn)
	return errOut
}

// CaptureOutput captures both stdout and stderr during the execution of fn.
//
// Returns:
//   - stdout: All content written to stdout during fn execution
//   - stderr: All content written to stderr during fn execution
func CaptureOutput(t *testing.T, fn func()) (stdout, stderr string) {
	t.Helper()
	return capture(t, true, true, fn)
}

func capture(t *testing.T, wantOut, wantErr bool, fn func()) (string, string) {
	t.Helper()

	var outBuf, errBuf bytes.Buffer
	var waits []chan struct{}

	redirect := func(target **os.File, buf *bytes.Buffer) func() {
		r, w, err := os.Pipe()
		if err != nil {
			t.Fatalf("os.Pipe: %v", err)
		}
		old := *target
		*target = w
		done := make(chan struct{})
		waits = append(waits, done)
		go func() {
			_, _ = io.Copy(buf, r)
			_ = r.Close()
			close(done)
		}()
		return func() {
			_ = w.Close()
			*target = old
		}
	}

	var restores []func()
	if wantOut {
		restores = append(restores, redirect(&os.Stdout, &outBuf))
	}
	if wantErr {
		restores = append(restores, redirect(&os.Stderr, &errBuf))
	}

	func() {
		defer func() {
			for _, restore := range restores {
				restore()
			}
		}()
		fn()
	}()

	for _, done := range waits {
		<-done
	}
	return outBuf.String(), errBuf.String()
}
