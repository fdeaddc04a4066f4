// Package cmdexec spawns external programs, streams their output, and maps
// how they finished onto an exit code. It is the only place acerun creates
// child processes.
package cmdexec

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"time"

	"github.com/ajxudir/acerun/pkg/verbose"
	"github.com/ajxudir/acerun/pkg/warnings"
)

// Exit codes synthesized for programs that never produced one themselves.
// They follow the shell conventions for the same situations.
const (
	// ExitCodeLaunchFailed is reported when the program could not be started.
	ExitCodeLaunchFailed = 127

	// ExitCodeTimedOut is reported when the program was killed after its timeout.
	ExitCodeTimedOut = 124

	// ExitCodeCancelled is reported when the context was cancelled mid-run.
	ExitCodeCancelled = 130
)

// waitDelay bounds how long Wait blocks on output pipes after the child is
// killed, so a grandchild holding the pipe open cannot hang the run.
const waitDelay = 5 * time.Second

// Spec describes one program invocation.
//
// Fields:
//   - Command: Program name or path, resolved through PATH when it has no separator
//   - Args: Arguments passed to the program
//   - Shell: When set, a command line run through the user's shell instead of Command/Args
//   - Env: Extra environment variables layered over the current environment
//   - Dir: Working directory, empty for the current one
//   - TimeoutSeconds: Kill the program after this many seconds, 0 for no limit
//   - Stdin: Input for the program, nil for no input
//   - Interactive: The program reads from or controls the terminal; it stays in
//     acerun's process group so the terminal keeps it in the foreground
type Spec struct {
	Command        string
	Args           []string
	Shell          string
	Env            map[string]string
	Dir            string
	TimeoutSeconds int
	Stdin          io.Reader
	Interactive    bool
}

// Argv returns the program and arguments that will be passed to exec.
//
// Returns:
//   - []string: argv; for shell specs this is the shell, its flags, and the command line
func (s Spec) Argv() []string {
	if s.Shell != "" {
		shell, args := getShell()
		argv := append([]string{shell}, args...)
		return append(argv, s.Shell)
	}
	return append([]string{s.Command}, s.Args...)
}

// String renders the invocation as a copy-pasteable shell line.
func (s Spec) String() string {
	if s.Shell != "" {
		return s.Shell
	}
	return Join(s.Argv())
}

// LaunchError reports a program that could not be started at all.
type LaunchError struct {
	Command string
	Err     error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("could not start %s: %v", e.Command, e.Err)
}

func (e *LaunchError) Unwrap() error { return e.Err }

// TimeoutError reports a program that was killed after its timeout.
type TimeoutError struct {
	Seconds int
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timed out after %d seconds", e.Seconds)
}

// Outcome is how a program finished.
//
// Fields:
//   - ExitCode: The program's exit status, or one of the synthesized ExitCode* values
//   - Duration: Wall-clock time from start to exit
//   - Err: Non-nil when the program did not run to a normal exit
//     (*LaunchError, *TimeoutError, or the context error)
type Outcome struct {
	ExitCode int
	Duration time.Duration
	Err      error
}

// Success reports whether the program exited with status 0.
func (o Outcome) Success() bool {
	return o.ExitCode == 0 && o.Err == nil
}

// Launched reports whether the program was started.
func (o Outcome) Launched() bool {
	var le *LaunchError
	return !errors.As(o.Err, &le)
}

// RunFunc is the signature of Run. Packages that spawn programs accept a
// RunFunc so tests can substitute a fake.
type RunFunc func(ctx context.Context, spec Spec, stdout, stderr io.Writer) Outcome

// Run is the default program runner. It can be replaced in tests.
var Run RunFunc = run

// run starts spec, streams its output to stdout and stderr, and waits for it.
//
// It performs the following operations:
//   - Step 1: Build the command with environment, directory, and (unless interactive) its own process group
//   - Step 2: Apply the timeout, if any, on top of ctx
//   - Step 3: Start and wait; map the result onto an Outcome
//
// A program that cannot be started is not an error of run itself: it yields
// an Outcome with ExitCodeLaunchFailed and a *LaunchError.
func run(ctx context.Context, spec Spec, stdout, stderr io.Writer) Outcome {
	argv := spec.Argv()
	if len(argv) == 0 || argv[0] == "" {
		return Outcome{ExitCode: ExitCodeLaunchFailed, Err: &LaunchError{Command: "<empty>", Err: errors.New("no command provided")}}
	}

	if spec.TimeoutSeconds > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(spec.TimeoutSeconds)*time.Second)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Env = buildEnv(spec.Env)
	cmd.Dir = spec.Dir
	cmd.Stdin = spec.Stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.WaitDelay = waitDelay

	// Own process group so the whole tree can be killed on timeout or
	// interrupt. A background group is stopped by SIGTTIN/SIGTTOU as soon as
	// it touches the terminal, so interactive programs stay in ours.
	if !spec.Interactive {
		setProcGroup(cmd)
		cmd.Cancel = func() error {
			if err := killProcGroup(cmd); err != nil {
				warnings.Warnf("failed to kill process group of %s: %v", argv[0], err)
				return err
			}
			return nil
		}
	}

	verbose.CommandExec(argv, spec.Dir)
	start := time.Now()

	if err := cmd.Start(); err != nil {
		return Outcome{
			ExitCode: ExitCodeLaunchFailed,
			Duration: time.Since(start),
			Err:      &LaunchError{Command: argv[0], Err: err},
		}
	}

	err := cmd.Wait()
	outcome := Outcome{Duration: time.Since(start)}

	switch {
	case err == nil:
		outcome.ExitCode = 0
	case errors.Is(ctx.Err(), context.DeadlineExceeded) && spec.TimeoutSeconds > 0:
		outcome.ExitCode = ExitCodeTimedOut
		outcome.Err = &TimeoutError{Seconds: spec.TimeoutSeconds}
	case ctx.Err() != nil:
		outcome.ExitCode = ExitCodeCancelled
		outcome.Err = ctx.Err()
	default:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			outcome.ExitCode = exitErr.ExitCode()
			if outcome.ExitCode < 0 {
				// Killed by a signal we did not send.
				outcome.ExitCode = 128 + signalNumber(exitErr)
			}
		} else {
			outcome.ExitCode = 1
			outcome.Err = err
		}
	}

	verbose.CommandResult(argv[0], outcome.ExitCode, outcome.Duration)
	return outcome
}

// buildEnv layers extra variables over the current environment. Values may
// reference existing variables ($HOME, ${PATH}); keys are applied in sorted
// order so the result is deterministic.
func buildEnv(extra map[string]string) []string {
	environ := os.Environ()
	if len(extra) == 0 {
		return environ
	}
	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		environ = append(environ, k+"="+os.ExpandEnv(extra[k]))
	}
	return environ
}
