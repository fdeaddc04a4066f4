// Package errors provides the error types and exit codes used by acerun.
//
//   - ExitError: command termination with a specific exit code
//   - ValidationError: a single invalid configuration field
//   - ValidationErrors: every problem found in one validation pass
//
// Exit Codes:
//
// Exit codes are part of the CLI contract so automation can react to a run:
//   - ExitSuccess (0): every test program exited 0
//   - ExitTestsFailed (1): at least one test program failed
//   - ExitConfigError (3): the suite configuration could not be loaded or is invalid
//   - ExitInterrupted (130): the run was interrupted by SIGINT/SIGTERM
//
// Use GetExitCode to turn any error returned by a command into a code:
//
//	code := errors.GetExitCode(err)
//	os.Exit(code)
package errors
