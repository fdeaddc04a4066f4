// Package suite runs the game's test programs one after another and tallies
// the results.
//
// The runner is fail-soft: a failing test is recorded and the next one still
// runs. Tests never run concurrently because they share a single GPU.
// Outcomes are decided only by exit status; a program that cannot be started
// counts as a failure like any other.
package suite

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/ajxudir/acerun/pkg/cmdexec"
	"github.com/ajxudir/acerun/pkg/config"
	"github.com/ajxudir/acerun/pkg/verbose"
)

// Runner executes a fixed, ordered list of test cases.
//
// A Runner keeps no state between calls to Run, so running it twice with
// the same underlying outcomes yields the same summary.
type Runner struct {
	cases    []TestCase
	exec     cmdexec.RunFunc
	stdout   io.Writer
	stderr   io.Writer
	reporter Reporter
	newID    func() string
	now      func() time.Time
}

// Option configures a Runner.
type Option func(*Runner)

// WithExecutor replaces the program runner, typically with a fake in tests.
func WithExecutor(fn cmdexec.RunFunc) Option {
	return func(r *Runner) {
		if fn != nil {
			r.exec = fn
		}
	}
}

// WithOutput sets where test program output is streamed.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(r *Runner) {
		if stdout != nil {
			r.stdout = stdout
		}
		if stderr != nil {
			r.stderr = stderr
		}
	}
}

// WithReporter sets the progress reporter.
func WithReporter(rep Reporter) Option {
	return func(r *Runner) {
		if rep != nil {
			r.reporter = rep
		}
	}
}

// WithIDFunc overrides run ID generation.
func WithIDFunc(fn func() string) Option {
	return func(r *Runner) {
		if fn != nil {
			r.newID = fn
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		if now != nil {
			r.now = now
		}
	}
}

// NewRunner creates a runner for cases. Ordinals are reassigned from the
// slice order so they always match execution order.
//
// Parameters:
//   - cases: Test cases in execution order
//   - opts: Optional overrides (executor, output, reporter, ID, clock)
//
// Returns:
//   - *Runner: A runner ready to execute the suite
func NewRunner(cases []TestCase, opts ...Option) *Runner {
	ordered := make([]TestCase, len(cases))
	for i, tc := range cases {
		tc.Ordinal = i + 1
		ordered[i] = tc
	}

	r := &Runner{
		cases:    ordered,
		exec:     cmdexec.Run,
		stdout:   os.Stdout,
		stderr:   os.Stderr,
		reporter: nopReporter{},
		newID:    uuid.NewString,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Cases returns a copy of the suite in execution order.
func (r *Runner) Cases() []TestCase {
	out := make([]TestCase, len(r.cases))
	copy(out, r.cases)
	return out
}

// Run executes every test case in order and returns the run record.
//
// It performs the following operations:
//   - Step 1: Start a fresh Run with its own ID and zeroed counters
//   - Step 2: For each case, report the start, spawn and wait, classify, record, report the finish
//   - Step 3: Report the finished run
//
// Test failures never produce an error. The only error is ctx's, returned
// when the run is interrupted; the partial Run is still returned and reported.
//
// Parameters:
//   - ctx: Cancelling ctx kills the current test and skips the rest
//
// Returns:
//   - *Run: The run record; never nil
//   - error: ctx.Err() if interrupted, nil otherwise
func (r *Runner) Run(ctx context.Context) (*Run, error) {
	total := len(r.cases)
	run := &Run{
		ID:      r.newID(),
		Started: r.now(),
		Results: make([]TestResult, 0, total),
		Summary: Summary{Total: total},
	}
	verbose.Infof("Run %s: %d test(s)", run.ID, total)

	var runErr error
	for _, tc := range r.cases {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}

		res := r.runOne(ctx, tc, total)
		run.Results = append(run.Results, res)
		run.Summary.Record(res.Outcome)

		if err := ctx.Err(); err != nil {
			// The test was killed by the interrupt; its Fail is recorded but
			// nothing after it starts.
			runErr = err
			break
		}
	}

	run.Interrupted = runErr != nil
	run.Finished = r.now()
	r.reporter.RunFinished(run)
	return run, runErr
}

// runOne executes a single test case and builds its result.
func (r *Runner) runOne(ctx context.Context, tc TestCase, total int) TestResult {
	r.reporter.TestStarted(tc, total)

	outcome := r.exec(ctx, tc.Spec, r.stdout, r.stderr)

	res := TestResult{
		Case:     tc,
		Outcome:  OutcomeOf(outcome),
		ExitCode: outcome.ExitCode,
		Duration: outcome.Duration,
		Err:      outcome.Err,
	}
	if res.Passed() {
		verbose.Infof("Test %q passed (%v)", tc.Name, res.Duration)
	} else {
		verbose.Infof("Test %q failed: %s", tc.Name, res.Detail())
	}

	r.reporter.TestFinished(res, total)
	return res
}

// FromConfig builds the ordered test cases described by cfg.
//
// Parameters:
//   - cfg: Loaded configuration; test directories resolve against cfg.WorkingDir
//
// Returns:
//   - []TestCase: One case per configured test, in file order
func FromConfig(cfg *config.Config) []TestCase {
	cases := make([]TestCase, 0, len(cfg.Tests))
	for i, t := range cfg.Tests {
		cases = append(cases, TestCase{
			Name:    t.Name,
			Ordinal: i + 1,
			Spec: cmdexec.Spec{
				Command:        t.Command,
				Args:           append([]string(nil), t.Args...),
				Shell:          t.Shell,
				Env:            t.Env,
				Dir:            cfg.ResolveDir(t.Dir),
				TimeoutSeconds: t.TimeoutSeconds,
			},
		})
	}
	return cases
}
