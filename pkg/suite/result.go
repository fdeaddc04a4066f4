package suite

import (
	"fmt"
	"time"

	"github.com/ajxudir/acerun/pkg/cmdexec"
	"github.com/ajxudir/acerun/pkg/errors"
)

// Outcome is the verdict for one test program.
type Outcome string

const (
	// Pass means the program exited with status 0.
	Pass Outcome = "PASS"
	// Fail means the program exited nonzero or could not be started.
	Fail Outcome = "FAIL"
)

// OutcomeOf classifies a finished program solely by its exit status.
func OutcomeOf(o cmdexec.Outcome) Outcome {
	if o.Success() {
		return Pass
	}
	return Fail
}

// TestCase is one test program at a fixed position in the suite.
//
// Fields:
//   - Name: Identifier shown in banners and reports
//   - Ordinal: 1-based position in the suite
//   - Spec: How to invoke the program
type TestCase struct {
	Name    string
	Ordinal int
	Spec    cmdexec.Spec
}

// TestResult is the immutable record of one finished TestCase.
//
// Fields:
//   - Case: The test that ran
//   - Outcome: Pass or Fail
//   - ExitCode: Exit status, or a synthesized code when the program never exited normally
//   - Duration: How long the program ran
//   - Err: Launch, timeout, or cancellation diagnostic; nil for a normal exit
type TestResult struct {
	Case     TestCase
	Outcome  Outcome
	ExitCode int
	Duration time.Duration
	Err      error
}

// Passed reports whether the test passed.
func (r TestResult) Passed() bool {
	return r.Outcome == Pass
}

// Detail returns a short reason for a failure, empty for a pass.
func (r TestResult) Detail() string {
	if r.Passed() {
		return ""
	}
	if r.Err != nil {
		return r.Err.Error()
	}
	return fmt.Sprintf("exit code %d", r.ExitCode)
}

// Summary tallies outcomes for one run.
//
// Fields:
//   - Passed: Number of tests that passed
//   - Failed: Number of tests that failed
//   - Total: Number of tests in the suite, fixed when the run starts
type Summary struct {
	Passed int
	Failed int
	Total  int
}

// Record counts one outcome.
func (s *Summary) Record(o Outcome) {
	if o == Pass {
		s.Passed++
		return
	}
	s.Failed++
}

// Complete reports whether every test in the suite has an outcome.
func (s Summary) Complete() bool {
	return s.Passed+s.Failed == s.Total
}

// ExitCode returns 0 only when every test ran and passed, 1 otherwise.
func (s Summary) ExitCode() int {
	if s.Failed == 0 && s.Complete() {
		return errors.ExitSuccess
	}
	return errors.ExitTestsFailed
}

// Run is the complete record of one orchestrator invocation.
//
// Fields:
//   - ID: Unique identifier of the run, carried into reports
//   - Started: When the first test was about to start
//   - Finished: When the last test finished or the run was interrupted
//   - Results: One entry per executed test, in suite order
//   - Summary: Pass/fail tallies
//   - Interrupted: True when the run stopped before every test ran
type Run struct {
	ID          string
	Started     time.Time
	Finished    time.Time
	Results     []TestResult
	Summary     Summary
	Interrupted bool
}

// Passed reports whether every test ran and passed.
func (r *Run) Passed() bool {
	return r.Summary.ExitCode() == errors.ExitSuccess
}

// ExitCode returns the process exit code the run calls for.
func (r *Run) ExitCode() int {
	if r.Interrupted {
		return errors.ExitInterrupted
	}
	return r.Summary.ExitCode()
}

// Duration is the wall-clock length of the run.
func (r *Run) Duration() time.Duration {
	return r.Finished.Sub(r.Started)
}

// FailedTests returns the results of tests that failed, in suite order.
func (r *Run) FailedTests() []TestResult {
	var failed []TestResult
	for _, res := range r.Results {
		if !res.Passed() {
			failed = append(failed, res)
		}
	}
	return failed
}
