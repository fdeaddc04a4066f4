package suite

import "context"

// Reporter receives progress events from a Runner.
//
// Events arrive from the runner's single control goroutine, in order:
// TestStarted and TestFinished once per executed test, then RunFinished.
//
// Standard implementation: *TextReporter
type Reporter interface {
	// TestStarted is called before the test program is spawned.
	TestStarted(tc TestCase, total int)

	// TestFinished is called after the test program has exited.
	TestFinished(res TestResult, total int)

	// RunFinished is called once, after the last test or on interruption.
	RunFinished(run *Run)
}

// TestRunner executes a suite and returns its record.
//
// Standard implementation: *Runner
type TestRunner interface {
	Run(ctx context.Context) (*Run, error)
}

var (
	_ TestRunner = (*Runner)(nil)
	_ Reporter   = (*TextReporter)(nil)
	_ Reporter   = nopReporter{}
)

type nopReporter struct{}

func (nopReporter) TestStarted(TestCase, int)   {}
func (nopReporter) TestFinished(TestResult, int) {}
func (nopReporter) RunFinished(*Run)             {}
