package suite

import (
	"fmt"
	"io"
	"strings"
)

// bannerWidth matches the width of the "=" rules around banners and the summary.
const bannerWidth = 60

// TextReporter writes the human-readable banners and the summary block.
//
// Output shape:
//
//	============================================================
//	Test 2/4: test_gameplay
//	============================================================
//	... test program output ...
//	[FAIL] test_gameplay (exit code 1)
//
// followed, after the last test, by the TEST SUMMARY block.
type TextReporter struct {
	w io.Writer
}

// NewTextReporter creates a reporter that writes to w.
func NewTextReporter(w io.Writer) *TextReporter {
	return &TextReporter{w: w}
}

func (t *TextReporter) rule() {
	_, _ = fmt.Fprintln(t.w, strings.Repeat("=", bannerWidth))
}

// TestStarted prints the banner for tc.
func (t *TextReporter) TestStarted(tc TestCase, total int) {
	_, _ = fmt.Fprintln(t.w)
	t.rule()
	_, _ = fmt.Fprintf(t.w, "Test %d/%d: %s\n", tc.Ordinal, total, tc.Name)
	t.rule()
}

// TestFinished prints the pass/fail line for res.
func (t *TextReporter) TestFinished(res TestResult, total int) {
	if res.Passed() {
		_, _ = fmt.Fprintf(t.w, "[PASS] %s\n", res.Case.Name)
		return
	}
	_, _ = fmt.Fprintf(t.w, "[FAIL] %s (%s)\n", res.Case.Name, res.Detail())
}

// RunFinished prints the summary block.
func (t *TextReporter) RunFinished(run *Run) {
	s := run.Summary

	_, _ = fmt.Fprintln(t.w)
	t.rule()
	_, _ = fmt.Fprintln(t.w, "TEST SUMMARY")
	t.rule()
	_, _ = fmt.Fprintf(t.w, "Tests Passed: %d/%d\n", s.Passed, s.Total)
	_, _ = fmt.Fprintf(t.w, "Tests Failed: %d/%d\n", s.Failed, s.Total)
	if run.Interrupted {
		_, _ = fmt.Fprintf(t.w, "Tests Not Run: %d/%d\n", s.Total-s.Passed-s.Failed, s.Total)
	}
	_, _ = fmt.Fprintln(t.w)

	switch {
	case run.Interrupted:
		_, _ = fmt.Fprintln(t.w, "Run interrupted before all tests finished.")
	case run.Passed():
		_, _ = fmt.Fprintln(t.w, "All tests passed!")
	default:
		_, _ = fmt.Fprintln(t.w, "Some tests failed. Check the output above for details.")
	}
}
