package output

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/iancoleman/orderedmap"

	"github.com/ajxudir/acerun/pkg/suite"
)

// TestRecord is one test's entry in a run report.
type TestRecord struct {
	XMLName    xml.Name `json:"-" xml:"test"`
	Ordinal    int      `json:"ordinal" xml:"ordinal,attr"`
	Name       string   `json:"name" xml:"name,attr"`
	Command    string   `json:"command" xml:"command"`
	Result     string   `json:"result" xml:"result"`
	ExitCode   int      `json:"exit_code" xml:"exit_code"`
	DurationMS int64    `json:"duration_ms" xml:"duration_ms"`
	Error      string   `json:"error,omitempty" xml:"error,omitempty"`
}

// RunReport is the structured form of a suite.Run.
type RunReport struct {
	XMLName     xml.Name     `json:"-" xml:"run"`
	RunID       string       `json:"run_id" xml:"id,attr"`
	Started     string       `json:"started" xml:"started"`
	DurationMS  int64        `json:"duration_ms" xml:"duration_ms"`
	Passed      int          `json:"passed" xml:"summary>passed"`
	Failed      int          `json:"failed" xml:"summary>failed"`
	Total       int          `json:"total" xml:"summary>total"`
	ExitCode    int          `json:"exit_code" xml:"summary>exit_code"`
	Interrupted bool         `json:"interrupted" xml:"summary>interrupted"`
	Tests       []TestRecord `json:"tests" xml:"tests>test"`
}

// NewRunReport converts run into its report form.
func NewRunReport(run *suite.Run) *RunReport {
	r := &RunReport{
		RunID:       run.ID,
		Started:     run.Started.UTC().Format(time.RFC3339),
		DurationMS:  run.Duration().Milliseconds(),
		Passed:      run.Summary.Passed,
		Failed:      run.Summary.Failed,
		Total:       run.Summary.Total,
		ExitCode:    run.ExitCode(),
		Interrupted: run.Interrupted,
		Tests:       make([]TestRecord, 0, len(run.Results)),
	}
	for _, res := range run.Results {
		rec := TestRecord{
			Ordinal:    res.Case.Ordinal,
			Name:       res.Case.Name,
			Command:    res.Case.Spec.String(),
			Result:     string(res.Outcome),
			ExitCode:   res.ExitCode,
			DurationMS: res.Duration.Milliseconds(),
		}
		if res.Err != nil {
			rec.Error = res.Err.Error()
		}
		r.Tests = append(r.Tests, rec)
	}
	return r
}

// WriteRunReport writes run in the specified structured format.
//
// Parameters:
//   - w: Destination writer for the report
//   - format: FormatJSON, FormatXML, or FormatCSV
//   - run: The finished (or interrupted) run
//
// Returns:
//   - error: When format is not structured or the write fails
func WriteRunReport(w io.Writer, format Format, run *suite.Run) error {
	report := NewRunReport(run)
	formatter := NewFormatter(format, w)

	switch format {
	case FormatJSON:
		return writeRunJSON(w, report)
	case FormatXML:
		return formatter.WriteXML(report)
	case FormatCSV:
		return writeRunCSV(formatter, report)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// writeRunJSON writes the report with tests keyed by name in run order.
func writeRunJSON(w io.Writer, report *RunReport) error {
	tests := orderedmap.New()
	tests.SetEscapeHTML(false)
	for _, rec := range report.Tests {
		tests.Set(rec.Name, rec)
	}

	doc := orderedmap.New()
	doc.SetEscapeHTML(false)
	doc.Set("run_id", report.RunID)
	doc.Set("started", report.Started)
	doc.Set("duration_ms", report.DurationMS)
	doc.Set("summary", map[string]interface{}{
		"passed":      report.Passed,
		"failed":      report.Failed,
		"total":       report.Total,
		"exit_code":   report.ExitCode,
		"interrupted": report.Interrupted,
	})
	doc.Set("tests", tests)

	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(doc); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}

func writeRunCSV(f *Formatter, report *RunReport) error {
	headers := []string{"RUN_ID", "ORDINAL", "NAME", "RESULT", "EXIT_CODE", "DURATION_MS", "COMMAND", "ERROR"}
	rows := make([][]string, 0, len(report.Tests))
	for _, rec := range report.Tests {
		rows = append(rows, []string{
			report.RunID,
			strconv.Itoa(rec.Ordinal),
			rec.Name,
			rec.Result,
			strconv.Itoa(rec.ExitCode),
			strconv.FormatInt(rec.DurationMS, 10),
			rec.Command,
			rec.Error,
		})
	}
	return f.WriteCSV(headers, rows)
}

// WriteResultsTable prints one row per executed test.
//
// Output shape:
//
//	#  TEST            RESULT  EXIT  DURATION
//	-  --------------  ------  ----  --------
//	1  test_simple     PASS    0     1.2s
func WriteResultsTable(w io.Writer, run *suite.Run) {
	t := NewTable("#", "TEST", "RESULT", "EXIT", "DURATION")
	for _, res := range run.Results {
		t.AddRow(
			strconv.Itoa(res.Case.Ordinal),
			res.Case.Name,
			string(res.Outcome),
			strconv.Itoa(res.ExitCode),
			FormatDuration(res.Duration),
		)
	}
	_, _ = fmt.Fprintln(w)
	t.Fprint(w)
}

// FormatDuration renders d rounded for display: milliseconds under a second,
// tenths of a second otherwise.
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	return d.Round(100 * time.Millisecond).String()
}
