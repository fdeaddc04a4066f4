// Package output renders run results: the per-test results table and the
// structured CSV, JSON, and XML run reports.
package output

import (
	"encoding/csv"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// Format represents the output format type.
type Format string

const (
	// FormatTable is the default terminal table output.
	FormatTable Format = "table"
	// FormatCSV outputs data as comma-separated values.
	FormatCSV Format = "csv"
	// FormatJSON outputs data as JSON.
	FormatJSON Format = "json"
	// FormatXML outputs data as XML.
	FormatXML Format = "xml"
)

// ParseFormat parses a format string into a Format type.
//
// The parsing is case-insensitive and ignores surrounding whitespace.
//
// Parameters:
//   - s: Format string to parse (e.g., "csv", "JSON", "table")
//
// Returns:
//   - Format: The parsed format
//   - error: When s names no known format
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "table":
		return FormatTable, nil
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "xml":
		return FormatXML, nil
	default:
		return "", fmt.Errorf("unknown output format %q (valid: table, json, xml, csv)", s)
	}
}

// IsStructuredFormat returns true if the format produces a machine-readable
// report rather than the terminal table.
func IsStructuredFormat(f Format) bool {
	return f == FormatCSV || f == FormatJSON || f == FormatXML
}

// Formatter handles writing data in a specific format.
//
// Fields:
//   - format: The output format
//   - writer: Destination for formatted output
type Formatter struct {
	format Format
	writer io.Writer
}

// NewFormatter creates a new formatter for the given format and writer.
func NewFormatter(format Format, writer io.Writer) *Formatter {
	return &Formatter{
		format: format,
		writer: writer,
	}
}

// Format returns the current format.
func (f *Formatter) Format() Format {
	return f.format
}

// WriteCSV writes a header row and data rows as CSV.
//
// Note: csv.Writer buffers all writes and only reports errors via Error() after Flush().
//
// Parameters:
//   - headers: Column headers for the CSV
//   - rows: Data rows, each with as many columns as headers
//
// Returns:
//   - error: When write or flush fails; otherwise nil
func (f *Formatter) WriteCSV(headers []string, rows [][]string) error {
	w := csv.NewWriter(f.writer)

	_ = w.Write(headers)
	for _, row := range rows {
		_ = w.Write(row)
	}

	w.Flush()
	return w.Error()
}

// WriteXML writes data as indented XML preceded by the XML header.
//
// Parameters:
//   - data: Data structure to encode (must have xml tags)
//
// Returns:
//   - error: When encoding fails; otherwise nil
func (f *Formatter) WriteXML(data interface{}) error {
	_, _ = fmt.Fprint(f.writer, xml.Header)
	encoder := xml.NewEncoder(f.writer)
	encoder.Indent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(f.writer)
	return nil
}
