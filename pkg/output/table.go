package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// DisplayWidth returns the number of terminal cells val occupies; wide
// characters such as CJK and emoji count as two.
func DisplayWidth(val string) int {
	return runewidth.StringWidth(val)
}

// ToWidth pads val with spaces to width display cells. Values already at or
// beyond width are returned unchanged.
func ToWidth(val string, width int) string {
	if width <= 0 {
		return val
	}
	current := DisplayWidth(val)
	if current >= width {
		return val
	}
	return val + strings.Repeat(" ", width-current)
}

// Column represents a single table column with its header and current width.
type Column struct {
	Header string
	Width  int
}

// Table lays out rows in columns sized to their widest value.
//
// Fields:
//   - columns: Columns with their headers and widths
//   - rows: Buffered data rows
//   - separator: String placed between columns (default: "  ")
type Table struct {
	columns   []Column
	rows      [][]string
	separator string
}

// NewTable creates a table with the given column headers.
//
// Parameters:
//   - headers: Column headers, left to right
//
// Returns:
//   - *Table: A table whose columns start at their header widths
func NewTable(headers ...string) *Table {
	t := &Table{separator: "  "}
	for _, h := range headers {
		t.columns = append(t.columns, Column{Header: h, Width: DisplayWidth(h)})
	}
	return t
}

// WithSeparator sets a custom column separator and returns the table.
func (t *Table) WithSeparator(sep string) *Table {
	t.separator = sep
	return t
}

// AddRow buffers a data row and widens columns to fit it. Values beyond the
// column count are ignored; missing values render empty.
func (t *Table) AddRow(values ...string) *Table {
	row := make([]string, len(t.columns))
	for i := range t.columns {
		if i < len(values) {
			row[i] = values[i]
			if w := DisplayWidth(values[i]); w > t.columns[i].Width {
				t.columns[i].Width = w
			}
		}
	}
	t.rows = append(t.rows, row)
	return t
}

// HeaderRow returns the formatted header row.
func (t *Table) HeaderRow() string {
	parts := make([]string, len(t.columns))
	for i, col := range t.columns {
		parts[i] = ToWidth(col.Header, col.Width)
	}
	return strings.TrimRight(strings.Join(parts, t.separator), " ")
}

// SeparatorRow returns a row of dashes matching the column widths.
func (t *Table) SeparatorRow() string {
	parts := make([]string, len(t.columns))
	for i, col := range t.columns {
		parts[i] = strings.Repeat("-", col.Width)
	}
	return strings.Join(parts, t.separator)
}

// FormatRow pads each value to its column's width.
func (t *Table) FormatRow(values ...string) string {
	parts := make([]string, len(t.columns))
	for i, col := range t.columns {
		val := ""
		if i < len(values) {
			val = values[i]
		}
		parts[i] = ToWidth(val, col.Width)
	}
	return strings.TrimRight(strings.Join(parts, t.separator), " ")
}

// ColumnCount returns the number of columns.
func (t *Table) ColumnCount() int {
	return len(t.columns)
}

// ColumnWidth returns the width of a column by index, 0 when out of range.
func (t *Table) ColumnWidth(index int) int {
	if index >= 0 && index < len(t.columns) {
		return t.columns[index].Width
	}
	return 0
}

// Fprint writes the header, separator, and every buffered row to w.
func (t *Table) Fprint(w io.Writer) {
	_, _ = fmt.Fprintln(w, t.HeaderRow())
	_, _ = fmt.Fprintln(w, t.SeparatorRow())
	for _, row := range t.rows {
		_, _ = fmt.Fprintln(w, t.FormatRow(row...))
	}
}

// String returns a representation of the table layout for debugging, in the
// form "Table{columns: [Header1:Width1, Header2:Width2], rows: N}".
func (t *Table) String() string {
	var sb strings.Builder
	sb.WriteString("Table{columns: [")
	for i, col := range t.columns {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(fmt.Sprintf("%s:%d", col.Header, col.Width))
	}
	sb.WriteString(fmt.Sprintf("], rows: %d}", len(t.rows)))
	return sb.String()
}
