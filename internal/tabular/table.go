// Package tabular reads and writes the row sets the cleaner operates on.
// CSV and XLSX transport lives here, outside the normalization core.
package tabular

import (
	"strings"

	"github.com/rotisserie/eris"
)

// Table is an in-memory sheet: one header row plus data rows. Rows may have
// fewer cells than the header; missing cells read as empty strings.
type Table struct {
	Header []string
	Rows   [][]string
}

// ColumnIndex finds a column by case-insensitive exact header match.
func (t *Table) ColumnIndex(name string) (int, error) {
	for i, h := range t.Header {
		if strings.EqualFold(strings.TrimSpace(h), strings.TrimSpace(name)) {
			return i, nil
		}
	}
	return 0, eris.Errorf("tabular: column %q not found in header %v", name, t.Header)
}

// DefaultColumn returns the first column whose header contains keyword
// (case-insensitive), falling back to the first column.
func (t *Table) DefaultColumn(keyword string) int {
	for i, h := range t.Header {
		if strings.Contains(strings.ToLower(h), strings.ToLower(keyword)) {
			return i
		}
	}
	return 0
}

// Column returns the values of one column, padding short rows with "".
func (t *Table) Column(idx int) []string {
	values := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		if idx < len(row) {
			values[i] = row[idx]
		}
	}
	return values
}

// AppendColumn adds a column to the right of the table. Short rows are
// padded to the header width first so the output stays rectangular.
func (t *Table) AppendColumn(name string, values []string) error {
	if len(values) != len(t.Rows) {
		return eris.Errorf("tabular: column %q has %d values for %d rows", name, len(values), len(t.Rows))
	}

	width := len(t.Header)
	t.Header = append(t.Header, name)
	for i := range t.Rows {
		for len(t.Rows[i]) < width {
			t.Rows[i] = append(t.Rows[i], "")
		}
		t.Rows[i] = append(t.Rows[i], values[i])
	}
	return nil
}
