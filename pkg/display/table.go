package display

import (
	"fmt"
	"io"
	"strings"
)

// Column represents a single table column with its header and current width.
type Column struct {
	Header string
	Width  int
	hidden bool
}

// Table provides a flexible table formatter with dynamic, Unicode-aware
// column widths.
type Table struct {
	columns   []Column
	separator string
}

// NewTable creates a new table formatter with a default two-space separator.
func NewTable() *Table {
	return &Table{separator: "  "}
}

// WithSeparator sets a custom column separator and returns the table.
func (t *Table) WithSeparator(sep string) *Table {
	t.separator = sep
	return t
}

// AddColumn adds a column sized to its header's display width.
func (t *Table) AddColumn(header string) *Table {
	t.columns = append(t.columns, Column{Header: header, Width: DisplayWidth(header)})
	return t
}

// AddColumnWithMinWidth adds a column with a minimum width guarantee.
func (t *Table) AddColumnWithMinWidth(header string, minWidth int) *Table {
	t.columns = append(t.columns, Column{Header: header, Width: Max(DisplayWidth(header), minWidth)})
	return t
}

// AddConditionalColumn adds a column whose initial visibility is given
// explicitly, for columns that should only appear when relevant data exists.
func (t *Table) AddConditionalColumn(header string, visible bool) *Table {
	t.columns = append(t.columns, Column{Header: header, Width: DisplayWidth(header), hidden: !visible})
	return t
}

// UpdateWidths expands each column's width to fit the given row of values.
func (t *Table) UpdateWidths(values ...string) *Table {
	for i, val := range values {
		if i < len(t.columns) {
			if w := DisplayWidth(val); w > t.columns[i].Width {
				t.columns[i].Width = w
			}
		}
	}
	return t
}

// HeaderRow returns the formatted header row, excluding hidden columns.
func (t *Table) HeaderRow() string {
	var parts []string
	for _, col := range t.columns {
		if !col.hidden {
			parts = append(parts, ToWidth(col.Header, col.Width))
		}
	}
	return strings.Join(parts, t.separator)
}

// SeparatorRow returns a dashed divider line matching the header widths.
func (t *Table) SeparatorRow() string {
	var parts []string
	for _, col := range t.columns {
		if !col.hidden {
			parts = append(parts, strings.Repeat("-", col.Width))
		}
	}
	return strings.Join(parts, t.separator)
}

// FormatRow formats a data row, padding each value to its column's width.
// Values are positional against all columns, visible or not.
func (t *Table) FormatRow(values ...string) string {
	var parts []string
	for i, col := range t.columns {
		if !col.hidden {
			val := ""
			if i < len(values) {
				val = values[i]
			}
			parts = append(parts, ToWidth(val, col.Width))
		}
	}
	return strings.Join(parts, t.separator)
}

// VisibleColumnCount returns the number of columns that aren't hidden.
func (t *Table) VisibleColumnCount() int {
	count := 0
	for _, col := range t.columns {
		if !col.hidden {
			count++
		}
	}
	return count
}

// Fprint writes the header and separator rows to w.
func (t *Table) Fprint(w io.Writer) {
	_, _ = fmt.Fprintln(w, t.HeaderRow())
	_, _ = fmt.Fprintln(w, t.SeparatorRow())
}
