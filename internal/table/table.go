// internal/table/table.go
package table

import (
	"fmt"
	"sort"
)

// Row maps column names to cells.
type Row map[string]Cell

// Table is an immutable-by-convention rectangular table with an explicit
// column order. Every transformation returns a new table; no stage mutates
// its input.
type Table struct {
	cols []string
	rows []Row
}

// New creates an empty table with the given column order.
func New(cols []string) *Table {
	c := make([]string, len(cols))
	copy(c, cols)
	return &Table{cols: c}
}

// Columns returns the column order.
func (t *Table) Columns() []string {
	c := make([]string, len(t.cols))
	copy(c, t.cols)
	return c
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// HasColumn reports whether the table declares the named column.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.cols {
		if c == name {
			return true
		}
	}
	return false
}

// Append adds a row. Cells for undeclared columns are ignored; missing
// cells read back as null.
func (t *Table) Append(r Row) {
	row := make(Row, len(t.cols))
	for _, c := range t.cols {
		if cell, ok := r[c]; ok {
			row[c] = cell
		}
	}
	t.rows = append(t.rows, row)
}

// Cell returns the cell at row i, or a null cell when the column is absent.
func (t *Table) Cell(i int, col string) Cell {
	if cell, ok := t.rows[i][col]; ok {
		return cell
	}
	return Null()
}

// Row returns a copy of row i.
func (t *Table) Row(i int) Row {
	out := make(Row, len(t.cols))
	for k, v := range t.rows[i] {
		out[k] = v
	}
	return out
}

// WithColumns returns a new table with additional columns appended to the
// order; existing rows carry over and read null for the new columns until
// set via the returned table's Append.
func (t *Table) WithColumns(extra ...string) *Table {
	out := New(append(t.Columns(), extra...))
	for i := range t.rows {
		out.Append(t.Row(i))
	}
	return out
}

// Filter returns a new table containing the rows the predicate keeps, in
// their original order.
func (t *Table) Filter(keep func(i int) bool) *Table {
	out := New(t.cols)
	for i := range t.rows {
		if keep(i) {
			out.Append(t.Row(i))
		}
	}
	return out
}

// SortByNumber returns a new table stably sorted by a numeric column.
// Ties keep their original order; null cells sort after all values.
// Descending is the reporting default (largest contributors first).
func (t *Table) SortByNumber(col string, descending bool) (*Table, error) {
	if !t.HasColumn(col) {
		return nil, &SchemaError{Column: col, Reason: "sort column not present"}
	}
	idx := make([]int, len(t.rows))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		va, oka := t.Cell(idx[a], col).AsNumber()
		vb, okb := t.Cell(idx[b], col).AsNumber()
		if oka != okb {
			return oka // valid values before nulls
		}
		if !oka {
			return false
		}
		if descending {
			return va > vb
		}
		return va < vb
	})
	out := New(t.cols)
	for _, i := range idx {
		out.Append(t.Row(i))
	}
	return out, nil
}

// TopN returns the first n rows after a stable descending sort on col.
// Equal values keep their pre-sort order, so ties break by original
// encounter order.
func (t *Table) TopN(col string, n int) (*Table, error) {
	sorted, err := t.SortByNumber(col, true)
	if err != nil {
		return nil, err
	}
	if n >= sorted.Len() {
		return sorted, nil
	}
	out := New(sorted.cols)
	for i := 0; i < n; i++ {
		out.Append(sorted.Row(i))
	}
	return out, nil
}

// SchemaError reports a fatal structural problem: a required column or join
// key is missing, or a join would be ambiguous. It aborts the requested
// report; nothing partial is returned alongside it.
type SchemaError struct {
	Column string
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema error on column %q: %s", e.Column, e.Reason)
}
