// internal/normalize/normalize.go
package normalize

import (
	"strconv"
	"strings"
	"time"

	"github.com/andresuchdata/deliveryperf/backend-go/internal/table"
)

// ColumnSpec declares the expected type of one input column. Layout is the
// single date layout used for KindDate columns (Go reference time form).
type ColumnSpec struct {
	Name   string
	Kind   table.Kind
	Layout string
}

// Report counts per-column coercion failures. Failures never abort a
// column; the offending cell becomes null and the row is retained.
type Report struct {
	Failures map[string]int
}

// Total returns the sum of all per-column failure counts.
func (r Report) Total() int {
	n := 0
	for _, c := range r.Failures {
		n += c
	}
	return n
}

// Normalize coerces raw string columns into a typed table following the
// column specs, in spec order. Every spec column must be present and all
// columns must have equal length (rectangular input); violations are
// SchemaErrors. Empty cells become null without counting as a failure:
// an absent actual delivery date is legitimate data, not a coercion bug.
func Normalize(raw map[string][]string, specs []ColumnSpec) (*table.Table, Report, error) {
	rep := Report{Failures: make(map[string]int)}

	rows := -1
	for _, spec := range specs {
		col, ok := raw[spec.Name]
		if !ok {
			return nil, rep, &table.SchemaError{Column: spec.Name, Reason: "required column missing"}
		}
		if rows == -1 {
			rows = len(col)
		} else if len(col) != rows {
			return nil, rep, &table.SchemaError{Column: spec.Name, Reason: "column length differs from table (non-tabular input)"}
		}
	}
	if rows < 0 {
		rows = 0
	}

	cols := make([]string, len(specs))
	for i, s := range specs {
		cols[i] = s.Name
	}
	out := table.New(cols)

	for i := 0; i < rows; i++ {
		row := make(table.Row, len(specs))
		for _, spec := range specs {
			cell, failed := coerce(raw[spec.Name][i], spec)
			if failed {
				rep.Failures[spec.Name]++
			}
			row[spec.Name] = cell
		}
		out.Append(row)
	}
	return out, rep, nil
}

// coerce converts one raw value. The second return reports a genuine
// coercion failure (non-empty value that did not parse).
func coerce(v string, spec ColumnSpec) (table.Cell, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return table.Null(), false
	}
	switch spec.Kind {
	case table.KindNumber:
		f, err := strconv.ParseFloat(strings.ReplaceAll(v, ",", ""), 64)
		if err != nil {
			return table.Null(), true
		}
		return table.Number(f), false
	case table.KindDate:
		layout := spec.Layout
		if layout == "" {
			layout = "1/2/2006"
		}
		t, err := time.Parse(layout, v)
		if err != nil {
			return table.Null(), true
		}
		return table.Date(t), false
	default:
		return table.String(v), false
	}
}
