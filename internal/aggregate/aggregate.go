// internal/aggregate/aggregate.go
package aggregate

import (
	"fmt"
	"strings"

	"github.com/andresuchdata/deliveryperf/backend-go/internal/table"
)

// Aggregation operations.
const (
	OpCount       = "count"
	OpSum         = "sum"
	OpUniqueCount = "unique_count"
	OpMean        = "mean"
)

// Metric maps one output column to a source column and an operation.
// Metrics are a slice, not a map, so output column order is explicit.
type Metric struct {
	Name   string
	Column string
	Op     string
}

type group struct {
	key   string
	first int   // row index of first occurrence, for the group key cells
	rows  []int // member row indices in encounter order
}

// Aggregate groups a table by one or more key columns and computes the
// requested metrics per group. Groups appear in encounter order of their
// first occurrence; any ranking happens downstream as an explicit stable
// sort. A group only exists when at least one source row produced it.
// Rows with a null cell in any group key are skipped: a missing dimension
// value is not a group of its own. Callers surface those rows through the
// diagnostics summary instead.
//
// count and unique_count consider non-null cells of the source column;
// sum skips null cells; mean is the sum over the non-null count and is
// null for an all-null group.
func Aggregate(t *table.Table, groupKeys []string, metrics []Metric) (*table.Table, error) {
	if len(groupKeys) == 0 {
		return nil, &table.SchemaError{Column: "", Reason: "at least one group key required"}
	}
	for _, k := range groupKeys {
		if !t.HasColumn(k) {
			return nil, &table.SchemaError{Column: k, Reason: "group key not present"}
		}
	}
	for _, m := range metrics {
		if !t.HasColumn(m.Column) {
			return nil, &table.SchemaError{Column: m.Column, Reason: fmt.Sprintf("metric source for %q not present", m.Name)}
		}
		switch m.Op {
		case OpCount, OpSum, OpUniqueCount, OpMean:
		default:
			return nil, &table.SchemaError{Column: m.Column, Reason: fmt.Sprintf("unknown aggregation op %q", m.Op)}
		}
	}

	byKey := make(map[string]*group)
	var order []*group
	for i := 0; i < t.Len(); i++ {
		parts := make([]string, len(groupKeys))
		nullKey := false
		for j, k := range groupKeys {
			c := t.Cell(i, k)
			if c.IsNull() {
				nullKey = true
				break
			}
			parts[j] = c.Key()
		}
		if nullKey {
			continue
		}
		key := strings.Join(parts, "\x1f")
		g, ok := byKey[key]
		if !ok {
			g = &group{key: key, first: i}
			byKey[key] = g
			order = append(order, g)
		}
		g.rows = append(g.rows, i)
	}

	cols := make([]string, 0, len(groupKeys)+len(metrics))
	cols = append(cols, groupKeys...)
	for _, m := range metrics {
		cols = append(cols, m.Name)
	}
	out := table.New(cols)

	for _, g := range order {
		row := make(table.Row, len(cols))
		for _, k := range groupKeys {
			row[k] = t.Cell(g.first, k)
		}
		for _, m := range metrics {
			row[m.Name] = apply(t, g.rows, m)
		}
		out.Append(row)
	}
	return out, nil
}

func apply(t *table.Table, rows []int, m Metric) table.Cell {
	switch m.Op {
	case OpCount:
		n := 0
		for _, i := range rows {
			if !t.Cell(i, m.Column).IsNull() {
				n++
			}
		}
		return table.Number(float64(n))
	case OpUniqueCount:
		seen := make(map[string]struct{})
		for _, i := range rows {
			c := t.Cell(i, m.Column)
			if c.IsNull() {
				continue
			}
			seen[c.Key()] = struct{}{}
		}
		return table.Number(float64(len(seen)))
	case OpSum:
		var sum float64
		for _, i := range rows {
			if v, ok := t.Cell(i, m.Column).AsNumber(); ok {
				sum += v
			}
		}
		return table.Number(sum)
	case OpMean:
		var sum float64
		n := 0
		for _, i := range rows {
			if v, ok := t.Cell(i, m.Column).AsNumber(); ok {
				sum += v
				n++
			}
		}
		if n == 0 {
			return table.Null()
		}
		return table.Number(sum / float64(n))
	}
	return table.Null()
}
