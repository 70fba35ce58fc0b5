// internal/table/join.go
package table

// LeftJoin joins every fact row against at most one dimension row by key.
// Every fact row appears exactly once in the output; unmatched rows carry
// null cells for the dimension columns. The unmatched count is returned for
// the diagnostics summary.
//
// Duplicate keys in the dimension make the join ambiguous and are rejected
// with a SchemaError rather than silently picking one match.
func LeftJoin(facts, dim *Table, key string, dimCols []string) (*Table, int, error) {
	if !facts.HasColumn(key) {
		return nil, 0, &SchemaError{Column: key, Reason: "join key missing from fact table"}
	}
	if !dim.HasColumn(key) {
		return nil, 0, &SchemaError{Column: key, Reason: "join key missing from dimension table"}
	}
	for _, c := range dimCols {
		if !dim.HasColumn(c) {
			return nil, 0, &SchemaError{Column: c, Reason: "dimension column not present"}
		}
	}

	index := make(map[string]int, dim.Len())
	for i := 0; i < dim.Len(); i++ {
		k := dim.Cell(i, key).Key()
		if _, dup := index[k]; dup {
			return nil, 0, &SchemaError{Column: key, Reason: "duplicate key in dimension table"}
		}
		index[k] = i
	}

	out := New(append(facts.Columns(), dimCols...))
	unmatched := 0
	for i := 0; i < facts.Len(); i++ {
		row := facts.Row(i)
		if di, ok := index[facts.Cell(i, key).Key()]; ok {
			for _, c := range dimCols {
				row[c] = dim.Cell(di, c)
			}
		} else {
			unmatched++
			for _, c := range dimCols {
				row[c] = Null()
			}
		}
		out.Append(row)
	}
	return out, unmatched, nil
}
