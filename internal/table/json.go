// internal/table/json.go
package table

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// MarshalJSON encodes the table as {"columns": [...], "rows": [[...], ...]}
// with every row serialized in column order. The encoding is deterministic:
// identical tables always produce identical bytes.
func (t *Table) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"columns":`)
	cols, err := json.Marshal(t.cols)
	if err != nil {
		return nil, err
	}
	buf.Write(cols)
	buf.WriteString(`,"rows":[`)
	for i := range t.rows {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('[')
		for j, c := range t.cols {
			if j > 0 {
				buf.WriteByte(',')
			}
			cell, err := json.Marshal(t.Cell(i, c))
			if err != nil {
				return nil, err
			}
			buf.Write(cell)
		}
		buf.WriteByte(']')
	}
	buf.WriteString(`]}`)
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes the MarshalJSON form. Used by the cache layer when
// rehydrating stored results.
func (t *Table) UnmarshalJSON(data []byte) error {
	var raw struct {
		Columns []string            `json:"columns"`
		Rows    [][]json.RawMessage `json:"rows"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*t = *New(raw.Columns)
	for _, r := range raw.Rows {
		if len(r) != len(raw.Columns) {
			return fmt.Errorf("row width %d does not match %d columns", len(r), len(raw.Columns))
		}
		row := make(Row, len(raw.Columns))
		for i, cell := range r {
			c, err := decodeCell(cell)
			if err != nil {
				return err
			}
			row[raw.Columns[i]] = c
		}
		t.Append(row)
	}
	return nil
}

// decodeCell maps JSON null/number/string back onto cells. Date cells round-
// trip as strings; downstream consumers of cached tables only read values,
// so the loss of the date kind is acceptable there.
func decodeCell(data json.RawMessage) (Cell, error) {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return Null(), err
	}
	switch x := v.(type) {
	case nil:
		return Null(), nil
	case float64:
		return Number(x), nil
	case string:
		return String(x), nil
	default:
		return Null(), fmt.Errorf("unsupported cell value %T", v)
	}
}
